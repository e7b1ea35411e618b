package storage

import (
	"database/sql"
	"embed"
	"fmt"
	"sort"
	"strings"
)

//go:embed migrations/*.sql
var schemaFS embed.FS

// MigrateUp applies every up script in lexical order, creating the habit and
// completion tables on a fresh database.
func MigrateUp(db *sql.DB) error {
	return runSchemaScripts(db, ".up.sql")
}

// MigrateDown tears the schema back down, for tests and full resets.
func MigrateDown(db *sql.DB) error {
	return runSchemaScripts(db, ".down.sql")
}

func runSchemaScripts(db *sql.DB, suffix string) error {
	entries, err := schemaFS.ReadDir("migrations")
	if err != nil {
		return fmt.Errorf("list schema scripts: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), suffix) {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		script, err := schemaFS.ReadFile("migrations/" + name)
		if err != nil {
			return fmt.Errorf("read schema script %s: %w", name, err)
		}
		if _, err := db.Exec(string(script)); err != nil {
			return fmt.Errorf("run schema script %s: %w", name, err)
		}
	}
	return nil
}
