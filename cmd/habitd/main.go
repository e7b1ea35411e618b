package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"github.com/sandeepkv93/habitd/internal/reminder"
	"github.com/sandeepkv93/habitd/internal/storage"
	"github.com/sandeepkv93/habitd/internal/tracker"
	"github.com/sandeepkv93/habitd/internal/update"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "habitd failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Optional .env next to the binary; absence is fine.
	_ = godotenv.Load()
	cfg := update.RuntimeConfigFromEnv(update.DefaultRuntimeConfig())

	logFile, err := os.OpenFile(cfg.LogPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer logFile.Close()
	log := slog.New(slog.NewTextHandler(logFile, nil))

	repo, err := storage.OpenSQLite(cfg.DBPath)
	if err != nil {
		return err
	}
	defer repo.Close()
	if err := storage.MigrateUp(repo.DB()); err != nil {
		return err
	}

	backend := reminder.NewLocalBackend(cfg.SchedulerBuffer)
	backend.Start()
	defer backend.Stop()

	planner := reminder.NewPlanner(backend, log)
	manager := tracker.NewManager(repo, planner, log)

	ctx := context.Background()
	loadErr := manager.LoadAll(ctx)
	if loadErr != nil {
		// Start with an empty list and surface the failure in the UI.
		log.Error("load tasks failed", "error", loadErr)
	}
	// The in-process backend holds no state across runs, so rebuild every
	// enabled task's weekly trigger set.
	for _, task := range manager.Tasks() {
		if task.ReminderEnabled {
			planner.Sync(ctx, task)
		}
	}

	model := update.NewModel(manager, backend, cfg)
	program := tea.NewProgram(model)
	if loadErr != nil {
		go program.Send(update.AppErrorMsg{Err: loadErr})
	}
	if _, err := program.Run(); err != nil {
		return err
	}
	return nil
}
