package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const sqliteTimeLayout = time.RFC3339Nano

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) (*SQLiteRepository, error) {
	if db == nil {
		return nil, errors.New("storage: nil db")
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	return &SQLiteRepository{db: db}, nil
}

func OpenSQLite(path string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	repo, err := NewSQLiteRepository(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}

func (r *SQLiteRepository) DB() *sql.DB {
	return r.db
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

func (r *SQLiteRepository) CreateTask(ctx context.Context, in Task) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO tasks (id, name, description, reminder_enabled, reminder_hour, reminder_minute, week_mask, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		in.ID, in.Name, in.Description, boolInt(in.ReminderEnabled),
		in.ReminderHour, in.ReminderMinute, in.WeekMask, mustTime(in.CreatedAt),
	)
	return err
}

func (r *SQLiteRepository) GetTask(ctx context.Context, id string) (Task, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, description, reminder_enabled, reminder_hour, reminder_minute, week_mask, created_at
		FROM tasks WHERE id = ?`, id)
	task, err := scanTask(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Task{}, ErrNotFound
		}
		return Task{}, err
	}
	return task, nil
}

func (r *SQLiteRepository) UpdateTask(ctx context.Context, in Task) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE tasks
		SET name = ?, description = ?, reminder_enabled = ?, reminder_hour = ?, reminder_minute = ?, week_mask = ?
		WHERE id = ?`,
		in.Name, in.Description, boolInt(in.ReminderEnabled),
		in.ReminderHour, in.ReminderMinute, in.WeekMask, in.ID,
	)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func (r *SQLiteRepository) DeleteTask(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func (r *SQLiteRepository) DeleteAllTasks(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM tasks`)
	return err
}

func (r *SQLiteRepository) ListTasks(ctx context.Context) ([]Task, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, description, reminder_enabled, reminder_hour, reminder_minute, week_mask, created_at
		FROM tasks ORDER BY created_at ASC, id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Task, 0)
	for rows.Next() {
		task, scanErr := scanTask(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		out = append(out, task)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) CreateCompletion(ctx context.Context, in Completion) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO completions (id, task_id, date, note, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		in.ID, in.TaskID, mustTime(in.Date), in.Note, mustTime(in.CreatedAt),
	)
	return err
}

func (r *SQLiteRepository) UpdateCompletionNote(ctx context.Context, id string, note string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE completions SET note = ? WHERE id = ?`, note, id)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func (r *SQLiteRepository) DeleteCompletion(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM completions WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func (r *SQLiteRepository) ListCompletions(ctx context.Context, filter CompletionListFilter) ([]Completion, error) {
	query := `SELECT id, task_id, date, note, created_at FROM completions`
	args := make([]any, 0, 3)
	if filter.TaskID != "" {
		query += ` WHERE task_id = ?`
		args = append(args, filter.TaskID)
	}
	query += ` ORDER BY created_at ASC, id ASC`
	query += applyPagination(&args, filter.Limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Completion, 0)
	for rows.Next() {
		item, scanErr := scanCompletion(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

func mustTime(v time.Time) string {
	return v.Format(sqliteTimeLayout)
}

func parseRequiredTime(v string) (time.Time, error) {
	return time.Parse(sqliteTimeLayout, v)
}

func boolInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

func applyPagination(args *[]any, limit, offset int) string {
	sql := ""
	if limit > 0 {
		sql += " LIMIT ?"
		*args = append(*args, limit)
	}
	if offset > 0 {
		sql += " OFFSET ?"
		*args = append(*args, offset)
	}
	return sql
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(s scanner) (Task, error) {
	var out Task
	var enabled int
	var created string
	if err := s.Scan(&out.ID, &out.Name, &out.Description, &enabled, &out.ReminderHour, &out.ReminderMinute, &out.WeekMask, &created); err != nil {
		return Task{}, err
	}
	createdAt, err := parseRequiredTime(created)
	if err != nil {
		return Task{}, err
	}
	out.ReminderEnabled = enabled == 1
	out.CreatedAt = createdAt
	return out, nil
}

func scanCompletion(s scanner) (Completion, error) {
	var out Completion
	var date string
	var created string
	if err := s.Scan(&out.ID, &out.TaskID, &date, &out.Note, &created); err != nil {
		return Completion{}, err
	}
	dateAt, err := parseRequiredTime(date)
	if err != nil {
		return Completion{}, err
	}
	createdAt, err := parseRequiredTime(created)
	if err != nil {
		return Completion{}, err
	}
	out.Date = dateAt
	out.CreatedAt = createdAt
	return out, nil
}

func checkRowsAffected(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
