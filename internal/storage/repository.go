package storage

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("storage: not found")

type Repository interface {
	CreateTask(ctx context.Context, in Task) error
	GetTask(ctx context.Context, id string) (Task, error)
	UpdateTask(ctx context.Context, in Task) error
	DeleteTask(ctx context.Context, id string) error
	DeleteAllTasks(ctx context.Context) error
	ListTasks(ctx context.Context) ([]Task, error)

	CreateCompletion(ctx context.Context, in Completion) error
	UpdateCompletionNote(ctx context.Context, id string, note string) error
	DeleteCompletion(ctx context.Context, id string) error
	ListCompletions(ctx context.Context, filter CompletionListFilter) ([]Completion, error)
}
