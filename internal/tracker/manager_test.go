package tracker

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/sandeepkv93/habitd/internal/habit"
	"github.com/sandeepkv93/habitd/internal/reminder"
	"github.com/sandeepkv93/habitd/internal/storage"
)

// memStore is an in-memory Repository with injectable failures.
type memStore struct {
	tasks       []storage.Task
	completions []storage.Completion
	listErr     error
	writeErr    error
}

func (s *memStore) CreateTask(ctx context.Context, in storage.Task) error {
	if s.writeErr != nil {
		return s.writeErr
	}
	s.tasks = append(s.tasks, in)
	return nil
}

func (s *memStore) GetTask(ctx context.Context, id string) (storage.Task, error) {
	for _, t := range s.tasks {
		if t.ID == id {
			return t, nil
		}
	}
	return storage.Task{}, storage.ErrNotFound
}

func (s *memStore) UpdateTask(ctx context.Context, in storage.Task) error {
	if s.writeErr != nil {
		return s.writeErr
	}
	for i, t := range s.tasks {
		if t.ID == in.ID {
			s.tasks[i] = in
			return nil
		}
	}
	return storage.ErrNotFound
}

func (s *memStore) DeleteTask(ctx context.Context, id string) error {
	if s.writeErr != nil {
		return s.writeErr
	}
	for i, t := range s.tasks {
		if t.ID == id {
			s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
			kept := s.completions[:0]
			for _, c := range s.completions {
				if c.TaskID != id {
					kept = append(kept, c)
				}
			}
			s.completions = kept
			return nil
		}
	}
	return storage.ErrNotFound
}

func (s *memStore) DeleteAllTasks(ctx context.Context) error {
	if s.writeErr != nil {
		return s.writeErr
	}
	s.tasks = s.tasks[:0]
	s.completions = s.completions[:0]
	return nil
}

func (s *memStore) ListTasks(ctx context.Context) ([]storage.Task, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	out := make([]storage.Task, len(s.tasks))
	copy(out, s.tasks)
	return out, nil
}

func (s *memStore) CreateCompletion(ctx context.Context, in storage.Completion) error {
	if s.writeErr != nil {
		return s.writeErr
	}
	s.completions = append(s.completions, in)
	return nil
}

func (s *memStore) UpdateCompletionNote(ctx context.Context, id string, note string) error {
	if s.writeErr != nil {
		return s.writeErr
	}
	for i, c := range s.completions {
		if c.ID == id {
			s.completions[i].Note = note
			return nil
		}
	}
	return storage.ErrNotFound
}

func (s *memStore) DeleteCompletion(ctx context.Context, id string) error {
	if s.writeErr != nil {
		return s.writeErr
	}
	for i, c := range s.completions {
		if c.ID == id {
			s.completions = append(s.completions[:i], s.completions[i+1:]...)
			return nil
		}
	}
	return storage.ErrNotFound
}

func (s *memStore) ListCompletions(ctx context.Context, filter storage.CompletionListFilter) ([]storage.Completion, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	out := make([]storage.Completion, 0, len(s.completions))
	for _, c := range s.completions {
		if filter.TaskID == "" || c.TaskID == filter.TaskID {
			out = append(out, c)
		}
	}
	return out, nil
}

// recordingBackend captures backend calls made through the planner.
type recordingBackend struct {
	scheduled []reminder.Request
	canceled  []string
}

func (b *recordingBackend) RequestPermission(ctx context.Context) error { return nil }

func (b *recordingBackend) Schedule(ctx context.Context, req reminder.Request) error {
	b.scheduled = append(b.scheduled, req)
	return nil
}

func (b *recordingBackend) Cancel(ctx context.Context, identifiers []string) error {
	b.canceled = append(b.canceled, identifiers...)
	return nil
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestManager(t *testing.T) (*Manager, *memStore, *recordingBackend) {
	t.Helper()
	store := &memStore{}
	backend := &recordingBackend{}
	planner := reminder.NewPlanner(backend, quietLogger())
	return NewManager(store, planner, quietLogger()), store, backend
}

func TestCreateUsesDefaults(t *testing.T) {
	manager, store, _ := newTestManager(t)

	task, err := manager.Create(t.Context(), "Exercise", "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if task.WeekMask != habit.AllDays {
		t.Fatalf("default mask = %#b, want all days", int(task.WeekMask))
	}
	if task.ReminderEnabled || task.ReminderHour != 0 || task.ReminderMinute != 0 {
		t.Fatalf("unexpected reminder defaults: %+v", task)
	}
	if !strings.HasPrefix(task.ID, "Exercise_") {
		t.Fatalf("id %q does not carry the name prefix", task.ID)
	}
	if len(store.tasks) != 1 {
		t.Fatalf("task not persisted: %d rows", len(store.tasks))
	}
}

func TestCreateRejectsEmptyName(t *testing.T) {
	manager, _, _ := newTestManager(t)
	if _, err := manager.Create(t.Context(), "", ""); !errors.Is(err, ErrEmptyName) {
		t.Fatalf("expected ErrEmptyName, got %v", err)
	}
}

func TestCompleteIsIdempotentPerDay(t *testing.T) {
	manager, store, _ := newTestManager(t)
	task, err := manager.Create(t.Context(), "Read", "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	day := time.Date(2026, 8, 10, 8, 0, 0, 0, time.Local)
	if err := manager.Complete(t.Context(), task.ID, day, "chapter 1"); err != nil {
		t.Fatalf("first complete: %v", err)
	}
	// Later the same calendar day: must not add a second record.
	if err := manager.Complete(t.Context(), task.ID, day.Add(10*time.Hour), ""); err != nil {
		t.Fatalf("second complete: %v", err)
	}

	got, _ := manager.Get(task.ID)
	if !got.IsDoneOn(day) {
		t.Fatal("task not done after complete")
	}
	if len(got.Completions) != 1 {
		t.Fatalf("completion count = %d, want 1", len(got.Completions))
	}
	if len(store.completions) != 1 {
		t.Fatalf("persisted completion count = %d, want 1", len(store.completions))
	}
}

func TestCompleteThenUncomplete(t *testing.T) {
	manager, store, _ := newTestManager(t)
	task, err := manager.Create(t.Context(), "Read", "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	day := time.Date(2026, 8, 10, 8, 0, 0, 0, time.Local)
	if err := manager.Complete(t.Context(), task.ID, day, ""); err != nil {
		t.Fatalf("complete: %v", err)
	}
	if err := manager.Uncomplete(t.Context(), task.ID, day.Add(3*time.Hour)); err != nil {
		t.Fatalf("uncomplete: %v", err)
	}

	got, _ := manager.Get(task.ID)
	if got.IsDoneOn(day) || len(got.Completions) != 0 {
		t.Fatalf("completion survived uncomplete: %+v", got.Completions)
	}
	if len(store.completions) != 0 {
		t.Fatalf("persisted completions remain: %d", len(store.completions))
	}

	// Uncompleting an empty day is benign.
	if err := manager.Uncomplete(t.Context(), task.ID, day); err != nil {
		t.Fatalf("second uncomplete: %v", err)
	}
}

func TestUpdateNote(t *testing.T) {
	manager, _, _ := newTestManager(t)
	task, err := manager.Create(t.Context(), "Read", "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	day := time.Date(2026, 8, 10, 8, 0, 0, 0, time.Local)
	if err := manager.Complete(t.Context(), task.ID, day, "draft"); err != nil {
		t.Fatalf("complete: %v", err)
	}

	if err := manager.UpdateNote(t.Context(), task.ID, day, "final"); err != nil {
		t.Fatalf("update note: %v", err)
	}
	got, _ := manager.Get(task.ID)
	if c, ok := got.CompletionOn(day); !ok || c.Note != "final" {
		t.Fatalf("note not updated: %+v", c)
	}

	if err := manager.UpdateNote(t.Context(), task.ID, day.AddDate(0, 0, 1), "x"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for noteless day, got %v", err)
	}
}

func TestLoadAllFailurePreservesPriorState(t *testing.T) {
	manager, store, _ := newTestManager(t)
	if _, err := manager.Create(t.Context(), "Read", ""); err != nil {
		t.Fatalf("create: %v", err)
	}

	store.listErr = errors.New("disk exploded")
	if err := manager.LoadAll(t.Context()); err == nil {
		t.Fatal("expected load error")
	}
	if len(manager.Tasks()) != 1 {
		t.Fatalf("prior state lost: %d tasks", len(manager.Tasks()))
	}
}

func TestLoadAllGroupsCompletionsByTask(t *testing.T) {
	manager, _, _ := newTestManager(t)
	task, err := manager.Create(t.Context(), "Read", "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	day := time.Date(2026, 8, 10, 8, 0, 0, 0, time.Local)
	if err := manager.Complete(t.Context(), task.ID, day, ""); err != nil {
		t.Fatalf("complete: %v", err)
	}

	if err := manager.LoadAll(t.Context()); err != nil {
		t.Fatalf("load: %v", err)
	}
	got, ok := manager.Get(task.ID)
	if !ok || len(got.Completions) != 1 {
		t.Fatalf("completions not reloaded: %+v", got)
	}
}

func TestCompleteSurfacesWriteError(t *testing.T) {
	manager, store, _ := newTestManager(t)
	task, err := manager.Create(t.Context(), "Read", "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	store.writeErr = errors.New("disk full")
	day := time.Date(2026, 8, 10, 8, 0, 0, 0, time.Local)
	if err := manager.Complete(t.Context(), task.ID, day, ""); err == nil {
		t.Fatal("expected write error")
	}
	// The in-memory state must not diverge from the store.
	got, _ := manager.Get(task.ID)
	if len(got.Completions) != 0 {
		t.Fatalf("in-memory completion added despite write failure")
	}
}

func TestDeleteClearsAllWeekdayIdentifiers(t *testing.T) {
	manager, _, backend := newTestManager(t)
	task, err := manager.Create(t.Context(), "Read", "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// Enable with a two-day mask, then delete: all 7 identifiers must go.
	task.ReminderEnabled = true
	task.ReminderHour = 9
	task.WeekMask = habit.WeekMask(0b0000101)
	if err := manager.Update(t.Context(), task); err != nil {
		t.Fatalf("update: %v", err)
	}
	if len(backend.scheduled) != 2 {
		t.Fatalf("expected 2 weekly triggers, got %d", len(backend.scheduled))
	}

	backend.canceled = nil
	if err := manager.Delete(t.Context(), task.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	for weekday := 1; weekday <= 7; weekday++ {
		want := reminder.Identifier(task.ID, weekday)
		found := false
		for _, id := range backend.canceled {
			if id == want {
				found = true
			}
		}
		if !found {
			t.Fatalf("identifier %q not cleared on delete", want)
		}
	}
	if len(manager.Tasks()) != 0 {
		t.Fatal("task still in memory after delete")
	}
}

func TestDeleteAbsentTaskIsNoop(t *testing.T) {
	manager, _, _ := newTestManager(t)
	if err := manager.Delete(t.Context(), "ghost"); err != nil {
		t.Fatalf("expected benign no-op, got %v", err)
	}
}

func TestDeleteAllThenLoadAllIsEmpty(t *testing.T) {
	manager, _, _ := newTestManager(t)
	if _, err := manager.Create(t.Context(), "Exercise", ""); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := manager.DeleteAll(t.Context()); err != nil {
		t.Fatalf("delete all: %v", err)
	}
	if err := manager.LoadAll(t.Context()); err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(manager.Tasks()) != 0 {
		t.Fatalf("expected empty list, got %d tasks", len(manager.Tasks()))
	}
}

func TestMutationsPublishEvents(t *testing.T) {
	manager, _, _ := newTestManager(t)
	events := manager.Subscribe()

	task, err := manager.Create(t.Context(), "Read", "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	day := time.Date(2026, 8, 10, 8, 0, 0, 0, time.Local)
	if err := manager.Complete(t.Context(), task.ID, day, ""); err != nil {
		t.Fatalf("complete: %v", err)
	}

	wantKinds := []EventKind{EventTaskCreated, EventCompletionAdded}
	for _, want := range wantKinds {
		select {
		case ev := <-events:
			if ev.Kind != want {
				t.Fatalf("event kind = %q, want %q", ev.Kind, want)
			}
		default:
			t.Fatalf("missing event %q", want)
		}
	}
}
