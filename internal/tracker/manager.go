package tracker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sandeepkv93/habitd/internal/habit"
	"github.com/sandeepkv93/habitd/internal/reminder"
	"github.com/sandeepkv93/habitd/internal/storage"
)

var (
	ErrEmptyName    = errors.New("tracker: task name is required")
	ErrTaskNotFound = errors.New("tracker: task not found")
)

// Manager owns the authoritative in-memory task collection. Every mutation
// writes through to the durable store before the in-memory state changes;
// reminder-relevant changes resync the task's trigger set afterwards.
// All operations are safe for concurrent use behind a single mutex.
type Manager struct {
	mu      sync.Mutex
	store   storage.Repository
	planner *reminder.Planner
	log     *slog.Logger
	tasks   []habit.Task
	subs    []chan Event
	now     func() time.Time
}

func NewManager(store storage.Repository, planner *reminder.Planner, log *slog.Logger) *Manager {
	if log == nil {
		log = slog.Default()
	}
	return &Manager{
		store:   store,
		planner: planner,
		log:     log,
		tasks:   make([]habit.Task, 0),
		now:     time.Now,
	}
}

// LoadAll replaces the in-memory collection with the persisted one. On any
// store error the prior in-memory state is left untouched.
func (m *Manager) LoadAll(ctx context.Context) error {
	storedTasks, err := m.store.ListTasks(ctx)
	if err != nil {
		return fmt.Errorf("load tasks: %w", err)
	}
	storedCompletions, err := m.store.ListCompletions(ctx, storage.CompletionListFilter{})
	if err != nil {
		return fmt.Errorf("load completions: %w", err)
	}

	byTask := make(map[string][]habit.Completion, len(storedTasks))
	for _, c := range storedCompletions {
		byTask[c.TaskID] = append(byTask[c.TaskID], completionFromStorage(c))
	}

	loaded := make([]habit.Task, 0, len(storedTasks))
	for _, st := range storedTasks {
		task := taskFromStorage(st)
		task.Completions = byTask[st.ID]
		if task.Completions == nil {
			task.Completions = make([]habit.Completion, 0)
		}
		loaded = append(loaded, task)
	}

	m.mu.Lock()
	m.tasks = loaded
	m.mu.Unlock()

	m.publish(Event{Kind: EventTasksLoaded})
	return nil
}

// Tasks returns a snapshot of the collection in encounter order.
func (m *Manager) Tasks() []habit.Task {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]habit.Task, len(m.tasks))
	copy(out, m.tasks)
	return out
}

func (m *Manager) Get(id string) (habit.Task, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if i := m.indexOf(id); i >= 0 {
		return m.tasks[i], true
	}
	return habit.Task{}, false
}

// Create adds a new task with the default configuration: every day
// selected, reminders disabled, time 00:00.
func (m *Manager) Create(ctx context.Context, name, description string) (habit.Task, error) {
	if name == "" {
		return habit.Task{}, ErrEmptyName
	}
	task := habit.Task{
		ID:          fmt.Sprintf("%s_%s", name, uuid.NewString()),
		Name:        name,
		Description: description,
		WeekMask:    habit.AllDays,
		CreatedAt:   m.now(),
		Completions: make([]habit.Completion, 0),
	}
	if err := task.Validate(); err != nil {
		return habit.Task{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.store.CreateTask(ctx, taskToStorage(task)); err != nil {
		return habit.Task{}, fmt.Errorf("persist task: %w", err)
	}
	m.tasks = append(m.tasks, task)
	m.publishLocked(Event{Kind: EventTaskCreated, TaskID: task.ID})
	return task, nil
}

// Update persists the task's configuration and resyncs its reminder
// triggers from the current mask, time and enabled flag.
func (m *Manager) Update(ctx context.Context, task habit.Task) error {
	if err := task.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.indexOf(task.ID)
	if i < 0 {
		return ErrTaskNotFound
	}
	if err := m.store.UpdateTask(ctx, taskToStorage(task)); err != nil {
		return fmt.Errorf("persist task: %w", err)
	}
	task.Completions = m.tasks[i].Completions
	m.tasks[i] = task

	if m.planner != nil {
		m.planner.Sync(ctx, task)
	}
	m.publishLocked(Event{Kind: EventTaskUpdated, TaskID: task.ID})
	return nil
}

// Delete clears the task's reminder triggers and removes it from the store
// and memory. A task that is not present is a benign no-op.
func (m *Manager) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.indexOf(id)
	if i < 0 {
		return nil
	}
	if m.planner != nil {
		m.planner.Clear(ctx, id)
	}
	if err := m.store.DeleteTask(ctx, id); err != nil && !errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("delete task: %w", err)
	}
	m.tasks = append(m.tasks[:i], m.tasks[i+1:]...)
	m.publishLocked(Event{Kind: EventTaskDeleted, TaskID: id})
	return nil
}

// DeleteAll removes every task from the store and memory.
func (m *Manager) DeleteAll(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.planner != nil {
		for _, t := range m.tasks {
			m.planner.Clear(ctx, t.ID)
		}
	}
	if err := m.store.DeleteAllTasks(ctx); err != nil {
		return fmt.Errorf("delete all tasks: %w", err)
	}
	m.tasks = m.tasks[:0]
	m.publishLocked(Event{Kind: EventTasksCleared})
	return nil
}

// Complete marks the task done for the calendar day of date. Completing an
// already-completed day is a no-op, keeping at most one completion per task
// per local day.
func (m *Manager) Complete(ctx context.Context, taskID string, date time.Time, note string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.indexOf(taskID)
	if i < 0 {
		return ErrTaskNotFound
	}
	if m.tasks[i].IsDoneOn(date) {
		return nil
	}

	completion := habit.Completion{
		ID:        uuid.NewString(),
		TaskID:    taskID,
		Date:      date,
		Note:      note,
		CreatedAt: m.now(),
	}
	if err := m.store.CreateCompletion(ctx, completionToStorage(completion)); err != nil {
		return fmt.Errorf("persist completion: %w", err)
	}
	m.tasks[i].Completions = append(m.tasks[i].Completions, completion)
	m.publishLocked(Event{Kind: EventCompletionAdded, TaskID: taskID})
	return nil
}

// Uncomplete removes the completion for the calendar day of date, if any.
func (m *Manager) Uncomplete(ctx context.Context, taskID string, date time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.indexOf(taskID)
	if i < 0 {
		return ErrTaskNotFound
	}
	completion, ok := m.tasks[i].CompletionOn(date)
	if !ok {
		return nil
	}
	if err := m.store.DeleteCompletion(ctx, completion.ID); err != nil && !errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("delete completion: %w", err)
	}
	kept := m.tasks[i].Completions[:0]
	for _, c := range m.tasks[i].Completions {
		if c.ID != completion.ID {
			kept = append(kept, c)
		}
	}
	m.tasks[i].Completions = kept
	m.publishLocked(Event{Kind: EventCompletionRemoved, TaskID: taskID})
	return nil
}

// UpdateNote edits the note on the completion for the calendar day of date.
func (m *Manager) UpdateNote(ctx context.Context, taskID string, date time.Time, note string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.indexOf(taskID)
	if i < 0 {
		return ErrTaskNotFound
	}
	completion, ok := m.tasks[i].CompletionOn(date)
	if !ok {
		return storage.ErrNotFound
	}
	if err := m.store.UpdateCompletionNote(ctx, completion.ID, note); err != nil {
		return fmt.Errorf("persist note: %w", err)
	}
	for j := range m.tasks[i].Completions {
		if m.tasks[i].Completions[j].ID == completion.ID {
			m.tasks[i].Completions[j].Note = note
		}
	}
	m.publishLocked(Event{Kind: EventNoteUpdated, TaskID: taskID})
	return nil
}

// CompletedOn returns each task's completion for the given day, in task
// collection order.
func (m *Manager) CompletedOn(date time.Time) []habit.Completion {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]habit.Completion, 0)
	for _, t := range m.tasks {
		if c, ok := t.CompletionOn(date); ok {
			out = append(out, c)
		}
	}
	return out
}

// DelayReminder schedules a one-shot follow-up for the task.
func (m *Manager) DelayReminder(ctx context.Context, taskID string, minutes int) error {
	task, ok := m.Get(taskID)
	if !ok {
		return ErrTaskNotFound
	}
	if m.planner != nil {
		m.planner.Delay(ctx, task, minutes)
	}
	return nil
}

// TriggerReminderNow fires the task's reminder immediately.
func (m *Manager) TriggerReminderNow(ctx context.Context, taskID string) error {
	task, ok := m.Get(taskID)
	if !ok {
		return ErrTaskNotFound
	}
	if m.planner != nil {
		m.planner.TriggerNow(ctx, task)
	}
	return nil
}

func (m *Manager) indexOf(id string) int {
	for i, t := range m.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func taskToStorage(t habit.Task) storage.Task {
	return storage.Task{
		ID:              t.ID,
		Name:            t.Name,
		Description:     t.Description,
		ReminderEnabled: t.ReminderEnabled,
		ReminderHour:    t.ReminderHour,
		ReminderMinute:  t.ReminderMinute,
		WeekMask:        int(t.WeekMask),
		CreatedAt:       t.CreatedAt,
	}
}

func taskFromStorage(t storage.Task) habit.Task {
	return habit.Task{
		ID:              t.ID,
		Name:            t.Name,
		Description:     t.Description,
		ReminderEnabled: t.ReminderEnabled,
		ReminderHour:    t.ReminderHour,
		ReminderMinute:  t.ReminderMinute,
		WeekMask:        habit.WeekMask(t.WeekMask),
		CreatedAt:       t.CreatedAt,
	}
}

func completionToStorage(c habit.Completion) storage.Completion {
	return storage.Completion{
		ID:        c.ID,
		TaskID:    c.TaskID,
		Date:      c.Date,
		Note:      c.Note,
		CreatedAt: c.CreatedAt,
	}
}

func completionFromStorage(c storage.Completion) habit.Completion {
	return habit.Completion{
		ID:        c.ID,
		TaskID:    c.TaskID,
		Date:      c.Date,
		Note:      c.Note,
		CreatedAt: c.CreatedAt,
	}
}
