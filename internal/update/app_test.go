package update

import (
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/habitd/internal/habit"
	"github.com/sandeepkv93/habitd/internal/reminder"
	"github.com/sandeepkv93/habitd/internal/storage"
	"github.com/sandeepkv93/habitd/internal/tracker"
)

func newTestModel(t *testing.T) Model {
	t.Helper()
	repo, err := storage.OpenSQLite(filepath.Join(t.TempDir(), "habitd-ui-test.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	if err := storage.MigrateUp(repo.DB()); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	backend := reminder.NewLocalBackend(8)
	planner := reminder.NewPlanner(backend, log)
	manager := tracker.NewManager(repo, planner, log)
	return NewModel(manager, backend, DefaultRuntimeConfig())
}

func keyRunes(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func typeString(t *testing.T, m Model, s string) Model {
	t.Helper()
	for _, r := range s {
		updated, _ := m.Update(keyRunes(r))
		m = updated.(Model)
	}
	return m
}

func TestNewModelDefaults(t *testing.T) {
	m := newTestModel(t)
	if m.CurrentView != ViewTasks {
		t.Fatalf("expected default view %q, got %q", ViewTasks, m.CurrentView)
	}
	if m.Keys.Quit != "q" {
		t.Fatalf("expected quit key q, got %q", m.Keys.Quit)
	}
	if m.HistoryDays != 7 {
		t.Fatalf("expected 7 history days, got %d", m.HistoryDays)
	}
}

func TestUpdateKeySwitchesView(t *testing.T) {
	m := newTestModel(t)
	updated, _ := m.Update(keyRunes('2'))
	next := updated.(Model)
	if next.CurrentView != ViewHistory {
		t.Fatalf("expected history view, got %q", next.CurrentView)
	}

	updated, _ = next.Update(keyRunes('3'))
	next = updated.(Model)
	if next.CurrentView != ViewStats {
		t.Fatalf("expected stats view, got %q", next.CurrentView)
	}
}

func TestQuickAddCreatesHabit(t *testing.T) {
	m := newTestModel(t)
	updated, _ := m.Update(keyRunes('n'))
	m = updated.(Model)
	if !m.AddMode {
		t.Fatal("expected add mode after n")
	}

	m = typeString(t, m, "Exercise -- morning workout")
	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)

	tasks := m.Manager.Tasks()
	if len(tasks) != 1 {
		t.Fatalf("expected 1 task, got %d", len(tasks))
	}
	if tasks[0].Name != "Exercise" || tasks[0].Description != "morning workout" {
		t.Fatalf("unexpected task: %+v", tasks[0])
	}
	if m.AddMode {
		t.Fatal("add mode still active after enter")
	}
}

func TestSpaceTogglesDoneToday(t *testing.T) {
	m := newTestModel(t)
	if _, err := m.Manager.Create(t.Context(), "Read", ""); err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeySpace})
	m = updated.(Model)
	if task := m.Manager.Tasks()[0]; !task.IsDoneToday() {
		t.Fatal("task not done after toggle")
	}

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeySpace})
	m = updated.(Model)
	if task := m.Manager.Tasks()[0]; task.IsDoneToday() {
		t.Fatal("task still done after second toggle")
	}
}

func TestPaletteDoneCommand(t *testing.T) {
	m := newTestModel(t)
	if _, err := m.Manager.Create(t.Context(), "Read", ""); err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, _ := m.Update(keyRunes('/'))
	m = updated.(Model)
	if !m.Palette.Active {
		t.Fatal("palette not active after /")
	}
	m = typeString(t, m, "done 1 finished early")
	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)

	task := m.Manager.Tasks()[0]
	if !task.IsDoneToday() {
		t.Fatal("palette done did not complete the task")
	}
	if c, ok := task.CompletionOn(time.Now()); !ok || c.Note != "finished early" {
		t.Fatalf("note not recorded: %+v", c)
	}
}

func TestDayEditModeTogglesWeekdays(t *testing.T) {
	m := newTestModel(t)
	if _, err := m.Manager.Create(t.Context(), "Read", ""); err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, _ := m.Update(keyRunes('w'))
	m = updated.(Model)
	if !m.DayEditMode {
		t.Fatal("expected day edit mode after w")
	}

	updated, _ = m.Update(keyRunes('7'))
	m = updated.(Model)
	task := m.Manager.Tasks()[0]
	if task.WeekMask.IsSelected(6) {
		t.Fatal("Sunday still selected after toggle")
	}
	if len(task.WeekMask.Days()) != 6 {
		t.Fatalf("days = %v, want Mon..Sat", task.WeekMask.Days())
	}

	updated, _ = m.Update(keyRunes('7'))
	m = updated.(Model)
	if got := m.Manager.Tasks()[0].WeekMask; got != habit.AllDays {
		t.Fatalf("mask = %#b after toggling twice, want all days", int(got))
	}

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = updated.(Model)
	if m.DayEditMode {
		t.Fatal("day edit mode still active after esc")
	}
}

func TestPaletteDaysCommandResyncsTriggers(t *testing.T) {
	m := newTestModel(t)
	task, err := m.Manager.Create(t.Context(), "Read", "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, _ := m.Update(keyRunes('/'))
	m = updated.(Model)
	m = typeString(t, m, "remind 1 09:00")
	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)
	if got := len(m.Backend.Pending()); got != 7 {
		t.Fatalf("expected 7 pending triggers for the default mask, got %d", got)
	}

	updated, _ = m.Update(keyRunes('/'))
	m = updated.(Model)
	m = typeString(t, m, "days 1 mon,wed")
	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)

	got := m.Manager.Tasks()[0].WeekMask
	if !got.IsSelected(0) || !got.IsSelected(2) || len(got.Days()) != 2 {
		t.Fatalf("mask days = %v, want Mon and Wed", got.Days())
	}

	pending := m.Backend.Pending()
	if len(pending) != 2 {
		t.Fatalf("pending = %v, want 2 weekly triggers", pending)
	}
	for _, weekday := range []int{2, 4} {
		want := reminder.Identifier(task.ID, weekday)
		found := false
		for _, id := range pending {
			if id == want {
				found = true
			}
		}
		if !found {
			t.Fatalf("identifier %q not scheduled, pending = %v", want, pending)
		}
	}
}

func TestPaletteTargetsTaskByID(t *testing.T) {
	m := newTestModel(t)
	task, err := m.Manager.Create(t.Context(), "Read", "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, _ := m.Update(keyRunes('/'))
	m = updated.(Model)
	m = typeString(t, m, "done "+task.ID)
	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)

	if m.Status.IsError {
		t.Fatalf("done by id failed: %+v", m.Status)
	}
	if !m.Manager.Tasks()[0].IsDoneToday() {
		t.Fatal("task not completed when addressed by id")
	}
}

func TestPaletteUnknownCommandSetsErrorStatus(t *testing.T) {
	m := newTestModel(t)
	updated, _ := m.Update(keyRunes('/'))
	m = updated.(Model)
	m = typeString(t, m, "explode now")
	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)
	if !m.Status.IsError {
		t.Fatalf("expected error status, got %+v", m.Status)
	}
}

func TestReminderDeliveryAndMarkComplete(t *testing.T) {
	m := newTestModel(t)
	task, err := m.Manager.Create(t.Context(), "Read", "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	delivery := reminder.Delivery{
		Identifier: reminder.Identifier(task.ID, 2),
		TaskID:     task.ID,
		Title:      "Read",
		FiredAt:    time.Now(),
	}
	updated, _ := m.Update(ReminderDeliveredMsg{Delivery: delivery})
	m = updated.(Model)
	if m.LastDelivery == nil || m.LastDelivery.TaskID != task.ID {
		t.Fatalf("delivery not captured: %+v", m.LastDelivery)
	}

	updated, _ = m.Update(keyRunes('X'))
	m = updated.(Model)
	if got := m.Manager.Tasks()[0]; !got.IsDoneToday() {
		t.Fatal("X did not complete the delivered task")
	}
	if m.LastDelivery != nil {
		t.Fatal("delivery not cleared after completion")
	}
}

func TestAppErrorMsgSetsStatus(t *testing.T) {
	m := newTestModel(t)
	updated, _ := m.Update(AppErrorMsg{Err: errors.New("boom")})
	m = updated.(Model)
	if m.LastError == nil || !m.Status.IsError || m.Status.Text != "boom" {
		t.Fatalf("unexpected state: err=%v status=%+v", m.LastError, m.Status)
	}
}

func TestHistoryViewListsDays(t *testing.T) {
	m := newTestModel(t)
	task, err := m.Manager.Create(t.Context(), "Read", "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := m.Manager.Complete(t.Context(), task.ID, time.Now(), "good pace"); err != nil {
		t.Fatalf("complete: %v", err)
	}

	out := m.renderHistoryView()
	if !strings.Contains(out, "Read") || !strings.Contains(out, "good pace") {
		t.Fatalf("history view missing entry: %q", out)
	}
}

func TestQuitKey(t *testing.T) {
	m := newTestModel(t)
	updated, cmd := m.Update(keyRunes('q'))
	m = updated.(Model)
	if !m.Quitting || cmd == nil {
		t.Fatal("q did not quit")
	}
}
