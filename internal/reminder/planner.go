package reminder

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/sandeepkv93/habitd/internal/habit"
)

// Planner derives a task's trigger set from its mask, time and enabled flag
// and applies it against the backend with replace-all-for-task semantics.
// Backend failures are logged and swallowed so the enclosing task mutation
// still succeeds.
type Planner struct {
	backend Backend
	log     *slog.Logger
	now     func() time.Time
}

func NewPlanner(backend Backend, log *slog.Logger) *Planner {
	if log == nil {
		log = slog.Default()
	}
	return &Planner{backend: backend, log: log, now: time.Now}
}

// WeeklyTriggers derives one weekly request per selected day. delayMinutes
// shifts the fire time forward without touching the identifiers.
func WeeklyTriggers(t habit.Task, delayMinutes int) []Request {
	days := t.WeekMask.Days()
	out := make([]Request, 0, len(days))
	for _, day := range days {
		weekday := habit.ToSchedulerWeekday(day)
		out = append(out, Request{
			Identifier: Identifier(t.ID, weekday),
			Trigger: Trigger{
				Repeats: true,
				Weekday: weekday,
				Hour:    t.ReminderHour + delayMinutes/60,
				Minute:  (t.ReminderMinute + delayMinutes) % 60,
			},
			Content: contentFor(t),
		})
	}
	return out
}

// Sync replaces the task's whole weekly trigger set. Every one of the seven
// possible identifiers is cleared first, since the mask may have shrunk
// since the last schedule; the set is then re-derived if reminders are
// still enabled.
func (p *Planner) Sync(ctx context.Context, t habit.Task) {
	if err := p.backend.RequestPermission(ctx); err != nil {
		p.log.Warn("notification permission unavailable, skipping schedule",
			"task_id", t.ID, "error", err)
		if errors.Is(err, ErrPermissionDenied) {
			return
		}
	}

	p.Clear(ctx, t.ID)

	if !t.ReminderEnabled {
		return
	}
	for _, req := range WeeklyTriggers(t, 0) {
		if err := p.backend.Schedule(ctx, req); err != nil {
			p.log.Error("schedule reminder failed",
				"task_id", t.ID, "identifier", req.Identifier, "error", err)
		}
	}
}

// Clear cancels every trigger identifier ever derivable for the task,
// including any pending delay follow-up.
func (p *Planner) Clear(ctx context.Context, taskID string) {
	identifiers := append(AllIdentifiers(taskID), DelayIdentifier(taskID))
	if err := p.backend.Cancel(ctx, identifiers); err != nil {
		p.log.Error("cancel reminders failed", "task_id", taskID, "error", err)
	}
}

// Delay schedules a single one-shot follow-up the given minutes from now.
// It does not touch the weekly set.
func (p *Planner) Delay(ctx context.Context, t habit.Task, minutes int) {
	req := Request{
		Identifier: DelayIdentifier(t.ID),
		Trigger: Trigger{
			At: p.now().Add(time.Duration(minutes) * time.Minute),
		},
		Content: contentFor(t),
	}
	if err := p.backend.Schedule(ctx, req); err != nil {
		p.log.Error("schedule delay reminder failed",
			"task_id", t.ID, "minutes", minutes, "error", err)
	}
}

// TriggerNow fires a one-shot reminder almost immediately, under the fixed
// manual identifier.
func (p *Planner) TriggerNow(ctx context.Context, t habit.Task) {
	req := Request{
		Identifier: ManualIdentifier,
		Trigger: Trigger{
			At: p.now().Add(time.Second),
		},
		Content: contentFor(t),
	}
	if err := p.backend.Schedule(ctx, req); err != nil {
		p.log.Error("schedule manual reminder failed", "task_id", t.ID, "error", err)
	}
}

func contentFor(t habit.Task) Content {
	return Content{
		Type:     PayloadTypeReminder,
		Title:    t.Name,
		Subtitle: t.Description,
		TaskID:   t.ID,
		Actions:  []string{ActionMarkComplete, ActionDelay30Min, ActionDelay60Min},
	}
}
