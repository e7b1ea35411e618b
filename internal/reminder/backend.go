package reminder

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var ErrPermissionDenied = errors.New("reminder: notification permission denied")

// Payload and action identifiers consumed by the delivery handler.
const (
	PayloadTypeReminder = "reminder"

	ActionMarkComplete = "MARK_COMPLETE"
	ActionDelay30Min   = "DELAY_30_MIN"
	ActionDelay60Min   = "DELAY_60_MIN"

	// ManualIdentifier is the fixed identifier for trigger-now reminders.
	ManualIdentifier = "manual"
)

// Content is what a delivered reminder carries: a payload type tag, the task
// name as title, its description as subtitle, and the action set the user can
// respond with.
type Content struct {
	Type     string
	Title    string
	Subtitle string
	TaskID   string
	Actions  []string
}

// Trigger describes when a reminder fires. A repeating trigger fires weekly
// on Weekday (Sunday=1..Saturday=7) at Hour:Minute; a one-shot fires once
// at At.
type Trigger struct {
	Repeats bool
	Weekday int
	Hour    int
	Minute  int
	At      time.Time
}

// Request pairs a stable identifier with a trigger and its content.
// Scheduling an identifier that is already pending replaces it.
type Request struct {
	Identifier string
	Trigger    Trigger
	Content    Content
}

// Backend is the notification service the planner configures. Calls are
// best-effort from the caller's perspective: the core never retries them.
type Backend interface {
	RequestPermission(ctx context.Context) error
	Schedule(ctx context.Context, req Request) error
	Cancel(ctx context.Context, identifiers []string) error
}

// Identifier builds the weekly trigger identifier for a task and a
// scheduler weekday.
func Identifier(taskID string, schedulerWeekday int) string {
	return fmt.Sprintf("%s_%d", taskID, schedulerWeekday)
}

// AllIdentifiers returns every weekly identifier a task could have been
// scheduled under, regardless of its current mask.
func AllIdentifiers(taskID string) []string {
	out := make([]string, 0, 7)
	for weekday := 1; weekday <= 7; weekday++ {
		out = append(out, Identifier(taskID, weekday))
	}
	return out
}

// DelayIdentifier is the identifier for a task's one-shot follow-up
// reminder, distinct from its weekly set.
func DelayIdentifier(taskID string) string {
	return taskID + "_delay"
}
