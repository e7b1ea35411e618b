package habit

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrInvalidReminderTime = errors.New("habit: invalid reminder time")
	ErrInvalidWeekMask     = errors.New("habit: invalid week mask")
)

// Task is a recurring habit the user tracks. It owns its ordered completion
// history; a Completion never outlives its Task.
type Task struct {
	ID              string
	Name            string
	Description     string
	ReminderEnabled bool
	ReminderHour    int
	ReminderMinute  int
	WeekMask        WeekMask
	CreatedAt       time.Time
	Completions     []Completion
}

// Completion records that a task was done on a specific calendar day. It
// references the owning task by id only.
type Completion struct {
	ID        string
	TaskID    string
	Date      time.Time
	Note      string
	CreatedAt time.Time
}

func (t Task) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return errors.New("habit: task id is required")
	}
	if strings.TrimSpace(t.Name) == "" {
		return errors.New("habit: task name is required")
	}
	if t.ReminderHour < 0 || t.ReminderHour > 23 {
		return fmt.Errorf("%w: hour %d", ErrInvalidReminderTime, t.ReminderHour)
	}
	if t.ReminderMinute < 0 || t.ReminderMinute > 59 {
		return fmt.Errorf("%w: minute %d", ErrInvalidReminderTime, t.ReminderMinute)
	}
	if t.WeekMask < 0 || t.WeekMask > AllDays {
		return fmt.Errorf("%w: %#b", ErrInvalidWeekMask, int(t.WeekMask))
	}
	return nil
}

// CompletionOn returns the completion whose date falls on the same local
// calendar day as date. The per-day invariant guarantees at most one match.
func (t Task) CompletionOn(date time.Time) (Completion, bool) {
	for _, c := range t.Completions {
		if c.SameDayAs(date) {
			return c, true
		}
	}
	return Completion{}, false
}

// IsDoneOn reports whether the task was completed on the same local calendar
// day as date.
func (t Task) IsDoneOn(date time.Time) bool {
	_, ok := t.CompletionOn(date)
	return ok
}

// IsDoneToday reports whether the task was completed today.
func (t Task) IsDoneToday() bool {
	return t.IsDoneOn(time.Now())
}

// SameDayAs reports whether the completion date and date fall on the same
// calendar day in the completion's location.
func (c Completion) SameDayAs(date time.Time) bool {
	y1, m1, d1 := c.Date.Date()
	y2, m2, d2 := date.In(c.Date.Location()).Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
