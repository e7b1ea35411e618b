package storage

import "time"

type Task struct {
	ID              string
	Name            string
	Description     string
	ReminderEnabled bool
	ReminderHour    int
	ReminderMinute  int
	WeekMask        int
	CreatedAt       time.Time
}

type Completion struct {
	ID        string
	TaskID    string
	Date      time.Time
	Note      string
	CreatedAt time.Time
}

type CompletionListFilter struct {
	TaskID string
	Limit  int
	Offset int
}
