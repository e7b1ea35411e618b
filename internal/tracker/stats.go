package tracker

import (
	"sort"
	"time"

	"github.com/sandeepkv93/habitd/internal/habit"
)

// TaskCompletionStat pairs a task with its total completion count.
type TaskCompletionStat struct {
	Task  habit.Task
	Count int
}

// DayCompletions lists the completions recorded on one calendar day.
type DayCompletions struct {
	Date        time.Time
	Completions []habit.Completion
}

// WeekdayStats buckets every completion of every in-memory task by the
// local weekday of its date. Keys are Monday=0..Sunday=6; all seven buckets
// are always present.
func (m *Manager) WeekdayStats() map[int]int {
	m.mu.Lock()
	defer m.mu.Unlock()

	stats := make(map[int]int, 7)
	for d := 0; d < 7; d++ {
		stats[d] = 0
	}
	for _, t := range m.tasks {
		for _, c := range t.Completions {
			stats[mondayBasedWeekday(c.Date)]++
		}
	}
	return stats
}

// TaskCompletionStats returns every task with its completion count, sorted
// by count descending. Ties keep task collection order.
func (m *Manager) TaskCompletionStats() []TaskCompletionStat {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]TaskCompletionStat, 0, len(m.tasks))
	for _, t := range m.tasks {
		out = append(out, TaskCompletionStat{Task: t, Count: len(t.Completions)})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	return out
}

// LastNDaysCompletions returns one entry per day for the n days ending
// today inclusive, oldest first.
func (m *Manager) LastNDaysCompletions(n int) []DayCompletions {
	if n <= 0 {
		return []DayCompletions{}
	}
	today := m.now()
	out := make([]DayCompletions, 0, n)
	for offset := n - 1; offset >= 0; offset-- {
		day := today.AddDate(0, 0, -offset)
		out = append(out, DayCompletions{
			Date:        day,
			Completions: m.CompletedOn(day),
		})
	}
	return out
}

// mondayBasedWeekday maps a date's local weekday to the app convention,
// Monday=0..Sunday=6.
func mondayBasedWeekday(date time.Time) int {
	return (int(date.Weekday()) + 6) % 7
}
