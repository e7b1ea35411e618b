package update

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/habitd/internal/habit"
	"github.com/sandeepkv93/habitd/internal/views"
)

func (m Model) handleTasksKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	tasks := m.Manager.Tasks()
	switch msg.String() {
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
		}
	case "down", "j":
		if m.Cursor < len(tasks)-1 {
			m.Cursor++
		}
	case " ", "enter":
		return m.toggleSelectedToday()
	case "n":
		m.AddMode = true
		m.quickAddInput.SetValue("")
		m.quickAddInput.Focus()
		m.Status = StatusBar{Text: "new habit: type name, enter to save, esc to cancel"}
	case "d":
		return m.deleteSelected()
	case "r":
		return m.toggleSelectedReminder()
	case "w":
		if task, ok := m.selectedTask(); ok {
			m.DayEditMode = true
			m.Status = StatusBar{Text: fmt.Sprintf("edit days for %q: 1..7 toggle Mon..Sun, esc to finish", task.Name)}
		}
	case "T":
		if task, ok := m.selectedTask(); ok {
			if err := m.Manager.TriggerReminderNow(context.Background(), task.ID); err != nil {
				return m.withError(err)
			}
			m.Status = StatusBar{Text: "manual reminder scheduled"}
		}
	}
	return m, nil
}

func (m Model) handleQuickAddKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		name, description := splitNameDescription(m.quickAddInput.Value())
		m.AddMode = false
		m.quickAddInput.Blur()
		if name == "" {
			m.Status = StatusBar{Text: "habit name is required", IsError: true}
			return m, nil
		}
		task, err := m.Manager.Create(context.Background(), name, description)
		if err != nil {
			return m.withError(err)
		}
		m.Status = StatusBar{Text: fmt.Sprintf("added %q", task.Name)}
		return m, nil
	case "esc":
		m.AddMode = false
		m.quickAddInput.Blur()
		m.Status = StatusBar{}
		return m, nil
	}
	var cmd tea.Cmd
	m.quickAddInput, cmd = m.quickAddInput.Update(msg)
	return m, cmd
}

// handleDayEditKey toggles one weekday at a time on the selected task. Every
// toggle persists and resyncs the reminder triggers immediately.
func (m Model) handleDayEditKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key := msg.String(); key {
	case "esc", "enter", "w":
		m.DayEditMode = false
		m.Status = StatusBar{}
		return m, nil
	case "1", "2", "3", "4", "5", "6", "7":
		task, ok := m.selectedTask()
		if !ok {
			m.DayEditMode = false
			return m, nil
		}
		task.WeekMask = task.WeekMask.Toggle(int(key[0] - '1'))
		if err := m.Manager.Update(context.Background(), task); err != nil {
			return m.withError(err)
		}
		m.Status = StatusBar{Text: fmt.Sprintf("%q repeats on %s", task.Name, dayNamesLabel(task.WeekMask))}
	}
	return m, nil
}

func (m Model) toggleSelectedToday() (tea.Model, tea.Cmd) {
	task, ok := m.selectedTask()
	if !ok {
		return m, nil
	}
	now := m.now()
	if task.IsDoneOn(now) {
		if err := m.Manager.Uncomplete(context.Background(), task.ID, now); err != nil {
			return m.withError(err)
		}
		m.Status = StatusBar{Text: fmt.Sprintf("%q unmarked for today", task.Name)}
		return m, nil
	}
	if err := m.Manager.Complete(context.Background(), task.ID, now, ""); err != nil {
		return m.withError(err)
	}
	m.Status = StatusBar{Text: fmt.Sprintf("%q done for today", task.Name)}
	return m, nil
}

func (m Model) deleteSelected() (tea.Model, tea.Cmd) {
	task, ok := m.selectedTask()
	if !ok {
		return m, nil
	}
	if err := m.Manager.Delete(context.Background(), task.ID); err != nil {
		return m.withError(err)
	}
	if m.Cursor > 0 {
		m.Cursor--
	}
	m.Status = StatusBar{Text: fmt.Sprintf("deleted %q", task.Name)}
	return m, nil
}

func (m Model) toggleSelectedReminder() (tea.Model, tea.Cmd) {
	task, ok := m.selectedTask()
	if !ok {
		return m, nil
	}
	task.ReminderEnabled = !task.ReminderEnabled
	if err := m.Manager.Update(context.Background(), task); err != nil {
		return m.withError(err)
	}
	if task.ReminderEnabled {
		m.Status = StatusBar{Text: fmt.Sprintf("reminders on for %q at %02d:%02d", task.Name, task.ReminderHour, task.ReminderMinute)}
	} else {
		m.Status = StatusBar{Text: fmt.Sprintf("reminders off for %q", task.Name)}
	}
	return m, nil
}

func (m Model) completeDeliveredTask() (tea.Model, tea.Cmd) {
	if m.LastDelivery == nil {
		return m, nil
	}
	if err := m.Manager.Complete(context.Background(), m.LastDelivery.TaskID, m.now(), ""); err != nil {
		return m.withError(err)
	}
	m.Status = StatusBar{Text: fmt.Sprintf("%s marked done", m.LastDelivery.Title)}
	m.LastDelivery = nil
	return m, nil
}

func (m Model) delayDeliveredTask(minutes int) (tea.Model, tea.Cmd) {
	if m.LastDelivery == nil {
		return m, nil
	}
	if err := m.Manager.DelayReminder(context.Background(), m.LastDelivery.TaskID, minutes); err != nil {
		return m.withError(err)
	}
	m.Status = StatusBar{Text: fmt.Sprintf("reminder delayed %d minutes", minutes)}
	return m, nil
}

func (m Model) selectedTask() (habit.Task, bool) {
	tasks := m.Manager.Tasks()
	if len(tasks) == 0 || m.Cursor < 0 || m.Cursor >= len(tasks) {
		return habit.Task{}, false
	}
	return tasks[m.Cursor], true
}

func (m Model) withError(err error) (tea.Model, tea.Cmd) {
	m.LastError = err
	m.Status = StatusBar{Text: err.Error(), IsError: true}
	return m, nil
}

func (m Model) renderTasksView() string {
	tasks := m.Manager.Tasks()
	if len(tasks) == 0 && !m.AddMode {
		return "no habits yet\npress n to add one"
	}

	now := m.now()
	lines := make([]string, 0, len(tasks)+2)
	for i, task := range tasks {
		cursor := "  "
		if i == m.Cursor {
			cursor = "> "
		}
		line := fmt.Sprintf("%s%s %s", cursor, views.Checkbox(task.IsDoneOn(now)), task.Name)
		if task.ReminderEnabled {
			line += fmt.Sprintf("  (rem %02d:%02d)", task.ReminderHour, task.ReminderMinute)
		}
		lines = append(lines, line)
	}
	if m.AddMode {
		lines = append(lines, "", "new: "+m.quickAddInput.View())
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderTaskDetailPane() string {
	task, ok := m.selectedTask()
	if !ok {
		return ""
	}
	lines := []string{
		"name: " + task.Name,
	}
	if task.Description != "" {
		lines = append(lines, "desc: "+task.Description)
	}
	lines = append(lines, "days: "+dayNamesLabel(task.WeekMask))
	if task.ReminderEnabled {
		lines = append(lines, fmt.Sprintf("reminder: %02d:%02d", task.ReminderHour, task.ReminderMinute))
	} else {
		lines = append(lines, "reminder: off")
	}
	lines = append(lines, fmt.Sprintf("completions: %d", len(task.Completions)))
	if c, ok := task.CompletionOn(m.now()); ok && c.Note != "" {
		lines = append(lines, "today's note: "+c.Note)
	}
	return strings.Join(lines, "\n")
}

func dayNamesLabel(mask habit.WeekMask) string {
	days := mask.Days()
	if len(days) == 0 {
		return "no days"
	}
	labels := make([]string, 0, len(days))
	for _, d := range days {
		labels = append(labels, habit.DayName(d))
	}
	return strings.Join(labels, " ")
}

func splitNameDescription(raw string) (string, string) {
	parts := strings.SplitN(raw, "--", 2)
	name := strings.TrimSpace(parts[0])
	description := ""
	if len(parts) == 2 {
		description = strings.TrimSpace(parts[1])
	}
	return name, description
}
