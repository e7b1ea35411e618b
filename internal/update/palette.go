package update

import (
	"context"
	"fmt"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/habitd/internal/commands"
	"github.com/sandeepkv93/habitd/internal/habit"
)

func (m Model) handlePaletteKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		input := m.commandInput.Value()
		m.Palette.Active = false
		m.commandInput.Blur()
		return m.runCommand(input)
	case "esc":
		m.Palette.Active = false
		m.commandInput.Blur()
		m.Status = StatusBar{}
		return m, nil
	}
	var cmd tea.Cmd
	m.commandInput, cmd = m.commandInput.Update(msg)
	return m, cmd
}

func (m Model) runCommand(input string) (tea.Model, tea.Cmd) {
	cmd, err := commands.Parse(input)
	if err != nil {
		return m.withError(err)
	}
	result, err := commands.Execute(cmd, m.commandHandlers())
	if err != nil {
		return m.withError(err)
	}
	m.Status = StatusBar{Text: result.Message}
	m.syncStatsTable()
	return m, nil
}

func (m *Model) commandHandlers() commands.Handlers {
	ctx := context.Background()
	return commands.Handlers{
		Add: func(a commands.AddArgs) (commands.Result, error) {
			task, err := m.Manager.Create(ctx, a.Name, a.Description)
			if err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: fmt.Sprintf("added %q", task.Name)}, nil
		},
		Done: func(a commands.DoneArgs) (commands.Result, error) {
			task, err := m.resolveTarget(a.Target)
			if err != nil {
				return commands.Result{}, err
			}
			if err := m.Manager.Complete(ctx, task.ID, m.now(), a.Note); err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: fmt.Sprintf("%q done for today", task.Name)}, nil
		},
		Undone: func(a commands.UndoneArgs) (commands.Result, error) {
			task, err := m.resolveTarget(a.Target)
			if err != nil {
				return commands.Result{}, err
			}
			if err := m.Manager.Uncomplete(ctx, task.ID, m.now()); err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: fmt.Sprintf("%q unmarked for today", task.Name)}, nil
		},
		Note: func(a commands.NoteArgs) (commands.Result, error) {
			task, err := m.resolveTarget(a.Target)
			if err != nil {
				return commands.Result{}, err
			}
			if err := m.Manager.UpdateNote(ctx, task.ID, m.now(), a.Text); err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: fmt.Sprintf("note saved on %q", task.Name)}, nil
		},
		Remind: func(a commands.RemindArgs) (commands.Result, error) {
			task, err := m.resolveTarget(a.Target)
			if err != nil {
				return commands.Result{}, err
			}
			switch a.Mode {
			case "on":
				task.ReminderEnabled = true
			case "off":
				task.ReminderEnabled = false
			case "at":
				task.ReminderEnabled = true
				task.ReminderHour = a.Hour
				task.ReminderMinute = a.Minute
			}
			if err := m.Manager.Update(ctx, task); err != nil {
				return commands.Result{}, err
			}
			if task.ReminderEnabled {
				return commands.Result{Message: fmt.Sprintf("reminders on for %q at %02d:%02d", task.Name, task.ReminderHour, task.ReminderMinute)}, nil
			}
			return commands.Result{Message: fmt.Sprintf("reminders off for %q", task.Name)}, nil
		},
		Days: func(a commands.DaysArgs) (commands.Result, error) {
			task, err := m.resolveTarget(a.Target)
			if err != nil {
				return commands.Result{}, err
			}
			var mask habit.WeekMask
			for _, d := range a.Days {
				mask = mask.Toggle(d)
			}
			task.WeekMask = mask
			if err := m.Manager.Update(ctx, task); err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: fmt.Sprintf("%q repeats on %s", task.Name, dayNamesLabel(mask))}, nil
		},
		Delete: func(a commands.DeleteArgs) (commands.Result, error) {
			task, err := m.resolveTarget(a.Target)
			if err != nil {
				return commands.Result{}, err
			}
			if err := m.Manager.Delete(ctx, task.ID); err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: fmt.Sprintf("deleted %q", task.Name)}, nil
		},
		Show: func(a commands.ShowArgs) (commands.Result, error) {
			switch a.Subject {
			case "tasks", "habits":
				m.CurrentView = ViewTasks
			case "history":
				m.CurrentView = ViewHistory
			case "stats":
				m.CurrentView = ViewStats
			default:
				return commands.Result{}, &commands.CommandError{
					Code:    commands.ErrCodeInvalidArgument,
					Message: fmt.Sprintf("unknown subject %q", a.Subject),
				}
			}
			return commands.Result{Message: "showing " + a.Subject}, nil
		},
	}
}

// resolveTarget accepts a 1-based list position or a task id.
func (m Model) resolveTarget(target string) (habit.Task, error) {
	tasks := m.Manager.Tasks()
	if n, err := strconv.Atoi(target); err == nil {
		if n < 1 || n > len(tasks) {
			return habit.Task{}, fmt.Errorf("no habit at position %d", n)
		}
		return tasks[n-1], nil
	}
	for _, task := range tasks {
		if task.ID == target {
			return task, nil
		}
	}
	return habit.Task{}, fmt.Errorf("no habit matching %q", target)
}

func (m Model) renderPaletteIfActive() string {
	if !m.Palette.Active {
		return ""
	}
	return "\ncmd: " + m.commandInput.View()
}
