package update

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/habitd/internal/reminder"
	"github.com/sandeepkv93/habitd/internal/views"
)

func (m Model) Init() tea.Cmd {
	if m.Backend != nil {
		return waitForDeliveryCmd(m.Backend.C())
	}
	return nil
}

func waitForDeliveryCmd(ch <-chan reminder.Delivery) tea.Cmd {
	return func() tea.Msg {
		d, ok := <-ch
		if !ok {
			return nil
		}
		return ReminderDeliveredMsg{Delivery: d}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.KeyMsg:
		if m.Palette.Active {
			return m.handlePaletteKey(typed)
		}
		if m.AddMode {
			return m.handleQuickAddKey(typed)
		}
		if m.DayEditMode {
			return m.handleDayEditKey(typed)
		}

		switch typed.String() {
		case "/":
			m.Palette.Active = true
			m.commandInput.SetValue("")
			m.commandInput.Focus()
			m.Status = StatusBar{Text: "command palette active"}
			return m, nil
		case m.Keys.Tasks:
			m.CurrentView = ViewTasks
			return m, nil
		case m.Keys.History:
			m.CurrentView = ViewHistory
			return m, nil
		case m.Keys.Stats:
			m.CurrentView = ViewStats
			m.syncStatsTable()
			return m, nil
		case m.Keys.Help:
			m.HelpVisible = !m.HelpVisible
			return m, nil
		case "X":
			return m.completeDeliveredTask()
		case ",":
			return m.delayDeliveredTask(30)
		case ".":
			return m.delayDeliveredTask(60)
		case "ctrl+c", m.Keys.Quit:
			m.Quitting = true
			return m, tea.Quit
		}

		switch m.CurrentView {
		case ViewTasks:
			return m.handleTasksKey(typed)
		case ViewHistory:
			return m.handleHistoryKey(typed)
		case ViewStats:
			return m.handleStatsKey(typed)
		}
	case SwitchViewMsg:
		if isKnownView(typed.View) {
			m.CurrentView = typed.View
		}
		return m, nil
	case SetStatusMsg:
		m.Status = StatusBar{Text: typed.Text, IsError: typed.IsError}
		return m, nil
	case AppErrorMsg:
		m.LastError = typed.Err
		if typed.Err != nil {
			m.Status = StatusBar{Text: typed.Err.Error(), IsError: true}
		}
		return m, nil
	case ReminderDeliveredMsg:
		d := typed.Delivery
		m.LastDelivery = &d
		m.Status = StatusBar{Text: fmt.Sprintf("reminder: %s (X done | , 30m | . 60m)", d.Title)}
		if m.Backend != nil {
			return m, waitForDeliveryCmd(m.Backend.C())
		}
		return m, nil
	}

	return m, nil
}

func (m Model) View() string {
	status := ""
	if m.Status.Text != "" {
		if m.Status.IsError {
			status = fmt.Sprintf("status: error: %s", m.Status.Text)
		} else {
			status = fmt.Sprintf("status: %s", m.Status.Text)
		}
	}

	leftPane := ""
	rightPane := ""
	switch m.CurrentView {
	case ViewTasks:
		leftPane = m.renderTasksView()
		rightPane = m.renderTaskDetailPane() + m.renderPaletteIfActive() + m.renderHelpIfVisible()
	case ViewHistory:
		leftPane = m.renderHistoryView()
		rightPane = m.renderPaletteIfActive() + m.renderHelpIfVisible()
	case ViewStats:
		leftPane = m.renderStatsView()
		rightPane = m.renderWeekdayStatsPane() + m.renderPaletteIfActive() + m.renderHelpIfVisible()
	}

	notification := ""
	if m.LastDelivery != nil {
		notification = fmt.Sprintf("reminder: %s @ %s", m.LastDelivery.Title, m.LastDelivery.FiredAt.Format("15:04:05"))
	}

	return views.RenderApp(views.AppData{
		Header:       fmt.Sprintf("habitd | view: %s", m.CurrentView),
		LeftPane:     leftPane,
		RightPane:    rightPane,
		StatusLine:   status,
		Notification: notification,
		Footer: fmt.Sprintf("keys: %s tasks | %s history | %s stats | n new | space toggle | / cmd | %s help | %s quit",
			m.Keys.Tasks, m.Keys.History, m.Keys.Stats, m.Keys.Help, m.Keys.Quit),
	})
}

func isKnownView(v View) bool {
	switch v {
	case ViewTasks, ViewHistory, ViewStats:
		return true
	default:
		return false
	}
}
