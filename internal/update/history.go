package update

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/habitd/internal/views"
)

const maxHistoryDays = 60

func (m Model) handleHistoryKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "+", "=":
		if m.HistoryDays < maxHistoryDays {
			m.HistoryDays++
		}
	case "-":
		if m.HistoryDays > 1 {
			m.HistoryDays--
		}
	}
	return m, nil
}

func (m Model) renderHistoryView() string {
	series := m.Manager.LastNDaysCompletions(m.HistoryDays)
	byID := make(map[string]string)
	for _, task := range m.Manager.Tasks() {
		byID[task.ID] = task.Name
	}

	lines := make([]string, 0, len(series)+1)
	lines = append(lines, fmt.Sprintf("last %d days (+/- to adjust)", m.HistoryDays))
	for _, day := range series {
		label := day.Date.Format("Mon 02 Jan")
		if len(day.Completions) == 0 {
			lines = append(lines, label+"  "+views.Muted("-"))
			continue
		}
		names := make([]string, 0, len(day.Completions))
		for _, c := range day.Completions {
			name := byID[c.TaskID]
			if name == "" {
				name = c.TaskID
			}
			if c.Note != "" {
				name += " (" + c.Note + ")"
			}
			names = append(names, name)
		}
		lines = append(lines, label+"  "+strings.Join(names, ", "))
	}
	return strings.Join(lines, "\n")
}
