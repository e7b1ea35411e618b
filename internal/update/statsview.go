package update

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/habitd/internal/habit"
)

func (m Model) handleStatsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.statsTable, cmd = m.statsTable.Update(msg)
	return m, cmd
}

func (m *Model) syncStatsTable() {
	if m.Manager == nil {
		return
	}
	stats := m.Manager.TaskCompletionStats()
	rows := make([]table.Row, 0, len(stats))
	for _, s := range stats {
		rows = append(rows, table.Row{s.Task.Name, strconv.Itoa(s.Count)})
	}
	m.statsTable.SetRows(rows)
}

func (m Model) renderStatsView() string {
	return "completions per habit\n" + m.statsTable.View()
}

func (m Model) renderWeekdayStatsPane() string {
	stats := m.Manager.WeekdayStats()
	max := 0
	for _, count := range stats {
		if count > max {
			max = count
		}
	}

	lines := make([]string, 0, 8)
	lines = append(lines, "completions per weekday")
	for d := 0; d < 7; d++ {
		bar := ""
		if max > 0 {
			bar = strings.Repeat("#", stats[d]*20/max)
		}
		lines = append(lines, fmt.Sprintf("%s %3d %s", habit.DayName(d), stats[d], bar))
	}
	return strings.Join(lines, "\n")
}
