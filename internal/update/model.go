package update

import (
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"

	"github.com/sandeepkv93/habitd/internal/reminder"
	"github.com/sandeepkv93/habitd/internal/tracker"
)

type View string

const (
	ViewTasks   View = "Tasks"
	ViewHistory View = "History"
	ViewStats   View = "Stats"
)

type StatusBar struct {
	Text    string
	IsError bool
}

type GlobalKeyMap struct {
	Tasks   string
	History string
	Stats   string
	Help    string
	Quit    string
}

type CommandPaletteState struct {
	Active bool
	Input  string
}

type Model struct {
	Manager     *tracker.Manager
	Backend     *reminder.LocalBackend
	CurrentView View
	Cursor      int
	HistoryDays int
	Palette     CommandPaletteState
	HelpVisible bool
	AddMode     bool
	DayEditMode bool
	Status      StatusBar
	Keys        GlobalKeyMap
	Quitting    bool
	LastError   error
	// Last delivered reminder, the target of the action keys.
	LastDelivery  *reminder.Delivery
	quickAddInput textinput.Model
	commandInput  textinput.Model
	statsTable    table.Model
	now           func() time.Time
}

type SwitchViewMsg struct {
	View View
}

type SetStatusMsg struct {
	Text    string
	IsError bool
}

type AppErrorMsg struct {
	Err error
}

type ReminderDeliveredMsg struct {
	Delivery reminder.Delivery
}

func NewModel(manager *tracker.Manager, backend *reminder.LocalBackend, cfg RuntimeConfig) Model {
	m := Model{
		Manager:     manager,
		Backend:     backend,
		CurrentView: ViewTasks,
		HistoryDays: cfg.HistoryDays,
		Keys: GlobalKeyMap{
			Tasks:   "1",
			History: "2",
			Stats:   "3",
			Help:    "?",
			Quit:    "q",
		},
		now: time.Now,
	}
	if m.HistoryDays <= 0 {
		m.HistoryDays = 7
	}

	quickAdd := textinput.New()
	quickAdd.Placeholder = "habit name -- description"
	quickAdd.CharLimit = 120
	m.quickAddInput = quickAdd

	command := textinput.New()
	command.Placeholder = "add | done | undone | note | remind | delete | show"
	command.CharLimit = 160
	m.commandInput = command

	m.statsTable = table.New(
		table.WithColumns([]table.Column{
			{Title: "Habit", Width: 28},
			{Title: "Done", Width: 6},
		}),
		table.WithHeight(8),
	)
	m.syncStatsTable()
	return m
}
