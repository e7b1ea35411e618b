package update

import "github.com/sandeepkv93/habitd/internal/views"

const helpMarkdown = `# habitd

## Views
- **1** tasks, **2** history, **3** stats

## Tasks
- **up/down** move, **space** toggle done today
- **n** new habit, **d** delete, **r** toggle reminder, **T** trigger reminder now
- **w** edit days: **1..7** toggle Mon..Sun, **esc** to finish

## Reminders
When a reminder fires: **X** mark done, **,** delay 30 min, **.** delay 60 min

## Command palette (/)
- add <name> [-- description]
- done <n> [note] / undone <n>
- note <n> <text>
- remind <n> on|off|HH:MM
- days <n> mon,wed,fri
- delete <n>
- show tasks|history|stats
`

func (m Model) renderHelpIfVisible() string {
	if !m.HelpVisible {
		return ""
	}
	return "\n" + views.RenderMarkdown(helpMarkdown)
}
