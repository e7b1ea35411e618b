package tracker

type EventKind string

const (
	EventTasksLoaded       EventKind = "tasks_loaded"
	EventTaskCreated       EventKind = "task_created"
	EventTaskUpdated       EventKind = "task_updated"
	EventTaskDeleted       EventKind = "task_deleted"
	EventTasksCleared      EventKind = "tasks_cleared"
	EventCompletionAdded   EventKind = "completion_added"
	EventCompletionRemoved EventKind = "completion_removed"
	EventNoteUpdated       EventKind = "note_updated"
)

// Event announces a successful mutation. TaskID is empty for collection-wide
// events.
type Event struct {
	Kind   EventKind
	TaskID string
}

// Subscribe returns a channel receiving every mutation event. Sends are
// non-blocking; a subscriber that falls behind misses events rather than
// stalling mutations.
func (m *Manager) Subscribe() <-chan Event {
	ch := make(chan Event, 16)
	m.mu.Lock()
	m.subs = append(m.subs, ch)
	m.mu.Unlock()
	return ch
}

func (m *Manager) publish(ev Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.publishLocked(ev)
}

func (m *Manager) publishLocked(ev Event) {
	for _, ch := range m.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}
