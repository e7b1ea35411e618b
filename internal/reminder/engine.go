package reminder

import (
	"container/heap"
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"
)

var ErrInvalidTrigger = errors.New("reminder: invalid trigger")

// Delivery is a reminder the local backend fired, ready to be shown.
type Delivery struct {
	Identifier string
	Type       string
	TaskID     string
	Title      string
	Subtitle   string
	Actions    []string
	FiredAt    time.Time
}

type queueItem struct {
	req    Request
	fireAt time.Time
	seq    uint64
}

type deliveryQueue []queueItem

func (pq deliveryQueue) Len() int { return len(pq) }

func (pq deliveryQueue) Less(i, j int) bool {
	return pq[i].fireAt.Before(pq[j].fireAt)
}

func (pq deliveryQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
}

func (pq *deliveryQueue) Push(x any) {
	*pq = append(*pq, x.(queueItem))
}

func (pq *deliveryQueue) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[0 : n-1]
	return item
}

// LocalBackend is an in-process notification backend. It keeps pending
// triggers in a time-ordered heap and emits deliveries on a channel; weekly
// triggers re-enqueue themselves for the following week after firing.
// Scheduling an identifier that is already pending replaces it; stale heap
// entries are skipped lazily via a sequence check.
type LocalBackend struct {
	mu      sync.Mutex
	queue   deliveryQueue
	pending map[string]uint64
	seq     uint64
	out     chan Delivery
	wakeup  chan struct{}
	stopCh  chan struct{}
	doneCh  chan struct{}
	started bool
	stopped bool
	dropped uint64
	now     func() time.Time
}

func NewLocalBackend(bufferSize int) *LocalBackend {
	if bufferSize <= 0 {
		bufferSize = 1
	}
	return &LocalBackend{
		queue:   make(deliveryQueue, 0),
		pending: make(map[string]uint64),
		out:     make(chan Delivery, bufferSize),
		wakeup:  make(chan struct{}, 1),
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
		now:     time.Now,
	}
}

func (b *LocalBackend) C() <-chan Delivery {
	return b.out
}

func (b *LocalBackend) Start() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.started {
		return
	}
	b.started = true
	heap.Init(&b.queue)
	go b.loop()
}

func (b *LocalBackend) Stop() {
	b.mu.Lock()
	if !b.started || b.stopped {
		b.mu.Unlock()
		return
	}
	b.stopped = true
	close(b.stopCh)
	b.mu.Unlock()
	<-b.doneCh
}

// RequestPermission always succeeds for the in-process backend.
func (b *LocalBackend) RequestPermission(ctx context.Context) error {
	return nil
}

func (b *LocalBackend) Schedule(ctx context.Context, req Request) error {
	fireAt, err := b.firstFireTime(req.Trigger)
	if err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.stopped {
		return errors.New("reminder: backend stopped")
	}

	b.seq++
	b.pending[req.Identifier] = b.seq
	heap.Push(&b.queue, queueItem{req: req, fireAt: fireAt, seq: b.seq})
	b.signalWakeup()
	return nil
}

func (b *LocalBackend) Cancel(ctx context.Context, identifiers []string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, id := range identifiers {
		delete(b.pending, id)
	}
	b.signalWakeup()
	return nil
}

// Pending returns the identifiers currently scheduled, for inspection.
func (b *LocalBackend) Pending() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, 0, len(b.pending))
	for id := range b.pending {
		out = append(out, id)
	}
	return out
}

func (b *LocalBackend) Dropped() uint64 {
	return atomic.LoadUint64(&b.dropped)
}

func (b *LocalBackend) firstFireTime(trigger Trigger) (time.Time, error) {
	if trigger.Repeats {
		if trigger.Weekday < 1 || trigger.Weekday > 7 {
			return time.Time{}, ErrInvalidTrigger
		}
		return nextWeekdayOccurrence(b.now(), trigger.Weekday, trigger.Hour, trigger.Minute), nil
	}
	if trigger.At.IsZero() {
		return time.Time{}, ErrInvalidTrigger
	}
	return trigger.At, nil
}

func (b *LocalBackend) loop() {
	defer close(b.doneCh)
	defer close(b.out)

	var timer *time.Timer
	for {
		next, hasNext := b.peek()
		if !hasNext {
			select {
			case <-b.wakeup:
				continue
			case <-b.stopCh:
				return
			}
		}

		wait := time.Until(next.fireAt)
		if wait < 0 {
			wait = 0
		}
		timer = resetTimer(timer, wait)

		select {
		case <-timer.C:
			due := b.popDue(b.now())
			for _, item := range due {
				delivery := Delivery{
					Identifier: item.req.Identifier,
					Type:       item.req.Content.Type,
					TaskID:     item.req.Content.TaskID,
					Title:      item.req.Content.Title,
					Subtitle:   item.req.Content.Subtitle,
					Actions:    item.req.Content.Actions,
					FiredAt:    item.fireAt,
				}
				select {
				case b.out <- delivery:
				default:
					atomic.AddUint64(&b.dropped, 1)
				}
			}
		case <-b.wakeup:
			continue
		case <-b.stopCh:
			if timer != nil {
				stopTimer(timer)
			}
			return
		}
	}
}

func (b *LocalBackend) signalWakeup() {
	select {
	case b.wakeup <- struct{}{}:
	default:
	}
}

func (b *LocalBackend) peek() (queueItem, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.dropStale()
	if len(b.queue) == 0 {
		return queueItem{}, false
	}
	return b.queue[0], true
}

// popDue removes and returns every live item due at now. Weekly items are
// re-enqueued for their next occurrence; one-shots leave the pending set.
func (b *LocalBackend) popDue(now time.Time) []queueItem {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]queueItem, 0)
	for len(b.queue) > 0 {
		next := b.queue[0]
		if next.fireAt.After(now) {
			break
		}
		item := heap.Pop(&b.queue).(queueItem)
		if b.pending[item.req.Identifier] != item.seq {
			continue
		}
		out = append(out, item)

		if item.req.Trigger.Repeats {
			trigger := item.req.Trigger
			b.seq++
			b.pending[item.req.Identifier] = b.seq
			heap.Push(&b.queue, queueItem{
				req:    item.req,
				fireAt: nextWeekdayOccurrence(item.fireAt, trigger.Weekday, trigger.Hour, trigger.Minute),
				seq:    b.seq,
			})
		} else {
			delete(b.pending, item.req.Identifier)
		}
	}
	return out
}

// dropStale discards canceled or replaced entries sitting at the heap top
// so peek never waits on a dead trigger. Callers must hold the lock.
func (b *LocalBackend) dropStale() {
	for len(b.queue) > 0 {
		top := b.queue[0]
		if b.pending[top.req.Identifier] == top.seq {
			return
		}
		heap.Pop(&b.queue)
	}
}

// nextWeekdayOccurrence finds the first time strictly after from that falls
// on the given scheduler weekday (Sunday=1) at hour:minute local time.
func nextWeekdayOccurrence(from time.Time, schedulerWeekday, hour, minute int) time.Time {
	target := time.Weekday((schedulerWeekday - 1) % 7)
	y, m, d := from.Date()
	candidate := time.Date(y, m, d, hour, minute, 0, 0, from.Location())
	for candidate.Weekday() != target || !candidate.After(from) {
		candidate = candidate.AddDate(0, 0, 1)
	}
	return candidate
}

func resetTimer(timer *time.Timer, d time.Duration) *time.Timer {
	if timer == nil {
		return time.NewTimer(d)
	}
	stopTimer(timer)
	timer.Reset(d)
	return timer
}

func stopTimer(timer *time.Timer) {
	if timer == nil {
		return
	}
	if !timer.Stop() {
		select {
		case <-timer.C:
		default:
		}
	}
}
