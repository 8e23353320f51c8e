package timectrl

import (
	"container/heap"
	"time"
)

// SimClock is an interface for accessing simulation time. Components that
// only need to read the clock (mobility models, loggers) depend on this
// rather than on the concrete Scheduler type, enabling testability.
type SimClock interface {
	// Now returns the current simulation time.
	Now() time.Time
}

// EventID identifies a scheduled event so it can be cancelled before it
// fires. The zero value is never a valid ID.
type EventID uint64

type event struct {
	at        time.Time
	seq       uint64
	id        EventID
	fn        func()
	cancelled bool
}

// Scheduler is a single-threaded virtual-time event queue. Events execute
// strictly in time order; events scheduled for the same instant execute in
// the order they were scheduled. The simulation clock only advances when an
// event is dispatched, so delays driven through it are virtual-time, not
// wall-clock.
type Scheduler struct {
	now     time.Time
	seq     uint64
	nextID  EventID
	queue   eventQueue
	pending map[EventID]*event
}

// NewScheduler constructs a scheduler with its clock set to start.
func NewScheduler(start time.Time) *Scheduler {
	return &Scheduler{
		now:     start,
		pending: make(map[EventID]*event),
	}
}

// Now returns the current simulation time. Implements SimClock.
func (s *Scheduler) Now() time.Time {
	return s.now
}

// ScheduleAt enqueues fn to run at the absolute simulation time t. Times in
// the past are clamped to the current clock so causality is preserved.
func (s *Scheduler) ScheduleAt(t time.Time, fn func()) EventID {
	if t.Before(s.now) {
		t = s.now
	}
	s.seq++
	s.nextID++
	ev := &event{at: t, seq: s.seq, id: s.nextID, fn: fn}
	heap.Push(&s.queue, ev)
	s.pending[ev.id] = ev
	return ev.id
}

// ScheduleAfter enqueues fn to run after the simulation-time delay d.
func (s *Scheduler) ScheduleAfter(d time.Duration, fn func()) EventID {
	return s.ScheduleAt(s.now.Add(d), fn)
}

// Cancel removes a pending event. It reports whether the event was still
// pending; cancelling an already-executed or unknown ID is a no-op.
func (s *Scheduler) Cancel(id EventID) bool {
	ev, ok := s.pending[id]
	if !ok {
		return false
	}
	ev.cancelled = true
	delete(s.pending, id)
	return true
}

// Len returns the number of pending (non-cancelled) events.
func (s *Scheduler) Len() int {
	return len(s.pending)
}

// Run dispatches events until the queue is empty and returns the number of
// events executed. Callbacks may schedule further events.
func (s *Scheduler) Run() int {
	return s.run(time.Time{}, false)
}

// RunUntil dispatches events with timestamps up to and including t, advances
// the clock to t, and returns the number of events executed. Events beyond t
// remain pending.
func (s *Scheduler) RunUntil(t time.Time) int {
	n := s.run(t, true)
	if t.After(s.now) {
		s.now = t
	}
	return n
}

func (s *Scheduler) run(until time.Time, bounded bool) int {
	executed := 0
	for s.queue.Len() > 0 {
		next := s.queue[0]
		if next.cancelled {
			heap.Pop(&s.queue)
			continue
		}
		if bounded && next.at.After(until) {
			break
		}
		heap.Pop(&s.queue)
		delete(s.pending, next.id)
		s.now = next.at
		next.fn()
		executed++
	}
	return executed
}

// eventQueue is a min-heap over (time, seq).
type eventQueue []*event

func (q eventQueue) Len() int { return len(q) }

func (q eventQueue) Less(i, j int) bool {
	if q[i].at.Equal(q[j].at) {
		return q[i].seq < q[j].seq
	}
	return q[i].at.Before(q[j].at)
}

func (q eventQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
}

func (q *eventQueue) Push(x any) {
	*q = append(*q, x.(*event))
}

func (q *eventQueue) Pop() any {
	old := *q
	n := len(old)
	ev := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return ev
}
