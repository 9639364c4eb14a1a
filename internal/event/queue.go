// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package event

// DefaultLimit is the queue capacity used when none is configured.
const DefaultLimit = 256

// QueueOption configures a Queue.
type QueueOption func(*Queue)

// WithDropHandler sets a callback invoked with each event discarded because
// the queue was full.
func WithDropHandler(fn func(Event)) QueueOption {
	return func(q *Queue) {
		q.onDrop = fn
	}
}

// Queue is a bounded FIFO of events with a single consumer.
//
// When the queue is full, Push discards the oldest event to make room, so a
// plugin that never drains its queue holds at most Limit events.
//
// Queue is not safe for concurrent use. The owning instance pushes and polls
// from one execution context.
type Queue struct {
	buf     []Event
	head    int
	n       int
	seq     uint64
	dropped uint64
	onDrop  func(Event)
}

// NewQueue creates a queue holding at most limit events.
// A limit <= 0 selects DefaultLimit.
func NewQueue(limit int, opts ...QueueOption) *Queue {
	if limit <= 0 {
		limit = DefaultLimit
	}
	q := &Queue{buf: make([]Event, limit)}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// Push appends ev, assigning its sequence number.
func (q *Queue) Push(ev Event) {
	q.seq++
	ev.Seq = q.seq

	if q.n == len(q.buf) {
		old := q.buf[q.head]
		q.buf[q.head] = Event{}
		q.head = (q.head + 1) % len(q.buf)
		q.n--
		q.dropped++
		if q.onDrop != nil {
			q.onDrop(old)
		}
	}

	q.buf[(q.head+q.n)%len(q.buf)] = ev
	q.n++
}

// Poll removes and returns the oldest event. It returns false when the queue
// is empty.
func (q *Queue) Poll() (Event, bool) {
	if q.n == 0 {
		return Event{}, false
	}
	ev := q.buf[q.head]
	q.buf[q.head] = Event{}
	q.head = (q.head + 1) % len(q.buf)
	q.n--
	return ev, true
}

// LastSeq returns the sequence number of the most recently pushed event, or 0.
func (q *Queue) LastSeq() uint64 {
	return q.seq
}

// Rewind removes every queued event pushed after the one numbered seq. Events
// already polled or dropped are unaffected, and sequence numbers are never
// reused.
func (q *Queue) Rewind(seq uint64) {
	for q.n > 0 {
		tail := (q.head + q.n - 1) % len(q.buf)
		if q.buf[tail].Seq <= seq {
			return
		}
		q.buf[tail] = Event{}
		q.n--
	}
}

// Len returns the number of queued events.
func (q *Queue) Len() int {
	return q.n
}

// Limit returns the queue capacity.
func (q *Queue) Limit() int {
	return len(q.buf)
}

// Dropped returns how many events have been discarded because the queue was full.
func (q *Queue) Dropped() uint64 {
	return q.dropped
}
