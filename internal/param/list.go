// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package param

import (
	"errors"

	"github.com/samber/oops"

	"github.com/holomush/lvhost/internal/event"
)

// Sentinel errors for programmatic error checking.
var (
	// ErrNotFound is returned when a parameter name is not in the list.
	ErrNotFound = errors.New("parameter not found")
	// ErrDuplicateName is returned when adding a name that already exists.
	ErrDuplicateName = errors.New("duplicate parameter name")
	// ErrTypeMismatch is returned when a value does not fit the declared type.
	ErrTypeMismatch = errors.New("parameter type mismatch")
	// ErrOutOfRange is returned when a numeric value is outside the declared range.
	ErrOutOfRange = errors.New("parameter value out of range")
	// ErrAlreadyBound is returned when binding a list a second time.
	ErrAlreadyBound = errors.New("parameter list already bound to an event queue")
)

// List is the ordered set of parameters owned by one plugin instance.
//
// Once bound to an event queue, every successful change pushes exactly one
// ParamChanged event. Changes made before binding are silent.
//
// List is not safe for concurrent use.
type List struct {
	entries []*Entry
	index   map[string]*Entry
	queue   *event.Queue
}

// NewList creates an empty, unbound list.
func NewList() *List {
	return &List{index: make(map[string]*Entry)}
}

// Add inserts entries in order. Either all entries are added or none are.
func (l *List) Add(entries ...*Entry) error {
	seen := make(map[string]bool, len(entries))
	for _, e := range entries {
		if e == nil {
			return oops.Code("PARAM_INVALID_ENTRY").Errorf("nil parameter entry")
		}
		if _, ok := l.index[e.name]; ok || seen[e.name] {
			return oops.Code("PARAM_DUPLICATE_NAME").With("param", e.name).Wrap(ErrDuplicateName)
		}
		if _, err := e.coerce(e.def); err != nil {
			return oops.With("param", e.name).Hint("default does not satisfy the declaration").Wrap(err)
		}
		seen[e.name] = true
	}

	for _, e := range entries {
		l.entries = append(l.entries, e)
		l.index[e.name] = e
	}
	return nil
}

// Entry returns the named entry.
func (l *List) Entry(name string) (*Entry, bool) {
	e, ok := l.index[name]
	return e, ok
}

// Get returns the current value of the named parameter.
func (l *List) Get(name string) (Value, bool) {
	e, ok := l.index[name]
	if !ok {
		return Value{}, false
	}
	return e.value, true
}

// Set validates v against the named entry and stores it. The stored value is
// unchanged on error. If v differs from the current value and the list is
// bound, a ParamChanged event is queued.
func (l *List) Set(name string, v Value) error {
	e, ok := l.index[name]
	if !ok {
		return oops.Code("PARAM_NOT_FOUND").With("param", name).Wrap(ErrNotFound)
	}

	coerced, err := e.coerce(v)
	if err != nil {
		return err
	}

	if coerced.Equal(e.value) {
		return nil
	}
	e.value = coerced

	if l.queue != nil {
		l.queue.Push(event.ParamChanged(name))
	}
	return nil
}

// SetMany validates every value in values before storing any of them. On
// error no parameter changes and no event is queued. Otherwise values are
// stored in declaration order, each change queuing one ParamChanged event as
// Set does.
func (l *List) SetMany(values map[string]Value) error {
	for name := range values {
		if _, ok := l.index[name]; !ok {
			return oops.Code("PARAM_NOT_FOUND").With("param", name).Wrap(ErrNotFound)
		}
	}

	coerced := make(map[string]Value, len(values))
	for _, e := range l.entries {
		v, ok := values[e.name]
		if !ok {
			continue
		}
		c, err := e.coerce(v)
		if err != nil {
			return err
		}
		coerced[e.name] = c
	}

	for _, e := range l.entries {
		c, ok := coerced[e.name]
		if !ok || c.Equal(e.value) {
			continue
		}
		e.value = c
		if l.queue != nil {
			l.queue.Push(event.ParamChanged(e.name))
		}
	}
	return nil
}

// Reset restores the named parameter to its default.
func (l *List) Reset(name string) error {
	e, ok := l.index[name]
	if !ok {
		return oops.Code("PARAM_NOT_FOUND").With("param", name).Wrap(ErrNotFound)
	}
	return l.Set(name, e.def)
}

// Names returns the parameter names in declaration order.
func (l *List) Names() []string {
	names := make([]string, len(l.entries))
	for i, e := range l.entries {
		names[i] = e.name
	}
	return names
}

// Len returns the number of parameters.
func (l *List) Len() int {
	return len(l.entries)
}

// Truncate removes every entry after the first n. The host uses it to roll
// back declarations made by a plugin whose initialisation failed.
func (l *List) Truncate(n int) {
	if n < 0 || n >= len(l.entries) {
		return
	}
	for _, e := range l.entries[n:] {
		delete(l.index, e.name)
	}
	clear(l.entries[n:])
	l.entries = l.entries[:n]
}

// Bind attaches the event sink. A list can be bound only once.
func (l *List) Bind(q *event.Queue) error {
	if q == nil {
		return oops.Code("PARAM_INVALID_QUEUE").Errorf("cannot bind to a nil queue")
	}
	if l.queue != nil {
		return oops.Code("PARAM_ALREADY_BOUND").Wrap(ErrAlreadyBound)
	}
	l.queue = q
	return nil
}

// Unbind detaches the event sink so later changes are silent again. The host
// uses it to roll back an instance whose initialisation failed.
func (l *List) Unbind() {
	l.queue = nil
}

// Bound reports whether the list has an event sink.
func (l *List) Bound() bool {
	return l.queue != nil
}
