// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package event defines the notifications delivered to plugin instances.
package event

// Kind identifies the kind of event.
type Kind uint8

// Event kinds.
const (
	KindParamChanged Kind = iota + 1
	KindGeneric
)

// String returns the string representation of a Kind.
// Unrecognized kinds return "unknown".
func (k Kind) String() string {
	switch k {
	case KindParamChanged:
		return "param_changed"
	case KindGeneric:
		return "generic"
	default:
		return "unknown"
	}
}

// Event is a single queued notification.
type Event struct {
	Kind Kind
	// Seq is assigned by the queue on Push and increases by one per event.
	Seq uint64
	// Param names the parameter for KindParamChanged.
	Param string
	// Code and Data carry host-defined payloads for KindGeneric.
	Code int
	Data any
}

// ParamChanged creates a parameter change notification.
func ParamChanged(name string) Event {
	return Event{Kind: KindParamChanged, Param: name}
}

// Generic creates a host-defined event.
func Generic(code int, data any) Event {
	return Event{Kind: KindGeneric, Code: code, Data: data}
}
