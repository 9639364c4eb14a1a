// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package plugin

import (
	"github.com/samber/oops"
)

// Type is the role a plugin plays in the pipeline.
type Type uint8

// Plugin types.
const (
	TypeInput Type = iota + 1
	TypeActor
	TypeMorph
)

// Types returns every plugin type in display order.
func Types() []Type {
	return []Type{TypeInput, TypeActor, TypeMorph}
}

func (t Type) String() string {
	switch t {
	case TypeInput:
		return "input"
	case TypeActor:
		return "actor"
	case TypeMorph:
		return "morph"
	default:
		return "unknown"
	}
}

// Valid reports whether t is a known plugin type.
func (t Type) Valid() bool {
	return t >= TypeInput && t <= TypeMorph
}

// ParseType converts a type name to a Type.
func ParseType(s string) (Type, error) {
	for _, t := range Types() {
		if t.String() == s {
			return t, nil
		}
	}
	return 0, oops.Code("PLUGIN_UNKNOWN_TYPE").With("type", s).Wrap(ErrUnknownType)
}

// MarshalText implements encoding.TextMarshaler.
func (t Type) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, oops.Code("PLUGIN_UNKNOWN_TYPE").With("type", uint8(t)).Wrap(ErrUnknownType)
	}
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Type) UnmarshalText(text []byte) error {
	parsed, err := ParseType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
