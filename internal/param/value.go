// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package param implements the typed configuration surface of plugin instances.
package param

import (
	"strconv"
)

// Type identifies the declared type of a parameter.
type Type uint8

// Parameter types.
const (
	TypeString Type = iota + 1
	TypeInt
	TypeFloat
	TypeEnum
)

// String returns the string representation of a Type.
func (t Type) String() string {
	switch t {
	case TypeString:
		return "string"
	case TypeInt:
		return "int"
	case TypeFloat:
		return "float"
	case TypeEnum:
		return "enum"
	default:
		return "unknown"
	}
}

// Value is a typed parameter value. The zero Value has no type and is never
// accepted by a List.
type Value struct {
	typ Type
	s   string
	i   int
	f   float64
}

// String creates a string value.
func String(s string) Value { return Value{typ: TypeString, s: s} }

// Int creates an integer value.
func Int(i int) Value { return Value{typ: TypeInt, i: i} }

// Float creates a floating point value.
func Float(f float64) Value { return Value{typ: TypeFloat, f: f} }

// Enum creates an enumeration value naming one of an entry's choices.
func Enum(choice string) Value { return Value{typ: TypeEnum, s: choice} }

// Type returns the value's type.
func (v Value) Type() Type { return v.typ }

// StringValue returns the contents of a string or enum value, or "" otherwise.
func (v Value) StringValue() string { return v.s }

// IntValue returns the contents of an int value, or 0 otherwise.
func (v Value) IntValue() int { return v.i }

// FloatValue returns the contents of a float value. Int values are widened.
func (v Value) FloatValue() float64 {
	if v.typ == TypeInt {
		return float64(v.i)
	}
	return v.f
}

// Equal reports whether v and o have the same type and contents.
func (v Value) Equal(o Value) bool {
	return v == o
}

// String formats the value for display.
func (v Value) String() string {
	switch v.typ {
	case TypeString, TypeEnum:
		return v.s
	case TypeInt:
		return strconv.Itoa(v.i)
	case TypeFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	default:
		return "<unset>"
	}
}
