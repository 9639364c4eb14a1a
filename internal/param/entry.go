// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package param

import (
	"fmt"
	"math"
	"slices"

	"github.com/samber/oops"
)

// Entry is a single named, typed parameter.
type Entry struct {
	name     string
	typ      Type
	value    Value
	def      Value
	choices  []string
	min, max float64
	hasRange bool
}

// NewString declares a string parameter.
func NewString(name, def string) *Entry {
	return newEntry(name, TypeString, String(def))
}

// NewInt declares an integer parameter.
func NewInt(name string, def int) *Entry {
	return newEntry(name, TypeInt, Int(def))
}

// NewFloat declares a floating point parameter.
func NewFloat(name string, def float64) *Entry {
	return newEntry(name, TypeFloat, Float(def))
}

// NewEnum declares an enumeration parameter whose value must be one of choices.
func NewEnum(name, def string, choices ...string) *Entry {
	e := newEntry(name, TypeEnum, Enum(def))
	e.choices = slices.Clone(choices)
	return e
}

func newEntry(name string, typ Type, def Value) *Entry {
	return &Entry{name: name, typ: typ, value: def, def: def}
}

// WithRange limits an int or float parameter to [lo, hi].
func (e *Entry) WithRange(lo, hi float64) *Entry {
	e.min, e.max, e.hasRange = lo, hi, true
	return e
}

// Name returns the parameter name.
func (e *Entry) Name() string { return e.name }

// Is reports whether the entry is named name.
func (e *Entry) Is(name string) bool { return e.name == name }

// Type returns the declared type.
func (e *Entry) Type() Type { return e.typ }

// Value returns the current value.
func (e *Entry) Value() Value { return e.value }

// Default returns the declared default.
func (e *Entry) Default() Value { return e.def }

// Choices returns the allowed values of an enum parameter.
func (e *Entry) Choices() []string { return slices.Clone(e.choices) }

// Range returns the numeric limits, if any.
func (e *Entry) Range() (lo, hi float64, ok bool) { return e.min, e.max, e.hasRange }

// GetString returns the current string or enum value.
func (e *Entry) GetString() string { return e.value.StringValue() }

// GetInt returns the current int value.
func (e *Entry) GetInt() int { return e.value.IntValue() }

// GetFloat returns the current float value.
func (e *Entry) GetFloat() float64 { return e.value.FloatValue() }

// coerce checks v against the entry's declaration and returns the value to store.
func (e *Entry) coerce(v Value) (Value, error) {
	errb := oops.With("param", e.name).With("declared", e.typ.String()).With("given", v.typ.String())

	switch {
	case v.typ == e.typ:
	case e.typ == TypeFloat && v.typ == TypeInt:
		v = Float(float64(v.i))
	default:
		return Value{}, errb.Code("PARAM_TYPE_MISMATCH").Wrap(ErrTypeMismatch)
	}

	switch e.typ {
	case TypeEnum:
		if !slices.Contains(e.choices, v.s) {
			return Value{}, errb.Code("PARAM_TYPE_MISMATCH").With("choice", v.s).
				Wrap(fmt.Errorf("%w: %q is not one of %v", ErrTypeMismatch, v.s, e.choices))
		}
	case TypeFloat:
		if math.IsNaN(v.f) {
			return Value{}, errb.Code("PARAM_OUT_OF_RANGE").Wrap(ErrOutOfRange)
		}
		if e.hasRange && (v.f < e.min || v.f > e.max) {
			return Value{}, errb.Code("PARAM_OUT_OF_RANGE").With("min", e.min).With("max", e.max).With("value", v.f).Wrap(ErrOutOfRange)
		}
	case TypeInt:
		if e.hasRange && (float64(v.i) < e.min || float64(v.i) > e.max) {
			return Value{}, errb.Code("PARAM_OUT_OF_RANGE").With("min", e.min).With("max", e.max).With("value", v.i).Wrap(ErrOutOfRange)
		}
	}

	return v, nil
}
