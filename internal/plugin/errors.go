// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package plugin

import "errors"

// Sentinel errors for programmatic error checking with errors.Is.
// Returned errors wrap these and carry an oops code and context.
var (
	// ErrNotFound is returned when no plugin is registered under a type and name.
	ErrNotFound = errors.New("plugin not found")
	// ErrDuplicateName is returned when a (type, name) pair is registered twice.
	ErrDuplicateName = errors.New("duplicate plugin name")
	// ErrInvalidInfo is returned by Register for a malformed descriptor.
	ErrInvalidInfo = errors.New("invalid plugin info")
	// ErrUnknownType is returned for a plugin type name that is not input, actor or morph.
	ErrUnknownType = errors.New("unknown plugin type")
	// ErrInitFailed wraps the error a plugin returned from Init.
	ErrInitFailed = errors.New("plugin init failed")
	// ErrNotRealized is returned for work requested from an instance that is not realized.
	ErrNotRealized = errors.New("plugin instance not realized")
	// ErrWrongType is returned when the plugin lacks the capability an operation needs.
	ErrWrongType = errors.New("plugin does not support operation")
	// ErrUnloaded is returned for any use of an unloaded instance.
	ErrUnloaded = errors.New("plugin instance unloaded")
	// ErrUnsupportedDepth is returned when a plugin cannot draw into a buffer's depth.
	ErrUnsupportedDepth = errors.New("unsupported video depth")
	// ErrDimensionMismatch is returned when morph buffers differ in width, height or depth.
	ErrDimensionMismatch = errors.New("buffer dimensions do not match")
	// ErrRateOutOfRange is returned for a morph rate outside [0, 1] or NaN.
	ErrRateOutOfRange = errors.New("morph rate out of range")
	// ErrNilBuffer is returned when a required video buffer is nil.
	ErrNilBuffer = errors.New("nil video buffer")
	// ErrHostClosed is returned by Load after the host was closed.
	ErrHostClosed = errors.New("host closed")
	// ErrInvalidPreset is returned for a preset that fails parsing or validation.
	ErrInvalidPreset = errors.New("invalid preset")
	// ErrPresetMismatch is returned when a preset names a different plugin.
	ErrPresetMismatch = errors.New("preset targets another plugin")
)
