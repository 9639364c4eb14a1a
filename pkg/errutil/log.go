// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package errutil provides helpers for logging and asserting oops errors.
package errutil

import (
	"log/slog"

	"github.com/samber/oops"
)

// LogError logs err at error level. For oops errors the code and context are
// logged as separate attributes. Extra args are appended as key/value pairs.
func LogError(logger *slog.Logger, msg string, err error, args ...any) {
	logger.Error(msg, append(Attrs(err), args...)...)
}

// LogWarn is LogError at warn level, for failures that do not stop the caller.
func LogWarn(logger *slog.Logger, msg string, err error, args ...any) {
	logger.Warn(msg, append(Attrs(err), args...)...)
}

// Attrs returns slog key/value pairs describing err.
func Attrs(err error) []any {
	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return []any{"error", err}
	}
	attrs := []any{"error", oopsErr.Error()}
	if code := oopsErr.Code(); code != nil {
		attrs = append(attrs, "code", code)
	}
	if ctx := oopsErr.Context(); len(ctx) > 0 {
		attrs = append(attrs, "context", ctx)
	}
	return attrs
}
