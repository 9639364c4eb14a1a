// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package errutil

import (
	"testing"

	"github.com/samber/oops"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustOops(t *testing.T, err error) oops.OopsError {
	t.Helper()
	require.Error(t, err)
	oopsErr, ok := oops.AsOops(err)
	require.True(t, ok, "%T is not an oops error: %v", err, err)
	return oopsErr
}

// AssertErrorCode fails the test unless err carries the oops code.
func AssertErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	assert.Equal(t, code, mustOops(t, err).Code())
}

// AssertErrorContext fails the test unless err carries key=value in its oops
// context.
func AssertErrorContext(t *testing.T, err error, key string, value any) {
	t.Helper()
	got, ok := mustOops(t, err).Context()[key]
	if assert.True(t, ok, "context has no %q", key) {
		assert.Equal(t, value, got)
	}
}

// AssertError checks both the sentinel in err's chain and its oops code.
func AssertError(t *testing.T, err, target error, code string) {
	t.Helper()
	assert.ErrorIs(t, err, target)
	AssertErrorCode(t, err, code)
}
