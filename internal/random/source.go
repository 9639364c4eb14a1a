// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package random provides seeded pseudo-random generators for plugin instances.
//
// A single Source is created when the host starts and closed when it shuts
// down. Each plugin instance draws one seed from it at load time and from then
// on uses its own Context exclusively.
package random

import (
	"errors"
	"math/rand/v2"
	"sync"
)

// ErrClosed is returned when drawing from a closed Source.
var ErrClosed = errors.New("random source closed")

// Source is the process-wide generator that seeds per-instance contexts.
//
// Source is safe for concurrent use.
type Source struct {
	mu     sync.Mutex
	rng    *rand.Rand
	closed bool
}

// NewSource creates a Source seeded with seed.
func NewSource(seed uint64) *Source {
	return &Source{
		rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)), //nolint:gosec // visual effects, not cryptography
	}
}

// Next draws the seed for a new Context.
func (s *Source) Next() (uint32, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return 0, ErrClosed
	}
	return s.rng.Uint32(), nil
}

// Close tears the source down. Contexts already handed out keep working.
func (s *Source) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}

// Closed reports whether Close has been called.
func (s *Source) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}
