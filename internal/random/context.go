// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package random

import "math/rand/v2"

// Context is a deterministic generator owned by exactly one plugin instance.
// Two contexts created with the same seed produce the same sequence.
//
// Context is not safe for concurrent use. It cannot be reseeded.
type Context struct {
	seed uint32
	rng  *rand.Rand
}

// NewContext creates a Context from seed.
func NewContext(seed uint32) *Context {
	s := uint64(seed)
	return &Context{
		seed: seed,
		rng:  rand.New(rand.NewPCG(s, s<<32|s)), //nolint:gosec // visual effects, not cryptography
	}
}

// Seed returns the seed the context was created with.
func (c *Context) Seed() uint32 {
	return c.seed
}

// Uint32 returns a uniformly distributed 32-bit value.
func (c *Context) Uint32() uint32 {
	return c.rng.Uint32()
}

// IntN returns a value in [0, n). It panics if n <= 0.
func (c *Context) IntN(n int) int {
	return c.rng.IntN(n)
}

// IntRange returns a value in [lo, hi]. The bounds may be given in either order.
func (c *Context) IntRange(lo, hi int) int {
	if lo > hi {
		lo, hi = hi, lo
	}
	return lo + c.rng.IntN(hi-lo+1)
}

// Float64 returns a value in [0, 1).
func (c *Context) Float64() float64 {
	return c.rng.Float64()
}

// Float32 returns a value in [0, 1).
func (c *Context) Float32() float32 {
	return c.rng.Float32()
}

// Decide returns true with probability p. p <= 0 never succeeds and p >= 1
// always does.
func (c *Context) Decide(p float64) bool {
	return c.rng.Float64() < p
}
