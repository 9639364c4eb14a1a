// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package audio

import (
	"sync/atomic"
)

// DefaultSlots is the number of blocks kept by a ring created with NewRing(0, n).
const DefaultSlots = 3

// Ring hands sample blocks from one writer to one reader without locks.
//
// The writer publishes each completed block into the next slot and then
// advances the cursor. The reader always takes the most recently completed
// block and never waits for the writer; if it reads faster than the writer
// produces, it sees the same block again. Published blocks are never modified,
// so a reader may hold on to one after the writer has moved past its slot.
type Ring struct {
	slots    []atomic.Pointer[block]
	cursor   atomic.Uint64
	blockLen int
}

type block struct {
	seq     uint64
	samples []int16
}

// NewRing creates a ring of slots blocks of blockLen samples each.
// slots <= 0 selects DefaultSlots.
func NewRing(slots, blockLen int) *Ring {
	if slots <= 0 {
		slots = DefaultSlots
	}
	return &Ring{
		slots:    make([]atomic.Pointer[block], slots),
		blockLen: blockLen,
	}
}

// BlockLen returns the number of samples in each block.
func (r *Ring) BlockLen() int {
	return r.blockLen
}

// Publish copies samples into the next slot and makes it the latest. Short
// blocks are padded with silence and long blocks are truncated.
func (r *Ring) Publish(samples []int16) {
	b := &block{samples: make([]int16, r.blockLen)}
	copy(b.samples, samples)

	c := r.cursor.Load()
	b.seq = c + 1
	r.slots[c%uint64(len(r.slots))].Store(b)
	r.cursor.Store(c + 1)
}

// Latest returns the most recently published block and its sequence number
// (1 for the first block). It returns false before anything was published.
// The returned slice must not be modified.
func (r *Ring) Latest() ([]int16, uint64, bool) {
	for {
		c := r.cursor.Load()
		if c == 0 {
			return nil, 0, false
		}
		// A slot holding a later block means the writer lapped the ring
		// between the two loads; read the cursor again.
		if b := r.slots[(c-1)%uint64(len(r.slots))].Load(); b != nil && b.seq == c {
			return b.samples, c, true
		}
	}
}

// Published returns how many blocks have been published.
func (r *Ring) Published() uint64 {
	return r.cursor.Load()
}
