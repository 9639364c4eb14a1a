// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package audio provides PCM sample blocks and the hand-off ring between a
// capture goroutine and the render loop.
package audio

// Defaults matching the reference capture stream: 16-bit stereo at 44.1 kHz,
// delivered in blocks of 1024 samples.
const (
	DefaultRate        = 44100
	DefaultChannels    = 2
	DefaultBlockFrames = 512
)

// Buffer is a block of interleaved signed 16-bit samples.
type Buffer struct {
	Samples  []int16
	Rate     int
	Channels int
}

// NewBuffer allocates a silent buffer of frames frames.
func NewBuffer(frames, channels, rate int) *Buffer {
	if channels <= 0 {
		channels = DefaultChannels
	}
	if rate <= 0 {
		rate = DefaultRate
	}
	if frames < 0 {
		frames = 0
	}
	return &Buffer{
		Samples:  make([]int16, frames*channels),
		Rate:     rate,
		Channels: channels,
	}
}

// Frames returns the number of sample frames.
func (b *Buffer) Frames() int {
	if b == nil || b.Channels <= 0 {
		return 0
	}
	return len(b.Samples) / b.Channels
}

// Sample returns the sample of channel ch in frame i.
func (b *Buffer) Sample(i, ch int) int16 {
	return b.Samples[i*b.Channels+ch]
}

// Load replaces the buffer contents with samples, reusing storage when possible.
func (b *Buffer) Load(samples []int16) {
	if cap(b.Samples) < len(samples) {
		b.Samples = make([]int16, len(samples))
	}
	b.Samples = b.Samples[:len(samples)]
	copy(b.Samples, samples)
}
