// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package video provides the pixel buffers that actors render into and morphs
// blend between.
//
// Pixel layouts by depth:
//   - 8 bit: one grayscale byte
//   - 16 bit: RGB565, little endian
//   - 24 bit: B, G, R
//   - 32 bit: B, G, R, A
//
// Colors passed to Fill and SetPixel are 0xAARRGGBB.
package video

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/samber/oops"
)

// Sentinel errors for programmatic error checking.
var (
	// ErrInvalidDimensions is returned for non-positive width or height.
	ErrInvalidDimensions = errors.New("invalid video dimensions")
	// ErrInvalidDepth is returned for an unsupported pixel depth.
	ErrInvalidDepth = errors.New("invalid video depth")
	// ErrShapeMismatch is returned when two buffers differ in size or depth.
	ErrShapeMismatch = errors.New("video buffers differ in shape")
)

// Depth is the number of bits per pixel.
type Depth uint8

// Supported depths.
const (
	Depth8  Depth = 8
	Depth16 Depth = 16
	Depth24 Depth = 24
	Depth32 Depth = 32
)

// ParseDepth converts a bit count to a Depth.
func ParseDepth(bits int) (Depth, error) {
	d := Depth(bits)
	if bits < 0 || bits > 255 || !d.Valid() {
		return 0, oops.Code("VIDEO_INVALID_DEPTH").With("depth", bits).Wrap(ErrInvalidDepth)
	}
	return d, nil
}

// Valid reports whether d is a supported depth.
func (d Depth) Valid() bool {
	switch d {
	case Depth8, Depth16, Depth24, Depth32:
		return true
	default:
		return false
	}
}

// BytesPerPixel returns the pixel size in bytes.
func (d Depth) BytesPerPixel() int {
	return int(d) / 8
}

func (d Depth) String() string {
	return fmt.Sprintf("%dbit", int(d))
}

// Buffer is a packed pixel buffer with no row padding.
type Buffer struct {
	width  int
	height int
	depth  Depth
	pixels []byte
}

// NewBuffer allocates a zeroed buffer.
func NewBuffer(width, height int, depth Depth) (*Buffer, error) {
	if width <= 0 || height <= 0 {
		return nil, oops.Code("VIDEO_INVALID_DIMENSIONS").
			With("width", width).
			With("height", height).
			Wrap(ErrInvalidDimensions)
	}
	if !depth.Valid() {
		return nil, oops.Code("VIDEO_INVALID_DEPTH").With("depth", int(depth)).Wrap(ErrInvalidDepth)
	}
	return &Buffer{
		width:  width,
		height: height,
		depth:  depth,
		pixels: make([]byte, width*height*depth.BytesPerPixel()),
	}, nil
}

// Width returns the width in pixels.
func (b *Buffer) Width() int { return b.width }

// Height returns the height in pixels.
func (b *Buffer) Height() int { return b.height }

// Depth returns the pixel depth.
func (b *Buffer) Depth() Depth { return b.depth }

// Pitch returns the length of one row in bytes.
func (b *Buffer) Pitch() int { return b.width * b.depth.BytesPerPixel() }

// Pixels returns the backing pixel memory.
func (b *Buffer) Pixels() []byte { return b.pixels }

// Row returns the bytes of row y.
func (b *Buffer) Row(y int) []byte {
	p := b.Pitch()
	return b.pixels[y*p : (y+1)*p]
}

// SameShape reports whether b and o have identical width, height and depth.
func (b *Buffer) SameShape(o *Buffer) bool {
	return o != nil && b.width == o.width && b.height == o.height && b.depth == o.depth
}

// Equal reports whether b and o have the same shape and pixel contents.
func (b *Buffer) Equal(o *Buffer) bool {
	return b.SameShape(o) && bytes.Equal(b.pixels, o.pixels)
}

// CopyFrom copies the pixels of src, which must have the same shape.
func (b *Buffer) CopyFrom(src *Buffer) error {
	if !b.SameShape(src) {
		return oops.Code("VIDEO_SHAPE_MISMATCH").Wrap(ErrShapeMismatch)
	}
	copy(b.pixels, src.pixels)
	return nil
}

// Clone returns a deep copy of b.
func (b *Buffer) Clone() *Buffer {
	c := *b
	c.pixels = bytes.Clone(b.pixels)
	return &c
}

// Fill sets every pixel to color.
func (b *Buffer) Fill(color uint32) {
	bpp := b.depth.BytesPerPixel()
	px := make([]byte, bpp)
	encode(px, b.depth, color)
	for off := 0; off < len(b.pixels); off += bpp {
		copy(b.pixels[off:off+bpp], px)
	}
}

// SetPixel sets the pixel at (x, y). Coordinates outside the buffer are ignored.
func (b *Buffer) SetPixel(x, y int, color uint32) {
	if x < 0 || y < 0 || x >= b.width || y >= b.height {
		return
	}
	bpp := b.depth.BytesPerPixel()
	off := y*b.Pitch() + x*bpp
	encode(b.pixels[off:off+bpp], b.depth, color)
}

func encode(dst []byte, depth Depth, color uint32) {
	a := byte(color >> 24)
	r := byte(color >> 16)
	g := byte(color >> 8)
	bl := byte(color)

	switch depth {
	case Depth8:
		// ITU-R BT.601 luma
		dst[0] = byte((299*uint32(r) + 587*uint32(g) + 114*uint32(bl)) / 1000)
	case Depth16:
		v := PackRGB565(r, g, bl)
		dst[0] = byte(v)
		dst[1] = byte(v >> 8)
	case Depth24:
		dst[0], dst[1], dst[2] = bl, g, r
	case Depth32:
		dst[0], dst[1], dst[2], dst[3] = bl, g, r, a
	}
}

// PackRGB565 packs 8-bit components into an RGB565 pixel.
func PackRGB565(r, g, b byte) uint16 {
	return uint16(r>>3)<<11 | uint16(g>>2)<<5 | uint16(b>>3)
}

// UnpackRGB565 returns the 5, 6 and 5 bit components of an RGB565 pixel.
func UnpackRGB565(v uint16) (r, g, b uint16) {
	return v >> 11 & 0x1f, v >> 5 & 0x3f, v & 0x1f
}
