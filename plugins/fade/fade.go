// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package fade is a morph that cross-fades linearly between two frames.
package fade

import (
	"github.com/holomush/lvhost/internal/audio"
	"github.com/holomush/lvhost/internal/plugin"
	"github.com/holomush/lvhost/internal/video"
)

// Name is the registry name of the plugin.
const Name = "fade"

// Fade blends every channel of src1 and src2 with an integer alpha.
type Fade struct {
	plugin.Base
}

// Info returns the plugin descriptor.
func Info() *plugin.Info {
	return &plugin.Info{
		Name:        Name,
		Type:        plugin.TypeMorph,
		DisplayName: "Fade",
		Author:      "HoloMUSH Contributors",
		Version:     "1.0.0",
		About:       "Linear cross-fade between two frames",
		Help:        "The rate is the weight of the second frame.",
		License:     "Apache-2.0",
		Plugin:      Fade{},
	}
}

// Apply implements plugin.Morpher.
func (Fade) Apply(_ *plugin.Instance, rate float32, _ *audio.Buffer, dest, src1, src2 *video.Buffer) error {
	Blend(dest, src1, src2, rate)
	return nil
}

// Alpha converts a rate in [0, 1] to an integer weight in [0, 256].
func Alpha(rate float32) int {
	return min(max(int(rate*256+0.5), 0), 256)
}

// Blend writes src1*(1-rate) + src2*rate into dest. The buffers must share a
// shape. Rate 0 reproduces src1 and rate 1 reproduces src2 exactly.
func Blend(dest, src1, src2 *video.Buffer, rate float32) {
	alpha := Alpha(rate)
	d, a, b := dest.Pixels(), src1.Pixels(), src2.Pixels()

	switch {
	case alpha == 0:
		copy(d, a)
	case alpha == 256:
		copy(d, b)
	case dest.Depth() == video.Depth16:
		blend565(d, a, b, alpha)
	default:
		inv := 256 - alpha
		for i := range d {
			d[i] = byte((int(a[i])*inv + int(b[i])*alpha) >> 8)
		}
	}
}

// blend565 blends RGB565 pixels one component at a time so that carries do
// not bleed between channels.
func blend565(d, a, b []byte, alpha int) {
	inv := 256 - alpha
	mix := func(x, y uint16) uint16 {
		return uint16((int(x)*inv + int(y)*alpha) >> 8)
	}
	for i := 0; i+1 < len(d); i += 2 {
		ra, ga, ba := video.UnpackRGB565(uint16(a[i]) | uint16(a[i+1])<<8)
		rb, gb, bb := video.UnpackRGB565(uint16(b[i]) | uint16(b[i+1])<<8)
		v := mix(ra, rb)<<11 | mix(ga, gb)<<5 | mix(ba, bb)
		d[i] = byte(v)
		d[i+1] = byte(v >> 8)
	}
}
