// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package dissolve is a morph that swaps randomly chosen pixels from the first
// frame to the second.
package dissolve

import (
	"github.com/holomush/lvhost/internal/audio"
	"github.com/holomush/lvhost/internal/param"
	"github.com/holomush/lvhost/internal/plugin"
	"github.com/holomush/lvhost/internal/random"
	"github.com/holomush/lvhost/internal/video"
)

// Name is the registry name of the plugin.
const Name = "dissolve"

// ParamSeeded, when 1, replays the same random sequence every frame so a
// pixel that has switched to the second frame stays switched as the rate grows.
const ParamSeeded = "seeded"

// Dissolve takes each pixel from src2 with probability rate.
type Dissolve struct {
	plugin.Base
}

// Info returns the plugin descriptor.
func Info() *plugin.Info {
	return &plugin.Info{
		Name:        Name,
		Type:        plugin.TypeMorph,
		DisplayName: "Dissolve",
		Author:      "HoloMUSH Contributors",
		Version:     "1.0.0",
		About:       "Random per-pixel dissolve between two frames",
		License:     "Apache-2.0",
		Plugin:      Dissolve{},
	}
}

// Init declares the seeded parameter.
func (Dissolve) Init(inst *plugin.Instance) error {
	return inst.Params().Add(param.NewInt(ParamSeeded, 0).WithRange(0, 1))
}

// Apply implements plugin.Morpher.
func (Dissolve) Apply(inst *plugin.Instance, rate float32, _ *audio.Buffer, dest, src1, src2 *video.Buffer) error {
	rng := inst.Random()
	if e, ok := inst.Params().Entry(ParamSeeded); ok && e.GetInt() == 1 {
		rng = random.NewContext(rng.Seed())
	}

	bpp := dest.Depth().BytesPerPixel()
	d, a, b := dest.Pixels(), src1.Pixels(), src2.Pixels()
	p := float64(rate)
	for off := 0; off < len(d); off += bpp {
		src := a
		if rng.Decide(p) {
			src = b
		}
		copy(d[off:off+bpp], src[off:off+bpp])
	}
	return nil
}
