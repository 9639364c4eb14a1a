// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package scope is an actor that draws the left audio channel as an
// oscilloscope trace.
package scope

import (
	"math"

	"github.com/holomush/lvhost/internal/audio"
	"github.com/holomush/lvhost/internal/param"
	"github.com/holomush/lvhost/internal/plugin"
	"github.com/holomush/lvhost/internal/video"
)

// Name is the registry name of the plugin.
const Name = "scope"

// Parameter names. Colors are 0xRRGGBB.
const (
	ParamColor      = "color"
	ParamBackground = "background"
)

// Scope renders one trace column per pixel column.
type Scope struct {
	plugin.Base
}

// Info returns the plugin descriptor.
func Info() *plugin.Info {
	return &plugin.Info{
		Name:        Name,
		Type:        plugin.TypeActor,
		DisplayName: "Scope",
		Author:      "HoloMUSH Contributors",
		Version:     "1.0.0",
		About:       "Oscilloscope view of the left channel",
		Help:        "Parameters: color and background as 0xRRGGBB integers.",
		License:     "Apache-2.0",
		Plugin:      Scope{},
	}
}

// Init declares the color parameters.
func (Scope) Init(inst *plugin.Instance) error {
	return inst.Params().Add(
		param.NewInt(ParamColor, 0xffffff).WithRange(0, 0xffffff),
		param.NewInt(ParamBackground, 0).WithRange(0, 0xffffff),
	)
}

// Depths implements plugin.DepthLimiter.
func (Scope) Depths() []video.Depth {
	return []video.Depth{video.Depth24, video.Depth32}
}

// Render implements plugin.Actor.
func (Scope) Render(inst *plugin.Instance, dest *video.Buffer, pcm *audio.Buffer) error {
	fg := opaque(inst.Params(), ParamColor)
	dest.Fill(opaque(inst.Params(), ParamBackground))

	frames := pcm.Frames()
	if frames == 0 {
		return nil
	}

	w, h := dest.Width(), dest.Height()
	prev := -1
	for x := range w {
		y := Row(pcm.Sample(x*frames/w, 0), h)
		if prev < 0 {
			prev = y
		}
		lo, hi := min(prev, y), max(prev, y)
		for yy := lo; yy <= hi; yy++ {
			dest.SetPixel(x, yy, fg)
		}
		prev = y
	}
	return nil
}

// Row maps a sample to a row of a frame h pixels tall. Full positive scale is
// the top row and full negative scale the bottom row.
func Row(s int16, h int) int {
	v := (float64(s) + 32768) / 65535
	return min(max(h-1-int(math.Round(v*float64(h-1))), 0), h-1)
}

func opaque(params *param.List, name string) uint32 {
	e, ok := params.Entry(name)
	if !ok {
		return 0xff000000
	}
	return 0xff000000 | uint32(e.GetInt())&0xffffff
}
