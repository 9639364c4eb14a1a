// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package slide is a morph in which the second frame slides in over the first.
package slide

import (
	"github.com/holomush/lvhost/internal/audio"
	"github.com/holomush/lvhost/internal/event"
	"github.com/holomush/lvhost/internal/param"
	"github.com/holomush/lvhost/internal/plugin"
	"github.com/holomush/lvhost/internal/video"
)

// Name is the registry name of the plugin.
const Name = "slide"

// Directions the incoming frame can move in.
const (
	Up    = "up"
	Down  = "down"
	Left  = "left"
	Right = "right"
)

// ParamDirection selects the direction of travel of the incoming frame.
const ParamDirection = "direction"

type state struct {
	direction string
}

// Slide moves src2 across src1 by a distance proportional to the rate.
type Slide struct {
	plugin.Base
}

// Info returns the plugin descriptor.
func Info() *plugin.Info {
	return &plugin.Info{
		Name:        Name,
		Type:        plugin.TypeMorph,
		DisplayName: "Slide",
		Author:      "HoloMUSH Contributors",
		Version:     "1.0.0",
		About:       "The second frame slides in over the first",
		Help:        "Set direction to up, down, left or right.",
		License:     "Apache-2.0",
		Plugin:      Slide{},
	}
}

// Init declares the direction parameter.
func (Slide) Init(inst *plugin.Instance) error {
	if err := inst.Params().Add(param.NewEnum(ParamDirection, Left, Up, Down, Left, Right)); err != nil {
		return err
	}
	inst.SetPrivate(&state{direction: Left})
	return nil
}

// Events picks up direction changes.
func (Slide) Events(inst *plugin.Instance, q *event.Queue) error {
	st := inst.Private().(*state)
	for {
		ev, ok := q.Poll()
		if !ok {
			return nil
		}
		if ev.Kind == event.KindParamChanged && ev.Param == ParamDirection {
			if e, ok := inst.Params().Entry(ParamDirection); ok {
				st.direction = e.GetString()
			}
		}
	}
}

// Apply implements plugin.Morpher.
func (Slide) Apply(inst *plugin.Instance, rate float32, _ *audio.Buffer, dest, src1, src2 *video.Buffer) error {
	st := inst.Private().(*state)
	switch st.direction {
	case Up, Down:
		slideRows(st.direction, rate, dest, src1, src2)
	default:
		slideColumns(st.direction, rate, dest, src1, src2)
	}
	return nil
}

// offset returns how far along n the incoming frame has travelled.
func offset(rate float32, n int) int {
	return min(max(int(rate*float32(n)+0.5), 0), n)
}

func slideRows(direction string, rate float32, dest, src1, src2 *video.Buffer) {
	h := dest.Height()
	off := offset(rate, h)

	for y := range h {
		var row []byte
		switch {
		case direction == Up && y >= h-off:
			row = src2.Row(y - (h - off))
		case direction == Down && y < off:
			row = src2.Row(h - off + y)
		default:
			row = src1.Row(y)
		}
		copy(dest.Row(y), row)
	}
}

func slideColumns(direction string, rate float32, dest, src1, src2 *video.Buffer) {
	w := dest.Width()
	bpp := dest.Depth().BytesPerPixel()
	off := offset(rate, w) * bpp
	pitch := dest.Pitch()

	for y := range dest.Height() {
		d, a, b := dest.Row(y), src1.Row(y), src2.Row(y)
		if direction == Right {
			// Incoming frame enters from the left edge.
			copy(d[:off], b[pitch-off:])
			copy(d[off:], a[off:])
		} else {
			// Incoming frame enters from the right edge.
			copy(d[:pitch-off], a[:pitch-off])
			copy(d[pitch-off:], b[:off])
		}
	}
}
