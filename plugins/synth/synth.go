// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package synth is an input plugin that generates a test tone on a background
// goroutine and hands it to the host through an audio ring.
package synth

import (
	"math"
	"sync/atomic"
	"time"

	"github.com/holomush/lvhost/internal/audio"
	"github.com/holomush/lvhost/internal/event"
	"github.com/holomush/lvhost/internal/param"
	"github.com/holomush/lvhost/internal/plugin"
)

// Name is the registry name of the plugin.
const Name = "synth"

// Parameter names.
const (
	ParamFrequency = "frequency"
	ParamWaveform  = "waveform"
	ParamAmplitude = "amplitude"
)

// Waveforms.
const (
	Sine   = "sine"
	Square = "square"
	Saw    = "saw"
)

var waveforms = []string{Sine, Square, Saw}

// Synth generates blocks of DefaultBlockFrames stereo frames at DefaultRate.
type Synth struct {
	plugin.Base
	// Interval between generated blocks. Zero selects the real-time duration
	// of one block.
	Interval time.Duration
}

// Info returns the plugin descriptor.
func Info() *plugin.Info {
	return &plugin.Info{
		Name:        Name,
		Type:        plugin.TypeInput,
		DisplayName: "Synth",
		Author:      "HoloMUSH Contributors",
		Version:     "1.0.0",
		About:       "Test tone generator",
		Help:        "Parameters: frequency (Hz), waveform (sine, square, saw), amplitude (0-1).",
		License:     "Apache-2.0",
		Plugin:      Synth{},
	}
}

// generator runs on its own goroutine. The host side touches only ring and
// the atomic parameters.
type generator struct {
	ring      *audio.Ring
	frequency atomic.Uint64
	amplitude atomic.Uint64
	waveform  atomic.Int32
	stop      chan struct{}
	done      chan struct{}

	rate     int
	channels int
	phase    float64
}

// Init declares the parameters and starts the generator.
func (s Synth) Init(inst *plugin.Instance) error {
	if err := inst.Params().Add(
		param.NewFloat(ParamFrequency, 440).WithRange(20, 20000),
		param.NewEnum(ParamWaveform, Sine, waveforms...),
		param.NewFloat(ParamAmplitude, 0.5).WithRange(0, 1),
	); err != nil {
		return err
	}

	g := &generator{
		ring:     audio.NewRing(audio.DefaultSlots, audio.DefaultBlockFrames*audio.DefaultChannels),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
		rate:     audio.DefaultRate,
		channels: audio.DefaultChannels,
	}
	g.load(inst.Params())

	interval := s.Interval
	if interval <= 0 {
		interval = time.Duration(audio.DefaultBlockFrames) * time.Second / time.Duration(audio.DefaultRate)
	}

	inst.SetPrivate(g)
	go g.run(interval)
	inst.Logger().Debug("synth started", "interval", interval)
	return nil
}

// Cleanup stops the generator and waits for it to exit.
func (Synth) Cleanup(inst *plugin.Instance) error {
	g, ok := inst.Private().(*generator)
	if !ok {
		return nil
	}
	close(g.stop)
	<-g.done
	return nil
}

// Events applies parameter changes to the running generator.
func (Synth) Events(inst *plugin.Instance, q *event.Queue) error {
	g := inst.Private().(*generator)
	changed := false
	for {
		ev, ok := q.Poll()
		if !ok {
			break
		}
		if ev.Kind == event.KindParamChanged {
			changed = true
		}
	}
	if changed {
		g.load(inst.Params())
	}
	return nil
}

// Upload copies the most recent block into buf, or silence if the generator
// has not produced one yet.
func (Synth) Upload(inst *plugin.Instance, buf *audio.Buffer) error {
	g := inst.Private().(*generator)
	buf.Rate = g.rate
	buf.Channels = g.channels

	block, _, ok := g.ring.Latest()
	if !ok {
		buf.Load(make([]int16, g.ring.BlockLen()))
		return nil
	}
	buf.Load(block)
	return nil
}

func (g *generator) load(params *param.List) {
	if e, ok := params.Entry(ParamFrequency); ok {
		g.frequency.Store(math.Float64bits(e.GetFloat()))
	}
	if e, ok := params.Entry(ParamAmplitude); ok {
		g.amplitude.Store(math.Float64bits(e.GetFloat()))
	}
	if e, ok := params.Entry(ParamWaveform); ok {
		for i, w := range waveforms {
			if w == e.GetString() {
				g.waveform.Store(int32(i))
			}
		}
	}
}

func (g *generator) run(interval time.Duration) {
	defer close(g.done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	block := make([]int16, g.ring.BlockLen())
	for {
		g.fill(block)
		g.ring.Publish(block)

		select {
		case <-g.stop:
			return
		case <-ticker.C:
		}
	}
}

// fill writes one block, continuing the phase of the previous one.
func (g *generator) fill(block []int16) {
	step := math.Float64frombits(g.frequency.Load()) / float64(g.rate)
	amp := math.Float64frombits(g.amplitude.Load()) * math.MaxInt16
	wave := waveforms[g.waveform.Load()]

	for i := 0; i+g.channels <= len(block); i += g.channels {
		v := int16(amp * Sample(wave, g.phase))
		for ch := range g.channels {
			block[i+ch] = v
		}
		g.phase += step
		g.phase -= math.Floor(g.phase)
	}
}

// Sample returns the value in [-1, 1] of waveform wave at phase in [0, 1).
func Sample(wave string, phase float64) float64 {
	switch wave {
	case Square:
		if phase < 0.5 {
			return 1
		}
		return -1
	case Saw:
		return 2*phase - 1
	default:
		return math.Sin(2 * math.Pi * phase)
	}
}
