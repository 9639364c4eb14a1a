// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package morph drives morph plugins: it binds the destination buffer, holds
// the blend rate and optionally advances it from frame to frame.
package morph

import (
	"errors"
	"math"
	"time"

	"github.com/samber/oops"

	"github.com/holomush/lvhost/internal/audio"
	"github.com/holomush/lvhost/internal/observability"
	"github.com/holomush/lvhost/internal/plugin"
	"github.com/holomush/lvhost/internal/video"
)

// Errors returned by Morph. ErrDimensionMismatch and ErrRateOutOfRange are the
// plugin package sentinels, so errors.Is matches either name.
var (
	ErrNoDestination     = errors.New("morph has no destination buffer")
	ErrDimensionMismatch = plugin.ErrDimensionMismatch
	ErrRateOutOfRange    = plugin.ErrRateOutOfRange
	ErrNotMorph          = errors.New("instance is not a morph plugin")
)

// Mode selects how the rate changes between frames.
type Mode uint8

// Progression modes.
const (
	// ModeManual leaves the rate to SetRate.
	ModeManual Mode = iota
	// ModeSteps advances the rate by 1/n after every Run.
	ModeSteps
	// ModeTimed derives the rate from the time since the first Run.
	ModeTimed
)

func (m Mode) String() string {
	switch m {
	case ModeManual:
		return "manual"
	case ModeSteps:
		return "steps"
	case ModeTimed:
		return "timed"
	default:
		return "unknown"
	}
}

// Option configures a Morph.
type Option func(*Morph)

// WithClock replaces time.Now for timed progression.
func WithClock(now func() time.Time) Option {
	return func(m *Morph) {
		m.now = now
	}
}

// WithMetrics counts produced frames in m.
func WithMetrics(metrics *observability.Metrics) Option {
	return func(m *Morph) {
		m.metrics = metrics
	}
}

// Morph is the host side of a morph transition. Like the instance it wraps,
// it is driven from a single goroutine.
type Morph struct {
	inst *plugin.Instance
	dest *video.Buffer
	rate float32
	last float32
	ran  bool

	mode     Mode
	steps    int
	step     int
	duration time.Duration
	started  time.Time
	now      func() time.Time
	metrics  *observability.Metrics
}

// New loads and realizes the morph plugin called name.
func New(host *plugin.Host, name string, opts ...Option) (*Morph, error) {
	inst, err := host.LoadRealized(plugin.TypeMorph, name)
	if err != nil {
		return nil, err
	}
	return Wrap(inst, append([]Option{WithMetrics(host.Metrics())}, opts...)...)
}

// Wrap drives an already loaded morph instance. The Morph takes ownership:
// Close unloads the instance.
func Wrap(inst *plugin.Instance, opts ...Option) (*Morph, error) {
	if inst.Info().Type != plugin.TypeMorph {
		return nil, oops.Code("MORPH_WRONG_TYPE").
			With("plugin", inst.Info().Name).
			With("type", inst.Info().Type.String()).
			Wrap(ErrNotMorph)
	}
	m := &Morph{
		inst: inst,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Instance returns the wrapped plugin instance.
func (m *Morph) Instance() *plugin.Instance { return m.inst }

// SetVideo binds the destination buffer that Run writes into.
func (m *Morph) SetVideo(dest *video.Buffer) error {
	if dest == nil {
		return oops.Code("MORPH_NO_DESTINATION").With("plugin", m.inst.Info().Name).Wrap(ErrNoDestination)
	}
	m.dest = dest
	return nil
}

// Video returns the bound destination, or nil.
func (m *Morph) Video() *video.Buffer { return m.dest }

// SetRate sets the blend rate and returns to manual progression. r must be in
// [0, 1]; otherwise the rate is left unchanged.
func (m *Morph) SetRate(r float32) error {
	if err := checkRate(r); err != nil {
		return err
	}
	m.rate = r
	m.mode = ModeManual
	return nil
}

// Rate returns the rate the next Run will use.
func (m *Morph) Rate() float32 {
	if m.mode == ModeTimed {
		return m.timedRate()
	}
	return m.rate
}

// Mode returns the progression mode.
func (m *Morph) Mode() Mode { return m.mode }

// SetSteps makes the transition take n frames: the rate restarts at 0 and
// advances by 1/n after every Run.
func (m *Morph) SetSteps(n int) error {
	if n <= 0 {
		return oops.Code("MORPH_INVALID_STEPS").With("steps", n).Errorf("steps must be positive")
	}
	m.mode = ModeSteps
	m.steps = n
	m.step = 0
	m.rate = 0
	m.ran = false
	return nil
}

// SetDuration makes the transition take d of wall-clock time, measured from
// the first Run after this call.
func (m *Morph) SetDuration(d time.Duration) error {
	if d <= 0 {
		return oops.Code("MORPH_INVALID_DURATION").With("duration", d.String()).Errorf("duration must be positive")
	}
	m.mode = ModeTimed
	m.duration = d
	m.started = time.Time{}
	m.rate = 0
	m.ran = false
	return nil
}

// SetManual stops automatic progression, keeping the current rate.
func (m *Morph) SetManual() {
	m.rate = m.Rate()
	m.mode = ModeManual
}

// IsDone reports whether a stepped or timed transition has produced its final
// frame at rate 1. Manual morphs are never done.
func (m *Morph) IsDone() bool {
	return m.mode != ModeManual && m.ran && m.last >= 1
}

// Run blends src1 and src2 into the bound destination at the current rate.
// pcm may be nil. Nothing is written when the buffers differ in shape.
func (m *Morph) Run(pcm *audio.Buffer, src1, src2 *video.Buffer) error {
	if !m.inst.IsRealized() {
		return oops.Code("PLUGIN_NOT_REALIZED").With("plugin", m.inst.Info().Name).Wrap(plugin.ErrNotRealized)
	}
	if m.dest == nil {
		return oops.Code("MORPH_NO_DESTINATION").With("plugin", m.inst.Info().Name).Wrap(ErrNoDestination)
	}

	if m.mode == ModeTimed && m.started.IsZero() {
		m.started = m.now()
	}
	rate := m.Rate()

	if err := m.inst.Apply(rate, pcm, m.dest, src1, src2); err != nil {
		return err
	}
	m.last = rate
	m.ran = true
	m.advance()
	return nil
}

// Close unloads the wrapped instance.
func (m *Morph) Close() {
	m.inst.Unload()
}

func (m *Morph) advance() {
	m.metrics.MorphFrame(m.inst.Info().Name)

	if m.mode == ModeSteps && m.step < m.steps {
		m.step++
		m.rate = float32(m.step) / float32(m.steps)
	}
}

func (m *Morph) timedRate() float32 {
	if m.started.IsZero() {
		return 0
	}
	elapsed := m.now().Sub(m.started)
	return float32(min(float64(elapsed)/float64(m.duration), 1))
}

func checkRate(r float32) error {
	if math.IsNaN(float64(r)) || r < 0 || r > 1 {
		return oops.Code("MORPH_RATE_OUT_OF_RANGE").With("rate", r).Wrap(ErrRateOutOfRange)
	}
	return nil
}
