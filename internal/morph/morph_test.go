// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package morph_test

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/holomush/lvhost/internal/audio"
	"github.com/holomush/lvhost/internal/morph"
	"github.com/holomush/lvhost/internal/observability"
	"github.com/holomush/lvhost/internal/plugin"
	"github.com/holomush/lvhost/internal/video"
	"github.com/holomush/lvhost/pkg/errutil"
)

// recorder copies src1 below rate 0.5 and src2 from 0.5 on, recording rates.
type recorder struct {
	plugin.Base
	rates   []float32
	initErr error
}

func (r *recorder) Init(*plugin.Instance) error { return r.initErr }

func (r *recorder) Apply(_ *plugin.Instance, rate float32, _ *audio.Buffer, dest, src1, src2 *video.Buffer) error {
	r.rates = append(r.rates, rate)
	if rate < 0.5 {
		return dest.CopyFrom(src1)
	}
	return dest.CopyFrom(src2)
}

type inert struct{ plugin.Base }

func (inert) Render(*plugin.Instance, *video.Buffer, *audio.Buffer) error { return nil }

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Add(d time.Duration) { c.t = c.t.Add(d) }

func newClock() *fakeClock { return &fakeClock{t: time.Unix(1700000000, 0)} }

func frames(t *testing.T) (*video.Buffer, *video.Buffer, *video.Buffer) {
	t.Helper()
	mk := func(color uint32) *video.Buffer {
		b, err := video.NewBuffer(4, 4, video.Depth32)
		require.NoError(t, err)
		b.Fill(color)
		return b
	}
	return mk(0), mk(0xff0000ff), mk(0xffff0000)
}

func newHost(t *testing.T, rec *recorder) (*plugin.Host, *observability.Metrics) {
	t.Helper()
	metrics := observability.NewMetrics(prometheus.NewRegistry())
	host := plugin.NewHost(1, plugin.WithMetrics(metrics))
	require.NoError(t, host.Register(
		&plugin.Info{Name: "rec", Type: plugin.TypeMorph, Version: "1.0.0", Plugin: rec},
		&plugin.Info{Name: "inert", Type: plugin.TypeActor, Version: "1.0.0", Plugin: inert{}},
	))
	return host, metrics
}

func newMorph(t *testing.T, opts ...morph.Option) (*morph.Morph, *recorder, *observability.Metrics) {
	t.Helper()
	rec := &recorder{}
	host, metrics := newHost(t, rec)
	m, err := morph.New(host, "rec", opts...)
	require.NoError(t, err)
	t.Cleanup(m.Close)
	return m, rec, metrics
}

func TestNew_RealizesInstance(t *testing.T) {
	m, _, _ := newMorph(t)
	assert.True(t, m.Instance().IsRealized())
	assert.Equal(t, morph.ModeManual, m.Mode())
	assert.Zero(t, m.Rate())
}

func TestNew_Failures(t *testing.T) {
	rec := &recorder{initErr: errors.New("no")}
	host, _ := newHost(t, rec)

	_, err := morph.New(host, "missing")
	assert.ErrorIs(t, err, plugin.ErrNotFound)

	_, err = morph.New(host, "rec")
	assert.ErrorIs(t, err, plugin.ErrInitFailed)
}

func TestWrap_RejectsNonMorph(t *testing.T) {
	host, _ := newHost(t, &recorder{})
	inst, err := host.Load(plugin.TypeActor, "inert")
	require.NoError(t, err)

	_, err = morph.Wrap(inst)
	errutil.AssertError(t, err, morph.ErrNotMorph, "MORPH_WRONG_TYPE")
}

func TestMorph_RunEndpoints(t *testing.T) {
	m, _, metrics := newMorph(t)
	dest, src1, src2 := frames(t)
	require.NoError(t, m.SetVideo(dest))

	require.NoError(t, m.SetRate(0))
	require.NoError(t, m.Run(nil, src1, src2))
	assert.True(t, dest.Equal(src1))

	require.NoError(t, m.SetRate(1))
	require.NoError(t, m.Run(audio.NewBuffer(8, 2, 0), src1, src2))
	assert.True(t, dest.Equal(src2))

	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.MorphFrames.WithLabelValues("rec")))
}

func TestMorph_RunWithoutDestination(t *testing.T) {
	m, rec, _ := newMorph(t)
	_, src1, src2 := frames(t)

	err := m.Run(nil, src1, src2)
	errutil.AssertError(t, err, morph.ErrNoDestination, "MORPH_NO_DESTINATION")
	assert.Empty(t, rec.rates)

	errutil.AssertError(t, m.SetVideo(nil), morph.ErrNoDestination, "MORPH_NO_DESTINATION")
}

func TestMorph_RunNotRealized(t *testing.T) {
	rec := &recorder{}
	host, _ := newHost(t, rec)
	inst, err := host.Load(plugin.TypeMorph, "rec")
	require.NoError(t, err)

	m, err := morph.Wrap(inst)
	require.NoError(t, err)
	dest, src1, src2 := frames(t)
	require.NoError(t, m.SetVideo(dest))

	err = m.Run(nil, src1, src2)
	errutil.AssertError(t, err, plugin.ErrNotRealized, "PLUGIN_NOT_REALIZED")
	assert.Empty(t, rec.rates)
}

func TestMorph_RunDimensionMismatchWritesNothing(t *testing.T) {
	m, rec, _ := newMorph(t)
	dest, src1, _ := frames(t)
	require.NoError(t, m.SetVideo(dest))
	before := dest.Clone()

	small, err := video.NewBuffer(2, 4, video.Depth32)
	require.NoError(t, err)

	err = m.Run(nil, src1, small)
	errutil.AssertError(t, err, morph.ErrDimensionMismatch, "MORPH_DIMENSION_MISMATCH")
	assert.True(t, dest.Equal(before))
	assert.Empty(t, rec.rates)
}

func TestMorph_SetRateValidation(t *testing.T) {
	m, _, _ := newMorph(t)
	require.NoError(t, m.SetRate(0.25))

	for _, r := range []float32{-0.1, 1.5, float32(math.NaN())} {
		err := m.SetRate(r)
		errutil.AssertError(t, err, morph.ErrRateOutOfRange, "MORPH_RATE_OUT_OF_RANGE")
		assert.Equal(t, float32(0.25), m.Rate(), "rate unchanged")
	}
}

func TestMorph_RateDirectionIsFree(t *testing.T) {
	m, rec, _ := newMorph(t)
	dest, src1, src2 := frames(t)
	require.NoError(t, m.SetVideo(dest))

	for _, r := range []float32{0.9, 0.1, 1, 0} {
		require.NoError(t, m.SetRate(r))
		require.NoError(t, m.Run(nil, src1, src2))
	}
	assert.Equal(t, []float32{0.9, 0.1, 1, 0}, rec.rates)
	assert.False(t, m.IsDone(), "manual morphs are never done")
}

func TestMorph_Steps(t *testing.T) {
	m, rec, _ := newMorph(t)
	dest, src1, src2 := frames(t)
	require.NoError(t, m.SetVideo(dest))
	require.NoError(t, m.SetSteps(4))

	for range 4 {
		require.NoError(t, m.Run(nil, src1, src2))
		assert.False(t, m.IsDone())
	}
	require.NoError(t, m.Run(nil, src1, src2))
	assert.True(t, m.IsDone())
	assert.True(t, dest.Equal(src2))

	require.NoError(t, m.Run(nil, src1, src2))
	assert.Equal(t, []float32{0, 0.25, 0.5, 0.75, 1, 1}, rec.rates)
}

func TestMorph_StepsReachExactlyOne(t *testing.T) {
	m, rec, _ := newMorph(t)
	dest, src1, src2 := frames(t)
	require.NoError(t, m.SetVideo(dest))
	require.NoError(t, m.SetSteps(10))

	for !m.IsDone() {
		require.NoError(t, m.Run(nil, src1, src2))
	}
	assert.Len(t, rec.rates, 11)
	assert.Equal(t, float32(1), rec.rates[10])
}

func TestMorph_InvalidProgression(t *testing.T) {
	m, _, _ := newMorph(t)
	errutil.AssertErrorCode(t, m.SetSteps(0), "MORPH_INVALID_STEPS")
	errutil.AssertErrorCode(t, m.SetDuration(-time.Second), "MORPH_INVALID_DURATION")
	assert.Equal(t, morph.ModeManual, m.Mode())
}

func TestMorph_Timed(t *testing.T) {
	clock := newClock()
	m, rec, _ := newMorph(t, morph.WithClock(clock.Now))
	dest, src1, src2 := frames(t)
	require.NoError(t, m.SetVideo(dest))
	require.NoError(t, m.SetDuration(time.Second))

	clock.Add(time.Hour) // time before the first run does not count
	assert.Zero(t, m.Rate())

	require.NoError(t, m.Run(nil, src1, src2))
	clock.Add(250 * time.Millisecond)
	require.NoError(t, m.Run(nil, src1, src2))
	clock.Add(500 * time.Millisecond)
	require.NoError(t, m.Run(nil, src1, src2))
	assert.False(t, m.IsDone())

	clock.Add(2 * time.Second)
	require.NoError(t, m.Run(nil, src1, src2))
	assert.True(t, m.IsDone())

	assert.Equal(t, []float32{0, 0.25, 0.75, 1}, rec.rates)
}

func TestMorph_SetManualKeepsRate(t *testing.T) {
	m, _, _ := newMorph(t)
	dest, src1, src2 := frames(t)
	require.NoError(t, m.SetVideo(dest))
	require.NoError(t, m.SetSteps(2))
	require.NoError(t, m.Run(nil, src1, src2))

	m.SetManual()
	assert.Equal(t, morph.ModeManual, m.Mode())
	assert.Equal(t, float32(0.5), m.Rate())

	require.NoError(t, m.Run(nil, src1, src2))
	assert.Equal(t, float32(0.5), m.Rate())
}

func TestMorph_SetRateLeavesProgression(t *testing.T) {
	m, _, _ := newMorph(t)
	require.NoError(t, m.SetSteps(3))
	require.NoError(t, m.SetRate(0.3))
	assert.Equal(t, morph.ModeManual, m.Mode())
	assert.Equal(t, "manual", m.Mode().String())
	assert.Equal(t, "timed", morph.ModeTimed.String())
}

func TestMorph_CloseUnloads(t *testing.T) {
	rec := &recorder{}
	host, _ := newHost(t, rec)
	m, err := morph.New(host, "rec")
	require.NoError(t, err)

	m.Close()
	assert.True(t, m.Instance().IsUnloaded())
}
