// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package plugin

import (
	"fmt"
	"log/slog"
	"math"
	"slices"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/holomush/lvhost/internal/audio"
	"github.com/holomush/lvhost/internal/event"
	"github.com/holomush/lvhost/internal/observability"
	"github.com/holomush/lvhost/internal/param"
	"github.com/holomush/lvhost/internal/random"
	"github.com/holomush/lvhost/internal/video"
	"github.com/holomush/lvhost/pkg/errutil"
)

// Instance is one loaded plugin with its own parameters, event queue and
// random context.
//
// An Instance is driven from a single goroutine; none of its methods are safe
// for concurrent use.
type Instance struct {
	id       ulid.ULID
	info     *Info
	params   *param.List
	events   *event.Queue
	random   *random.Context
	private  any
	realized bool
	unloaded bool
	logger   *slog.Logger
	metrics  *observability.Metrics
}

// ID returns the instance identifier.
func (i *Instance) ID() ulid.ULID { return i.id }

// Info returns the descriptor the instance was loaded from.
func (i *Instance) Info() *Info { return i.info }

// Params returns the parameter list. Nil after Unload.
func (i *Instance) Params() *param.List { return i.params }

// Events returns the event queue. Nil after Unload.
func (i *Instance) Events() *event.Queue { return i.events }

// Random returns the instance's random context. Nil after Unload.
func (i *Instance) Random() *random.Context { return i.random }

// Private returns the state the plugin stored with SetPrivate.
func (i *Instance) Private() any { return i.private }

// SetPrivate stores plugin-owned state. The host never inspects it.
func (i *Instance) SetPrivate(v any) { i.private = v }

// Logger returns a logger annotated with the plugin name and instance ID.
func (i *Instance) Logger() *slog.Logger { return i.logger }

// IsRealized reports whether Init succeeded and Cleanup has not run.
func (i *Instance) IsRealized() bool { return i.realized }

// IsUnloaded reports whether Unload was called.
func (i *Instance) IsUnloaded() bool { return i.unloaded }

// Realize binds the parameter list to the event queue and calls the plugin's
// Init. It does nothing if the instance is already realized.
//
// If Init fails the instance is returned to its loaded state: the parameter
// list is unbound again, parameters declared and events queued during the
// failed Init are removed, and the returned error wraps both ErrInitFailed and
// the plugin's error. The caller may retry or Unload.
func (i *Instance) Realize() error {
	if i.unloaded {
		return i.errUnloaded("realize")
	}
	if i.realized {
		return nil
	}

	if err := i.params.Bind(i.events); err != nil {
		return oops.Code("PLUGIN_INIT_FAILED").With("plugin", i.info.Name).Wrap(err)
	}

	declared := i.params.Len()
	mark := i.events.LastSeq()
	if err := i.info.Plugin.Init(i); err != nil {
		i.params.Unbind()
		i.params.Truncate(declared)
		i.events.Rewind(mark)
		i.private = nil
		i.metrics.RealizeFailed(i.info.Name)
		errutil.LogError(i.logger, "plugin init failed", err)
		return oops.Code("PLUGIN_INIT_FAILED").
			With("plugin", i.info.Name).
			With("instance", i.id.String()).
			Wrap(fmt.Errorf("%w: %w", ErrInitFailed, err))
	}

	i.realized = true
	i.logger.Debug("plugin realized", "params", i.params.Len())
	return nil
}

// PumpEvents hands the event queue to the plugin's event handler. Events the
// handler does not poll remain queued.
func (i *Instance) PumpEvents() error {
	if err := i.ready("events"); err != nil {
		return err
	}
	h, ok := i.info.Plugin.(EventHandler)
	if !ok {
		return nil
	}
	if err := h.Events(i, i.events); err != nil {
		return oops.Code("PLUGIN_EVENTS_FAILED").
			With("plugin", i.info.Name).
			With("instance", i.id.String()).
			Wrap(err)
	}
	return nil
}

// SendEvent queues a generic event for the plugin's event handler.
func (i *Instance) SendEvent(code int, data any) error {
	if i.unloaded {
		return i.errUnloaded("send_event")
	}
	i.events.Push(event.Generic(code, data))
	return nil
}

// Upload asks an input plugin for its latest samples.
func (i *Instance) Upload(buf *audio.Buffer) error {
	in, err := capability[Inputter](i, "upload")
	if err != nil {
		return err
	}
	if buf == nil {
		return oops.Code("PLUGIN_NIL_BUFFER").With("plugin", i.info.Name).Wrap(ErrNilBuffer)
	}
	return in.Upload(i, buf)
}

// Render asks an actor to draw one frame into dest.
func (i *Instance) Render(dest *video.Buffer, pcm *audio.Buffer) error {
	act, err := capability[Actor](i, "render")
	if err != nil {
		return err
	}
	if dest == nil {
		return oops.Code("PLUGIN_NIL_BUFFER").With("plugin", i.info.Name).Wrap(ErrNilBuffer)
	}
	if err := i.checkDepth(dest.Depth()); err != nil {
		return err
	}
	return act.Render(i, dest, pcm)
}

// Apply asks a morph to blend src1 and src2 into dest at rate. All three
// buffers must share width, height and depth; nothing is written otherwise.
func (i *Instance) Apply(rate float32, pcm *audio.Buffer, dest, src1, src2 *video.Buffer) error {
	m, err := capability[Morpher](i, "apply")
	if err != nil {
		return err
	}
	if math.IsNaN(float64(rate)) || rate < 0 || rate > 1 {
		return oops.Code("MORPH_RATE_OUT_OF_RANGE").With("rate", rate).Wrap(ErrRateOutOfRange)
	}
	if dest == nil || src1 == nil || src2 == nil {
		return oops.Code("PLUGIN_NIL_BUFFER").With("plugin", i.info.Name).Wrap(ErrNilBuffer)
	}
	if !dest.SameShape(src1) || !dest.SameShape(src2) {
		return oops.Code("MORPH_DIMENSION_MISMATCH").
			With("plugin", i.info.Name).
			With("dest", shape(dest)).
			With("src1", shape(src1)).
			With("src2", shape(src2)).
			Wrap(ErrDimensionMismatch)
	}
	if err := i.checkDepth(dest.Depth()); err != nil {
		return err
	}
	return m.Apply(i, rate, pcm, dest, src1, src2)
}

// Unload runs the plugin's Cleanup if the instance is realized and releases
// the instance's parameters, queue, random context and private state.
// Cleanup errors and panics are logged, never returned. Unloading twice does
// nothing.
func (i *Instance) Unload() {
	if i.unloaded {
		return
	}
	if i.realized {
		if err := i.cleanup(); err != nil {
			i.metrics.CleanupFailed(i.info.Name)
			errutil.LogError(i.logger, "plugin cleanup failed", err)
		}
		i.realized = false
	}

	i.unloaded = true
	i.params = nil
	i.events = nil
	i.random = nil
	i.private = nil
	i.metrics.InstanceUnloaded()
	i.logger.Debug("plugin unloaded")
}

func (i *Instance) cleanup() (err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			err = oops.Code("PLUGIN_CLEANUP_PANIC").
				With("plugin", i.info.Name).
				Errorf("cleanup panicked: %v", recovered)
		}
	}()
	return i.info.Plugin.Cleanup(i)
}

func (i *Instance) ready(op string) error {
	if i.unloaded {
		return i.errUnloaded(op)
	}
	if !i.realized {
		return oops.Code("PLUGIN_NOT_REALIZED").
			With("plugin", i.info.Name).
			With("op", op).
			Wrap(ErrNotRealized)
	}
	return nil
}

func (i *Instance) errUnloaded(op string) error {
	return oops.Code("PLUGIN_UNLOADED").
		With("plugin", i.info.Name).
		With("op", op).
		Wrap(ErrUnloaded)
}

func (i *Instance) checkDepth(d video.Depth) error {
	limiter, ok := i.info.Plugin.(DepthLimiter)
	if !ok || slices.Contains(limiter.Depths(), d) {
		return nil
	}
	return oops.Code("PLUGIN_UNSUPPORTED_DEPTH").
		With("plugin", i.info.Name).
		With("depth", d.String()).
		Wrap(ErrUnsupportedDepth)
}

// capability returns the plugin as T once the instance is ready for op.
func capability[T any](i *Instance, op string) (T, error) {
	var zero T
	if err := i.ready(op); err != nil {
		return zero, err
	}
	c, ok := i.info.Plugin.(T)
	if !ok {
		return zero, oops.Code("PLUGIN_WRONG_TYPE").
			With("plugin", i.info.Name).
			With("type", i.info.Type.String()).
			With("op", op).
			Wrap(ErrWrongType)
	}
	return c, nil
}

func shape(b *video.Buffer) string {
	return fmt.Sprintf("%dx%d@%s", b.Width(), b.Height(), b.Depth())
}
