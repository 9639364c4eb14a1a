// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package ease is a cross-fade whose progress follows a scripted Lua curve.
package ease

import (
	"context"
	"errors"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/holomush/lvhost/internal/audio"
	"github.com/holomush/lvhost/internal/event"
	"github.com/holomush/lvhost/internal/param"
	"github.com/holomush/lvhost/internal/plugin"
	pluginlua "github.com/holomush/lvhost/internal/plugin/lua"
	"github.com/holomush/lvhost/internal/video"
	"github.com/holomush/lvhost/plugins/fade"
)

// Name is the registry name of the plugin.
const Name = "ease"

// ParamCurve holds the body of a Lua function of r, the morph rate, returning
// the fade weight. For example "return r * r * (3 - 2 * r)".
const ParamCurve = "curve"

// DefaultCurve is the identity curve: a plain fade.
const DefaultCurve = "return r"

// CurveTimeout bounds each compilation and evaluation of a curve.
const CurveTimeout = 100 * time.Millisecond

type state struct {
	L     *lua.LState
	curve *pluginlua.Func
}

// Ease fades between two frames at curve(rate), clamped to [0, 1].
type Ease struct {
	plugin.Base
}

// Info returns the plugin descriptor.
func Info() *plugin.Info {
	return &plugin.Info{
		Name:        Name,
		Type:        plugin.TypeMorph,
		DisplayName: "Ease",
		Author:      "HoloMUSH Contributors",
		Version:     "1.0.0",
		About:       "Cross-fade shaped by a Lua easing curve",
		Help:        "Set curve to the body of a Lua function of r, e.g. 'return r * r'.",
		License:     "Apache-2.0",
		Plugin:      Ease{},
	}
}

// Init creates the Lua state and compiles the default curve.
func (Ease) Init(inst *plugin.Instance) error {
	if err := inst.Params().Add(param.NewString(ParamCurve, DefaultCurve)); err != nil {
		return err
	}

	L, err := pluginlua.NewStateFactory().NewState(context.Background())
	if err != nil {
		return err
	}
	curve, err := compile(L, DefaultCurve)
	if err != nil {
		L.Close()
		return err
	}

	inst.SetPrivate(&state{L: L, curve: curve})
	return nil
}

// Cleanup closes the Lua state.
func (Ease) Cleanup(inst *plugin.Instance) error {
	if st, ok := inst.Private().(*state); ok {
		st.L.Close()
	}
	return nil
}

// Events recompiles the curve when it changes. A curve that does not compile
// is reported and the previous curve stays in use.
func (Ease) Events(inst *plugin.Instance, q *event.Queue) error {
	st := inst.Private().(*state)

	var errs []error
	for {
		ev, ok := q.Poll()
		if !ok {
			break
		}
		if ev.Kind != event.KindParamChanged || ev.Param != ParamCurve {
			continue
		}
		e, _ := inst.Params().Entry(ParamCurve)
		curve, err := compile(st.L, e.GetString())
		if err != nil {
			errs = append(errs, err)
			continue
		}
		st.curve = curve
	}
	return errors.Join(errs...)
}

// Apply implements plugin.Morpher.
func (Ease) Apply(inst *plugin.Instance, rate float32, _ *audio.Buffer, dest, src1, src2 *video.Buffer) error {
	st := inst.Private().(*state)

	ctx, cancel := context.WithTimeout(context.Background(), CurveTimeout)
	defer cancel()

	eased, err := Eval(ctx, st.curve, rate)
	if err != nil {
		return err
	}
	fade.Blend(dest, src1, src2, eased)
	return nil
}

// Eval applies curve to rate, giving up once ctx is done. The result is
// clamped to [0, 1], and rates 0 and 1 always map to themselves.
func Eval(ctx context.Context, curve *pluginlua.Func, rate float32) (float32, error) {
	if rate <= 0 || rate >= 1 {
		return min(max(rate, 0), 1), nil
	}
	v, err := curve.CallContext(ctx, float64(rate))
	if err != nil {
		return 0, err
	}
	return float32(min(max(v, 0), 1)), nil
}

func compile(L *lua.LState, body string) (*pluginlua.Func, error) {
	ctx, cancel := context.WithTimeout(context.Background(), CurveTimeout)
	defer cancel()
	return pluginlua.CompileContext(ctx, L, ParamCurve, []string{"r"}, body)
}
