// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package plugin_test

import (
	"github.com/holomush/lvhost/internal/audio"
	"github.com/holomush/lvhost/internal/event"
	"github.com/holomush/lvhost/internal/param"
	"github.com/holomush/lvhost/internal/plugin"
	"github.com/holomush/lvhost/internal/video"
)

// fakeMorph copies src1 or src2 depending on which side of 0.5 the rate is.
type fakeMorph struct {
	plugin.Base
	initErrs     []error
	cleanupErr   error
	cleanupPanic bool
	initCalls    int
	cleanupCalls int
	applyCalls   int
	consume      int
	touchSpeed   bool
	seen         []event.Event
}

func (f *fakeMorph) Init(inst *plugin.Instance) error {
	f.initCalls++
	if err := inst.Params().Add(
		param.NewFloat("speed", 1).WithRange(0, 10),
		param.NewInt("seeded", 0).WithRange(0, 1),
		param.NewEnum("direction", "left", "left", "right"),
	); err != nil {
		return err
	}
	if f.touchSpeed {
		if err := inst.Params().Set("speed", param.Float(2)); err != nil {
			return err
		}
	}
	if len(f.initErrs) > 0 {
		err := f.initErrs[0]
		f.initErrs = f.initErrs[1:]
		return err
	}
	inst.SetPrivate(f)
	return nil
}

func (f *fakeMorph) Cleanup(*plugin.Instance) error {
	f.cleanupCalls++
	if f.cleanupPanic {
		panic("cleanup exploded")
	}
	return f.cleanupErr
}

// Events polls up to consume events; zero means all.
func (f *fakeMorph) Events(_ *plugin.Instance, q *event.Queue) error {
	for n := 0; f.consume == 0 || n < f.consume; n++ {
		ev, ok := q.Poll()
		if !ok {
			break
		}
		f.seen = append(f.seen, ev)
	}
	return nil
}

func (f *fakeMorph) Apply(_ *plugin.Instance, rate float32, _ *audio.Buffer, dest, src1, src2 *video.Buffer) error {
	f.applyCalls++
	if rate < 0.5 {
		return dest.CopyFrom(src1)
	}
	return dest.CopyFrom(src2)
}

// fakeActor draws a solid frame and only supports 32-bit buffers.
type fakeActor struct {
	plugin.Base
}

func (fakeActor) Render(_ *plugin.Instance, dest *video.Buffer, _ *audio.Buffer) error {
	dest.Fill(0xff00ff00)
	return nil
}

func (fakeActor) Depths() []video.Depth { return []video.Depth{video.Depth32} }

// fakeInput uploads a constant block.
type fakeInput struct {
	plugin.Base
}

func (fakeInput) Upload(_ *plugin.Instance, buf *audio.Buffer) error {
	buf.Load([]int16{1, 2, 3, 4})
	return nil
}

func morphInfo(name string, p plugin.Morpher) *plugin.Info {
	return &plugin.Info{Name: name, Type: plugin.TypeMorph, Version: "1.0.0", Plugin: p}
}

func actorInfo(name string) *plugin.Info {
	return &plugin.Info{Name: name, Type: plugin.TypeActor, Version: "1.0.0", Plugin: fakeActor{}}
}

func inputInfo(name string) *plugin.Info {
	return &plugin.Info{Name: name, Type: plugin.TypeInput, Version: "1.0.0", Plugin: fakeInput{}}
}
