// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package plugin

import (
	"github.com/holomush/lvhost/internal/audio"
	"github.com/holomush/lvhost/internal/event"
	"github.com/holomush/lvhost/internal/video"
)

// Plugin is implemented by every plugin. The host calls Init once from
// Instance.Realize and Cleanup once from Instance.Unload of a realized instance.
//
// Init declares the plugin's parameters on inst.Params() and may store private
// state with inst.SetPrivate. An error leaves the instance loaded but not realized.
type Plugin interface {
	Init(inst *Instance) error
	Cleanup(inst *Instance) error
}

// EventHandler is implemented by plugins that consume queued events. Events
// polls what it wants from q; anything left stays queued for the next pump.
type EventHandler interface {
	Events(inst *Instance, q *event.Queue) error
}

// Inputter is implemented by input plugins. Upload fills buf with the most
// recent captured samples.
type Inputter interface {
	Plugin
	Upload(inst *Instance, buf *audio.Buffer) error
}

// Actor is implemented by visual plugins. Render draws one frame into dest.
// pcm may be nil.
type Actor interface {
	Plugin
	Render(inst *Instance, dest *video.Buffer, pcm *audio.Buffer) error
}

// Morpher is implemented by morph plugins. Apply writes a complete frame into
// dest blending src1 (rate 0) and src2 (rate 1). The host guarantees matching
// shapes and a rate in [0, 1]; src1 and src2 must not be written. pcm may be nil.
type Morpher interface {
	Plugin
	Apply(inst *Instance, rate float32, pcm *audio.Buffer, dest, src1, src2 *video.Buffer) error
}

// DepthLimiter is implemented by actors and morphs that only handle some pixel
// depths. Plugins without it are assumed to handle every depth.
type DepthLimiter interface {
	Depths() []video.Depth
}

// Base provides no-op Init, Cleanup and Events for plugins to embed.
type Base struct{}

// Init does nothing.
func (Base) Init(*Instance) error { return nil }

// Cleanup does nothing.
func (Base) Cleanup(*Instance) error { return nil }

// Events leaves the queue untouched.
func (Base) Events(*Instance, *event.Queue) error { return nil }

// requiredCapability reports whether p implements the entry point t needs.
func requiredCapability(t Type, p Plugin) bool {
	switch t {
	case TypeInput:
		_, ok := p.(Inputter)
		return ok
	case TypeActor:
		_, ok := p.(Actor)
		return ok
	case TypeMorph:
		_, ok := p.(Morpher)
		return ok
	default:
		return false
	}
}
