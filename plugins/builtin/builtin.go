// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package builtin collects the plugins that ship with lvhost.
package builtin

import (
	"github.com/samber/oops"

	"github.com/holomush/lvhost/internal/plugin"
	"github.com/holomush/lvhost/plugins/dissolve"
	"github.com/holomush/lvhost/plugins/ease"
	"github.com/holomush/lvhost/plugins/fade"
	"github.com/holomush/lvhost/plugins/scope"
	"github.com/holomush/lvhost/plugins/slide"
	"github.com/holomush/lvhost/plugins/synth"
)

// Infos returns fresh descriptors for every built-in plugin.
func Infos() []*plugin.Info {
	return []*plugin.Info{
		synth.Info(),
		scope.Info(),
		fade.Info(),
		slide.Info(),
		dissolve.Info(),
		ease.Info(),
	}
}

// Register adds every built-in plugin to r.
func Register(r *plugin.Registry) error {
	for _, info := range Infos() {
		if err := r.Register(info); err != nil {
			return oops.In("builtin").With("plugin", info.Name).Wrap(err)
		}
	}
	return nil
}
