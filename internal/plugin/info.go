// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package plugin hosts input, actor and morph plugins: the registry they are
// published in, the instances the host drives, and the presets that
// configure them.
package plugin

import (
	"regexp"

	"github.com/Masterminds/semver/v3"
	"github.com/samber/oops"
)

// maxNameLength is the maximum allowed length for plugin names.
const maxNameLength = 64

// namePattern validates plugin names: must start with a lowercase letter,
// followed by lowercase letters, digits, hyphens or underscores.
// Cannot end with a hyphen or underscore.
var namePattern = regexp.MustCompile(`^[a-z]([a-z0-9_-]*[a-z0-9])?$`)

// Info describes a plugin. It is registered once and must not be modified
// afterwards; instances keep a reference to it.
type Info struct {
	Name        string
	Type        Type
	DisplayName string
	Author      string
	Version     string
	About       string
	Help        string
	License     string
	Plugin      Plugin
}

// Validate checks the descriptor.
func (i *Info) Validate() error {
	if i == nil {
		return oops.Code("PLUGIN_INVALID_INFO").Wrapf(ErrInvalidInfo, "info is nil")
	}
	errb := oops.Code("PLUGIN_INVALID_INFO").With("plugin", i.Name)

	if !namePattern.MatchString(i.Name) {
		return errb.Wrapf(ErrInvalidInfo,
			"name %q must start with a-z, contain only a-z, 0-9, '-', '_', and not end with '-' or '_'", i.Name)
	}
	if len(i.Name) > maxNameLength {
		return errb.Wrapf(ErrInvalidInfo, "name must be %d characters or less, got %d", maxNameLength, len(i.Name))
	}
	if !i.Type.Valid() {
		return errb.With("type", uint8(i.Type)).Wrapf(ErrInvalidInfo, "unknown type")
	}
	if i.Version == "" {
		return errb.Wrapf(ErrInvalidInfo, "version is required")
	}
	if _, err := semver.StrictNewVersion(i.Version); err != nil {
		return errb.With("version", i.Version).Wrapf(ErrInvalidInfo, "version is not semver: %v", err)
	}
	if i.Plugin == nil {
		return errb.Wrapf(ErrInvalidInfo, "plugin implementation is nil")
	}
	if !requiredCapability(i.Type, i.Plugin) {
		return errb.With("type", i.Type.String()).Wrapf(ErrInvalidInfo, "plugin does not implement the %s interface", i.Type)
	}
	return nil
}

// Label returns DisplayName, or Name when no display name is set.
func (i *Info) Label() string {
	if i.DisplayName != "" {
		return i.DisplayName
	}
	return i.Name
}
