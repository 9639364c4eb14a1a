// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package xdg provides XDG Base Directory paths for lvhost.
package xdg

import (
	"fmt"
	"os"
	"path/filepath"
)

const appName = "lvhost"

// ConfigDir returns the XDG config directory for lvhost.
// Checks XDG_CONFIG_HOME first, falls back to ~/.config.
func ConfigDir() string {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		base = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return filepath.Join(base, appName)
}

// DataDir returns the XDG data directory for lvhost.
// Checks XDG_DATA_HOME first, falls back to ~/.local/share.
func DataDir() string {
	base := os.Getenv("XDG_DATA_HOME")
	if base == "" {
		base = filepath.Join(os.Getenv("HOME"), ".local", "share")
	}
	return filepath.Join(base, appName)
}

// ConfigFile returns the default config file path.
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// PresetsDir returns the directory searched for preset files given by name.
func PresetsDir() string {
	return filepath.Join(DataDir(), "presets")
}

// ResolvePreset maps a preset argument to a file path. Arguments containing a
// path separator or a .yaml/.yml extension are used as given; bare names are
// looked up in PresetsDir.
func ResolvePreset(arg string) string {
	if filepath.Base(arg) != arg {
		return arg
	}
	switch filepath.Ext(arg) {
	case ".yaml", ".yml":
		return arg
	}
	return filepath.Join(PresetsDir(), arg+".yaml")
}

// EnsureDir creates a directory and all parent directories if they don't exist.
// Directories are created with 0700 permissions.
func EnsureDir(path string) error {
	if err := os.MkdirAll(path, 0o700); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", path, err)
	}
	return nil
}
