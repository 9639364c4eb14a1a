// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/holomush/lvhost/internal/logging"
	"github.com/holomush/lvhost/internal/observability"
	"github.com/holomush/lvhost/internal/plugin"
	"github.com/holomush/lvhost/internal/xdg"
	"github.com/holomush/lvhost/plugins/builtin"
)

// Default values for configuration keys.
const (
	defaultLogFormat = "json"
	defaultLogLevel  = "info"
)

// hostConfig holds the settings shared by all subcommands. Values come from
// the config file first, then from command-line flags that were set.
type hostConfig struct {
	LogFormat       string `koanf:"log_format"`
	LogLevel        string `koanf:"log_level"`
	MetricsAddr     string `koanf:"metrics_addr"`
	Seed            uint64 `koanf:"seed"`
	EventQueueLimit int    `koanf:"event_queue_limit"`
}

// Validate checks that the configuration is valid.
func (cfg *hostConfig) Validate() error {
	if cfg.LogFormat != "json" && cfg.LogFormat != "text" {
		return fmt.Errorf("log_format must be 'json' or 'text', got %q", cfg.LogFormat)
	}
	if _, err := logging.ParseLevel(cfg.LogLevel); err != nil {
		return err
	}
	if cfg.EventQueueLimit < 0 {
		return fmt.Errorf("event_queue_limit must not be negative, got %d", cfg.EventQueueLimit)
	}
	return nil
}

// loadConfig reads path (or the default config file when path is empty and
// the file exists) and overlays flags.
func loadConfig(path string, flags *pflag.FlagSet) (*hostConfig, error) {
	k := koanf.New(".")

	if path == "" {
		def := xdg.ConfigFile()
		if _, err := os.Stat(def); err == nil {
			path = def
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to stat config file %s: %w", def, err)
		}
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	// Flag defaults only fill keys the file left unset.
	if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
		if f.Name == "config" || f.Name == "help" {
			return "", nil
		}
		return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(flags, f)
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load flags: %w", err)
	}

	cfg := &hostConfig{
		LogFormat: defaultLogFormat,
		LogLevel:  defaultLogLevel,
	}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// logger creates the process logger described by cfg.
func (cfg *hostConfig) logger(w io.Writer) (*slog.Logger, error) {
	return logging.SetDefault(logging.Options{
		Service: "lvhost",
		Version: version,
		Format:  cfg.LogFormat,
		Level:   cfg.LogLevel,
		Writer:  w,
	})
}

// seed returns the configured seed, or one derived from the clock when unset.
func (cfg *hostConfig) seed() uint64 {
	if cfg.Seed != 0 {
		return cfg.Seed
	}
	return uint64(time.Now().UnixNano()) //nolint:gosec // wall clock is positive
}

// newHost creates a host with every built-in plugin registered.
func (cfg *hostConfig) newHost(logger *slog.Logger, metrics *observability.Metrics) (*plugin.Host, error) {
	host := plugin.NewHost(cfg.seed(),
		plugin.WithLogger(logger),
		plugin.WithMetrics(metrics),
		plugin.WithQueueLimit(cfg.EventQueueLimit),
	)
	if err := builtin.Register(host.Registry()); err != nil {
		return nil, err
	}
	return host, nil
}
