// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package main

import (
	"github.com/spf13/cobra"
)

// Global flags available to all subcommands.
var configFile string

// NewRootCmd creates the root command for the lvhost CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lvhost",
		Short: "lvhost - an audio visualisation plugin host",
		Long: `lvhost loads input, actor and morph plugins, drives their lifecycle
and benchmarks morph transitions between video frames.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (default: XDG_CONFIG_HOME/lvhost/config.yaml)")
	cmd.PersistentFlags().String("log-format", defaultLogFormat, "log format (json or text)")
	cmd.PersistentFlags().String("log-level", defaultLogLevel, "log level (debug, info, warn, error)")
	cmd.PersistentFlags().Uint64("seed", 0, "random seed for plugin instances (0 = derived from the clock)")
	cmd.PersistentFlags().Int("event-queue-limit", 0, "event queue bound per instance (0 = default)")

	cmd.AddCommand(newListCmd())
	cmd.AddCommand(newBenchCmd())
	cmd.AddCommand(newSchemaCmd())

	return cmd
}
