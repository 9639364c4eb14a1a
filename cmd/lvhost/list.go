// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/holomush/lvhost/internal/plugin"
)

// newListCmd creates the list subcommand.
func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "list [type]",
		Short:     "List registered plugins",
		Long:      `List the registered plugins, optionally only those of one type (input, actor or morph).`,
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"input", "actor", "morph"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, args)
		},
	}
}

// runList executes the list command.
func runList(cmd *cobra.Command, args []string) error {
	types := plugin.Types()
	if len(args) == 1 {
		t, err := plugin.ParseType(args[0])
		if err != nil {
			return err
		}
		types = []plugin.Type{t}
	}

	cfg, err := loadConfig(configFile, cmd.Flags())
	if err != nil {
		return err
	}
	logger, err := cfg.logger(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	host, err := cfg.newHost(logger, nil)
	if err != nil {
		return err
	}
	defer host.Close()

	var infos []*plugin.Info
	for _, t := range types {
		infos = append(infos, host.Registry().List(t)...)
	}
	return formatPluginTable(cmd.OutOrStdout(), infos)
}

// formatPluginTable writes infos as an aligned table.
func formatPluginTable(out io.Writer, infos []*plugin.Info) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "TYPE\tNAME\tVERSION\tDESCRIPTION")
	for _, info := range infos {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", info.Type, info.Name, info.Version, info.About)
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to write plugin table: %w", err)
	}
	return nil
}
