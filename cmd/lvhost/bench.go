// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/holomush/lvhost/internal/audio"
	"github.com/holomush/lvhost/internal/morph"
	"github.com/holomush/lvhost/internal/observability"
	"github.com/holomush/lvhost/internal/plugin"
	"github.com/holomush/lvhost/internal/video"
	"github.com/holomush/lvhost/internal/xdg"
)

// benchConfig holds configuration for the bench command.
type benchConfig struct {
	width  int
	height int
	depth  int
	runs   int
	preset string
}

// Validate checks that the configuration is valid.
func (cfg *benchConfig) Validate() error {
	if cfg.width <= 0 || cfg.height <= 0 {
		return fmt.Errorf("width and height must be positive, got %dx%d", cfg.width, cfg.height)
	}
	if cfg.runs <= 0 {
		return fmt.Errorf("runs must be positive, got %d", cfg.runs)
	}
	return nil
}

// Default values for bench command flags.
const (
	defaultBenchWidth  = 640
	defaultBenchHeight = 480
	defaultBenchDepth  = 32
	defaultBenchRuns   = 1000
)

// benchResult summarises one benchmark.
type benchResult struct {
	Plugin  string
	Frames  int
	Elapsed time.Duration
}

// FPS returns frames per second.
func (r benchResult) FPS() float64 {
	if r.Elapsed <= 0 {
		return 0
	}
	return float64(r.Frames) / r.Elapsed.Seconds()
}

// newBenchCmd creates the bench subcommand.
func newBenchCmd() *cobra.Command {
	cfg := &benchConfig{}

	cmd := &cobra.Command{
		Use:   "bench <morph>",
		Short: "Benchmark a morph plugin",
		Long: `Run a morph plugin repeatedly between two frames, sweeping the rate
from 0 to 1 in steps of 0.1, and report the frame rate.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBench(cmd, cfg, args[0])
		},
	}

	cmd.Flags().IntVar(&cfg.width, "width", defaultBenchWidth, "frame width in pixels")
	cmd.Flags().IntVar(&cfg.height, "height", defaultBenchHeight, "frame height in pixels")
	cmd.Flags().IntVar(&cfg.depth, "depth", defaultBenchDepth, "bits per pixel (8, 16, 24 or 32)")
	cmd.Flags().IntVar(&cfg.runs, "runs", defaultBenchRuns, "number of frames to produce")
	cmd.Flags().StringVar(&cfg.preset, "preset", "", "preset name or path to apply before running")
	cmd.Flags().String("metrics-addr", "", "metrics/health HTTP address while benchmarking (empty = disabled)")

	return cmd
}

// runBench executes the bench command.
func runBench(cmd *cobra.Command, cfg *benchConfig, name string) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	depth, err := video.ParseDepth(cfg.depth)
	if err != nil {
		return err
	}

	hostCfg, err := loadConfig(configFile, cmd.Flags())
	if err != nil {
		return err
	}
	logger, err := hostCfg.logger(cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	var (
		host    *plugin.Host
		srv     *observability.Server
		metrics *observability.Metrics
	)
	if hostCfg.MetricsAddr != "" {
		srv = observability.NewServer(hostCfg.MetricsAddr,
			observability.WithLogger(logger),
			observability.WithReadiness(func() error { return host.Ready() }),
		)
		metrics = srv.Metrics()
	}

	host, err = hostCfg.newHost(logger, metrics)
	if err != nil {
		return err
	}
	defer host.Close()

	if srv != nil {
		errCh, err := srv.Start()
		if err != nil {
			return fmt.Errorf("failed to start metrics server: %w", err)
		}
		go monitorServerErrors(logger, errCh)
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Stop(ctx); err != nil {
				logger.Warn("error stopping metrics server", "error", err)
			}
		}()
	}

	m, err := morph.New(host, name)
	if err != nil {
		return err
	}
	defer m.Close()

	if cfg.preset != "" {
		p, err := plugin.LoadPreset(xdg.ResolvePreset(cfg.preset))
		if err != nil {
			return err
		}
		if err := m.Instance().ApplyPreset(p); err != nil {
			return err
		}
	}

	result, err := benchMorph(cmd.Context(), m, cfg, depth)
	if err != nil {
		return err
	}

	logger.Info("benchmark complete",
		"plugin", result.Plugin,
		"frames", result.Frames,
		"elapsed", result.Elapsed)
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s: %d frames of %dx%dx%d in %s (%.1f frames/sec)\n",
		result.Plugin, result.Frames, cfg.width, cfg.height, cfg.depth,
		result.Elapsed.Round(time.Millisecond), result.FPS())
	return nil
}

// benchMorph runs m cfg.runs times between a black and a white frame. It stops
// early when ctx is cancelled.
func benchMorph(ctx context.Context, m *morph.Morph, cfg *benchConfig, depth video.Depth) (benchResult, error) {
	result := benchResult{Plugin: m.Instance().Info().Name}

	dest, err := video.NewBuffer(cfg.width, cfg.height, depth)
	if err != nil {
		return result, err
	}
	src1, _ := video.NewBuffer(cfg.width, cfg.height, depth)
	src2, _ := video.NewBuffer(cfg.width, cfg.height, depth)
	src1.Fill(0xff000000)
	src2.Fill(0xffffffff)
	pcm := audio.NewBuffer(audio.DefaultBlockFrames, 0, 0)

	if err := m.SetVideo(dest); err != nil {
		return result, err
	}

	start := time.Now()
	for i := range cfg.runs {
		if ctx.Err() != nil {
			break
		}
		if err := m.SetRate(float32(i%11) / 10); err != nil {
			return result, err
		}
		if err := m.Instance().PumpEvents(); err != nil {
			return result, err
		}
		if err := m.Run(pcm, src1, src2); err != nil {
			return result, err
		}
		result.Frames++
	}
	result.Elapsed = time.Since(start)
	return result, nil
}

// monitorServerErrors logs errors reported by a background server.
func monitorServerErrors(logger *slog.Logger, errCh <-chan error) {
	for err := range errCh {
		logger.Error("metrics server error", "error", err)
	}
}
