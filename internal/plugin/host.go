// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package plugin

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
	"github.com/sethvargo/go-retry"

	"github.com/holomush/lvhost/internal/event"
	"github.com/holomush/lvhost/internal/observability"
	"github.com/holomush/lvhost/internal/param"
	"github.com/holomush/lvhost/internal/random"
)

// Host owns the plugin registry and the process-wide random source, and
// creates instances from registered descriptors.
type Host struct {
	registry   *Registry
	source     *random.Source
	logger     *slog.Logger
	metrics    *observability.Metrics
	queueLimit int
}

// HostOption configures a Host.
type HostOption func(*Host)

// WithRegistry makes the host load plugins from r instead of a new registry.
func WithRegistry(r *Registry) HostOption {
	return func(h *Host) {
		h.registry = r
	}
}

// WithLogger sets the logger used by the host and its instances.
func WithLogger(l *slog.Logger) HostOption {
	return func(h *Host) {
		h.logger = l
	}
}

// WithMetrics records plugin metrics to m.
func WithMetrics(m *observability.Metrics) HostOption {
	return func(h *Host) {
		h.metrics = m
	}
}

// WithQueueLimit sets the event queue bound of new instances.
// Zero or negative selects event.DefaultLimit.
func WithQueueLimit(n int) HostOption {
	return func(h *Host) {
		h.queueLimit = n
	}
}

// NewHost creates a host whose random source is seeded with seed. Instances
// loaded from hosts with equal seeds, in equal order, get equal random contexts.
func NewHost(seed uint64, opts ...HostOption) *Host {
	h := &Host{
		source: random.NewSource(seed),
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.registry == nil {
		h.registry = NewRegistry()
	}
	if h.logger == nil {
		h.logger = slog.Default()
	}
	return h
}

// Registry returns the host's plugin catalog.
func (h *Host) Registry() *Registry { return h.registry }

// Logger returns the host logger.
func (h *Host) Logger() *slog.Logger { return h.logger }

// Metrics returns the host metrics, which may be nil.
func (h *Host) Metrics() *observability.Metrics { return h.metrics }

// Register adds descriptors to the host's registry, stopping at the first error.
func (h *Host) Register(infos ...*Info) error {
	for _, info := range infos {
		if err := h.registry.Register(info); err != nil {
			return err
		}
	}
	return nil
}

// Load creates an unrealized instance of the plugin registered under t and
// name. The plugin's Init is not called.
func (h *Host) Load(t Type, name string) (*Instance, error) {
	info, err := h.registry.Find(t, name)
	if err != nil {
		return nil, err
	}

	seed, err := h.source.Next()
	if err != nil {
		return nil, oops.Code("HOST_CLOSED").With("plugin", name).Wrap(errors.Join(ErrHostClosed, err))
	}

	id := ulid.Make()
	logger := h.logger.With("plugin", info.Name, "instance", id.String())
	metrics := h.metrics

	inst := &Instance{
		id:     id,
		info:   info,
		params: param.NewList(),
		events: event.NewQueue(h.queueLimit, event.WithDropHandler(func(ev event.Event) {
			logger.Warn("event queue full, dropped oldest event",
				"kind", ev.Kind.String(),
				"seq", ev.Seq)
			metrics.EventDropped(info.Name)
		})),
		random:  random.NewContext(seed),
		logger:  logger,
		metrics: metrics,
	}

	metrics.InstanceLoaded(t.String(), info.Name)
	logger.Debug("plugin loaded", "type", t.String(), "seed", seed)
	return inst, nil
}

// LoadRealized loads an instance and realizes it, unloading it again if
// Init fails.
func (h *Host) LoadRealized(t Type, name string) (*Instance, error) {
	inst, err := h.Load(t, name)
	if err != nil {
		return nil, err
	}
	if err := inst.Realize(); err != nil {
		inst.Unload()
		return nil, err
	}
	return inst, nil
}

// RealizeWithRetry calls inst.Realize until it succeeds, retrying up to
// retries times after init failures with exponential backoff starting at base.
// Errors other than ErrInitFailed are returned immediately.
func (h *Host) RealizeWithRetry(ctx context.Context, inst *Instance, retries uint64, base time.Duration) error {
	backoff := retry.WithMaxRetries(retries, retry.NewExponential(base))

	attempt := 0
	err := retry.Do(ctx, backoff, func(_ context.Context) error {
		attempt++
		err := inst.Realize()
		if err != nil && errors.Is(err, ErrInitFailed) {
			h.logger.Debug("retrying plugin init",
				"plugin", inst.Info().Name,
				"attempt", attempt,
				"error", err)
			return retry.RetryableError(err)
		}
		return err
	})
	if err != nil {
		return oops.Code("PLUGIN_INIT_FAILED").
			With("plugin", inst.Info().Name).
			With("attempts", attempt).
			Wrap(err)
	}
	return nil
}

// Ready reports ErrHostClosed once Close has been called, nil otherwise.
func (h *Host) Ready() error {
	if h.source.Closed() {
		return ErrHostClosed
	}
	return nil
}

// Close shuts the random source down. Loading after Close fails with
// ErrHostClosed; existing instances keep working.
func (h *Host) Close() {
	h.source.Close()
}
