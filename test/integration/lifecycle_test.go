// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

//go:build integration

package integration

import (
	"context"
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/holomush/lvhost/internal/audio"
	"github.com/holomush/lvhost/internal/event"
	"github.com/holomush/lvhost/internal/observability"
	"github.com/holomush/lvhost/internal/param"
	"github.com/holomush/lvhost/internal/plugin"
	"github.com/holomush/lvhost/internal/video"
	"github.com/holomush/lvhost/plugins/fade"
	"github.com/holomush/lvhost/plugins/scope"
	"github.com/holomush/lvhost/plugins/slide"
)

// flaky is a morph whose Init fails a fixed number of times.
type flaky struct {
	plugin.Base
	failures *int
}

func (f flaky) Init(*plugin.Instance) error {
	if *f.failures > 0 {
		*f.failures--
		return errors.New("device busy")
	}
	return nil
}

func (flaky) Apply(*plugin.Instance, float32, *audio.Buffer, *video.Buffer, *video.Buffer, *video.Buffer) error {
	return nil
}

var _ = Describe("Instance lifecycle", func() {
	var (
		host    *plugin.Host
		metrics *observability.Metrics
	)

	BeforeEach(func() {
		metrics = observability.NewMetrics(prometheus.NewRegistry())
		host = newHost(1, plugin.WithMetrics(metrics), plugin.WithQueueLimit(4))
	})

	It("loads, realizes and unloads an actor", func() {
		inst, err := host.Load(plugin.TypeActor, scope.Name)
		Expect(err).NotTo(HaveOccurred())
		Expect(inst.IsRealized()).To(BeFalse())
		Expect(testutil.ToFloat64(metrics.InstancesActive)).To(Equal(1.0))

		Expect(inst.Realize()).To(Succeed())
		Expect(inst.Realize()).To(Succeed(), "realize is idempotent")
		Expect(inst.Params().Names()).To(Equal([]string{scope.ParamColor, scope.ParamBackground}))

		inst.Unload()
		inst.Unload()
		Expect(inst.IsUnloaded()).To(BeTrue())
		Expect(testutil.ToFloat64(metrics.InstancesActive)).To(BeZero())

		err = inst.Render(solid(4, 4, video.Depth32, 0), nil)
		Expect(err).To(MatchError(plugin.ErrUnloaded))
	})

	It("refuses to render before realize", func() {
		inst, err := host.Load(plugin.TypeActor, scope.Name)
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(inst.Unload)

		Expect(inst.Render(solid(4, 4, video.Depth32, 0), nil)).To(MatchError(plugin.ErrNotRealized))
	})

	It("rejects operations of another plugin type", func() {
		inst, err := host.LoadRealized(plugin.TypeMorph, fade.Name)
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(inst.Unload)

		Expect(inst.Render(solid(4, 4, video.Depth32, 0), nil)).To(MatchError(plugin.ErrWrongType))
	})

	It("drops the oldest events when the queue is full", func() {
		inst, err := host.LoadRealized(plugin.TypeMorph, slide.Name)
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(inst.Unload)

		for i := range 6 {
			Expect(inst.SendEvent(i, nil)).To(Succeed())
		}
		Expect(inst.Events().Len()).To(Equal(4))
		Expect(inst.Events().Dropped()).To(Equal(uint64(2)))
		Expect(testutil.ToFloat64(metrics.EventsDropped.WithLabelValues(slide.Name))).To(Equal(2.0))

		ev, ok := inst.Events().Poll()
		Expect(ok).To(BeTrue())
		Expect(ev.Kind).To(Equal(event.KindGeneric))
		Expect(ev.Code).To(Equal(2))
	})

	It("reports parameter changes exactly once per change", func() {
		inst, err := host.LoadRealized(plugin.TypeMorph, slide.Name)
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(inst.Unload)

		Expect(inst.Params().Set(slide.ParamDirection, param.Enum(slide.Right))).To(Succeed())
		Expect(inst.Params().Set(slide.ParamDirection, param.Enum(slide.Right))).To(Succeed())
		Expect(inst.Events().Len()).To(Equal(1))

		Expect(inst.Params().Set(slide.ParamDirection, param.Enum("diagonal"))).To(MatchError(param.ErrTypeMismatch))
	})

	It("retries a failing initialisation until it succeeds", func() {
		failures := 2
		Expect(host.Register(&plugin.Info{
			Name:    "flaky",
			Type:    plugin.TypeMorph,
			Version: "0.1.0",
			Plugin:  flaky{failures: &failures},
		})).To(Succeed())

		inst, err := host.Load(plugin.TypeMorph, "flaky")
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(inst.Unload)

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		Expect(host.RealizeWithRetry(ctx, inst, 3, time.Millisecond)).To(Succeed())
		Expect(inst.IsRealized()).To(BeTrue())
		Expect(testutil.ToFloat64(metrics.RealizeFailures.WithLabelValues("flaky"))).To(Equal(2.0))
	})

	It("refuses to load after the host is closed", func() {
		host.Close()
		_, err := host.Load(plugin.TypeMorph, fade.Name)
		Expect(err).To(MatchError(plugin.ErrHostClosed))
	})
})
