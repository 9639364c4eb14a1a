// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

//go:build integration

package integration

import (
	"time"

	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention

	"github.com/holomush/lvhost/internal/audio"
	"github.com/holomush/lvhost/internal/morph"
	"github.com/holomush/lvhost/internal/param"
	"github.com/holomush/lvhost/internal/plugin"
	"github.com/holomush/lvhost/internal/video"
	"github.com/holomush/lvhost/plugins/dissolve"
	"github.com/holomush/lvhost/plugins/ease"
	"github.com/holomush/lvhost/plugins/fade"
	"github.com/holomush/lvhost/plugins/slide"
)

var _ = Describe("Morph transitions", func() {
	var (
		host       *plugin.Host
		dest       *video.Buffer
		src1, src2 *video.Buffer
	)

	BeforeEach(func() {
		host = newHost(1)
		dest = solid(4, 4, video.Depth32, 0)
		src1 = solid(4, 4, video.Depth32, 0xff000000)
		src2 = solid(4, 4, video.Depth32, 0xffffffff)
	})

	open := func(name string, opts ...morph.Option) *morph.Morph {
		m, err := morph.New(host, name, opts...)
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(m.Close)
		Expect(m.SetVideo(dest)).To(Succeed())
		return m
	}

	Describe("fade", func() {
		It("yields the first frame at rate 0 and the second at rate 1", func() {
			m := open(fade.Name)

			Expect(m.SetRate(0)).To(Succeed())
			Expect(m.Run(nil, src1, src2)).To(Succeed())
			Expect(dest.Equal(src1)).To(BeTrue())

			Expect(m.SetRate(1)).To(Succeed())
			Expect(m.Run(nil, src1, src2)).To(Succeed())
			Expect(dest.Equal(src2)).To(BeTrue())
		})

		It("leaves the destination untouched for mismatched sources", func() {
			m := open(fade.Name)
			before := dest.Clone()

			err := m.Run(nil, src1, solid(2, 2, video.Depth32, 0))
			Expect(err).To(MatchError(morph.ErrDimensionMismatch))
			Expect(dest.Equal(before)).To(BeTrue())
		})

		It("rejects a rate outside [0, 1]", func() {
			m := open(fade.Name)
			Expect(m.SetRate(1.5)).To(MatchError(morph.ErrRateOutOfRange))
			Expect(m.Rate()).To(BeZero())
		})
	})

	Describe("step progression", func() {
		It("reaches the second frame after the configured steps", func() {
			m := open(slide.Name)
			Expect(m.SetSteps(4)).To(Succeed())

			frames := 0
			for !m.IsDone() {
				Expect(m.Run(nil, src1, src2)).To(Succeed())
				frames++
				Expect(frames).To(BeNumerically("<=", 5))
			}
			Expect(frames).To(Equal(5))
			Expect(dest.Equal(src2)).To(BeTrue())
		})
	})

	Describe("timed progression", func() {
		It("follows the clock and finishes at the duration", func() {
			now := time.Unix(0, 0)
			m := open(fade.Name, morph.WithClock(func() time.Time { return now }))
			Expect(m.SetDuration(time.Second)).To(Succeed())

			Expect(m.Run(nil, src1, src2)).To(Succeed())
			Expect(dest.Equal(src1)).To(BeTrue())

			now = now.Add(500 * time.Millisecond)
			Expect(m.Rate()).To(BeNumerically("~", 0.5, 1e-6))
			Expect(m.IsDone()).To(BeFalse())

			now = now.Add(time.Second)
			Expect(m.Run(nil, src1, src2)).To(Succeed())
			Expect(dest.Equal(src2)).To(BeTrue())
			Expect(m.IsDone()).To(BeTrue())
		})
	})

	Describe("parameters", func() {
		It("applies a direction change on the next event pump", func() {
			m := open(slide.Name)
			Expect(m.Instance().Params().Set(slide.ParamDirection, param.Enum(slide.Up))).To(Succeed())
			Expect(m.Instance().PumpEvents()).To(Succeed())

			top := solid(4, 4, video.Depth32, 0xff0000ff)
			Expect(m.SetRate(0.5)).To(Succeed())
			Expect(m.Run(nil, src1, top)).To(Succeed())

			Expect(dest.Row(0)).To(Equal(src1.Row(0)))
			Expect(dest.Row(3)).To(Equal(top.Row(3)))
		})

		It("keeps the old curve when a new one fails to compile", func() {
			m := open(ease.Name)
			Expect(m.Instance().Params().Set(ease.ParamCurve, param.String("return ("))).To(Succeed())
			Expect(m.Instance().PumpEvents()).To(HaveOccurred())

			Expect(m.SetRate(1)).To(Succeed())
			Expect(m.Run(nil, src1, src2)).To(Succeed())
			Expect(dest.Equal(src2)).To(BeTrue())
		})
	})

	Describe("dissolve", func() {
		It("is reproducible for equal host seeds", func() {
			run := func() *video.Buffer {
				h := newHost(99)
				m, err := morph.New(h, dissolve.Name)
				Expect(err).NotTo(HaveOccurred())
				defer m.Close()

				out := solid(16, 16, video.Depth32, 0)
				Expect(m.SetVideo(out)).To(Succeed())
				Expect(m.SetRate(0.5)).To(Succeed())
				Expect(m.Run(audio.NewBuffer(0, 0, 0),
					solid(16, 16, video.Depth32, 0xff000000),
					solid(16, 16, video.Depth32, 0xffffffff))).To(Succeed())
				return out
			}

			Expect(run().Equal(run())).To(BeTrue())
		})
	})
})
