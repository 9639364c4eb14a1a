// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

//go:build integration

package integration

import (
	"time"

	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention
	"go.uber.org/goleak"

	"github.com/holomush/lvhost/internal/audio"
	"github.com/holomush/lvhost/internal/morph"
	"github.com/holomush/lvhost/internal/param"
	"github.com/holomush/lvhost/internal/plugin"
	"github.com/holomush/lvhost/internal/video"
	"github.com/holomush/lvhost/plugins/fade"
	"github.com/holomush/lvhost/plugins/scope"
	"github.com/holomush/lvhost/plugins/synth"
)

var _ = Describe("Input to actor to morph pipeline", func() {
	It("renders captured audio and fades into it", func() {
		baseline := goleak.IgnoreCurrent()
		host := newHost(3)

		input, err := host.LoadRealized(plugin.TypeInput, synth.Name)
		Expect(err).NotTo(HaveOccurred())
		actor, err := host.LoadRealized(plugin.TypeActor, scope.Name)
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(actor.Unload)

		Expect(input.Params().Set(synth.ParamAmplitude, param.Float(1))).To(Succeed())
		Expect(input.PumpEvents()).To(Succeed())

		pcm := audio.NewBuffer(0, 0, 0)
		Eventually(func(g Gomega) {
			g.Expect(input.Upload(pcm)).To(Succeed())
			g.Expect(pcm.Samples).To(ContainElement(BeNumerically(">", 0)))
		}).WithTimeout(2 * time.Second).WithPolling(5 * time.Millisecond).Should(Succeed())

		frame := solid(64, 32, video.Depth32, 0)
		Expect(actor.Render(frame, pcm)).To(Succeed())
		background := solid(64, 32, video.Depth32, 0xff000000)
		Expect(frame.Equal(background)).To(BeFalse(), "trace drawn")

		m, err := morph.New(host, fade.Name)
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(m.Close)

		out := solid(64, 32, video.Depth32, 0)
		Expect(m.SetVideo(out)).To(Succeed())
		Expect(m.SetSteps(2)).To(Succeed())
		for !m.IsDone() {
			Expect(m.Run(pcm, background, frame)).To(Succeed())
		}
		Expect(out.Equal(frame)).To(BeTrue())

		input.Unload()
		goleak.VerifyNone(GinkgoT(), baseline)
	})
})
