// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

//go:build integration

package integration

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention

	"github.com/holomush/lvhost/internal/plugin"
	"github.com/holomush/lvhost/internal/xdg"
	"github.com/holomush/lvhost/plugins/dissolve"
	"github.com/holomush/lvhost/plugins/ease"
	"github.com/holomush/lvhost/plugins/scope"
)

var _ = Describe("Presets", func() {
	var host *plugin.Host

	BeforeEach(func() {
		host = newHost(5)
		GinkgoT().Setenv("XDG_DATA_HOME", GinkgoT().TempDir())
	})

	writePreset := func(name, body string) {
		Expect(os.MkdirAll(xdg.PresetsDir(), 0o700)).To(Succeed())
		Expect(os.WriteFile(filepath.Join(xdg.PresetsDir(), name+".yaml"), []byte(body), 0o600)).To(Succeed())
	}

	It("applies a named preset from the presets directory", func() {
		writePreset("squared", `
plugin: ease
type: morph
description: quadratic ease-in
params:
  curve: return r * r
`)
		p, err := plugin.LoadPreset(xdg.ResolvePreset("squared"))
		Expect(err).NotTo(HaveOccurred())

		inst, err := host.LoadRealized(plugin.TypeMorph, ease.Name)
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(inst.Unload)

		Expect(inst.ApplyPreset(p)).To(Succeed())
		e, ok := inst.Params().Entry(ease.ParamCurve)
		Expect(ok).To(BeTrue())
		Expect(e.GetString()).To(Equal("return r * r"))
		Expect(inst.PumpEvents()).To(Succeed())
	})

	It("converts YAML scalars to the declared parameter types", func() {
		p, err := plugin.ParsePreset([]byte("plugin: scope\ntype: actor\nparams:\n  color: 65280\n  background: 0.0\n"))
		Expect(err).NotTo(HaveOccurred())

		inst, err := host.LoadRealized(plugin.TypeActor, scope.Name)
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(inst.Unload)

		Expect(inst.ApplyPreset(p)).To(Succeed())
		e, _ := inst.Params().Entry(scope.ParamColor)
		Expect(e.GetInt()).To(Equal(0x00ff00))
	})

	It("applies nothing when one value is invalid", func() {
		p, err := plugin.ParsePreset([]byte("plugin: scope\ntype: actor\nparams:\n  color: 255\n  background: 99999999\n"))
		Expect(err).NotTo(HaveOccurred())

		inst, err := host.LoadRealized(plugin.TypeActor, scope.Name)
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(inst.Unload)

		Expect(inst.ApplyPreset(p)).NotTo(Succeed())
		e, _ := inst.Params().Entry(scope.ParamColor)
		Expect(e.GetInt()).To(Equal(0xffffff))
		Expect(inst.Events().Len()).To(BeZero())
	})

	It("rejects a preset written for another plugin", func() {
		p, err := plugin.ParsePreset([]byte("plugin: dissolve\ntype: morph\nparams:\n  seeded: 1\n"))
		Expect(err).NotTo(HaveOccurred())

		inst, err := host.LoadRealized(plugin.TypeMorph, ease.Name)
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(inst.Unload)

		Expect(inst.ApplyPreset(p)).To(MatchError(plugin.ErrPresetMismatch))

		other, err := host.LoadRealized(plugin.TypeMorph, dissolve.Name)
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(other.Unload)
		Expect(other.ApplyPreset(p)).To(Succeed())
	})

	It("rejects files that do not match the schema", func() {
		_, err := plugin.ParsePreset([]byte("plugin: fade\ntype: morph\nspeed: 2\n"))
		Expect(err).To(MatchError(plugin.ErrInvalidPreset))
	})
})
