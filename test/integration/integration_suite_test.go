// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

//go:build integration

// Package integration provides end-to-end tests that drive built-in plugins
// through a host.
package integration

import (
	"testing"

	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention

	"github.com/holomush/lvhost/internal/plugin"
	"github.com/holomush/lvhost/internal/video"
	"github.com/holomush/lvhost/plugins/builtin"
)

func TestIntegration(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Integration Suite")
}

// newHost returns a host with the built-in plugins registered.
func newHost(seed uint64, opts ...plugin.HostOption) *plugin.Host {
	host := plugin.NewHost(seed, opts...)
	Expect(builtin.Register(host.Registry())).To(Succeed())
	DeferCleanup(host.Close)
	return host
}

// solid returns a w×h frame filled with color.
func solid(w, h int, depth video.Depth, color uint32) *video.Buffer {
	b, err := video.NewBuffer(w, h, depth)
	Expect(err).NotTo(HaveOccurred())
	b.Fill(color)
	return b
}
