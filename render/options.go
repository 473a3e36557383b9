// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"github.com/gogpu/gputypes"

	"github.com/gogpu/flatshade"
)

// Option configures a renderer.
type Option func(*config)

type config struct {
	workers     int
	depth       bool
	clear       *flatshade.RGBA
	colorFormat gputypes.TextureFormat
}

func newConfig(opts []Option) config {
	cfg := config{colorFormat: gputypes.TextureFormatRGBA8Unorm}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// WithWorkers sets the number of goroutines the software renderer uses for
// vertex and fragment work. Zero or negative means GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(c *config) {
		c.workers = n
	}
}

// WithDepth enables the Less depth test for every draw call.
func WithDepth(enabled bool) Option {
	return func(c *config) {
		c.depth = enabled
	}
}

// WithClearColor sets the color used to clear the target when a draw call
// has no Clear of its own.
func WithClearColor(c flatshade.RGBA) Option {
	return func(cfg *config) {
		cfg.clear = &c
	}
}

// WithColorFormat sets the GPU color attachment format, RGBA8Unorm by
// default. It has no effect on the software renderer.
func WithColorFormat(format gputypes.TextureFormat) Option {
	return func(c *config) {
		c.colorFormat = format
	}
}

// clearColor returns the effective clear color of a draw call.
func (c *config) clearColor(dc *DrawCall) *flatshade.RGBA {
	if dc.Clear != nil {
		return dc.Clear
	}
	return c.clear
}
