//go:build nogpu

package main

import (
	"errors"

	"github.com/gogpu/flatshade/render"
)

type noGPURenderer struct {
	render.Renderer
}

func (noGPURenderer) Close() {}

func openGPURenderer() (noGPURenderer, error) {
	return noGPURenderer{}, errors.New("built with -tags nogpu")
}
