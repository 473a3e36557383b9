//go:build !nogpu

package main

import (
	_ "github.com/gogpu/wgpu/hal/vulkan" // register the Vulkan backend

	"github.com/gogpu/flatshade/render"
)

func openGPURenderer() (*render.GPURenderer, error) {
	return render.OpenGPURenderer()
}
