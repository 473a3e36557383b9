//go:build !nogpu

package gpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// Device is a HAL device and queue, either opened by OpenDevice or
// borrowed from a host application.
type Device struct {
	Device hal.Device
	Queue  hal.Queue

	// Name is the adapter name, empty for borrowed devices.
	Name string

	instance hal.Instance
	external bool
}

// OpenDevice opens a device on the Vulkan backend. The backend must be
// registered by importing github.com/gogpu/wgpu/hal/vulkan. Discrete and
// integrated GPUs are preferred over software adapters.
func OpenDevice() (*Device, error) {
	backend, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return nil, fmt.Errorf("%w: vulkan backend not available", ErrNoDevice)
	}
	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return nil, fmt.Errorf("create instance: %w", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return nil, fmt.Errorf("%w: no GPU adapters found", ErrNoDevice)
	}
	selected := selectAdapter(adapters)
	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		return nil, fmt.Errorf("open device: %w", err)
	}
	slogger().Info("gpu device opened", "adapter", selected.Info.Name)
	return &Device{
		Device:   openDev.Device,
		Queue:    openDev.Queue,
		Name:     selected.Info.Name,
		instance: instance,
	}, nil
}

func selectAdapter(adapters []hal.ExposedAdapter) *hal.ExposedAdapter {
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			return &adapters[i]
		}
	}
	return &adapters[0]
}

// FromProvider borrows the HAL device and queue of a host provider. The
// provider must implement HalDevice() any and HalQueue() any returning
// hal.Device and hal.Queue. Close on the result does not destroy them.
func FromProvider(provider any) (*Device, error) {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, ErrNotHALProvider
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, fmt.Errorf("%w: HalDevice is not hal.Device", ErrNotHALProvider)
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, fmt.Errorf("%w: HalQueue is not hal.Queue", ErrNotHALProvider)
	}
	return Borrow(device, queue), nil
}

// Borrow wraps a device and queue owned by the caller. Close on the
// result does not destroy them.
func Borrow(device hal.Device, queue hal.Queue) *Device {
	return &Device{Device: device, Queue: queue, external: true}
}

// External reports whether the device is borrowed from a provider.
func (d *Device) External() bool {
	return d.external
}

// Close destroys a device opened by OpenDevice. Borrowed devices are left
// untouched. Safe to call multiple times.
func (d *Device) Close() {
	if d.external {
		return
	}
	if d.Device != nil {
		d.Device.Destroy()
		d.Device = nil
		d.Queue = nil
	}
	if d.instance != nil {
		d.instance.Destroy()
		d.instance = nil
	}
}
