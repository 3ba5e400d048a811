//go:build linux

package discovery

import "fmt"

// Represents the properties of the host that configuration decisions are based on.
// A HostProfile is produced once per run by HostProbe.Probe and passed by value thereafter.
type HostProfile struct {

	// The vendor of the first display-class PCI device with a recognised vendor
	GPUVendor Vendor

	// A best-effort human-readable model name for the GPU (e.g. "Intel Corporation Alder Lake-P Integrated Graphics Controller")
	GPUModel string

	// The number of logical processors available to the process
	CPUCores int

	// The memory budget for the runtime in megabytes (80% of currently free memory)
	AvailableRAMMB uint64

	// The version of the running kernel
	KernelVersion string

	// Specifies whether the session is running under a Wayland compositor
	IsWayland bool

	// Specifies whether a Vulkan query tool (vulkaninfo) is present on the host
	GraphicsAPIToolPresent bool

	// Specifies whether Vulkan is usable through at least one hardware device
	GraphicsAPIAvailable bool

	// Specifies whether a Vulkan device belongs to the detected GPU vendor
	GraphicsAPIVendorMatch bool
}

// Computes the memory budget from the currently free memory, leaving 20% headroom for the host
func AvailableRAMMB(freeMB uint64) uint64 {
	return freeMB * 8 / 10
}

// Returns a one-line summary of the profile for log output
func (h HostProfile) String() string {
	protocol := "x11"
	if h.IsWayland {
		protocol = "wayland"
	}

	return fmt.Sprintf(
		"gpu=%s (%s) cores=%d ram=%dMB kernel=%s session=%s vulkan=%t vulkanVendorMatch=%t",
		h.GPUVendor,
		h.GPUModel,
		h.CPUCores,
		h.AvailableRAMMB,
		h.KernelVersion,
		protocol,
		h.GraphicsAPIAvailable,
		h.GraphicsAPIVendorMatch,
	)
}
