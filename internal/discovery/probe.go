//go:build linux

package discovery

import (
	"context"
	"os"
	"runtime"
	"time"

	"go.uber.org/zap"

	"github.com/tensorworks/wine-gaming-setup/internal/runner"
)

// The upper bound on any single probing command, so a hung driver query can't stall the run
const probeCommandTimeout = 15 * time.Second

// Queries the host for the properties that configuration decisions depend on.
// Every step is best-effort: a missing or failing probe tool produces a warning and a conservative default.
type HostProbe struct {

	// Used to run the external probing tools
	runner runner.Runner

	// The logger used to log diagnostic information
	logger *zap.SugaredLogger

	// Host accessors, replaced in tests
	lookupEnv     func(string) (string, bool)
	numCPU        func() int
	freeMemoryMB  func() (uint64, error)
	kernelVersion func() (string, error)
	sysfsListing  func() (string, error)
}

// Creates a probe that queries the real host
func NewHostProbe(r runner.Runner, logger *zap.SugaredLogger) *HostProbe {
	return &HostProbe{
		runner:        r,
		logger:        logger,
		lookupEnv:     os.LookupEnv,
		numCPU:        runtime.NumCPU,
		freeMemoryMB:  hostFreeMemoryMB,
		kernelVersion: hostKernelVersion,
		sysfsListing:  sysfsDisplayListing,
	}
}

// Probes the host and returns its profile
func (p *HostProbe) Probe(ctx context.Context) HostProfile {
	profile := HostProfile{}

	// Identify the GPU vendor and model
	profile.GPUVendor, profile.GPUModel = p.detectGPU(ctx)
	if profile.GPUVendor == VendorUnknown {
		p.logger.Warn("Could not identify the GPU vendor, generic settings will be used")
	} else {
		p.logger.Infow("Detected GPU", "vendor", profile.GPUVendor, "model", profile.GPUModel)
	}

	// Determine the windowing protocol
	profile.IsWayland = p.detectWayland()
	p.logger.Infow("Detected session type", "wayland", profile.IsWayland)

	// Count the logical processors available to us
	profile.CPUCores = p.numCPU()
	if profile.CPUCores < 1 {
		profile.CPUCores = 1
	}

	// Compute the memory budget
	if freeMB, err := p.freeMemoryMB(); err != nil {
		p.logger.Warnw("Could not determine free memory", "error", err)
	} else {
		profile.AvailableRAMMB = AvailableRAMMB(freeMB)
	}
	p.logger.Infow("Detected CPU and memory", "cores", profile.CPUCores, "availableRamMB", profile.AvailableRAMMB)

	// Retrieve the kernel version
	if version, err := p.kernelVersion(); err != nil {
		p.logger.Warnw("Could not determine the kernel version", "error", err)
		profile.KernelVersion = "unknown"
	} else {
		profile.KernelVersion = version
	}
	p.logger.Infow("Detected kernel", "version", profile.KernelVersion)

	// Check for Vulkan support and whether it matches the GPU vendor
	p.probeVulkan(ctx, &profile)

	// Report the video acceleration driver and any missing driver packages
	p.probeVideoAcceleration(ctx)
	p.CheckDriverPackages(ctx, profile.GPUVendor)

	return profile
}

// Classifies the GPU from the lspci listing, falling back to the sysfs listing if lspci fails
func (p *HostProbe) detectGPU(ctx context.Context) (Vendor, string) {

	// Attempt to list the PCI devices using lspci
	listing, err := p.output(ctx, "lspci")
	if err == nil {
		return ClassifyPCIListing(listing)
	}
	p.logger.Warnw("Failed to list PCI devices with lspci, falling back to sysfs", "error", err)

	// Attempt to list the display devices through sysfs instead
	listing, err = p.sysfsListing()
	if err != nil {
		p.logger.Warnw("Failed to list display devices through sysfs", "error", err)
		return VendorUnknown, ""
	}

	return ClassifyPCIListing(listing)
}

// Determines whether the session is running under Wayland
func (p *HostProbe) detectWayland() bool {
	if sessionType, ok := p.lookupEnv("XDG_SESSION_TYPE"); ok && sessionType == "wayland" {
		return true
	}

	display, ok := p.lookupEnv("WAYLAND_DISPLAY")
	return ok && display != ""
}

// Populates the Vulkan fields of the profile using vulkaninfo, if it is present
func (p *HostProbe) probeVulkan(ctx context.Context, profile *HostProfile) {

	// Without the query tool we can't perform the finer-grained checks
	if _, err := p.runner.LookPath("vulkaninfo"); err != nil {
		p.logger.Warn("vulkaninfo not found, skipping Vulkan driver checks (install vulkan-tools to enable them)")
		return
	}
	profile.GraphicsAPIToolPresent = true

	// Query the Vulkan device summary
	summary, err := p.output(ctx, "vulkaninfo", "--summary")
	if err != nil {
		p.logger.Warnw("Vulkan is not usable on this host", "error", err)
		return
	}

	profile.GraphicsAPIAvailable, profile.GraphicsAPIVendorMatch = VulkanStatus(ParseVulkanSummary(summary), profile.GPUVendor)
	switch {
	case !profile.GraphicsAPIAvailable:
		p.logger.Warn("vulkaninfo reported no hardware Vulkan devices")
	case profile.GPUVendor != VendorUnknown && !profile.GraphicsAPIVendorMatch:
		p.logger.Warnw("The Vulkan driver does not match the detected GPU vendor", "vendor", profile.GPUVendor)
	default:
		p.logger.Infow("Vulkan is available", "vendorMatch", profile.GraphicsAPIVendorMatch)
	}
}

// Logs the VA-API driver, if vainfo is present
func (p *HostProbe) probeVideoAcceleration(ctx context.Context) {
	if _, err := p.runner.LookPath("vainfo"); err != nil {
		p.logger.Debug("vainfo not found, skipping the video acceleration check")
		return
	}

	output, err := p.output(ctx, "vainfo")
	if driver := ParseVAInfoDriver(output); err == nil && driver != "" {
		p.logger.Infow("Video acceleration is available", "driver", driver)
	} else {
		p.logger.Warn("Video acceleration (VA-API) is not available")
	}
}

// Logs a warning for each expected driver package that is missing
func (p *HostProbe) CheckDriverPackages(ctx context.Context, vendor Vendor) {
	statuses, err := DriverPackages(ctx, p.runner, vendor)
	if err != nil {
		p.logger.Warnw("Could not check the installed driver packages", "error", err)
		return
	}

	for _, status := range statuses {
		if status.Installed {
			p.logger.Debugw("Driver package is installed", "package", status.Name)
		} else {
			p.logger.Warnw("Driver package is not installed", "package", status.Name, "vendor", vendor)
		}
	}
}

// Runs a probing command with a bounded duration and returns its output as a string
func (p *HostProbe) output(ctx context.Context, name string, args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, probeCommandTimeout)
	defer cancel()

	output, err := p.runner.Output(ctx, runner.Command{Name: name, Args: args})
	return string(output), err
}
