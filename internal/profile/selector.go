//go:build linux

package profile

import (
	"strconv"

	"github.com/tensorworks/wine-gaming-setup/internal/discovery"
	"golang.org/x/exp/slices"
)

// Represents a single option in the translation-layer configuration file
type ConfigOption struct {
	Key   string
	Value string
}

// Represents the complete set of configuration values derived from a HostProfile
type ConfigProfile struct {

	// The GPU vendor the profile was selected for
	Vendor discovery.Vendor

	// Registry values in import order: base, then windowing protocol, then GPU vendor
	RegistryEntries []RegistryEntry

	// Compatibility libraries to install via the package helper, without duplicates
	Libraries []string

	// Environment variables in export order: base, then windowing protocol, then GPU vendor
	EnvVars []EnvVar

	// Environment variables from later layers that were ignored because an earlier layer already set them
	IgnoredEnvVars []EnvVar

	// The path of the translation-layer configuration file, or an empty string if none is generated
	TranslationLayerConfigPath string

	// The contents of the translation-layer configuration file
	DXVKConfig []ConfigOption

	// The number of shader compiler threads the translation layer should use
	CompilerThreads int

	// Specifies whether the second translation layer (Direct3D 12) should be installed
	InstallSecondLayer bool

	// The reason the second translation layer is skipped, if it is
	SecondLayerSkipReason string
}

// Computes the shader compiler thread count for the given number of logical processors
func CompilerThreads(cores int) int {
	if cores >= 4 {
		return cores / 2
	}

	return 2
}

// Derives a ConfigProfile from a HostProfile. The result depends only on the arguments.
func Select(host discovery.HostProfile, paths Paths) ConfigProfile {

	// Retrieve the additions for the detected vendor, falling back to the generic defaults
	vendor, exists := vendorTable[host.GPUVendor]
	if !exists {
		vendor = vendorTable[discovery.VendorUnknown]
	}

	profile := ConfigProfile{
		Vendor:          host.GPUVendor,
		CompilerThreads: CompilerThreads(host.CPUCores),
	}

	// Assemble the registry values
	profile.RegistryEntries = slices.Clone(baseRegistry)
	if host.IsWayland {
		profile.RegistryEntries = append(profile.RegistryEntries, waylandRegistry...)
	}
	profile.RegistryEntries = append(profile.RegistryEntries, vendor.registry...)

	// Assemble the environment variables, with earlier layers taking precedence
	profile.EnvVars = baseEnv(paths)
	profile.IgnoredEnvVars = []EnvVar{}
	layers := [][]EnvVar{}
	if host.IsWayland {
		layers = append(layers, waylandEnv())
	}
	if vendor.env != nil {
		layers = append(layers, vendor.env(paths))
	}
	for _, layer := range layers {
		var ignored []EnvVar
		profile.EnvVars, ignored = appendEnvVars(profile.EnvVars, layer)
		profile.IgnoredEnvVars = append(profile.IgnoredEnvVars, ignored...)
	}

	// Assemble the library list
	profile.Libraries = []string{}
	profile.AddLibraries(baseLibraries)
	profile.AddLibraries(vendor.libraries)

	// Populate the translation-layer configuration for vendors that need one
	if vendor.translationLayerConfig {
		profile.TranslationLayerConfigPath = paths.DXVKConfigFile()
		profile.DXVKConfig = dxvkOptions(host, profile.CompilerThreads)
	}

	// Decide whether the second translation layer should be installed
	profile.InstallSecondLayer, profile.SecondLayerSkipReason = secondLayerDecision(host)
	return profile
}

// Appends libraries to the profile's install list, skipping any that are already present.
// Returns the libraries that were skipped.
func (p *ConfigProfile) AddLibraries(libraries []string) []string {
	skipped := []string{}
	for _, library := range libraries {
		if library == "" || slices.Contains(p.Libraries, library) {
			skipped = append(skipped, library)
			continue
		}

		p.Libraries = append(p.Libraries, library)
	}

	return skipped
}

// Retrieves the value of an environment variable from the profile
func (p ConfigProfile) Env(name string) (string, bool) {
	return lookupEnvVar(p.EnvVars, name)
}

// Builds the translation-layer options for the host
func dxvkOptions(host discovery.HostProfile, threads int) []ConfigOption {
	options := []ConfigOption{
		{Key: "dxvk.numCompilerThreads", Value: strconv.Itoa(threads)},
	}

	// Only cap the shared memory when we were able to measure free memory
	if host.AvailableRAMMB > 0 {
		options = append(options, ConfigOption{Key: "dxgi.maxSharedMemory", Value: strconv.FormatUint(host.AvailableRAMMB, 10)})
	}

	options = append(options,
		ConfigOption{Key: "d3d11.relaxedBarriers", Value: "True"},
		ConfigOption{Key: "d3d9.deferSurfaceCreation", Value: "True"},
	)

	return options
}

// Determines whether the Direct3D 12 translation layer can be expected to work on the host
func secondLayerDecision(host discovery.HostProfile) (bool, string) {
	switch {
	case !host.GraphicsAPIToolPresent:
		return false, "Vulkan support could not be verified because vulkaninfo is not installed"
	case host.GPUVendor == discovery.VendorIntel && host.GraphicsAPIAvailable && !host.GraphicsAPIVendorMatch:
		return false, "the Vulkan driver does not belong to the Intel GPU"
	default:
		return true, ""
	}
}
