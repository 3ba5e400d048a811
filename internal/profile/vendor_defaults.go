//go:build linux

package profile

import (
	"github.com/tensorworks/wine-gaming-setup/internal/discovery"
)

// The per-vendor additions applied on top of the base and windowing-protocol layers
type vendorDefaults struct {

	// Registry values appended after the base and Wayland blocks
	registry []RegistryEntry

	// Environment variables appended after the base and Wayland blocks
	env func(paths Paths) []EnvVar

	// Compatibility libraries installed in addition to the base set
	libraries []string

	// Specifies whether the vendor gets a generated translation-layer configuration file
	translationLayerConfig bool
}

// The adapter identity and video memory size we report for Intel GPUs under the emulated Direct3D adapter
const (
	intelReportedDeviceID   uint32 = 0x9a49
	intelReportedVideoMemMB        = "2048"
)

// The additions for each vendor. Every value in discovery.AllVendors must have an entry.
var vendorTable = map[discovery.Vendor]vendorDefaults{
	discovery.VendorIntel: {
		registry: []RegistryEntry{
			stringEntry(keyDirect3D, "StrictDrawOrdering", "disabled"),
			stringEntry(keyDirect3D, "UseGLSL", "enabled"),
			stringEntry(keyDirect3D, "VideoMemorySize", intelReportedVideoMemMB),
			dwordEntry(keyDirect3D, "VideoPciVendorID", uint32(discovery.VendorIntel.PCIVendorID())),
			dwordEntry(keyDirect3D, "VideoPciDeviceID", intelReportedDeviceID),
		},
		env: func(paths Paths) []EnvVar {
			return []EnvVar{
				{Name: "DXVK_CONFIG_FILE", Value: paths.DXVKConfigFile()},
				{Name: "MESA_LOADER_DRIVER_OVERRIDE", Value: "iris"},
				{Name: "mesa_glthread", Value: "true"},
				{Name: "MESA_SHADER_CACHE_MAX_SIZE", Value: "4G"},
			}
		},
		libraries:              []string{"d3dx11_43"},
		translationLayerConfig: true,
	},
	discovery.VendorNvidia: {
		env: func(paths Paths) []EnvVar {
			return []EnvVar{
				{Name: "__GL_THREADED_OPTIMIZATIONS", Value: "1"},
				{Name: "__GL_SHADER_DISK_CACHE_SKIP_CLEANUP", Value: "1"},
				{Name: "DXVK_ENABLE_NVAPI", Value: "1"},
				{Name: "PROTON_ENABLE_NVAPI", Value: "1"},
			}
		},
	},
	discovery.VendorAMD: {
		env: func(paths Paths) []EnvVar {
			return []EnvVar{
				{Name: "RADV_PERFTEST", Value: "gpl"},
				{Name: "AMD_VULKAN_ICD", Value: "RADV"},
				{Name: "mesa_glthread", Value: "true"},
			}
		},
	},
	discovery.VendorUnknown: {
		env: func(paths Paths) []EnvVar {
			return []EnvVar{
				{Name: "mesa_glthread", Value: "true"},
				{Name: "MESA_SHADER_CACHE_MAX_SIZE", Value: "1G"},
			}
		},
	},
}

// The registry values applied to every profile: audio sample format, mouse capture and window management
var baseRegistry = []RegistryEntry{
	stringEntry(keyDirectSound, "DefaultSampleRate", "48000"),
	stringEntry(keyDirectSound, "DefaultBitsPerSample", "16"),
	stringEntry(keyDirectInput, "MouseWarpOverride", "force"),
	stringEntry(keyX11Driver, "Decorated", "Y"),
	stringEntry(keyX11Driver, "Managed", "Y"),
	stringEntry(keyX11Driver, "UseTakeFocus", "N"),
	stringEntry(keyX11Driver, "GrabFullscreen", "Y"),
}

// The registry values applied under Wayland
var waylandRegistry = []RegistryEntry{
	stringEntry(keyWaylandDriver, "Decorated", "Y"),
}

// The compatibility libraries installed for every profile
var baseLibraries = []string{"corefonts", "vcrun2022", "d3dx9", "d3dcompiler_47", "xact"}

// The environment variables exported for every profile
func baseEnv(paths Paths) []EnvVar {
	return []EnvVar{
		{Name: "WINEPREFIX", Value: paths.InstallPath},
		{Name: "WINEARCH", Value: "win64"},
		{Name: "WINEDEBUG", Value: "-all"},
		{Name: "WINEESYNC", Value: "1"},
		{Name: "WINEFSYNC", Value: "1"},
		{Name: "STAGING_SHARED_MEMORY", Value: "1"},
		{Name: "DXVK_LOG_LEVEL", Value: "warn"},
		{Name: "DXVK_STATE_CACHE_PATH", Value: paths.StateCacheDir()},
		{Name: "VKD3D_SHADER_CACHE_PATH", Value: paths.ShaderCacheDir()},
		{Name: "__GL_SHADER_DISK_CACHE", Value: "1"},
	}
}

// The environment variables exported under Wayland
func waylandEnv() []EnvVar {
	return []EnvVar{
		{Name: "SDL_VIDEODRIVER", Value: "wayland,x11"},
		{Name: "GDK_BACKEND", Value: "wayland,x11"},
		{Name: "QT_QPA_PLATFORM", Value: "wayland;xcb"},
	}
}
