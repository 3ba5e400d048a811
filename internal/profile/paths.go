//go:build linux

package profile

import "path/filepath"

// The names of the files generated inside the install path
const (
	EnvFileName        = "wine_gaming_env.sh"
	DXVKConfigFileName = "dxvk.conf"
)

// The locations that profile values refer to
type Paths struct {

	// The install path, which is also the prefix root
	InstallPath string
}

// The shell-sourceable environment file
func (p Paths) EnvFile() string {
	return filepath.Join(p.InstallPath, EnvFileName)
}

// The translation-layer configuration file (only generated for Intel profiles)
func (p Paths) DXVKConfigFile() string {
	return filepath.Join(p.InstallPath, DXVKConfigFileName)
}

// The DXVK pipeline state cache directory
func (p Paths) StateCacheDir() string {
	return filepath.Join(p.InstallPath, "cache", "dxvk")
}

// The vkd3d-proton shader cache directory
func (p Paths) ShaderCacheDir() string {
	return filepath.Join(p.InstallPath, "cache", "vkd3d")
}

// The prefix's 64-bit system directory, where the translation layers install their libraries
func (p Paths) System32Dir() string {
	return filepath.Join(p.InstallPath, "drive_c", "windows", "system32")
}
