//go:build linux

package installer

import (
	"fmt"
	"path"
	"path/filepath"

	"github.com/pkg/errors"
)

// Represents a graphics translation layer that is installed into the prefix from a version-pinned release archive
type TranslationLayer struct {

	// The short name of the layer (e.g. "dxvk")
	Name string `mapstructure:"name"`

	// The pinned release version
	Version string `mapstructure:"version"`

	// The download URL of the release archive
	URL string `mapstructure:"url"`

	// The filename of the setup script bundled in the archive
	SetupScript string `mapstructure:"setupScript"`
}

// The Direct3D 9/10/11 translation layer
var DefaultDXVK = TranslationLayer{
	Name:        "dxvk",
	Version:     "1.10.3",
	URL:         "https://github.com/doitsujin/dxvk/releases/download/v1.10.3/dxvk-1.10.3.tar.gz",
	SetupScript: "setup_dxvk.sh",
}

// The Direct3D 12 translation layer
var DefaultVKD3DProton = TranslationLayer{
	Name:        "vkd3d-proton",
	Version:     "2.8",
	URL:         "https://github.com/HansKristian-Work/vkd3d-proton/releases/download/v2.8/vkd3d-proton-2.8.tar.zst",
	SetupScript: "setup_vkd3d_proton.sh",
}

// The filename of the release archive
func (l TranslationLayer) ArchiveName() string {
	return path.Base(l.URL)
}

// The directory the archive is extracted to
func (l TranslationLayer) ExtractDir(cacheDir string) string {
	return filepath.Join(cacheDir, fmt.Sprintf("%s-%s", l.Name, l.Version))
}

// Validates that all fields are populated
func (l TranslationLayer) Validate() error {
	if l.Name == "" || l.Version == "" || l.URL == "" || l.SetupScript == "" {
		return errors.Errorf("translation layer %q is missing a name, version, URL or setup script", l.Name)
	}
	if filepath.Base(l.SetupScript) != l.SetupScript {
		return errors.Errorf("setup script for translation layer %q must be a filename, not a path", l.Name)
	}

	return nil
}

func (l TranslationLayer) String() string {
	return l.Name + " " + l.Version
}
