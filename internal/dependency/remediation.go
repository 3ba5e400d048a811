//go:build linux

package dependency

import (
	"strings"

	"github.com/tensorworks/wine-gaming-setup/internal/runner"
)

// A host package manager and the package that provides each tool under it
type packageManager struct {
	binary   string
	install  string
	packages map[string]string
}

// The package managers we know how to suggest commands for, in detection order
var packageManagers = []packageManager{
	{
		binary:  "apt-get",
		install: "sudo apt-get install",
		packages: map[string]string{
			"wine":       "wine",
			"wineserver": "wine",
			"winetricks": "winetricks",
			"wget":       "wget",
			"tar":        "tar",
			"lspci":      "pciutils",
		},
	},
	{
		binary:  "dnf",
		install: "sudo dnf install",
		packages: map[string]string{
			"wine":       "wine",
			"wineserver": "wine-core",
			"winetricks": "winetricks",
			"wget":       "wget",
			"tar":        "tar",
			"lspci":      "pciutils",
		},
	},
	{
		binary:  "pacman",
		install: "sudo pacman -S",
		packages: map[string]string{
			"wine":       "wine",
			"wineserver": "wine",
			"winetricks": "winetricks",
			"wget":       "wget",
			"tar":        "tar",
			"lspci":      "pciutils",
		},
	},
	{
		binary:  "zypper",
		install: "sudo zypper install",
		packages: map[string]string{
			"wine":       "wine",
			"wineserver": "wine",
			"winetricks": "winetricks",
			"wget":       "wget",
			"tar":        "tar",
			"lspci":      "pciutils",
		},
	},
}

// Builds an install command for the missing tools using the first package manager found on the host
func RemediationHint(r runner.Runner, missing []string) string {
	for _, manager := range packageManagers {
		if _, err := r.LookPath(manager.binary); err != nil {
			continue
		}

		// Map each tool to its package, preserving order and skipping duplicates
		packages := []string{}
		seen := make(map[string]bool)
		for _, tool := range missing {
			pkg, known := manager.packages[tool]
			if !known {
				pkg = tool
			}
			if !seen[pkg] {
				seen[pkg] = true
				packages = append(packages, pkg)
			}
		}

		return manager.install + " " + strings.Join(packages, " ")
	}

	return "your distribution's package manager (" + strings.Join(missing, ", ") + ")"
}
