//go:build linux

package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"go.uber.org/zap/zapcore"

	"github.com/tensorworks/wine-gaming-setup/internal/discovery"
	"github.com/tensorworks/wine-gaming-setup/internal/profile"
	"github.com/tensorworks/wine-gaming-setup/internal/runner"
	"github.com/tensorworks/wine-gaming-setup/internal/setup"
)

func main() {

	// Parse our command-line arguments
	verbose := pflag.Bool("verbose", false, "enable verbose logging")
	installPath := pflag.String("install-path", "~/.wine_gaming", "the install path used when previewing the selected profile")
	pflag.Parse()

	// Create the logger, enabling debug output if it has been requested
	logger, level := setup.NewLogger(os.Stderr)
	if *verbose {
		level.SetLevel(zapcore.DebugLevel)
	}
	sugar := logger.Sugar()
	defer sugar.Sync()

	// Probe the host
	r := runner.NewExecRunner(os.Stderr, os.Stderr)
	probe := discovery.NewHostProbe(r, sugar)
	host := probe.Probe(context.Background())

	// Print the host details
	fmt.Print("[Host profile]\n\n")
	fmt.Println("GPU vendor:           ", host.GPUVendor)
	fmt.Println("GPU model:            ", host.GPUModel)
	fmt.Println("CPU cores:            ", host.CPUCores)
	fmt.Println("Available RAM (MB):   ", host.AvailableRAMMB)
	fmt.Println("Kernel version:       ", host.KernelVersion)
	fmt.Println("Wayland session:      ", host.IsWayland)
	fmt.Println("vulkaninfo present:   ", host.GraphicsAPIToolPresent)
	fmt.Println("Vulkan available:     ", host.GraphicsAPIAvailable)
	fmt.Println("Vulkan vendor match:  ", host.GraphicsAPIVendorMatch)

	// Print the driver package states
	statuses, err := discovery.DriverPackages(context.Background(), r, host.GPUVendor)
	if err != nil {
		fmt.Print("\nDriver packages could not be checked: ", err, "\n")
	} else {
		fmt.Print("\n", len(statuses), " expected driver packages:\n")
		for _, status := range statuses {
			fmt.Println("   ", status.Name, "=>", map[bool]string{true: "installed", false: "missing"}[status.Installed])
		}
	}

	// Preview the profile that would be selected, without writing anything
	path := *installPath
	if home, err := os.UserHomeDir(); err == nil && strings.HasPrefix(path, "~/") {
		path = home + path[1:]
	}
	config := profile.Select(host, profile.Paths{InstallPath: path})

	fmt.Print("\n[Selected profile]\n\n")
	fmt.Println("Compiler threads:     ", config.CompilerThreads)
	fmt.Println("Libraries:            ", strings.Join(config.Libraries, " "))
	if config.InstallSecondLayer {
		fmt.Println("Direct3D 12 layer:     install")
	} else {
		fmt.Println("Direct3D 12 layer:     skip (" + config.SecondLayerSkipReason + ")")
	}

	fmt.Print("\n", len(config.RegistryEntries), " registry values:\n")
	for _, entry := range config.RegistryEntries {
		fmt.Println("   ", entry.Key+`\`+entry.Name)
	}

	fmt.Print("\n", len(config.EnvVars), " environment variables:\n")
	for _, v := range config.EnvVars {
		fmt.Println("   ", v.Name+"="+v.Value)
	}

	if len(config.DXVKConfig) > 0 {
		fmt.Print("\n", len(config.DXVKConfig), " translation-layer options:\n")
		for _, option := range config.DXVKConfig {
			fmt.Println("   ", option.Key, "=", option.Value)
		}
	}
}
