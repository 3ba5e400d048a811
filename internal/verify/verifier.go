//go:build linux

package verify

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/sys/unix"

	"github.com/tensorworks/wine-gaming-setup/internal/discovery"
	"github.com/tensorworks/wine-gaming-setup/internal/profile"
	"github.com/tensorworks/wine-gaming-setup/internal/runner"
	"github.com/tensorworks/wine-gaming-setup/internal/wine"
)

// The translation layer's core library, which must exist in the prefix's system directory after installation
const coreLibrary = "d3d11.dll"

// Describes the installation being verified
type Target struct {
	Paths                 profile.Paths
	Profile               profile.ConfigProfile
	Host                  discovery.HostProfile
	Runtime               wine.Runtime
	MinimumRuntimeVersion string
	Scripts               []string
}

// Performs post-install smoke tests. Failed checks are logged as warnings and never abort the run.
type Verifier struct {
	runner runner.Runner
	logger *zap.SugaredLogger
}

func NewVerifier(r runner.Runner, logger *zap.SugaredLogger) *Verifier {
	return &Verifier{runner: r, logger: logger}
}

// Runs every check against the target
func (v *Verifier) Verify(ctx context.Context, target Target) Report {
	report := Report{}

	v.checkRuntimeVersion(ctx, target, &report)
	v.checkCoreLibrary(target, &report)
	v.checkEnvFile(target, &report)
	v.checkScripts(target, &report)

	// Only profiles with a translation-layer configuration get the file
	if target.Profile.TranslationLayerConfigPath != "" {
		_, err := os.Stat(target.Profile.TranslationLayerConfigPath)
		report.add("translation-layer configuration present", err == nil, target.Profile.TranslationLayerConfigPath)
	}

	v.checkVendor(ctx, target, &report)

	// Log the outcome of each check
	for _, check := range report.Checks {
		if check.Passed {
			v.logger.Infow("✅ "+check.Name, "detail", check.Detail)
		} else {
			v.logger.Warnw("Verification check failed: "+check.Name, "detail", check.Detail)
		}
	}

	return report
}

// Confirms that the runtime reports a version string that meets the minimum
func (v *Verifier) checkRuntimeVersion(ctx context.Context, target Target, report *Report) {
	reported, err := target.Runtime.Version(ctx, v.runner)
	if err != nil {
		report.add("runtime reports a version", false, err.Error())
		return
	}
	report.add("runtime reports a version", true, reported)

	if target.MinimumRuntimeVersion == "" {
		return
	}

	meets, err := wine.MeetsMinimum(reported, target.MinimumRuntimeVersion)
	switch {
	case err != nil:
		report.add("runtime version is supported", false, err.Error())
	case !meets:
		report.add("runtime version is supported", false, fmt.Sprintf("%s is older than %s", reported, target.MinimumRuntimeVersion))
	default:
		report.add("runtime version is supported", true, reported)
	}
}

// Confirms that the first translation layer installed its core library
func (v *Verifier) checkCoreLibrary(target Target, report *Report) {
	path := filepath.Join(target.Paths.System32Dir(), coreLibrary)
	_, err := os.Stat(path)
	report.add("translation layer library present", err == nil, path)
}

// Re-reads the environment file and confirms it points at the prefix
func (v *Verifier) checkEnvFile(target Target, report *Report) {
	values, err := godotenv.Read(target.Paths.EnvFile())
	if err != nil {
		report.add("environment file is readable", false, err.Error())
		return
	}
	report.add("environment file is readable", true, target.Paths.EnvFile())

	prefix := values["WINEPREFIX"]
	report.add("environment file sets WINEPREFIX", prefix == target.Paths.InstallPath, prefix)
}

// Confirms that each helper script is executable
func (v *Verifier) checkScripts(target Target, report *Report) {
	for _, script := range target.Scripts {
		err := unix.Access(script, unix.X_OK)
		detail := script
		if err != nil {
			detail = fmt.Sprintf("%s: %v", script, err)
		}
		report.add(filepath.Base(script)+" is executable", err == nil, detail)
	}
}

// Repeats the vendor-specific driver checks as informational diagnostics
func (v *Verifier) checkVendor(ctx context.Context, target Target, report *Report) {

	// Driver packages
	statuses, err := discovery.DriverPackages(ctx, v.runner, target.Host.GPUVendor)
	if err != nil {
		v.logger.Debugw("Skipping the driver package check", "error", err)
	} else {
		missing := []string{}
		for _, status := range statuses {
			if !status.Installed {
				missing = append(missing, status.Name)
			}
		}
		report.add("vendor driver packages installed", len(missing) == 0, strings.Join(missing, ", "))
	}

	// The Vulkan driver match is only meaningful when the query tool was present and a vendor was identified
	if target.Host.GraphicsAPIToolPresent && target.Host.GPUVendor != discovery.VendorUnknown {
		report.add(
			"Vulkan driver matches the GPU vendor",
			target.Host.GraphicsAPIAvailable && target.Host.GraphicsAPIVendorMatch,
			target.Host.GPUVendor.String(),
		)
	}
}
