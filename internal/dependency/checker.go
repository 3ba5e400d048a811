//go:build linux

package dependency

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/tensorworks/wine-gaming-setup/internal/runner"
)

// Returned (wrapped) when a tool that the run cannot proceed without is absent
var ErrMissingDependency = errors.New("missing mandatory dependency")

// The Flatpak application that provides the sandboxed form of the compatibility runtime
const FlatpakRuntimeApp = "org.winehq.Wine"

// The upper bound on each sandbox query, since the first flatpak invocation can be slow
const sandboxQueryTimeout = 60 * time.Second

// How a tool is installed on the host
type Form string

const (
	FormMissing   Form = ""
	FormNative    Form = "native"
	FormSandboxed Form = "flatpak"
)

// An auxiliary tool that must be present regardless of how the runtime is installed
type Tool struct {
	Name    string
	Purpose string
}

// The auxiliary tools required in every installation form
var MandatoryTools = []Tool{
	{Name: "wget", Purpose: "download tool"},
	{Name: "tar", Purpose: "archive tool"},
	{Name: "lspci", Purpose: "PCI lister"},
}

// The companion of the compatibility runtime, checked in the same form as the runtime itself
var CompanionTool = Tool{Name: "wineserver", Purpose: "runtime companion"}

// The outcome of a dependency check
type Report struct {

	// How the compatibility runtime is installed (FormMissing if it is absent entirely)
	Runtime Form

	// How the package helper is installed (FormMissing if it is absent)
	PackageHelper Form

	// The readiness of each required tool, keyed by tool name
	Tools map[string]bool

	// The names of the missing mandatory tools, in check order
	Missing []string
}

// Returns true if every mandatory dependency is satisfied
func (r Report) Ready() bool {
	return r.Runtime != FormMissing && len(r.Missing) == 0
}

// Verifies that the external tools the run depends on are present
type Checker struct {
	runner runner.Runner
	logger *zap.SugaredLogger
}

func NewChecker(r runner.Runner, logger *zap.SugaredLogger) *Checker {
	return &Checker{
		runner: r,
		logger: logger,
	}
}

// Checks every dependency. The returned error wraps ErrMissingDependency and carries a remediation hint
// if any mandatory tool is missing; a missing package helper is only logged as a warning.
func (c *Checker) Check(ctx context.Context) (Report, error) {
	report := Report{Tools: make(map[string]bool)}

	// Locate the compatibility runtime in either form
	report.Runtime = c.runtimeForm(ctx)
	report.Tools["wine"] = report.Runtime != FormMissing
	if report.Runtime == FormMissing {
		report.Missing = append(report.Missing, "wine")
	} else {
		c.logger.Infow("Found the compatibility runtime", "form", report.Runtime)
	}

	// Locate the package helper in either form
	report.PackageHelper = c.packageHelperForm(ctx, report.Runtime)
	report.Tools["winetricks"] = report.PackageHelper != FormMissing
	if report.PackageHelper == FormMissing {
		c.logger.Warn("winetricks not found, compatibility libraries will not be installed")
	} else {
		c.logger.Infow("Found the package helper", "form", report.PackageHelper)
	}

	// Check the auxiliary tools
	for _, tool := range MandatoryTools {
		_, err := c.runner.LookPath(tool.Name)
		report.Tools[tool.Name] = err == nil
		if err != nil {
			report.Missing = append(report.Missing, tool.Name)
			c.logger.Errorw("Missing mandatory tool", "tool", tool.Name, "purpose", tool.Purpose)
		}
	}

	// Check the runtime companion in the same form as the runtime
	if report.Runtime != FormMissing {
		present := c.companionPresent(ctx, report.Runtime)
		report.Tools[CompanionTool.Name] = present
		if !present {
			report.Missing = append(report.Missing, CompanionTool.Name)
			c.logger.Errorw("Missing mandatory tool", "tool", CompanionTool.Name, "purpose", CompanionTool.Purpose)
		}
	}

	if !report.Ready() {
		return report, errors.Wrapf(
			ErrMissingDependency,
			"%s (install with: %s)",
			strings.Join(report.Missing, ", "),
			RemediationHint(c.runner, report.Missing),
		)
	}

	return report, nil
}

// Determines how the compatibility runtime is installed
func (c *Checker) runtimeForm(ctx context.Context) Form {
	if _, err := c.runner.LookPath("wine"); err == nil {
		return FormNative
	}

	if c.sandboxSucceeds(ctx, "info", FlatpakRuntimeApp) {
		return FormSandboxed
	}

	return FormMissing
}

// Determines how the package helper is installed
func (c *Checker) packageHelperForm(ctx context.Context, runtime Form) Form {
	if _, err := c.runner.LookPath("winetricks"); err == nil {
		return FormNative
	}

	if runtime == FormSandboxed && c.sandboxSucceeds(ctx, "run", "--command=winetricks", FlatpakRuntimeApp, "--version") {
		return FormSandboxed
	}

	return FormMissing
}

// Determines whether the runtime companion is usable in the supplied form
func (c *Checker) companionPresent(ctx context.Context, runtime Form) bool {
	if runtime == FormNative {
		_, err := c.runner.LookPath(CompanionTool.Name)
		return err == nil
	}

	return c.sandboxSucceeds(ctx, "run", "--command="+CompanionTool.Name, FlatpakRuntimeApp, "--version")
}

// Runs a flatpak query, returning false if flatpak itself is absent or the query fails
func (c *Checker) sandboxSucceeds(ctx context.Context, args ...string) bool {
	if _, err := c.runner.LookPath("flatpak"); err != nil {
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, sandboxQueryTimeout)
	defer cancel()

	_, err := c.runner.Output(ctx, runner.Command{Name: "flatpak", Args: args})
	if err != nil {
		c.logger.Debugw("Flatpak query failed", "args", args, "error", err)
	}
	return err == nil
}
