//go:build linux

package wine

import (
	"context"
	"strings"

	"github.com/hashicorp/go-version"
	"github.com/pkg/errors"

	"github.com/tensorworks/wine-gaming-setup/internal/dependency"
	"github.com/tensorworks/wine-gaming-setup/internal/runner"
)

// Builds command lines for programs that run inside the compatibility runtime, either from the host
// (native) or inside the runtime's Flatpak sandbox
type Runtime struct {

	// How the runtime is installed
	Form dependency.Form

	// The prefix that commands operate on
	Prefix string

	// Additional host directories the sandbox needs access to (e.g. the download cache)
	SharedDirs []string
}

func NewRuntime(form dependency.Form, prefix string, sharedDirs ...string) Runtime {
	return Runtime{Form: form, Prefix: prefix, SharedDirs: sharedDirs}
}

// The environment every runtime command receives. Without a prefix the runtime falls back to its own default.
func (rt Runtime) prefixEnv() []string {
	if rt.Prefix == "" {
		return []string{}
	}

	return []string{"WINEPREFIX=" + rt.Prefix, "WINEARCH=win64"}
}

// Builds a command that runs the specified program against the prefix, with extra KEY=VALUE variables
func (rt Runtime) Command(program string, env []string, args ...string) runner.Command {
	env = append(rt.prefixEnv(), env...)

	// Native programs simply inherit the variables
	if rt.Form != dependency.FormSandboxed {
		return runner.Command{Name: program, Args: args, Env: env}
	}

	// Sandboxed programs need filesystem access and explicit variables
	flatpakArgs := []string{"run"}
	if rt.Prefix != "" {
		flatpakArgs = append(flatpakArgs, "--filesystem="+rt.Prefix)
	}
	for _, dir := range rt.SharedDirs {
		flatpakArgs = append(flatpakArgs, "--filesystem="+dir)
	}
	for _, variable := range env {
		flatpakArgs = append(flatpakArgs, "--env="+variable)
	}
	flatpakArgs = append(flatpakArgs, "--command="+program, dependency.FlatpakRuntimeApp)
	flatpakArgs = append(flatpakArgs, args...)

	return runner.Command{Name: "flatpak", Args: flatpakArgs}
}

// Builds a command that runs the runtime's loader with the specified arguments
func (rt Runtime) Wine(args ...string) runner.Command {
	return rt.Command("wine", nil, args...)
}

// Returns the shell text that invokes a runtime program from a generated script. The script is
// expected to have exported WINEPREFIX before running it.
func (rt Runtime) ShellCommand(program string) string {
	if rt.Form != dependency.FormSandboxed {
		return program
	}

	return strings.Join([]string{
		"flatpak", "run",
		`--filesystem="$WINEPREFIX"`,
		`--env=WINEPREFIX="$WINEPREFIX"`,
		"--command=" + program,
		dependency.FlatpakRuntimeApp,
	}, " ")
}

// Queries the runtime's version string (e.g. "wine-9.0 (Staging)")
func (rt Runtime) Version(ctx context.Context, r runner.Runner) (string, error) {
	output, err := r.Output(ctx, rt.Wine("--version"))
	if err != nil {
		return "", errors.Wrap(err, "failed to query the runtime version")
	}

	reported := strings.TrimSpace(string(output))
	if reported == "" {
		return "", errors.New("the runtime reported an empty version string")
	}

	return reported, nil
}

// Extracts the version number from a runtime version string such as "wine-9.0 (Staging)"
func ParseVersion(reported string) (*version.Version, error) {
	fields := strings.Fields(reported)
	if len(fields) == 0 {
		return nil, errors.New("empty runtime version string")
	}

	number := strings.TrimPrefix(fields[0], "wine-")
	parsed, err := version.NewVersion(number)
	if err != nil {
		return nil, errors.Wrapf(err, "unrecognised runtime version %q", reported)
	}

	return parsed, nil
}

// Reports whether the runtime version meets the minimum
func MeetsMinimum(reported string, minimum string) (bool, error) {
	current, err := ParseVersion(reported)
	if err != nil {
		return false, err
	}

	required, err := version.NewVersion(minimum)
	if err != nil {
		return false, errors.Wrapf(err, "invalid minimum runtime version %q", minimum)
	}

	return current.GreaterThanOrEqual(required), nil
}
