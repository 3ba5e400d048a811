//go:build linux

package installer

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/tensorworks/wine-gaming-setup/internal/dependency"
	"github.com/tensorworks/wine-gaming-setup/internal/discovery"
	"github.com/tensorworks/wine-gaming-setup/internal/materialize"
	"github.com/tensorworks/wine-gaming-setup/internal/profile"
	"github.com/tensorworks/wine-gaming-setup/internal/runner"
	"github.com/tensorworks/wine-gaming-setup/internal/scripts"
	"github.com/tensorworks/wine-gaming-setup/internal/verify"
	"github.com/tensorworks/wine-gaming-setup/internal/wine"
)

// Returned when the runtime fails to create the prefix
var ErrRuntimeInit = errors.New("compatibility runtime initialization failed")

// The file the runtime writes once the prefix's registry has been created
const prefixReadyFile = "system.reg"

// The options that control an installation
type Options struct {

	// The install path, which becomes the prefix root
	InstallPath string

	// The directory that release archives are cached and extracted in
	CacheDir string

	// Treat registry import, library install and translation-layer failures as fatal
	FailOnInstallError bool

	// The upper bound on prefix initialization
	PrefixInitTimeout time.Duration

	// The free disk space below which a warning is logged
	MinimumFreeDiskMB uint64

	// The runtime version below which verification reports a warning
	MinimumRuntimeVersion string

	// Compatibility libraries to install in addition to the profile's list
	ExtraLibraries []string

	// The Direct3D 9/10/11 translation layer
	FirstLayer TranslationLayer

	// The Direct3D 12 translation layer
	SecondLayer TranslationLayer
}

// Describes the outcome of an installation
type Summary struct {
	InstallPath  string
	BackupPath   string
	Profile      profile.ConfigProfile
	Runtime      wine.Runtime
	Files        []string
	Warnings     []string
	Verification verify.Report
}

// Drives the external tools that build and populate the prefix
type Orchestrator struct {
	runner  runner.Runner
	logger  *zap.SugaredLogger
	options Options

	// Host accessors, replaced in tests
	now         func() time.Time
	freeDiskMB  func(string) (uint64, error)
	waitForFile func(context.Context, string, time.Duration) error
}

// The prefix initialization bound used when none is configured
const defaultPrefixInitTimeout = 60 * time.Second

func NewOrchestrator(r runner.Runner, logger *zap.SugaredLogger, options Options) *Orchestrator {
	if options.PrefixInitTimeout <= 0 {
		options.PrefixInitTimeout = defaultPrefixInitTimeout
	}

	return &Orchestrator{
		runner:      r,
		logger:      logger,
		options:     options,
		now:         time.Now,
		freeDiskMB:  FreeDiskMB,
		waitForFile: WaitForFile,
	}
}

// Performs a complete installation for the host. The dependency report must be ready.
// Returns an error only for fatal failures: the summary lists the degraded steps.
func (o *Orchestrator) Install(ctx context.Context, host discovery.HostProfile, deps dependency.Report) (*Summary, error) {

	// Refuse to touch the install path unless the mandatory dependencies are present
	if !deps.Ready() {
		return nil, errors.Wrapf(dependency.ErrMissingDependency, "%v", deps.Missing)
	}

	paths := profile.Paths{InstallPath: o.options.InstallPath}
	rt := wine.NewRuntime(deps.Runtime, paths.InstallPath, o.options.CacheDir)
	summary := &Summary{InstallPath: paths.InstallPath, Runtime: rt}

	// Warn if the target filesystem looks too small
	o.checkFreeSpace(summary)

	// Move any prior installation out of the way
	backup, err := materialize.BackupExisting(paths.InstallPath, o.now())
	if err != nil {
		return summary, err
	}
	if backup != "" {
		summary.BackupPath = backup
		o.logger.Infow("Backed up the existing installation", "from", paths.InstallPath, "to", backup)
	}

	// Create the prefix
	if err := o.initPrefix(ctx, rt); err != nil {
		return summary, err
	}

	// Select and materialize the configuration profile
	config := profile.Select(host, paths)
	if skipped := config.AddLibraries(o.options.ExtraLibraries); len(skipped) > 0 {
		o.logger.Debugw("Ignored duplicate extra libraries", "libraries", skipped)
	}
	for _, ignored := range config.IgnoredEnvVars {
		o.logger.Warnw("Ignored a conflicting environment variable", "name", ignored.Name, "value", ignored.Value)
	}
	summary.Profile = config

	result, err := materialize.NewMaterializer(o.logger).Materialize(config, paths)
	if err != nil {
		return summary, err
	}
	summary.Files = append(summary.Files, result.EnvFile)
	if result.DXVKConfigFile != "" {
		summary.Files = append(summary.Files, result.DXVKConfigFile)
	}

	// Import the registry overrides
	err = o.importRegistry(ctx, rt, result)
	if fatal := o.stepFailed(summary, "registry import", err); fatal != nil {
		return summary, fatal
	}

	// Install the compatibility libraries
	helper := wine.NewRuntime(deps.PackageHelper, paths.InstallPath)
	if deps.PackageHelper == dependency.FormMissing {
		o.warn(summary, "winetricks is not installed, skipping compatibility library installation")
	} else {
		err = o.installLibraries(ctx, helper, config.Libraries)
		if fatal := o.stepFailed(summary, "library installation", err); fatal != nil {
			return summary, fatal
		}
	}

	// Install the translation layers
	fetcher := NewLayerFetcher(o.runner, o.logger, o.options.CacheDir)
	err = o.installLayer(ctx, rt, fetcher, o.options.FirstLayer)
	if fatal := o.stepFailed(summary, o.options.FirstLayer.Name+" installation", err); fatal != nil {
		return summary, fatal
	}
	if config.InstallSecondLayer {
		err = o.installLayer(ctx, rt, fetcher, o.options.SecondLayer)
		if fatal := o.stepFailed(summary, o.options.SecondLayer.Name+" installation", err); fatal != nil {
			return summary, fatal
		}
	} else {
		o.warn(summary, "Skipping "+o.options.SecondLayer.Name+": "+config.SecondLayerSkipReason)
	}

	// Generate the helper scripts
	if deps.PackageHelper == dependency.FormMissing {
		helper = rt
	}
	written, err := scripts.NewGenerator(o.logger).Generate(paths, rt, helper)
	if err != nil {
		return summary, err
	}
	summary.Files = append(summary.Files, written...)

	// Smoke-test the result
	summary.Verification = verify.NewVerifier(o.runner, o.logger).Verify(ctx, verify.Target{
		Paths:                 paths,
		Profile:               config,
		Host:                  host,
		Runtime:               rt,
		MinimumRuntimeVersion: o.options.MinimumRuntimeVersion,
		Scripts:               written,
	})

	return summary, nil
}

// Logs a warning and records it in the summary
func (o *Orchestrator) warn(summary *Summary, message string) {
	o.logger.Warn(message)
	summary.Warnings = append(summary.Warnings, message)
}

// Applies the fatal-or-warning policy to a failed install step. Returns nil if the run should continue.
func (o *Orchestrator) stepFailed(summary *Summary, step string, err error) error {
	if err == nil {
		return nil
	}
	if o.options.FailOnInstallError || errors.Is(err, context.Canceled) {
		return errors.Wrapf(err, "%s failed", step)
	}

	o.warn(summary, step+" failed: "+err.Error())
	return nil
}

// Checks the free space on the filesystem that will hold the prefix
func (o *Orchestrator) checkFreeSpace(summary *Summary) {
	if o.options.MinimumFreeDiskMB == 0 {
		return
	}

	free, err := o.freeDiskMB(filepath.Dir(o.options.InstallPath))
	if err != nil {
		o.logger.Warnw("Could not determine free disk space", "error", err)
		return
	}
	if free < o.options.MinimumFreeDiskMB {
		o.warn(summary, "Low disk space: the prefix and translation-layer caches may not fit")
		o.logger.Debugw("Free disk space", "freeMB", free, "minimumMB", o.options.MinimumFreeDiskMB)
	}
}

// Creates and boots a fresh prefix. Any failure here is fatal.
func (o *Orchestrator) initPrefix(ctx context.Context, rt wine.Runtime) error {
	if err := os.MkdirAll(rt.Prefix, 0755); err != nil {
		return errors.Wrapf(err, "failed to create %s", rt.Prefix)
	}

	ctx, cancel := context.WithTimeout(ctx, o.options.PrefixInitTimeout)
	defer cancel()

	// Boot the prefix without prompting for the Mono and Gecko installers
	o.logger.Infow("Initializing the prefix", "path", rt.Prefix, "runtime", rt.Form)
	boot := rt.Command("wine", []string{"WINEDLLOVERRIDES=mscoree,mshtml="}, "wineboot", "--init")
	if err := o.runner.Run(ctx, boot); err != nil {
		return errors.Wrapf(ErrRuntimeInit, "wineboot: %v", err)
	}

	// Wait for the registry to be written, then for the wineserver to flush it
	if err := o.waitForFile(ctx, filepath.Join(rt.Prefix, prefixReadyFile), o.options.PrefixInitTimeout); err != nil {
		return errors.Wrapf(ErrRuntimeInit, "%v", err)
	}
	if err := o.runner.Run(ctx, rt.Command("wineserver", nil, "-w")); err != nil {
		return errors.Wrapf(ErrRuntimeInit, "wineserver: %v", err)
	}

	o.logger.Info("✅ Prefix initialized")
	return nil
}

// Imports the generated registry file and removes it afterwards
func (o *Orchestrator) importRegistry(ctx context.Context, rt wine.Runtime, result *materialize.Result) error {
	defer func() {
		if err := result.Cleanup(); err != nil {
			o.logger.Warnw("Failed to remove the registry import file", "error", err)
		}
	}()

	if err := o.runner.Run(ctx, rt.Wine("regedit", "/S", result.RegistryFile)); err != nil {
		return err
	}
	if err := o.runner.Run(ctx, rt.Command("wineserver", nil, "-w")); err != nil {
		return err
	}

	o.logger.Info("✅ Imported registry overrides")
	return nil
}

// Installs the compatibility libraries through the package helper
func (o *Orchestrator) installLibraries(ctx context.Context, helper wine.Runtime, libraries []string) error {
	if len(libraries) == 0 {
		return nil
	}

	o.logger.Infow("Installing compatibility libraries", "libraries", libraries)
	if err := o.runner.Run(ctx, helper.Command("winetricks", nil, append([]string{"-q"}, libraries...)...)); err != nil {
		return err
	}

	o.logger.Info("✅ Installed compatibility libraries")
	return nil
}

// Fetches a translation layer and runs its bundled setup script against the prefix
func (o *Orchestrator) installLayer(ctx context.Context, rt wine.Runtime, fetcher *LayerFetcher, layer TranslationLayer) error {
	script, err := fetcher.Prepare(ctx, layer)
	if err != nil {
		return err
	}

	o.logger.Infow("Installing translation layer", "layer", layer.String())
	if err := o.runner.Run(ctx, rt.Command("bash", nil, script, "install")); err != nil {
		return err
	}

	o.logger.Infow("✅ Installed translation layer", "layer", layer.String())
	return nil
}
