//go:build linux

package setup

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/tensorworks/wine-gaming-setup/internal/installer"
	"github.com/tensorworks/wine-gaming-setup/internal/runner"
)

// Points every directory the configuration depends on at a temporary location
func isolateEnvironment(t *testing.T) string {
	root := t.TempDir()
	t.Setenv("HOME", root)
	t.Setenv("XDG_CACHE_HOME", filepath.Join(root, "cache"))
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(root, "config"))
	t.Setenv("NO_COLOR", "1")
	return root
}

func TestLoadConfigDefaults(t *testing.T) {
	root := isolateEnvironment(t)

	config, err := LoadConfig("", zap.NewNop().Sugar())
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(root, ".wine_gaming"), config.InstallPath)
	assert.Equal(t, filepath.Join(root, "cache", "wine-gaming-setup"), config.CacheDir)
	assert.False(t, config.Verbose)
	assert.False(t, config.FailOnInstallError)
	assert.Equal(t, 60*time.Second, config.PrefixInitTimeout)
	assert.Equal(t, "7.0", config.MinimumRuntimeVersion)
	assert.Equal(t, uint64(4096), config.MinimumFreeDiskMB)
	assert.Empty(t, config.ExtraLibraries)
	assert.Equal(t, installer.DefaultDXVK, config.DXVK)
	assert.Equal(t, installer.DefaultVKD3DProton, config.VKD3D)
}

func TestLoadConfigEnvironmentAndArgument(t *testing.T) {
	root := isolateEnvironment(t)
	t.Setenv("WINE_GAMING_SETUP_INSTALL_PATH", "~/games/env-prefix")
	t.Setenv("WINE_GAMING_SETUP_FAIL_ON_INSTALL_ERROR", "true")
	t.Setenv("WINE_GAMING_SETUP_PREFIX_INIT_TIMEOUT", "90s")
	t.Setenv("WINE_GAMING_SETUP_EXTRA_LIBRARIES", "dotnet48,vcrun2019")
	t.Setenv("WINE_GAMING_SETUP_DXVK_VERSION", "2.3")

	config, err := LoadConfig("", zap.NewNop().Sugar())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "games", "env-prefix"), config.InstallPath)
	assert.True(t, config.FailOnInstallError)
	assert.Equal(t, 90*time.Second, config.PrefixInitTimeout)
	assert.Equal(t, []string{"dotnet48", "vcrun2019"}, config.ExtraLibraries)
	assert.Equal(t, "2.3", config.DXVK.Version)

	// The positional argument wins over the environment
	arg := filepath.Join(root, "from-argument")
	config, err = LoadConfig(arg, zap.NewNop().Sugar())
	require.NoError(t, err)
	assert.Equal(t, arg, config.InstallPath)
}

func TestLoadConfigFile(t *testing.T) {
	root := isolateEnvironment(t)
	configFile := filepath.Join(root, "custom.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte(
		"verbose: true\n"+
			"minimumFreeDiskMB: 1024\n"+
			"extraLibraries:\n  - dotnet48\n"+
			"vkd3d:\n  version: \"2.9\"\n  url: https://example.invalid/vkd3d-proton-2.9.tar.zst\n",
	), 0644))
	t.Setenv("WINE_GAMING_SETUP_CONFIG_FILE", configFile)

	config, err := LoadConfig("", zap.NewNop().Sugar())
	require.NoError(t, err)
	assert.True(t, config.Verbose)
	assert.Equal(t, uint64(1024), config.MinimumFreeDiskMB)
	assert.Equal(t, []string{"dotnet48"}, config.ExtraLibraries)
	assert.Equal(t, "2.9", config.VKD3D.Version)
	assert.Equal(t, "vkd3d-proton", config.VKD3D.Name)
	assert.Equal(t, "setup_vkd3d_proton.sh", config.VKD3D.SetupScript)
}

func TestLoadConfigRejectsBadConfigFile(t *testing.T) {
	root := isolateEnvironment(t)

	t.Setenv("WINE_GAMING_SETUP_CONFIG_FILE", "relative.yaml")
	_, err := LoadConfig("", zap.NewNop().Sugar())
	assert.Error(t, err)

	t.Setenv("WINE_GAMING_SETUP_CONFIG_FILE", filepath.Join(root, "missing.yaml"))
	_, err = LoadConfig("", zap.NewNop().Sugar())
	assert.Error(t, err)
}

func TestLoggerTagsLevels(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	out := &bytes.Buffer{}
	logger, level := NewLogger(out)

	logger.Debug("hidden")
	logger.Info("shown")
	logger.Warn("careful")
	logger.Error("broken")
	assert.NotContains(t, out.String(), "hidden")
	assert.Contains(t, out.String(), "ℹ️  INFO\tshown")
	assert.Contains(t, out.String(), "⚠️  WARN\tcareful")
	assert.Contains(t, out.String(), "❌ ERROR\tbroken")

	level.SetLevel(zapcore.DebugLevel)
	logger.Debug("visible")
	assert.Contains(t, out.String(), "🔍 DEBUG\tvisible")
}

func TestRunHelpAndVersion(t *testing.T) {
	isolateEnvironment(t)
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}

	assert.Equal(t, ExitOK, run([]string{"--version"}, runner.NewFakeRunner(), stdout, stderr))
	assert.Equal(t, "wine-gaming-setup "+Version+"\n", stdout.String())

	assert.Equal(t, ExitOK, run([]string{"--help"}, runner.NewFakeRunner(), stdout, stderr))
	assert.Contains(t, stderr.String(), "Usage: wine-gaming-setup [install-path]")
}

func TestRunUsageErrors(t *testing.T) {
	isolateEnvironment(t)
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}

	assert.Equal(t, ExitUsage, run([]string{"one", "two"}, runner.NewFakeRunner(), stdout, stderr))
	assert.Equal(t, ExitUsage, run([]string{"--bogus"}, runner.NewFakeRunner(), stdout, stderr))
}

func TestRunMissingToolWritesNothing(t *testing.T) {
	root := isolateEnvironment(t)
	installPath := filepath.Join(root, "prefix")
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}

	// Everything except the archive tool is present
	r := runner.NewFakeRunner("wine", "wineserver", "winetricks", "wget", "lspci", "apt-get")
	code := run([]string{installPath}, r, stdout, stderr)

	assert.Equal(t, ExitFatal, code)
	assert.NoDirExists(t, installPath)
	assert.Contains(t, stderr.String(), "tar")
	assert.Contains(t, stderr.String(), "apt-get install")
	assert.False(t, r.Ran("wineboot"))
}

func TestRunRuntimeInitFailure(t *testing.T) {
	root := isolateEnvironment(t)
	installPath := filepath.Join(root, "prefix")
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}

	r := runner.NewFakeRunner("wine", "wineserver", "winetricks", "wget", "tar", "lspci").
		Respond("wine wineboot --init", "", assert.AnError)
	code := run([]string{installPath}, r, stdout, stderr)

	assert.Equal(t, ExitFatal, code)
	assert.Contains(t, stderr.String(), "initialization failed")
	assert.NoFileExists(t, filepath.Join(installPath, "wine_gaming_env.sh"))
}
