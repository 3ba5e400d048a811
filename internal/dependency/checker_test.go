//go:build linux

package dependency

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/tensorworks/wine-gaming-setup/internal/runner"
)

func newTestChecker(r runner.Runner) (*Checker, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return NewChecker(r, zap.New(core).Sugar()), logs
}

func TestCheckNativeReady(t *testing.T) {
	r := runner.NewFakeRunner("wine", "wineserver", "winetricks", "wget", "tar", "lspci")
	checker, logs := newTestChecker(r)

	report, err := checker.Check(context.Background())
	require.NoError(t, err)

	assert.True(t, report.Ready())
	assert.Equal(t, FormNative, report.Runtime)
	assert.Equal(t, FormNative, report.PackageHelper)
	assert.Empty(t, report.Missing)
	for _, tool := range []string{"wine", "wineserver", "winetricks", "wget", "tar", "lspci"} {
		assert.True(t, report.Tools[tool], tool)
	}
	assert.Empty(t, logs.FilterLevelExact(zapcore.WarnLevel).All())
}

func TestCheckSandboxedRuntime(t *testing.T) {
	r := runner.NewFakeRunner("flatpak", "wget", "tar", "lspci")
	checker, _ := newTestChecker(r)

	report, err := checker.Check(context.Background())
	require.NoError(t, err)

	assert.Equal(t, FormSandboxed, report.Runtime)
	assert.Equal(t, FormSandboxed, report.PackageHelper)
	assert.True(t, r.Ran("flatpak info org.winehq.Wine"))
	assert.True(t, r.Ran("flatpak run --command=wineserver org.winehq.Wine --version"))
}

func TestCheckMissingPackageHelperIsWarning(t *testing.T) {
	r := runner.NewFakeRunner("wine", "wineserver", "wget", "tar", "lspci")
	checker, logs := newTestChecker(r)

	report, err := checker.Check(context.Background())
	require.NoError(t, err)

	assert.Equal(t, FormMissing, report.PackageHelper)
	assert.False(t, report.Tools["winetricks"])
	assert.Len(t, logs.FilterLevelExact(zapcore.WarnLevel).All(), 1)
}

func TestCheckMissingArchiveToolIsFatal(t *testing.T) {
	r := runner.NewFakeRunner("wine", "wineserver", "winetricks", "wget", "lspci", "apt-get")
	checker, _ := newTestChecker(r)

	report, err := checker.Check(context.Background())
	require.Error(t, err)

	assert.True(t, errors.Is(err, ErrMissingDependency))
	assert.False(t, report.Ready())
	assert.Equal(t, []string{"tar"}, report.Missing)
	assert.Contains(t, err.Error(), "sudo apt-get install tar")
}

func TestCheckMissingRuntimeIsFatal(t *testing.T) {
	r := runner.NewFakeRunner("flatpak", "wget", "tar", "lspci", "dnf").
		Respond("flatpak info org.winehq.Wine", "", errors.New("app not installed"))
	checker, _ := newTestChecker(r)

	report, err := checker.Check(context.Background())
	require.Error(t, err)

	assert.True(t, errors.Is(err, ErrMissingDependency))
	assert.Equal(t, FormMissing, report.Runtime)
	assert.Equal(t, []string{"wine"}, report.Missing)
	assert.Contains(t, err.Error(), "sudo dnf install wine")
}

func TestCheckMissingCompanion(t *testing.T) {
	r := runner.NewFakeRunner("wine", "wget", "tar", "lspci")
	checker, _ := newTestChecker(r)

	report, err := checker.Check(context.Background())
	require.Error(t, err)
	assert.Equal(t, []string{"wineserver"}, report.Missing)
}

func TestRemediationHint(t *testing.T) {
	r := runner.NewFakeRunner("pacman")
	assert.Equal(t, "sudo pacman -S wine pciutils", RemediationHint(r, []string{"wine", "wineserver", "lspci"}))

	none := runner.NewFakeRunner()
	assert.Equal(t, "your distribution's package manager (tar)", RemediationHint(none, []string{"tar"}))
}
