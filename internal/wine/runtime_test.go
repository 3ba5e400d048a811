//go:build linux

package wine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tensorworks/wine-gaming-setup/internal/dependency"
	"github.com/tensorworks/wine-gaming-setup/internal/runner"
)

func TestNativeCommand(t *testing.T) {
	rt := NewRuntime(dependency.FormNative, "/games/prefix")
	cmd := rt.Command("wine", []string{"WINEDLLOVERRIDES=mscoree="}, "wineboot", "--init")

	assert.Equal(t, "wine", cmd.Name)
	assert.Equal(t, []string{"wineboot", "--init"}, cmd.Args)
	assert.Equal(t, []string{"WINEPREFIX=/games/prefix", "WINEARCH=win64", "WINEDLLOVERRIDES=mscoree="}, cmd.Env)
	assert.Equal(t, "wineserver", rt.ShellCommand("wineserver"))
}

func TestSandboxedCommand(t *testing.T) {
	rt := NewRuntime(dependency.FormSandboxed, "/games/prefix", "/cache")
	cmd := rt.Command("bash", nil, "/cache/setup_dxvk.sh", "install")

	assert.Equal(t, "flatpak", cmd.Name)
	assert.Equal(t, []string{
		"run",
		"--filesystem=/games/prefix",
		"--filesystem=/cache",
		"--env=WINEPREFIX=/games/prefix",
		"--env=WINEARCH=win64",
		"--command=bash",
		"org.winehq.Wine",
		"/cache/setup_dxvk.sh",
		"install",
	}, cmd.Args)
	assert.Empty(t, cmd.Env)

	assert.Equal(t, `flatpak run --filesystem="$WINEPREFIX" --env=WINEPREFIX="$WINEPREFIX" --command=winecfg org.winehq.Wine`, rt.ShellCommand("winecfg"))
}

func TestCommandWithoutPrefix(t *testing.T) {
	native := NewRuntime(dependency.FormNative, "").Wine("--version")
	assert.Empty(t, native.Env)

	sandboxed := NewRuntime(dependency.FormSandboxed, "").Wine("--version")
	assert.Equal(t, []string{"run", "--command=wine", "org.winehq.Wine", "--version"}, sandboxed.Args)
}

func TestVersion(t *testing.T) {
	r := runner.NewFakeRunner("wine").Respond("wine --version", "wine-9.0 (Staging)\n", nil)
	reported, err := NewRuntime(dependency.FormNative, "/p").Version(context.Background(), r)
	require.NoError(t, err)
	assert.Equal(t, "wine-9.0 (Staging)", reported)

	empty := runner.NewFakeRunner("wine")
	_, err = NewRuntime(dependency.FormNative, "/p").Version(context.Background(), empty)
	assert.Error(t, err)
}

func TestMeetsMinimum(t *testing.T) {
	tests := []struct {
		reported string
		minimum  string
		want     bool
		wantErr  bool
	}{
		{"wine-9.0 (Staging)", "7.0", true, false},
		{"wine-7.0", "7.0", true, false},
		{"wine-6.0.3", "7.0", false, false},
		{"wine-8.0-rc2", "7.0", true, false},
		{"not a version", "7.0", false, true},
		{"wine-9.0", "bogus", false, true},
	}

	for _, tc := range tests {
		got, err := MeetsMinimum(tc.reported, tc.minimum)
		if tc.wantErr {
			assert.Error(t, err, tc.reported)
			continue
		}
		require.NoError(t, err, tc.reported)
		assert.Equal(t, tc.want, got, tc.reported)
	}
}
