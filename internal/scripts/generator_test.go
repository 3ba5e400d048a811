//go:build linux

package scripts

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tensorworks/wine-gaming-setup/internal/dependency"
	"github.com/tensorworks/wine-gaming-setup/internal/profile"
	"github.com/tensorworks/wine-gaming-setup/internal/wine"
)

func readScript(t *testing.T, dir string, name string) string {
	contents, err := os.ReadFile(filepath.Join(dir, name))
	require.NoError(t, err)
	return string(contents)
}

func TestGenerateNative(t *testing.T) {
	dir := t.TempDir()
	paths := profile.Paths{InstallPath: dir}
	rt := wine.NewRuntime(dependency.FormNative, dir)

	written, err := NewGenerator(zap.NewNop().Sugar()).Generate(paths, rt, rt)
	require.NoError(t, err)
	assert.Equal(t, Paths(paths), written)
	assert.Len(t, written, 4)

	for _, path := range written {
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0755), info.Mode().Perm(), path)

		contents := readScript(t, dir, filepath.Base(path))
		assert.Contains(t, contents, `. "$SCRIPT_DIR/wine_gaming_env.sh"`)
	}

	assert.Contains(t, readScript(t, dir, ConfigureScript), "exec wine winecfg\n")
	assert.Contains(t, readScript(t, dir, InstallMoreScript), "exec winetricks --gui\n")

	cleanup := readScript(t, dir, CleanupScript)
	assert.Contains(t, cleanup, `"$DXVK_STATE_CACHE_PATH/"*`)
	assert.Contains(t, cleanup, `"$VKD3D_SHADER_CACHE_PATH/"*`)
	assert.Contains(t, cleanup, `wine regedit /E "$EXPORT_FILE" 'HKEY_CURRENT_USER\Software\Wine'`)
	assert.Contains(t, cleanup, `wine reg delete 'HKEY_CURRENT_USER\Software\Wine' /f`)
	assert.Contains(t, cleanup, `wine regedit /S "$EXPORT_FILE"`)

	run := readScript(t, dir, RunScript)
	assert.Contains(t, run, "exit 2")
	assert.Contains(t, run, `exec wine "$@"`)
}

func TestGenerateSandboxed(t *testing.T) {
	dir := t.TempDir()
	paths := profile.Paths{InstallPath: dir}
	rt := wine.NewRuntime(dependency.FormSandboxed, dir)

	_, err := NewGenerator(zap.NewNop().Sugar()).Generate(paths, rt, rt)
	require.NoError(t, err)

	assert.Contains(t, readScript(t, dir, ConfigureScript), "--command=wine org.winehq.Wine winecfg")
	assert.Contains(t, readScript(t, dir, InstallMoreScript), "--command=winetricks org.winehq.Wine --gui")
	assert.Contains(t, readScript(t, dir, CleanupScript), "--command=wineserver org.winehq.Wine -w")
}

func TestGenerateFailsForMissingDirectory(t *testing.T) {
	paths := profile.Paths{InstallPath: filepath.Join(t.TempDir(), "missing")}
	rt := wine.NewRuntime(dependency.FormNative, paths.InstallPath)

	_, err := NewGenerator(zap.NewNop().Sugar()).Generate(paths, rt, rt)
	assert.Error(t, err)
}
