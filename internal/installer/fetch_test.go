//go:build linux

package installer

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tensorworks/wine-gaming-setup/internal/runner"
)

func newDownloadingRunner(body []byte) *runner.FakeRunner {
	r := runner.NewFakeRunner("wget")
	r.OnCommand(func(cmd runner.Command) error {
		if cmd.Name == "wget" {
			return os.WriteFile(cmd.Args[2], body, 0644)
		}
		return nil
	})
	return r
}

func TestFetchRecordsDigest(t *testing.T) {
	cacheDir := t.TempDir()
	body := buildArchive(t, "dxvk.tar.gz", layerMembers("dxvk-1.10.3", "setup_dxvk.sh"))
	fetcher := NewLayerFetcher(newDownloadingRunner(body), zap.NewNop().Sugar(), cacheDir)

	archive, err := fetcher.Fetch(context.Background(), testLayers.first)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(cacheDir, testLayers.first.ArchiveName()), archive)
	assert.True(t, cachedFileValid(archive))
	assert.NoFileExists(t, archive+".part")
}

func TestFetchFailedMoveLeavesNoDigest(t *testing.T) {
	cacheDir := t.TempDir()
	body := buildArchive(t, "dxvk.tar.gz", layerMembers("dxvk-1.10.3", "setup_dxvk.sh"))
	fetcher := NewLayerFetcher(newDownloadingRunner(body), zap.NewNop().Sugar(), cacheDir)

	// A non-empty directory in the archive's place makes the final rename fail
	archive := filepath.Join(cacheDir, testLayers.first.ArchiveName())
	require.NoError(t, os.MkdirAll(filepath.Join(archive, "occupied"), 0755))

	_, err := fetcher.Fetch(context.Background(), testLayers.first)
	assert.Error(t, err)

	assert.NoFileExists(t, archive+digestSuffix)
	assert.NoFileExists(t, archive+".part")
}
