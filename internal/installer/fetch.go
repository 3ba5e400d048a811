//go:build linux

package installer

import (
	"context"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/tensorworks/wine-gaming-setup/internal/runner"
)

// Downloads translation-layer archives into a local cache and unpacks them
type LayerFetcher struct {
	runner   runner.Runner
	logger   *zap.SugaredLogger
	cacheDir string
}

func NewLayerFetcher(r runner.Runner, logger *zap.SugaredLogger, cacheDir string) *LayerFetcher {
	return &LayerFetcher{runner: r, logger: logger, cacheDir: cacheDir}
}

// Returns the path of the cached release archive, downloading it if the cache has no intact copy
func (f *LayerFetcher) Fetch(ctx context.Context, layer TranslationLayer) (string, error) {
	if err := os.MkdirAll(f.cacheDir, 0755); err != nil {
		return "", errors.Wrapf(err, "failed to create cache directory %s", f.cacheDir)
	}

	// Reuse the cached archive if its digest still matches
	archive := filepath.Join(f.cacheDir, layer.ArchiveName())
	if cachedFileValid(archive) {
		f.logger.Infow("Using cached archive", "layer", layer.Name, "path", archive)
		return archive, nil
	}

	// Attempt to download the archive to a partial file
	partial := archive + ".part"
	f.logger.Infow("Downloading translation layer", "layer", layer.String(), "url", layer.URL)
	err := f.runner.Run(ctx, runner.Command{Name: "wget", Args: []string{"-q", "-O", partial, layer.URL}})
	if err != nil {
		os.Remove(partial)
		return "", errors.Wrapf(err, "failed to download %s", layer.URL)
	}

	// Move the archive into place, then record its digest
	digest, err := fileDigest(partial)
	if err != nil {
		os.Remove(partial)
		return "", errors.Wrapf(err, "downloaded archive for %s is unreadable", layer.Name)
	}
	if err := os.Rename(partial, archive); err != nil {
		os.Remove(partial)
		return "", errors.Wrapf(err, "failed to move %s into the cache", partial)
	}
	if err := writeDigest(archive, digest); err != nil {
		return "", err
	}

	return archive, nil
}

// Fetches and extracts a layer, returning the path of its setup script
func (f *LayerFetcher) Prepare(ctx context.Context, layer TranslationLayer) (string, error) {
	if err := layer.Validate(); err != nil {
		return "", err
	}

	archive, err := f.Fetch(ctx, layer)
	if err != nil {
		return "", err
	}

	// Extract into a fresh directory so stale files from an interrupted run can't linger
	dest := layer.ExtractDir(f.cacheDir)
	if err := os.RemoveAll(dest); err != nil {
		return "", errors.Wrapf(err, "failed to clear %s", dest)
	}
	if err := ExtractArchive(archive, dest); err != nil {
		return "", errors.Wrapf(err, "failed to extract %s", layer.String())
	}

	return findFile(dest, layer.SetupScript)
}
