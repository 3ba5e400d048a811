//go:build linux

package installer

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

const bytesPerMB = 1024 * 1024

// Returns the free space available to unprivileged users on the filesystem that would hold the path.
// The path itself need not exist yet.
func FreeDiskMB(path string) (uint64, error) {

	// Walk up to the nearest existing ancestor
	dir := filepath.Clean(path)
	for {
		if _, err := os.Stat(dir); err == nil {
			break
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	var stat unix.Statfs_t
	if err := unix.Statfs(dir, &stat); err != nil {
		return 0, errors.Wrapf(err, "failed to query free space for %s", dir)
	}

	return stat.Bavail * uint64(stat.Bsize) / bytesPerMB, nil
}
