//go:build linux

package materialize

import (
	"fmt"
	"os"
	"time"

	"github.com/pkg/errors"
)

// The timestamp layout used for backup suffixes
const backupTimestampLayout = "20060102-150405"

// Renames an existing file or directory out of the way so it is never silently overwritten.
// The new name is "<path>.backup-YYYYMMDD-HHMMSS", with a numeric suffix if that name is already taken.
// Returns the backup path, or an empty string if nothing existed at the path.
func BackupExisting(path string, now time.Time) (string, error) {

	// Determine whether there is anything to back up
	if _, err := os.Lstat(path); err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", errors.Wrapf(err, "failed to inspect %s", path)
	}

	// Find a free backup name
	base := path + ".backup-" + now.Format(backupTimestampLayout)
	target := base
	for n := 1; ; n++ {
		if _, err := os.Lstat(target); os.IsNotExist(err) {
			break
		} else if err != nil {
			return "", errors.Wrapf(err, "failed to inspect %s", target)
		}
		target = fmt.Sprintf("%s-%d", base, n)
	}

	// Attempt to move the existing data
	if err := os.Rename(path, target); err != nil {
		return "", errors.Wrapf(err, "failed to back up %s", path)
	}

	return target, nil
}
