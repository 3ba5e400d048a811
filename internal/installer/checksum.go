//go:build linux

package installer

import (
	"encoding/hex"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/zeebo/blake3"
)

// The suffix of the digest sidecar file stored next to each cached archive
const digestSuffix = ".b3"

// Computes the hex-encoded BLAKE3 digest of a file
func fileDigest(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	hasher := blake3.New()
	if _, err := io.Copy(hasher, f); err != nil {
		return "", errors.Wrapf(err, "failed to hash %s", path)
	}

	return hex.EncodeToString(hasher.Sum(nil)), nil
}

// Writes the digest sidecar for a file
func writeDigest(path string, digest string) error {
	if err := os.WriteFile(path+digestSuffix, []byte(digest+"\n"), 0644); err != nil {
		return errors.Wrapf(err, "failed to write the digest for %s", path)
	}

	return nil
}

// Reports whether a cached file exists and matches its digest sidecar
func cachedFileValid(path string) bool {
	recorded, err := os.ReadFile(path + digestSuffix)
	if err != nil {
		return false
	}

	actual, err := fileDigest(path)
	if err != nil {
		return false
	}

	return strings.TrimSpace(string(recorded)) == actual
}
