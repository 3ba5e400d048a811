//go:build linux

package installer

import (
	"archive/tar"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pkg/errors"
)

// Opens a decompressing reader for an archive based on its filename
func decompressor(name string, r io.Reader) (io.ReadCloser, error) {
	switch {
	case strings.HasSuffix(name, ".tar.gz"), strings.HasSuffix(name, ".tgz"):
		return gzip.NewReader(r)

	case strings.HasSuffix(name, ".tar.zst"):
		decoder, err := zstd.NewReader(r)
		if err != nil {
			return nil, err
		}
		return decoder.IOReadCloser(), nil

	case strings.HasSuffix(name, ".tar"):
		return io.NopCloser(r), nil

	default:
		return nil, errors.Errorf("unsupported archive format: %s", filepath.Base(name))
	}
}

// Resolves an archive member to a path under the destination, rejecting members that would escape it
func memberPath(dest string, name string) (string, error) {
	target := filepath.Join(dest, name)
	rel, err := filepath.Rel(dest, target)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", errors.Errorf("archive member %q escapes the extraction directory", name)
	}

	return target, nil
}

// Confirms that a path still lies under the root once symlinks among its existing ancestors are resolved
func withinRoot(root string, path string) error {

	// Find the deepest part of the path that already exists
	existing := path
	for {
		_, err := os.Lstat(existing)
		if err == nil {
			break
		}
		if !os.IsNotExist(err) {
			return errors.Wrapf(err, "failed to inspect %s", existing)
		}

		parent := filepath.Dir(existing)
		if parent == existing {
			break
		}
		existing = parent
	}

	resolved, err := filepath.EvalSymlinks(existing)
	if err != nil {
		return errors.Wrapf(err, "failed to resolve %s", existing)
	}
	resolved = filepath.Join(resolved, strings.TrimPrefix(path, existing))

	rel, err := filepath.Rel(root, resolved)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return errors.Errorf("%s resolves outside the extraction directory", path)
	}

	return nil
}

// Extracts a (possibly compressed) tar archive into the destination directory
func ExtractArchive(archivePath string, dest string) error {

	// Attempt to open the archive
	f, err := os.Open(archivePath)
	if err != nil {
		return errors.Wrap(err, "failed to open the archive")
	}
	defer f.Close()

	stream, err := decompressor(archivePath, f)
	if err != nil {
		return errors.Wrapf(err, "failed to read %s", archivePath)
	}
	defer stream.Close()

	if err := os.MkdirAll(dest, 0755); err != nil {
		return errors.Wrapf(err, "failed to create %s", dest)
	}

	// Member paths are compared against the real location of the destination
	root, err := filepath.EvalSymlinks(dest)
	if err != nil {
		return errors.Wrapf(err, "failed to resolve %s", dest)
	}

	// Process each member of the archive in turn
	tr := tar.NewReader(stream)
	for {
		header, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return errors.Wrapf(err, "failed to read %s", archivePath)
		}

		target, err := memberPath(dest, header.Name)
		if err != nil {
			return err
		}

		switch header.Typeflag {
		case tar.TypeDir:
			if err := withinRoot(root, target); err != nil {
				return err
			}
			if err := os.MkdirAll(target, 0755); err != nil {
				return errors.Wrapf(err, "failed to create %s", target)
			}

		case tar.TypeReg:
			if err := withinRoot(root, filepath.Dir(target)); err != nil {
				return err
			}
			if err := extractFile(tr, target, header.FileInfo().Mode().Perm()); err != nil {
				return err
			}

		case tar.TypeSymlink:

			// Links may only point at other members of the archive
			if filepath.IsAbs(header.Linkname) {
				return errors.Errorf("archive member %q links outside the extraction directory", header.Name)
			}
			if err := withinRoot(root, filepath.Dir(target)); err != nil {
				return err
			}
			if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
				return errors.Wrapf(err, "failed to create %s", filepath.Dir(target))
			}
			parent, err := filepath.EvalSymlinks(filepath.Dir(target))
			if err != nil {
				return errors.Wrapf(err, "failed to resolve %s", filepath.Dir(target))
			}
			if err := withinRoot(root, filepath.Join(parent, header.Linkname)); err != nil {
				return errors.Wrapf(err, "archive member %q links outside the extraction directory", header.Name)
			}
			os.Remove(target)
			if err := os.Symlink(header.Linkname, target); err != nil {
				return errors.Wrapf(err, "failed to create link %s", target)
			}

		default:
			// Other member types (devices, FIFOs) have no place in a release archive
		}
	}
}

// Writes a single regular file from the archive
func extractFile(r io.Reader, target string, mode os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return errors.Wrapf(err, "failed to create %s", filepath.Dir(target))
	}

	// Replace rather than follow a link left by an earlier member
	if info, err := os.Lstat(target); err == nil && info.Mode()&os.ModeSymlink != 0 {
		if err := os.Remove(target); err != nil {
			return errors.Wrapf(err, "failed to replace %s", target)
		}
	}

	out, err := os.OpenFile(target, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, mode|0200)
	if err != nil {
		return errors.Wrapf(err, "failed to create %s", target)
	}

	if _, err := io.Copy(out, r); err != nil {
		out.Close()
		return errors.Wrapf(err, "failed to extract %s", target)
	}

	return out.Close()
}

// Locates a file by name anywhere beneath a directory
func findFile(root string, name string) (string, error) {
	found := ""
	err := filepath.WalkDir(root, func(path string, entry os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !entry.IsDir() && entry.Name() == name {
			found = path
			return filepath.SkipAll
		}
		return nil
	})

	if err != nil {
		return "", errors.Wrapf(err, "failed to search %s", root)
	}
	if found == "" {
		return "", errors.Errorf("%s was not found in %s", name, root)
	}

	return found, nil
}
