//go:build linux

package installer

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
)

// Watches a directory for the creation of a specific file
type CreationWatcher struct {
	watcher *fsnotify.Watcher
	file    string
	Created chan struct{}
	Errors  chan error
}

// Starts watching for the specified file. Its parent directory must already exist.
func WatchForCreation(file string) (*CreationWatcher, error) {

	// Create a new filesystem watcher
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	// Add a watch for the file's parent directory, since the file itself doesn't exist yet
	if err := fsWatcher.Add(filepath.Dir(file)); err != nil {
		fsWatcher.Close()
		return nil, err
	}

	// Wrap the filesystem watcher in a creation watcher
	creationWatcher := &CreationWatcher{
		watcher: fsWatcher,
		file:    filepath.Clean(file),
		Created: make(chan struct{}, 1),
		Errors:  make(chan error, 1),
	}

	// Start the watcher goroutine
	go creationWatcher.watch()
	return creationWatcher, nil
}

// Cancels the watch
func (c *CreationWatcher) Cancel() {
	c.watcher.Close()
}

func (c *CreationWatcher) watch() {

	// Ensure the underlying filesystem watcher is closed when we are done
	defer c.watcher.Close()

	// Ensure the channels are closed when we are done
	defer close(c.Created)
	defer close(c.Errors)

	// Process events and errors
	for {
		select {
		case event, ok := <-c.watcher.Events:
			if !ok {
				return
			}

			// Check whether the event is the creation of (or a write to) our file
			if filepath.Clean(event.Name) == c.file && event.Op&(fsnotify.Create|fsnotify.Write) != 0 {
				c.Created <- struct{}{}
				return
			}

		case err, ok := <-c.watcher.Errors:
			if !ok {
				return
			}

			select {
			case c.Errors <- err:
			default:
			}
		}
	}
}

// Blocks until the file exists, the timeout elapses or the context is cancelled
func WaitForFile(ctx context.Context, file string, timeout time.Duration) error {

	// Start watching before checking for the file, so we can't miss its creation
	watcher, err := WatchForCreation(file)
	if err != nil {
		return errors.Wrapf(err, "failed to watch for %s", file)
	}
	defer watcher.Cancel()

	if _, err := os.Stat(file); err == nil {
		return nil
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case _, ok := <-watcher.Created:
		if !ok {
			return errors.Errorf("stopped watching for %s before it was created", file)
		}
		return nil

	case err, ok := <-watcher.Errors:
		if !ok {
			if _, statErr := os.Stat(file); statErr == nil {
				return nil
			}
			return errors.Errorf("stopped watching for %s before it was created", file)
		}
		return errors.Wrapf(err, "failed while watching for %s", file)

	case <-timer.C:
		return errors.Errorf("%s was not created within %s", file, timeout)

	case <-ctx.Done():
		return ctx.Err()
	}
}
