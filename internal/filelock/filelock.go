// Package filelock serializes changes to the check settings file between
// processes with an advisory lock on a sidecar file.
package filelock

import (
	"fmt"
	"os"
)

const lockFileMode = 0o600

// Lock takes the exclusive lock on path, creating the file if needed, and
// blocks while another process holds it. Call the returned release func
// when done.
func Lock(path string) (release func() error, err error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, lockFileMode) //nolint:gosec // lock path comes from the data directory
	if err != nil {
		return nil, fmt.Errorf("opening lock file: %w", err)
	}
	if err := acquire(f); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("locking %s: %w", path, err)
	}

	return func() error {
		err := release(f)
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		return err
	}, nil
}

// With runs fn while holding the lock on path.
func With(path string, fn func() error) (err error) {
	unlock, err := Lock(path)
	if err != nil {
		return err
	}
	defer func() {
		if uerr := unlock(); err == nil && uerr != nil {
			err = fmt.Errorf("releasing lock: %w", uerr)
		}
	}()
	return fn()
}
