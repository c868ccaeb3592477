// Package runlock enforces single-instance execution of the pipeline.
//
// Two concurrent runs would race to bind the same ingest endpoint; the file
// lock fails fast with a readable error instead.
package runlock

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/gofrs/flock"
)

// ErrAlreadyRunning indicates another pipeline instance holds the lock.
var ErrAlreadyRunning = errors.New("another sift run is already in progress")

// Lock is a held run lock. Release it with Unlock.
type Lock struct {
	lock *flock.Flock
	path string
}

// Acquire takes the run lock inside dir without blocking.
func Acquire(dir string) (*Lock, error) {
	path := filepath.Join(dir, "sift.lock")
	lock := flock.New(path)

	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire run lock %s: %w", path, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w (lock file %s)", ErrAlreadyRunning, path)
	}
	return &Lock{lock: lock, path: path}, nil
}

// Path returns the lock file location.
func (l *Lock) Path() string { return l.path }

// Unlock releases the run lock.
func (l *Lock) Unlock() error {
	if l == nil || l.lock == nil {
		return nil
	}
	return l.lock.Unlock()
}
