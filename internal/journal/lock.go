package journal

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/gofrs/flock"

	"plateflow/internal/config"
)

// ErrAlreadyLocked indicates another publish run holds the journal lock.
var ErrAlreadyLocked = errors.New("another plateflow publish is already running")

// Lock serializes publish runs on one workstation. It only guards local
// concurrency; two hosts resolving versions against the same tracking
// database can still race.
type Lock struct {
	lock *flock.Flock
	path string
}

// NewLock creates the publish lock under the configured log directory.
func NewLock(cfg *config.Config) *Lock {
	path := filepath.Join(cfg.Paths.LogDir, "plateflow.lock")
	return &Lock{lock: flock.New(path), path: path}
}

// Acquire takes the lock without blocking.
func (l *Lock) Acquire() error {
	ok, err := l.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return ErrAlreadyLocked
	}
	return nil
}

// Release drops the lock.
func (l *Lock) Release() error {
	return l.lock.Unlock()
}

// Path returns the lock file path.
func (l *Lock) Path() string { return l.path }
