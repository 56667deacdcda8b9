package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

// Lock wraps an OS-level advisory flock guarding one parent directory, per
// spec.md §5's shared-resource policy: mutating operations take per-target
// exclusivity, and the archive-wide cleanup lock is dedicated.
type Lock struct {
	fl   *flock.Flock
	path string
}

// AcquireLock takes an exclusive advisory lock on a file inside dir named
// lockName, retrying for up to two seconds. If the lock is still held after
// that, it returns a Conflict error rather than blocking indefinitely.
func AcquireLock(dir, lockName string) (*Lock, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, Wrap(KindIOFailure, err, "creating %s for lock", dir)
	}
	path := filepath.Join(dir, lockName)
	fl := flock.New(path)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	locked, err := fl.TryLockContext(ctx, 50*time.Millisecond)
	if err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return nil, Wrap(KindIOFailure, err, "acquiring lock %s", path)
	}
	if !locked {
		return nil, Newf(KindConflict, "lock %s is held by another operation", path)
	}
	return &Lock{fl: fl, path: path}, nil
}

// TryAcquireLock attempts the lock once, without retrying, returning
// (nil, nil) if it is already held. Used by cleanup (spec.md §4.12.1),
// which must skip with a warning rather than block.
func TryAcquireLock(dir, lockName string) (*Lock, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, Wrap(KindIOFailure, err, "creating %s for lock", dir)
	}
	path := filepath.Join(dir, lockName)
	fl := flock.New(path)

	locked, err := fl.TryLock()
	if err != nil {
		return nil, Wrap(KindIOFailure, err, "acquiring lock %s", path)
	}
	if !locked {
		return nil, nil
	}
	return &Lock{fl: fl, path: path}, nil
}

// Release unlocks and removes the underlying lock file best-effort.
func (l *Lock) Release() error {
	if l == nil || l.fl == nil {
		return nil
	}
	err := l.fl.Unlock()
	_ = os.Remove(l.path)
	return err
}
