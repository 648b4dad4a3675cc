package utils

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

const (
	lockFileSuffix = ".lock"
)

// ProfileLock is an advisory lock held next to a Chrome profile
// directory (<dir>.lock) for as long as a session uses that profile.
// Chrome refuses to share a profile between processes.
type ProfileLock struct {
	lock       *flock.Flock
	path       string
	profileDir string
}

// NewProfileLock creates a new lock for the given profile directory.
func NewProfileLock(profileDir string) (*ProfileLock, error) {
	absPath, err := filepath.Abs(profileDir)
	if err != nil {
		return nil, fmt.Errorf("could not get absolute profile path: %w", err)
	}
	absPath = filepath.Clean(absPath)
	if absPath == string(filepath.Separator) {
		return nil, fmt.Errorf("refusing to use %s as a browser profile", absPath)
	}
	lockPath := absPath + lockFileSuffix
	return &ProfileLock{
		lock:       flock.New(lockPath),
		path:       lockPath,
		profileDir: absPath,
	}, nil
}

// Path returns the lock file path.
func (l *ProfileLock) Path() string { return l.path }

// lockRetry is how often a held profile lock is retried.
var lockRetry = 250 * time.Millisecond

// Lock acquires the profile lock. If another process holds it, Lock
// reports that once and retries until the lock frees up or ctx ends.
func (l *ProfileLock) Lock(ctx context.Context) error {
	locked, err := l.lock.TryLock()
	if err != nil {
		return fmt.Errorf("failed to acquire lock on %s: %w", l.path, err)
	}
	if locked {
		return nil
	}

	fmt.Fprintf(os.Stderr, "Another livewatch process is using the browser profile %s, waiting for it to finish...\n", l.profileDir)
	locked, err = l.lock.TryLockContext(ctx, lockRetry)
	if err != nil {
		return fmt.Errorf("gave up waiting for profile %s: %w", l.profileDir, err)
	}
	if !locked {
		return fmt.Errorf("profile %s is still in use", l.profileDir)
	}
	return nil
}

// Unlock releases the profile lock.
func (l *ProfileLock) Unlock() error {
	if err := l.lock.Unlock(); err != nil {
		// Suppress error if the lock file doesn't exist, as it means we don't hold the lock.
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to release lock on %s: %w", l.path, err)
	}
	return nil
}
