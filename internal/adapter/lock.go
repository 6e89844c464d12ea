package adapter

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	m "github.com/mouse-blink/vendoring/internal/model"
)

// ErrProjectLocked is returned when another vendoring process holds the lock
// for the same project.
var ErrProjectLocked = errors.New("another vendoring run is in progress for this project")

// ProjectLocker serializes runs that modify the same project.
type ProjectLocker interface {
	// Lock acquires the lock for project without waiting. The returned
	// function releases it.
	Lock(project m.Path) (func() error, error)
}

// LocalProjectLocker keeps one lock file per project under dir.
type LocalProjectLocker struct {
	dir string
}

// NewLocalProjectLocker stores lock files in dir.
func NewLocalProjectLocker(dir m.Path) *LocalProjectLocker {
	return &LocalProjectLocker{dir: string(dir)}
}

// Lock takes an advisory file lock keyed by the absolute project path.
func (l *LocalProjectLocker) Lock(project m.Path) (func() error, error) {
	abs, err := filepath.Abs(string(project))
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(l.dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating lock directory: %w", err)
	}

	sum := sha256.Sum256([]byte(abs))
	fileLock := flock.New(filepath.Join(l.dir, fmt.Sprintf("%x.lock", sum[:8])))

	locked, err := fileLock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("locking %s: %w", abs, err)
	}

	if !locked {
		return nil, fmt.Errorf("%w: %s", ErrProjectLocked, abs)
	}

	return fileLock.Unlock, nil
}
