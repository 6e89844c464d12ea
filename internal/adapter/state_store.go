package adapter

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	m "github.com/mouse-blink/vendoring/internal/model"
)

// StateStore remembers which package an interactive run was working on, so an
// interrupted run can resume there.
type StateStore interface {
	Load(path m.Path) (string, error)
	Save(path m.Path, pkg string) error
	Clear(path m.Path) error
}

type stateStore struct{}

// NewStateStore constructs a StateStore that keeps the package name in a
// plain text file.
func NewStateStore() StateStore {
	return &stateStore{}
}

// Load returns the saved package name, or "" when nothing is saved.
func (s *stateStore) Load(path m.Path) (string, error) {
	data, err := os.ReadFile(string(path))
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}

	if err != nil {
		return "", err
	}

	return strings.TrimSpace(string(data)), nil
}

func (s *stateStore) Save(path m.Path, pkg string) error {
	if err := os.MkdirAll(filepath.Dir(string(path)), 0o750); err != nil {
		return err
	}

	return os.WriteFile(string(path), []byte(pkg), 0o600)
}

// Clear removes the state file, and its directory once that is empty.
func (s *stateStore) Clear(path m.Path) error {
	err := os.Remove(string(path))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}

	if err != nil {
		return err
	}

	_ = os.Remove(filepath.Dir(string(path)))

	return nil
}
