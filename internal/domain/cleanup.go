package domain

import (
	"slices"

	"github.com/charmbracelet/log"

	m "github.com/mouse-blink/vendoring/internal/model"
)

// cleanupExisting empties the destination. Directories always go; top-level
// files survive only when listed in protected-files.
func (w *workflow) cleanupExisting(logger *log.Logger, cfg m.Configuration) (int, error) {
	exists, err := w.fsAdapter.Exists(cfg.Destination)
	if err != nil {
		return 0, err
	}

	if !exists {
		logger.Debug("Destination does not exist, nothing to clean", "destination", cfg.Destination)

		return 0, nil
	}

	entries, err := w.fsAdapter.ReadDir(cfg.Destination)
	if err != nil {
		return 0, err
	}

	removed := 0

	for _, entry := range entries {
		if !entry.IsDir() && slices.Contains(cfg.ProtectedFiles, entry.Name()) {
			continue
		}

		if err := w.fsAdapter.RemoveAll(cfg.Destination.Join(entry.Name())); err != nil {
			return removed, err
		}

		removed++
	}

	logger.Info("Removed existing items", "count", removed)

	return removed, nil
}
