package domain

import (
	"context"

	"github.com/charmbracelet/log"

	m "github.com/mouse-blink/vendoring/internal/model"
)

// Sync loads the project configuration and replaces its vendored libraries
// while holding the project lock.
func (w *workflow) Sync(ctx context.Context, reporter Reporter, location m.Path) (m.Summary, error) {
	cfg, err := w.loadConfig(reporter, location)
	if err != nil {
		return m.Summary{}, err
	}

	release, err := w.lock(cfg)
	if err != nil {
		return m.Summary{}, err
	}
	defer release()

	return w.runSync(ctx, reporter, cfg)
}

func (w *workflow) runSync(ctx context.Context, reporter Reporter, cfg m.Configuration) (m.Summary, error) {
	var summary m.Summary

	err := reporter.Task("Clean existing libraries", func(logger *log.Logger) error {
		_, err := w.cleanupExisting(logger, cfg)

		return err
	})
	if err != nil {
		return summary, err
	}

	err = reporter.Task("Add vendored libraries", func(logger *log.Logger) error {
		result, err := w.vendorLibraries(ctx, logger, cfg)

		summary.Libraries = result.libraries
		summary.RewrittenFiles = result.rewritten
		summary.Patches = result.patches

		return err
	})
	if err != nil {
		return summary, err
	}

	err = reporter.Task("Fetch licenses", func(logger *log.Logger) error {
		licenses, err := w.fetchLicenses(ctx, logger, cfg)
		summary.Licenses = licenses

		return err
	})
	if err != nil {
		return summary, err
	}

	err = reporter.Task("Generate static-typing stubs", func(logger *log.Logger) error {
		stubs, err := w.generateStubs(logger, cfg, summary.Libraries)
		summary.Stubs = stubs

		return err
	})
	if err != nil {
		return summary, err
	}

	if cfg.SBOMFile == "" {
		return summary, nil
	}

	err = reporter.Task("Generate SBOM", func(logger *log.Logger) error {
		return w.writeSBOM(logger, cfg)
	})

	return summary, err
}
