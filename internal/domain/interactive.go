package domain

import (
	"context"
	"fmt"
	"slices"

	"github.com/charmbracelet/log"

	m "github.com/mouse-blink/vendoring/internal/model"
)

// StateFile is where an interactive run records the package it is working
// on, relative to the project directory.
const StateFile = ".vendoring_cache/do-not-commit.interactive.current-package"

// InteractiveOptions narrow which requirements an interactive run visits.
type InteractiveOptions struct {
	Skip []string
	Only []string
	// FromStart discards a saved position instead of resuming from it.
	FromStart bool
}

// Interactive upgrades requirements one by one. Every upgrade is synced,
// described in a news fragment and committed before the next one starts.
func (w *workflow) Interactive(ctx context.Context, reporter Reporter, location m.Path, opts InteractiveOptions) error {
	cfg, err := w.loadConfig(reporter, location)
	if err != nil {
		return err
	}

	release, err := w.lock(cfg)
	if err != nil {
		return err
	}
	defer release()

	statePath := cfg.BaseDirectory.Join(StateFile)

	var (
		packages []m.PinnedPackage
		resuming string
	)

	err = reporter.Task("Read incoming requirements", func(_ *log.Logger) error {
		packages, err = w.readRequirements(cfg.Requirements)
		if err != nil {
			return err
		}

		if opts.FromStart {
			if err := w.state.Clear(statePath); err != nil {
				return err
			}
		}

		resuming, err = w.state.Load(statePath)

		return err
	})
	if err != nil {
		return err
	}

	names, err := determinePackages(packages, resuming, opts)
	if err != nil {
		return err
	}

	logger := reporter.Logger()

	if resuming != "" {
		pinned := findPinned(packages, resuming)
		logger.Info("Resuming from " + pinned.Name + "==" + pinned.Version)

		if err := w.doOneUpdate(ctx, reporter, cfg, pinned.Name, pinned.Version); err != nil {
			return err
		}

		logger.Info(fmt.Sprintf("Processing remaining %d package(s)", len(names)))
	} else {
		logger.Info(fmt.Sprintf("Processing %d package(s)", len(names)))
	}

	for _, name := range names {
		pinned := findPinned(packages, name)
		logger.Info(pinned.Name + "==" + pinned.Version)

		latest, err := w.index.LatestVersion(ctx, pinned.Name)
		if err != nil {
			return err
		}

		newer, err := newerVersion(pinned.Version, latest)
		if err != nil {
			return err
		}

		if !newer {
			logger.Info("Already up-to-date", "package", pinned.Name)

			continue
		}

		for i := range packages {
			if packages[i].Name == pinned.Name {
				packages[i].Version = latest
			}
		}

		if err := w.writeRequirements(cfg.Requirements, packages); err != nil {
			return err
		}

		if err := w.state.Save(statePath, pinned.Name); err != nil {
			return err
		}

		if err := w.doOneUpdate(ctx, reporter, cfg, pinned.Name, latest); err != nil {
			return err
		}
	}

	logger.Info("All done, removing marker file")

	return w.state.Clear(statePath)
}

// doOneUpdate syncs the project, writes the news fragment for the upgrade and
// commits both.
func (w *workflow) doOneUpdate(ctx context.Context, reporter Reporter, cfg m.Configuration, name, version string) error {
	if _, err := w.runSync(ctx, reporter, cfg); err != nil {
		return err
	}

	message := fmt.Sprintf("Upgrade %s to %s", name, version)
	news := cfg.BaseDirectory.Join("news", name+".vendor.rst")

	return reporter.Task(message, func(logger *log.Logger) error {
		if err := w.fsAdapter.WriteFile(news, []byte(message+"\n"), 0o644); err != nil {
			return err
		}

		if err := w.runner.Run(ctx, logger, cfg.BaseDirectory, w.git("add", string(news))); err != nil {
			return err
		}

		return w.runner.Run(ctx, logger, cfg.BaseDirectory, w.git("commit", "-m", message))
	})
}

// determinePackages returns the requirement names to visit, in order. A saved
// position must still be pinned and must not be filtered out.
func determinePackages(packages []m.PinnedPackage, resuming string, opts InteractiveOptions) ([]string, error) {
	known := make([]string, 0, len(packages))
	for _, pkg := range packages {
		known = append(known, pkg.Name)
	}

	if resuming != "" {
		switch {
		case !slices.Contains(known, resuming):
			return nil, fmt.Errorf(
				"the package to resume from is not in the requirements file: %s (known: %v); run with --from-start to reset",
				resuming, known,
			)
		case slices.Contains(opts.Skip, resuming):
			return nil, fmt.Errorf("cannot resume from %s as it is in the skip list", resuming)
		case len(opts.Only) > 0 && !slices.Contains(opts.Only, resuming):
			return nil, fmt.Errorf("cannot resume from %s as it is not in the only list", resuming)
		}
	}

	if len(opts.Only) > 0 {
		for _, name := range opts.Only {
			if !slices.Contains(known, name) {
				return nil, fmt.Errorf("package %s is not in the requirements file", name)
			}
		}

		return opts.Only, nil
	}

	return slices.DeleteFunc(known, func(name string) bool {
		return slices.Contains(opts.Skip, name)
	}), nil
}

func findPinned(packages []m.PinnedPackage, name string) m.PinnedPackage {
	for _, pkg := range packages {
		if pkg.Name == name {
			return pkg
		}
	}

	return m.PinnedPackage{Name: name}
}
