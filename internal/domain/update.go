package domain

import (
	"context"
	"fmt"

	version "github.com/aquasecurity/go-pep440-version"
	"github.com/charmbracelet/log"

	m "github.com/mouse-blink/vendoring/internal/model"
)

// Update bumps pinned requirements to their latest release and rewrites the
// requirements file when anything changed.
func (w *workflow) Update(ctx context.Context, reporter Reporter, location m.Path, pkg string) ([]m.PinnedPackage, error) {
	cfg, err := w.loadConfig(reporter, location)
	if err != nil {
		return nil, err
	}

	var updated []m.PinnedPackage

	err = reporter.Task("Update requirements", func(logger *log.Logger) error {
		packages, err := w.readRequirements(cfg.Requirements)
		if err != nil {
			return err
		}

		found := pkg == ""

		for i, pinned := range packages {
			if pkg != "" && canonicalName(pinned.Name) != canonicalName(pkg) {
				continue
			}

			found = true

			latest, err := w.latestVersion(ctx, logger, pinned)
			if err != nil {
				return err
			}

			if latest == pinned.Version {
				logger.Info("Already up-to-date", "package", pinned.Name, "version", pinned.Version)

				continue
			}

			logger.Info(fmt.Sprintf("Updating %s from %s to %s", pinned.Name, pinned.Version, latest))

			packages[i].Version = latest
			updated = append(updated, packages[i])
		}

		if !found {
			return fmt.Errorf("%s is not pinned in %s", pkg, w.relative(cfg.BaseDirectory, cfg.Requirements))
		}

		if len(updated) == 0 {
			return nil
		}

		return w.writeRequirements(cfg.Requirements, packages)
	})

	return updated, err
}

// latestVersion asks the index for the newest release of pinned. When the
// index answers with a version equal to the pinned one under PEP 440
// normalisation, the pinned spelling is kept.
func (w *workflow) latestVersion(ctx context.Context, logger *log.Logger, pinned m.PinnedPackage) (string, error) {
	latest, err := w.index.LatestVersion(ctx, pinned.Name)
	if err != nil {
		return "", err
	}

	logger.Debug("Latest release", "package", pinned.Name, "version", latest)

	same, err := sameVersion(pinned.Version, latest)
	if err != nil {
		return "", err
	}

	if same {
		return pinned.Version, nil
	}

	return latest, nil
}

func sameVersion(a, b string) (bool, error) {
	va, vb, err := parseVersions(a, b)
	if err != nil {
		return false, err
	}

	return va.Equal(vb), nil
}

// newerVersion reports whether candidate is a later release than current.
func newerVersion(current, candidate string) (bool, error) {
	vc, vn, err := parseVersions(current, candidate)
	if err != nil {
		return false, err
	}

	return vn.GreaterThan(vc), nil
}

func parseVersions(a, b string) (version.Version, version.Version, error) {
	va, err := version.Parse(a)
	if err != nil {
		return version.Version{}, version.Version{}, fmt.Errorf("invalid version %q: %w", a, err)
	}

	vb, err := version.Parse(b)
	if err != nil {
		return version.Version{}, version.Version{}, fmt.Errorf("invalid version %q: %w", b, err)
	}

	return va, vb, nil
}
