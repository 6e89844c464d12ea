package domain

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/mouse-blink/vendoring/internal/adapter"
	m "github.com/mouse-blink/vendoring/internal/model"
)

type artifactLicenses struct {
	library string
	members []adapter.ArchiveMember
}

// fetchLicenses downloads the distributions of every requirement and copies
// their license files next to the vendored code.
func (w *workflow) fetchLicenses(ctx context.Context, logger *log.Logger, cfg m.Configuration) ([]m.Path, error) {
	downloads, err := w.fsAdapter.CreateTempDir("vendoring-downloads-*")
	if err != nil {
		return nil, err
	}

	defer func() {
		_ = w.fsAdapter.RemoveAll(downloads)
	}()

	err = w.runner.Run(ctx, logger, "", w.pip(
		"download",
		"-r", string(cfg.Requirements),
		"--no-deps",
		"--dest", string(downloads),
	))
	if err != nil {
		return nil, err
	}

	entries, err := w.fsAdapter.ReadDir(downloads)
	if err != nil {
		return nil, err
	}

	var artifacts []string

	for _, entry := range entries {
		if !entry.IsDir() {
			artifacts = append(artifacts, entry.Name())
		}
	}

	found := make([]artifactLicenses, len(artifacts))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(w.opts.Parallelism)

	for i, artifact := range artifacts {
		g.Go(func() error {
			licenses, err := w.licensesOf(gctx, logger, cfg, downloads.Join(artifact))
			if err != nil {
				return err
			}

			found[i] = licenses

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	var written []m.Path

	for _, licenses := range found {
		for _, member := range licenses.members {
			dest := w.licenseDestination(cfg, licenses.library, path.Base(member.Name))

			logger.Info(fmt.Sprintf("Extracting %s into %s", path.Base(member.Name), w.relative(cfg.Destination, dest)))

			if err := w.fsAdapter.WriteFile(dest, member.Content, 0o644); err != nil {
				return written, err
			}

			written = append(written, dest)
		}
	}

	return written, nil
}

// licensesOf reads the license members of one artifact, falling back to the
// configured URL when the archive carries none.
func (w *workflow) licensesOf(ctx context.Context, logger *log.Logger, cfg m.Configuration, artifact m.Path) (artifactLicenses, error) {
	name := path.Base(string(artifact))
	library := libraryFromArtifact(name)

	members, err := w.archives.ReadMembers(artifact, func(member string) bool {
		if !strings.Contains(member, "LICENSE") && !strings.Contains(member, "COPYING") {
			return false
		}

		if strings.Contains(member, "/test") {
			logger.Info("Ignoring " + member)

			return false
		}

		return true
	})
	if err != nil {
		return artifactLicenses{}, fmt.Errorf("reading %s: %w", name, err)
	}

	if len(members) > 0 {
		return artifactLicenses{library: library, members: members}, nil
	}

	logger.Info(fmt.Sprintf("No license found in %s, using fallback.", name))

	url, ok := cfg.LicenseFallbackURLs[library]
	if !ok {
		return artifactLicenses{}, fmt.Errorf("no hardcoded license URL for %s", library)
	}

	logger.Info("Downloading " + url)

	content, err := w.index.Download(ctx, url)
	if err != nil {
		return artifactLicenses{}, err
	}

	filename := url[strings.LastIndex(url, "/")+1:]

	return artifactLicenses{
		library: library,
		members: []adapter.ArchiveMember{{Name: filename, Content: content}},
	}, nil
}

// licenseDestination prefers the library's package directory, then its
// lowercase spelling, then license.directories, and finally a
// `<library>.<filename>` file at the top of the destination.
func (w *workflow) licenseDestination(cfg m.Configuration, library, filename string) m.Path {
	for _, dir := range []string{library, strings.ToLower(library)} {
		info, err := w.fsAdapter.FileInfo(cfg.Destination.Join(dir))
		if err == nil && info.IsDir() {
			return cfg.Destination.Join(dir, filename)
		}
	}

	if dir, ok := cfg.LicenseDirectories[library]; ok {
		return cfg.Destination.Join(dir, filename)
	}

	return cfg.Destination.Join(library + "." + filename)
}

// libraryFromArtifact reconstructs the distribution name from an artifact
// file name: every dash-separated part before the first one that starts
// with a digit.
func libraryFromArtifact(artifact string) string {
	var parts []string

	for _, part := range strings.Split(artifact, "-") {
		if part != "" && isDigit(part[0]) {
			break
		}

		parts = append(parts, part)
	}

	return strings.Join(parts, "-")
}
