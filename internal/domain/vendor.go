package domain

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/mouse-blink/vendoring/internal/domain/rewrite"
	m "github.com/mouse-blink/vendoring/internal/model"
)

var metadataGlobs = []string{"*.dist-info", "*.egg-info"}

type vendorResult struct {
	libraries []m.Library
	rewritten map[string]int
	patches   []m.Path
}

// vendorLibraries installs the requirements into the destination, strips what
// is not wanted and moves the imports under the configured namespace.
func (w *workflow) vendorLibraries(ctx context.Context, logger *log.Logger, cfg m.Configuration) (vendorResult, error) {
	var result vendorResult

	subs, err := compileSubstitutions(cfg.Substitute)
	if err != nil {
		return result, err
	}

	err = w.runner.Run(ctx, logger, "", w.pip(
		"install",
		"-t", string(cfg.Destination),
		"-r", string(cfg.Requirements),
		"--no-compile",
		"--no-deps",
	))
	if err != nil {
		return result, err
	}

	if err := w.removeUnnecessaryItems(logger, cfg); err != nil {
		return result, err
	}

	result.libraries, err = w.detectLibraries(logger, cfg)
	if err != nil {
		return result, err
	}

	rules, err := w.rulesFor(logger, cfg, result.libraries)
	if err != nil {
		return result, err
	}

	changed, err := w.transformTree(logger, cfg.Destination, subs, rules, nil)
	if err != nil {
		return result, err
	}

	result.rewritten = w.countByLibrary(cfg.Destination, changed)

	result.patches, err = w.applyPatches(ctx, logger, cfg)
	if err != nil {
		return result, err
	}

	return result, nil
}

func (w *workflow) removeUnnecessaryItems(logger *log.Logger, cfg m.Configuration) error {
	if !cfg.PreserveMetadata {
		for _, pattern := range metadataGlobs {
			matches, err := w.fsAdapter.Glob(cfg.Destination, pattern)
			if err != nil {
				return err
			}

			for _, match := range matches {
				logger.Debug("Removing metadata", "path", w.relative(cfg.Destination, match))

				if err := w.fsAdapter.RemoveAll(match); err != nil {
					return err
				}
			}
		}
	}

	for _, pattern := range cfg.Drop {
		if err := w.dropMatching(logger, cfg.Destination, pattern); err != nil {
			return err
		}
	}

	return nil
}

// dropMatching deletes every file and directory whose destination-relative
// slash path matches pattern at its start. Directories are also tried with a
// trailing slash, so `bin/` removes the whole `bin` directory.
func (w *workflow) dropMatching(logger *log.Logger, root m.Path, pattern string) error {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return fmt.Errorf("invalid drop pattern %q: %w", pattern, err)
	}

	var doomed []m.Path

	err = w.fsAdapter.Walk(root, true, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if path == string(root) {
			return nil
		}

		rel := filepath.ToSlash(w.relative(root, m.Path(path)))
		if !matchesAtStart(re, rel) && (!info.IsDir() || !matchesAtStart(re, rel+"/")) {
			return nil
		}

		doomed = append(doomed, m.Path(path))

		if info.IsDir() {
			return filepath.SkipDir
		}

		return nil
	})
	if err != nil {
		return err
	}

	for _, path := range doomed {
		logger.Debug("Dropping", "path", w.relative(root, path), "pattern", pattern)

		if err := w.fsAdapter.RemoveAll(path); err != nil {
			return err
		}
	}

	return nil
}

func matchesAtStart(re *regexp.Regexp, s string) bool {
	loc := re.FindStringIndex(s)

	return loc != nil && loc[0] == 0
}

// detectLibraries lists the top-level packages and modules pip installed.
func (w *workflow) detectLibraries(logger *log.Logger, cfg m.Configuration) ([]m.Library, error) {
	entries, err := w.fsAdapter.ReadDir(cfg.Destination)
	if err != nil {
		return nil, err
	}

	var libraries []m.Library

	for _, entry := range entries {
		name := entry.Name()

		switch {
		case entry.IsDir():
			if name == "__pycache__" || isMetadataDir(name) {
				continue
			}

			libraries = append(libraries, m.Library{Name: name, Kind: m.LibraryPackage})
		case strings.HasSuffix(name, ".pyi"):
			continue
		case slices.Contains(cfg.ProtectedFiles, name):
			continue
		case strings.HasSuffix(name, pythonFileExt):
			libraries = append(libraries, m.Library{Name: strings.TrimSuffix(name, pythonFileExt), Kind: m.LibraryModule})
		default:
			logger.Warn("Got unexpected non-Python file", "file", cfg.Destination.Join(name))
		}
	}

	return libraries, nil
}

func isMetadataDir(name string) bool {
	return strings.HasSuffix(name, ".dist-info") || strings.HasSuffix(name, ".egg-info")
}

// rulesFor maps every detected library into the namespace. An empty
// namespace disables import rewriting.
func (w *workflow) rulesFor(logger *log.Logger, cfg m.Configuration, libraries []m.Library) (*rewrite.RuleSet, error) {
	if cfg.Namespace == "" {
		logger.Debug("No namespace configured, imports are left alone")

		return nil, nil
	}

	rules := make([]rewrite.Rule, 0, len(libraries))

	for _, lib := range libraries {
		if !rewrite.IsModuleName(lib.Name) {
			logger.Warn("Not rewriting imports of a library that is not importable", "library", lib.Name)

			continue
		}

		rules = append(rules, rewrite.Rule{Module: lib.Name, Namespace: cfg.Namespace})
	}

	return rewrite.NewRuleSet(rules...)
}

func (w *workflow) countByLibrary(root m.Path, changed []m.Path) map[string]int {
	counts := make(map[string]int)

	for _, path := range changed {
		rel := filepath.ToSlash(w.relative(root, path))
		top, _, _ := strings.Cut(rel, "/")
		counts[strings.TrimSuffix(top, pythonFileExt)]++
	}

	return counts
}

// applyPatches applies every *.patch in the patches directory, in name order,
// from the project root.
func (w *workflow) applyPatches(ctx context.Context, logger *log.Logger, cfg m.Configuration) ([]m.Path, error) {
	if cfg.PatchesDir == "" {
		return nil, nil
	}

	exists, err := w.fsAdapter.Exists(cfg.PatchesDir)
	if err != nil {
		return nil, err
	}

	if !exists {
		logger.Warn("Patches directory does not exist", "directory", cfg.PatchesDir)

		return nil, nil
	}

	patches, err := w.fsAdapter.Glob(cfg.PatchesDir, "*.patch")
	if err != nil {
		return nil, err
	}

	for _, patch := range patches {
		if err := w.runner.Run(ctx, logger, cfg.BaseDirectory, w.git("apply", "--verbose", string(patch))); err != nil {
			return nil, fmt.Errorf("applying %s: %w", filepath.Base(string(patch)), err)
		}
	}

	return patches, nil
}
