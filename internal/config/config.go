// Package config loads and validates the [tool.vendoring] table.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/pelletier/go-toml/v2"
	"golang.org/x/exp/maps"
	"gopkg.in/yaml.v3"

	"github.com/mouse-blink/vendoring/internal/domain/rewrite"
	m "github.com/mouse-blink/vendoring/internal/model"
)

const (
	// PyProjectFile holds the [tool.vendoring] table.
	PyProjectFile = "pyproject.toml"
	// StandaloneFile is used by projects that keep no pyproject.toml table.
	StandaloneFile = "vendoring.yaml"
)

// Error reports a configuration that could not be read or validated.
type Error struct {
	Reason string
	Err    error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Reason
	}

	return e.Reason + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

type transformations struct {
	Substitute []substitution `toml:"substitute" yaml:"substitute"`
	Drop       []string       `toml:"drop" yaml:"drop"`
}

type substitution struct {
	Match   string `toml:"match" yaml:"match"`
	Replace string `toml:"replace" yaml:"replace"`
}

type license struct {
	Directories  map[string]string `toml:"directories" yaml:"directories"`
	FallbackURLs map[string]string `toml:"fallback-urls" yaml:"fallback-urls"`
}

// table mirrors the on-disk keys. Pointers distinguish missing keys from
// empty values.
type table struct {
	Destination      *string             `toml:"destination" yaml:"destination"`
	Requirements     *string             `toml:"requirements" yaml:"requirements"`
	Namespace        *string             `toml:"namespace" yaml:"namespace"`
	ProtectedFiles   []string            `toml:"protected-files" yaml:"protected-files"`
	PatchesDir       *string             `toml:"patches-dir" yaml:"patches-dir"`
	PreserveMetadata bool                `toml:"preserve-metadata" yaml:"preserve-metadata"`
	SBOMFile         *string             `toml:"sbom-file" yaml:"sbom-file"`
	Transformations  transformations     `toml:"transformations" yaml:"transformations"`
	TypingStubs      map[string][]string `toml:"typing-stubs" yaml:"typing-stubs"`
	License          license             `toml:"license" yaml:"license"`
}

var knownKeys = map[string][]string{
	"destination":       nil,
	"requirements":      nil,
	"namespace":         nil,
	"protected-files":   nil,
	"patches-dir":       nil,
	"preserve-metadata": nil,
	"sbom-file":         nil,
	"transformations":   {"substitute", "drop"},
	"typing-stubs":      nil,
	"license":           {"directories", "fallback-urls"},
}

type pyproject struct {
	Tool struct {
		Vendoring *table `toml:"vendoring"`
	} `toml:"tool"`
}

type rawPyproject struct {
	Tool struct {
		Vendoring map[string]any `toml:"vendoring"`
	} `toml:"tool"`
}

// Load reads the vendoring configuration of the project in location. The
// [tool.vendoring] table of pyproject.toml wins; vendoring.yaml is used when
// the project has no such table.
func Load(location m.Path, logger *log.Logger) (m.Configuration, error) {
	base, err := filepath.Abs(string(location))
	if err != nil {
		return m.Configuration{}, &Error{Reason: "could not resolve project directory", Err: err}
	}

	t, raw, source, err := read(base, logger)
	if err != nil {
		return m.Configuration{}, err
	}

	if unknown := unknownKeys(raw); len(unknown) > 0 {
		logger.Warn("Got unknown keys", "keys", unknown, "file", source)
	}

	cfg, err := t.validate(m.Path(base))
	if err != nil {
		return m.Configuration{}, &Error{
			Reason: fmt.Sprintf("could not load values from %s", source),
			Err:    err,
		}
	}

	logger.Debug("Validated configuration.")

	return cfg, nil
}

func read(base string, logger *log.Logger) (*table, map[string]any, string, error) {
	file := filepath.Join(base, PyProjectFile)
	logger.Debug("Will attempt to load", "file", file)

	data, err := os.ReadFile(file)

	switch {
	case err == nil:
		logger.Debug("Read configuration file.")

		t, raw, err := decodePyproject(data)
		if err != nil {
			return nil, nil, "", err
		}

		if t != nil {
			logger.Debug("Parsed configuration file.")

			return t, raw, PyProjectFile, nil
		}
	case !errors.Is(err, os.ErrNotExist):
		return nil, nil, "", &Error{Reason: "could not read " + PyProjectFile, Err: err}
	}

	standalone := filepath.Join(base, StandaloneFile)

	data, yamlErr := os.ReadFile(standalone)
	if yamlErr != nil {
		if errors.Is(yamlErr, os.ErrNotExist) {
			return nil, nil, "", &Error{
				Reason: fmt.Sprintf("can not load `tool.vendoring` from %s or %s", PyProjectFile, StandaloneFile),
			}
		}

		return nil, nil, "", &Error{Reason: "could not read " + StandaloneFile, Err: yamlErr}
	}

	logger.Debug("Read configuration file.", "file", standalone)

	t, raw, err := decodeStandalone(data)
	if err != nil {
		return nil, nil, "", err
	}

	return t, raw, StandaloneFile, nil
}

func decodePyproject(data []byte) (*table, map[string]any, error) {
	var doc pyproject
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, nil, &Error{Reason: "could not parse " + PyProjectFile, Err: err}
	}

	if doc.Tool.Vendoring == nil {
		return nil, nil, nil
	}

	var raw rawPyproject
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, nil, &Error{Reason: "could not parse " + PyProjectFile, Err: err}
	}

	return doc.Tool.Vendoring, raw.Tool.Vendoring, nil
}

func decodeStandalone(data []byte) (*table, map[string]any, error) {
	var t table

	dec := yaml.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&t); err != nil {
		return nil, nil, &Error{Reason: "could not parse " + StandaloneFile, Err: err}
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, nil, &Error{Reason: "could not parse " + StandaloneFile, Err: err}
	}

	return &t, raw, nil
}

func unknownKeys(raw map[string]any) []string {
	var unknown []string

	keys := maps.Keys(raw)
	slices.Sort(keys)

	for _, key := range keys {
		nested, known := knownKeys[key]
		if !known {
			unknown = append(unknown, key)

			continue
		}

		sub, ok := raw[key].(map[string]any)
		if !ok || nested == nil {
			continue
		}

		subKeys := maps.Keys(sub)
		slices.Sort(subKeys)

		for _, subKey := range subKeys {
			if !slices.Contains(nested, subKey) {
				unknown = append(unknown, key+"."+subKey)
			}
		}
	}

	return unknown
}

func (t *table) validate(base m.Path) (m.Configuration, error) {
	cfg := m.Configuration{
		BaseDirectory:       base,
		ProtectedFiles:      t.ProtectedFiles,
		PreserveMetadata:    t.PreserveMetadata,
		Drop:                t.Transformations.Drop,
		TypingStubs:         t.TypingStubs,
		LicenseDirectories:  t.License.Directories,
		LicenseFallbackURLs: t.License.FallbackURLs,
	}

	var err error

	if cfg.Destination, err = requiredPath(base, "destination", t.Destination); err != nil {
		return m.Configuration{}, err
	}

	if cfg.Requirements, err = requiredPath(base, "requirements", t.Requirements); err != nil {
		return m.Configuration{}, err
	}

	if t.Namespace == nil {
		return m.Configuration{}, errors.New("expected 'namespace' to be provided")
	}

	cfg.Namespace = *t.Namespace
	if cfg.Namespace != "" && !rewrite.IsModuleName(cfg.Namespace) {
		return m.Configuration{}, fmt.Errorf("invalid value for 'namespace': %q is not a dotted module name", cfg.Namespace)
	}

	if cfg.PatchesDir, err = optionalPath(base, "patches-dir", t.PatchesDir); err != nil {
		return m.Configuration{}, err
	}

	if cfg.SBOMFile, err = optionalPath(base, "sbom-file", t.SBOMFile); err != nil {
		return m.Configuration{}, err
	}

	for i, sub := range t.Transformations.Substitute {
		if sub.Match == "" {
			return m.Configuration{}, fmt.Errorf("invalid value for 'transformations.substitute': entry %d has no 'match'", i+1)
		}

		cfg.Substitute = append(cfg.Substitute, m.Substitution{Match: sub.Match, Replace: sub.Replace})
	}

	return cfg, nil
}

func requiredPath(base m.Path, key string, value *string) (m.Path, error) {
	if value == nil {
		return "", fmt.Errorf("expected '%s' to be provided", key)
	}

	return resolvePath(base, key, *value)
}

func optionalPath(base m.Path, key string, value *string) (m.Path, error) {
	if value == nil || *value == "" {
		return "", nil
	}

	return resolvePath(base, key, *value)
}

// resolvePath anchors relative paths at base and rejects absolute paths
// outside of it.
func resolvePath(base m.Path, key, value string) (m.Path, error) {
	if value == "" {
		return "", fmt.Errorf("invalid value for '%s': empty path", key)
	}

	path := filepath.FromSlash(value)
	if !filepath.IsAbs(path) {
		return m.Path(filepath.Join(string(base), path)), nil
	}

	path = filepath.Clean(path)

	rel, err := filepath.Rel(string(base), path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("invalid value for '%s': expected %s to be in %s", key, path, base)
	}

	return m.Path(path), nil
}
