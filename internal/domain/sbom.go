package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/log"

	m "github.com/mouse-blink/vendoring/internal/model"
)

const (
	cycloneDXSchema  = "http://cyclonedx.org/schema/bom-1.4.schema.json"
	cycloneDXVersion = "1.4"
)

// Struct fields are declared in alphabetical order of their JSON keys so
// the document is stable across runs.

type bom struct {
	Schema       string          `json:"$schema"`
	BOMFormat    string          `json:"bomFormat"`
	Components   []bomComponent  `json:"components"`
	Dependencies []bomDependency `json:"dependencies"`
	Metadata     bomMetadata     `json:"metadata"`
	SpecVersion  string          `json:"specVersion"`
	Version      int             `json:"version"`
}

type bomComponent struct {
	BOMRef  string `json:"bom-ref"`
	Name    string `json:"name"`
	PURL    string `json:"purl,omitempty"`
	Type    string `json:"type"`
	Version string `json:"version,omitempty"`
}

type bomDependency struct {
	DependsOn *[]string `json:"dependsOn,omitempty"`
	Ref       string    `json:"ref"`
}

type bomMetadata struct {
	Component bomComponent `json:"component"`
	Tools     []bomTool    `json:"tools"`
}

type bomTool struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// SBOM writes the CycloneDX document to the configured sbom-file.
func (w *workflow) SBOM(reporter Reporter, location m.Path) (m.Path, error) {
	cfg, err := w.loadConfig(reporter, location)
	if err != nil {
		return "", err
	}

	if cfg.SBOMFile == "" {
		return "", fmt.Errorf("no 'sbom-file' configured in %s", location)
	}

	err = reporter.Task("Generate SBOM", func(logger *log.Logger) error {
		return w.writeSBOM(logger, cfg)
	})

	return cfg.SBOMFile, err
}

func (w *workflow) writeSBOM(logger *log.Logger, cfg m.Configuration) error {
	packages, err := w.readRequirements(cfg.Requirements)
	if err != nil {
		return err
	}

	content, err := renderSBOM(cfg.Namespace, w.opts.Version, packages)
	if err != nil {
		return err
	}

	logger.Info("Writing SBOM", "file", w.relative(cfg.BaseDirectory, cfg.SBOMFile), "components", len(packages))

	return w.fsAdapter.WriteFile(cfg.SBOMFile, content, 0o644)
}

func renderSBOM(namespace, toolVersion string, packages []m.PinnedPackage) ([]byte, error) {
	top, _, _ := strings.Cut(namespace, ".")
	topRef := "bom-ref:" + top

	sorted := make([]m.PinnedPackage, len(packages))
	copy(sorted, packages)

	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Name != sorted[j].Name {
			return sorted[i].Name < sorted[j].Name
		}

		return sorted[i].Version < sorted[j].Version
	})

	components := make([]bomComponent, 0, len(sorted))
	refs := make([]string, 0, len(sorted))
	dependencies := []bomDependency{{Ref: topRef, DependsOn: &refs}}

	for _, pkg := range sorted {
		purl := packageURL(pkg.Name, pkg.Version)

		components = append(components, bomComponent{
			BOMRef:  purl,
			Name:    pkg.Name,
			PURL:    purl,
			Type:    "library",
			Version: pkg.Version,
		})
		refs = append(refs, purl)
		dependencies = append(dependencies, bomDependency{Ref: purl})
	}

	doc := bom{
		Schema:       cycloneDXSchema,
		BOMFormat:    "CycloneDX",
		Components:   components,
		Dependencies: dependencies,
		Metadata: bomMetadata{
			Component: bomComponent{BOMRef: topRef, Name: top, Type: "library"},
			Tools:     []bomTool{{Name: "vendoring", Version: toolVersion}},
		},
		SpecVersion: cycloneDXVersion,
		Version:     1,
	}

	var buf bytes.Buffer

	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")

	if err := enc.Encode(doc); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// packageURL builds `pkg:pypi/<name>@<version>`, percent-encoding every byte
// outside the unreserved set.
func packageURL(name, version string) string {
	return "pkg:pypi/" + percentEncode(name) + "@" + percentEncode(version)
}

func percentEncode(s string) string {
	const hex = "0123456789ABCDEF"

	var b strings.Builder

	for i := 0; i < len(s); i++ {
		c := s[i]

		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', isDigit(c), c == '_', c == '.', c == '-', c == '~':
			b.WriteByte(c)
		default:
			b.WriteByte('%')
			b.WriteByte(hex[c>>4])
			b.WriteByte(hex[c&0x0f])
		}
	}

	return b.String()
}
