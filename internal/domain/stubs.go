package domain

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	m "github.com/mouse-blink/vendoring/internal/model"
)

type stubFile struct {
	rel        string
	importName string
}

// stubFilesFor returns the .pyi files generated for lib. Without an override
// a single `<lib>.pyi` re-exports the library.
func stubFilesFor(lib string, overrides map[string][]string) []stubFile {
	names, ok := overrides[lib]
	if !ok {
		return []stubFile{{rel: lib + ".pyi", importName: lib}}
	}

	stubs := make([]stubFile, 0, len(names))

	for _, importName := range names {
		rel := filepath.Join(strings.Split(importName, ".")...) + ".pyi"

		// `pkg/__init__.pyi` re-exports `pkg`, not `pkg.__init__`.
		importName = strings.TrimSuffix(importName, ".__init__")

		stubs = append(stubs, stubFile{rel: rel, importName: importName})
	}

	return stubs
}

// generateStubs writes `from <lib> import *` stubs so type checkers resolve
// the vendored libraries.
func (w *workflow) generateStubs(logger *log.Logger, cfg m.Configuration, libraries []m.Library) ([]m.Path, error) {
	var written []m.Path

	for _, lib := range libraries {
		for _, stub := range stubFilesFor(lib.Name, cfg.TypingStubs) {
			dest := cfg.Destination.Join(stub.rel)

			if err := w.fsAdapter.WriteFile(dest, []byte(fmt.Sprintf("from %s import *", stub.importName)), 0o644); err != nil {
				return written, err
			}

			logger.Debug("Wrote stub", "file", stub.rel, "import", stub.importName)

			written = append(written, dest)
		}
	}

	return written, nil
}
