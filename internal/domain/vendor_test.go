package domain

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mouse-blink/vendoring/internal/adapter"
	"github.com/mouse-blink/vendoring/internal/config"
	m "github.com/mouse-blink/vendoring/internal/model"
)

func loadFixtureConfig(t *testing.T, f *fixture) m.Configuration {
	t.Helper()

	cfg, err := config.Load(f.root, newRecordingReporter().Logger())
	require.NoError(t, err)

	return cfg
}

// installRequests pretends to be `pip install -t <dest>`.
func installRequests(t *testing.T) func(command []string) {
	return func(command []string) {
		dest := flagValue(command, "-t")
		writeFile(t, filepath.Join(dest, "requests", "__init__.py"), "from requests.models import Response\nimport six\n")
		writeFile(t, filepath.Join(dest, "requests", "models.py"), "import os\n")
		writeFile(t, filepath.Join(dest, "requests-2.31.0.dist-info", "METADATA"), "")
		writeFile(t, filepath.Join(dest, "six.py"), "import sys\n")
		writeFile(t, filepath.Join(dest, "bin", "tool"), "")
		writeFile(t, filepath.Join(dest, "six.pyi"), "")
		writeFile(t, filepath.Join(dest, "README.md"), "")
	}
}

func TestVendorLibraries(t *testing.T) {
	f := newFixture(t, projectPyproject+`
[tool.vendoring.transformations]
drop = ["bin/"]
substitute = [{ match = 'import sys', replace = 'import sys  # vendored' }]
`)
	cfg := loadFixtureConfig(t, f)

	f.expectPip("install", func(command []string) {
		assert.Equal(t, []string{
			"pip", "install", "-t", f.vendor(), "-r", f.vendor("vendor.txt"), "--no-compile", "--no-deps",
		}, command)
		installRequests(t)(command)
	}).Once()

	reporter := newRecordingReporter()

	result, err := f.wf.vendorLibraries(t.Context(), reporter.Logger(), cfg)
	require.NoError(t, err)

	assert.Equal(t, []m.Library{
		{Name: "requests", Kind: m.LibraryPackage},
		{Name: "six", Kind: m.LibraryModule},
	}, result.libraries)
	assert.Equal(t, map[string]int{"requests": 1, "six": 1}, result.rewritten)
	assert.Empty(t, result.patches)

	assert.Equal(t,
		"from pkg._vendor.requests.models import Response\nimport pkg._vendor.six\n",
		readFile(t, f.vendor("requests", "__init__.py")))
	assert.Equal(t, "import sys  # vendored\n", readFile(t, f.vendor("six.py")))
	assert.NoDirExists(t, f.vendor("requests-2.31.0.dist-info"))
	assert.NoDirExists(t, f.vendor("bin"))
	assert.Contains(t, reporter.buf.String(), "Got unexpected non-Python file")
}

func TestVendorLibraries_PreserveMetadataWithoutNamespace(t *testing.T) {
	f := newFixture(t, `
[tool.vendoring]
destination = "src/pkg/_vendor/"
requirements = "src/pkg/_vendor/vendor.txt"
namespace = ""
preserve-metadata = true
`)
	cfg := loadFixtureConfig(t, f)

	f.expectPip("install", installRequests(t)).Once()

	result, err := f.wf.vendorLibraries(t.Context(), newRecordingReporter().Logger(), cfg)
	require.NoError(t, err)

	assert.Empty(t, result.rewritten)
	assert.DirExists(t, f.vendor("requests-2.31.0.dist-info"))
	assert.Equal(t, "from requests.models import Response\nimport six\n", readFile(t, f.vendor("requests", "__init__.py")))
}

func TestVendorLibraries_PipFailure(t *testing.T) {
	f := newFixture(t, projectPyproject)
	cfg := loadFixtureConfig(t, f)

	f.runner.On("Run", mock.Anything, mock.Anything, m.Path(""), mock.Anything).
		Return(&adapter.CommandError{Command: "pip install", ExitCode: 1}).Once()

	_, err := f.wf.vendorLibraries(t.Context(), newRecordingReporter().Logger(), cfg)

	var cmdErr *adapter.CommandError
	require.True(t, errors.As(err, &cmdErr))
	assert.Equal(t, 1, cmdErr.ExitCode)
}

func TestApplyPatches(t *testing.T) {
	t.Run("applies in name order from the project root", func(t *testing.T) {
		f := newFixture(t, projectPyproject+`patches-dir = "patches"`+"\n")
		writeFile(t, f.path("patches", "b.patch"), "")
		writeFile(t, f.path("patches", "a.patch"), "")
		writeFile(t, f.path("patches", "notes.txt"), "")

		cfg := loadFixtureConfig(t, f)

		var applied []string

		f.runner.On("Run", mock.Anything, mock.Anything, f.root, mock.Anything).
			Run(func(args mock.Arguments) {
				command := args.Get(3).([]string)
				applied = append(applied, filepath.Base(command[len(command)-1]))
				assert.Equal(t, []string{"git", "apply", "--verbose"}, command[:3])
			}).Return(nil).Twice()

		patches, err := f.wf.applyPatches(t.Context(), newRecordingReporter().Logger(), cfg)
		require.NoError(t, err)

		assert.Len(t, patches, 2)
		assert.Equal(t, []string{"a.patch", "b.patch"}, applied)
	})

	t.Run("missing directory warns", func(t *testing.T) {
		f := newFixture(t, projectPyproject+`patches-dir = "patches"`+"\n")
		cfg := loadFixtureConfig(t, f)
		reporter := newRecordingReporter()

		patches, err := f.wf.applyPatches(t.Context(), reporter.Logger(), cfg)
		require.NoError(t, err)
		assert.Empty(t, patches)
		assert.Contains(t, reporter.buf.String(), "Patches directory does not exist")
	})
}

func TestDropMatching_AnchoredAtStart(t *testing.T) {
	dest := t.TempDir()
	writeFile(t, filepath.Join(dest, "setuptools", "x.py"), "")
	writeFile(t, filepath.Join(dest, "pkg", "setuptools.py"), "")
	writeFile(t, filepath.Join(dest, "six.py"), "")

	wf := NewWorkflow(Adapters{FS: adapter.NewLocalSourceFSAdapter()}, Options{}).(*workflow)

	require.NoError(t, wf.dropMatching(newRecordingReporter().Logger(), m.Path(dest), "setuptools"))

	assert.NoDirExists(t, filepath.Join(dest, "setuptools"))
	assert.FileExists(t, filepath.Join(dest, "pkg", "setuptools.py"), "patterns are anchored at the start")
	assert.FileExists(t, filepath.Join(dest, "six.py"))

	require.Error(t, wf.dropMatching(newRecordingReporter().Logger(), m.Path(dest), "("))
}

func TestDropMatching_DirectoriesAreNotLibraries(t *testing.T) {
	tests := []struct {
		name      string
		pattern   string
		gone      []string
		kept      []string
		libraries []string
	}{
		{
			name:      "trailing slash drops the directory",
			pattern:   "bin/",
			gone:      []string{"bin"},
			kept:      []string{"setuptools", "requests/_speedups.so"},
			libraries: []string{"requests", "setuptools", "six"},
		},
		{
			name:      "bare name drops the directory as a prefix",
			pattern:   "setuptools",
			gone:      []string{"setuptools"},
			kept:      []string{"bin", "requests/_speedups.so"},
			libraries: []string{"bin", "requests", "six"},
		},
		{
			name:      "suffix pattern drops files at any depth",
			pattern:   `.*\.so$`,
			gone:      []string{"requests/_speedups.so", "six.cpython.so"},
			kept:      []string{"bin", "setuptools", "requests/__init__.py"},
			libraries: []string{"bin", "requests", "setuptools", "six"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, projectPyproject)
			cfg := loadFixtureConfig(t, f)

			writeFile(t, f.vendor("bin", "tool"), "")
			writeFile(t, f.vendor("setuptools", "__init__.py"), "")
			writeFile(t, f.vendor("requests", "__init__.py"), "")
			writeFile(t, f.vendor("requests", "_speedups.so"), "")
			writeFile(t, f.vendor("six.py"), "")
			writeFile(t, f.vendor("six.cpython.so"), "")

			logger := newRecordingReporter().Logger()

			require.NoError(t, f.wf.dropMatching(logger, cfg.Destination, tt.pattern))

			for _, rel := range tt.gone {
				assert.NoFileExists(t, f.vendor(rel))
				assert.NoDirExists(t, f.vendor(rel))
			}

			for _, rel := range tt.kept {
				_, err := os.Stat(f.vendor(rel))
				assert.NoError(t, err, rel)
			}

			libraries, err := f.wf.detectLibraries(logger, cfg)
			require.NoError(t, err)

			var names []string
			for _, lib := range libraries {
				names = append(names, lib.Name)
			}

			assert.Equal(t, tt.libraries, names)
		})
	}
}
