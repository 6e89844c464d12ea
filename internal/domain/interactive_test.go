package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	m "github.com/mouse-blink/vendoring/internal/model"
)

// expectSyncRuns answers the pip calls of n sync runs with an empty install.
func (f *fixture) expectSyncRuns(n int) {
	f.expectPip("install", func([]string) {}).Times(n)
	f.expectPip("download", func([]string) {}).Times(n)
}

func (f *fixture) expectGit(args ...string) {
	f.runner.On("Run", mock.Anything, mock.Anything, f.root, append([]string{"git"}, args...)).Return(nil).Once()
}

func TestInteractive(t *testing.T) {
	t.Run("upgrades outdated packages one by one", func(t *testing.T) {
		f := newFixture(t, projectPyproject)
		writeFile(t, f.vendor("vendor.txt"), "requests==2.30.0\nsix==1.16.0\n")

		f.expectLock()
		f.index.On("LatestVersion", mock.Anything, "requests").Return("2.31.0", nil).Once()
		f.index.On("LatestVersion", mock.Anything, "six").Return("1.16.0", nil).Once()
		f.expectSyncRuns(1)
		f.expectGit("add", f.path("news", "requests.vendor.rst"))
		f.expectGit("commit", "-m", "Upgrade requests to 2.31.0")

		reporter := newRecordingReporter()

		err := f.wf.Interactive(t.Context(), reporter, f.root, InteractiveOptions{})
		require.NoError(t, err)

		assert.Equal(t, "requests==2.31.0\nsix==1.16.0\n", readFile(t, f.vendor("vendor.txt")))
		assert.Equal(t, "Upgrade requests to 2.31.0\n", readFile(t, f.path("news", "requests.vendor.rst")))
		assert.NoFileExists(t, f.path(StateFile))
		assert.Contains(t, reporter.buf.String(), "Processing 2 package(s)")
		assert.Contains(t, reporter.buf.String(), "All done, removing marker file")
	})

	t.Run("resumes from the saved package", func(t *testing.T) {
		f := newFixture(t, projectPyproject)
		writeFile(t, f.vendor("vendor.txt"), "requests==2.30.0\nsix==1.17.0\n")
		writeFile(t, f.path(StateFile), "six")

		f.expectLock()
		f.index.On("LatestVersion", mock.Anything, "six").Return("1.17.0", nil).Once()
		f.expectSyncRuns(1)
		f.expectGit("add", f.path("news", "six.vendor.rst"))
		f.expectGit("commit", "-m", "Upgrade six to 1.17.0")

		reporter := newRecordingReporter()

		err := f.wf.Interactive(t.Context(), reporter, f.root, InteractiveOptions{Skip: []string{"requests"}})
		require.NoError(t, err)

		assert.Contains(t, reporter.buf.String(), "Resuming from six==1.17.0")
		assert.Contains(t, reporter.buf.String(), "Processing remaining 1 package(s)")
		assert.NoFileExists(t, f.path(StateFile))
	})

	t.Run("from start discards the saved package", func(t *testing.T) {
		f := newFixture(t, projectPyproject)
		writeFile(t, f.vendor("vendor.txt"), "requests==2.31.0\n")
		writeFile(t, f.path(StateFile), "gone")

		f.expectLock()
		f.index.On("LatestVersion", mock.Anything, "requests").Return("2.31.0", nil).Once()

		err := f.wf.Interactive(t.Context(), newRecordingReporter(), f.root, InteractiveOptions{FromStart: true})
		require.NoError(t, err)
	})

	t.Run("saved package no longer pinned", func(t *testing.T) {
		f := newFixture(t, projectPyproject)
		writeFile(t, f.vendor("vendor.txt"), "requests==2.31.0\n")
		writeFile(t, f.path(StateFile), "gone")

		f.expectLock()

		err := f.wf.Interactive(t.Context(), newRecordingReporter(), f.root, InteractiveOptions{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "--from-start")
	})
}

func TestDeterminePackages(t *testing.T) {
	packages := []m.PinnedPackage{
		{Name: "requests", Version: "2.31.0"},
		{Name: "six", Version: "1.16.0"},
		{Name: "idna", Version: "3.4"},
	}

	tests := []struct {
		name     string
		resuming string
		opts     InteractiveOptions
		want     []string
		wantErr  string
	}{
		{name: "everything", want: []string{"requests", "six", "idna"}},
		{name: "skip", opts: InteractiveOptions{Skip: []string{"six"}}, want: []string{"requests", "idna"}},
		{name: "only keeps its own order", opts: InteractiveOptions{Only: []string{"idna", "six"}}, want: []string{"idna", "six"}},
		{name: "only unknown", opts: InteractiveOptions{Only: []string{"urllib3"}}, wantErr: "package urllib3 is not in the requirements file"},
		{name: "resume skipped", resuming: "six", opts: InteractiveOptions{Skip: []string{"six"}}, wantErr: "in the skip list"},
		{name: "resume outside only", resuming: "six", opts: InteractiveOptions{Only: []string{"idna"}}, wantErr: "not in the only list"},
		{name: "resume unknown", resuming: "urllib3", wantErr: "not in the requirements file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := determinePackages(packages, tt.resuming, tt.opts)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
