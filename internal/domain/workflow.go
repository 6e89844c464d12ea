package domain

import (
	"context"
	"runtime"

	"github.com/charmbracelet/log"

	"github.com/mouse-blink/vendoring/internal/adapter"
	"github.com/mouse-blink/vendoring/internal/config"
	"github.com/mouse-blink/vendoring/internal/domain/rewrite"
	m "github.com/mouse-blink/vendoring/internal/model"
)

// Reporter groups workflow steps into named tasks. Every task receives the
// logger its output should go to.
type Reporter interface {
	Task(name string, fn func(logger *log.Logger) error) error
	Logger() *log.Logger
}

// Workflow defines the vendoring operations exposed to the CLI.
type Workflow interface {
	// Sync replaces the vendored libraries of the project at location.
	Sync(ctx context.Context, reporter Reporter, location m.Path) (m.Summary, error)
	// RewriteTree rewrites the imports of every .py file under root whose
	// slash-separated relative path matches none of exclude.
	RewriteTree(logger *log.Logger, root m.Path, rules *rewrite.RuleSet, exclude ...string) ([]m.Path, error)
	// Update bumps pinned requirements to their latest release. An empty
	// pkg updates every requirement.
	Update(ctx context.Context, reporter Reporter, location m.Path, pkg string) ([]m.PinnedPackage, error)
	// Interactive upgrades one requirement at a time, syncing and committing
	// after each upgrade.
	Interactive(ctx context.Context, reporter Reporter, location m.Path, opts InteractiveOptions) error
	// SBOM writes a CycloneDX document describing the pinned requirements.
	SBOM(reporter Reporter, location m.Path) (m.Path, error)
}

// Adapters bundles the infrastructure the workflow talks to.
type Adapters struct {
	FS       adapter.SourceFSAdapter
	Runner   adapter.CommandRunner
	Index    adapter.PackageIndex
	Archives adapter.ArchiveReader
	Locker   adapter.ProjectLocker
	State    adapter.StateStore
}

// Options tune how external tools are invoked.
type Options struct {
	Pip     string
	Git     string
	Version string
	// Parallelism bounds concurrent archive reads and downloads.
	Parallelism int
}

type workflow struct {
	fsAdapter adapter.SourceFSAdapter
	runner    adapter.CommandRunner
	index     adapter.PackageIndex
	archives  adapter.ArchiveReader
	locker    adapter.ProjectLocker
	state     adapter.StateStore
	opts      Options
}

// NewWorkflow creates a new Workflow instance with the provided adapters.
func NewWorkflow(adapters Adapters, opts Options) Workflow {
	if opts.Pip == "" {
		opts.Pip = "pip"
	}

	if opts.Git == "" {
		opts.Git = "git"
	}

	if opts.Version == "" {
		opts.Version = "dev"
	}

	if opts.Parallelism <= 0 {
		opts.Parallelism = runtime.NumCPU()
	}

	return &workflow{
		fsAdapter: adapters.FS,
		runner:    adapters.Runner,
		index:     adapters.Index,
		archives:  adapters.Archives,
		locker:    adapters.Locker,
		state:     adapters.State,
		opts:      opts,
	}
}

func (w *workflow) loadConfig(reporter Reporter, location m.Path) (m.Configuration, error) {
	var cfg m.Configuration

	err := reporter.Task("Load configuration", func(logger *log.Logger) error {
		loaded, err := config.Load(location, logger)
		if err != nil {
			return err
		}

		cfg = loaded

		return nil
	})

	return cfg, err
}

func (w *workflow) lock(cfg m.Configuration) (func(), error) {
	if w.locker == nil {
		return func() {}, nil
	}

	release, err := w.locker.Lock(cfg.BaseDirectory)
	if err != nil {
		return nil, err
	}

	return func() {
		_ = release()
	}, nil
}

func (w *workflow) pip(args ...string) []string {
	return append([]string{w.opts.Pip}, args...)
}

func (w *workflow) git(args ...string) []string {
	return append([]string{w.opts.Git}, args...)
}

func (w *workflow) relative(base, path m.Path) string {
	rel, err := w.fsAdapter.RelPath(base, path)
	if err != nil {
		return string(path)
	}

	return string(rel)
}
