// Package cmd provides the root command and CLI setup for vendoring.
package cmd

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mouse-blink/vendoring/internal/adapter"
	"github.com/mouse-blink/vendoring/internal/controller"
	"github.com/mouse-blink/vendoring/internal/domain"
	m "github.com/mouse-blink/vendoring/internal/model"
)

// Version is the semantic version (set via -ldflags).
var Version = "dev"

// envPrefix namespaces the environment variables mirroring the global flags.
const envPrefix = "VENDORING"

// Settings are the global flags after environment overrides were applied.
type Settings struct {
	Verbose  bool   `mapstructure:"verbose"`
	Pip      string `mapstructure:"pip"`
	Git      string `mapstructure:"git"`
	IndexURL string `mapstructure:"index-url"`
	CacheDir string `mapstructure:"cache-dir"`
}

var (
	newWorkflow func(settings Settings) domain.Workflow
	newUI       func(cmd *cobra.Command, settings Settings) controller.UI
)

func init() {
	newWorkflow = newLocalWorkflow
	newUI = func(cmd *cobra.Command, settings Settings) controller.UI {
		return controller.NewUI(cmd, controller.IsTTY(cmd.OutOrStdout()), settings.Verbose)
	}
}

func newLocalWorkflow(settings Settings) domain.Workflow {
	return domain.NewWorkflow(domain.Adapters{
		FS:       adapter.NewLocalSourceFSAdapter(),
		Runner:   adapter.NewLocalCommandRunner(),
		Index:    adapter.NewHTTPPackageIndex(settings.IndexURL, nil),
		Archives: adapter.NewLocalArchiveReader(),
		Locker:   adapter.NewLocalProjectLocker(m.Path(settings.CacheDir)),
		State:    adapter.NewStateStore(),
	}, domain.Options{
		Pip:     settings.Pip,
		Git:     settings.Git,
		Version: Version,
	})
}

// rootCmd represents the base command when called without any subcommands.
var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vendoring",
		Short: "Vendor pure-Python dependencies into a project",
		Long: `vendoring copies pinned pure-Python dependencies into a project's tree and
rewrites their imports so they resolve under the project's namespace.

The project is configured through [tool.vendoring] in pyproject.toml, or
vendoring.yaml next to it. Global flags can also be set through VENDORING_*
environment variables, for example VENDORING_PIP=pip3.`,
	}

	flags := cmd.PersistentFlags()
	flags.BoolP("verbose", "v", false, "stream the output of every task")
	flags.String("pip", "pip", "pip executable used to install and download requirements")
	flags.String("git", "git", "git executable used to apply patches and commit upgrades")
	flags.String("index-url", adapter.DefaultIndexURL, "base URL of the PyPI JSON API")
	flags.String("cache-dir", defaultCacheDir(), "directory for lock files")

	return cmd
}

func defaultCacheDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}

	return filepath.Join(dir, "vendoring")
}

// loadSettings merges the parsed flags of cmd with VENDORING_* variables.
// Flags given on the command line win over the environment.
func loadSettings(cmd *cobra.Command) (Settings, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return Settings{}, err
	}

	var settings Settings
	if err := v.Unmarshal(&settings); err != nil {
		return Settings{}, err
	}

	return settings, nil
}

// setup resolves settings and builds the UI and workflow for one command run.
func setup(cmd *cobra.Command) (controller.UI, domain.Workflow, error) {
	settings, err := loadSettings(cmd)
	if err != nil {
		return nil, nil, err
	}

	return newUI(cmd, settings), newWorkflow(settings), nil
}

// projectLocation turns the optional location argument into an absolute
// path, defaulting to the working directory.
func projectLocation(args []string) (m.Path, error) {
	location := "."
	if len(args) > 0 {
		location = args[0]
	}

	abs, err := filepath.Abs(location)
	if err != nil {
		return "", err
	}

	return m.Path(abs), nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(Version),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}

		os.Exit(1)
	}
}
