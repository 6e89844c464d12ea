package cmd

import (
	"github.com/spf13/cobra"
)

// syncCmd represents the sync command.
var syncCmd = newSyncCmd()

func newSyncCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sync [location]",
		Short: "Replace the vendored libraries with the pinned requirements",
		Long: `Clean the destination, install the pinned requirements into it, rewrite
their imports under the configured namespace, apply patches, copy licenses
and generate typing stubs. An SBOM is written when sbom-file is configured.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ui, wf, err := setup(cmd)
			if err != nil {
				return err
			}

			location, err := projectLocation(args)
			if err != nil {
				return fail(cmd, ui, err)
			}

			summary, err := wf.Sync(cmd.Context(), ui, location)
			if err != nil {
				return fail(cmd, ui, err)
			}

			ui.DisplaySummary(summary)

			return nil
		},
	}
}

func init() {
	rootCmd.AddCommand(syncCmd)
}
