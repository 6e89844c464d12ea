package cmd

import (
	"github.com/spf13/cobra"
)

// updateCmd represents the update command.
var updateCmd = newUpdateCmd()

func newUpdateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "update [location] [package]",
		Short: "Pin requirements to their latest release",
		Long: `Ask the package index for the latest release of every pinned requirement,
or only of the named package, and rewrite the requirements file.`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ui, wf, err := setup(cmd)
			if err != nil {
				return err
			}

			location, err := projectLocation(args)
			if err != nil {
				return fail(cmd, ui, err)
			}

			pkg := ""
			if len(args) > 1 {
				pkg = args[1]
			}

			updated, err := wf.Update(cmd.Context(), ui, location, pkg)
			if err != nil {
				return fail(cmd, ui, err)
			}

			ui.DisplayUpdates(updated)

			return nil
		},
	}
}

func init() {
	rootCmd.AddCommand(updateCmd)
}
