package cmd

import (
	"github.com/spf13/cobra"
)

// sbomCmd represents the sbom command.
var sbomCmd = newSBOMCmd()

func newSBOMCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sbom [location]",
		Short: "Write a CycloneDX SBOM of the pinned requirements",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ui, wf, err := setup(cmd)
			if err != nil {
				return err
			}

			location, err := projectLocation(args)
			if err != nil {
				return fail(cmd, ui, err)
			}

			path, err := wf.SBOM(ui, location)
			if err != nil {
				return fail(cmd, ui, err)
			}

			ui.DisplaySuccess("Wrote " + string(path))

			return nil
		},
	}
}

func init() {
	rootCmd.AddCommand(sbomCmd)
}
