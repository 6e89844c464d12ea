package cmd

import (
	"github.com/spf13/cobra"

	"github.com/mouse-blink/vendoring/internal/domain"
)

var interactiveSkipFlags []string
var interactiveOnlyFlags []string
var interactiveFromStartFlag bool

// interactiveCmd represents the interactive command.
var interactiveCmd = newInteractiveCmd()

func newInteractiveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "interactive [location]",
		Short: "Upgrade requirements one at a time, committing each upgrade",
		Long: `Walk the requirements file one package at a time. Every package with a
newer release is upgraded, synced, described in news/<name>.vendor.rst and
committed with git. An interrupted run resumes from the package it was
working on unless --from-start is given.`,
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

			err = wf.Interactive(cmd.Context(), ui, location, domain.InteractiveOptions{
				Skip:      interactiveSkipFlags,
				Only:      interactiveOnlyFlags,
				FromStart: interactiveFromStartFlag,
			})
			if err != nil {
				return fail(cmd, ui, err)
			}

			return nil
		},
	}
	cmd.Flags().StringSliceVar(&interactiveSkipFlags, "skip", nil, "packages to leave alone")
	cmd.Flags().StringSliceVar(&interactiveOnlyFlags, "only", nil, "packages to upgrade, in this order")
	cmd.Flags().BoolVar(&interactiveFromStartFlag, "from-start", false, "discard the saved position and start over")
	cmd.MarkFlagsMutuallyExclusive("skip", "only")

	return cmd
}

func init() {
	rootCmd.AddCommand(interactiveCmd)
}
