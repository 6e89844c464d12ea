package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mouse-blink/vendoring/internal/domain/rewrite"
	m "github.com/mouse-blink/vendoring/internal/model"
)

var rewriteRuleFlags []string
var rewriteExcludeFlags []string

// rewriteCmd represents the rewrite command.
var rewriteCmd = newRewriteCmd()

func newRewriteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rewrite <root>",
		Short: "Rewrite the imports of every .py file under a directory",
		Example: `  vendoring rewrite src/pip/_vendor --rule requests=pip._vendor --rule urllib3=pip._vendor
  vendoring rewrite vendored --rule six=pkg.vendored --exclude 'tests/**'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ui, wf, err := setup(cmd)
			if err != nil {
				return err
			}

			rules, err := parseRules(rewriteRuleFlags)
			if err != nil {
				return fail(cmd, ui, err)
			}

			root, err := filepath.Abs(args[0])
			if err != nil {
				return fail(cmd, ui, err)
			}

			changed, err := wf.RewriteTree(ui.Logger(), m.Path(root), rules, rewriteExcludeFlags...)
			if err != nil {
				return fail(cmd, ui, err)
			}

			ui.DisplayRewritten(m.Path(args[0]), changed)

			return nil
		},
	}
	cmd.Flags().StringArrayVarP(&rewriteRuleFlags, "rule", "r", nil, "rewrite rule as module=namespace (can be repeated)")
	cmd.Flags().StringArrayVarP(&rewriteExcludeFlags, "exclude", "x", nil, "skip files matching a glob relative to root (can be repeated)")
	_ = cmd.MarkFlagRequired("rule")

	return cmd
}

// parseRules turns module=namespace pairs into a rule set.
func parseRules(values []string) (*rewrite.RuleSet, error) {
	rules := make([]rewrite.Rule, 0, len(values))

	for _, value := range values {
		module, namespace, ok := strings.Cut(value, "=")
		module, namespace = strings.TrimSpace(module), strings.TrimSpace(namespace)

		if !ok || module == "" || namespace == "" {
			return nil, fmt.Errorf("invalid rule %q: expected module=namespace", value)
		}

		rules = append(rules, rewrite.Rule{Module: module, Namespace: namespace})
	}

	return rewrite.NewRuleSet(rules...)
}

func init() {
	rootCmd.AddCommand(rewriteCmd)
}
