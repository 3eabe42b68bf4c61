package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/lineage/pkg/lineage/transform"
)

type editFlags struct {
	output  string
	compact bool
}

func (f *editFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "output file (default stdout)")
}

// pruneCommand deletes the branches below the given links.
func (c *CLI) pruneCommand() *cobra.Command {
	var flags editFlags

	cmd := &cobra.Command{
		Use:   "prune [file] [link...]",
		Short: "Delete the branches below one or more links",
		Long: `Prune removes each link, the point it leads to, and everything downstream of
that point, then lays the remaining tree out again from its root. Links that
were already removed by an earlier deletion are skipped.

Link IDs have the form <from>-<to>, e.g. 7_0-25_0.`,
		Example: `  lineage prune tree.json 7_0-25_0 -o pruned.json
  lineage sample | lineage prune - 7_0-25_0 --compact`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())
			g, err := c.loadGraph(args[0])
			if err != nil {
				return err
			}

			prog := newProgress(logger)
			res, err := transform.DeleteLinks(cmd.Context(), g, args[1:], c.editOptions(cmd, flags.compact))
			if err != nil {
				return fmt.Errorf("prune: %w", err)
			}
			prog.done(fmt.Sprintf("Pruned %d link(s)", len(args)-1))

			if !res.Found {
				printWarning("none of the links exist; tree unchanged")
			} else {
				printSuccess("Removed %d points and %d links", res.NodesRemoved, res.LinksRemoved)
			}
			if res.ChainsCollapsed > 0 {
				printDetail("collapsed %d chain point(s)", res.ChainsCollapsed)
			}
			printStats(g)
			return c.writeGraph(g, flags.output)
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&flags.compact, "compact", false, "collapse single-child chains after pruning (default from config)")
	return cmd
}

// simplifyCommand collapses single-child chains.
func (c *CLI) simplifyCommand() *cobra.Command {
	var flags editFlags

	cmd := &cobra.Command{
		Use:   "simplify [file]",
		Short: "Collapse points with exactly one parent and one child",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := c.loadGraph(args[0])
			if err != nil {
				return err
			}
			res, err := transform.Compact(cmd.Context(), g)
			if err != nil {
				return fmt.Errorf("simplify: %w", err)
			}

			printSuccess("Collapsed %d chain point(s)", res.ChainsCollapsed)
			printStats(g)
			return c.writeGraph(g, flags.output)
		},
	}

	flags.register(cmd)
	return cmd
}
