package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/lineage/pkg/lineage/layout"
	"github.com/matzehuels/lineage/pkg/lineage/transform"
)

// layoutCommand recomputes display rows without changing the structure.
func (c *CLI) layoutCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "layout [file]",
		Short: "Recompute display rows from the root",
		Long: `Layout moves every point so that it shares the row of its topmost child.
Siblings keep their relative order and spacing; only whole groups shift.
Structure and time coordinates are left alone.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := c.loadGraph(args[0])
			if err != nil {
				return err
			}

			before := len(layout.Rows(g))
			root := transform.Reposition(cmd.Context(), g)
			if root == "" {
				printWarning("tree is empty; nothing to lay out")
				return c.writeGraph(g, output)
			}

			after := len(layout.Rows(g))
			printSuccess("Laid out from %s", StyleValue.Render(root))
			printDetail("rows: %d %s %d", before, iconArrow, after)
			return c.writeGraph(g, output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	return cmd
}
