package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// checkCommand validates a tree and reports its shape.
func (c *CLI) checkCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check [file]",
		Short: "Validate a lineage tree",
		Long: `Check reads a tree and verifies that it has exactly one root, that every
point has at most one parent, and that every link resolves to existing points.
Import already rejects most malformed trees; check reports the result.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := c.loadGraph(args[0])
			if err != nil {
				printError("%s is not a valid lineage tree", args[0])
				return err
			}
			if err := g.Validate(); err != nil {
				printError("%s is not a valid lineage tree", args[0])
				return err
			}

			printSuccess("%s is valid", args[0])
			printStats(g)
			leaves := 0
			for _, n := range g.Nodes() {
				if n.IsLeaf() {
					leaves++
				}
			}
			printDetail("%d timelines end in a leaf", leaves)
			return nil
		},
	}
}

// showCommand prints the tree structure.
func (c *CLI) showCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show [file]",
		Short: "Print a lineage tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := c.loadGraph(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(c.stdout, renderTree(g))
			printStats(g)
			return nil
		},
	}
}
