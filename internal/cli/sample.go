package cli

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	lerrors "github.com/matzehuels/lineage/pkg/errors"
	"github.com/matzehuels/lineage/pkg/lineage"
	"github.com/matzehuels/lineage/pkg/lineage/generate"
)

var sampleKinds = []string{"sample", "chain", "star", "random"}

type sampleOpts struct {
	kind   string
	size   int
	seed   uint64
	output string
}

// sampleCommand writes a generated tree, the easiest way to get input for
// the other commands.
func (c *CLI) sampleCommand() *cobra.Command {
	opts := sampleOpts{kind: "sample", size: 20, seed: 42}

	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Write a generated lineage tree as JSON",
		Example: `  lineage sample -o tree.json
  lineage sample --kind random --size 50 --seed 7 | lineage show -`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := generateTree(opts)
			if err != nil {
				return err
			}
			loggerFromContext(cmd.Context()).Debug("Generated tree", "kind", opts.kind, "nodes", g.NodeCount())
			if err := c.writeGraph(g, opts.output); err != nil {
				return err
			}
			if opts.output != "" && opts.output != stdio {
				printNextStep("Edit it", appName+" edit "+opts.output)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVar(&opts.kind, "kind", opts.kind, "tree shape: "+strings.Join(sampleKinds, ", "))
	cmd.Flags().IntVarP(&opts.size, "size", "n", opts.size, "number of points (chain, random) or leaves (star)")
	cmd.Flags().Uint64Var(&opts.seed, "seed", opts.seed, "random seed")
	_ = cmd.RegisterFlagCompletionFunc("kind", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return describeKinds(), cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func generateTree(opts sampleOpts) (*lineage.Graph, error) {
	if !slices.Contains(sampleKinds, opts.kind) {
		return nil, lerrors.New(lerrors.ErrCodeInvalidInput, "unknown kind %q (want %s)", opts.kind, strings.Join(sampleKinds, ", "))
	}
	if opts.kind != "sample" && opts.size < 0 {
		return nil, lerrors.New(lerrors.ErrCodeInvalidInput, "size must not be negative, got %d", opts.size)
	}

	switch opts.kind {
	case "chain":
		return generate.Chain(opts.size), nil
	case "star":
		return generate.Star(opts.size), nil
	case "random":
		return generate.Random(opts.seed, opts.size), nil
	default:
		return generate.Sample(), nil
	}
}

func describeKinds() []string {
	out := make([]string, len(sampleKinds))
	for i, k := range sampleKinds {
		out[i] = fmt.Sprintf("%s\t%s tree", k, k)
	}
	return out
}
