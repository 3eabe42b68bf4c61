package cli

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

// editCommand runs the terminal editor.
func (c *CLI) editCommand() *cobra.Command {
	var (
		output  string
		compact bool
	)

	cmd := &cobra.Command{
		Use:   "edit [file]",
		Short: "Delete branches interactively in the terminal",
		Long: `Edit lists every link of the tree. Deleting a link removes the branch below
it and lays the tree out again. Press w to write the result, q to discard it.

The result replaces the input file unless -o is given. Input read from stdin
is written to stdout.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := c.loadGraph(args[0])
			if err != nil {
				return err
			}

			model := NewEditorModel(cmd.Context(), g, c.editOptions(cmd, compact).Compact)
			progOpts := []tea.ProgramOption{tea.WithContext(cmd.Context()), tea.WithOutput(uiOut)}
			if args[0] == stdio {
				// stdin held the tree, so keys come from the terminal
				progOpts = append(progOpts, tea.WithInputTTY())
			}
			final, err := tea.NewProgram(model, progOpts...).Run()
			if err != nil {
				return err
			}
			m := final.(EditorModel)
			if !m.Saved {
				printInfo("Discarded changes")
				return nil
			}

			if output == "" {
				output = args[0]
			}
			printStats(m.Graph)
			return c.writeGraph(m.Graph, output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: overwrite input)")
	cmd.Flags().BoolVar(&compact, "compact", false, "start with compaction enabled (default from config)")
	return cmd
}
