package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/lineage/internal/server"
)

// serveCommand starts the browser editor.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		compact bool
	)

	cmd := &cobra.Command{
		Use:   "serve [file]",
		Short: "Edit a lineage tree in the browser",
		Long: `Serve loads a tree and serves it over HTTP. The page at / shows the timeline;
clicking a link deletes the branch below it. The JSON API is:

  GET    /graph          the current tree
  GET    /graph.svg      the timeline drawing
  GET    /graph/root     the current root ID
  DELETE /links/{id}     delete a branch (?compact=true|false)
  POST   /simplify       collapse single-child chains

Edits are held in memory; the file on disk is not changed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := c.loadGraph(args[0])
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("addr") {
				addr = c.Config.Server.Addr
			}

			srv := server.New(g, server.Options{
				Edit:     c.editOptions(cmd, compact),
				Timeline: c.timelineOptions(),
				Logger:   loggerFromContext(cmd.Context()),
			})
			printInfo("Serving %s at %s", args[0], StyleLink.Render("http://"+addr))
			printDetail("session %s", srv.Session())
			return srv.ListenAndServe(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, 127.0.0.1:8080)")
	cmd.Flags().BoolVar(&compact, "compact", false, "collapse single-child chains after each deletion (default from config)")
	return cmd
}
