// Package cli implements the lineage command-line interface.
//
// The commands read a lineage tree from a JSON or YAML file (or "-" for JSON
// on stdin), apply one operation, and write the result:
//
//   - sample: write a generated tree
//   - check: validate a tree and print its shape
//   - show: print the tree structure
//   - prune: delete the branches below one or more links
//   - simplify: collapse single-child chains
//   - layout: recompute display rows from the root
//   - render: draw a timeline or node-link diagram
//   - edit: delete branches interactively in the terminal
//   - serve: edit in the browser over HTTP
//   - cache: inspect or clear the render cache
//
// # Configuration
//
// Settings come from $XDG_CONFIG_HOME/lineage/config.toml or --config, see
// the config package. Flags override the file.
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context.
package cli

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/lineage/pkg/buildinfo"
	"github.com/matzehuels/lineage/pkg/config"
	lio "github.com/matzehuels/lineage/pkg/io"
	"github.com/matzehuels/lineage/pkg/lineage"
	"github.com/matzehuels/lineage/pkg/lineage/transform"
	"github.com/matzehuels/lineage/pkg/render/timeline"
)

// appName is the application name used for directories and display.
const appName = "lineage"

// stdio is the path that selects stdin or stdout.
const stdio = "-"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config config.Config

	configPath string
	verbose    bool
	stdin      io.Reader
	stdout     io.Writer
}

// New creates a new CLI instance with a default logger and default settings.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
		stdin:  os.Stdin,
		stdout: os.Stdout,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:               appName,
		Short:             "Lineage edits trees of simulation timelines",
		Long:              `Lineage keeps a tree of branching simulation timelines, prunes branches on request, and lays the remaining tree out so every parent sits on the row of its topmost child.`,
		Version:           buildinfo.Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/lineage/config.toml)")

	root.AddCommand(c.sampleCommand())
	root.AddCommand(c.checkCommand())
	root.AddCommand(c.showCommand())
	root.AddCommand(c.pruneCommand())
	root.AddCommand(c.simplifyCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.editCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// setup loads the config, settles the log level and registers the logging
// hooks before any command runs.
func (c *CLI) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.Config = cfg

	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = log.InfoLevel
	}
	if c.verbose {
		level = log.DebugLevel
	}
	c.SetLogLevel(level)
	registerHooks(c.Logger)

	cmd.SetContext(withLogger(cmd.Context(), c.Logger))
	return nil
}

// =============================================================================
// Input / Output
// =============================================================================

// loadGraph reads a tree from path, or JSON from stdin if path is "-".
func (c *CLI) loadGraph(path string) (*lineage.Graph, error) {
	if path == stdio {
		g, err := lio.ReadJSON(c.stdin)
		if err != nil {
			return nil, err
		}
		g.Meta()["source"] = "stdin"
		return g, nil
	}
	return lio.ImportFile(path)
}

// writeGraph writes g as JSON to path, or to stdout if path is "" or "-".
func (c *CLI) writeGraph(g *lineage.Graph, path string) error {
	if path == "" || path == stdio {
		return lio.WriteJSON(g, c.stdout)
	}
	if err := lio.ExportJSON(g, path); err != nil {
		return err
	}
	printFile(path)
	return nil
}

// editOptions resolves compaction from the config, overridden by the
// --compact flag when it was set.
func (c *CLI) editOptions(cmd *cobra.Command, compact bool) transform.Options {
	opts := transform.Options{Compact: c.Config.Edit.Compact}
	if cmd.Flags().Changed("compact") {
		opts.Compact = compact
	}
	return opts
}

// timelineOptions converts the [render] config section.
func (c *CLI) timelineOptions() []timeline.Option {
	r := c.Config.Render
	return []timeline.Option{
		timeline.WithScale(r.Scale),
		timeline.WithTranslate(r.TranslateX, r.TranslateY),
		timeline.WithNodeRadius(r.NodeRadius),
		timeline.WithStrokeWidth(r.StrokeWidth),
	}
}
