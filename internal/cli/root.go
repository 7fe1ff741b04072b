// Package cli implements the erwire command-line interface.
//
// erwire routes the relationship connectors of an entity-relationship
// diagram: given fixed entity boxes and their relationships, it computes
// orthogonal connector paths with hop arcs where connectors cross, plus the
// crow's-foot notation at both ends, and renders the result.
//
// # Commands
//
// The main commands are:
//   - route: Compute connector geometry and print a per-edge summary
//   - render: Generate SVG, JSON, DOT or Graphviz-rendered SVG outputs
//   - convert: Rewrite a diagram as JSON, YAML or TOML
//   - serve: Run the HTTP geometry service
//   - cache: Manage the geometry and artifact cache
//   - config: Inspect the configuration
//
// # Configuration
//
// Defaults come from $XDG_CONFIG_HOME/erwire/config.toml (or --config).
// Flags override the file.
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/erwire/pkg/buildinfo"
)

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "erwire routes crow's-foot connectors for ER diagrams",
		Long:         `erwire computes orthogonal connector paths, crossing hops and crow's-foot notation for entity-relationship diagrams, and renders them as SVG, JSON or Graphviz DOT.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configFile, "config", "", "config file (default $XDG_CONFIG_HOME/erwire/config.toml)")

	root.AddCommand(c.routeCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.convertCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the config file into c.Config.
func (c *CLI) loadConfig() error {
	path, err := c.resolveConfigPath()
	if err != nil {
		c.Logger.Debug("no config directory, using defaults", "error", err)
		return nil
	}
	cfg, err := LoadConfig(path, c.configFile != "")
	if err != nil {
		return err
	}
	c.Config = cfg
	c.Logger.Debug("loaded config", "path", path, "cache", cfg.Cache.Backend)
	return nil
}
