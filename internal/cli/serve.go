package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/erwire/internal/server"
)

// serveCommand creates the serve command, which runs the HTTP geometry
// service until interrupted.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP geometry service",
		Long: `Serve the routing pipeline over HTTP:

  GET  /healthz
  POST /v1/geometry          {"diagram": {...}, "edge_id": "..."}
  POST /v1/render?format=svg {"diagram": {...}}

The listen address and cache backend come from the [server] and [cache]
sections of the config file. Use backend = "redis" to share one cache
between instances.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if addr == "" {
				addr = c.Config.Server.Addr
			}

			runner, err := c.newRunner(ctx, false)
			if err != nil {
				return err
			}
			defer runner.Close()

			out := cmd.OutOrStdout()
			printKeyValue(out, "listen", addr)
			printKeyValue(out, "cache", c.Config.Cache.Backend)

			srv := server.New(runner, loggerFromContext(ctx), server.WithDefaults(c.Config.PipelineOptions()))
			return srv.ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	return cmd
}
