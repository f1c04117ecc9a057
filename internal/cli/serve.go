package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/graphview/pkg/explore"
	"github.com/matzehuels/graphview/pkg/server"
)

// serveCommand creates the serve command, which exposes sessions over HTTP.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the normalization and session API over HTTP",
		Long: `Serve starts the HTTP API. Sessions are kept in the configured cache backend;
use --redis to share them between several server processes. When a Neo4j
database is configured, sessions can be expanded by vertex id.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			runner, closeStore, err := c.newRunner(ctx)
			if err != nil {
				return err
			}
			defer closeStore()

			var src explore.Source
			if c.Config.Neo4j.URI != "" {
				s, err := c.openSource(ctx)
				if err != nil {
					return err
				}
				defer s.Close(ctx)
				src = s
			}

			cfg := c.Config.Server
			if addr != "" {
				cfg.Addr = addr
			}
			srv := server.New(cfg, runner, src, c.Logger)
			printInfo(c.out, "Listening on %s", StyleHighlight.Render("http://"+srv.Addr()))
			return srv.ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default "+server.DefaultAddr+")")

	return cmd
}
