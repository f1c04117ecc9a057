package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/graphview/pkg/buildinfo"
)

// RootCommand creates the root cobra command with all subcommands registered.
//
// Global flags:
//
//	--config PATH   TOML config file (default $XDG_CONFIG_HOME/graphview/config.toml)
//	--redis ADDR    keep sessions in redis instead of the file cache
//	--no-cache      keep nothing between invocations
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "graphview normalizes and incrementally merges graph query results",
		Long:         `graphview turns raw graph query results into render-ready fragments and folds expansion results into persistent exploration sessions.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.SetOut(c.out)

	flags := root.PersistentFlags()
	flags.StringVar(&c.configPath, "config", "", "config file (TOML)")
	flags.StringVar(&c.redisAddr, "redis", "", "redis address for the session store")
	flags.BoolVar(&c.noCache, "no-cache", false, "do not persist sessions or fetches")

	root.AddCommand(c.normalizeCommand())
	root.AddCommand(c.sessionCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.stylesCommand())
	root.AddCommand(c.completionCommand())

	return root
}
