package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/shapegrid/pkg/buildinfo"
)

// RootCommand creates the root cobra command with all subcommands
// registered. The config file is loaded before any subcommand runs.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Shapegrid renders seeded grids of morphing shapes",
		Long: `Shapegrid generates grids of discs and quads, wraps them around a cylinder,
colors them from a seeded palette and morphs their shapes while the grid spins.
Settings records can be rendered, animated in the terminal, watched for changes,
stored as projects and shared as URLs.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.verbose {
				c.SetLogLevel(LogDebug)
			}
			cfg, err := LoadConfig(c.configPath)
			if err != nil {
				return err
			}
			c.Config = cfg
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/shapegrid/config.toml)")

	root.AddCommand(c.generateCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.animateCommand())
	root.AddCommand(c.watchCommand())
	root.AddCommand(c.projectCommand())
	root.AddCommand(c.shareCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}
