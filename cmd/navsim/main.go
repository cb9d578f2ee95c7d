package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	opts := &globalOptions{}
	c := &cobra.Command{
		Use:           "navsim",
		Short:         "navigation graph service and enemy agent simulator",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	c.PersistentFlags().StringVar(&opts.configFile, "config", "", "config file (.yaml, .yml, .hjson, .json)")
	c.PersistentFlags().StringVar(&opts.worldPath, "world", "world.geojson", "GeoJSON world file or directory")
	c.PersistentFlags().StringVar(&opts.strategy, "strategy", "", "graph strategy: static, grid or rooms (overrides config)")
	c.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error (overrides config)")

	c.AddCommand(
		RunCmd(opts),
		PathCmd(opts),
		ExportCmd(opts),
		ServeCmd(opts),
	)
	return c
}
