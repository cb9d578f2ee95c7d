package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func ExportCmd(opts *globalOptions) *cobra.Command {
	var out string
	c := &cobra.Command{
		Use:   "export",
		Short: "write the navigation graph as GeoJSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := opts.setup()
			if err != nil {
				return err
			}

			data, err := env.graph.ExportGeoJSON().MarshalJSON()
			if err != nil {
				return fmt.Errorf("encode graph: %w", err)
			}
			if out == "" || out == "-" {
				_, err = cmd.OutOrStdout().Write(append(data, '\n'))
				return err
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return err
			}
			env.logger.Info("graph exported", "file", out, "nodes", env.graph.Len())
			return nil
		},
	}
	c.Flags().StringVar(&out, "out", "graph.geojson", "output file, - for stdout")
	return c
}
