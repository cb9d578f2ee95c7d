package main

import (
	"encoding/json"
	"errors"

	"github.com/spf13/cobra"

	"nav-planner/pkg/geom"
	"nav-planner/pkg/navgraph"
)

// RouteResponse is the JSON shape of a computed route, start first
type RouteResponse struct {
	Path     []geom.Vec3 `json:"path"`
	Success  bool        `json:"success"`
	Message  string      `json:"message,omitempty"`
	Distance float64     `json:"distance,omitempty"`
}

func newRouteResponse(p navgraph.Path) RouteResponse {
	if p.Empty() {
		return RouteResponse{Path: []geom.Vec3{}, Message: "no path found"}
	}
	return RouteResponse{Path: p.Reversed(), Success: true, Distance: p.Length()}
}

func PathCmd(opts *globalOptions) *cobra.Command {
	var (
		from, to string
		away     bool
		random   bool
	)
	c := &cobra.Command{
		Use:   "path",
		Short: "compute a path between two positions",
		RunE: func(cmd *cobra.Command, args []string) error {
			start, err := geom.ParseVec3(from)
			if err != nil {
				return err
			}
			var target geom.Vec3
			if !random {
				if to == "" {
					return errors.New("--to is required unless --random is set")
				}
				if target, err = geom.ParseVec3(to); err != nil {
					return err
				}
			}

			env, err := opts.setup()
			if err != nil {
				return err
			}

			var p navgraph.Path
			switch {
			case random:
				p = env.graph.RandomPath(start)
			case away:
				p = env.graph.PathAway(start, target)
			default:
				p = env.graph.Path(start, target)
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(newRouteResponse(p))
		},
	}
	c.Flags().StringVar(&from, "from", "0,0,0", "start position x,y[,z]")
	c.Flags().StringVar(&to, "to", "", "target position x,y[,z] (the position to avoid with --away)")
	c.Flags().BoolVar(&away, "away", false, "path away from --to instead of towards it")
	c.Flags().BoolVar(&random, "random", false, "path to a random node")
	return c
}
