package main

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"nav-planner/pkg/config"
	"nav-planner/pkg/geom"
	"nav-planner/pkg/navgraph"
	"nav-planner/pkg/world"
)

func ServeCmd(opts *globalOptions) *cobra.Command {
	var addr string
	c := &cobra.Command{
		Use:   "serve",
		Short: "serve path queries over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := opts.setup()
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, addr, newServer(env))
		},
	}
	c.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	return c
}

func serve(ctx context.Context, addr string, s *server) error {
	srv := &http.Server{Addr: addr, Handler: s.routes()}
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Info("server shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

// server exposes the navigation graph over HTTP
type server struct {
	graph  *navgraph.Graph
	world  *world.World
	ground *world.Ground
	nav    config.NavigationConfig
	env    *environment
	logger *slog.Logger
}

func newServer(env *environment) *server {
	return &server{
		graph:  env.graph,
		world:  env.world,
		ground: env.ground,
		nav:    env.cfg.Navigation,
		env:    env,
		logger: env.logger.With("component", "server"),
	}
}

func (s *server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/route", corsMiddleware(s.routeHandler))
	mux.HandleFunc("/rebuild", corsMiddleware(s.rebuildHandler))
	mux.HandleFunc("/graph", corsMiddleware(s.graphHandler))
	mux.HandleFunc("/health", corsMiddleware(s.healthHandler))
	mux.Handle("/metrics", s.env.metrics.Handler())
	return mux
}

// corsMiddleware adds CORS headers to allow frontend requests
func corsMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		// Handle preflight
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next(w, r)
	}
}

// RouteRequest asks for a path; Mode is "path" (default), "away" or "random"
type RouteRequest struct {
	Start geom.Vec3 `json:"start"`
	End   geom.Vec3 `json:"end"`
	Mode  string    `json:"mode,omitempty"`
}

// POST /route
func (s *server) routeHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req RouteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.logger.Warn("invalid route request", "error", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	var p navgraph.Path
	switch req.Mode {
	case "", "path":
		p = s.graph.Path(req.Start, req.End)
	case "away":
		p = s.graph.PathAway(req.Start, req.End)
	case "random":
		p = s.graph.RandomPath(req.Start)
	default:
		http.Error(w, "Unknown mode", http.StatusBadRequest)
		return
	}

	resp := newRouteResponse(p)
	s.logger.Debug("route computed", "mode", req.Mode, "waypoints", len(resp.Path), "distance", resp.Distance)
	writeJSON(w, http.StatusOK, resp)
}

// POST /rebuild {"strategy": "grid"}
func (s *server) rebuildHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		Strategy string `json:"strategy"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	nav := s.nav
	if req.Strategy != "" {
		nav.Strategy = req.Strategy
	}
	if err := s.world.BuildGraph(s.graph, nav, s.ground); err != nil {
		s.logger.Error("rebuild failed", "strategy", nav.Strategy, "error", err)
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"strategy":   s.graph.Strategy(),
		"numNodes":   s.graph.Len(),
		"generation": s.graph.Generation(),
	})
}

// GET /graph returns the graph as GeoJSON for visualization
func (s *server) graphHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, s.graph.ExportGeoJSON())
}

// GET /health
func (s *server) healthHandler(w http.ResponseWriter, r *http.Request) {
	numNodes := s.graph.Len()
	status := "ready"
	if numNodes == 0 {
		status = "graph empty"
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":     status,
		"strategy":   s.graph.Strategy(),
		"numNodes":   numNodes,
		"generation": s.graph.Generation(),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
