// Package api exposes the layout engine over HTTP.
//
// The server is a thin facade over pipeline.Runner: every endpoint accepts
// a graph snapshot plus tuning options as JSON and returns a graph.Result.
// Snapshots can also be stored under a name first and referenced by later
// requests, which keeps large graphs off the wire for repeated runs.
//
// # Endpoints
//
//	GET  /health                        liveness probe
//	POST /api/v1/force                  force-directed placement
//	POST /api/v1/communities            Louvain communities
//	POST /api/v1/routes                 orthogonal edge routing
//	POST /api/v1/circular               circular ordering
//	POST /api/v1/spectral               spectral placement
//	PUT  /api/v1/snapshots/{name}       store a named snapshot
//	GET  /api/v1/snapshots/{name}       fetch a named snapshot
//	DELETE /api/v1/snapshots/{name}     drop a named snapshot
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/gridwise/layoutkit/pkg/cache"
	"github.com/gridwise/layoutkit/pkg/pipeline"
)

// Config holds the server configuration.
type Config struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string

	// RedisAddr selects the Redis cache backend when set. Empty means the
	// file cache in CacheDir, and an empty CacheDir disables caching.
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CacheDir      string

	// ShutdownTimeout bounds graceful shutdown. Zero means 10 seconds.
	ShutdownTimeout time.Duration
}

// Server serves the layout engine operations over HTTP.
type Server struct {
	cfg    Config
	runner *pipeline.Runner
	keyer  cache.Keyer
	logger *log.Logger
}

// NewServer builds a server with the cache backend selected by cfg.
func NewServer(ctx context.Context, cfg Config, logger *log.Logger) (*Server, error) {
	if logger == nil {
		logger = log.Default()
	}
	c, err := newCache(ctx, cfg)
	if err != nil {
		return nil, err
	}
	keyer := cache.NewDefaultKeyer()
	return &Server{
		cfg:    cfg,
		runner: pipeline.NewRunner(c, keyer, logger),
		keyer:  keyer,
		logger: logger,
	}, nil
}

func newCache(ctx context.Context, cfg Config) (cache.Cache, error) {
	if cfg.RedisAddr != "" {
		return cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
	}
	if cfg.CacheDir != "" {
		return cache.NewFileCache(cfg.CacheDir)
	}
	return cache.NewNullCache(), nil
}

// Handler returns the configured HTTP handler.
func (s *Server) Handler() http.Handler {
	router := chi.NewRouter()

	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(requestLogger(s.logger))

	router.Get("/health", s.handleHealth)

	router.Route("/api/v1", func(r chi.Router) {
		r.Post("/force", s.handleOp(pipeline.OpForce))
		r.Post("/communities", s.handleOp(pipeline.OpCommunities))
		r.Post("/routes", s.handleRoutes)
		r.Post("/circular", s.handleOp(pipeline.OpCircular))
		r.Post("/spectral", s.handleOp(pipeline.OpSpectral))

		r.Route("/snapshots", func(r chi.Router) {
			r.Put("/{name}", s.handleSnapshotPut)
			r.Get("/{name}", s.handleSnapshotGet)
			r.Delete("/{name}", s.handleSnapshotDelete)
		})
	})

	return router
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "addr", s.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	timeout := s.cfg.ShutdownTimeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	s.logger.Info("server shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return s.runner.Close()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
