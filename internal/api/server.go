// SPDX-License-Identifier: MIT

// Package api provides the HTTP surface of the wellcore daemon: catalog
// listing, depth-sliced well data and core-to-log matching.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/petrolab/wellcore/internal/cache"
	"github.com/petrolab/wellcore/internal/config"
	"github.com/petrolab/wellcore/internal/health"
	"github.com/petrolab/wellcore/internal/jobs"
	"github.com/petrolab/wellcore/internal/store"
)

// Server represents the HTTP API server for wellcore.
type Server struct {
	cfg    func() config.AppConfig
	st     *store.Store
	cache  cache.Cache
	scans  *jobs.Manager
	health *health.Manager
}

// New wires the API server. cfg is called per request so hot reloads apply
// without restarting the listener.
func New(cfg func() config.AppConfig, st *store.Store, c cache.Cache, scans *jobs.Manager, hm *health.Manager) *Server {
	return &Server{
		cfg:    cfg,
		st:     st,
		cache:  c,
		scans:  scans,
		health: hm,
	}
}

// Router builds the chi router with the canonical middleware stack.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(recoverer)
	r.Use(requestID)
	if s.cfg().Telemetry.Enabled {
		r.Use(tracing("wellcore"))
	}
	r.Use(accessLog)
	if limit := s.cfg().RateLimit; limit > 0 {
		r.Use(rateLimit(limit))
	}

	r.Get("/healthz", s.health.ServeHealth)
	r.Get("/readyz", s.health.ServeReady)

	r.Route("/api", func(r chi.Router) {
		r.Get("/status", s.handleStatus)
		r.Get("/wells", s.handleWells)

		r.Route("/wells/{slug}", func(r chi.Router) {
			r.Get("/", s.handleWell)
			r.Get("/logs", s.handleLogs)
			r.Get("/samples", s.handleSamples)
			r.Get("/matches", s.handleMatches)

			r.Group(func(r chi.Router) {
				r.Use(s.authMiddleware)
				r.Post("/match", s.handleMatch)
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(s.authMiddleware)
			r.Post("/scan", s.handleScan)
		})
	})

	return r
}

// NewHTTPServer builds an http.Server around the router using the
// configured timeouts.
func (s *Server) NewHTTPServer() *http.Server {
	cfg := s.cfg()
	return &http.Server{
		Addr:           cfg.APIListenAddr,
		Handler:        s.Router(),
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
	}
}
