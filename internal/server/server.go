// Package server serves a built site over HTTP for local preview.
package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/sitegarden/internal/build"
	"git.home.luguber.info/inful/sitegarden/internal/logfields"
	"git.home.luguber.info/inful/sitegarden/internal/metrics"
)

// Server serves the output directory of a build.
type Server struct {
	Addr   string
	root   string
	router *chi.Mux
	server *http.Server
	logger *slog.Logger

	mu   sync.RWMutex
	last *build.Result
}

// NewServer creates a server for the site below root. A non-nil registry is
// exposed at /metrics.
func NewServer(addr, root string, registry *prom.Registry, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		Addr:   addr,
		root:   root,
		router: chi.NewRouter(),
		logger: logger,
	}

	s.setupRoutes(registry)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

func (s *Server) setupRoutes(registry *prom.Registry) {
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Recoverer)
	s.router.Use(s.logRequests)

	s.router.Get("/health", s.handleHealth)
	if registry != nil {
		s.router.Method(http.MethodGet, "/metrics", metrics.HTTPHandler(registry))
	}
	site := newSiteHandler(s.root)
	s.router.Get("/*", site.ServeHTTP)
	s.router.Head("/*", site.ServeHTTP)
}

// Handler returns the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// SetResult records the build whose output is being served.
func (s *Server) SetResult(r *build.Result) {
	s.mu.Lock()
	s.last = r
	s.mu.Unlock()
}

// Start serves until Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info("Serving site", logfields.Addr(s.Addr), logfields.Path(s.root))
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

type healthResponse struct {
	Status string     `json:"status"`
	Build  *buildInfo `json:"build,omitempty"`
}

type buildInfo struct {
	ID          string `json:"id"`
	Status      string `json:"status"`
	Pages       int    `json:"pages"`
	Artifacts   int    `json:"artifacts"`
	Diagnostics int    `json:"diagnostics"`
	ContentHash string `json:"contentHash"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	resp := healthResponse{Status: "healthy"}
	s.mu.RLock()
	if r := s.last; r != nil {
		resp.Build = &buildInfo{
			ID:          r.BuildID,
			Status:      string(r.Status),
			Pages:       r.Published,
			Artifacts:   len(r.Artifacts),
			Diagnostics: len(r.Diagnostics),
			ContentHash: r.ContentHash,
		}
	}
	s.mu.RUnlock()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(resp)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("HTTP request",
			slog.String("method", r.Method),
			logfields.Path(r.URL.Path),
			slog.Int("status", ww.Status()),
			logfields.DurationMS(float64(time.Since(start).Microseconds())/1000))
	})
}
