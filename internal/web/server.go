// Package web provides the HTTP surface for client uploads and exports.
package web

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/mohit83k/bngclients/internal/export"
	"github.com/mohit83k/bngclients/internal/ingest"
	"github.com/mohit83k/bngclients/internal/logger"
)

// Ingester runs an upload through validation and storage.
type Ingester interface {
	Ingest(ctx context.Context, r io.Reader) (*ingest.Report, error)
}

// Exporter renders a filtered export.
type Exporter interface {
	Export(ctx context.Context, q export.Query) (*export.Result, error)
}

// RejectFiles serves previously written reject files by base name.
type RejectFiles interface {
	Open(name string) (*os.File, error)
}

// Pinger checks the record store.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server is the HTTP server for uploads and exports.
type Server struct {
	ingest     Ingester
	export     Exporter
	rejects    RejectFiles
	store      Pinger
	log        logger.Logger
	maxUpload  int64
	router     *chi.Mux
	httpServer *http.Server
}

// Options wires the server's collaborators.
type Options struct {
	Ingest         Ingester
	Export         Exporter
	Rejects        RejectFiles
	Store          Pinger
	Logger         logger.Logger
	MaxUploadBytes int64
}

// NewServer creates a new Server instance.
func NewServer(opts Options) *Server {
	s := &Server{
		ingest:    opts.Ingest,
		export:    opts.Export,
		rejects:   opts.Rejects,
		store:     opts.Store,
		log:       opts.Logger,
		maxUpload: opts.MaxUploadBytes,
		router:    chi.NewRouter(),
	}
	if s.maxUpload <= 0 {
		s.maxUpload = 32 << 20
	}
	s.setupMiddleware()
	s.setupRoutes()
	s.httpServer = &http.Server{
		Handler:      s.router,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// setupMiddleware configures middleware for all routes.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(requestLogger(s.log))
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(60 * time.Second))
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealth)

	s.router.Post("/clients", s.handleUpload)
	s.router.Get("/clients/rejects/{name}", s.handleReject)

	s.router.Get("/export", s.handleExport)
}

// Start listens on addr and serves until Shutdown.
// If Shutdown already ran, it returns http.ErrServerClosed without serving.
func (s *Server) Start(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}

	s.log.Info("HTTP server listening on " + ln.Addr().String())
	return s.httpServer.Serve(ln)
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// writeJSON encodes v as JSON with the given status.
func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error(err)
	}
}
