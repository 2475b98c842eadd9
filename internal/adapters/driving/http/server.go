// Package http serves the upload and query API over HTTP.
package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/brisketrecipe/head-n-heart-gpt/internal/core/domain"
	"github.com/brisketrecipe/head-n-heart-gpt/internal/core/ports/driving"
)

// DefaultMaxUploadBytes bounds the multipart body of POST /upload.
const DefaultMaxUploadBytes = 64 << 20

// ErrMissingService is returned when a required port is nil.
var ErrMissingService = errors.New("http: ingest and answer services are required")

// Ports aggregates the driving ports the API calls into.
type Ports struct {
	Ingest  driving.IngestService
	Answer  driving.AnswerService
	Library driving.LibraryService
}

// Validate ensures the required ports are set. Library is optional.
func (p *Ports) Validate() error {
	if p.Ingest == nil || p.Answer == nil {
		return ErrMissingService
	}
	return nil
}

// Server is the HTTP API.
type Server struct {
	ports          *Ports
	taxonomy       domain.Taxonomy
	maxUploadBytes int64
}

// Option configures a Server.
type Option func(*Server)

// WithMaxUploadBytes overrides DefaultMaxUploadBytes.
func WithMaxUploadBytes(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxUploadBytes = n
		}
	}
}

// NewServer creates the API server. The taxonomy validates query tag filters.
func NewServer(ports *Ports, taxonomy domain.Taxonomy, opts ...Option) (*Server, error) {
	if err := ports.Validate(); err != nil {
		return nil, err
	}
	s := &Server{
		ports:          ports,
		taxonomy:       taxonomy,
		maxUploadBytes: DefaultMaxUploadBytes,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Handler returns the routed handler with CORS, request logging and
// panic recovery applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /upload", s.handleUpload)
	mux.HandleFunc("POST /query", s.handleQuery)
	mux.HandleFunc("GET /documents", s.handleDocumentList)
	mux.HandleFunc("GET /documents/{filename}", s.handleDocumentGet)

	return corsMiddleware(requestLogger(recoverer(mux)))
}

// Run serves on addr until ctx is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		httpServer.Shutdown(shutdownCtx) //nolint:errcheck
	}()

	err := httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	return nil
}
