package mcp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/brisketrecipe/head-n-heart-gpt/internal/core/domain"
	"github.com/brisketrecipe/head-n-heart-gpt/internal/logger"
)

// Version is the MCP server version.
const Version = "0.1.0"

const shutdownTimeout = 5 * time.Second

// Server is the MCP server for heartgpt.
type Server struct {
	ports    *Ports
	taxonomy domain.Taxonomy
	server   *mcp.Server
}

// NewServer creates a new MCP server with the given ports.
// The taxonomy resolves tag names passed to the query tool.
func NewServer(ports *Ports, taxonomy domain.Taxonomy) (*Server, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("validating ports: %w", err)
	}

	impl := &mcp.Implementation{
		Name:    "heartgpt",
		Version: Version,
	}

	s := &Server{
		ports:    ports,
		taxonomy: taxonomy,
		server: mcp.NewServer(impl, &mcp.ServerOptions{
			Instructions: instructions(taxonomy),
		}),
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

// instructions tells clients what the library holds and which tag names
// the query tool accepts.
func instructions(t domain.Taxonomy) string {
	var b strings.Builder
	b.WriteString("Search a library of teaching documents tagged with behavioural competencies. ")
	b.WriteString("Use query to get quoted extracts with teaching suggestions; pass tags to narrow retrieval. ")
	b.WriteString("Tags may be competencies or categories:")
	for _, cat := range t.Categories() {
		fmt.Fprintf(&b, " %s (%s);", cat, strings.Join(domain.Strings(t.Labels(cat)), ", "))
	}
	return strings.TrimSuffix(b.String(), ";") + "."
}

// Run starts the MCP server over stdio.
// It blocks until the context is cancelled or an error occurs.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// RunHTTP starts the MCP server over HTTP on the specified address.
// It blocks until the context is cancelled or an error occurs.
func (s *Server) RunHTTP(ctx context.Context, addr string) error {
	handler := mcp.NewStreamableHTTPHandler(func(_ *http.Request) *mcp.Server {
		return s.server
	}, nil)

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Warn("mcp: shutdown: %v", err)
		}
	}()

	logger.Info("mcp: listening on %s", addr)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("mcp http: %w", err)
	}
	return nil
}
