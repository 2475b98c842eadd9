package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/brisketrecipe/head-n-heart-gpt/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for heartgpt resources.
	uriScheme = "heartgpt://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "taxonomy",
		Name:        "taxonomy",
		Description: "Competency categories and their labels",
		MIMEType:    "application/json",
	}, s.handleTaxonomyResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "documents/{filename}",
		Name:        "processed-document",
		Description: "Chunks and competency tags of a processed document",
		MIMEType:    "application/json",
	}, s.handleDocumentResource)
}

// handleTaxonomyResource returns the configured taxonomy.
func (s *Server) handleTaxonomyResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	type categoryInfo struct {
		Name         string   `json:"name"`
		Competencies []string `json:"competencies"`
	}

	cats := s.taxonomy.Categories()
	infos := make([]categoryInfo, len(cats))
	for i, cat := range cats {
		infos[i] = categoryInfo{
			Name:         string(cat),
			Competencies: domain.Strings(s.taxonomy.Labels(cat)),
		}
	}

	return jsonResource(req.Params.URI, infos)
}

// handleDocumentResource returns one processed document.
func (s *Server) handleDocumentResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Library == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	filename := extractFilename(req.Params.URI)
	if filename == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	doc, err := s.ports.Library.Get(ctx, filename)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	if err != nil {
		return nil, fmt.Errorf("getting document: %w", err)
	}

	return jsonResource(req.Params.URI, doc)
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling resource: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractFilename extracts the filename from a URI like heartgpt://documents/{filename}.
func extractFilename(uri string) string {
	const prefix = uriScheme + "documents/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	name := strings.TrimPrefix(uri, prefix)
	if strings.Contains(name, "/") {
		return ""
	}
	return name
}
