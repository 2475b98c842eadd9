package mcp

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/brisketrecipe/head-n-heart-gpt/internal/core/domain"
)

// previewChars bounds the chunk text returned per match.
const previewChars = 400

// QueryInput is the input schema for the query tool.
type QueryInput struct {
	Query string   `json:"query" jsonschema:"the question to answer from the document library"`
	TopK  int      `json:"top_k,omitempty" jsonschema:"number of chunks to retrieve (default 5)"`
	Tags  []string `json:"tags,omitempty" jsonschema:"competency labels or category names to restrict retrieval"`
}

// QueryOutput is the output schema for the query tool.
type QueryOutput struct {
	Reply   string                   `json:"reply"`
	Answer  *domain.StructuredAnswer `json:"answer,omitempty"`
	Matches []MatchOutput            `json:"matches"`
}

// MatchOutput is a single retrieved chunk.
type MatchOutput struct {
	ChunkID  string   `json:"chunk_id"`
	Filename string   `json:"filename"`
	Score    float64  `json:"score"`
	Tags     []string `json:"tags"`
	Text     string   `json:"text"`
}

// UploadInput is the input schema for the upload_file tool.
// Either Path or Filename with ContentBase64 must be set.
type UploadInput struct {
	Path          string `json:"path,omitempty" jsonschema:"local path of a file to ingest"`
	Filename      string `json:"filename,omitempty" jsonschema:"name to store the uploaded content under"`
	ContentBase64 string `json:"content_base64,omitempty" jsonschema:"base64 encoded file content"`
}

// ListDocumentsOutput is the output schema for the list_documents tool.
type ListDocumentsOutput struct {
	Documents []string `json:"documents"`
	Count     int      `json:"count"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "query",
		Description: "Answer a question from the tagged document library",
	}, s.handleQuery)

	if s.ports.Ingest != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "upload_file",
			Description: "Extract, tag and index a document",
		}, s.handleUpload)
	}

	if s.ports.Library != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "list_documents",
			Description: "List processed documents",
		}, s.handleListDocuments)
	}
}

// handleQuery handles the query tool invocation.
func (s *Server) handleQuery(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input QueryInput,
) (*mcp.CallToolResult, QueryOutput, error) {
	if input.Query == "" {
		return nil, QueryOutput{}, fmt.Errorf("%w: query is required", domain.ErrInvalidInput)
	}

	opts := domain.QueryOptions{TopK: input.TopK}
	if len(input.Tags) > 0 {
		opts.Filter = s.taxonomy.Filter(input.Tags)
		if opts.Filter.IsEmpty() {
			return nil, QueryOutput{}, fmt.Errorf("%w: no known tags in %v", domain.ErrInvalidInput, input.Tags)
		}
	}

	result, err := s.ports.Answer.Answer(ctx, input.Query, opts)
	if err != nil {
		return nil, QueryOutput{}, err
	}

	output := QueryOutput{
		Reply:   result.Reply,
		Answer:  result.Answer,
		Matches: make([]MatchOutput, len(result.Matches)),
	}
	for i := range result.Matches {
		m := result.Matches[i]
		output.Matches[i] = MatchOutput{
			ChunkID:  m.ChunkID,
			Filename: m.Metadata.Filename,
			Score:    m.Score,
			Tags:     m.Metadata.Tags,
			Text:     domain.Preview(m.Metadata.ChunkText, previewChars),
		}
	}

	return nil, output, nil
}

// handleUpload handles the upload_file tool invocation.
func (s *Server) handleUpload(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input UploadInput,
) (*mcp.CallToolResult, domain.UploadResult, error) {
	if s.ports.Ingest == nil {
		return nil, domain.UploadResult{}, ErrUploadUnavailable
	}

	filename, data, err := readUpload(input)
	if err != nil {
		return nil, domain.UploadResult{}, err
	}
	if !s.ports.Ingest.Supported(filename) {
		return nil, domain.UploadResult{}, fmt.Errorf("%w: %s", domain.ErrUnsupportedFormat, filename)
	}

	result, err := s.ports.Ingest.Ingest(ctx, filename, data)
	if err != nil {
		return nil, domain.UploadResult{}, err
	}
	return nil, *result, nil
}

// handleListDocuments handles the list_documents tool invocation.
func (s *Server) handleListDocuments(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ struct{},
) (*mcp.CallToolResult, ListDocumentsOutput, error) {
	names, err := s.ports.Library.List(ctx)
	if err != nil {
		return nil, ListDocumentsOutput{}, err
	}
	if names == nil {
		names = []string{}
	}
	return nil, ListDocumentsOutput{Documents: names, Count: len(names)}, nil
}

// readUpload resolves the filename and bytes of an upload request.
func readUpload(input UploadInput) (string, []byte, error) {
	switch {
	case input.Path != "":
		data, err := os.ReadFile(input.Path)
		if err != nil {
			return "", nil, fmt.Errorf("reading %s: %w", input.Path, err)
		}
		return filepath.Base(input.Path), data, nil
	case input.ContentBase64 != "":
		if input.Filename == "" {
			return "", nil, fmt.Errorf("%w: filename is required with content_base64", domain.ErrInvalidInput)
		}
		data, err := base64.StdEncoding.DecodeString(input.ContentBase64)
		if err != nil {
			return "", nil, fmt.Errorf("%w: content_base64: %v", domain.ErrInvalidInput, err)
		}
		return filepath.Base(input.Filename), data, nil
	default:
		return "", nil, fmt.Errorf("%w: path or content_base64 is required", domain.ErrInvalidInput)
	}
}
