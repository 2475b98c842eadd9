// Package mcp provides an MCP (Model Context Protocol) server adapter for heartgpt.
// It lets AI assistants query the competency library and upload new documents.
package mcp

import "errors"

// ErrMissingAnswerService is returned when the answer service is not provided.
var ErrMissingAnswerService = errors.New("mcp: answer service is required")

// ErrUploadUnavailable is returned by upload_file when no ingest service is wired.
var ErrUploadUnavailable = errors.New("mcp: uploads are not enabled")
