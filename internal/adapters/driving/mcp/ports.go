package mcp

import (
	"github.com/brisketrecipe/head-n-heart-gpt/internal/core/ports/driving"
)

// Ports aggregates the driving ports used by the MCP server.
type Ports struct {
	// Answer runs retrieval and generation for the query tool.
	Answer driving.AnswerService

	// Ingest accepts uploaded files. Optional.
	Ingest driving.IngestService

	// Library lists and returns processed documents. Optional.
	Library driving.LibraryService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Answer == nil {
		return ErrMissingAnswerService
	}
	return nil
}
