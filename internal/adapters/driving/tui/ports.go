// Package tui provides an interactive terminal user interface for heartgpt.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/brisketrecipe/head-n-heart-gpt/internal/core/domain"
	"github.com/brisketrecipe/head-n-heart-gpt/internal/core/ports/driving"
)

// Ports aggregates the driving ports and settings the TUI needs.
type Ports struct {
	// Answer runs retrieval and generation for a question.
	Answer driving.AnswerService

	// Library lists processed documents. Optional; the Documents view is
	// hidden when nil.
	Library driving.LibraryService

	// Taxonomy drives the category filter and tag grouping.
	Taxonomy domain.Taxonomy

	// TopK is the number of chunks retrieved per question. Zero uses the
	// service default.
	TopK int
}

// NewPorts creates a new Ports aggregate with the default taxonomy.
func NewPorts(answer driving.AnswerService, library driving.LibraryService) *Ports {
	return &Ports{
		Answer:   answer,
		Library:  library,
		Taxonomy: domain.DefaultTaxonomy(),
	}
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Answer == nil {
		return ErrMissingAnswerService
	}
	return nil
}

func (p *Ports) taxonomy() domain.Taxonomy {
	if p.Taxonomy.Len() == 0 {
		return domain.DefaultTaxonomy()
	}
	return p.Taxonomy
}
