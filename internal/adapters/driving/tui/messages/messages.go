// Package messages defines Bubbletea message types for the TUI.
package messages

import (
	"github.com/brisketrecipe/head-n-heart-gpt/internal/core/domain"
)

// AnswerCompleted carries the answer back to the model.
type AnswerCompleted struct {
	Result *domain.QueryResult
	Err    error
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewMenu is the main navigation menu.
	ViewMenu ViewType = iota
	// ViewAsk is the question input and answer view.
	ViewAsk
	// ViewDocuments lists processed documents.
	ViewDocuments
	// ViewDocContent shows the chunks and tags of one document.
	ViewDocContent
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewMenu:
		return "menu"
	case ViewAsk:
		return "ask"
	case ViewDocuments:
		return "documents"
	case ViewDocContent:
		return "doc_content"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}

// DocumentsLoaded carries the processed document names.
type DocumentsLoaded struct {
	Filenames []string
	Err       error
}

// DocumentSelected signals a document was selected.
type DocumentSelected struct {
	Filename string
}

// DocumentLoaded carries one processed document.
type DocumentLoaded struct {
	Filename string
	Document *domain.ProcessedDocument
	Err      error
}
