package services

import (
	"fmt"
	"strings"

	"github.com/brisketrecipe/head-n-heart-gpt/internal/core/domain"
	"github.com/brisketrecipe/head-n-heart-gpt/internal/jsonfrag"
)

// ParseAnswer decodes generator output into a structured answer.
// Output without a competency or any extracts wraps domain.ErrGenerationParse.
func ParseAnswer(raw string) (*domain.StructuredAnswer, error) {
	res := jsonfrag.Extract(raw)
	if !res.IsParsed() || res.IsArray() {
		return nil, fmt.Errorf("%w: no JSON object in answer", domain.ErrGenerationParse)
	}

	var answer domain.StructuredAnswer
	if err := res.Decode(&answer); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrGenerationParse, err)
	}
	if answer.Competency == "" || len(answer.Extracts) == 0 {
		return nil, fmt.Errorf("%w: missing competency or extracts", domain.ErrGenerationParse)
	}
	return &answer, nil
}

// FormatAnswer renders a structured answer as plain text:
//
//	Competency: <competency>
//	Category: <category>
//
//	1. "<content>"
//	   Reference: <reference>
//	   Teaching suggestion: <suggestion>
func FormatAnswer(a *domain.StructuredAnswer) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Competency: %s\n", a.Competency)
	if a.Category != "" {
		fmt.Fprintf(&b, "Category: %s\n", a.Category)
	}
	for i, e := range a.Extracts {
		fmt.Fprintf(&b, "\n%d. %q\n", i+1, strings.TrimSpace(e.Content))
		reference := strings.TrimSpace(e.Reference)
		if reference == "" {
			reference = "location unknown"
		}
		fmt.Fprintf(&b, "   Reference: %s\n", reference)
		if s := strings.TrimSpace(e.TeachingSuggestion); s != "" {
			fmt.Fprintf(&b, "   Teaching suggestion: %s\n", s)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
