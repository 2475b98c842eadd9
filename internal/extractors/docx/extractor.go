// Package docx extracts paragraph text from Word documents.
package docx

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/brisketrecipe/head-n-heart-gpt/internal/core/domain"
	"github.com/brisketrecipe/head-n-heart-gpt/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// MIMEType is the OOXML word-processing MIME type.
const MIMEType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

const documentPart = "word/document.xml"

// Extractor handles DOCX documents.
type Extractor struct{}

// New creates a new DOCX extractor.
func New() *Extractor {
	return &Extractor{}
}

// Extensions returns the handled extensions. Legacy .doc files are routed
// here too and fail with domain.ErrDecode unless they are OOXML underneath.
func (e *Extractor) Extensions() []string {
	return []string{"docx", "doc"}
}

// Kind returns domain.KindText.
func (e *Extractor) Kind() domain.ContentKind {
	return domain.KindText
}

// Extract reads word/document.xml and joins non-empty paragraphs with blank
// lines so the chunker sees paragraph boundaries.
func (e *Extractor) Extract(_ context.Context, filename string, data []byte) (*domain.ExtractedContent, error) {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %s is not a valid docx archive: %v", domain.ErrDecode, filename, err)
	}

	part, err := readPart(reader, documentPart)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrDecode, filename, err)
	}

	paragraphs, err := parseParagraphs(part)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: parse document.xml: %v", domain.ErrDecode, filename, err)
	}

	return &domain.ExtractedContent{
		Kind:     domain.KindText,
		Text:     strings.Join(paragraphs, "\n\n"),
		MIMEType: MIMEType,
	}, nil
}

func readPart(reader *zip.Reader, name string) ([]byte, error) {
	for _, file := range reader.File {
		if file.Name != name {
			continue
		}
		rc, err := file.Open()
		if err != nil {
			return nil, err
		}
		defer rc.Close()
		return io.ReadAll(rc)
	}
	return nil, fmt.Errorf("missing %s", name)
}

type documentXML struct {
	Body struct {
		Paragraphs []paragraph `xml:"p"`
	} `xml:"body"`
}

type paragraph struct {
	Runs []run `xml:"r"`
}

type run struct {
	Text []textElement `xml:"t"`
	Tabs []struct{}    `xml:"tab"`
}

type textElement struct {
	Content string `xml:",chardata"`
}

func parseParagraphs(content []byte) ([]string, error) {
	var doc documentXML
	if err := xml.Unmarshal(content, &doc); err != nil {
		return nil, err
	}

	paragraphs := make([]string, 0, len(doc.Body.Paragraphs))
	for _, para := range doc.Body.Paragraphs {
		var b strings.Builder
		for _, r := range para.Runs {
			for range r.Tabs {
				b.WriteByte('\t')
			}
			for _, t := range r.Text {
				b.WriteString(t.Content)
			}
		}
		if text := strings.TrimSpace(b.String()); text != "" {
			paragraphs = append(paragraphs, text)
		}
	}
	return paragraphs, nil
}
