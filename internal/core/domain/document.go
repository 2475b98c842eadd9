package domain

import (
	"fmt"
	"time"
)

// ContentKind describes how an uploaded file was normalised.
type ContentKind string

// Content kinds produced by extraction.
const (
	KindText        ContentKind = "text"
	KindPagedText   ContentKind = "paged_text"
	KindImage       ContentKind = "image"
	KindUnsupported ContentKind = "unsupported"
)

// Document is an uploaded file. It is immutable once stored.
type Document struct {
	// Filename is the client-supplied name, used as the document key.
	Filename string

	// Raw is the original file content.
	Raw []byte

	// Kind is the detected content kind.
	Kind ContentKind
}

// ExtractedContent is the normalised form of a Document.
// Exactly one of Text, Pages or Image is populated, according to Kind.
type ExtractedContent struct {
	Kind ContentKind

	// Text holds the decoded text for KindText.
	Text string

	// Pages holds one entry per page for KindPagedText.
	// Pages without extractable text are empty strings.
	Pages []string

	// Image holds raw image bytes for KindImage.
	Image []byte

	// MIMEType is set for images (e.g. "image/png").
	MIMEType string
}

// Chunk is a bounded unit of document text plus its classification.
type Chunk struct {
	// ID is unique per document: "<filename>#<index>".
	ID string `json:"chunk_id"`

	// Index is the insertion order within the document.
	Index int `json:"chunk_index"`

	// Text is the chunk content.
	Text string `json:"text"`

	// Summary is a short description of the chunk (optional).
	Summary string `json:"summary,omitempty"`

	// Context is any framing needed to understand the chunk (optional).
	Context string `json:"context,omitempty"`

	// Tags are validated competencies, most relevant first.
	Tags []Competency `json:"tags"`

	// SourceFilename is the document this chunk came from.
	SourceFilename string `json:"source_filename"`

	// Page is the 1-based page number for paged input, 0 otherwise.
	Page int `json:"page,omitempty"`
}

// ChunkID returns the identifier of the index-th chunk of filename.
func ChunkID(filename string, index int) string {
	return fmt.Sprintf("%s#%d", filename, index)
}

// ProcessedDocument is the durable record written once per upload.
// A new upload of the same filename fully replaces it.
type ProcessedDocument struct {
	Filename      string                    `json:"filename"`
	StoragePath   string                    `json:"storage_path"`
	Chunks        []Chunk                   `json:"chunks"`
	Tags          map[Category][]Competency `json:"tags"`
	ProcessedDate time.Time                 `json:"processed_date"`
}

// AllTags returns the distinct chunk tags in first-seen order.
func (p *ProcessedDocument) AllTags() []Competency {
	var out []Competency
	seen := make(map[Competency]bool)
	for i := range p.Chunks {
		for _, c := range p.Chunks[i].Tags {
			if !seen[c] {
				seen[c] = true
				out = append(out, c)
			}
		}
	}
	return out
}

// UploadResult is returned to the caller after a document is ingested.
type UploadResult struct {
	Filename        string                    `json:"filename"`
	ChunksProcessed int                       `json:"chunks_processed"`
	Tags            map[Category][]Competency `json:"tags"`
	StoragePath     string                    `json:"storage_path"`
}

// Storage path prefixes shared by every document store.
const (
	OriginalsPrefix = "documents/"
	ProcessedPrefix = "processed/"
	ProcessedSuffix = ".json"
)

// OriginalPath returns the storage path of an uploaded original.
func OriginalPath(filename string) string {
	return OriginalsPrefix + filename
}

// ProcessedPath returns the storage path of a processed record.
func ProcessedPath(filename string) string {
	return ProcessedPrefix + filename + ProcessedSuffix
}
