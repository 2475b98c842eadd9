// Package chunker splits extracted text into bounded, paragraph-aligned chunks.
package chunker

import (
	"strings"
	"unicode/utf8"
)

// DefaultChunkSize is the default maximum number of characters per chunk.
const DefaultChunkSize = 500

// DefaultChunkOverlap is the default number of trailing characters carried
// into the next chunk.
const DefaultChunkOverlap = 50

const paragraphSeparator = "\n\n"

// Segment is one chunk of text and the page it came from (0 if not paged).
type Segment struct {
	Text string
	Page int
}

// Chunker splits text on paragraph boundaries.
type Chunker struct {
	chunkSize int
	overlap   int
}

// Option configures the chunker.
type Option func(*Chunker)

// WithChunkSize sets the maximum chunk size in characters.
func WithChunkSize(size int) Option {
	return func(c *Chunker) {
		if size > 0 {
			c.chunkSize = size
		}
	}
}

// WithOverlap sets the carried-over tail length in characters.
func WithOverlap(overlap int) Option {
	return func(c *Chunker) {
		if overlap >= 0 {
			c.overlap = overlap
		}
	}
}

// New creates a chunker with the given options.
func New(opts ...Option) *Chunker {
	c := &Chunker{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
	}

	for _, opt := range opts {
		opt(c)
	}

	// Ensure overlap doesn't exceed chunk size
	if c.overlap >= c.chunkSize {
		c.overlap = c.chunkSize / 4
	}

	return c
}

// ChunkSize returns the configured maximum chunk size.
func (c *Chunker) ChunkSize() int {
	return c.chunkSize
}

// Overlap returns the configured overlap.
func (c *Chunker) Overlap() int {
	return c.overlap
}

// Split chunks free text. See Split.
func (c *Chunker) Split(text string) []string {
	return Split(text, c.chunkSize, c.overlap)
}

// Segments chunks free text into segments with no page number.
func (c *Chunker) Segments(text string) []Segment {
	parts := c.Split(text)
	segs := make([]Segment, len(parts))
	for i, p := range parts {
		segs[i] = Segment{Text: p}
	}
	return segs
}

// Pages maps paged input to exactly one segment per non-empty page.
// Pages are not sub-chunked so every chunk cites a single page.
func (c *Chunker) Pages(pages []string) []Segment {
	segs := make([]Segment, 0, len(pages))
	for i, p := range pages {
		text := strings.TrimSpace(p)
		if text == "" {
			continue
		}
		segs = append(segs, Segment{Text: text, Page: i + 1})
	}
	return segs
}

// Split greedily packs paragraphs (separated by a blank line) into chunks
// of at most maxSize characters. When the next paragraph would overflow a
// non-empty buffer, the buffer is emitted and the next one starts with the
// last overlap characters of the emitted chunk. A single paragraph longer
// than maxSize becomes its own oversized chunk.
//
// Blank input yields no chunks. Input no longer than maxSize yields exactly
// one chunk equal to the trimmed input.
func Split(text string, maxSize, overlap int) []string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil
	}
	if maxSize <= 0 {
		maxSize = DefaultChunkSize
	}
	if overlap < 0 || overlap >= maxSize {
		overlap = 0
	}
	if utf8.RuneCountInString(trimmed) <= maxSize {
		return []string{trimmed}
	}

	var (
		chunks []string
		cur    strings.Builder
		curLen int
	)

	for _, para := range strings.Split(text, paragraphSeparator) {
		if strings.TrimSpace(para) == "" {
			continue
		}

		paraLen := utf8.RuneCountInString(para)
		if curLen+paraLen > maxSize && strings.TrimSpace(cur.String()) != "" {
			emitted := strings.TrimSpace(cur.String())
			chunks = append(chunks, emitted)

			tail := lastRunes(emitted, overlap)
			cur.Reset()
			cur.WriteString(tail)
			curLen = utf8.RuneCountInString(tail)
		}

		cur.WriteString(para)
		cur.WriteString(paragraphSeparator)
		curLen += paraLen + len(paragraphSeparator)
	}

	if last := strings.TrimSpace(cur.String()); last != "" {
		chunks = append(chunks, last)
	}
	return chunks
}

// lastRunes returns the last n characters of s.
func lastRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	count := utf8.RuneCountInString(s)
	if count <= n {
		return s
	}
	skip := count - n
	for i := range s {
		if skip == 0 {
			return s[i:]
		}
		skip--
	}
	return ""
}
