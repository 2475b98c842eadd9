package domain

import (
	"encoding/json"
	"math"
	"strings"
)

// ChunkMetadata is stored alongside each vector.
type ChunkMetadata struct {
	Filename   string   `json:"filename"`
	ChunkText  string   `json:"chunk_text"`
	ChunkIndex int      `json:"chunk_index"`
	Tags       []string `json:"tags"`
}

// EmbeddingRecord is a single entry in the similarity index.
// Re-upserting the same ChunkID fully replaces the prior record.
type EmbeddingRecord struct {
	ChunkID  string
	Vector   []float32
	Metadata ChunkMetadata
}

// Match is a single similarity search hit.
type Match struct {
	ChunkID  string        `json:"chunk_id"`
	Score    float64       `json:"score"`
	Metadata ChunkMetadata `json:"metadata"`

	// Preview is a shortened chunk text for display. Set by the answerer.
	Preview string `json:"preview,omitempty"`
}

// Filter restricts a similarity query.
type Filter struct {
	// Tags keeps only records whose tags intersect this set.
	// Empty means no restriction.
	Tags []Competency
}

// IsEmpty reports whether the filter restricts nothing.
func (f Filter) IsEmpty() bool {
	return len(f.Tags) == 0
}

// Matches reports whether a record's tags satisfy the filter.
func (f Filter) Matches(tags []string) bool {
	if f.IsEmpty() {
		return true
	}
	for _, want := range f.Tags {
		for _, have := range tags {
			if string(want) == have {
				return true
			}
		}
	}
	return false
}

// DecodeTags reads tag metadata written by any index backend.
//
// The canonical form is a flat list of strings. A JSON-encoded string
// ("[\"Vision\"]") is accepted for records written by older pipelines, as
// is a single bare label. Anything else yields nil.
func DecodeTags(v any) []string {
	switch t := v.(type) {
	case nil:
		return nil
	case []string:
		return append([]string(nil), t...)
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return nil
		}
		if strings.HasPrefix(s, "[") {
			var list []string
			if err := json.Unmarshal([]byte(s), &list); err == nil {
				return list
			}
			return nil
		}
		return []string{s}
	default:
		return nil
	}
}

// Cosine returns the cosine similarity of two equal-length vectors.
// A zero vector scores 0 against everything.
func Cosine(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
