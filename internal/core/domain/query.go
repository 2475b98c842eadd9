package domain

// NoRelevantContentReply is returned when retrieval finds nothing.
const NoRelevantContentReply = "No relevant content found for this query."

// PreviewChars is the length of match previews shown to users.
const PreviewChars = 300

// QueryOptions tunes a single query.
type QueryOptions struct {
	// TopK overrides Config.TopK when positive.
	TopK int

	// Filter restricts retrieval to matching tags.
	Filter Filter
}

// QueryResult is the ephemeral outcome of answering a query.
type QueryResult struct {
	Query   string            `json:"query"`
	Matches []Match           `json:"matches"`
	Reply   string            `json:"reply"`
	Answer  *StructuredAnswer `json:"answer,omitempty"`
}

// StructuredAnswer is the generator's JSON answer shape.
type StructuredAnswer struct {
	Competency string    `json:"competency"`
	Category   string    `json:"category"`
	Extracts   []Extract `json:"extracts"`
}

// Extract is a quoted passage with attribution.
type Extract struct {
	Content            string `json:"content"`
	Reference          string `json:"reference"`
	TeachingSuggestion string `json:"teaching_suggestion"`
}

// Preview returns at most n bytes of s followed by "..." when cut.
// Cuts land on a rune boundary.
func Preview(s string, n int) string {
	if len(s) <= n {
		return s
	}
	cut := n
	for cut > 0 && !runeStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}

func runeStart(b byte) bool {
	return b&0xC0 != 0x80
}
