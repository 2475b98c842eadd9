// Package jsonfrag extracts JSON embedded in model output.
//
// Language models often wrap JSON in prose or code fences. Extract never
// fails: it returns either the parsed JSON fragment or the raw text.
package jsonfrag

import (
	"encoding/json"
	"strings"
)

// Result is either Parsed (a JSON value was found) or Raw (it was not).
type Result struct {
	raw      string
	fragment json.RawMessage
}

// Extract finds the first structurally valid JSON object or array in text.
//
// Candidates are tried in order: the whole trimmed text, the span from the
// first '{' or '[' to the last '}' or ']', then the widest '[...]' and
// '{...}' spans on their own.
func Extract(text string) Result {
	res := Result{raw: text}

	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return res
	}

	for _, candidate := range candidates(trimmed) {
		if isContainer(candidate) && json.Valid([]byte(candidate)) {
			res.fragment = json.RawMessage(candidate)
			return res
		}
	}
	return res
}

func candidates(s string) []string {
	out := []string{s}

	start := strings.IndexAny(s, "{[")
	end := strings.LastIndexAny(s, "}]")
	if start >= 0 && end > start {
		out = append(out, s[start:end+1])
	}

	if a, b := strings.Index(s, "["), strings.LastIndex(s, "]"); a >= 0 && b > a {
		out = append(out, s[a:b+1])
	}
	if a, b := strings.Index(s, "{"), strings.LastIndex(s, "}"); a >= 0 && b > a {
		out = append(out, s[a:b+1])
	}
	return out
}

func isContainer(s string) bool {
	return strings.HasPrefix(s, "{") || strings.HasPrefix(s, "[")
}

// IsParsed reports whether a JSON fragment was found.
func (r Result) IsParsed() bool {
	return r.fragment != nil
}

// Raw returns the original text unchanged.
func (r Result) Raw() string {
	return r.raw
}

// Fragment returns the JSON fragment, nil when not parsed.
func (r Result) Fragment() json.RawMessage {
	return r.fragment
}

// IsArray reports whether the fragment is a JSON array.
func (r Result) IsArray() bool {
	return r.IsParsed() && r.fragment[0] == '['
}

// Decode unmarshals the fragment into v. It returns ErrNotParsed for Raw results.
func (r Result) Decode(v any) error {
	if !r.IsParsed() {
		return ErrNotParsed
	}
	return json.Unmarshal(r.fragment, v)
}
