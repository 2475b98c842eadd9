package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/brisketrecipe/head-n-heart-gpt/internal/core/domain"
	"github.com/brisketrecipe/head-n-heart-gpt/internal/core/ports/driven"
	"github.com/brisketrecipe/head-n-heart-gpt/internal/jsonfrag"
	"github.com/brisketrecipe/head-n-heart-gpt/internal/logger"
)

// Classifier tags chunk text with competencies from the taxonomy.
//
// Every method degrades instead of failing: transport errors, exhausted
// retries and unparsable output all yield empty results so one bad chunk
// never aborts a document.
type Classifier struct {
	llm     driven.LLMService
	prompts driven.PromptStore
	cfg     domain.Config
}

// NewClassifier creates a classifier. prompts may be nil, in which case the
// built-in templates are used.
func NewClassifier(llm driven.LLMService, prompts driven.PromptStore, cfg domain.Config) *Classifier {
	return &Classifier{llm: llm, prompts: prompts, cfg: cfg}
}

// Classify returns validated tags for text, most relevant first.
func (c *Classifier) Classify(ctx context.Context, text string) []domain.Competency {
	if strings.TrimSpace(text) == "" {
		return []domain.Competency{}
	}

	system := fmt.Sprintf(c.prompt(driven.PromptClassify), RenderTaxonomy(c.cfg.Taxonomy))
	messages := []driven.ChatMessage{
		{Role: driven.RoleSystem, Content: system},
		{Role: driven.RoleUser, Content: truncateRunes(text, c.cfg.ClassifyInputChars)},
	}

	raw, err := c.chat(ctx, "classify", messages, c.cfg.ClassifierModel)
	if err != nil {
		logger.Warn("Classification failed, continuing without tags: %v", err)
		return []domain.Competency{}
	}

	tags, err := c.ParseTags(raw)
	if err != nil {
		logger.Debug("%v", err)
	}
	return tags
}

// ClassifyImage asks a vision model for the image's text and tags.
// On failure the text is empty and tags are empty.
func (c *Classifier) ClassifyImage(ctx context.Context, img driven.Image) (string, []domain.Competency) {
	system := fmt.Sprintf(c.prompt(driven.PromptClassifyImage), RenderTaxonomy(c.cfg.Taxonomy))
	messages := []driven.ChatMessage{
		{Role: driven.RoleSystem, Content: system},
		{Role: driven.RoleUser, Content: "Extract the text and tag this image.", Images: []driven.Image{img}},
	}

	raw, err := c.chat(ctx, "classify image", messages, c.cfg.VisionModel)
	if err != nil {
		logger.Warn("Image classification failed: %v", err)
		return "", []domain.Competency{}
	}

	var payload struct {
		Text string `json:"text"`
	}
	res := jsonfrag.Extract(raw)
	if err := res.Decode(&payload); err != nil || res.IsArray() {
		// The model ignored the format; treat the whole reply as extracted text.
		return strings.TrimSpace(raw), []domain.Competency{}
	}

	tags, err := c.ParseTags(raw)
	if err != nil {
		logger.Debug("%v", err)
	}
	return strings.TrimSpace(payload.Text), tags
}

// Summarize returns a short summary and context label for text.
// Both are empty when the call or parse fails.
func (c *Classifier) Summarize(ctx context.Context, text string) (summary, contextLabel string) {
	if strings.TrimSpace(text) == "" {
		return "", ""
	}

	messages := []driven.ChatMessage{
		{Role: driven.RoleSystem, Content: c.prompt(driven.PromptSummarise)},
		{Role: driven.RoleUser, Content: truncateRunes(text, c.cfg.ClassifyInputChars)},
	}

	raw, err := c.chat(ctx, "summarise", messages, c.cfg.ClassifierModel)
	if err != nil {
		logger.Warn("Summary failed, continuing without summary: %v", err)
		return "", ""
	}

	var payload struct {
		Summary string `json:"summary"`
		Context string `json:"context"`
	}
	if err := jsonfrag.Extract(raw).Decode(&payload); err != nil {
		logger.Debug("summary output not JSON: %v", err)
		return "", ""
	}
	return strings.TrimSpace(payload.Summary), strings.TrimSpace(payload.Context)
}

// ParseTags extracts and validates competencies from model output.
//
// Accepted shapes: a bare array of labels, an object with a "competencies"
// or "tags" array, or an object mapping category names to label arrays.
// The result is always non-nil. Unparsable output returns an error wrapping
// domain.ErrClassificationParse alongside the empty result.
func (c *Classifier) ParseTags(raw string) ([]domain.Competency, error) {
	labels, err := extractLabels(raw, c.cfg.Taxonomy)
	if err != nil {
		return []domain.Competency{}, err
	}
	return c.cfg.Taxonomy.Validate(labels, c.cfg.MaxTags), nil
}

func extractLabels(raw string, taxonomy domain.Taxonomy) ([]string, error) {
	res := jsonfrag.Extract(raw)
	if !res.IsParsed() {
		return nil, fmt.Errorf("%w: no JSON in %q", domain.ErrClassificationParse, domain.Preview(raw, 80))
	}

	if res.IsArray() {
		var items []any
		if err := res.Decode(&items); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrClassificationParse, err)
		}
		return domain.DecodeTags(items), nil
	}

	var obj map[string]json.RawMessage
	if err := res.Decode(&obj); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrClassificationParse, err)
	}

	// Non-string items are dropped like unknown labels.
	for _, key := range []string{"competencies", "tags"} {
		if v, ok := obj[key]; ok {
			var items []any
			if err := json.Unmarshal(v, &items); err != nil {
				return nil, fmt.Errorf("%w: %q is not a list", domain.ErrClassificationParse, key)
			}
			return domain.DecodeTags(items), nil
		}
	}

	// Per-category object, e.g. {"Action": ["Results"], "Purpose": ["Vision"]}.
	var labels []string
	for _, cat := range taxonomy.Categories() {
		v, ok := lookupFold(obj, string(cat))
		if !ok {
			continue
		}
		var group []any
		if err := json.Unmarshal(v, &group); err == nil {
			labels = append(labels, domain.DecodeTags(group)...)
		}
	}
	if labels == nil {
		return nil, fmt.Errorf("%w: no competency list in object", domain.ErrClassificationParse)
	}
	return labels, nil
}

func lookupFold(obj map[string]json.RawMessage, key string) (json.RawMessage, bool) {
	if v, ok := obj[key]; ok {
		return v, true
	}
	for k, v := range obj {
		if strings.EqualFold(k, key) {
			return v, true
		}
	}
	return nil, false
}

func (c *Classifier) chat(ctx context.Context, op string, messages []driven.ChatMessage, model string) (string, error) {
	var out string
	err := Retry(ctx, c.cfg.Retry, op, func(ctx context.Context) error {
		var err error
		out, err = c.llm.Chat(ctx, messages, driven.ChatOptions{Model: model, JSON: true})
		return err
	})
	return out, err
}

func (c *Classifier) prompt(name string) string {
	return loadPrompt(c.prompts, name)
}

// RenderTaxonomy lists categories and labels the way prompts present them.
func RenderTaxonomy(t domain.Taxonomy) string {
	var b strings.Builder
	for i, cat := range t.Categories() {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%s category:\n", strings.ToUpper(string(cat)))
		for _, label := range t.Labels(cat) {
			fmt.Fprintf(&b, "- %s\n", label)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// loadPrompt loads a prompt from the store, falling back to the built-in
// template if the store is nil or fails.
func loadPrompt(store driven.PromptStore, name string) string {
	if store != nil {
		if p, err := store.Load(name); err == nil && p != "" {
			return p
		}
	}
	return driven.DefaultPrompts()[name]
}

func truncateRunes(s string, n int) string {
	if n <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
