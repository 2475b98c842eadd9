package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brisketrecipe/head-n-heart-gpt/internal/core/domain"
	"github.com/brisketrecipe/head-n-heart-gpt/internal/core/ports/driven"
)

func replyWith(out string) func([]driven.ChatMessage, driven.ChatOptions) (string, error) {
	return func([]driven.ChatMessage, driven.ChatOptions) (string, error) { return out, nil }
}

func TestClassifier_ParseTags(t *testing.T) {
	c := NewClassifier(&mockLLM{}, nil, testConfig())

	tests := []struct {
		name    string
		raw     string
		want    []domain.Competency
		wantErr bool
	}{
		{
			name: "bare array",
			raw:  `["Vision", "Planning"]`,
			want: []domain.Competency{"Vision", "Planning"},
		},
		{
			name: "competencies object",
			raw:  `{"competencies": ["Connection"]}`,
			want: []domain.Competency{"Connection"},
		},
		{
			name: "tags object",
			raw:  `{"tags": ["Control", "Organize"]}`,
			want: []domain.Competency{"Control", "Organize"},
		},
		{
			name: "per category object",
			raw:  `{"action": ["Results"], "Purpose": ["Vision"], "Other": ["Ignored"]}`,
			want: []domain.Competency{"Results", "Vision"},
		},
		{
			name: "prose around JSON",
			raw:  "Here are the tags:\n```json\n[\"Growth Mindset\"]\n```",
			want: []domain.Competency{"Growth Mindset"},
		},
		{
			name: "unknown labels dropped",
			raw:  `["Vision", "Synergy", "vision"]`,
			want: []domain.Competency{"Vision"},
		},
		{
			name: "duplicates removed and capped",
			raw:  `["Results","Results","Execution","Planning","Control","Vision","Organize"]`,
			want: []domain.Competency{"Results", "Execution", "Planning", "Control", "Vision"},
		},
		{
			name: "non-string items in array dropped",
			raw:  `["Vision", 3, "Leadership"]`,
			want: []domain.Competency{"Vision", "Leadership"},
		},
		{
			name: "non-string items in competencies dropped",
			raw:  `{"competencies": ["Vision", null, {"x":1}, "Leadership"]}`,
			want: []domain.Competency{"Vision", "Leadership"},
		},
		{
			name: "non-string items in category dropped",
			raw:  `{"Discipline": [true, "Planning"]}`,
			want: []domain.Competency{"Planning"},
		},
		{
			name: "empty array",
			raw:  `[]`,
			want: []domain.Competency{},
		},
		{
			name:    "no JSON",
			raw:     "I think this is about vision.",
			want:    []domain.Competency{},
			wantErr: true,
		},
		{
			name:    "wrong field type",
			raw:     `{"competencies": "Vision"}`,
			want:    []domain.Competency{},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.ParseTags(tt.raw)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrClassificationParse)
			} else {
				assert.NoError(t, err)
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClassifier_Classify(t *testing.T) {
	llm := &mockLLM{respond: replyWith(`{"competencies": ["Fearless Presenter", "Made Up"]}`)}
	cfg := testConfig()
	c := NewClassifier(llm, nil, cfg)

	tags := c.Classify(context.Background(), "Presenting with confidence in front of investors.")
	assert.Equal(t, []domain.Competency{"Fearless Presenter"}, tags)

	require.Len(t, llm.calls, 1)
	call := llm.calls[0]
	assert.Equal(t, cfg.ClassifierModel, call.opts.Model)
	assert.True(t, call.opts.JSON)
	assert.Contains(t, call.messages[0].Content, "ACTION category:")
	assert.Contains(t, call.messages[0].Content, "- Fearless Presenter")
	assert.NotContains(t, call.messages[0].Content, "%s")
}

func TestClassifier_Classify_TruncatesInput(t *testing.T) {
	llm := &mockLLM{respond: replyWith(`[]`)}
	cfg := testConfig()
	cfg.ClassifyInputChars = 10
	c := NewClassifier(llm, nil, cfg)

	c.Classify(context.Background(), strings.Repeat("é", 50))

	require.Len(t, llm.calls, 1)
	assert.Equal(t, strings.Repeat("é", 10), llm.calls[0].messages[1].Content)
}

func TestClassifier_Classify_EmptyTextSkipsCall(t *testing.T) {
	llm := &mockLLM{}
	c := NewClassifier(llm, nil, testConfig())

	assert.Empty(t, c.Classify(context.Background(), "   "))
	assert.Empty(t, llm.calls)
}

func TestClassifier_Classify_FailureYieldsEmptyTags(t *testing.T) {
	llm := &mockLLM{respond: func([]driven.ChatMessage, driven.ChatOptions) (string, error) {
		return "", errors.New("upstream 503")
	}}
	c := NewClassifier(llm, nil, testConfig())

	tags := c.Classify(context.Background(), "some text")
	require.NotNil(t, tags)
	assert.Empty(t, tags)
	assert.Len(t, llm.calls, 2, "transient failures are retried")
}

func TestClassifier_Classify_AuthFailureNotRetried(t *testing.T) {
	llm := &mockLLM{respond: func([]driven.ChatMessage, driven.ChatOptions) (string, error) {
		return "", domain.ErrAuthInvalid
	}}
	c := NewClassifier(llm, nil, testConfig())

	assert.Empty(t, c.Classify(context.Background(), "some text"))
	assert.Len(t, llm.calls, 1)
}

func TestClassifier_Classify_UsesPromptStore(t *testing.T) {
	llm := &mockLLM{respond: replyWith(`["Vision"]`)}
	store := mockPromptStore{driven.PromptClassify: "Custom tagger.\n%s"}
	c := NewClassifier(llm, store, testConfig())

	c.Classify(context.Background(), "text")

	require.Len(t, llm.calls, 1)
	assert.True(t, strings.HasPrefix(llm.calls[0].messages[0].Content, "Custom tagger.\nACTION category:"))
}

func TestClassifier_ClassifyImage(t *testing.T) {
	llm := &mockLLM{respond: replyWith(`{"text": " Slide 3: Pitch practice ", "competencies": ["Fearless Presenter"]}`)}
	cfg := testConfig()
	c := NewClassifier(llm, nil, cfg)

	img := driven.Image{MIMEType: "image/png", Data: []byte{0x89, 'P', 'N', 'G'}}
	text, tags := c.ClassifyImage(context.Background(), img)

	assert.Equal(t, "Slide 3: Pitch practice", text)
	assert.Equal(t, []domain.Competency{"Fearless Presenter"}, tags)
	require.Len(t, llm.calls, 1)
	assert.Equal(t, cfg.VisionModel, llm.calls[0].opts.Model)
	assert.Equal(t, []driven.Image{img}, llm.calls[0].messages[1].Images)
}

func TestClassifier_ClassifyImage_PlainTextReply(t *testing.T) {
	llm := &mockLLM{respond: replyWith("A whiteboard listing quarterly goals.")}
	c := NewClassifier(llm, nil, testConfig())

	text, tags := c.ClassifyImage(context.Background(), driven.Image{MIMEType: "image/jpeg"})
	assert.Equal(t, "A whiteboard listing quarterly goals.", text)
	assert.Empty(t, tags)
}

func TestClassifier_ClassifyImage_Failure(t *testing.T) {
	llm := &mockLLM{respond: func([]driven.ChatMessage, driven.ChatOptions) (string, error) {
		return "", domain.ErrAuthInvalid
	}}
	c := NewClassifier(llm, nil, testConfig())

	text, tags := c.ClassifyImage(context.Background(), driven.Image{MIMEType: "image/jpeg"})
	assert.Empty(t, text)
	assert.Empty(t, tags)
}

func TestClassifier_Summarize(t *testing.T) {
	llm := &mockLLM{respond: replyWith(`{"summary": "How to plan a launch.", "context": "Week 2 lecture"}`)}
	c := NewClassifier(llm, nil, testConfig())

	summary, ctxLabel := c.Summarize(context.Background(), "Launch planning notes")
	assert.Equal(t, "How to plan a launch.", summary)
	assert.Equal(t, "Week 2 lecture", ctxLabel)
}

func TestClassifier_Summarize_Unparsable(t *testing.T) {
	llm := &mockLLM{respond: replyWith("no json here")}
	c := NewClassifier(llm, nil, testConfig())

	summary, ctxLabel := c.Summarize(context.Background(), "text")
	assert.Empty(t, summary)
	assert.Empty(t, ctxLabel)
}

func TestRenderTaxonomy(t *testing.T) {
	out := RenderTaxonomy(domain.DefaultTaxonomy())

	assert.True(t, strings.HasPrefix(out, "ACTION category:\n- Results\n"))
	assert.Contains(t, out, "\n\nPURPOSE category:\n- Authenticity")
	assert.Equal(t, 16, strings.Count(out, "- "))
	assert.False(t, strings.HasSuffix(out, "\n"))
}

func TestLoadPrompt_FallsBackToDefault(t *testing.T) {
	assert.Equal(t, driven.DefaultPrompts()[driven.PromptAnswer], loadPrompt(nil, driven.PromptAnswer))
	assert.Equal(t, driven.DefaultPrompts()[driven.PromptAnswer], loadPrompt(mockPromptStore{}, driven.PromptAnswer))
	assert.Equal(t, "x", loadPrompt(mockPromptStore{driven.PromptAnswer: "x"}, driven.PromptAnswer))
}

func TestTruncateRunes(t *testing.T) {
	assert.Equal(t, "héllo", truncateRunes("héllo world", 5))
	assert.Equal(t, "short", truncateRunes("short", 10))
	assert.Equal(t, "anything", truncateRunes("anything", 0))
}
