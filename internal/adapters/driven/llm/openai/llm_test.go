package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brisketrecipe/head-n-heart-gpt/internal/core/domain"
	"github.com/brisketrecipe/head-n-heart-gpt/internal/core/ports/driven"
)

func newTestService(t *testing.T, handler http.HandlerFunc) *LLMService {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	svc, err := NewLLMService(LLMConfig{APIKey: "sk-test", BaseURL: srv.URL})
	require.NoError(t, err)
	return svc
}

func reply(w http.ResponseWriter, content string) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"content": content}},
		},
	})
}

func TestNewLLMService_RequiresAPIKey(t *testing.T) {
	_, err := NewLLMService(LLMConfig{})
	assert.ErrorIs(t, err, domain.ErrAuthInvalid)
}

func TestNewLLMService_Defaults(t *testing.T) {
	svc, err := NewLLMService(LLMConfig{APIKey: "k"})
	require.NoError(t, err)

	assert.Equal(t, DefaultBaseURL, svc.baseURL)
	assert.Equal(t, DefaultLLMModel, svc.ModelName())
}

func TestGenerate_SendsPromptAndAuth(t *testing.T) {
	var got chatCompletionRequest
	var auth string
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		auth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		reply(w, "hello")
	})

	out, err := svc.Generate(context.Background(), "say hi", driven.GenerateOptions{Model: "gpt-4", MaxTokens: 10})

	require.NoError(t, err)
	assert.Equal(t, "hello", out)
	assert.Equal(t, "Bearer sk-test", auth)
	assert.Equal(t, "gpt-4", got.Model)
	assert.Equal(t, 10, got.MaxTokens)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "say hi", got.Messages[0].Content)
}

func TestChat_JSONModeAndImages(t *testing.T) {
	var raw map[string]any
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		reply(w, `{"tags":[]}`)
	})

	_, err := svc.Chat(context.Background(), []driven.ChatMessage{
		{Role: driven.RoleSystem, Content: "classify"},
		{Role: driven.RoleUser, Content: "look", Images: []driven.Image{{MIMEType: "image/jpeg", Data: []byte{1, 2, 3}}}},
	}, driven.ChatOptions{JSON: true})
	require.NoError(t, err)

	assert.Equal(t, map[string]any{"type": "json_object"}, raw["response_format"])

	msgs := raw["messages"].([]any)
	require.Len(t, msgs, 2)
	assert.Equal(t, "classify", msgs[0].(map[string]any)["content"])

	parts := msgs[1].(map[string]any)["content"].([]any)
	require.Len(t, parts, 2)
	assert.Equal(t, "text", parts[0].(map[string]any)["type"])
	img := parts[1].(map[string]any)["image_url"].(map[string]any)
	assert.Equal(t, "data:image/jpeg;base64,AQID", img["url"])
}

func TestChat_StatusErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   error
	}{
		{"unauthorized", http.StatusUnauthorized, domain.ErrAuthInvalid},
		{"rate limited", http.StatusTooManyRequests, domain.ErrRateLimited},
		{"bad request", http.StatusBadRequest, domain.ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(`{"error":{"message":"x"}}`))
			})

			_, err := svc.Chat(context.Background(), []driven.ChatMessage{{Role: "user", Content: "q"}}, driven.ChatOptions{})
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestChat_NoChoices(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	})

	_, err := svc.Chat(context.Background(), []driven.ChatMessage{{Role: "user", Content: "q"}}, driven.ChatOptions{})
	assert.Error(t, err)
}

func TestPing(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	})

	assert.NoError(t, svc.Ping(context.Background()))
	assert.NoError(t, svc.Close())
}
