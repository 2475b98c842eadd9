package ollama

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

func TestNewLLMService_Defaults(t *testing.T) {
	svc := NewLLMService(LLMConfig{})

	assert.Equal(t, DefaultBaseURL, svc.baseURL)
	assert.Equal(t, DefaultLLMModel, svc.ModelName())
}

func TestChat_ImagesAndFormat(t *testing.T) {
	var got chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(chatResponse{Message: chatMessage{Role: "assistant", Content: "ok"}, Done: true})
	}))
	defer srv.Close()

	svc := NewLLMService(LLMConfig{BaseURL: srv.URL, Model: "llava"})
	out, err := svc.Chat(context.Background(), []driven.ChatMessage{
		{Role: driven.RoleUser, Content: "describe", Images: []driven.Image{{Data: []byte("hi")}}},
	}, driven.ChatOptions{JSON: true})

	require.NoError(t, err)
	assert.Equal(t, "ok", out)
	assert.Equal(t, "llava", got.Model)
	assert.Equal(t, "json", got.Format)
	assert.False(t, got.Stream)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, []string{"aGk="}, got.Messages[0].Images)
}

func TestGenerate_OptionsAndModelOverride(t *testing.T) {
	var got chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(chatResponse{Message: chatMessage{Content: "done"}})
	}))
	defer srv.Close()

	svc := NewLLMService(LLMConfig{BaseURL: srv.URL})
	_, err := svc.Generate(context.Background(), "p", driven.GenerateOptions{
		Model: "mistral", MaxTokens: 50, StopWords: []string{"\n"},
	})

	require.NoError(t, err)
	assert.Equal(t, "mistral", got.Model)
	require.NotNil(t, got.Options)
	assert.Equal(t, 50, got.Options.NumPredict)
	assert.Equal(t, []string{"\n"}, got.Options.Stop)
}

func TestChat_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer srv.Close()

	svc := NewLLMService(LLMConfig{BaseURL: srv.URL})
	_, err := svc.Generate(context.Background(), "p", driven.GenerateOptions{})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestPing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/tags", r.URL.Path)
		_, _ = w.Write([]byte(`{"models":[]}`))
	}))
	defer srv.Close()

	assert.NoError(t, NewLLMService(LLMConfig{BaseURL: srv.URL}).Ping(context.Background()))
}
