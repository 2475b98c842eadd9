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
)

type fakeData struct {
	Embedding []float32 `json:"embedding"`
	Index     int       `json:"index"`
}

func TestNewEmbeddingService_Dimensions(t *testing.T) {
	tests := []struct {
		name  string
		cfg   Config
		wantD int
	}{
		{"default model keeps configured size", Config{APIKey: "k", Dimensions: 1536}, 1536},
		{"default model native size", Config{APIKey: "k"}, 3072},
		{"ada ignores override", Config{APIKey: "k", Model: "text-embedding-ada-002", Dimensions: 256}, 1536},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := NewEmbeddingService(tt.cfg)
			require.NoError(t, err)
			assert.Equal(t, tt.wantD, svc.Dimensions())
		})
	}
}

func TestNewEmbeddingService_RequiresAPIKey(t *testing.T) {
	_, err := NewEmbeddingService(Config{})
	assert.ErrorIs(t, err, domain.ErrAuthInvalid)
}

func TestEmbedBatch_OrdersByIndex(t *testing.T) {
	var got embeddingRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/embeddings", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": []fakeData{
				{Embedding: []float32{2, 2}, Index: 1},
				{Embedding: []float32{1, 1}, Index: 0},
			},
		})
	}))
	defer srv.Close()

	svc, err := NewEmbeddingService(Config{APIKey: "k", BaseURL: srv.URL, Dimensions: 2})
	require.NoError(t, err)

	out, err := svc.EmbedBatch(context.Background(), []string{"a", "b"})

	require.NoError(t, err)
	assert.Equal(t, [][]float32{{1, 1}, {2, 2}}, out)
	assert.Equal(t, 2, got.Dimensions)
	assert.Equal(t, DefaultModel, got.Model)
}

func TestEmbed_MissingVector(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"data":[]}`))
	}))
	defer srv.Close()

	svc, err := NewEmbeddingService(Config{APIKey: "k", BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = svc.Embed(context.Background(), "a")
	assert.Error(t, err)
}

func TestEmbed_RateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	svc, err := NewEmbeddingService(Config{APIKey: "k", BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = svc.Embed(context.Background(), "a")
	assert.ErrorIs(t, err, domain.ErrRateLimited)
}

func TestEmbedBatch_Empty(t *testing.T) {
	svc, err := NewEmbeddingService(Config{APIKey: "k"})
	require.NoError(t, err)

	out, err := svc.EmbedBatch(context.Background(), nil)
	assert.NoError(t, err)
	assert.Nil(t, out)
}
