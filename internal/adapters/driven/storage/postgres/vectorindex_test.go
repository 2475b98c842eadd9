package postgres

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brisketrecipe/head-n-heart-gpt/internal/core/domain"
)

func TestEncodeTags(t *testing.T) {
	s, err := encodeTags([]string{"Vision", "Control"})
	require.NoError(t, err)
	assert.Equal(t, `["Vision","Control"]`, s)

	s, err = encodeTags(nil)
	require.NoError(t, err)
	assert.Equal(t, `[]`, s)
}

func TestDecodeTags(t *testing.T) {
	assert.Equal(t, []string{"Vision"}, decodeTags([]byte(`["Vision"]`)))
	assert.Equal(t, []string{"Vision", "Control"}, decodeTags([]byte(`"[\"Vision\", \"Control\"]"`)))
	assert.Equal(t, []string{}, decodeTags([]byte(`null`)))
	assert.Equal(t, []string{}, decodeTags([]byte(`not json`)))
}

func TestSearchQuery(t *testing.T) {
	v := &VectorIndex{table: "chunks", dims: 2}

	q, args, err := v.searchQuery([]float32{1, 0}, 5, domain.Filter{})
	require.NoError(t, err)
	assert.Len(t, args, 2)
	assert.NotContains(t, q, "WHERE")
	assert.Contains(t, q, "FROM chunks")
	assert.Contains(t, q, "LIMIT $2")

	q, args, err = v.searchQuery([]float32{1, 0}, 5, domain.Filter{Tags: []domain.Competency{"Vision"}})
	require.NoError(t, err)
	require.Len(t, args, 3)
	assert.Equal(t, `["Vision"]`, args[2])
	assert.Contains(t, q, "tags ?|")
}

func TestSchema(t *testing.T) {
	v := &VectorIndex{table: "lesson_chunks", dims: 3072}
	ddl := strings.Join(v.schema(), "\n")
	assert.Contains(t, ddl, "CREATE EXTENSION IF NOT EXISTS vector")
	assert.Contains(t, ddl, "vector(3072)")
	assert.Contains(t, ddl, "idx_lesson_chunks_embedding")
}

func TestNewVectorIndex_Validation(t *testing.T) {
	ctx := context.Background()

	_, err := NewVectorIndex(ctx, "postgres://localhost/x", "bad-name;", 3)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = NewVectorIndex(ctx, "postgres://localhost/x", "chunks", 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// TestVectorIndex_Integration runs against a real database when
// HEARTGPT_TEST_DATABASE_URL points at one with pgvector installed.
func TestVectorIndex_Integration(t *testing.T) {
	dsn := os.Getenv("HEARTGPT_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("HEARTGPT_TEST_DATABASE_URL not set")
	}
	ctx := context.Background()

	idx, err := NewVectorIndex(ctx, dsn, "heartgpt_test_chunks", 3)
	require.NoError(t, err)
	defer idx.Close()
	_, err = idx.db.ExecContext(ctx, "TRUNCATE heartgpt_test_chunks")
	require.NoError(t, err)

	rec := func(id string, vec []float32, tags ...string) domain.EmbeddingRecord {
		return domain.EmbeddingRecord{ChunkID: id, Vector: vec, Metadata: domain.ChunkMetadata{
			Filename: "deck.pdf", ChunkText: "text " + id, Tags: tags,
		}}
	}
	require.NoError(t, idx.Upsert(ctx, []domain.EmbeddingRecord{
		rec("deck.pdf#0", []float32{1, 0, 0}, "Fearless Presenter"),
		rec("deck.pdf#1", []float32{0, 1, 0}, "Planning"),
	}))
	require.NoError(t, idx.Upsert(ctx, []domain.EmbeddingRecord{
		rec("deck.pdf#0", []float32{1, 0.1, 0}, "Fearless Presenter", "Vision"),
	}))

	n, err := idx.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	matches, err := idx.Query(ctx, []float32{1, 0, 0}, 5, domain.Filter{})
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, "deck.pdf#0", matches[0].ChunkID)
	assert.Equal(t, []string{"Fearless Presenter", "Vision"}, matches[0].Metadata.Tags)

	matches, err = idx.Query(ctx, []float32{1, 0, 0}, 5, domain.Filter{Tags: []domain.Competency{"Planning"}})
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "deck.pdf#1", matches[0].ChunkID)

	require.NoError(t, idx.Delete(ctx, []string{"deck.pdf#1"}))
	n, err = idx.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
