package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brisketrecipe/head-n-heart-gpt/internal/core/domain"
)

// setupTestStore creates a temporary SQLite store for testing.
func setupTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := NewStore(filepath.Join(t.TempDir(), DefaultFilename))
	require.NoError(t, err)
	require.NotNil(t, store)
	t.Cleanup(func() { assert.NoError(t, store.Close()) })

	return store
}

func embedding(id, file string, index int, vec []float32, tags ...string) domain.EmbeddingRecord {
	return domain.EmbeddingRecord{
		ChunkID: id,
		Vector:  vec,
		Metadata: domain.ChunkMetadata{
			Filename:   file,
			ChunkText:  "text of " + id,
			ChunkIndex: index,
			Tags:       tags,
		},
	}
}

// ==================== Store ====================

func TestNewStore_CreatesDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "test.db")
	store, err := NewStore(path)
	require.NoError(t, err)
	defer store.Close()

	assert.Equal(t, path, store.Path())
	assert.FileExists(t, path)

	version, err := store.schemaVersion()
	require.NoError(t, err)
	assert.Equal(t, 1, version)
}

func TestNewStore_ReopenKeepsDataAndVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	ctx := context.Background()

	store, err := NewStore(path)
	require.NoError(t, err)
	_, err = store.DocumentStore().StoreProcessed(ctx, &domain.ProcessedDocument{Filename: "a.txt"})
	require.NoError(t, err)
	require.NoError(t, store.Close())

	store, err = NewStore(path)
	require.NoError(t, err)
	defer store.Close()

	names, err := store.DocumentStore().ListProcessed(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.txt"}, names)

	version, err := store.schemaVersion()
	require.NoError(t, err)
	assert.Equal(t, 1, version)
}

func TestStore_CloseIsIdempotent(t *testing.T) {
	store, err := NewStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	assert.NoError(t, store.Close())
	assert.NoError(t, store.Close())
}

func TestStore_ClosesAfterLastAdapter(t *testing.T) {
	store, err := NewStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)

	docs := store.DocumentStore()
	idx := store.VectorIndex(2)

	require.NoError(t, docs.Close())
	require.NoError(t, docs.Close(), "double close releases once")
	_, err = idx.Count(context.Background())
	require.NoError(t, err, "index still open while referenced")

	require.NoError(t, idx.Close())
	_, err = idx.Count(context.Background())
	assert.Error(t, err)
}

func TestFloat32Bytes_RoundTrip(t *testing.T) {
	in := []float32{0, 1.5, -2.25, 3.4028235e38}
	assert.Equal(t, in, bytesToFloat32Slice(float32SliceToBytes(in)))
	assert.Nil(t, float32SliceToBytes(nil))
	assert.Nil(t, bytesToFloat32Slice(nil))
}

// ==================== Document Store ====================

func TestDocumentStore_UploadOriginal(t *testing.T) {
	store := setupTestStore(t)
	docs := store.DocumentStore().(*documentStore)
	ctx := context.Background()

	path, err := docs.UploadOriginal(ctx, "deck.pdf", []byte("%PDF-1"))
	require.NoError(t, err)
	assert.Equal(t, "documents/deck.pdf", path)

	_, err = docs.UploadOriginal(ctx, "deck.pdf", []byte("%PDF-2"))
	require.NoError(t, err)

	data, err := docs.Original(ctx, "deck.pdf")
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-2"), data)

	_, err = docs.Original(ctx, "missing.pdf")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDocumentStore_UploadOriginal_EmptyName(t *testing.T) {
	store := setupTestStore(t)
	_, err := store.DocumentStore().UploadOriginal(context.Background(), "", []byte("x"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestDocumentStore_ProcessedRoundTrip(t *testing.T) {
	store := setupTestStore(t)
	docs := store.DocumentStore()
	ctx := context.Background()

	doc := &domain.ProcessedDocument{
		Filename:    "plan.docx",
		StoragePath: "documents/plan.docx",
		Chunks: []domain.Chunk{{
			ID:             "plan.docx#0",
			Text:           "Plan the launch.",
			Tags:           []domain.Competency{"Planning", "Vision"},
			SourceFilename: "plan.docx",
		}},
		Tags: map[domain.Category][]domain.Competency{
			domain.CategoryDiscipline: {"Planning"},
			domain.CategoryPurpose:    {"Vision"},
		},
		ProcessedDate: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}

	path, err := docs.StoreProcessed(ctx, doc)
	require.NoError(t, err)
	assert.Equal(t, "processed/plan.docx.json", path)

	got, err := docs.GetProcessed(ctx, "plan.docx")
	require.NoError(t, err)
	assert.Equal(t, doc.Chunks, got.Chunks)
	assert.Equal(t, doc.Tags, got.Tags)
	assert.True(t, doc.ProcessedDate.Equal(got.ProcessedDate))
}

func TestDocumentStore_StoreProcessed_Replaces(t *testing.T) {
	store := setupTestStore(t)
	docs := store.DocumentStore()
	ctx := context.Background()

	_, err := docs.StoreProcessed(ctx, &domain.ProcessedDocument{Filename: "a.txt", StoragePath: "one"})
	require.NoError(t, err)
	_, err = docs.StoreProcessed(ctx, &domain.ProcessedDocument{Filename: "a.txt", StoragePath: "two"})
	require.NoError(t, err)

	got, err := docs.GetProcessed(ctx, "a.txt")
	require.NoError(t, err)
	assert.Equal(t, "two", got.StoragePath)

	names, err := docs.ListProcessed(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.txt"}, names)
}

func TestDocumentStore_GetProcessed_NotFound(t *testing.T) {
	store := setupTestStore(t)
	_, err := store.DocumentStore().GetProcessed(context.Background(), "nope.txt")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDocumentStore_ListProcessed(t *testing.T) {
	store := setupTestStore(t)
	docs := store.DocumentStore()
	ctx := context.Background()

	names, err := docs.ListProcessed(ctx)
	require.NoError(t, err)
	assert.NotNil(t, names)
	assert.Empty(t, names)

	for _, n := range []string{"c.txt", "a.pdf", "b.png"} {
		_, err := docs.StoreProcessed(ctx, &domain.ProcessedDocument{Filename: n})
		require.NoError(t, err)
	}
	names, err = docs.ListProcessed(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.pdf", "b.png", "c.txt"}, names)
}

// ==================== Vector Index ====================

func TestVectorIndex_UpsertAndQuery(t *testing.T) {
	store := setupTestStore(t)
	idx := store.VectorIndex(3)
	ctx := context.Background()

	require.NoError(t, idx.Upsert(ctx, []domain.EmbeddingRecord{
		embedding("deck.pdf#0", "deck.pdf", 0, []float32{1, 0, 0}, "Fearless Presenter", "Vision"),
		embedding("deck.pdf#1", "deck.pdf", 1, []float32{1, 1, 0}, "Planning"),
		embedding("notes.txt#0", "notes.txt", 0, []float32{0, 0, 1}),
	}))

	matches, err := idx.Query(ctx, []float32{1, 0, 0}, 2, domain.Filter{})
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, "deck.pdf#0", matches[0].ChunkID)
	assert.InDelta(t, 1.0, matches[0].Score, 1e-6)
	assert.Equal(t, []string{"Fearless Presenter", "Vision"}, matches[0].Metadata.Tags)
	assert.Equal(t, "deck.pdf", matches[0].Metadata.Filename)
	assert.Equal(t, "text of deck.pdf#0", matches[0].Metadata.ChunkText)
	assert.Equal(t, "deck.pdf#1", matches[1].ChunkID)
	assert.Equal(t, 1, matches[1].Metadata.ChunkIndex)
}

func TestVectorIndex_EmptyQuery(t *testing.T) {
	store := setupTestStore(t)
	matches, err := store.VectorIndex(2).Query(context.Background(), []float32{1, 0}, 5, domain.Filter{})
	require.NoError(t, err)
	assert.NotNil(t, matches)
	assert.Empty(t, matches)
}

func TestVectorIndex_UpsertReplaces(t *testing.T) {
	store := setupTestStore(t)
	idx := store.VectorIndex(2)
	ctx := context.Background()

	require.NoError(t, idx.Upsert(ctx, []domain.EmbeddingRecord{embedding("a#0", "a", 0, []float32{1, 0}, "Vision", "Control")}))
	require.NoError(t, idx.Upsert(ctx, []domain.EmbeddingRecord{embedding("a#0", "a", 0, []float32{0, 1}, "Growth Mindset")}))

	n, err := idx.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	matches, err := idx.Query(ctx, []float32{0, 1}, 1, domain.Filter{})
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.InDelta(t, 1.0, matches[0].Score, 1e-6)
	assert.Equal(t, []string{"Growth Mindset"}, matches[0].Metadata.Tags)
}

func TestVectorIndex_Filter(t *testing.T) {
	store := setupTestStore(t)
	idx := store.VectorIndex(2)
	ctx := context.Background()

	require.NoError(t, idx.Upsert(ctx, []domain.EmbeddingRecord{
		embedding("a#0", "a", 0, []float32{1, 0}, "Vision"),
		embedding("b#0", "b", 0, []float32{0.9, 0.1}, "Control", "Organize"),
		embedding("c#0", "c", 0, []float32{0.8, 0.2}),
	}))

	matches, err := idx.Query(ctx, []float32{1, 0}, 5, domain.Filter{
		Tags: []domain.Competency{"Organize", "Results"},
	})
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "b#0", matches[0].ChunkID)
	assert.Equal(t, []string{"Control", "Organize"}, matches[0].Metadata.Tags)
}

func TestVectorIndex_DimensionMismatch(t *testing.T) {
	store := setupTestStore(t)
	idx := store.VectorIndex(3)
	ctx := context.Background()

	err := idx.Upsert(ctx, []domain.EmbeddingRecord{embedding("a#0", "a", 0, []float32{1, 0})})
	assert.ErrorIs(t, err, domain.ErrDimensionMismatch)

	_, err = idx.Query(ctx, []float32{1, 0}, 3, domain.Filter{})
	assert.ErrorIs(t, err, domain.ErrDimensionMismatch)

	assert.Equal(t, 3, idx.Dimensions())
}

func TestVectorIndex_Delete(t *testing.T) {
	store := setupTestStore(t)
	idx := store.VectorIndex(2)
	ctx := context.Background()

	require.NoError(t, idx.Upsert(ctx, []domain.EmbeddingRecord{
		embedding("a#0", "a", 0, []float32{1, 0}, "Vision"),
		embedding("a#1", "a", 1, []float32{0, 1}, "Vision"),
	}))
	require.NoError(t, idx.Delete(ctx, []string{"a#1", "missing"}))
	require.NoError(t, idx.Delete(ctx, nil))

	n, err := idx.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	var tagRows int
	require.NoError(t, store.db.QueryRow("SELECT COUNT(*) FROM chunk_tags").Scan(&tagRows))
	assert.Equal(t, 1, tagRows, "tags cascade with their chunk")
}

func TestVectorIndex_InvalidTopK(t *testing.T) {
	store := setupTestStore(t)
	_, err := store.VectorIndex(2).Query(context.Background(), []float32{1, 0}, 0, domain.Filter{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
