package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessedDocument_AllTags(t *testing.T) {
	doc := ProcessedDocument{
		Chunks: []Chunk{
			{Tags: []Competency{"Vision", "Control"}},
			{Tags: nil},
			{Tags: []Competency{"Control", "Results"}},
		},
	}

	assert.Equal(t, []Competency{"Vision", "Control", "Results"}, doc.AllTags())
}

func TestProcessedDocument_JSONRoundTrip(t *testing.T) {
	doc := ProcessedDocument{
		Filename:    "talk.txt",
		StoragePath: "documents/talk.txt",
		Chunks: []Chunk{
			{ID: ChunkID("talk.txt", 0), Index: 0, Text: "one", Tags: []Competency{"Vision"}, SourceFilename: "talk.txt"},
			{ID: ChunkID("talk.txt", 1), Index: 1, Text: "two", Tags: []Competency{}, SourceFilename: "talk.txt", Page: 2},
		},
		Tags:          map[Category][]Competency{CategoryPurpose: {"Vision"}},
		ProcessedDate: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}

	data, err := json.Marshal(doc)
	require.NoError(t, err)

	var got ProcessedDocument
	require.NoError(t, json.Unmarshal(data, &got))

	assert.Equal(t, doc.Filename, got.Filename)
	assert.Equal(t, doc.StoragePath, got.StoragePath)
	require.Len(t, got.Chunks, 2)
	for i := range doc.Chunks {
		assert.Equal(t, doc.Chunks[i].Text, got.Chunks[i].Text)
		assert.Equal(t, doc.Chunks[i].Tags, got.Chunks[i].Tags)
		assert.Equal(t, doc.Chunks[i].ID, got.Chunks[i].ID)
	}
	assert.True(t, doc.ProcessedDate.Equal(got.ProcessedDate))
	assert.Contains(t, string(data), `"chunk_id":"talk.txt#0"`)
}
