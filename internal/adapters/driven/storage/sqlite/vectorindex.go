package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/brisketrecipe/head-n-heart-gpt/internal/core/domain"
	"github.com/brisketrecipe/head-n-heart-gpt/internal/core/ports/driven"
)

// vectorIndex implements driven.VectorIndex with a full scan scored in Go.
// It suits single-user libraries of a few thousand chunks.
type vectorIndex struct {
	store     *Store
	dims      int
	closeOnce sync.Once
}

var _ driven.VectorIndex = (*vectorIndex)(nil)

// Upsert replaces records and their tags in one transaction.
func (v *vectorIndex) Upsert(ctx context.Context, records []domain.EmbeddingRecord) error {
	for i := range records {
		if len(records[i].Vector) != v.dims {
			return fmt.Errorf("%w: record %s has %d dimensions, index has %d",
				domain.ErrDimensionMismatch, records[i].ChunkID, len(records[i].Vector), v.dims)
		}
	}
	if len(records) == 0 {
		return nil
	}

	tx, err := v.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for i := range records {
		r := &records[i]
		_, err := tx.ExecContext(ctx, `
			INSERT INTO embeddings (chunk_id, filename, chunk_index, chunk_text, dimensions, vector)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT(chunk_id) DO UPDATE SET
				filename = excluded.filename,
				chunk_index = excluded.chunk_index,
				chunk_text = excluded.chunk_text,
				dimensions = excluded.dimensions,
				vector = excluded.vector
		`, r.ChunkID, r.Metadata.Filename, r.Metadata.ChunkIndex, r.Metadata.ChunkText,
			len(r.Vector), float32SliceToBytes(r.Vector))
		if err != nil {
			return fmt.Errorf("saving embedding %s: %w", r.ChunkID, err)
		}

		if _, err := tx.ExecContext(ctx, "DELETE FROM chunk_tags WHERE chunk_id = ?", r.ChunkID); err != nil {
			return fmt.Errorf("clearing tags of %s: %w", r.ChunkID, err)
		}
		for pos, tag := range r.Metadata.Tags {
			_, err := tx.ExecContext(ctx,
				"INSERT OR IGNORE INTO chunk_tags (chunk_id, position, tag) VALUES (?, ?, ?)",
				r.ChunkID, pos, tag)
			if err != nil {
				return fmt.Errorf("saving tag of %s: %w", r.ChunkID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing embeddings: %w", err)
	}
	return nil
}

// Query scans candidate records, scores them and returns the best topK.
func (v *vectorIndex) Query(
	ctx context.Context, vector []float32, topK int, filter domain.Filter,
) ([]domain.Match, error) {
	if topK <= 0 {
		return nil, fmt.Errorf("%w: top_k must be positive", domain.ErrInvalidInput)
	}
	if len(vector) != v.dims {
		return nil, fmt.Errorf("%w: query has %d dimensions, index has %d",
			domain.ErrDimensionMismatch, len(vector), v.dims)
	}

	query := "SELECT chunk_id, filename, chunk_index, chunk_text, vector FROM embeddings"
	var args []any
	if !filter.IsEmpty() {
		placeholders := make([]string, len(filter.Tags))
		for i, tag := range filter.Tags {
			placeholders[i] = "?"
			args = append(args, string(tag))
		}
		query += " WHERE chunk_id IN (SELECT chunk_id FROM chunk_tags WHERE tag IN (" +
			strings.Join(placeholders, ", ") + "))"
	}

	rows, err := v.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying embeddings: %w", err)
	}
	defer rows.Close()

	matches := []domain.Match{}
	for rows.Next() {
		var m domain.Match
		var blob []byte
		if err := rows.Scan(&m.ChunkID, &m.Metadata.Filename, &m.Metadata.ChunkIndex,
			&m.Metadata.ChunkText, &blob); err != nil {
			return nil, fmt.Errorf("scanning embedding: %w", err)
		}
		m.Score = domain.Cosine(vector, bytesToFloat32Slice(blob))
		matches = append(matches, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating embeddings: %w", err)
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].ChunkID < matches[j].ChunkID
	})
	if len(matches) > topK {
		matches = matches[:topK]
	}

	for i := range matches {
		tags, err := v.tags(ctx, matches[i].ChunkID)
		if err != nil {
			return nil, err
		}
		matches[i].Metadata.Tags = tags
	}
	return matches, nil
}

func (v *vectorIndex) tags(ctx context.Context, chunkID string) ([]string, error) {
	rows, err := v.store.db.QueryContext(ctx,
		"SELECT tag FROM chunk_tags WHERE chunk_id = ? ORDER BY position", chunkID)
	if err != nil {
		return nil, fmt.Errorf("querying tags: %w", err)
	}
	defer rows.Close()

	tags := []string{}
	for rows.Next() {
		var tag string
		if err := rows.Scan(&tag); err != nil {
			return nil, fmt.Errorf("scanning tag: %w", err)
		}
		tags = append(tags, tag)
	}
	return tags, rows.Err()
}

// Delete removes records by id. Tags cascade.
func (v *vectorIndex) Delete(ctx context.Context, chunkIDs []string) error {
	if len(chunkIDs) == 0 {
		return nil
	}
	tx, err := v.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, id := range chunkIDs {
		if _, err := tx.ExecContext(ctx, "DELETE FROM embeddings WHERE chunk_id = ?", id); err != nil {
			return fmt.Errorf("deleting embedding %s: %w", id, err)
		}
	}
	return tx.Commit()
}

// Count returns the number of stored records.
func (v *vectorIndex) Count(ctx context.Context) (int, error) {
	var n int
	if err := v.store.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM embeddings").Scan(&n); err != nil {
		if err == sql.ErrNoRows {
			return 0, nil
		}
		return 0, fmt.Errorf("counting embeddings: %w", err)
	}
	return n, nil
}

// Dimensions returns the configured vector length.
func (v *vectorIndex) Dimensions() int {
	return v.dims
}

// Close releases this adapter's hold on the database.
func (v *vectorIndex) Close() error {
	var err error
	v.closeOnce.Do(func() { err = v.store.release() })
	return err
}
