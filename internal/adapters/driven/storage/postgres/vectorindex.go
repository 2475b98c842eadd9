// Package postgres implements the vector index on PostgreSQL with the
// pgvector extension. Similarity is computed in the database using the
// cosine distance operator and an HNSW index.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"regexp"

	_ "github.com/jackc/pgx/v5/stdlib" // database/sql driver "pgx"
	"github.com/pgvector/pgvector-go"

	"github.com/brisketrecipe/head-n-heart-gpt/internal/core/domain"
	"github.com/brisketrecipe/head-n-heart-gpt/internal/core/ports/driven"
)

// DefaultTable holds the embedding records.
const DefaultTable = "chunks"

var tableName = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]{0,62}$`)

// Ensure VectorIndex implements the interface.
var _ driven.VectorIndex = (*VectorIndex)(nil)

// VectorIndex is a pgvector-backed driven.VectorIndex.
type VectorIndex struct {
	db    *sql.DB
	table string
	dims  int
}

// NewVectorIndex connects to dsn and creates the extension, table and
// indexes when missing.
func NewVectorIndex(ctx context.Context, dsn, table string, dims int) (*VectorIndex, error) {
	if table == "" {
		table = DefaultTable
	}
	if !tableName.MatchString(table) {
		return nil, fmt.Errorf("%w: invalid table name %q", domain.ErrInvalidInput, table)
	}
	if dims <= 0 {
		return nil, fmt.Errorf("%w: dimensions must be positive", domain.ErrInvalidInput)
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	v := &VectorIndex{db: db, table: table, dims: dims}
	if err := v.migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return v, nil
}

// schema returns the DDL for the configured table and dimension.
func (v *VectorIndex) schema() []string {
	return []string{
		`CREATE EXTENSION IF NOT EXISTS vector`,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			chunk_id    TEXT PRIMARY KEY,
			filename    TEXT NOT NULL,
			chunk_index INTEGER NOT NULL,
			chunk_text  TEXT NOT NULL,
			tags        JSONB NOT NULL DEFAULT '[]',
			embedding   vector(%d) NOT NULL
		)`, v.table, v.dims),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS idx_%s_embedding ON %s USING hnsw (embedding vector_cosine_ops)`,
			v.table, v.table),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS idx_%s_tags ON %s USING gin (tags)`, v.table, v.table),
	}
}

func (v *VectorIndex) migrate(ctx context.Context) error {
	for _, stmt := range v.schema() {
		if _, err := v.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("execute migration: %w", err)
		}
	}
	return nil
}

// Upsert inserts or replaces records in one transaction.
func (v *VectorIndex) Upsert(ctx context.Context, records []domain.EmbeddingRecord) error {
	for i := range records {
		if len(records[i].Vector) != v.dims {
			return fmt.Errorf("%w: record %s has %d dimensions, index has %d",
				domain.ErrDimensionMismatch, records[i].ChunkID, len(records[i].Vector), v.dims)
		}
	}
	if len(records) == 0 {
		return nil
	}

	tx, err := v.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt := fmt.Sprintf(`
		INSERT INTO %s (chunk_id, filename, chunk_index, chunk_text, tags, embedding)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (chunk_id) DO UPDATE SET
			filename = EXCLUDED.filename,
			chunk_index = EXCLUDED.chunk_index,
			chunk_text = EXCLUDED.chunk_text,
			tags = EXCLUDED.tags,
			embedding = EXCLUDED.embedding
	`, v.table)

	for i := range records {
		r := &records[i]
		tags, err := encodeTags(r.Metadata.Tags)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, stmt, r.ChunkID, r.Metadata.Filename, r.Metadata.ChunkIndex,
			r.Metadata.ChunkText, tags, pgvector.NewVector(r.Vector))
		if err != nil {
			return fmt.Errorf("upsert %s: %w", r.ChunkID, err)
		}
	}
	return tx.Commit()
}

// Query orders by cosine distance in the database. Score is 1 - distance.
func (v *VectorIndex) Query(
	ctx context.Context, vector []float32, topK int, filter domain.Filter,
) ([]domain.Match, error) {
	if topK <= 0 {
		return nil, fmt.Errorf("%w: top_k must be positive", domain.ErrInvalidInput)
	}
	if len(vector) != v.dims {
		return nil, fmt.Errorf("%w: query has %d dimensions, index has %d",
			domain.ErrDimensionMismatch, len(vector), v.dims)
	}

	query, args, err := v.searchQuery(vector, topK, filter)
	if err != nil {
		return nil, err
	}
	rows, err := v.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	matches := []domain.Match{}
	for rows.Next() {
		var m domain.Match
		var tags []byte
		if err := rows.Scan(&m.ChunkID, &m.Metadata.Filename, &m.Metadata.ChunkIndex,
			&m.Metadata.ChunkText, &tags, &m.Score); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		m.Metadata.Tags = decodeTags(tags)
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

// searchQuery builds the similarity query. Tag filters use the JSONB
// "any key exists" operator against the filter list.
func (v *VectorIndex) searchQuery(vector []float32, topK int, filter domain.Filter) (string, []any, error) {
	args := []any{pgvector.NewVector(vector), topK}
	where := ""
	if !filter.IsEmpty() {
		tags, err := encodeTags(domain.Strings(filter.Tags))
		if err != nil {
			return "", nil, err
		}
		args = append(args, tags)
		where = "WHERE tags ?| ARRAY(SELECT jsonb_array_elements_text($3::jsonb))"
	}
	query := fmt.Sprintf(`
		SELECT chunk_id, filename, chunk_index, chunk_text, tags, 1 - (embedding <=> $1) AS score
		FROM %s
		%s
		ORDER BY embedding <=> $1, chunk_id
		LIMIT $2
	`, v.table, where)
	return query, args, nil
}

// Delete removes records by id.
func (v *VectorIndex) Delete(ctx context.Context, chunkIDs []string) error {
	if len(chunkIDs) == 0 {
		return nil
	}
	ids, err := json.Marshal(chunkIDs)
	if err != nil {
		return fmt.Errorf("marshal ids: %w", err)
	}
	_, err = v.db.ExecContext(ctx, fmt.Sprintf(
		`DELETE FROM %s WHERE chunk_id IN (SELECT jsonb_array_elements_text($1::jsonb))`, v.table), string(ids))
	if err != nil {
		return fmt.Errorf("delete: %w", err)
	}
	return nil
}

// Count returns the number of stored records.
func (v *VectorIndex) Count(ctx context.Context) (int, error) {
	var n int
	if err := v.db.QueryRowContext(ctx, fmt.Sprintf(`SELECT COUNT(*) FROM %s`, v.table)).Scan(&n); err != nil {
		return 0, fmt.Errorf("count: %w", err)
	}
	return n, nil
}

// Dimensions returns the configured vector length.
func (v *VectorIndex) Dimensions() int {
	return v.dims
}

// Close closes the connection pool.
func (v *VectorIndex) Close() error {
	return v.db.Close()
}

// encodeTags writes the canonical flat list form.
func encodeTags(tags []string) (string, error) {
	if tags == nil {
		tags = []string{}
	}
	data, err := json.Marshal(tags)
	if err != nil {
		return "", fmt.Errorf("marshal tags: %w", err)
	}
	return string(data), nil
}

// decodeTags reads the tags column, accepting rows written with the legacy
// JSON-string encoding.
func decodeTags(raw []byte) []string {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return []string{}
	}
	tags := domain.DecodeTags(v)
	if tags == nil {
		return []string{}
	}
	return tags
}
