// Package qdrant implements the vector index on a Qdrant server over its
// REST API. Chunk ids are mapped to deterministic UUID point ids and kept
// in the payload.
package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/brisketrecipe/head-n-heart-gpt/internal/core/domain"
	"github.com/brisketrecipe/head-n-heart-gpt/internal/core/ports/driven"
)

// DefaultCollection is used when no collection name is configured.
const DefaultCollection = "heartgpt_chunks"

// pointNamespace seeds point ids derived from chunk ids.
var pointNamespace = uuid.MustParse("6f1c7a52-5d0e-4c8b-9a34-2f3c1f0b7e21")

// Ensure VectorIndex implements the interface.
var _ driven.VectorIndex = (*VectorIndex)(nil)

// Config configures the Qdrant connection.
type Config struct {
	URL        string
	APIKey     string
	Collection string
	Dimensions int

	// HTTPClient overrides the default client.
	HTTPClient *http.Client
}

// VectorIndex is a Qdrant-backed driven.VectorIndex.
type VectorIndex struct {
	baseURL    string
	apiKey     string
	collection string
	dims       int
	client     *http.Client
}

// NewVectorIndex connects to the server and creates the collection with
// cosine distance if it does not exist.
func NewVectorIndex(ctx context.Context, cfg Config) (*VectorIndex, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("%w: qdrant url is required", domain.ErrInvalidInput)
	}
	if cfg.Dimensions <= 0 {
		return nil, fmt.Errorf("%w: dimensions must be positive", domain.ErrInvalidInput)
	}
	if cfg.Collection == "" {
		cfg.Collection = DefaultCollection
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}

	v := &VectorIndex{
		baseURL:    strings.TrimRight(cfg.URL, "/"),
		apiKey:     cfg.APIKey,
		collection: cfg.Collection,
		dims:       cfg.Dimensions,
		client:     client,
	}
	if err := v.ensureCollection(ctx); err != nil {
		return nil, err
	}
	return v, nil
}

// PointID returns the Qdrant point id for a chunk id.
func PointID(chunkID string) string {
	return uuid.NewSHA1(pointNamespace, []byte(chunkID)).String()
}

func (v *VectorIndex) ensureCollection(ctx context.Context) error {
	if _, err := v.doRequest(ctx, http.MethodGet, v.path(""), nil); err == nil {
		return nil
	}
	req := map[string]any{
		"vectors": map[string]any{
			"size":     v.dims,
			"distance": "Cosine",
		},
	}
	if _, err := v.doRequest(ctx, http.MethodPut, v.path(""), req); err != nil {
		return fmt.Errorf("create collection %s: %w", v.collection, err)
	}
	return nil
}

type payload struct {
	ChunkID    string   `json:"chunk_id"`
	Filename   string   `json:"filename"`
	ChunkIndex int      `json:"chunk_index"`
	ChunkText  string   `json:"chunk_text"`
	Tags       []string `json:"tags"`
}

type point struct {
	ID      string    `json:"id"`
	Vector  []float32 `json:"vector"`
	Payload payload   `json:"payload"`
}

// Upsert writes points and waits for the operation to be applied.
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

	points := make([]point, 0, len(records))
	for _, r := range records {
		tags := r.Metadata.Tags
		if tags == nil {
			tags = []string{}
		}
		points = append(points, point{
			ID:     PointID(r.ChunkID),
			Vector: r.Vector,
			Payload: payload{
				ChunkID:    r.ChunkID,
				Filename:   r.Metadata.Filename,
				ChunkIndex: r.Metadata.ChunkIndex,
				ChunkText:  r.Metadata.ChunkText,
				Tags:       tags,
			},
		})
	}
	_, err := v.doRequest(ctx, http.MethodPut, v.path("/points?wait=true"), map[string]any{"points": points})
	return err
}

// Query runs a cosine search. A tag filter matches records carrying any of
// the requested tags.
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

	req := map[string]any{
		"vector":       vector,
		"limit":        topK,
		"with_payload": true,
	}
	if f := tagFilter(filter); f != nil {
		req["filter"] = f
	}
	data, err := v.doRequest(ctx, http.MethodPost, v.path("/points/search"), req)
	if err != nil {
		return nil, err
	}

	var parsed struct {
		Result []struct {
			Score   float64        `json:"score"`
			Payload map[string]any `json:"payload"`
		} `json:"result"`
	}
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("%w: decode search response: %v", domain.ErrIndex, err)
	}

	matches := make([]domain.Match, 0, len(parsed.Result))
	for _, item := range parsed.Result {
		matches = append(matches, domain.Match{
			ChunkID:  stringField(item.Payload, "chunk_id"),
			Score:    item.Score,
			Metadata: metadataFromPayload(item.Payload),
		})
	}
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].ChunkID < matches[j].ChunkID
	})
	return matches, nil
}

// Delete removes points by chunk id.
func (v *VectorIndex) Delete(ctx context.Context, chunkIDs []string) error {
	if len(chunkIDs) == 0 {
		return nil
	}
	ids := make([]string, len(chunkIDs))
	for i, id := range chunkIDs {
		ids[i] = PointID(id)
	}
	_, err := v.doRequest(ctx, http.MethodPost, v.path("/points/delete?wait=true"), map[string]any{"points": ids})
	return err
}

// Count returns the exact number of points in the collection.
func (v *VectorIndex) Count(ctx context.Context) (int, error) {
	data, err := v.doRequest(ctx, http.MethodPost, v.path("/points/count"), map[string]any{"exact": true})
	if err != nil {
		return 0, err
	}
	var parsed struct {
		Result struct {
			Count int `json:"count"`
		} `json:"result"`
	}
	if err := json.Unmarshal(data, &parsed); err != nil {
		return 0, fmt.Errorf("%w: decode count response: %v", domain.ErrIndex, err)
	}
	return parsed.Result.Count, nil
}

// Dimensions returns the configured vector length.
func (v *VectorIndex) Dimensions() int {
	return v.dims
}

// Close is a no-op; the HTTP client holds no dedicated resources.
func (v *VectorIndex) Close() error {
	return nil
}

func (v *VectorIndex) path(suffix string) string {
	return "/collections/" + v.collection + suffix
}

func (v *VectorIndex) doRequest(ctx context.Context, method, path string, body any) ([]byte, error) {
	var buf io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		buf = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, v.baseURL+path, buf)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if v.apiKey != "" {
		req.Header.Set("api-key", v.apiKey)
	}
	resp, err := v.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrIndex, err)
	}
	defer resp.Body.Close()
	data, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, statusError(resp.StatusCode, strings.TrimSpace(string(data)))
	}
	return data, nil
}

func statusError(code int, body string) error {
	switch code {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: qdrant status %d: %s", domain.ErrAuthInvalid, code, body)
	case http.StatusTooManyRequests:
		return fmt.Errorf("%w: qdrant status %d: %s", domain.ErrRateLimited, code, body)
	case http.StatusNotFound:
		return fmt.Errorf("%w: qdrant status %d: %s", domain.ErrNotFound, code, body)
	default:
		return fmt.Errorf("%w: qdrant status %d: %s", domain.ErrIndex, code, body)
	}
}

// tagFilter builds a "should" filter with one match clause per tag.
func tagFilter(filter domain.Filter) map[string]any {
	if filter.IsEmpty() {
		return nil
	}
	should := make([]map[string]any, 0, len(filter.Tags))
	for _, tag := range filter.Tags {
		should = append(should, map[string]any{
			"key":   "tags",
			"match": map[string]any{"value": string(tag)},
		})
	}
	return map[string]any{"should": should}
}

func metadataFromPayload(p map[string]any) domain.ChunkMetadata {
	md := domain.ChunkMetadata{
		Filename:  stringField(p, "filename"),
		ChunkText: stringField(p, "chunk_text"),
		Tags:      domain.DecodeTags(p["tags"]),
	}
	if n, ok := p["chunk_index"].(float64); ok {
		md.ChunkIndex = int(n)
	}
	if md.Tags == nil {
		md.Tags = []string{}
	}
	return md
}

func stringField(p map[string]any, key string) string {
	s, _ := p[key].(string)
	return s
}
