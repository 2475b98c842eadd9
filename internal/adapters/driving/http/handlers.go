package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/brisketrecipe/head-n-heart-gpt/internal/core/domain"
	"github.com/brisketrecipe/head-n-heart-gpt/internal/logger"
)

// QueryRequest is the body of POST /query.
type QueryRequest struct {
	Query string   `json:"query"`
	TopK  int      `json:"top_k,omitempty"`
	Tags  []string `json:"tags,omitempty"`
}

// DocumentList is the body of GET /documents.
type DocumentList struct {
	Documents []string `json:"documents"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, err)
			return
		}
		writeError(w, fmt.Errorf("%w: multipart field \"file\" is required: %v", domain.ErrInvalidInput, err))
		return
	}
	defer file.Close()

	filename := filepath.Base(header.Filename)
	if !s.ports.Ingest.Supported(filename) {
		writeError(w, fmt.Errorf("%w: %s", domain.ErrUnsupportedFormat, filepath.Ext(filename)))
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, fmt.Errorf("%w: read upload: %v", domain.ErrInvalidInput, err))
		return
	}

	logger.Info("upload %s (%d bytes)", filename, len(data))
	result, err := s.ports.Ingest.Ingest(r.Context(), filename, data)
	if err != nil {
		logger.Error("upload %s failed: %v", filename, err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("%w: decode body: %v", domain.ErrInvalidInput, err))
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		writeError(w, fmt.Errorf("%w: query is required", domain.ErrInvalidInput))
		return
	}
	if req.TopK < 0 {
		writeError(w, fmt.Errorf("%w: top_k must be positive", domain.ErrInvalidInput))
		return
	}

	opts := domain.QueryOptions{TopK: req.TopK}
	if len(req.Tags) > 0 {
		opts.Filter = s.taxonomy.Filter(req.Tags)
		if opts.Filter.IsEmpty() {
			writeError(w, fmt.Errorf("%w: none of the tags are in the taxonomy", domain.ErrInvalidInput))
			return
		}
	}

	result, err := s.ports.Answer.Answer(r.Context(), req.Query, opts)
	if err != nil {
		logger.Error("query failed: %v", err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleDocumentList(w http.ResponseWriter, r *http.Request) {
	if s.ports.Library == nil {
		writeError(w, fmt.Errorf("%w: document library is not configured", domain.ErrNotFound))
		return
	}
	names, err := s.ports.Library.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if names == nil {
		names = []string{}
	}
	writeJSON(w, http.StatusOK, DocumentList{Documents: names})
}

func (s *Server) handleDocumentGet(w http.ResponseWriter, r *http.Request) {
	if s.ports.Library == nil {
		writeError(w, fmt.Errorf("%w: document library is not configured", domain.ErrNotFound))
		return
	}
	doc, err := s.ports.Library.Get(r.Context(), r.PathValue("filename"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("write response: %v", err)
	}
}
