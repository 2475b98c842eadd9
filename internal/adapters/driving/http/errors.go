package http

import (
	"errors"
	"net/http"

	"github.com/brisketrecipe/head-n-heart-gpt/internal/core/domain"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// StatusFor maps a pipeline error to an HTTP status code.
func StatusFor(err error) int {
	var maxBytes *http.MaxBytesError
	switch {
	case errors.As(err, &maxBytes):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, domain.ErrUnsupportedFormat):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrDecode):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, StatusFor(err), ErrorResponse{Detail: err.Error()})
}
