package gcs

import (
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/api/googleapi"

	"github.com/brisketrecipe/head-n-heart-gpt/internal/core/domain"
)

// mapError translates Google API status codes into domain errors.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return err
	}
	switch gerr.Code {
	case http.StatusNotFound:
		return domain.ErrNotFound
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: gcs: %s", domain.ErrAuthInvalid, gerr.Message)
	case http.StatusTooManyRequests:
		return fmt.Errorf("%w: gcs: %s", domain.ErrRateLimited, gerr.Message)
	default:
		return err
	}
}
