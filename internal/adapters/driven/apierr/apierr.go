// Package apierr maps model provider HTTP failures onto domain errors.
package apierr

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/brisketrecipe/head-n-heart-gpt/internal/core/domain"
	"github.com/brisketrecipe/head-n-heart-gpt/internal/ratelimit"
)

// maxBodyInError bounds how much of a response body ends up in an error message.
const maxBodyInError = 512

// FromResponse converts a non-2xx provider response into an error.
// 401 and 403 wrap domain.ErrAuthInvalid. 429 wraps domain.ErrRateLimited and
// records the backoff on limiter. Everything else is returned as a plain error
// so the caller's retry policy treats it as transient.
func FromResponse(provider string, resp *http.Response, body []byte, limiter *ratelimit.Limiter) error {
	msg := strings.TrimSpace(string(body))
	if len(msg) > maxBodyInError {
		msg = msg[:maxBodyInError] + "..."
	}

	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%s: %w (status %d): %s", provider, domain.ErrAuthInvalid, resp.StatusCode, msg)
	case http.StatusTooManyRequests:
		limiter.RecordRateLimit(ratelimit.RetryAfter(resp))
		return fmt.Errorf("%s: %w: %s", provider, domain.ErrRateLimited, msg)
	case http.StatusBadRequest, http.StatusNotFound, http.StatusUnprocessableEntity:
		return fmt.Errorf("%s: %w (status %d): %s", provider, domain.ErrInvalidInput, resp.StatusCode, msg)
	default:
		return fmt.Errorf("%s: API returned status %d: %s", provider, resp.StatusCode, msg)
	}
}

// IsSuccess reports whether the status code is 2xx.
func IsSuccess(code int) bool {
	return code >= 200 && code < 300
}
