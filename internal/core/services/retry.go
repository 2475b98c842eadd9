package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/brisketrecipe/head-n-heart-gpt/internal/core/domain"
	"github.com/brisketrecipe/head-n-heart-gpt/internal/logger"
)

// IsPermanent reports whether err should not be retried.
func IsPermanent(err error) bool {
	return errors.Is(err, domain.ErrAuthInvalid) ||
		errors.Is(err, domain.ErrInvalidInput) ||
		errors.Is(err, domain.ErrDimensionMismatch) ||
		errors.Is(err, domain.ErrUnsupportedFormat) ||
		errors.Is(err, domain.ErrDecode) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}

// Retry runs fn until it succeeds, returns a permanent error, or the policy's
// attempts are used up. Backoff grows by Multiplier up to MaxBackoff.
func Retry(ctx context.Context, policy domain.RetryPolicy, op string, fn func(context.Context) error) error {
	attempts := max(policy.MaxAttempts, 1)
	backoff := policy.InitialBackoff

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err = fn(ctx); err == nil {
			return nil
		}
		if IsPermanent(err) || attempt == attempts {
			break
		}

		logger.Debug("%s: attempt %d/%d failed: %v (retrying in %s)", op, attempt, attempts, err, backoff)

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		backoff = nextBackoff(backoff, policy)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func nextBackoff(current time.Duration, policy domain.RetryPolicy) time.Duration {
	multiplier := policy.Multiplier
	if multiplier < 1 {
		multiplier = 1
	}
	next := time.Duration(float64(current) * multiplier)
	if policy.MaxBackoff > 0 && next > policy.MaxBackoff {
		next = policy.MaxBackoff
	}
	return next
}
