package info

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"time"
)

// Retrier re-runs provider calls that failed with a retryable HTTP status.
type Retrier struct {
	backoffDuration time.Duration
	maxRetries      int
}

// NewRetrier creates a Retrier with the default backoff schedule.
func NewRetrier() *Retrier {
	return &Retrier{
		backoffDuration: 1 * time.Second,
		maxRetries:      3,
	}
}

// ExecuteWithBackoff runs operation, retrying on rate-limit and transient
// server errors with exponential backoff. Other failures return immediately.
func (r *Retrier) ExecuteWithBackoff(ctx context.Context, operation func() error) error {
	var lastErr error

	for attempt := 0; attempt <= r.maxRetries; attempt++ {
		err := operation()
		if err == nil {
			return nil
		}

		lastErr = err

		if !r.isRetryableError(err) {
			return err
		}

		if attempt < r.maxRetries {
			backoffTime := r.calculateBackoff(attempt)
			select {
			case <-time.After(backoffTime):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}

	return fmt.Errorf("max retries exceeded: %w", lastErr)
}

func (r *Retrier) isRetryableError(err error) bool {
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		return false
	}

	switch statusErr.StatusCode {
	case http.StatusTooManyRequests,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}

func (r *Retrier) calculateBackoff(attempt int) time.Duration {
	// Exponential backoff: 1s, 2s, 4s, 8s...
	backoff := r.backoffDuration * time.Duration(math.Pow(2, float64(attempt)))

	// Add jitter to avoid thundering herd
	jitter := time.Duration(float64(backoff) * 0.1)

	return backoff + jitter
}
