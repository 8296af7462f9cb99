package resolver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Retry configuration constants
const (
	MaxRetryAttempts  = 3
	InitialBackoff    = 500 * time.Millisecond
	MaxBackoff        = 5 * time.Second
	BackoffMultiplier = 2.0
)

// RetryableStatusCodes are HTTP status codes that should trigger a retry
var RetryableStatusCodes = []int{
	http.StatusTooManyRequests,     // 429 - Rate limited
	http.StatusInternalServerError, // 500 - Transient server fault
	http.StatusBadGateway,          // 502 - Bad gateway
	http.StatusServiceUnavailable,  // 503 - Service unavailable
	http.StatusGatewayTimeout,      // 504 - Gateway timeout
}

// APIError represents a translator endpoint error with status code
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

// ShouldRetry checks if the status code indicates a transient failure
func ShouldRetry(statusCode int) bool {
	for _, code := range RetryableStatusCodes {
		if statusCode == code {
			return true
		}
	}
	return false
}

// CalculateBackoff returns the backoff duration for a given attempt number
func CalculateBackoff(attempt int) time.Duration {
	backoff := InitialBackoff
	for i := 0; i < attempt; i++ {
		backoff = time.Duration(float64(backoff) * BackoffMultiplier)
		if backoff > MaxBackoff {
			backoff = MaxBackoff
			break
		}
	}
	return backoff
}

// RetryableFunc is a function that can be retried
type RetryableFunc[T any] func() (T, error)

// WithRetry executes a function with retry logic for transient failures,
// applying exponential backoff between attempts. Non-API errors and
// non-retryable status codes return immediately.
func WithRetry[T any](ctx context.Context, fn RetryableFunc[T]) (T, error) {
	var lastErr error
	var zero T

	for attempt := 0; attempt < MaxRetryAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, fmt.Errorf("operation cancelled: %w", err)
		}

		result, err := fn()
		if err == nil {
			return result, nil
		}
		lastErr = err

		var apiErr *APIError
		if errors.As(err, &apiErr) {
			if !ShouldRetry(apiErr.StatusCode) {
				return zero, err
			}
		} else {
			return zero, err
		}

		if attempt < MaxRetryAttempts-1 {
			select {
			case <-ctx.Done():
				return zero, fmt.Errorf("operation cancelled: %w", ctx.Err())
			case <-time.After(CalculateBackoff(attempt)):
			}
		}
	}

	return zero, fmt.Errorf("max retry attempts (%d) exceeded: %w", MaxRetryAttempts, lastErr)
}
