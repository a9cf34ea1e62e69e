package errors

import (
	"context"
	"fmt"
	"time"
)

// RetryConfig bounds a retried operation: attempt count and the backoff
// curve between attempts.
type RetryConfig struct {
	MaxAttempts   int
	InitialDelay  time.Duration
	MaxDelay      time.Duration
	BackoffFactor float64
}

// DefaultRetryConfig returns a sensible default retry configuration.
func DefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		MaxAttempts:   3,
		InitialDelay:  time.Second,
		MaxDelay:      time.Minute,
		BackoffFactor: 2.0,
	}
}

/*
RetryWithBackoff runs fn until it succeeds, exhausting the attempt budget
with exponential backoff between tries. Only transient failures are
retried: a typed agent error is a deterministic protocol answer that will
not heal on its own, so it is returned immediately. Cancelling the context
aborts the wait between attempts.
*/
func RetryWithBackoff(ctx context.Context, config *RetryConfig, fn func() error) error {
	var err error
	delay := config.InitialDelay

	for attempt := 0; attempt < config.MaxAttempts; attempt++ {
		err = fn()
		if err == nil {
			return nil
		}
		if _, ok := As(err); ok {
			return err
		}

		if attempt == config.MaxAttempts-1 {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}

		delay = time.Duration(float64(delay) * config.BackoffFactor)
		if delay > config.MaxDelay {
			delay = config.MaxDelay
		}
	}

	return fmt.Errorf("after %d attempts, last error: %w", config.MaxAttempts, err)
}
