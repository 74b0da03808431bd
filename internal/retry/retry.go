// Package retry runs idempotent calls with exponential backoff.
package retry

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/jpillora/backoff"
)

// Policy controls how many times a call is retried and how long to wait.
type Policy struct {
	MaxRetries int
	Min        time.Duration
	Max        time.Duration
	// Retryable reports whether err is worth another attempt. Nil retries everything.
	Retryable func(err error) bool
}

// DefaultPolicy retries three times starting at 500ms.
func DefaultPolicy(retryable func(error) bool) Policy {
	return Policy{MaxRetries: 3, Min: 500 * time.Millisecond, Max: 8 * time.Second, Retryable: retryable}
}

// Do calls fn until it succeeds, returns a non-retryable error, the retries
// are exhausted or ctx is done.
func Do(ctx context.Context, op string, p Policy, fn func(ctx context.Context) error) error {
	b := &backoff.Backoff{Min: p.Min, Max: p.Max, Factor: 2, Jitter: true}
	var lastErr error
	for attempt := 0; attempt <= p.MaxRetries; attempt++ {
		err := fn(ctx)
		if err == nil {
			return nil
		}
		lastErr = err
		if p.Retryable != nil && !p.Retryable(err) {
			return err
		}
		if attempt == p.MaxRetries {
			break
		}
		wait := b.Duration()
		log.Printf("[WARN] %s failed (attempt %d/%d): %v, retrying in %v", op, attempt+1, p.MaxRetries+1, err, wait)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
	if p.MaxRetries == 0 {
		return lastErr
	}
	return fmt.Errorf("%s: all %d attempts failed: %w", op, p.MaxRetries+1, lastErr)
}
