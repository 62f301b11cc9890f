// Package retry provides a composable retry policy applied around
// fallible calls. The policy is a plain value so each call site can carry
// its own attempt budget and backoff curve.
package retry

import (
	"context"
	"fmt"
	"time"
)

type Policy struct {
	MaxAttempts  int
	InitialDelay time.Duration
	Multiplier   float64
}

// Default is the policy used for network calls without special needs.
var Default = Policy{
	MaxAttempts:  3,
	InitialDelay: 2 * time.Second,
	Multiplier:   2.0,
}

// Do runs fn until it succeeds, the attempt budget is spent, or the
// context is cancelled. The delay between attempts grows by Multiplier.
func (p Policy) Do(ctx context.Context, fn func(attempt int) error) error {
	attempts := p.MaxAttempts
	if attempts <= 0 {
		attempts = 1
	}

	delay := p.InitialDelay
	var lastErr error

	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = fn(attempt)
		if lastErr == nil {
			return nil
		}
		if attempt == attempts {
			break
		}

		if delay > 0 {
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return ctx.Err()
			}
			delay = time.Duration(float64(delay) * p.Multiplier)
		}
	}

	return fmt.Errorf("all %d attempts failed: %w", attempts, lastErr)
}
