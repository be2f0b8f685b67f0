// Package retry runs a function with bounded attempts and backoff, honoring
// context cancellation. The console uses it to reconcile eventually
// consistent backend state after a mutation is acknowledged.
package retry

import (
	"context"
	"errors"
	"time"
)

// Func is a retryable operation. It must respect the provided context.
type Func func(ctx context.Context) error

// Backoff returns the wait before the next attempt; attempt starts at 0.
type Backoff func(attempt int) time.Duration

// Fixed waits the same interval between attempts.
func Fixed(interval time.Duration) Backoff {
	return func(int) time.Duration { return interval }
}

// Exponential doubles the base interval each attempt, capped at max.
func Exponential(base, max time.Duration) Backoff {
	return func(attempt int) time.Duration {
		d := base << attempt
		if max > 0 && d > max {
			return max
		}
		return d
	}
}

// Config defines retry behavior.
type Config struct {
	attempts int
	backoff  Backoff
	retryIf  func(error) bool
}

// Option configures retry behavior.
type Option func(*Config)

// WithAttempts sets the total number of attempts, first try included.
func WithAttempts(n int) Option {
	return func(c *Config) {
		if n > 0 {
			c.attempts = n
		}
	}
}

// WithBackoff sets the backoff strategy.
func WithBackoff(b Backoff) Option {
	return func(c *Config) {
		if b != nil {
			c.backoff = b
		}
	}
}

// WithRetryIf sets the retry condition.
func WithRetryIf(fn func(error) bool) Option {
	return func(c *Config) {
		if fn != nil {
			c.retryIf = fn
		}
	}
}

// Do executes fn until it succeeds, the attempts are exhausted, or the
// context ends. The last error is returned.
func Do(ctx context.Context, fn Func, opts ...Option) error {
	cfg := &Config{
		attempts: 3,
		backoff:  Fixed(time.Second),
		retryIf:  retryable,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	var lastErr error
	for attempt := 0; attempt < cfg.attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}
		if !cfg.retryIf(lastErr) || attempt == cfg.attempts-1 {
			return lastErr
		}
		timer := time.NewTimer(cfg.backoff(attempt))
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		}
	}
	return lastErr
}

// retryable is the default condition: everything except context errors.
func retryable(err error) bool {
	return err != nil &&
		!errors.Is(err, context.Canceled) &&
		!errors.Is(err, context.DeadlineExceeded)
}
