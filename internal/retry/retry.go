// Package retry retries operations that fail for transient reasons with
// exponential backoff.
//
//	data, err := retry.Value(ctx, retry.FileOpen, func() ([]byte, error) {
//	    return os.ReadFile(path)
//	}, retry.ResourceExhausted)
//
// The backoff before attempt n (n >= 1) is InitialBackoff * 2^(n-1), capped
// at MaxBackoff, plus a jitter that grows linearly with n.
package retry

import (
	"context"
	"errors"
	"fmt"
	"math"
	"syscall"
	"time"
)

// Config defines the retry behavior for exponential backoff operations.
//
// The zero value is not usable; MaxRetries and InitialBackoff must be set.
type Config struct {
	// MaxRetries is the number of attempts, including the first one.
	MaxRetries int

	// InitialBackoff is the wait before the second attempt.
	InitialBackoff time.Duration

	// MaxBackoff caps the wait. Zero means no cap.
	MaxBackoff time.Duration

	// Jitter is the fraction (0.0 to 1.0) of the backoff added at the last
	// attempt. Earlier attempts get proportionally less.
	Jitter float64
}

// FileOpen suits opening files while many workers compete for descriptors.
var FileOpen = Config{
	MaxRetries:     5,
	InitialBackoff: 5 * time.Millisecond,
	MaxBackoff:     200 * time.Millisecond,
	Jitter:         0.2,
}

// ShouldRetryFunc reports whether an error is worth another attempt.
// A nil ShouldRetryFunc retries every error.
type ShouldRetryFunc func(error) bool

// ResourceExhausted reports whether err means the process ran out of file
// descriptors or address space, which clears up once other files are closed.
func ResourceExhausted(err error) bool {
	return errors.Is(err, syscall.EMFILE) ||
		errors.Is(err, syscall.ENFILE) ||
		errors.Is(err, syscall.EAGAIN) ||
		errors.Is(err, syscall.ENOMEM)
}

// Do calls fn until it succeeds, returns a non-retryable error, the attempts
// run out or ctx is done. The error after the last attempt wraps fn's error.
func Do(ctx context.Context, cfg Config, fn func() error, shouldRetry ShouldRetryFunc) error {
	_, err := Value(ctx, cfg, func() (struct{}, error) {
		return struct{}{}, fn()
	}, shouldRetry)
	return err
}

// Value is Do for functions that produce a result.
func Value[T any](ctx context.Context, cfg Config, fn func() (T, error), shouldRetry ShouldRetryFunc) (T, error) {
	var (
		zero    T
		lastErr error
	)

	for attempt := 0; attempt < cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			timer := time.NewTimer(calculateBackoff(cfg, attempt))
			select {
			case <-ctx.Done():
				timer.Stop()
				return zero, ctx.Err()
			case <-timer.C:
			}
		}

		v, err := fn()
		if err == nil {
			return v, nil
		}
		if shouldRetry != nil && !shouldRetry(err) {
			return zero, err
		}
		lastErr = err
	}

	return zero, fmt.Errorf("failed after %d retries: %w", cfg.MaxRetries, lastErr)
}

func calculateBackoff(cfg Config, attempt int) time.Duration {
	multiplier := math.Pow(2, float64(attempt-1))
	backoff := time.Duration(multiplier * float64(cfg.InitialBackoff))

	if cfg.MaxBackoff > 0 && backoff > cfg.MaxBackoff {
		backoff = cfg.MaxBackoff
	}

	if cfg.Jitter > 0 {
		jitterAmount := float64(backoff) * cfg.Jitter * float64(attempt) / float64(cfg.MaxRetries)
		backoff += time.Duration(jitterAmount)
	}

	return backoff
}
