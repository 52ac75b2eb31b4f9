package arbtrans

import (
	"context"
	"errors"
	"time"
)

// RetryConfig controls how failed provider calls are reattempted.
type RetryConfig struct {
	MaxRetries int           // Retries after the first attempt
	BaseDelay  time.Duration // Delay before the first retry; doubles each attempt
	MaxDelay   time.Duration // Cap on the per-attempt delay
}

// DefaultRetryConfig returns the retry policy used by the CLI: three
// retries with exponential backoff from 1s up to 30s.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries: 3,
		BaseDelay:  1 * time.Second,
		MaxDelay:   30 * time.Second,
	}
}

// backoff returns the delay before the retry following the given attempt
// (0-based), doubling each time and capped at MaxDelay.
func (c RetryConfig) backoff(attempt int) time.Duration {
	d := c.BaseDelay << attempt
	if d > c.MaxDelay {
		return c.MaxDelay
	}
	return d
}

// RetryFunc is an operation that WithRetry can reattempt.
type RetryFunc[T any] func() (T, error)

// WithRetry runs fn, reattempting retryable failures with exponential
// backoff until it succeeds, a non-retryable error occurs, the retry
// budget runs out, or ctx is done.
func WithRetry[T any](ctx context.Context, cfg RetryConfig, fn RetryFunc[T]) (T, error) {
	var zero T

	for attempt := 0; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		result, err := fn()
		if err == nil {
			return result, nil
		}
		if !IsRetryable(err) || attempt >= cfg.MaxRetries {
			return zero, err
		}

		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(cfg.backoff(attempt)):
		}
	}
}

// IsRetryable reports whether a failed provider call is worth repeating.
// Only a ProviderError that marks itself retryable (rate limits, transient
// server errors) qualifies; everything else, including context
// cancellation, fails immediately.
func IsRetryable(err error) bool {
	var provErr *ProviderError
	if errors.As(err, &provErr) {
		return provErr.Retryable
	}
	return false
}

// RetryableProvider wraps an AIProvider so transient failures are retried
// with backoff before surfacing to the translator.
type RetryableProvider struct {
	provider AIProvider
	config   RetryConfig
}

// NewRetryableProvider creates a retrying provider wrapper.
func NewRetryableProvider(provider AIProvider, cfg RetryConfig) *RetryableProvider {
	return &RetryableProvider{
		provider: provider,
		config:   cfg,
	}
}

// Translate implements AIProvider.
func (p *RetryableProvider) Translate(ctx context.Context, req TranslateRequest) ([]string, error) {
	return WithRetry(ctx, p.config, func() ([]string, error) {
		return p.provider.Translate(ctx, req)
	})
}
