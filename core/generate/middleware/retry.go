package middleware

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/leofalp/airecover/core/generate"
	"github.com/leofalp/airecover/providers/ai"
	"github.com/leofalp/airecover/providers/observability"
)

// RetryConfig tunes the retry middleware. Zero fields take the defaults
// listed by field.
type RetryConfig struct {
	Retries    int           // calls after the first failure; 3
	BaseDelay  time.Duration // wait before the first retry; 1s
	MaxDelay   time.Duration // ceiling of every wait; 30s
	Multiplier float64       // growth of the wait per retry; 2
	Jitter     float64       // random extra, as a fraction of the wait; 0.1

	// ShouldRetry reports whether a provider error deserves another call.
	// Defaults to IsTransient.
	ShouldRetry func(error) bool
}

// transientStatuses are the HTTP statuses model APIs answer while rate
// limited or overloaded.
var transientStatuses = []string{"429", "500", "502", "503", "529"}

// IsTransient reports whether err looks temporary: one attempt ran out of
// time, or the error text carries a transient HTTP status.
func IsTransient(err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, context.DeadlineExceeded):
		return true
	}
	msg := err.Error()
	for _, status := range transientStatuses {
		if strings.Contains(msg, status) {
			return true
		}
	}
	return false
}

func (c RetryConfig) withDefaults() RetryConfig {
	if c.Retries == 0 {
		c.Retries = 3
	}
	if c.BaseDelay == 0 {
		c.BaseDelay = time.Second
	}
	if c.MaxDelay == 0 {
		c.MaxDelay = 30 * time.Second
	}
	if c.Multiplier == 0 {
		c.Multiplier = 2
	}
	if c.Jitter == 0 {
		c.Jitter = 0.1
	}
	if c.ShouldRetry == nil {
		c.ShouldRetry = IsTransient
	}
	return c
}

// delay returns the wait before the given retry, counted from 1: BaseDelay
// grown by Multiplier per earlier retry, capped at MaxDelay, plus jitter.
func (c RetryConfig) delay(retry int) time.Duration {
	d := float64(c.BaseDelay)
	for i := 1; i < retry && d < float64(c.MaxDelay); i++ {
		d *= c.Multiplier
	}
	d = min(d, float64(c.MaxDelay))
	return time.Duration(d * (1 + c.Jitter*rand.Float64())) //nolint:gosec // jitter needs no cryptographic randomness
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// NewRetryMiddleware calls the provider again when it fails with an error
// config.ShouldRetry accepts. Each retry is logged at WARN through the
// observer the generator puts on the context. The caller's own cancellation
// or deadline ends the loop at once. Replies that arrive but cannot be
// recovered are not retried here; generate.WithReprompts handles them.
func NewRetryMiddleware(config RetryConfig) generate.Middleware {
	config = config.withDefaults()

	return func(next generate.SendFunc) generate.SendFunc {
		return func(ctx context.Context, request ai.ChatRequest) (*ai.ChatResponse, error) {
			response, err := next(ctx, request)
			for retry := 1; err != nil; retry++ {
				if ctxErr := ctx.Err(); ctxErr != nil {
					return nil, fmt.Errorf("%w: %w", ctxErr, err)
				}
				if !config.ShouldRetry(err) {
					return nil, err
				}
				if retry > config.Retries {
					return nil, fmt.Errorf("%w after %d retries: %w", ErrRetryExhausted, config.Retries, err)
				}

				wait := config.delay(retry)
				if observer := observability.ObserverFromContext(ctx); observer != nil {
					observer.Warn(ctx, "Retrying model request",
						observability.Int(observability.AttrRetryAttempt, retry),
						observability.Duration(observability.AttrRetryDelay, wait),
						observability.Error(err),
					)
				}
				if sleepErr := sleep(ctx, wait); sleepErr != nil {
					return nil, fmt.Errorf("%w: %w", sleepErr, err)
				}
				response, err = next(ctx, request)
			}
			return response, nil
		}
	}
}
