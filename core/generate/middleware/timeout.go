package middleware

import (
	"context"
	"time"

	"github.com/leofalp/airecover/core/generate"
	"github.com/leofalp/airecover/providers/ai"
)

// NewTimeoutMiddleware bounds each provider call to timeout. A shorter
// deadline already on the caller's context still wins.
func NewTimeoutMiddleware(timeout time.Duration) generate.Middleware {
	return func(next generate.SendFunc) generate.SendFunc {
		return func(ctx context.Context, request ai.ChatRequest) (*ai.ChatResponse, error) {
			ctx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()

			return next(ctx, request)
		}
	}
}
