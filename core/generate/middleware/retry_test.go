package middleware

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/leofalp/airecover/providers/ai"
	"github.com/leofalp/airecover/providers/observability"
	"github.com/leofalp/airecover/providers/observability/slogobs"
)

// ========== Helpers ==========

// flakyProvider fails with errs in turn, then answers with reply.
type flakyProvider struct {
	errs  []error
	reply string
	calls int
}

func (p *flakyProvider) send(_ context.Context, _ ai.ChatRequest) (*ai.ChatResponse, error) {
	p.calls++
	if p.calls <= len(p.errs) && p.errs[p.calls-1] != nil {
		return nil, p.errs[p.calls-1]
	}
	return &ai.ChatResponse{Content: p.reply, FinishReason: ai.FinishReasonStop}, nil
}

func quickRetry(retries int) RetryConfig {
	return RetryConfig{Retries: retries, BaseDelay: time.Millisecond, MaxDelay: 4 * time.Millisecond}
}

// ========== NewRetryMiddleware ==========

func TestRetryMiddleware(t *testing.T) {
	rateLimited := errors.New("status 429: slow down")
	overloaded := errors.New("529 overloaded")
	unauthorized := errors.New("status 401: bad key")

	tests := []struct {
		name          string
		errs          []error
		retries       int
		wantCalls     int
		wantErr       error
		wantExhausted bool
	}{
		{name: "first call succeeds", retries: 3, wantCalls: 1},
		{name: "recovers after transient errors", errs: []error{rateLimited, overloaded}, retries: 3, wantCalls: 3},
		{name: "attempt deadline is transient", errs: []error{fmt.Errorf("send: %w", context.DeadlineExceeded)}, retries: 1, wantCalls: 2},
		{name: "permanent error stops at once", errs: []error{unauthorized}, retries: 3, wantCalls: 1, wantErr: unauthorized},
		{name: "exhausted", errs: []error{overloaded, overloaded, overloaded}, retries: 2, wantCalls: 3, wantErr: overloaded, wantExhausted: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := &flakyProvider{errs: tt.errs, reply: `{"qualityScore": 7}`}

			response, err := NewRetryMiddleware(quickRetry(tt.retries))(provider.send)(context.Background(), ai.ChatRequest{})

			if provider.calls != tt.wantCalls {
				t.Errorf("provider called %d times, want %d", provider.calls, tt.wantCalls)
			}
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if response.Content != provider.reply {
					t.Errorf("Content = %q, want %q", response.Content, provider.reply)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want it to wrap %v", err, tt.wantErr)
			}
			if got := errors.Is(err, ErrRetryExhausted); got != tt.wantExhausted {
				t.Errorf("errors.Is(err, ErrRetryExhausted) = %v, want %v", got, tt.wantExhausted)
			}
		})
	}
}

func TestRetryMiddleware_ShouldRetryOverridesDefault(t *testing.T) {
	quotaHiccup := errors.New("quota service unreachable")
	provider := &flakyProvider{errs: []error{quotaHiccup}}

	config := quickRetry(1)
	config.ShouldRetry = func(err error) bool { return errors.Is(err, quotaHiccup) }

	if _, err := NewRetryMiddleware(config)(provider.send)(context.Background(), ai.ChatRequest{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if provider.calls != 2 {
		t.Errorf("provider called %d times, want 2", provider.calls)
	}
}

// A cancelled caller must not sit out an hour-long backoff.
func TestRetryMiddleware_CallerCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	send := func(_ context.Context, _ ai.ChatRequest) (*ai.ChatResponse, error) {
		calls++
		cancel()
		return nil, errors.New("status 503")
	}

	_, err := NewRetryMiddleware(RetryConfig{Retries: 5, BaseDelay: time.Hour})(send)(ctx, ai.ChatRequest{})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
	if calls != 1 {
		t.Errorf("provider called %d times, want 1", calls)
	}
}

func TestRetryMiddleware_LogsRetriesToContextObserver(t *testing.T) {
	var buf bytes.Buffer
	observer := slogobs.New(slogobs.WithFormat(slogobs.FormatJSON), slogobs.WithLevel(slog.LevelWarn), slogobs.WithOutput(&buf))
	ctx := observability.ContextWithObserver(context.Background(), observer)

	provider := &flakyProvider{errs: []error{errors.New("status 502"), errors.New("status 502")}}
	if _, err := NewRetryMiddleware(quickRetry(3))(provider.send)(ctx, ai.ChatRequest{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	logged := buf.String()
	if got := strings.Count(logged, "Retrying model request"); got != 2 {
		t.Errorf("logged %d retries, want 2:\n%s", got, logged)
	}
	for _, want := range []string{`"retry.attempt":1`, `"retry.attempt":2`, "status 502"} {
		if !strings.Contains(logged, want) {
			t.Errorf("log does not contain %s:\n%s", want, logged)
		}
	}
}

// ========== Helpers of the middleware ==========

func TestIsTransient(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"rate limited", errors.New("openai: status 429"), true},
		{"overloaded", errors.New("anthropic: 529 overloaded"), true},
		{"bad gateway", errors.New("502 Bad Gateway"), true},
		{"attempt deadline", fmt.Errorf("send: %w", context.DeadlineExceeded), true},
		{"bad request", errors.New("400 bad request"), false},
		{"cancelled", context.Canceled, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsTransient(tt.err); got != tt.want {
				t.Errorf("IsTransient(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestRetryConfig_WithDefaults(t *testing.T) {
	got := RetryConfig{}.withDefaults()

	if got.Retries != 3 || got.BaseDelay != time.Second || got.MaxDelay != 30*time.Second {
		t.Errorf("withDefaults() = %+v, want 3 retries from 1s up to 30s", got)
	}
	if got.Multiplier != 2 || got.Jitter != 0.1 {
		t.Errorf("withDefaults() multiplier %v jitter %v, want 2 and 0.1", got.Multiplier, got.Jitter)
	}
	if got.ShouldRetry == nil {
		t.Error("withDefaults() left ShouldRetry nil")
	}

	kept := RetryConfig{Retries: 1, BaseDelay: time.Millisecond}.withDefaults()
	if kept.Retries != 1 || kept.BaseDelay != time.Millisecond {
		t.Errorf("withDefaults() overwrote set fields: %+v", kept)
	}
}

func TestRetryConfig_Delay(t *testing.T) {
	config := RetryConfig{BaseDelay: 100 * time.Millisecond, MaxDelay: time.Second, Multiplier: 2, Jitter: 0.1}

	tests := []struct {
		retry int
		base  time.Duration
	}{
		{1, 100 * time.Millisecond},
		{2, 200 * time.Millisecond},
		{3, 400 * time.Millisecond},
		{6, time.Second},
	}

	for _, tt := range tests {
		got := config.delay(tt.retry)
		if limit := tt.base + tt.base/10; got < tt.base || got > limit {
			t.Errorf("delay(%d) = %v, want within [%v, %v]", tt.retry, got, tt.base, limit)
		}
	}
}
