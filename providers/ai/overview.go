package ai

import (
	"context"
	"sync"
)

// Overview accumulates the requests and token usage of every model call made
// under one context, such as all generator calls for a single document.
type Overview struct {
	mu         sync.Mutex
	requests   int
	truncated  int
	totalUsage Usage
}

type overviewKey struct{}

// OverviewFromContext returns the Overview attached to ctx, or nil.
func OverviewFromContext(ctx context.Context) *Overview {
	if ctx == nil {
		return nil
	}
	o, _ := ctx.Value(overviewKey{}).(*Overview)
	return o
}

// ToContext returns a copy of ctx carrying o.
func (o *Overview) ToContext(ctx context.Context) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, overviewKey{}, o)
}

// Record adds one completed call.
func (o *Overview) Record(response *ChatResponse) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.requests++
	if response == nil {
		return
	}
	if response.Truncated() {
		o.truncated++
	}
	if u := response.Usage; u != nil {
		o.totalUsage.PromptTokens += u.PromptTokens
		o.totalUsage.CompletionTokens += u.CompletionTokens
		o.totalUsage.TotalTokens += u.TotalTokens
	}
}

// Requests returns the number of calls recorded.
func (o *Overview) Requests() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.requests
}

// Truncated returns how many recorded responses hit the token limit.
func (o *Overview) Truncated() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.truncated
}

// TotalUsage returns the summed token usage.
func (o *Overview) TotalUsage() Usage {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.totalUsage
}
