package observability

import (
	"context"
	"sync"
	"testing"
)

// recordingSpan is a Span that only remembers its name.
type recordingSpan struct{ name string }

func (s *recordingSpan) End()                          {}
func (s *recordingSpan) SetAttributes(...Attribute)    {}
func (s *recordingSpan) SetStatus(StatusCode, string)  {}
func (s *recordingSpan) RecordError(error)             {}
func (s *recordingSpan) AddEvent(string, ...Attribute) {}

// namedObserver is a no-op Provider distinguishable by name.
type namedObserver struct {
	Provider
	name string
}

type otherKey struct{}

func TestSpanFromContext(t *testing.T) {
	analysis := &recordingSpan{name: SpanGenerateAnalysis}
	docs := &recordingSpan{name: SpanGenerateDocumentation}

	tests := []struct {
		name string
		ctx  func() context.Context
		want Span
	}{
		{
			name: "no span",
			ctx:  context.Background,
			want: nil,
		},
		{
			name: "stored span",
			ctx:  func() context.Context { return ContextWithSpan(context.Background(), analysis) },
			want: analysis,
		},
		{
			name: "latest span wins",
			ctx: func() context.Context {
				return ContextWithSpan(ContextWithSpan(context.Background(), analysis), docs)
			},
			want: docs,
		},
		{
			name: "survives unrelated values",
			ctx: func() context.Context {
				ctx := ContextWithSpan(context.Background(), analysis)
				return context.WithValue(ctx, otherKey{}, "input.source")
			},
			want: analysis,
		},
		{
			name: "nil span stored",
			ctx:  func() context.Context { return ContextWithSpan(context.Background(), nil) },
			want: nil,
		},
		{
			name: "foreign value under the key",
			ctx:  func() context.Context { return context.WithValue(context.Background(), spanContextKey, "generate.analysis") },
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SpanFromContext(tt.ctx()); got != tt.want {
				t.Errorf("SpanFromContext() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestObserverFromContext(t *testing.T) {
	cli := &namedObserver{Provider: Nop(), name: "cli"}

	tests := []struct {
		name string
		ctx  func() context.Context
		want Provider
	}{
		{
			name: "no observer",
			ctx:  context.Background,
			want: nil,
		},
		{
			name: "stored observer",
			ctx:  func() context.Context { return ContextWithObserver(context.Background(), cli) },
			want: cli,
		},
		{
			name: "observer next to a span",
			ctx: func() context.Context {
				ctx := ContextWithSpan(context.Background(), &recordingSpan{name: SpanGenerateTestCases})
				return ContextWithObserver(ctx, cli)
			},
			want: cli,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ObserverFromContext(tt.ctx()); got != tt.want {
				t.Errorf("ObserverFromContext() = %v, want %v", got, tt.want)
			}
		})
	}
}

//nolint:staticcheck // nil contexts are accepted
func TestContextHelpers_NilContext(t *testing.T) {
	if SpanFromContext(nil) != nil {
		t.Error("SpanFromContext(nil) should be nil")
	}
	if ObserverFromContext(nil) != nil {
		t.Error("ObserverFromContext(nil) should be nil")
	}

	span := &recordingSpan{name: SpanGenerateAnalysis}
	if got := SpanFromContext(ContextWithSpan(nil, span)); got != span {
		t.Errorf("ContextWithSpan(nil, span) lost the span, got %v", got)
	}
	observer := &namedObserver{Provider: Nop(), name: "nil-parent"}
	if got := ObserverFromContext(ContextWithObserver(nil, observer)); got != observer {
		t.Errorf("ContextWithObserver(nil, observer) lost the observer, got %v", got)
	}
}

// Concurrent generator calls derive their span contexts from one parent.
func TestContextWithSpan_ConcurrentGenerators(t *testing.T) {
	parent := ContextWithObserver(context.Background(), Nop())

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			span := &recordingSpan{name: SpanGenerateDocumentation}
			ctx := ContextWithSpan(parent, span)
			if SpanFromContext(ctx) != span {
				t.Error("span lost in concurrent derivation")
			}
			if ObserverFromContext(ctx) == nil {
				t.Error("observer lost in concurrent derivation")
			}
		}()
	}
	wg.Wait()
}
