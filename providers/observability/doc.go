// Package observability defines the tracing, metrics and logging interfaces
// used by the generators and the command line tool.
//
// [Provider] composes [Tracer], [Metrics] and [Logger] into one injectable
// dependency; [Nop] satisfies it by discarding everything. An active provider
// and span travel through a [context.Context] with [ContextWithObserver] and
// [ContextWithSpan], and come back out with [ObserverFromContext] and
// [SpanFromContext].
//
// semconv.go holds the attribute keys, span names and metric names shared by
// every component that records observations. The recovery and diagram
// packages never log; their callers record the outcome.
package observability
