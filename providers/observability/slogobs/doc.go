// Package slogobs implements observability.Provider on top of log/slog.
//
// Spans, counters and histograms become debug records; log calls map to slog
// levels, with TRACE below DEBUG. Counters and histograms also keep running
// totals readable through [Observer.CounterValue] and
// [Observer.HistogramSummary], which the command line tool prints at exit.
//
// Output is compact single-line text for terminals or one JSON object per
// line for log collectors. [New] reads AIRECOVER_LOG_FORMAT / LOG_FORMAT and
// AIRECOVER_LOG_LEVEL / LOG_LEVEL; options override the environment.
package slogobs
