// Package utils provides the text helpers shared by the recovery and diagram
// pipelines: markdown fence stripping, bounded excerpts for error payloads and
// a small elapsed-time timer used by the generators.
//
// Key entry points: [StripFences] to unwrap a fenced code block,
// [TruncateString] to bound text copied into errors and logs, and [Timer].
package utils
