// Package recovery turns free-form language-model output into a structured
// JSON value, or into a typed [*Failure] explaining why it could not.
//
// Model output is rarely clean JSON: it arrives wrapped in prose or markdown
// fences, cut off by a token limit, decorated with trailing commas or typeset
// with curly quotes. [Recover] runs a fixed pipeline over the text:
//
//  1. fence stripping
//  2. boundary extraction (first opener to last closer, or to end of text when truncated)
//  3. character sanitation, aware of string literals
//  4. brace/bracket balancing, which only ever appends closers
//  5. parsing, with a narrower re-extraction and a broad repair as fallbacks
//
// Every call either yields a syntactically complete [Value] or a [*Failure]
// carrying the failing stage, a bounded excerpt and the parser's own message.
// The functions in this package are pure and safe for concurrent use.
//
// [RecoverAs] decodes the recovered value straight into a Go type.
package recovery
