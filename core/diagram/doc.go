// Package diagram normalizes model-written mermaid-style diagram source so a
// renderer always receives text it can draw.
//
// [Normalize] is total: whatever it is given, the result starts with one of
// the headers listed by [Headers] and holds at least one statement after it.
// Text that cannot be repaired into that shape is replaced by [Fallback].
// This is deliberately unlike the recovery package, which reports failures:
// a broken diagram only costs visual quality, so it is never surfaced as an
// error.
//
// Repair works line by line. Each line gets exactly one [LineKind] and the
// kind alone decides the rewrite; there is no backtracking across lines.
// [NormalizeMarkdown] applies the same treatment to every mermaid block
// embedded in a markdown document.
package diagram
