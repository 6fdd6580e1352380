// Package middleware provides send middleware for generate.Generator:
// retries with exponential backoff, per-request timeouts and request logging.
//
// Pass them to generate.WithMiddleware; the first one given runs outermost.
// Put retry outside timeout so each attempt gets its own deadline.
package middleware
