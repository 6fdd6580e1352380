package middleware

import "errors"

// ErrRetryExhausted is returned by the retry middleware when every attempt
// failed. It is wrapped together with the last provider error, so both can be
// matched with errors.Is.
var ErrRetryExhausted = errors.New("airecover: all retry attempts exhausted")
