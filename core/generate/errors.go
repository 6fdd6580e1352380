package generate

import "errors"

var (
	// ErrUnparseableResponse is returned when the model's reply could not be
	// recovered into the requested shape. It wraps the recovery error, so a
	// *recovery.Failure is available through errors.As.
	ErrUnparseableResponse = errors.New("failed to parse AI response")

	// ErrEmptySource is returned when a generator is called with no code.
	ErrEmptySource = errors.New("source code is empty")

	// ErrNilProvider is returned by New when no provider is given.
	ErrNilProvider = errors.New("provider is nil")
)
