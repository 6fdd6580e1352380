package ai

import "context"

// Provider sends one chat request to a model and returns its reply.
type Provider interface {
	// SendMessage returns the completed response, or an error when the call
	// fails or ctx is cancelled. Malformed model output is not an error here;
	// it is the recovery pipeline's job.
	SendMessage(ctx context.Context, request ChatRequest) (*ChatResponse, error)
}

// ProviderFunc adapts an ordinary function to Provider.
type ProviderFunc func(ctx context.Context, request ChatRequest) (*ChatResponse, error)

func (f ProviderFunc) SendMessage(ctx context.Context, request ChatRequest) (*ChatResponse, error) {
	return f(ctx, request)
}
