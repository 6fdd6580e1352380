package generate

import (
	"github.com/leofalp/airecover/providers/ai"
	"github.com/leofalp/airecover/providers/observability"
)

// Option configures a Generator.
type Option func(*options)

type options struct {
	observer     observability.Provider
	model        string
	systemPrompt string
	generation   *ai.GenerationConfig
	reprompts    int
	middlewares  []Middleware
}

func defaultOptions() options {
	return options{
		observer:     observability.Nop(),
		systemPrompt: defaultSystemPrompt,
	}
}

// WithObserver sets the observability provider for spans, metrics and logs.
// A nil observer keeps the no-op default.
func WithObserver(observer observability.Provider) Option {
	return func(o *options) {
		if observer != nil {
			o.observer = observer
		}
	}
}

// WithModel sets the model name sent with every request.
func WithModel(model string) Option {
	return func(o *options) {
		o.model = model
	}
}

// WithSystemPrompt replaces the default system prompt.
func WithSystemPrompt(prompt string) Option {
	return func(o *options) {
		o.systemPrompt = prompt
	}
}

// WithGenerationConfig sets token limit and temperature for every request.
func WithGenerationConfig(config ai.GenerationConfig) Option {
	return func(o *options) {
		o.generation = &config
	}
}

// WithReprompts allows up to n follow-up requests when a reply cannot be
// recovered. Each follow-up shows the model its previous answer and asks for
// the JSON alone. Negative values count as zero.
func WithReprompts(n int) Option {
	return func(o *options) {
		o.reprompts = max(n, 0)
	}
}

// WithMiddleware appends middlewares to the send chain, outermost first.
func WithMiddleware(middlewares ...Middleware) Option {
	return func(o *options) {
		o.middlewares = append(o.middlewares, middlewares...)
	}
}
