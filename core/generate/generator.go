package generate

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/leofalp/airecover/core/recovery"
	"github.com/leofalp/airecover/internal/utils"
	"github.com/leofalp/airecover/providers/ai"
	"github.com/leofalp/airecover/providers/observability"
)

// Generator produces analyses, test suites and documentation from source
// code. It is immutable after New and safe for concurrent use.
type Generator struct {
	send SendFunc
	opts options
}

// New returns a Generator that calls provider through the configured
// middleware chain.
func New(provider ai.Provider, opts ...Option) (*Generator, error) {
	if provider == nil {
		return nil, ErrNilProvider
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	for i, mw := range o.middlewares {
		if mw == nil {
			return nil, fmt.Errorf("middleware at index %d is nil", i)
		}
	}

	return &Generator{
		send: buildSendChain(provider, o.middlewares),
		opts: o,
	}, nil
}

// call describes one generator invocation.
type call struct {
	kind   string
	span   string
	prompt string
	attrs  []observability.Attribute
}

// run sends c.prompt and recovers the reply as T, re-prompting up to the
// configured number of times when recovery fails.
func run[T any](ctx context.Context, g *Generator, c call) (T, error) {
	var result T
	observer := g.opts.observer

	attrs := append([]observability.Attribute{
		observability.String(observability.AttrGenerateKind, c.kind),
		observability.String(observability.AttrLLMModel, g.opts.model),
	}, c.attrs...)
	ctx, span := observer.StartSpan(ctx, c.span, attrs...)
	defer span.End()
	ctx = observability.ContextWithObserver(ctx, observer)

	timer := utils.NewTimer()
	defer func() {
		timer.Stop()
		observer.Histogram(observability.MetricGenerateDuration).Record(ctx,
			float64(timer.GetDuration().Milliseconds()),
			observability.String(observability.AttrGenerateKind, c.kind),
		)
	}()

	observer.Debug(ctx, "Generator call started", attrs...)

	request := ai.ChatRequest{
		Model:            g.opts.model,
		SystemPrompt:     g.opts.systemPrompt,
		Messages:         []ai.Message{ai.NewUserMessage(c.prompt)},
		ResponseFormat:   &ai.ResponseFormat{Type: ai.ResponseFormatJSON},
		GenerationConfig: g.opts.generation,
	}

	var recoverErr error
	for attempt := 0; attempt <= g.opts.reprompts; attempt++ {
		response, err := g.send(ctx, request)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(observability.StatusError, "model request failed")
			observer.Error(ctx, "Model request failed",
				observability.String(observability.AttrGenerateKind, c.kind),
				observability.Error(err),
			)
			return result, fmt.Errorf("%s request failed: %w", c.kind, err)
		}

		content := observeResponse(ctx, span, response)

		result, recoverErr = recovery.RecoverAs[T](content)
		recordRecovery(ctx, observer, span, c.kind, recoverErr)
		if recoverErr == nil {
			span.SetStatus(observability.StatusOK, "")
			return result, nil
		}

		if attempt < g.opts.reprompts {
			observer.Warn(ctx, "Re-prompting after unparseable response",
				observability.String(observability.AttrGenerateKind, c.kind),
				observability.Int("attempt", attempt+1),
			)
			request.Messages = append(request.Messages,
				ai.Message{Role: ai.RoleAssistant, Content: content},
				ai.NewUserMessage(repromptText),
			)
		}
	}

	span.SetStatus(observability.StatusError, ErrUnparseableResponse.Error())
	return result, fmt.Errorf("%w: %w", ErrUnparseableResponse, recoverErr)
}

// observeResponse records the reply on the span and in the context overview
// and returns its content. A nil response counts as empty content.
func observeResponse(ctx context.Context, span observability.Span, response *ai.ChatResponse) string {
	observer := observability.ObserverFromContext(ctx)
	if overview := ai.OverviewFromContext(ctx); overview != nil {
		overview.Record(response)
	}
	if response == nil {
		return ""
	}

	eventAttrs := []observability.Attribute{
		observability.Int(observability.AttrResponseLength, len(response.Content)),
		observability.String(observability.AttrLLMFinishReason, response.FinishReason),
	}
	if u := response.Usage; u != nil {
		eventAttrs = append(eventAttrs,
			observability.Int(observability.AttrLLMTokensPrompt, u.PromptTokens),
			observability.Int(observability.AttrLLMTokensCompletion, u.CompletionTokens),
		)
	}
	span.AddEvent(observability.EventModelResponse, eventAttrs...)

	if observer != nil {
		observer.Trace(ctx, "Model response",
			observability.String(observability.AttrResponseContent, utils.TruncateStringDefault(response.Content)),
		)
		if response.Truncated() {
			observer.Warn(ctx, "Model response hit the token limit",
				observability.String(observability.AttrLLMFinishReason, response.FinishReason),
			)
		}
		if response.Refusal != "" {
			observer.Warn(ctx, "Model refused the request",
				observability.String(observability.AttrResponseContent, utils.TruncateStringDefault(response.Refusal)),
			)
		}
	}
	return response.Content
}

// recordRecovery counts one recovery attempt and, on failure, logs its stage
// and excerpt.
func recordRecovery(ctx context.Context, observer observability.Provider, span observability.Span, kind string, err error) {
	counter := observer.Counter(observability.MetricRecoveryCount)
	if err == nil {
		counter.Add(ctx, 1,
			observability.String(observability.AttrStatus, "success"),
			observability.String(observability.AttrGenerateKind, kind),
		)
		return
	}

	stage, excerpt := "decode", ""
	var failure *recovery.Failure
	if errors.As(err, &failure) {
		stage, excerpt = string(failure.Stage), failure.Excerpt
	}

	counter.Add(ctx, 1,
		observability.String(observability.AttrStatus, "error"),
		observability.String(observability.AttrGenerateKind, kind),
		observability.String(observability.AttrRecoveryStage, stage),
	)
	span.AddEvent(observability.EventRecoveryFailed,
		observability.String(observability.AttrRecoveryStage, stage),
	)
	observer.Error(ctx, "Could not recover model response",
		observability.String(observability.AttrGenerateKind, kind),
		observability.String(observability.AttrRecoveryStage, stage),
		observability.String(observability.AttrRecoveryExcerpt, excerpt),
		observability.Error(err),
	)
}

func checkSource(source string) error {
	if strings.TrimSpace(source) == "" {
		return ErrEmptySource
	}
	return nil
}
