package observability

// Semantic conventions shared by everything that records observations.

// --- Model Attributes ---

const (
	// AttrLLMModel is the model identifier sent with the request
	AttrLLMModel = "llm.model"

	// AttrLLMFinishReason is the reason the model stopped generating
	AttrLLMFinishReason = "llm.finish_reason"

	// AttrLLMTokensPrompt is the number of prompt tokens
	AttrLLMTokensPrompt = "llm.tokens.prompt" // #nosec G101 -- Not a credential, token refers to LLM tokens

	// AttrLLMTokensCompletion is the number of completion tokens
	AttrLLMTokensCompletion = "llm.tokens.completion" // #nosec G101 -- Not a credential, token refers to LLM tokens

	// AttrResponseContent is the raw model output, truncated
	AttrResponseContent = "response.content"

	// AttrResponseLength is the length of the raw model output in bytes
	AttrResponseLength = "response.length"
)

// --- Retry Attributes ---

const (
	// AttrRetryAttempt is the retry number of a repeated model request,
	// counted from 1
	AttrRetryAttempt = "retry.attempt"

	// AttrRetryDelay is the wait before a retry
	AttrRetryDelay = "retry.delay"
)

// --- Generator Attributes ---

const (
	// AttrGenerateKind is the artifact a generator call produces
	// ("analysis", "test_cases", "documentation")
	AttrGenerateKind = "generate.kind"

	// AttrGenerateFramework is the test framework requested for test cases
	AttrGenerateFramework = "generate.framework"

	// AttrSourceLength is the length of the code sent for analysis
	AttrSourceLength = "source.length"
)

// --- Recovery Attributes ---

const (
	// AttrRecoveryStage is the stage a recovery failed at
	AttrRecoveryStage = "recovery.stage"

	// AttrRecoveryExcerpt is the bounded excerpt of the text that failed
	AttrRecoveryExcerpt = "recovery.excerpt"

	// AttrRecoveryValueKind is the JSON kind of a recovered value
	AttrRecoveryValueKind = "recovery.value_kind"
)

// --- Diagram Attributes ---

const (
	// AttrDiagramHeader is the header line of a normalized diagram
	AttrDiagramHeader = "diagram.header"

	// AttrDiagramFallback reports whether the fallback diagram was substituted
	AttrDiagramFallback = "diagram.fallback"

	// AttrMarkdownConverted reports whether HTML output was converted to markdown
	AttrMarkdownConverted = "markdown.converted"
)

// --- Input Attributes ---

const (
	// AttrInputSource names where the command line tool read text from
	// (a path, or "-" for stdin)
	AttrInputSource = "input.source"

	// AttrInputLength is the length of the text read
	AttrInputLength = "input.length"
)

// --- General Attributes ---

const (
	// AttrError is the error message
	AttrError = "error"

	// AttrDuration is the operation duration
	AttrDuration = "duration"

	// AttrStatus is the operation status ("success", "error")
	AttrStatus = "status"
)

// --- Span Names ---

const (
	// SpanGenerateAnalysis is the span around a code analysis call
	SpanGenerateAnalysis = "generate.analysis"

	// SpanGenerateTestCases is the span around a test case generation call
	SpanGenerateTestCases = "generate.test_cases"

	// SpanGenerateDocumentation is the span around a documentation call
	SpanGenerateDocumentation = "generate.documentation"
)

// --- Event Names ---

const (
	// EventModelResponse marks the arrival of the raw model output
	EventModelResponse = "model.response"

	// EventRecoveryFailed marks a recovery failure inside a span
	EventRecoveryFailed = "recovery.failed"
)

// --- Metric Names ---

const (
	// MetricRecoveryCount counts recovery attempts by status and stage
	MetricRecoveryCount = "airecover.recovery.count"

	// MetricGenerateDuration is the histogram of generator call durations in
	// milliseconds
	MetricGenerateDuration = "airecover.generate.duration"

	// MetricDiagramFallbackCount counts diagrams replaced by the fallback
	MetricDiagramFallbackCount = "airecover.diagram.fallback.count"
)
