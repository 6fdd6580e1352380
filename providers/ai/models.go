package ai

// ChatRequest is a single-turn request to a model.
type ChatRequest struct {
	Model            string            `json:"model,omitempty"`
	SystemPrompt     string            `json:"system_prompt,omitempty"`
	Messages         []Message         `json:"messages"`
	ResponseFormat   *ResponseFormat   `json:"response_format,omitempty"`
	GenerationConfig *GenerationConfig `json:"generation_config,omitempty"`
}

type Message struct {
	Role    MessageRole `json:"role"`
	Content string      `json:"content,omitempty"`
}

type MessageRole string

const (
	RoleSystem    MessageRole = "system"
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

// NewUserMessage returns a user message holding content.
func NewUserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

type GenerationConfig struct {
	MaxTokens   int     `json:"max_tokens,omitempty"`
	Temperature float32 `json:"temperature,omitempty"` // [0..2], lower is more deterministic
}

// ResponseFormat hints at the shape of the expected answer. Models treat it
// as advice, which is why their output still goes through recovery.
type ResponseFormat struct {
	Type string `json:"type,omitempty"` // "text", "json_object" or "markdown"
}

const (
	ResponseFormatText     = "text"
	ResponseFormatJSON     = "json_object"
	ResponseFormatMarkdown = "markdown"
)

type Usage struct {
	PromptTokens     int `json:"prompt_tokens,omitempty"`
	CompletionTokens int `json:"completion_tokens,omitempty"`
	TotalTokens      int `json:"total_tokens,omitempty"`
}

// ChatResponse is the model's reply. Content is the raw text.
type ChatResponse struct {
	ID           string `json:"id"`
	Model        string `json:"model"`
	Content      string `json:"content"`
	FinishReason string `json:"finish_reason,omitempty"`
	Usage        *Usage `json:"usage,omitempty"`
	Refusal      string `json:"refusal,omitempty"`
}

// Finish reasons shared by the common providers.
const (
	FinishReasonStop   = "stop"
	FinishReasonLength = "length"
)

// Truncated reports whether the model stopped at its token limit, in which
// case Content is likely cut off mid-structure.
func (r *ChatResponse) Truncated() bool {
	return r != nil && (r.FinishReason == FinishReasonLength || r.FinishReason == "max_tokens")
}
