package llm

import "context"

// Provider defines the interface for LLM backends. The synthesis pipeline
// treats every failure mode (transport, timeout, malformed response, blank
// output) identically, so providers just return an error.
type Provider interface {
	// Generate produces a plain-text completion for the request.
	Generate(ctx context.Context, request *GenerationRequest) (*GenerationResponse, error)

	// Name returns the provider name (e.g., "openai", "anthropic", "gemini")
	Name() string
}

// GenerationRequest contains all parameters needed for generation
type GenerationRequest struct {
	Model        string
	SystemPrompt string
	InputArray   []map[string]any
}

// GenerationResponse contains the result from the LLM
type GenerationResponse struct {
	Text  string `json:"text"`
	Usage *Usage `json:"usage,omitempty"`
}

// Usage reports token consumption for one call
type Usage struct {
	InputTokens  int64 `json:"input_tokens"`
	OutputTokens int64 `json:"output_tokens"`
	TotalTokens  int64 `json:"total_tokens"`
}
