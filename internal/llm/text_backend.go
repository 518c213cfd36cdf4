package llm

import (
	"context"
	"fmt"
)

// TextBackend adapts the provider factory to a plain model+prompt text call.
// The synthesis pipeline depends on this shape rather than on provider types.
type TextBackend struct {
	factory *ProviderFactory
}

func NewTextBackend(factory *ProviderFactory) *TextBackend {
	return &TextBackend{factory: factory}
}

// Generate routes the call to the provider owning the model and returns the
// generated text.
func (b *TextBackend) Generate(ctx context.Context, model, prompt string) (string, error) {
	provider, err := b.factory.GetProvider(ctx, model, "")
	if err != nil {
		return "", fmt.Errorf("resolving provider for %s: %w", model, err)
	}

	resp, err := provider.Generate(ctx, &GenerationRequest{
		Model: model,
		InputArray: []map[string]any{
			{"role": "user", "content": prompt},
		},
	})
	if err != nil {
		return "", err
	}
	return resp.Text, nil
}
