package llm

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// ProviderFactory creates providers based on model name or explicit provider
// choice. Providers are cached; they are safe for concurrent use.
type ProviderFactory struct {
	openaiAPIKey    string
	anthropicAPIKey string
	geminiAPIKey    string

	mu        sync.Mutex
	providers map[string]Provider
}

// NewProviderFactory creates a new provider factory
func NewProviderFactory(openaiAPIKey, anthropicAPIKey, geminiAPIKey string) *ProviderFactory {
	return &ProviderFactory{
		openaiAPIKey:    openaiAPIKey,
		anthropicAPIKey: anthropicAPIKey,
		geminiAPIKey:    geminiAPIKey,
		providers:       make(map[string]Provider),
	}
}

// GetProvider returns the appropriate provider for the given model/provider name
func (f *ProviderFactory) GetProvider(ctx context.Context, model, providerName string) (Provider, error) {
	if providerName != "" {
		return f.getProviderByName(ctx, providerName)
	}
	return f.getProviderByModel(ctx, model)
}

// getProviderByName creates a provider by explicit name
func (f *ProviderFactory) getProviderByName(ctx context.Context, providerName string) (Provider, error) {
	name := strings.ToLower(providerName)

	f.mu.Lock()
	defer f.mu.Unlock()
	if p, ok := f.providers[name]; ok {
		return p, nil
	}

	var (
		provider Provider
		err      error
	)
	switch name {
	case providerNameOpenAI:
		if f.openaiAPIKey == "" {
			return nil, fmt.Errorf("openai API key not configured")
		}
		provider = NewOpenAIProvider(f.openaiAPIKey)

	case providerNameAnthropic:
		if f.anthropicAPIKey == "" {
			return nil, fmt.Errorf("anthropic API key not configured")
		}
		provider = NewAnthropicProvider(f.anthropicAPIKey)

	case providerNameGemini:
		if f.geminiAPIKey == "" {
			return nil, fmt.Errorf("gemini API key not configured")
		}
		provider, err = NewGeminiProvider(ctx, f.geminiAPIKey)
		if err != nil {
			return nil, err
		}

	default:
		return nil, fmt.Errorf("unknown provider: %s (allowed: openai, anthropic, gemini)", providerName)
	}

	f.providers[name] = provider
	return provider, nil
}

// getProviderByModel infers provider from model name
func (f *ProviderFactory) getProviderByModel(ctx context.Context, model string) (Provider, error) {
	modelLower := strings.ToLower(model)

	switch {
	case strings.HasPrefix(modelLower, "gpt-"):
		return f.getProviderByName(ctx, providerNameOpenAI)
	case strings.HasPrefix(modelLower, "claude-"):
		return f.getProviderByName(ctx, providerNameAnthropic)
	case strings.HasPrefix(modelLower, "gemini-"):
		return f.getProviderByName(ctx, providerNameGemini)
	}

	// Default to OpenAI for unknown models
	return f.getProviderByName(ctx, providerNameOpenAI)
}
