package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetProviderRoutesByModelPrefix(t *testing.T) {
	factory := NewProviderFactory("sk-test", "ak-test", "gk-test")

	tests := []struct {
		name     string
		model    string
		provider string
	}{
		{"gpt model routes to openai", "gpt-5.1", "openai"},
		{"claude model routes to anthropic", "claude-sonnet-4-20250514", "anthropic"},
		{"uppercase prefix still matches", "GPT-4o", "openai"},
		{"unknown model defaults to openai", "mystery-model", "openai"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider, err := factory.GetProvider(context.Background(), tt.model, "")
			require.NoError(t, err)
			assert.Equal(t, tt.provider, provider.Name())
		})
	}
}

func TestGetProviderByExplicitName(t *testing.T) {
	factory := NewProviderFactory("sk-test", "ak-test", "gk-test")

	provider, err := factory.GetProvider(context.Background(), "gpt-5.1", "anthropic")
	require.NoError(t, err)
	assert.Equal(t, "anthropic", provider.Name())
}

func TestGetProviderUnknownName(t *testing.T) {
	factory := NewProviderFactory("sk-test", "ak-test", "gk-test")

	_, err := factory.GetProvider(context.Background(), "", "cohere")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown provider")
}

func TestGetProviderMissingKey(t *testing.T) {
	factory := NewProviderFactory("", "ak-test", "gk-test")

	_, err := factory.GetProvider(context.Background(), "gpt-5.1", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}

func TestGetProviderCachesInstances(t *testing.T) {
	factory := NewProviderFactory("sk-test", "ak-test", "gk-test")

	first, err := factory.GetProvider(context.Background(), "gpt-5.1", "")
	require.NoError(t, err)
	second, err := factory.GetProvider(context.Background(), "gpt-4o", "")
	require.NoError(t, err)

	assert.Same(t, first, second)
}
