package openai

import (
	"testing"

	"github.com/poiesic/concierge/ai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEmbedder(t *testing.T) {
	t.Run("valid config", func(t *testing.T) {
		embedder, err := NewEmbedder(ai.NewConfig(ai.WithEmbeddingHost("http://localhost:11434")))
		require.NoError(t, err)
		assert.NotNil(t, embedder)
	})

	t.Run("invalid config is rejected", func(t *testing.T) {
		_, err := NewEmbedder(&ai.Config{EmbeddingHost: "http://localhost:11434"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "EmbeddingModel")
	})
}

func TestNewProvider(t *testing.T) {
	provider, err := NewProvider(ai.DefaultConfig())
	require.NoError(t, err)
	defer provider.Close()

	assert.NotNil(t, provider.Embedder())
}
