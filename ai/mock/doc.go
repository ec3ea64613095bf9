// Package mock provides test double implementations of AI service interfaces.
//
// MockEmbedder and MockProvider stand in for ai.Embedder and ai.Provider so
// tests run without an embedding service and with deterministic vectors.
//
// # Usage in Tests
//
//	// Default deterministic behavior
//	provider := mock.NewMockProvider()
//	vec, err := provider.Embedder().EmbedText(ctx, "test")
//
//	// Pinned vectors for known inputs
//	embedder := mock.NewMockEmbedder().
//	    WithVector("hotel", []float32{1, 0, 0})
//
//	// Failure injection
//	embedder := mock.NewMockEmbedder().
//	    WithEmbedTextFunc(func(ctx context.Context, text string) ([]float32, error) {
//	        return nil, errors.New("service down")
//	    })
//
//	count := embedder.CallCount()
//
// The embedder is safe for concurrent use.
package mock
