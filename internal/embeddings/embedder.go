package embeddings

import (
	"context"
	"fmt"

	chromem "github.com/philippgille/chromem-go"
)

// Embedder defines the interface for generating text embeddings.
type Embedder interface {
	// Embed generates one embedding per input text, in input order.
	Embed(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the number of dimensions in the embedding vectors.
	Dimensions() int

	// Name returns the name/identifier of the embedding model.
	Name() string
}

// checkBatch verifies that a provider returned exactly one vector of the
// expected width per input. dims <= 0 skips the width check.
func checkBatch(provider string, vectors [][]float32, inputs, dims int) error {
	if len(vectors) != inputs {
		return fmt.Errorf("%s returned %d embeddings, expected %d", provider, len(vectors), inputs)
	}
	if dims <= 0 {
		return nil
	}
	for i, v := range vectors {
		if len(v) != dims {
			return fmt.Errorf("%s embedding %d has %d dimensions, expected %d", provider, i, len(v), dims)
		}
	}
	return nil
}

// ChromemFunc adapts e to chromem's one-text-at-a-time embedding hook.
func ChromemFunc(e Embedder) chromem.EmbeddingFunc {
	return func(ctx context.Context, text string) ([]float32, error) {
		vectors, err := e.Embed(ctx, []string{text})
		if err != nil {
			return nil, err
		}
		if err := checkBatch(e.Name(), vectors, 1, e.Dimensions()); err != nil {
			return nil, err
		}
		return vectors[0], nil
	}
}
