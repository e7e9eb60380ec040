package materials

import (
	"context"
	"fmt"

	"github.com/ziadkadry99/flashlearn/internal/llm"
	"github.com/ziadkadry99/flashlearn/internal/logger"
)

// Generator asks a language model for a study bundle.
type Generator struct {
	provider llm.Provider
	model    string
}

// NewGenerator creates a Generator using provider and model.
func NewGenerator(provider llm.Provider, model string) *Generator {
	return &Generator{provider: provider, model: model}
}

// Result carries the generated bundle and the completion it came from.
type Result struct {
	Bundle   *Bundle
	Response *llm.CompletionResponse
}

// Generate produces a bundle for text. A provider failure is returned
// wrapped; unusable output is returned as a *ParseError.
func (g *Generator) Generate(ctx context.Context, text string) (*Result, error) {
	resp, err := g.provider.Complete(ctx, llm.CompletionRequest{
		Model: g.model,
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: systemPrompt},
			{Role: llm.RoleUser, Content: GenerationPrompt(text)},
		},
		MaxTokens:   4096,
		Temperature: 0.2,
		JSONMode:    true,
	})
	if err != nil {
		return nil, fmt.Errorf("%s completion: %w", g.provider.Name(), err)
	}
	if resp == nil {
		return nil, fmt.Errorf("%s completion: empty response", g.provider.Name())
	}

	bundle, err := Parse(resp.Content)
	if err != nil {
		logger.Error(ctx, "unusable materials response", err, "raw_response", resp.Content)
		return nil, err
	}
	return &Result{Bundle: bundle, Response: resp}, nil
}
