package llm

import (
	"fmt"
	"os"
)

// apiKeyEnv maps hosted providers to the environment variable holding their key.
var apiKeyEnv = map[string]string{
	"anthropic":  "ANTHROPIC_API_KEY",
	"openai":     "OPENAI_API_KEY",
	"google":     "GOOGLE_API_KEY",
	"openrouter": "OPENROUTER_API_KEY",
	"minimax":    "MINIMAX_API_KEY",
}

// NewProvider creates a new LLM provider based on the given provider type and model.
// Supported provider types: "anthropic", "openai", "google", "ollama", "openrouter", "minimax".
func NewProvider(providerType string, model string) (Provider, error) {
	if providerType == "ollama" {
		host := os.Getenv("OLLAMA_HOST")
		if host == "" {
			host = "http://localhost:11434"
		}
		return NewOllamaProvider(host, model), nil
	}

	envVar, ok := apiKeyEnv[providerType]
	if !ok {
		return nil, fmt.Errorf("unsupported provider type: %s", providerType)
	}
	apiKey := os.Getenv(envVar)
	if apiKey == "" {
		return nil, fmt.Errorf("%s environment variable is not set", envVar)
	}

	switch providerType {
	case "anthropic":
		return NewAnthropicProvider(apiKey, model), nil
	case "openai":
		return NewOpenAIProvider(apiKey, model), nil
	case "google":
		return NewGoogleProvider(apiKey, model), nil
	case "openrouter":
		return NewOpenRouterProvider(apiKey, model), nil
	default:
		return NewMinimaxProvider(apiKey, model), nil
	}
}
