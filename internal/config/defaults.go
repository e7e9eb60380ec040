package config

import (
	"slices"
	"time"
)

// ModelPreset describes the default chat and embedding models for a provider.
type ModelPreset struct {
	Model               string
	EmbeddingProvider   ProviderType
	EmbeddingModel      string
	EmbeddingDimensions int
}

// presets maps each provider to its default model choices. Providers without
// an embeddings API borrow OpenAI embeddings.
var presets = map[ProviderType]ModelPreset{
	ProviderGoogle: {
		Model:               "gemini-1.5-flash",
		EmbeddingProvider:   ProviderGoogle,
		EmbeddingModel:      "text-embedding-004",
		EmbeddingDimensions: 768,
	},
	ProviderOpenAI: {
		Model:               "gpt-4o-mini",
		EmbeddingProvider:   ProviderOpenAI,
		EmbeddingModel:      "text-embedding-3-small",
		EmbeddingDimensions: 1536,
	},
	ProviderAnthropic: {
		Model:               "claude-haiku-4-5-20251001",
		EmbeddingProvider:   ProviderOpenAI,
		EmbeddingModel:      "text-embedding-3-small",
		EmbeddingDimensions: 1536,
	},
	ProviderOllama: {
		Model:               "llama3",
		EmbeddingProvider:   ProviderOllama,
		EmbeddingModel:      "nomic-embed-text",
		EmbeddingDimensions: 768,
	},
	ProviderMiniMax: {
		Model:               "MiniMax-M2.5",
		EmbeddingProvider:   ProviderOpenAI,
		EmbeddingModel:      "text-embedding-3-small",
		EmbeddingDimensions: 1536,
	},
	ProviderOpenRouter: {
		Model:               "google/gemini-2.0-flash-001",
		EmbeddingProvider:   ProviderOpenAI,
		EmbeddingModel:      "text-embedding-3-small",
		EmbeddingDimensions: 1536,
	},
}

// DefaultIncludes are the file patterns picked up by directory ingestion.
var DefaultIncludes = []string{"**/*.txt", "**/*.md", "**/*.pdf"}

// DefaultExcludes are glob patterns skipped by directory ingestion.
var DefaultExcludes = []string{
	".git/**",
	"node_modules/**",
	"**/.DS_Store",
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	p := presets[ProviderGoogle]
	return &Config{
		Provider:            ProviderGoogle,
		Model:               p.Model,
		EmbeddingProvider:   p.EmbeddingProvider,
		EmbeddingModel:      p.EmbeddingModel,
		EmbeddingDimensions: p.EmbeddingDimensions,
		DataDir:             ".flashlearn",
		ChunkSize:           500,
		ChunkOverlap:        50,
		RetrievalTopK:       3,
		EmbedTimeout:        30 * time.Second,
		GenerateTimeout:     2 * time.Minute,
		RequestsPerMinute:   60,
		Include:             slices.Clone(DefaultIncludes),
		Exclude:             slices.Clone(DefaultExcludes),
		LogLevel:            "info",
		LogFormat:           "text",
		Port:                8000,
	}
}

// GetPreset returns the model preset for the given provider, falling back to
// the Google preset for unknown providers.
func GetPreset(provider ProviderType) ModelPreset {
	if p, ok := presets[provider]; ok {
		return p
	}
	return presets[ProviderGoogle]
}
