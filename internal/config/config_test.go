package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, ProviderGoogle, cfg.Provider)
	assert.Equal(t, 500, cfg.ChunkSize)
	assert.Equal(t, 50, cfg.ChunkOverlap)
	assert.Equal(t, 3, cfg.RetrievalTopK)
	assert.Equal(t, 30*time.Second, cfg.EmbedTimeout)
	require.NoError(t, cfg.Validate())
}

func TestDefaultConfigDoesNotAliasPackageLists(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Include[0] = "changed"
	assert.NotEqual(t, "changed", DefaultIncludes[0])
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.flashlearn.yml")

	original := DefaultConfig()
	original.Provider = ProviderOpenAI
	original.Model = "gpt-4o"
	original.EmbeddingProvider = ProviderOpenAI
	original.ChunkSize = 300
	original.ChunkOverlap = 30
	original.GenerateTimeout = 45 * time.Second
	original.DataDir = "study"

	require.NoError(t, original.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, original.Provider, loaded.Provider)
	assert.Equal(t, original.Model, loaded.Model)
	assert.Equal(t, 300, loaded.ChunkSize)
	assert.Equal(t, 30, loaded.ChunkOverlap)
	assert.Equal(t, 45*time.Second, loaded.GenerateTimeout)
	assert.Equal(t, "study", loaded.DataDir)
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nonexistent.yml"))
	require.NoError(t, err, "a missing file should yield defaults")
	assert.Equal(t, ProviderGoogle, cfg.Provider)
}

func TestLoadEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.yml")
	require.NoError(t, DefaultConfig().Save(path))

	t.Setenv("FLASHLEARN_PROVIDER", "openai")
	t.Setenv("FLASHLEARN_RETRIEVAL_TOP_K", "5")
	t.Setenv("FLASHLEARN_EMBED_TIMEOUT", "5s")

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ProviderOpenAI, loaded.Provider)
	assert.Equal(t, 5, loaded.RetrievalTopK)
	assert.Equal(t, 5*time.Second, loaded.EmbedTimeout)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty provider", func(c *Config) { c.Provider = "" }},
		{"unknown provider", func(c *Config) { c.Provider = "invalid" }},
		{"empty model", func(c *Config) { c.Model = "" }},
		{"chat-only embedding provider", func(c *Config) { c.EmbeddingProvider = ProviderAnthropic }},
		{"empty embedding model", func(c *Config) { c.EmbeddingModel = "" }},
		{"zero chunk size", func(c *Config) { c.ChunkSize = 0 }},
		{"overlap equals size", func(c *Config) { c.ChunkOverlap = c.ChunkSize }},
		{"negative overlap", func(c *Config) { c.ChunkOverlap = -1 }},
		{"zero top k", func(c *Config) { c.RetrievalTopK = 0 }},
		{"zero timeout", func(c *Config) { c.EmbedTimeout = 0 }},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }},
		{"bad log format", func(c *Config) { c.LogFormat = "xml" }},
		{"bad port", func(c *Config) { c.Port = 70000 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestGetPreset(t *testing.T) {
	p := GetPreset(ProviderAnthropic)
	assert.Equal(t, ProviderOpenAI, p.EmbeddingProvider)

	p = GetPreset(ProviderOllama)
	assert.Equal(t, ProviderOllama, p.EmbeddingProvider)

	// Unknown providers fall back to Google.
	assert.Equal(t, presets[ProviderGoogle], GetPreset("unknown"))
}

func TestAPIKeyEnvVar(t *testing.T) {
	tests := []struct {
		provider ProviderType
		want     string
	}{
		{ProviderAnthropic, "ANTHROPIC_API_KEY"},
		{ProviderOpenAI, "OPENAI_API_KEY"},
		{ProviderGoogle, "GOOGLE_API_KEY"},
		{ProviderOpenRouter, "OPENROUTER_API_KEY"},
		{ProviderOllama, ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, APIKeyEnvVar(tt.provider), "provider %q", tt.provider)
	}
}

func TestSplitList(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"a,b,c", []string{"a", "b", "c"}},
		{" a , b , c ", []string{"a", "b", "c"}},
		{"**/*.md", []string{"**/*.md"}},
		{"", nil},
		{"  ,  , ", nil},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SplitList(tt.input), "SplitList(%q)", tt.input)
	}
}

func TestValidatePositiveInt(t *testing.T) {
	assert.NoError(t, validatePositiveInt(" 400 "))
	assert.Error(t, validatePositiveInt("0"))
	assert.Error(t, validatePositiveInt("abc"))
}
