package config

import "time"

// ProviderType identifies an LLM or embedding provider.
type ProviderType string

const (
	ProviderAnthropic  ProviderType = "anthropic"
	ProviderOpenAI     ProviderType = "openai"
	ProviderGoogle     ProviderType = "google"
	ProviderOllama     ProviderType = "ollama"
	ProviderMiniMax    ProviderType = "minimax"
	ProviderOpenRouter ProviderType = "openrouter"
)

// Config is the top-level flashlearn configuration, corresponding to .flashlearn.yml.
type Config struct {
	Provider            ProviderType `yaml:"provider" koanf:"provider"`
	Model               string       `yaml:"model" koanf:"model"`
	EmbeddingProvider   ProviderType `yaml:"embedding_provider" koanf:"embedding_provider"`
	EmbeddingModel      string       `yaml:"embedding_model" koanf:"embedding_model"`
	EmbeddingDimensions int          `yaml:"embedding_dimensions" koanf:"embedding_dimensions"`

	// DataDir holds the vector index and the subject ledger. Empty keeps
	// both in memory for the lifetime of the process.
	DataDir string `yaml:"data_dir" koanf:"data_dir"`

	ChunkSize     int `yaml:"chunk_size" koanf:"chunk_size"`
	ChunkOverlap  int `yaml:"chunk_overlap" koanf:"chunk_overlap"`
	RetrievalTopK int `yaml:"retrieval_top_k" koanf:"retrieval_top_k"`

	EmbedTimeout      time.Duration `yaml:"embed_timeout" koanf:"embed_timeout"`
	GenerateTimeout   time.Duration `yaml:"generate_timeout" koanf:"generate_timeout"`
	RequestsPerMinute int           `yaml:"requests_per_minute" koanf:"requests_per_minute"`

	Include []string `yaml:"include" koanf:"include"`
	Exclude []string `yaml:"exclude" koanf:"exclude"`

	LogLevel  string `yaml:"log_level" koanf:"log_level"`
	LogFormat string `yaml:"log_format" koanf:"log_format"`

	Port            int  `yaml:"port" koanf:"port"`
	AllowAllOrigins bool `yaml:"allow_all_origins" koanf:"allow_all_origins"`
}
