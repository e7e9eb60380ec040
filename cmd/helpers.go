package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
	"unicode/utf8"

	"github.com/ziadkadry99/flashlearn/internal/chunker"
	"github.com/ziadkadry99/flashlearn/internal/config"
	"github.com/ziadkadry99/flashlearn/internal/db"
	"github.com/ziadkadry99/flashlearn/internal/embeddings"
	"github.com/ziadkadry99/flashlearn/internal/ledger"
	"github.com/ziadkadry99/flashlearn/internal/llm"
	"github.com/ziadkadry99/flashlearn/internal/logger"
	"github.com/ziadkadry99/flashlearn/internal/rag"
	"github.com/ziadkadry99/flashlearn/internal/vectordb"
)

const (
	llmRetryAttempts = 3
	llmRetryBackoff  = 2 * time.Second
)

// createEmbedderFromConfig creates an embeddings.Embedder based on config.
func createEmbedderFromConfig(cfg *config.Config) (embeddings.Embedder, error) {
	switch cfg.EmbeddingProvider {
	case config.ProviderOpenAI, config.ProviderGoogle:
		envVar := config.APIKeyEnvVar(cfg.EmbeddingProvider)
		apiKey := os.Getenv(envVar)
		if apiKey == "" {
			return nil, fmt.Errorf("%s environment variable is required for %s embeddings", envVar, cfg.EmbeddingProvider)
		}
		if cfg.EmbeddingProvider == config.ProviderOpenAI {
			return embeddings.NewOpenAIEmbedder(apiKey, embeddings.OpenAIModel(cfg.EmbeddingModel), cfg.EmbeddingDimensions), nil
		}
		return embeddings.NewGoogleEmbedder(apiKey, embeddings.GoogleModel(cfg.EmbeddingModel), cfg.EmbeddingDimensions), nil
	case config.ProviderOllama:
		return embeddings.NewOllamaEmbedder(cfg.EmbeddingModel, cfg.EmbeddingDimensions, os.Getenv("OLLAMA_HOST")), nil
	default:
		return nil, fmt.Errorf("unsupported embedding provider %q", cfg.EmbeddingProvider)
	}
}

// createLLMProviderFromConfig creates an LLM provider that retries on
// throttling and stays under the configured request rate.
func createLLMProviderFromConfig(cfg *config.Config) (llm.Provider, error) {
	p, err := llm.NewProvider(string(cfg.Provider), cfg.Model)
	if err != nil {
		return nil, err
	}
	limited := llm.NewRateLimitedProvider(p, cfg.RequestsPerMinute)
	return llm.NewRetryingProvider(limited, llmRetryAttempts, llmRetryBackoff), nil
}

// loadConfig loads and validates the config and initialises logging.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `flashlearn init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cfgFile, err)
	}

	level := cfg.LogLevel
	if verbose {
		level = "debug"
	}
	logger.Init(level, cfg.LogFormat)
	return cfg, nil
}

// app bundles the service with the stores it owns.
type app struct {
	svc   *rag.Service
	db    *db.DB
	index *vectordb.ChromemIndex
}

func (a *app) Close() error { return a.db.Close() }

// openApp opens the passage index and subject ledger under cfg.DataDir and
// builds the service. Without capabilities no embedder or model is created,
// which is enough for read-only ledger commands.
func openApp(cfg *config.Config, withCapabilities bool) (*app, error) {
	ch, err := chunker.New(cfg.ChunkSize, cfg.ChunkOverlap)
	if err != nil {
		return nil, err
	}

	var (
		embedder embeddings.Embedder
		provider llm.Provider
	)
	dims := cfg.EmbeddingDimensions
	if withCapabilities {
		if embedder, err = createEmbedderFromConfig(cfg); err != nil {
			return nil, fmt.Errorf("creating embedder: %w", err)
		}
		if provider, err = createLLMProviderFromConfig(cfg); err != nil {
			return nil, fmt.Errorf("creating LLM provider: %w", err)
		}
		dims = embedder.Dimensions()
	}

	var database *db.DB
	if cfg.DataDir == "" {
		database, err = db.OpenMemory()
	} else {
		if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
			return nil, fmt.Errorf("creating data dir: %w", err)
		}
		database, err = db.Open(filepath.Join(cfg.DataDir, "ledger.db"))
	}
	if err != nil {
		return nil, fmt.Errorf("opening ledger: %w", err)
	}

	index, err := vectordb.NewChromemIndex(embedder, dims, cfg.DataDir)
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("opening passage index: %w", err)
	}

	svc := rag.NewService(index, ledger.NewStore(database), embedder, provider, rag.Options{
		Chunker:         ch,
		TopK:            cfg.RetrievalTopK,
		Model:           cfg.Model,
		EmbedTimeout:    cfg.EmbedTimeout,
		GenerateTimeout: cfg.GenerateTimeout,
	})
	return &app{svc: svc, db: database, index: index}, nil
}

// truncate shortens s to at most max runes, marking the cut with "...".
func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	n := 0
	for i := range s {
		if n == max {
			return s[:i] + "..."
		}
		n++
	}
	return s
}
