// Package rag ties chunking, embedding, the passage index, the subject
// ledger and the language model together into ingestion and
// question-answering operations.
package rag

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/ziadkadry99/flashlearn/internal/apperr"
	"github.com/ziadkadry99/flashlearn/internal/chunker"
	"github.com/ziadkadry99/flashlearn/internal/embeddings"
	"github.com/ziadkadry99/flashlearn/internal/ledger"
	"github.com/ziadkadry99/flashlearn/internal/llm"
	"github.com/ziadkadry99/flashlearn/internal/materials"
	"github.com/ziadkadry99/flashlearn/internal/metrics"
	"github.com/ziadkadry99/flashlearn/internal/vectordb"
)

// Options tunes a Service. Zero values fall back to the defaults below.
type Options struct {
	Chunker         *chunker.Chunker
	TopK            int
	Model           string
	EmbedTimeout    time.Duration
	GenerateTimeout time.Duration
}

const (
	defaultTopK            = 3
	defaultEmbedTimeout    = 30 * time.Second
	defaultGenerateTimeout = 2 * time.Minute
)

// Service implements subject ingestion and retrieval-augmented answering.
// A nil embedder or provider makes the dependent operations fail with the
// corresponding Unavailable error.
type Service struct {
	index     vectordb.PassageIndex
	ledger    *ledger.Store
	embedder  embeddings.Embedder
	provider  llm.Provider
	generator *materials.Generator

	chunker         *chunker.Chunker
	topK            int
	model           string
	embedTimeout    time.Duration
	generateTimeout time.Duration

	ingestMu    sync.Mutex
	ingestLocks map[string]*sync.Mutex
}

// NewService creates a Service.
func NewService(index vectordb.PassageIndex, store *ledger.Store, embedder embeddings.Embedder, provider llm.Provider, opts Options) *Service {
	s := &Service{
		index:           index,
		ledger:          store,
		embedder:        embedder,
		provider:        provider,
		chunker:         opts.Chunker,
		topK:            opts.TopK,
		model:           opts.Model,
		embedTimeout:    opts.EmbedTimeout,
		generateTimeout: opts.GenerateTimeout,
		ingestLocks:     make(map[string]*sync.Mutex),
	}
	if s.chunker == nil {
		s.chunker = chunker.Default()
	}
	if s.topK <= 0 {
		s.topK = defaultTopK
	}
	if s.embedTimeout <= 0 {
		s.embedTimeout = defaultEmbedTimeout
	}
	if s.generateTimeout <= 0 {
		s.generateTimeout = defaultGenerateTimeout
	}
	if provider != nil {
		s.generator = materials.NewGenerator(provider, opts.Model)
	}
	return s
}

// Subjects lists every subject in the ledger.
func (s *Service) Subjects(ctx context.Context) ([]ledger.Subject, error) {
	return s.ledger.List(ctx)
}

// Subject returns one subject's ledger entry.
func (s *Service) Subject(ctx context.Context, name string) (*ledger.Subject, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.InvalidInput("subject cannot be empty")
	}
	return s.ledger.Get(ctx, name)
}

// History returns recent ingestion attempts for a subject.
func (s *Service) History(ctx context.Context, name string, limit int) ([]ledger.Ingestion, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.InvalidInput("subject cannot be empty")
	}
	return s.ledger.ListIngestions(ctx, name, limit)
}

// Stats summarises what has been ingested so far.
type Stats struct {
	Subjects   int `json:"subjects"`
	Passages   int `json:"passages"`
	QuizItems  int `json:"quiz_items"`
	Flashcards int `json:"flashcards"`
}

// Stats counts subjects, indexed passages and generated study items.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	subjects, err := s.ledger.List(ctx)
	if err != nil {
		return Stats{}, err
	}
	st := Stats{Subjects: len(subjects), Passages: s.index.Total()}
	for _, sub := range subjects {
		st.QuizItems += len(sub.Quiz)
		st.Flashcards += len(sub.Flashcards)
	}
	return st, nil
}

// lockSubject serializes ingestions of the same subject.
func (s *Service) lockSubject(subject string) func() {
	s.ingestMu.Lock()
	m, ok := s.ingestLocks[subject]
	if !ok {
		m = &sync.Mutex{}
		s.ingestLocks[subject] = m
	}
	s.ingestMu.Unlock()

	m.Lock()
	return m.Unlock
}

// embed calls the embedding capability once for the whole batch.
func (s *Service) embed(ctx context.Context, texts []string) ([][]float32, error) {
	if s.embedder == nil {
		return nil, apperr.New(apperr.KindEmbeddingUnavailable, "no embedding service is configured")
	}

	ctx, cancel := context.WithTimeout(ctx, s.embedTimeout)
	defer cancel()

	start := time.Now()
	vecs, err := s.embedder.Embed(ctx, texts)
	if err == nil && len(vecs) != len(texts) {
		err = fmt.Errorf("got %d embeddings for %d texts", len(vecs), len(texts))
	}
	metrics.ObserveCapability("embed", s.embedder.Name(), start, err)
	if err != nil {
		return nil, apperr.Wrap(err, apperr.KindEmbeddingUnavailable, "the embedding service is unavailable")
	}
	return vecs, nil
}

// complete calls the generative capability with the generation timeout.
func (s *Service) complete(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	if s.provider == nil {
		return nil, apperr.New(apperr.KindGenerationUnavailable, "no generation service is configured")
	}

	ctx, cancel := context.WithTimeout(ctx, s.generateTimeout)
	defer cancel()

	start := time.Now()
	resp, err := s.provider.Complete(ctx, req)
	if err == nil && resp == nil {
		err = errors.New("empty completion response")
	}
	metrics.ObserveCapability("generate", s.provider.Name(), start, err)
	if err != nil {
		return nil, apperr.Wrap(err, apperr.KindGenerationUnavailable, "the generation service is unavailable")
	}
	recordTokens(s.provider.Name(), resp)
	return resp, nil
}

// generateMaterials asks the model for the subject's study bundle.
func (s *Service) generateMaterials(ctx context.Context, text string) (*materials.Result, error) {
	if s.generator == nil {
		return nil, apperr.New(apperr.KindGenerationUnavailable, "no generation service is configured")
	}

	ctx, cancel := context.WithTimeout(ctx, s.generateTimeout)
	defer cancel()

	start := time.Now()
	res, err := s.generator.Generate(ctx, text)
	var parseErr *materials.ParseError
	switch {
	case errors.As(err, &parseErr):
		metrics.ObserveCapability("generate", s.provider.Name(), start, nil)
		return nil, apperr.Wrap(err, apperr.KindGenerationParse, "the generated study materials could not be parsed")
	case err != nil:
		metrics.ObserveCapability("generate", s.provider.Name(), start, err)
		return nil, apperr.Wrap(err, apperr.KindGenerationUnavailable, "the generation service is unavailable")
	}
	metrics.ObserveCapability("generate", s.provider.Name(), start, nil)
	recordTokens(s.provider.Name(), res.Response)
	return res, nil
}

func recordTokens(provider string, resp *llm.CompletionResponse) {
	if resp == nil {
		return
	}
	metrics.LLMTokensUsed.WithLabelValues(provider, "prompt").Add(float64(resp.InputTokens))
	metrics.LLMTokensUsed.WithLabelValues(provider, "completion").Add(float64(resp.OutputTokens))
}
