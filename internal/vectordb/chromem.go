package vectordb

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"time"

	chromem "github.com/philippgille/chromem-go"

	"github.com/ziadkadry99/flashlearn/internal/embeddings"
	"github.com/ziadkadry99/flashlearn/internal/logger"
	"github.com/ziadkadry99/flashlearn/internal/metrics"
)

const collectionName = "passages"

const (
	metaSubject    = "subject"
	metaChunkIndex = "chunk_index"
	metaIngestedAt = "ingested_at"
)

// ChromemIndex implements PassageIndex using chromem-go.
type ChromemIndex struct {
	collection *chromem.Collection
	dims       int
	locks      *subjectLocks
}

// NewChromemIndex creates a ChromemIndex. With an empty dir the index lives
// in memory; otherwise every write is persisted under dir/vectordb.
// dims fixes the vector width; zero accepts the width of the first batch.
func NewChromemIndex(embedder embeddings.Embedder, dims int, dir string) (*ChromemIndex, error) {
	db := chromem.NewDB()
	if dir != "" {
		var err error
		db, err = chromem.NewPersistentDB(filepath.Join(dir, "vectordb"), true)
		if err != nil {
			return nil, fmt.Errorf("open persistent vector db: %w", err)
		}
	}

	col, err := db.GetOrCreateCollection(collectionName, nil, embedFunc(embedder))
	if err != nil {
		return nil, fmt.Errorf("create collection: %w", err)
	}

	return &ChromemIndex{
		collection: col,
		dims:       dims,
		locks:      newSubjectLocks(),
	}, nil
}

// embedFunc is only consulted for documents added without an embedding,
// which this index never does.
func embedFunc(e embeddings.Embedder) chromem.EmbeddingFunc {
	if e != nil {
		return embeddings.ChromemFunc(e)
	}
	return func(context.Context, string) ([]float32, error) {
		return nil, errors.New("no embedder configured")
	}
}

func (s *ChromemIndex) ReplaceSubject(ctx context.Context, subject string, passages []PassageInput) error {
	if subject == "" {
		return errors.New("subject is required")
	}
	if err := s.checkDims(passages); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	now := time.Now().UTC()
	docs := make([]chromem.Document, len(passages))
	for i, p := range passages {
		docs[i] = chromem.Document{
			ID:      PassageID(subject, i),
			Content: p.Text,
			Metadata: map[string]string{
				metaSubject:    subject,
				metaChunkIndex: strconv.Itoa(i),
				metaIngestedAt: now.Format(time.RFC3339),
			},
			Embedding: p.Embedding,
		}
	}

	lock := s.locks.get(subject)
	lock.Lock()
	defer lock.Unlock()

	// Once the swap starts it runs to completion even if the caller gives up.
	ctx = context.WithoutCancel(ctx)
	start := time.Now()
	defer metrics.ObserveIndex("replace_subject", start)

	previous := s.snapshot(ctx, subject)

	if err := s.collection.Delete(ctx, map[string]string{metaSubject: subject}, nil); err != nil {
		return fmt.Errorf("delete passages of %q: %w", subject, err)
	}
	if len(docs) == 0 {
		return nil
	}

	if err := s.collection.AddDocuments(ctx, docs, 4); err != nil {
		if rbErr := s.restore(ctx, subject, previous); rbErr != nil {
			logger.Error(ctx, "restoring passages after failed replace", rbErr, "subject", subject)
		}
		return fmt.Errorf("add passages of %q: %w", subject, err)
	}

	logger.Debug(ctx, "replaced subject passages", "subject", subject, "old", len(previous), "new", len(docs))
	return nil
}

// snapshot collects the subject's current passages by walking the
// contiguous id sequence subject_0, subject_1, ...
func (s *ChromemIndex) snapshot(ctx context.Context, subject string) []chromem.Document {
	var docs []chromem.Document
	for i := 0; ; i++ {
		doc, err := s.collection.GetByID(ctx, PassageID(subject, i))
		if err != nil {
			return docs
		}
		docs = append(docs, doc)
	}
}

func (s *ChromemIndex) restore(ctx context.Context, subject string, docs []chromem.Document) error {
	if err := s.collection.Delete(ctx, map[string]string{metaSubject: subject}, nil); err != nil {
		return err
	}
	if len(docs) == 0 {
		return nil
	}
	return s.collection.AddDocuments(ctx, docs, 4)
}

func (s *ChromemIndex) checkDims(passages []PassageInput) error {
	want := s.dims
	for i, p := range passages {
		if len(p.Embedding) == 0 {
			return fmt.Errorf("passage %d: %w: empty embedding", i, ErrDimensionMismatch)
		}
		if want == 0 {
			want = len(p.Embedding)
		}
		if len(p.Embedding) != want {
			return fmt.Errorf("passage %d: %w: got %d, want %d", i, ErrDimensionMismatch, len(p.Embedding), want)
		}
	}
	return nil
}

func (s *ChromemIndex) Query(ctx context.Context, subject string, embedding []float32, k int) ([]SearchResult, error) {
	if k <= 0 {
		return nil, fmt.Errorf("k must be positive, got %d", k)
	}
	if len(embedding) == 0 || (s.dims > 0 && len(embedding) != s.dims) {
		return nil, fmt.Errorf("query: %w: got %d, want %d", ErrDimensionMismatch, len(embedding), s.dims)
	}

	lock := s.locks.get(subject)
	lock.RLock()
	defer lock.RUnlock()
	defer metrics.ObserveIndex("query", time.Now())

	// chromem-go requires nResults <= collection size. Counting only this
	// subject's passages keeps the bound valid while other subjects are
	// being replaced concurrently.
	count := len(s.snapshot(ctx, subject))
	if count == 0 {
		return nil, nil
	}
	k = min(k, count)

	results, err := s.collection.QueryEmbedding(ctx, embedding, k, map[string]string{metaSubject: subject}, nil)
	if err != nil {
		return nil, fmt.Errorf("chromem query: %w", err)
	}

	out := make([]SearchResult, len(results))
	for i, r := range results {
		out[i] = SearchResult{
			Passage:    toPassage(r.ID, r.Content, r.Metadata),
			Similarity: r.Similarity,
		}
	}
	return out, nil
}

func (s *ChromemIndex) Count(ctx context.Context, subject string) int {
	lock := s.locks.get(subject)
	lock.RLock()
	defer lock.RUnlock()
	return len(s.snapshot(ctx, subject))
}

func (s *ChromemIndex) Total() int {
	return s.collection.Count()
}

func toPassage(id, content string, m map[string]string) Passage {
	idx, _ := strconv.Atoi(m[metaChunkIndex])
	ingestedAt, _ := time.Parse(time.RFC3339, m[metaIngestedAt])
	return Passage{
		ID:         id,
		Subject:    m[metaSubject],
		Text:       content,
		Index:      idx,
		IngestedAt: ingestedAt,
	}
}
