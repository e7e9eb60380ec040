package rag

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/ziadkadry99/flashlearn/internal/apperr"
	"github.com/ziadkadry99/flashlearn/internal/ledger"
	"github.com/ziadkadry99/flashlearn/internal/llm"
	"github.com/ziadkadry99/flashlearn/internal/logger"
	"github.com/ziadkadry99/flashlearn/internal/materials"
	"github.com/ziadkadry99/flashlearn/internal/metrics"
	"github.com/ziadkadry99/flashlearn/internal/vectordb"
)

// Ingest indexes text as the subject's only document and regenerates its
// study bundle, returning the ledger entry as stored.
//
// Indexing and generation run concurrently. An indexing failure aborts the
// ingestion with nothing written. A generation failure leaves the new
// passages in place and the previous bundle untouched.
func (s *Service) Ingest(ctx context.Context, subject, text string) (*ledger.Subject, error) {
	subject = strings.TrimSpace(subject)
	if subject == "" {
		return nil, apperr.InvalidInput("subject cannot be empty")
	}
	if strings.TrimSpace(text) == "" {
		return nil, apperr.InvalidInput("document text cannot be empty")
	}

	ctx = logger.WithContext(ctx, logger.SubjectKey, subject)
	unlock := s.lockSubject(subject)
	defer unlock()

	rec := ledger.Ingestion{
		ID:        uuid.NewString(),
		Subject:   subject,
		Words:     len(strings.Fields(text)),
		StartedAt: time.Now().UTC(),
	}
	logger.Info(ctx, "ingesting document", "ingestion_id", rec.ID, "words", rec.Words)

	var (
		generated *materials.Result
		genErr    error
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := s.indexText(gctx, subject, text)
		rec.Passages = n
		return err
	})
	g.Go(func() error {
		generated, genErr = s.generateMaterials(gctx, text)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, s.fail(ctx, rec, "indexing failed", err)
	}
	if genErr != nil {
		return nil, s.fail(ctx, rec, "material generation failed", genErr)
	}
	rec.CostUSD = llm.UsageCost(s.model, generated.Response)

	if err := s.ledger.Upsert(ctx, subject, *generated.Bundle, rec.ID); err != nil {
		return nil, s.fail(ctx, rec, "saving materials failed", err)
	}
	entry, err := s.ledger.Get(ctx, subject)
	if err != nil {
		return nil, s.fail(ctx, rec, "reading back materials failed", err)
	}

	rec.Status = ledger.StatusSucceeded
	s.record(ctx, rec)
	metrics.IngestionsTotal.WithLabelValues(ledger.StatusSucceeded).Inc()
	metrics.PassagesIndexed.Observe(float64(rec.Passages))
	logger.Info(ctx, "ingestion complete",
		"ingestion_id", rec.ID,
		"passages", rec.Passages,
		"quiz_items", len(entry.Quiz),
		"flashcards", len(entry.Flashcards),
		"cost_usd", fmt.Sprintf("%.4f", rec.CostUSD),
	)
	return entry, nil
}

// indexText chunks, embeds and swaps in the subject's passages, returning
// how many were written.
func (s *Service) indexText(ctx context.Context, subject, text string) (int, error) {
	chunks := s.chunker.Split(text)
	if len(chunks) == 0 {
		logger.Warn(ctx, "document produced no passages")
		return 0, nil
	}

	vecs, err := s.embed(ctx, chunks)
	if err != nil {
		return 0, err
	}

	passages := make([]vectordb.PassageInput, len(chunks))
	for i, chunk := range chunks {
		passages[i] = vectordb.PassageInput{Text: chunk, Embedding: vecs[i]}
	}
	if err := s.index.ReplaceSubject(ctx, subject, passages); err != nil {
		return 0, fmt.Errorf("replacing passages: %w", err)
	}
	return len(passages), nil
}

func (s *Service) fail(ctx context.Context, rec ledger.Ingestion, msg string, err error) error {
	rec.Status = ledger.StatusFailed
	rec.ErrorKind = string(apperr.KindOf(err))
	s.record(ctx, rec)
	metrics.IngestionsTotal.WithLabelValues(ledger.StatusFailed).Inc()
	logger.Error(ctx, msg, err, "ingestion_id", rec.ID, "error_kind", rec.ErrorKind)
	return err
}

// record writes the ingestion history entry. History is best effort and
// never fails the ingestion itself.
func (s *Service) record(ctx context.Context, rec ledger.Ingestion) {
	rec.FinishedAt = time.Now().UTC()
	if err := s.ledger.RecordIngestion(context.WithoutCancel(ctx), rec); err != nil {
		logger.Warn(ctx, "recording ingestion history", "error", err.Error())
	}
}
