package rag

import (
	"context"
	"fmt"
	"strings"

	"github.com/ziadkadry99/flashlearn/internal/apperr"
	"github.com/ziadkadry99/flashlearn/internal/llm"
	"github.com/ziadkadry99/flashlearn/internal/logger"
	"github.com/ziadkadry99/flashlearn/internal/vectordb"
)

// Retrieve returns the subject's passages nearest to question.
func (s *Service) Retrieve(ctx context.Context, subject, question string) ([]vectordb.SearchResult, error) {
	subject = strings.TrimSpace(subject)
	if subject == "" {
		return nil, apperr.InvalidInput("subject cannot be empty")
	}
	if strings.TrimSpace(question) == "" {
		return nil, apperr.InvalidInput("question cannot be empty")
	}

	vecs, err := s.embed(ctx, []string{question})
	if err != nil {
		return nil, err
	}

	results, err := s.index.Query(ctx, subject, vecs[0], s.topK)
	if err != nil {
		return nil, fmt.Errorf("querying passages of %q: %w", subject, err)
	}
	return results, nil
}

// Answer answers question from the subject's indexed passages. When the
// subject has no passages the model is not consulted and
// NoInformationAnswer is returned.
func (s *Service) Answer(ctx context.Context, subject, question string) (string, error) {
	ctx = logger.WithContext(ctx, logger.SubjectKey, strings.TrimSpace(subject))

	results, err := s.Retrieve(ctx, subject, question)
	if err != nil {
		return "", err
	}
	if len(results) == 0 {
		logger.Info(ctx, "no passages for subject, returning fallback answer")
		return NoInformationAnswer, nil
	}

	resp, err := s.complete(ctx, llm.CompletionRequest{
		Model:       s.model,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: AnswerPrompt(vectordb.Texts(results), question)}},
		MaxTokens:   2048,
		Temperature: 0.3,
	})
	if err != nil {
		logger.Error(ctx, "answer generation failed", err)
		return "", err
	}

	logger.Debug(ctx, "answered question", "passages", len(results), "output_tokens", resp.OutputTokens)
	return resp.Content, nil
}
