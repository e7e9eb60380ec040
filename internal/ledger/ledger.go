// Package ledger persists one study bundle per subject plus a history of
// ingestion attempts.
package ledger

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ziadkadry99/flashlearn/internal/apperr"
	"github.com/ziadkadry99/flashlearn/internal/db"
	"github.com/ziadkadry99/flashlearn/internal/materials"
)

// Subject is the ledger entry for one subject.
type Subject struct {
	Name string `json:"name"`
	materials.Bundle
	IngestionID string    `json:"ingestion_id"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Store reads and writes the subjects table. Writes are last-writer-wins.
type Store struct {
	db *db.DB
}

// NewStore creates a new ledger store.
func NewStore(d *db.DB) *Store {
	return &Store{db: d}
}

// Upsert creates or replaces the bundle stored for subject.
func (s *Store) Upsert(ctx context.Context, subject string, bundle materials.Bundle, ingestionID string) error {
	quizJSON, err := encodeList(bundle.Quiz)
	if err != nil {
		return fmt.Errorf("marshaling quiz: %w", err)
	}
	cardsJSON, err := encodeList(bundle.Flashcards)
	if err != nil {
		return fmt.Errorf("marshaling flashcards: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO subjects (name, summary, quiz, flashcards, ingestion_id, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET
		   summary=excluded.summary, quiz=excluded.quiz, flashcards=excluded.flashcards,
		   ingestion_id=excluded.ingestion_id, updated_at=excluded.updated_at`,
		subject, bundle.Summary, quizJSON, cardsJSON, ingestionID, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("upserting subject %q: %w", subject, err)
	}
	return nil
}

const subjectColumns = `name, summary, quiz, flashcards, ingestion_id, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSubject(row rowScanner) (*Subject, error) {
	var (
		sub       Subject
		quizJSON  string
		cardsJSON string
	)
	if err := row.Scan(&sub.Name, &sub.Summary, &quizJSON, &cardsJSON, &sub.IngestionID, &sub.UpdatedAt); err != nil {
		return nil, err
	}
	if err := decodeList(quizJSON, &sub.Quiz); err != nil {
		return nil, fmt.Errorf("unmarshaling quiz of %q: %w", sub.Name, err)
	}
	if err := decodeList(cardsJSON, &sub.Flashcards); err != nil {
		return nil, fmt.Errorf("unmarshaling flashcards of %q: %w", sub.Name, err)
	}
	sub.Normalize()
	return &sub, nil
}

// Get returns the entry for subject, or a SubjectNotFound error.
func (s *Store) Get(ctx context.Context, subject string) (*Subject, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+subjectColumns+` FROM subjects WHERE name = ?`, subject)
	sub, err := scanSubject(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.SubjectNotFound(subject)
	}
	if err != nil {
		return nil, fmt.Errorf("getting subject %q: %w", subject, err)
	}
	return sub, nil
}

// List returns every subject ordered by name. The result comes from a
// single statement and so reflects one consistent snapshot.
func (s *Store) List(ctx context.Context) ([]Subject, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+subjectColumns+` FROM subjects ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("listing subjects: %w", err)
	}
	defer rows.Close()

	result := []Subject{}
	for rows.Next() {
		sub, err := scanSubject(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning subject: %w", err)
		}
		result = append(result, *sub)
	}
	return result, rows.Err()
}

// encodeList serializes a list as canonical JSON; nil becomes "[]".
func encodeList[T any](items []T) (string, error) {
	if items == nil {
		items = []T{}
	}
	out, err := json.Marshal(items)
	return string(out), err
}

// decodeList is the inverse of encodeList; an empty column is an empty list.
func decodeList[T any](raw string, dst *[]T) error {
	if raw == "" {
		*dst = []T{}
		return nil
	}
	return json.Unmarshal([]byte(raw), dst)
}
