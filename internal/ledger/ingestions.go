package ledger

import (
	"context"
	"fmt"
	"time"
)

// Ingestion statuses.
const (
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"
)

// Ingestion records one ingestion attempt for a subject.
type Ingestion struct {
	ID         string    `json:"id"`
	Subject    string    `json:"subject"`
	Status     string    `json:"status"`
	Passages   int       `json:"passages"`
	Words      int       `json:"words"`
	ErrorKind  string    `json:"error_kind,omitempty"`
	CostUSD    float64   `json:"cost_usd"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

// RecordIngestion appends an ingestion attempt to the history.
func (s *Store) RecordIngestion(ctx context.Context, in Ingestion) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO ingestions (id, subject, status, passages, words, error_kind, cost_usd, started_at, finished_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		in.ID, in.Subject, in.Status, in.Passages, in.Words, in.ErrorKind, in.CostUSD,
		in.StartedAt.UTC(), in.FinishedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("recording ingestion %s: %w", in.ID, err)
	}
	return nil
}

// ListIngestions returns the most recent ingestion attempts for subject,
// newest first. A non-positive limit returns all of them.
func (s *Store) ListIngestions(ctx context.Context, subject string, limit int) ([]Ingestion, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, subject, status, passages, words, error_kind, cost_usd, started_at, finished_at
		 FROM ingestions WHERE subject = ? ORDER BY started_at DESC LIMIT ?`, subject, limit)
	if err != nil {
		return nil, fmt.Errorf("listing ingestions: %w", err)
	}
	defer rows.Close()

	result := []Ingestion{}
	for rows.Next() {
		var in Ingestion
		if err := rows.Scan(&in.ID, &in.Subject, &in.Status, &in.Passages, &in.Words,
			&in.ErrorKind, &in.CostUSD, &in.StartedAt, &in.FinishedAt); err != nil {
			return nil, fmt.Errorf("scanning ingestion: %w", err)
		}
		result = append(result, in)
	}
	return result, rows.Err()
}
