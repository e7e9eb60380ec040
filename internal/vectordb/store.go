package vectordb

import (
	"context"
	"errors"
)

// ErrDimensionMismatch is returned when a vector's width differs from the index's.
var ErrDimensionMismatch = errors.New("embedding dimension mismatch")

// PassageIndex stores embedded passages partitioned by subject.
type PassageIndex interface {
	// ReplaceSubject atomically swaps the subject's passages for the given
	// set. Readers of the subject observe either the old or the new set.
	// An empty set clears the subject.
	ReplaceSubject(ctx context.Context, subject string, passages []PassageInput) error

	// Query returns up to k passages of subject nearest to embedding,
	// most similar first. A subject with no passages yields an empty result.
	Query(ctx context.Context, subject string, embedding []float32, k int) ([]SearchResult, error)

	// Count returns the number of passages stored for subject.
	Count(ctx context.Context, subject string) int

	// Total returns the number of passages across all subjects.
	Total() int
}
