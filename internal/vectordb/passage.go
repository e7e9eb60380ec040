package vectordb

import (
	"fmt"
	"time"
)

// PassageInput is a passage about to be written to the index.
type PassageInput struct {
	Text      string
	Embedding []float32
}

// Passage is a stored passage.
type Passage struct {
	ID         string
	Subject    string
	Text       string
	Index      int
	IngestedAt time.Time
}

// SearchResult pairs a passage with its cosine similarity to the query.
type SearchResult struct {
	Passage    Passage
	Similarity float32
}

// PassageID is the deterministic identifier of the index-th passage of subject.
func PassageID(subject string, index int) string {
	return fmt.Sprintf("%s_%d", subject, index)
}

// Texts returns the passage texts of results in order.
func Texts(results []SearchResult) []string {
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.Passage.Text
	}
	return out
}
