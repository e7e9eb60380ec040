package vectordb

import (
	"fmt"
	"strings"
)

// FormatResults renders search results as human-readable text.
func FormatResults(results []SearchResult) string {
	if len(results) == 0 {
		return "No passages found."
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Found %d passage(s):\n\n", len(results))
	for i, r := range results {
		fmt.Fprintf(&sb, "--- Passage %d (%s, similarity: %.4f) ---\n", i+1, r.Passage.ID, r.Similarity)
		sb.WriteString(r.Passage.Text)
		sb.WriteString("\n\n")
	}
	return sb.String()
}
