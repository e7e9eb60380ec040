package materials

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ParseError reports model output that does not contain a valid bundle.
type ParseError struct {
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parse generated materials: %s: %v", e.Reason, e.Err)
	}
	return "parse generated materials: " + e.Reason
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Parse extracts a Bundle from raw model output. Markdown code fences are
// dropped, decoding starts at the first '{', and anything after the first
// complete JSON value is ignored.
func Parse(raw string) (*Bundle, error) {
	text := strings.TrimSpace(raw)
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")

	start := strings.IndexByte(text, '{')
	if start < 0 {
		return nil, &ParseError{Reason: "no JSON object found in response"}
	}

	var b Bundle
	if err := json.NewDecoder(strings.NewReader(text[start:])).Decode(&b); err != nil {
		return nil, &ParseError{Reason: "invalid JSON", Err: err}
	}
	if err := b.Validate(); err != nil {
		return nil, &ParseError{Reason: "schema violation", Err: err}
	}
	b.Normalize()
	return &b, nil
}
