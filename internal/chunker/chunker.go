// Package chunker splits document text into overlapping word windows.
package chunker

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// DefaultSize is the number of words per passage.
	DefaultSize = 500
	// DefaultOverlap is the number of words shared by adjacent passages.
	DefaultOverlap = 50
)

// ErrInvalidWindow is returned for a size/overlap pair that cannot advance.
var ErrInvalidWindow = errors.New("chunker: overlap must be non-negative and smaller than size")

// Chunker produces fixed-size word windows advancing by size-overlap words.
type Chunker struct {
	size    int
	overlap int
}

// New returns a Chunker, rejecting windows where overlap >= size.
func New(size, overlap int) (*Chunker, error) {
	if size <= 0 || overlap < 0 || overlap >= size {
		return nil, fmt.Errorf("%w (size=%d, overlap=%d)", ErrInvalidWindow, size, overlap)
	}
	return &Chunker{size: size, overlap: overlap}, nil
}

// Default returns a Chunker with DefaultSize and DefaultOverlap.
func Default() *Chunker {
	return &Chunker{size: DefaultSize, overlap: DefaultOverlap}
}

// Size returns the window size in words.
func (c *Chunker) Size() int { return c.size }

// Overlap returns the number of words shared by adjacent windows.
func (c *Chunker) Overlap() int { return c.overlap }

// Split returns the passages for text. Whitespace-only input yields none.
// Window i covers words [i*stride, i*stride+size) clipped to the end, and
// windows start at every multiple of stride below the word count, so the
// tail window may be shorter than the overlap.
func (c *Chunker) Split(text string) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	stride := c.size - c.overlap
	chunks := make([]string, 0, (len(words)+stride-1)/stride)
	for start := 0; start < len(words); start += stride {
		end := min(start+c.size, len(words))
		chunks = append(chunks, strings.Join(words[start:end], " "))
	}
	return chunks
}

// Split chunks text with the default window.
func Split(text string) []string {
	return Default().Split(text)
}
