// Package materials generates and validates the per-subject study bundle:
// a summary, a multiple-choice quiz and a set of flashcards.
package materials

import (
	"fmt"
	"slices"
	"strings"
)

// OptionsPerQuestion is the number of choices every quiz item carries.
const OptionsPerQuestion = 4

// QuizItem is one multiple-choice question. Answer is one of Options.
type QuizItem struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Answer   string   `json:"answer"`
}

// Flashcard pairs a key term with its definition.
type Flashcard struct {
	Term       string `json:"term"`
	Definition string `json:"definition"`
}

// Bundle is the generated study material for one subject.
type Bundle struct {
	Summary    string      `json:"summary"`
	Quiz       []QuizItem  `json:"quiz"`
	Flashcards []Flashcard `json:"flashcards"`
}

// Normalize replaces nil lists with empty ones so they serialize as [].
func (b *Bundle) Normalize() {
	if b.Quiz == nil {
		b.Quiz = []QuizItem{}
	}
	if b.Flashcards == nil {
		b.Flashcards = []Flashcard{}
	}
}

// Validate checks the bundle's shape. Counts of quiz items and flashcards
// are requested from the model but not enforced.
func (b *Bundle) Validate() error {
	if strings.TrimSpace(b.Summary) == "" {
		return fmt.Errorf("summary is empty")
	}
	for i, q := range b.Quiz {
		if strings.TrimSpace(q.Question) == "" {
			return fmt.Errorf("quiz[%d]: question is empty", i)
		}
		if len(q.Options) != OptionsPerQuestion {
			return fmt.Errorf("quiz[%d]: expected %d options, got %d", i, OptionsPerQuestion, len(q.Options))
		}
		if !slices.Contains(q.Options, q.Answer) {
			return fmt.Errorf("quiz[%d]: answer %q is not one of the options", i, q.Answer)
		}
	}
	for i, f := range b.Flashcards {
		if strings.TrimSpace(f.Term) == "" || strings.TrimSpace(f.Definition) == "" {
			return fmt.Errorf("flashcards[%d]: term and definition are required", i)
		}
	}
	return nil
}
