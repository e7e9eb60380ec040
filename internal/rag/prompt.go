package rag

import (
	"fmt"
	"strings"
)

// NoInformationAnswer is returned when a subject has no indexed passages.
const NoInformationAnswer = "I couldn't find any relevant information in the documents for this subject to answer your question."

// ContextSeparator joins retrieved passages in the answer prompt.
const ContextSeparator = "\n\n---\n\n"

const answerTemplate = `Based on the following context from the document, please answer the user's question.
If the context does not contain the answer, say so.

Context:
%s

Question:
%s

Answer:
`

// AnswerPrompt builds the question-answering prompt from passages ordered
// nearest first.
func AnswerPrompt(passages []string, question string) string {
	return fmt.Sprintf(answerTemplate, strings.Join(passages, ContextSeparator), question)
}
