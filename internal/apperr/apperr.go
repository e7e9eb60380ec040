// Package apperr defines the error kinds surfaced by flashlearn operations
// and their mapping onto HTTP status codes.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error for callers.
type Kind string

const (
	KindInvalidInput          Kind = "invalid_input"
	KindUnsupportedFile       Kind = "unsupported_file"
	KindSubjectNotFound       Kind = "subject_not_found"
	KindEmbeddingUnavailable  Kind = "embedding_unavailable"
	KindGenerationUnavailable Kind = "generation_unavailable"
	KindGenerationParse       Kind = "generation_parse_error"
	KindInternal              Kind = "internal"
)

// Error is a classified error. Message is safe to show to clients; Err
// carries the underlying cause for logs.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// HTTPStatus returns the status code for the error kind.
func (e *Error) HTTPStatus() int {
	return StatusFor(e.Kind)
}

// New creates an error of the given kind.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap classifies err under kind with a client-facing message.
func Wrap(err error, kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// InvalidInput is shorthand for New(KindInvalidInput, ...).
func InvalidInput(format string, args ...any) *Error {
	return New(KindInvalidInput, format, args...)
}

// SubjectNotFound reports a missing ledger entry.
func SubjectNotFound(subject string) *Error {
	return New(KindSubjectNotFound, "subject %q not found", subject)
}

// KindOf returns the kind of the first *Error in err's chain, or
// KindInternal when err is unclassified.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// IsKind reports whether err is classified as kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

// StatusFor maps an error kind onto an HTTP status code.
func StatusFor(kind Kind) int {
	switch kind {
	case KindInvalidInput, KindUnsupportedFile:
		return http.StatusBadRequest
	case KindSubjectNotFound:
		return http.StatusNotFound
	case KindGenerationParse:
		return http.StatusUnprocessableEntity
	case KindEmbeddingUnavailable, KindGenerationUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// InternalMessage is shown to clients in place of unclassified errors.
const InternalMessage = "An internal server error occurred. Please try again later."

// PublicMessage returns the client-facing message for err. Unclassified
// errors never leak their text.
func PublicMessage(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Kind != KindInternal {
		return e.Message
	}
	return InternalMessage
}
