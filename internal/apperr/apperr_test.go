package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOfWrapped(t *testing.T) {
	base := Wrap(errors.New("dial tcp: timeout"), KindEmbeddingUnavailable, "embedding service unavailable")
	wrapped := fmt.Errorf("ingest biology: %w", base)

	assert.Equal(t, KindEmbeddingUnavailable, KindOf(wrapped))
	assert.True(t, IsKind(wrapped, KindEmbeddingUnavailable))
	assert.False(t, IsKind(wrapped, KindInvalidInput))
	assert.Equal(t, http.StatusServiceUnavailable, base.HTTPStatus())
}

func TestUnclassifiedIsInternal(t *testing.T) {
	err := errors.New("disk full")
	assert.Equal(t, KindInternal, KindOf(err))
	assert.Equal(t, InternalMessage, PublicMessage(err))
}

func TestPublicMessageHidesCause(t *testing.T) {
	err := Wrap(errors.New("secret upstream detail"), KindGenerationUnavailable, "generation service unavailable")
	assert.Equal(t, "generation service unavailable", PublicMessage(err))
	assert.Contains(t, err.Error(), "secret upstream detail")
}

func TestStatusFor(t *testing.T) {
	tests := map[Kind]int{
		KindInvalidInput:          http.StatusBadRequest,
		KindUnsupportedFile:       http.StatusBadRequest,
		KindSubjectNotFound:       http.StatusNotFound,
		KindGenerationParse:       http.StatusUnprocessableEntity,
		KindEmbeddingUnavailable:  http.StatusServiceUnavailable,
		KindGenerationUnavailable: http.StatusServiceUnavailable,
		KindInternal:              http.StatusInternalServerError,
	}
	for kind, want := range tests {
		assert.Equal(t, want, StatusFor(kind), "kind %s", kind)
	}
}

func TestSubjectNotFoundMessage(t *testing.T) {
	err := SubjectNotFound("chemistry")
	assert.Equal(t, KindSubjectNotFound, err.Kind)
	assert.Contains(t, err.Message, "chemistry")
}
