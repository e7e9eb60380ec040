package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ziadkadry99/flashlearn/internal/apperr"
)

func TestExtractText(t *testing.T) {
	out, err := New().Extract("notes.txt", []byte("  cells divide by mitosis \n"))
	require.NoError(t, err)
	assert.Equal(t, "cells divide by mitosis", out)
}

func TestExtractMarkdownDropsMarkup(t *testing.T) {
	src := "# Cells\n\nThe **nucleus** holds [DNA](https://example.com).\n\n- mitosis\n- meiosis\n\n```\ncode line\n```\n"
	out, err := New().Extract("Notes.MD", []byte(src))
	require.NoError(t, err)

	assert.Contains(t, out, "Cells")
	assert.Contains(t, out, "The nucleus holds DNA.")
	assert.Contains(t, out, "mitosis")
	assert.Contains(t, out, "meiosis")
	assert.Contains(t, out, "code line")
	assert.NotContains(t, out, "**")
	assert.NotContains(t, out, "#")
	assert.NotContains(t, out, "https://example.com")
}

func TestExtractUnsupported(t *testing.T) {
	_, err := New().Extract("slides.pptx", []byte("data"))
	require.Error(t, err)
	assert.Equal(t, apperr.KindUnsupportedFile, apperr.KindOf(err))
}

func TestExtractEmpty(t *testing.T) {
	_, err := New().Extract("empty.txt", []byte("   \n\t"))
	require.Error(t, err)
	assert.Equal(t, apperr.KindInvalidInput, apperr.KindOf(err))
}

func TestExtractInvalidUTF8(t *testing.T) {
	_, err := New().Extract("bad.txt", []byte{0xff, 0xfe, 0xfd})
	require.Error(t, err)
	assert.Equal(t, apperr.KindInvalidInput, apperr.KindOf(err))
}

func TestExtractBrokenPDF(t *testing.T) {
	_, err := New().Extract("broken.pdf", []byte("not a pdf"))
	require.Error(t, err)
	assert.Equal(t, apperr.KindInvalidInput, apperr.KindOf(err))
}

func TestIsSupported(t *testing.T) {
	assert.True(t, IsSupported("a.txt"))
	assert.True(t, IsSupported("a.PDF"))
	assert.True(t, IsSupported("dir/a.md"))
	assert.False(t, IsSupported("a.docx"))
	assert.False(t, IsSupported("noext"))
}
