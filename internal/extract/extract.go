// Package extract turns uploaded study documents into plain text.
package extract

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/ziadkadry99/flashlearn/internal/apperr"
)

// Extractor returns the plain text of a document.
type Extractor interface {
	Extract(filename string, data []byte) (string, error)
}

// Supported lists the accepted file extensions.
var Supported = []string{".txt", ".md", ".pdf"}

// FileExtractor dispatches on the file extension.
type FileExtractor struct{}

// New returns the default extractor.
func New() *FileExtractor { return &FileExtractor{} }

// IsSupported reports whether filename has an accepted extension.
func IsSupported(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, s := range Supported {
		if ext == s {
			return true
		}
	}
	return false
}

// Extract returns the text of data. Unknown extensions fail with
// KindUnsupportedFile and documents with no text with KindInvalidInput.
func (FileExtractor) Extract(filename string, data []byte) (string, error) {
	var (
		out string
		err error
	)
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".txt":
		out, err = plainText(data)
	case ".md":
		out = markdownText(data)
	case ".pdf":
		out, err = pdfText(data)
	default:
		return "", apperr.New(apperr.KindUnsupportedFile, "unsupported file type %q, expected one of %s", filepath.Ext(filename), strings.Join(Supported, ", "))
	}
	if err != nil {
		return "", apperr.Wrap(err, apperr.KindInvalidInput, "could not read the file")
	}
	out = strings.TrimSpace(out)
	if out == "" {
		return "", apperr.InvalidInput("could not extract any text from the file")
	}
	return out, nil
}

func plainText(data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", fmt.Errorf("file is not valid UTF-8")
	}
	return string(data), nil
}

// markdownText keeps the readable text of a markdown document and drops
// its markup.
func markdownText(src []byte) string {
	doc := goldmark.New().Parser().Parse(text.NewReader(src))

	var b strings.Builder
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			if n.Type() == ast.TypeBlock {
				b.WriteString("\n")
			}
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Text:
			b.Write(node.Segment.Value(src))
			if node.SoftLineBreak() || node.HardLineBreak() {
				b.WriteString("\n")
			}
		case *ast.String:
			b.Write(node.Value)
		case *ast.CodeBlock, *ast.FencedCodeBlock:
			lines := n.Lines()
			for i := 0; i < lines.Len(); i++ {
				seg := lines.At(i)
				b.Write(seg.Value(src))
			}
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return b.String()
}

// pdfText extracts page text. The pdf reader panics on some malformed
// files, so panics are turned into errors.
func pdfText(data []byte) (out string, err error) {
	defer func() {
		if p := recover(); p != nil {
			out, err = "", fmt.Errorf("malformed pdf: %v", p)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("opening pdf: %w", err)
	}
	plain, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("reading pdf text: %w", err)
	}
	raw, err := io.ReadAll(plain)
	if err != nil {
		return "", fmt.Errorf("reading pdf text: %w", err)
	}
	return string(raw), nil
}
