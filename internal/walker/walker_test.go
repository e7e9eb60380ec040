package walker

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, root, rel string, data []byte) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, data, 0o644))
}

// newCourse lays out a small course directory.
func newCourse(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeFile(t, root, "01-intro.md", []byte("# Intro\n\nCells."))
	writeFile(t, root, "02-cells.txt", []byte("Cells divide."))
	writeFile(t, root, "lectures/03-dna.md", []byte("DNA is a helix."))
	writeFile(t, root, "slides/deck.pdf", []byte("%PDF-1.4\x00binary"))
	writeFile(t, root, "image.png", []byte("\x89PNG\x00\x00"))
	writeFile(t, root, "node_modules/pkg/readme.md", []byte("ignored"))
	writeFile(t, root, "drafts/wip.md", []byte("draft"))
	writeFile(t, root, ".gitignore", []byte("# comment\ndrafts/\n*.tmp\n"))
	writeFile(t, root, "scratch.tmp", []byte("tmp"))
	return root
}

func relPaths(files []FileInfo) []string {
	out := make([]string, len(files))
	for i, f := range files {
		out[i] = f.RelPath
	}
	return out
}

func TestWalk_DefaultIncludes(t *testing.T) {
	root := newCourse(t)

	files, err := Walk(WalkerConfig{
		RootDir: root,
		Include: []string{"**/*.txt", "**/*.md", "**/*.pdf"},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"01-intro.md", "02-cells.txt", "lectures/03-dna.md", "slides/deck.pdf"}, relPaths(files))
}

func TestWalk_FileInfoFields(t *testing.T) {
	root := newCourse(t)

	files, err := Walk(WalkerConfig{RootDir: root, Include: []string{"02-cells.txt"}})
	require.NoError(t, err)
	require.Len(t, files, 1)

	f := files[0]
	assert.True(t, filepath.IsAbs(f.Path))
	assert.Equal(t, "txt", f.Format)
	assert.Equal(t, int64(len("Cells divide.")), f.Size)
	assert.Len(t, f.ContentHash, 64)
}

func TestWalk_ExcludeFilter(t *testing.T) {
	root := newCourse(t)

	files, err := Walk(WalkerConfig{
		RootDir: root,
		Include: []string{"**/*.md"},
		Exclude: []string{"lectures/**"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"01-intro.md"}, relPaths(files))
}

func TestWalk_SkipsBinaryText(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "notes.txt", []byte("ok"))
	writeFile(t, root, "corrupt.txt", []byte("a\x00b"))

	files, err := Walk(WalkerConfig{RootDir: root})
	require.NoError(t, err)
	assert.Equal(t, []string{"notes.txt"}, relPaths(files))
}

func TestWalk_SkipsLargeAndEmptyFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "small.txt", []byte("small"))
	writeFile(t, root, "large.txt", make([]byte, 2048))
	writeFile(t, root, "empty.txt", nil)

	files, err := Walk(WalkerConfig{RootDir: root, MaxFileSize: 1024})
	require.NoError(t, err)
	assert.Equal(t, []string{"small.txt"}, relPaths(files))
}

func TestWalk_ContentHashConsistency(t *testing.T) {
	root := newCourse(t)

	first, err := Walk(WalkerConfig{RootDir: root})
	require.NoError(t, err)
	second, err := Walk(WalkerConfig{RootDir: root})
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestWalk_NotADirectory(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "notes.txt", []byte("x"))

	_, err := Walk(WalkerConfig{RootDir: filepath.Join(root, "notes.txt")})
	assert.Error(t, err)

	_, err = Walk(WalkerConfig{RootDir: filepath.Join(root, "missing")})
	assert.Error(t, err)
}

func TestFilter_Match(t *testing.T) {
	tests := []struct {
		name   string
		filter Filter
		path   string
		want   bool
	}{
		{"empty admits all", Filter{}, "anything.bin", true},
		{"top level", Filter{Include: []string{"*.md"}}, "notes.md", true},
		{"doublestar", Filter{Include: []string{"**/*.md"}}, "a/b/notes.md", true},
		{"basename fallback", Filter{Include: []string{"*.md"}}, "a/b/notes.md", true},
		{"not included", Filter{Include: []string{"*.md"}}, "notes.txt", false},
		{"excluded", Filter{Exclude: []string{"drafts/**"}}, "drafts/x.md", false},
		{"exclude elsewhere", Filter{Exclude: []string{"drafts/**"}}, "final/x.md", true},
		{"exclude wins", Filter{Include: []string{"**/*.md"}, Exclude: []string{"drafts/**"}}, "drafts/x.md", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.filter.Match(tt.path))
		})
	}
}

func TestSkipDir(t *testing.T) {
	assert.True(t, skipDir(".git"))
	assert.True(t, skipDir(".flashlearn"))
	assert.True(t, skipDir("__MACOSX"))
	assert.False(t, skipDir("lectures"))
}

func TestMatchesGitignore(t *testing.T) {
	patterns := []string{"drafts/", "*.tmp", "notes/private.md"}
	assert.True(t, matchesGitignore("drafts/wip.md", patterns))
	assert.False(t, matchesGitignore("drafts", patterns), "directory-only pattern ignores files")
	assert.True(t, matchesGitignore("a/b.tmp", patterns))
	assert.True(t, matchesGitignore("notes/private.md", patterns))
	assert.False(t, matchesGitignore("notes/public.md", patterns))
}
