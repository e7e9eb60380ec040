package walker

import (
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// skippedDirs are never descended into. Hidden directories are skipped as well.
var skippedDirs = map[string]bool{
	"node_modules": true,
	"vendor":       true,
	"__pycache__":  true,
	"__macosx":     true,
	"$recycle.bin": true,
}

func skipDir(name string) bool {
	if strings.HasPrefix(name, ".") && name != "." {
		return true
	}
	return skippedDirs[strings.ToLower(name)]
}

// Filter decides which relative paths make it into a directory ingestion.
type Filter struct {
	Include []string
	Exclude []string
}

// Match reports whether relPath is included and not excluded. An empty
// include list admits everything.
func (f Filter) Match(relPath string) bool {
	rel := filepath.ToSlash(relPath)
	if len(f.Include) > 0 && !globAny(rel, f.Include) {
		return false
	}
	return !globAny(rel, f.Exclude)
}

// globAny matches each pattern against the full path and then the base
// name, so "*.md" also picks up nested notes.
func globAny(rel string, patterns []string) bool {
	base := path.Base(rel)
	for _, p := range patterns {
		p = filepath.ToSlash(p)
		if ok, err := doublestar.Match(p, rel); err == nil && ok {
			return true
		}
		if ok, err := doublestar.Match(p, base); err == nil && ok {
			return true
		}
	}
	return false
}
