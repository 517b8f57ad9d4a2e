// Package corpus locates document files on the local filesystem.
package corpus

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/obvil-labs/teiscope/internal/core/ports/driven"
)

// Reader expands glob patterns into document file paths.
type Reader struct{}

var _ driven.CorpusReader = (*Reader)(nil)

// NewReader returns a filesystem corpus reader.
func NewReader() *Reader {
	return &Reader{}
}

// Files returns the paths matching pattern, sorted for deterministic
// ingestion order. A pattern matching nothing yields an empty slice,
// not an error.
func (r *Reader) Files(pattern string) ([]string, error) {
	if pattern == "" {
		return nil, fmt.Errorf("empty corpus pattern")
	}
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("expanding corpus pattern %q: %w", pattern, err)
	}
	sort.Strings(matches)
	return matches, nil
}
