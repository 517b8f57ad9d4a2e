// Package dewey loads the ARK-to-Dewey classification lookup from a
// tab-separated file. The whole table is read once into memory.
package dewey

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/obvil-labs/teiscope/internal/core/ports/driven"
	"github.com/obvil-labs/teiscope/internal/lingua"
)

// Table maps ARK identifiers to classification text.
type Table struct {
	byArk map[string]string
}

var _ driven.DeweyLookup = (*Table)(nil)

// Load reads the tab-separated file at path. The first column is the
// ARK, the remaining columns are joined into the classification text.
// Rows without at least two columns are skipped.
func Load(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening dewey file: %w", err)
	}
	defer f.Close()

	byArk := make(map[string]string)
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		fields := strings.Split(scanner.Text(), "\t")
		if len(fields) < 2 {
			continue
		}
		ark := strings.TrimSpace(fields[0])
		if ark == "" {
			continue
		}
		byArk[ark] = lingua.NormalizeString(strings.Join(fields[1:], " - "))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading dewey file: %w", err)
	}
	return &Table{byArk: byArk}, nil
}

// Empty returns a lookup with no entries, used when no classification
// file is configured.
func Empty() *Table {
	return &Table{byArk: map[string]string{}}
}

// Classification returns the text for ark, if known.
func (t *Table) Classification(ark string) (string, bool) {
	text, ok := t.byArk[ark]
	return text, ok
}

// Len reports the number of loaded entries.
func (t *Table) Len() int {
	return len(t.byArk)
}
