package corpus

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilesSortsMatches(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.xml", "a.xml", "c.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("<TEI/>"), 0o644))
	}

	r := NewReader()
	files, err := r.Files(filepath.Join(dir, "*.xml"))
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.xml"),
		filepath.Join(dir, "b.xml"),
	}, files)
}

func TestFilesNoMatchesIsNotAnError(t *testing.T) {
	r := NewReader()
	files, err := r.Files(filepath.Join(t.TempDir(), "*.xml"))
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestFilesEmptyPattern(t *testing.T) {
	r := NewReader()
	_, err := r.Files("")
	assert.Error(t, err)
}
