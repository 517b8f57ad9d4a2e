package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMissingConfigFileStartsEmpty(t *testing.T) {
	s, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	_, ok := s.CorpusPattern("frantext")
	assert.False(t, ok)
	assert.Empty(t, s.Config().Database.Path)
}

func TestLoadParsesAllSections(t *testing.T) {
	dir := t.TempDir()
	content := `
[corpora]
frantext = "/data/frantext/*.xml"
theatre = "/data/theatre/**/*.xml"

[database]
path = "/data/metadata.db"

[dewey]
path = "/data/dewey.tsv"

[enrich]
output_dir = "/data/enriched"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0o600))

	s, err := NewConfigStore(dir)
	require.NoError(t, err)

	pattern, ok := s.CorpusPattern("frantext")
	require.True(t, ok)
	assert.Equal(t, "/data/frantext/*.xml", pattern)
	assert.Equal(t, "/data/metadata.db", s.Config().Database.Path)
	assert.Equal(t, "/data/dewey.tsv", s.Config().Dewey.Path)
	assert.Equal(t, "/data/enriched", s.Config().Enrich.OutputDir)
}

func TestSetCorpusPersists(t *testing.T) {
	dir := t.TempDir()

	s, err := NewConfigStore(dir)
	require.NoError(t, err)
	require.NoError(t, s.SetCorpus("frantext", "/data/frantext/*.xml"))

	reloaded, err := NewConfigStore(dir)
	require.NoError(t, err)
	pattern, ok := reloaded.CorpusPattern("frantext")
	require.True(t, ok)
	assert.Equal(t, "/data/frantext/*.xml", pattern)
}
