package cli

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/obvil-labs/teiscope/internal/core/domain"
	"github.com/obvil-labs/teiscope/internal/core/ports/driving"
)

// fakePipeline implements every driving port with canned responses.
type fakePipeline struct {
	status  *driving.IngestStatus
	records []domain.EnrichedRecord
	err     error

	ingestedTag     string
	ingestedPattern string
	csvPath         string
	reportPath      string
	amendedDir      string
}

func (f *fakePipeline) ParseCorpus(_ context.Context, tag, pattern string) (*driving.IngestStatus, error) {
	f.ingestedTag = tag
	f.ingestedPattern = pattern
	return f.status, f.err
}

func (f *fakePipeline) EnrichAll(context.Context) ([]domain.EnrichedRecord, error) {
	return f.records, f.err
}

func (f *fakePipeline) EnrichDocument(_ context.Context, doc domain.Document) (*domain.EnrichedRecord, error) {
	if len(f.records) == 0 {
		return nil, f.err
	}
	return &f.records[0], f.err
}

func (f *fakePipeline) ExportCSV(path string, _ []domain.EnrichedRecord) error {
	f.csvPath = path
	return f.err
}

func (f *fakePipeline) SaveReport(path string, _ []domain.EnrichedRecord) error {
	f.reportPath = path
	return f.err
}

func (f *fakePipeline) WriteAmended(outputDir string, _ []domain.EnrichedRecord) error {
	f.amendedDir = outputDir
	return f.err
}

func withFake(t *testing.T, fake *fakePipeline) *bytes.Buffer {
	t.Helper()
	SetServices(fake, fake, fake)
	buf := &bytes.Buffer{}
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	t.Cleanup(func() {
		SetServices(nil, nil, nil)
		rootCmd.SetArgs(nil)
		flagOutputDir = ""
	})
	return buf
}

func TestIngestCommand(t *testing.T) {
	fake := &fakePipeline{status: &driving.IngestStatus{RunID: "run-1", Documents: 3, Errors: 1}}
	buf := withFake(t, fake)

	rootCmd.SetArgs([]string{"ingest", "frantext", "/data/*.xml"})
	require.NoError(t, rootCmd.Execute())

	assert.Equal(t, "frantext", fake.ingestedTag)
	assert.Equal(t, "/data/*.xml", fake.ingestedPattern)
	assert.Contains(t, buf.String(), "3 documents ingested, 1 errors")
}

func TestIngestCommandRequiresPattern(t *testing.T) {
	fake := &fakePipeline{status: &driving.IngestStatus{}}
	withFake(t, fake)

	rootCmd.SetArgs([]string{"ingest", "unknown-corpus"})
	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no pattern configured")
}

func TestEnrichCommand(t *testing.T) {
	fake := &fakePipeline{records: []domain.EnrichedRecord{{DocumentPath: "a.xml"}}}
	buf := withFake(t, fake)
	outDir := filepath.Join(t.TempDir(), "out")

	rootCmd.SetArgs([]string{"enrich", "--output", outDir})
	require.NoError(t, rootCmd.Execute())

	assert.Equal(t, outDir, fake.amendedDir)
	assert.Contains(t, buf.String(), "Enriched 1 documents")
}

func TestExportCommand(t *testing.T) {
	fake := &fakePipeline{records: []domain.EnrichedRecord{{DocumentPath: "a.xml"}}}
	buf := withFake(t, fake)

	rootCmd.SetArgs([]string{"export", "out.csv"})
	require.NoError(t, rootCmd.Execute())

	assert.Equal(t, "out.csv", fake.csvPath)
	assert.Contains(t, buf.String(), "Exported 1 records")
}

func TestReportCommand(t *testing.T) {
	fake := &fakePipeline{records: []domain.EnrichedRecord{{DocumentPath: "a.xml"}}}
	buf := withFake(t, fake)

	rootCmd.SetArgs([]string{"report", "report.yaml"})
	require.NoError(t, rootCmd.Execute())

	assert.Equal(t, "report.yaml", fake.reportPath)
	assert.Contains(t, buf.String(), "Wrote report")
}

func TestReconciliationFailureSurfaces(t *testing.T) {
	fake := &fakePipeline{err: errors.New("schema mismatch")}
	withFake(t, fake)

	rootCmd.SetArgs([]string{"export", "out.csv"})
	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schema mismatch")
}

func TestVersionCommand(t *testing.T) {
	fake := &fakePipeline{}
	buf := withFake(t, fake)

	rootCmd.SetArgs([]string{"version"})
	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, buf.String(), "teiscope version")
}
