package driving

import (
	"context"

	"github.com/obvil-labs/teiscope/internal/core/domain"
)

// IngestStatus summarises one corpus ingest run.
type IngestStatus struct {
	RunID     string
	CorpusTag string

	// Documents is the number of documents stored.
	Documents int

	// Errors counts skipped documents and items.
	Errors int
}

// Ingestor parses a corpus and persists its header metadata.
type Ingestor interface {
	// ParseCorpus processes every file matching pattern under the
	// given corpus tag. Malformed documents are skipped, never fatal.
	ParseCorpus(ctx context.Context, corpusTag, pattern string) (*IngestStatus, error)
}

// Reconciler resolves author identities corpus-wide and produces the
// enriched per-document records.
type Reconciler interface {
	// EnrichAll runs the two corpus-wide passes, then resolves every
	// document. Fails fast when the store schema is not the expected
	// one.
	EnrichAll(ctx context.Context) ([]domain.EnrichedRecord, error)

	// EnrichDocument resolves a single document against precomputed
	// corpus state.
	EnrichDocument(ctx context.Context, doc domain.Document) (*domain.EnrichedRecord, error)
}

// Exporter writes enriched records to downstream formats.
type Exporter interface {
	// ExportCSV writes one row per enriched record.
	ExportCSV(path string, records []domain.EnrichedRecord) error

	// SaveReport writes a YAML reconciliation report.
	SaveReport(path string, records []domain.EnrichedRecord) error

	// WriteAmended copies each source document into outputDir with the
	// enriched metadata block appended to its header.
	WriteAmended(outputDir string, records []domain.EnrichedRecord) error
}
