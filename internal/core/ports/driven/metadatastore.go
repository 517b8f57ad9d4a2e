package driven

import (
	"context"

	"github.com/obvil-labs/teiscope/internal/core/domain"
)

// RunStore persists ingest run bookkeeping.
type RunStore interface {
	// BeginRun records the start of an ingest run.
	BeginRun(ctx context.Context, run *domain.Run) error

	// CompleteRun records the end of a run with its final counters.
	CompleteRun(ctx context.Context, run *domain.Run) error
}

// DocumentStore persists document rows. Documents are created once
// during ingestion and never deleted.
type DocumentStore interface {
	// SaveDocument inserts the document (or returns the existing row
	// for the same path) and yields its row id.
	SaveDocument(ctx context.Context, doc *domain.Document) (int64, error)

	// GetDocument retrieves a document by its path identity.
	GetDocument(ctx context.Context, path string) (*domain.Document, error)

	// ListDocuments returns every document of the corpus.
	ListDocuments(ctx context.Context) ([]domain.Document, error)
}

// ItemStore upserts typed metadata items and their document joins.
//
// Every upsert treats the item's whole field set as a natural key:
// identical content collapses to one base row, and the join row is
// unique per (document, item, origin path) triple. Implementations
// must serialise each check-then-insert, e.g. in a transaction.
type ItemStore interface {
	UpsertPerson(ctx context.Context, docID int64, originPath string, p domain.Person) (int64, error)
	UpsertTitle(ctx context.Context, docID int64, originPath string, t domain.Title) (int64, error)
	UpsertDate(ctx context.Context, docID int64, originPath string, d domain.PublicationDate) (int64, error)
	UpsertIdentifier(ctx context.Context, docID int64, originPath string, id domain.Identifier) (int64, error)

	// Read path, used by reconciliation.
	AuthorsForDocument(ctx context.Context, docID int64) ([]domain.Person, error)
	TitlesForDocument(ctx context.Context, docID int64) ([]domain.Title, error)
	DatesForDocument(ctx context.Context, docID int64) ([]domain.PublicationDate, error)
}

// PersonIndex answers the corpus-wide queries the reconciliation
// engine precomputes before any per-document resolution runs.
type PersonIndex interface {
	// FingerprintStats returns, per fingerprint, the corpus-wide
	// occurrence count and minimum row id.
	FingerprintStats(ctx context.Context) (map[string]domain.FingerprintStat, error)

	// GivenNamesByFingerprint returns the raw first-name forms seen
	// for each fingerprint, for ambiguity detection.
	GivenNamesByFingerprint(ctx context.Context) (map[string][]string, error)

	// PersonsByFingerprint returns every person row sharing a
	// fingerprint.
	PersonsByFingerprint(ctx context.Context, fingerprint string) ([]domain.Person, error)
}

// SchemaChecker verifies the database carries the expected tables.
// The reconciliation read path aborts on mismatch.
type SchemaChecker interface {
	CheckSchema(ctx context.Context) error
}

// DeweyLookup maps an ARK identifier to its classification text,
// loaded wholesale from an external tab-separated file.
type DeweyLookup interface {
	Classification(ark string) (string, bool)
}

// CorpusReader locates the document files of a corpus.
type CorpusReader interface {
	// Files expands a corpus location pattern into file paths.
	Files(pattern string) ([]string, error)
}

// Scorer measures how much structured information a record carries.
// Isolated behind an interface so the ordering logic of the
// reconciliation engine is independent of the concrete formula.
type Scorer interface {
	Score(v any) float64
}
