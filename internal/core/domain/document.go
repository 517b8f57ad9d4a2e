package domain

import "time"

// Document represents one source file of the corpus.
// A row is created on first parse and never deleted; reconciliation
// only reads it and writes derived output elsewhere.
type Document struct {
	// ID is the database row id, assigned on insertion.
	ID int64

	// Path is the source file path. It is the document's natural
	// identity: one row per source file.
	Path string

	// CorpusTag labels the corpus the document came from.
	CorpusTag string

	// Ark is the persistent ARK identifier extracted from the header,
	// if any. Used to join against the Dewey classification lookup.
	Ark string

	// BodyParsed records whether a well-formed text body was found.
	BodyParsed bool

	// Body metrics, zero when the body was missing or ill-formed.
	Chars     int
	Words     int
	Sentences int

	// RunID links the document to the ingest run that created it.
	RunID string

	// CreatedAt is when the document was first parsed.
	CreatedAt time.Time
}

// Run records one ingest batch over a corpus.
type Run struct {
	// ID is a UUID assigned when the run starts.
	ID string

	// CorpusTag is the corpus the run processed.
	CorpusTag string

	StartedAt   time.Time
	CompletedAt time.Time

	// Documents is the number of documents stored.
	Documents int

	// Errors is the number of documents or items skipped.
	Errors int
}
