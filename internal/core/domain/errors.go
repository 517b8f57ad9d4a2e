package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrMalformedDocument indicates a source file could not be
	// parsed as XML. The whole document is skipped.
	ErrMalformedDocument = errors.New("malformed document")

	// ErrNoHeader indicates the document has no teiHeader subtree.
	ErrNoHeader = errors.New("header subtree missing")

	// ErrSchemaMismatch indicates the database does not contain the
	// expected tables. Fatal on the read path: reconciliation over a
	// foreign schema would be meaningless.
	ErrSchemaMismatch = errors.New("database schema mismatch")

	// ErrMissingArgument indicates an internal operation was invoked
	// without a required parameter. A programming-contract violation:
	// fail loudly, never skip.
	ErrMissingArgument = errors.New("missing required argument")
)
