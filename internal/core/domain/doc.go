// Package domain defines the core business entities for teiscope.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: A parsed corpus document and its ingestion state
//   - HeaderFields: Flat semantic-path → ordered values mapping from a header walk
//   - Item: A tagged union of the recognised metadata kinds
//   - Person, Title, PublicationDate, Identifier: typed item payloads
//   - EnrichedRecord: The reconciled per-document output record
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
