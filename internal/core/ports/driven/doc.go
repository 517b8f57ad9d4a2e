// Package driven defines the interfaces that core calls OUT to
// infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal
// architecture. Core services depend on these interfaces, and
// infrastructure adapters implement them.
//
// # Required Interfaces
//
//   - CorpusReader: locates the document files of a corpus
//   - RunStore, DocumentStore, ItemStore: metadata persistence
//   - PersonIndex: corpus-wide fingerprint queries for reconciliation
//   - SchemaChecker: read-path schema guard
//   - DeweyLookup: external classification lookup
//   - Scorer: record informativeness strategy
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
