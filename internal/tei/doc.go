// Package tei walks the teiHeader subtree of an XML/TEI document and
// turns its irregular markup into flat, sequence-tagged header fields
// ready for relational storage. It also writes reconciled metadata
// back out as an amended copy of the source document.
//
// The walk is tolerant by design: TEI in the wild nests the same
// semantic content in many shapes, so the extractor records every
// path/value pair it finds and leaves interpretation to the typed
// item builders downstream.
package tei
