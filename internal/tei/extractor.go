package tei

import (
	"fmt"

	"github.com/beevik/etree"

	"github.com/obvil-labs/teiscope/internal/core/domain"
	"github.com/obvil-labs/teiscope/internal/lingua"
)

// HeaderTag is the element under the document root that carries the
// metadata subtree.
const HeaderTag = "teiHeader"

// rendition marks elements that exist purely for inline text styling.
// Such a branch is a pass-through: its tag does not join the path.
const renditionAttr = "rendition"

// LoadDocument parses an XML/TEI file with a permissive reader, so
// minor encoding trouble does not discard the whole document.
func LoadDocument(path string) (*etree.Document, error) {
	doc := etree.NewDocument()
	doc.ReadSettings.Permissive = true
	if err := doc.ReadFromFile(path); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrMalformedDocument, path, err)
	}
	return doc, nil
}

// FindHeader locates the teiHeader element immediately under the
// document root, ignoring namespace prefixes.
func FindHeader(doc *etree.Document) (*etree.Element, error) {
	root := doc.Root()
	if root == nil {
		return nil, domain.ErrMalformedDocument
	}
	for _, child := range root.ChildElements() {
		if child.Tag == HeaderTag {
			return child, nil
		}
	}
	return nil, domain.ErrNoHeader
}

// ExtractHeader walks the header subtree depth-first and returns the
// flat mapping from semantic path to ordered (sequence, value) pairs.
// The sequence counter is owned by this invocation: it starts at zero
// for every document and is never shared across calls.
func ExtractHeader(header *etree.Element) domain.HeaderFields {
	fields := make(domain.HeaderFields)
	seq := 0
	walk(header, "", fields, &seq)
	return fields
}

// walk visits the children of el. A child with child elements is a
// branch and is entered with the accumulated path; a child without is
// a leaf and is recorded together with its attributes under one
// sequence number.
func walk(el *etree.Element, path string, fields domain.HeaderFields, seq *int) {
	for _, child := range el.ChildElements() {
		if len(child.ChildElements()) > 0 {
			childPath := path + domain.PathSeparator + child.Tag
			if child.SelectAttr(renditionAttr) != nil {
				// Styling wrapper: keep the parent's path.
				childPath = path
			}
			walk(child, childPath, fields, seq)
			continue
		}

		text := lingua.NormalizeString(child.Text())
		if text == "" {
			continue
		}

		*seq++
		n := *seq

		key := path + domain.PathSeparator + child.Tag
		fields.Add(key, domain.ValueAt{Seq: n, Value: text})

		// Attribute facts of the same leaf share its sequence number,
		// so an idno and its type stay correlated.
		for _, attr := range child.Attr {
			if attr.Space == "xmlns" || attr.Key == "xmlns" {
				continue
			}
			value := lingua.NormalizeString(attr.Value)
			attrKey := key + domain.AttributeSeparator + attr.Key
			fields.Add(attrKey, domain.ValueAt{Seq: n, Value: value})
		}
	}
}
