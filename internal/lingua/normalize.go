// Package lingua normalises free-text strings extracted from TEI
// headers and parses person names and year dates into structured
// fields. All functions are pure: identical input yields identical
// output, independent of process state.
package lingua

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// NormalizeString canonically composes a string (NFC), collapses
// internal whitespace runs to single spaces and trims. Total on any
// string input.
func NormalizeString(s string) string {
	s = norm.NFC.String(strings.TrimSpace(s))
	return strings.Join(strings.Fields(s), " ")
}

// asciiFolder decomposes to NFKD and strips combining marks, so
// "é" → "e", "Ÿ" → "Y".
var asciiFolder = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))

// FoldASCII returns a lowercased, diacritic-free rendering of s.
// Runes that do not reduce to ASCII are dropped.
func FoldASCII(s string) string {
	folded, _, err := transform.String(asciiFolder, s)
	if err != nil {
		folded = s
	}

	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		if r < 128 {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}

// NormalizeGivenName reduces a first-name form to the shape used by
// fingerprint ambiguity detection: ASCII-folded, lowercased, hyphens
// and whitespace removed. Returns "" for forms that carry no usable
// signal (empty, or abbreviated initials containing '.').
func NormalizeGivenName(s string) string {
	folded := FoldASCII(s)
	folded = strings.ReplaceAll(folded, "-", "")
	folded = strings.Join(strings.Fields(folded), "")
	if folded == "" || strings.Contains(folded, ".") {
		return ""
	}
	return folded
}
