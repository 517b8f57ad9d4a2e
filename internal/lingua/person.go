package lingua

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/obvil-labs/teiscope/internal/core/domain"
)

// Pre-compiled expressions for person name parsing.
var (
	// alphaToken matches one word-like token of a name.
	alphaToken = regexp.MustCompile(`[\p{L}\p{N}_]+`)

	// particleDe strips the nobiliary particle "de" / "d'".
	particleDe = regexp.MustCompile(`(?i)\s+d[e'][\s,]+`)

	// nameStopwords strips honorifics before initials are computed.
	// The list is fixed; matching is case-insensitive and requires
	// surrounding whitespace.
	nameStopwords = regexp.MustCompile(`(?i)\s(?:mme|madame|monsieur|mister|mrs|abb[ée]|m\. de|comte de|prince)\s`)

	// yearToken matches a 4-character year window whose trailing two
	// positions may be placeholder dots, e.g. "1713" or "17.2".
	yearToken = regexp.MustCompile(`[0-9]{2}[0-9.]{2}`)

	// leadingLastName matches the comma-form surname: everything
	// before the first comma, digit or parenthesis.
	leadingLastName = regexp.MustCompile(`^[^,(0-9]*`)

	// firstNameRun matches the given-name run after the comma, up to
	// any year or parenthesised segment.
	firstNameRun = regexp.MustCompile(`^[^(,0-9]*`)
)

// NameInitials returns the lowercased first letters of each
// word-like token of name, after honorifics and nobiliary particles
// are removed and diacritics decomposed.
func NameInitials(name string) string {
	padded := " " + name + " "
	padded = nameStopwords.ReplaceAllString(padded, " ")
	padded = particleDe.ReplaceAllString(padded, " ")

	var b strings.Builder
	for _, tok := range alphaToken.FindAllString(padded, -1) {
		decomposed := norm.NFD.String(tok)
		for _, r := range decomposed {
			b.WriteRune(unicode.ToLower(r))
			break
		}
	}
	return b.String()
}

// Fingerprint computes the reconciliation key for a last name and a
// first-name field: ASCII-folded alpha-only last name concatenated
// with the first-name initials. Case- and diacritic-insensitive.
func Fingerprint(lastName, firstName string) string {
	folded := FoldASCII(lastName)
	var b strings.Builder
	for _, r := range folded {
		if r >= 'a' && r <= 'z' {
			b.WriteRune(r)
		}
	}
	last := b.String()
	if last == "" {
		return ""
	}
	return last + NameInitials(firstName)
}

// ParsePerson parses a free-text person rendering into structured
// fields. Two forms are recognised:
//
//  1. "Last, First (birth-death)" — comma-delimited, with an optional
//     parenthesised or trailing year pair;
//  2. "First Last" or bare "Last" — no comma; the trailing
//     whitespace-delimited token is taken as the last name.
//
// An input from which no last name can be isolated yields a Person
// carrying only the raw string: storable, not reconcilable.
func ParsePerson(raw string) domain.Person {
	p := domain.Person{Raw: raw}
	value := NormalizeString(raw)
	if value == "" {
		return p
	}

	var last, first string
	if comma := strings.Index(value, ","); comma >= 0 {
		last = strings.TrimSpace(leadingLastName.FindString(value[:comma]))
		first = strings.TrimSpace(firstNameRun.FindString(value[comma+1:]))
	} else {
		stripped := strings.TrimSpace(yearToken.ReplaceAllString(value, " "))
		stripped = strings.Trim(stripped, "()-– ")
		tokens := strings.Fields(stripped)
		switch {
		case len(tokens) == 0:
			// nothing to isolate
		case len(tokens) == 1:
			last = tokens[0]
		default:
			last = tokens[len(tokens)-1]
			first = strings.Join(tokens[:len(tokens)-1], " ")
		}
	}

	if last == "" {
		return p
	}

	years := yearToken.FindAllString(value, 2)
	if len(years) > 0 {
		p.Birth = years[0]
	}
	if len(years) > 1 {
		p.Death = years[1]
	}

	p.FirstName = first
	p.LastName = last
	p.Fingerprint = Fingerprint(last, first)
	return p
}
