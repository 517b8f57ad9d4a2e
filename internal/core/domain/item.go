package domain

// ItemKind identifies the recognised semantic kinds of header
// metadata. Anything else is carried as an Unrecognized raw field so
// no information is silently dropped.
type ItemKind int

const (
	// KindOther is an unrecognised semantic type.
	KindOther ItemKind = iota

	// KindAuthor is a person credited on the document.
	KindAuthor

	// KindTitle is a document or series title.
	KindTitle

	// KindDate is a publication date.
	KindDate

	// KindIdentifier is an external identifier (idno).
	KindIdentifier
)

// KindOfSemantic maps a semantic tag name to its item kind.
func KindOfSemantic(tag string) ItemKind {
	switch tag {
	case "author":
		return KindAuthor
	case "title":
		return KindTitle
	case "date":
		return KindDate
	case "idno":
		return KindIdentifier
	default:
		return KindOther
	}
}

// String returns the semantic tag name for the kind.
func (k ItemKind) String() string {
	switch k {
	case KindAuthor:
		return "author"
	case KindTitle:
		return "title"
	case KindDate:
		return "date"
	case KindIdentifier:
		return "idno"
	default:
		return "other"
	}
}

// Item is one metadata fact assembled from a single source XML
// element, tagged with its kind. Exactly one payload pointer is
// non-nil, matching Kind.
type Item struct {
	Kind ItemKind

	// OriginPath is the semantic path of the element's parent.
	OriginPath string

	// Seq is the sequence number of the source leaf.
	Seq int

	Person       *Person
	Title        *Title
	Date         *PublicationDate
	Identifier   *Identifier
	Unrecognized *RawField
}

// RawField preserves an unrecognised path/value pair for forward
// compatibility.
type RawField struct {
	Path      string
	Attribute string
	Value     string
}

// Person is a structured rendering of a free-text person name.
type Person struct {
	// ID is the database row id, zero before insertion.
	ID int64

	// Raw is the name string exactly as extracted. Always kept, even
	// when parsing fails.
	Raw string

	// FirstName holds the first name or initials.
	FirstName string

	// LastName is the isolated surname. Empty when the raw string
	// could not be parsed; such a person is storable but not
	// reconcilable.
	LastName string

	// Birth and Death are the raw year tokens, possibly with '.'
	// placeholder characters (e.g. "17.2").
	Birth string
	Death string

	// Role is the credited role, from the role attribute.
	Role string

	// Key is an authority-file identifier, from the key attribute.
	Key string

	// Fingerprint is the normalised reconciliation key: ASCII-folded,
	// lowercased, alpha-only last name plus first-name initials. It
	// is a deterministic pure function of Raw.
	Fingerprint string

	// Extra holds attributes that have no dedicated field.
	Extra map[string]string
}

// Reconcilable reports whether the person can take part in
// fingerprint reconciliation.
func (p Person) Reconcilable() bool {
	return p.LastName != "" && p.Fingerprint != ""
}

// Title is one title fact.
type Title struct {
	ID int64

	// Text is the title string.
	Text string

	// Level distinguishes e.g. series ("s") from volume ("a") titles.
	Level string
}

// Identifier is one external identifier fact.
type Identifier struct {
	ID int64

	// Value is the identifier string.
	Value string

	// Type tags the identifier; set to "url" when Value looks like an
	// HTTP URL.
	Type string
}

// FingerprintStat is the corpus-wide precedence information for one
// fingerprint: occurrence count and earliest-inserted row id.
type FingerprintStat struct {
	Count int
	MinID int64
}
