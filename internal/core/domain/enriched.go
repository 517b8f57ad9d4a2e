package domain

// AuthorRecord is one resolved author in an enriched record.
type AuthorRecord struct {
	// Raw is the selected textual rendering of the name.
	Raw string `yaml:"author,omitempty"`

	FirstName string `yaml:"first_name_or_initials,omitempty"`
	LastName  string `yaml:"last_name,omitempty"`
	Birth     string `yaml:"birth,omitempty"`
	Death     string `yaml:"death,omitempty"`
	Role      string `yaml:"role,omitempty"`

	// Key is the authority identifier; after a cross-fingerprint
	// collapse it is the comma-joined union of the folded records'
	// keys.
	Key string `yaml:"key,omitempty"`

	// AlphaKey is the fingerprint the record was resolved under.
	AlphaKey string `yaml:"alpha_key,omitempty"`

	// IsReconciliated is false when the fingerprint was ambiguous and
	// the document's own raw record was kept unmerged.
	IsReconciliated bool `yaml:"is_reconciliated"`

	// AgeAtPublication is the author's age at the document's nominal
	// publication date, when both are resolvable and plausible.
	AgeAtPublication *int `yaml:"age_at_publication,omitempty"`

	// Corpus-wide ordering inputs, not part of the exported record.
	Freq  int   `yaml:"-"`
	MinID int64 `yaml:"-"`
}

// EnrichedRecord is the reconciled, per-document output of the
// reconciliation engine.
type EnrichedRecord struct {
	// DocumentPath identifies the source document.
	DocumentPath string `yaml:"document"`

	// Authors maps positional keys ("author_1", "author_2", ...) to
	// the resolved authors, ordered by corpus-wide frequency then
	// earliest insertion.
	Authors map[string]AuthorRecord `yaml:"authors,omitempty"`

	// Date is the nominal publication year, "YYYY" or a partial form
	// with placeholder characters.
	Date string `yaml:"date,omitempty"`

	// Title is the concatenated, deduplicated title.
	Title string `yaml:"title,omitempty"`

	// Dewey is the classification text joined from the lookup file.
	Dewey string `yaml:"dewey,omitempty"`

	// Score is the metadata comprehensiveness score, in [0, 1).
	Score float64 `yaml:"meta-data_comprehensiveness_score"`
}
