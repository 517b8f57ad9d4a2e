package services

import (
	"math"

	"github.com/obvil-labs/teiscope/internal/core/domain"
	"github.com/obvil-labs/teiscope/internal/core/ports/driven"
)

// scoreAlpha weights nested structure: each nesting level multiplies
// its subtree's contribution and deepens the leaf discount.
const scoreAlpha = 1.5

// InformativenessScorer measures how much structured information a
// nested record carries. Deep, well-populated records score higher
// than flat or sparse ones; empty values contribute nothing.
type InformativenessScorer struct{}

var _ driven.Scorer = InformativenessScorer{}

// NewScorer returns the default scorer.
func NewScorer() InformativenessScorer {
	return InformativenessScorer{}
}

// Score computes the informativeness of v. Maps recurse with
// amplification, non-empty leaves contribute 1/(depth+1).
func (InformativenessScorer) Score(v any) float64 {
	return informativeness(v, 0)
}

func informativeness(v any, depth float64) float64 {
	switch x := v.(type) {
	case nil:
		return 0
	case string:
		if x == "" {
			return 0
		}
		return 1 / (depth + 1)
	case map[string]any:
		var sum float64
		for _, child := range x {
			sum += informativeness(child, depth+scoreAlpha)
		}
		return scoreAlpha * sum
	default:
		return 1 / (depth + 1)
	}
}

// comprehensiveness converts an informativeness total into the
// exported score in [0, 1): round(1 - 1/(log(s) + 1), 2). Totals too
// small for the formula clamp to zero.
func comprehensiveness(s float64) float64 {
	if s <= 0 {
		return 0
	}
	denom := math.Log(s) + 1
	if denom <= 0 {
		return 0
	}
	c := 1 - 1/denom
	if c < 0 {
		return 0
	}
	return math.Round(c*100) / 100
}

// personMap renders a person's populated fields as a nested value for
// scoring, so the most informative record of a fingerprint wins.
func personMap(p domain.Person) map[string]any {
	m := make(map[string]any)
	put := func(k, v string) {
		if v != "" {
			m[k] = v
		}
	}
	put("author", p.Raw)
	put("first_name_or_initials", p.FirstName)
	put("last_name", p.LastName)
	put("birth", p.Birth)
	put("death", p.Death)
	put("role", p.Role)
	put("key", p.Key)
	for k, v := range p.Extra {
		put(k, v)
	}
	return m
}

// recordMap renders an enriched record as a nested value for the
// document-level comprehensiveness score.
func recordMap(r domain.EnrichedRecord) map[string]any {
	m := make(map[string]any)
	put := func(k, v string) {
		if v != "" {
			m[k] = v
		}
	}
	put("date", r.Date)
	put("title", r.Title)
	put("dewey", r.Dewey)

	for position, author := range r.Authors {
		m[position] = authorMap(author)
	}
	return m
}

// authorMap renders a resolved author's populated fields as a nested
// value for scoring.
func authorMap(a domain.AuthorRecord) map[string]any {
	m := make(map[string]any)
	put := func(k, v string) {
		if v != "" {
			m[k] = v
		}
	}
	put("author", a.Raw)
	put("first_name_or_initials", a.FirstName)
	put("last_name", a.LastName)
	put("birth", a.Birth)
	put("death", a.Death)
	put("role", a.Role)
	put("key", a.Key)
	put("alpha_key", a.AlphaKey)
	return m
}
