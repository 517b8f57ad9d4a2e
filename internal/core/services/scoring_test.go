package services

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/obvil-labs/teiscope/internal/core/domain"
)

func TestScoreLeavesAndMaps(t *testing.T) {
	s := NewScorer()

	assert.Equal(t, 1.0, s.Score("x"))
	assert.Equal(t, 0.0, s.Score(""))
	assert.Equal(t, 0.0, s.Score(nil))

	// One leaf under one map level: 1.5 * 1/(1.5+1).
	got := s.Score(map[string]any{"a": "x"})
	assert.InDelta(t, 1.5/2.5, got, 1e-9)

	// Nesting amplifies: 1.5 * 1.5 * 1/(3+1).
	got = s.Score(map[string]any{"a": map[string]any{"b": "x"}})
	assert.InDelta(t, 2.25/4, got, 1e-9)
}

func TestScoreGrowsWithPopulatedFields(t *testing.T) {
	s := NewScorer()

	sparse := s.Score(personMap(domain.Person{Raw: "Diderot", LastName: "Diderot"}))
	rich := s.Score(personMap(domain.Person{
		Raw: "Diderot, Denis (1713-1784)", FirstName: "Denis", LastName: "Diderot",
		Birth: "1713", Death: "1784", Key: "Diderot, Denis",
	}))
	assert.Greater(t, rich, sparse)
}

func TestComprehensivenessFormula(t *testing.T) {
	assert.Equal(t, 0.0, comprehensiveness(0))
	assert.Equal(t, 0.0, comprehensiveness(1))
	// At s = e, 1 - 1/(1+1) = 0.5.
	assert.InDelta(t, 0.5, comprehensiveness(math.E), 1e-9)
	// Small totals where the formula would go negative clamp to zero.
	assert.Equal(t, 0.0, comprehensiveness(0.5))
	// The score stays below one no matter the total.
	assert.Less(t, comprehensiveness(1e9), 1.0)
}

func TestComprehensivenessRoundsToTwoDecimals(t *testing.T) {
	got := comprehensiveness(10)
	assert.Equal(t, math.Round(got*100)/100, got)
	assert.Greater(t, got, 0.0)
}
