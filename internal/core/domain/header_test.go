package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitKey(t *testing.T) {
	tests := []struct {
		key       string
		parent    string
		tag       string
		attribute string
	}{
		{"#fileDesc#titleStmt#author", "#fileDesc#titleStmt", "author", "author"},
		{"#fileDesc#titleStmt#author:role", "#fileDesc#titleStmt", "author", "role"},
		{"#idno:type", "", "idno", "type"},
		{"#title", "", "title", "title"},
	}
	for _, tt := range tests {
		parent, tag, attribute := SplitKey(tt.key)
		assert.Equal(t, tt.parent, parent, tt.key)
		assert.Equal(t, tt.tag, tag, tt.key)
		assert.Equal(t, tt.attribute, attribute, tt.key)
	}
}

func TestTagOfKey(t *testing.T) {
	assert.Equal(t, "author", TagOfKey("#fileDesc#titleStmt#author"))
	assert.Equal(t, "author:role", TagOfKey("#fileDesc#titleStmt#author:role"))
	assert.Equal(t, "title", TagOfKey("#title"))
}

func TestHeaderFieldsMerge(t *testing.T) {
	a := make(HeaderFields)
	a.Add("#title", ValueAt{Seq: 1, Value: "Candide"})
	b := make(HeaderFields)
	b.Add("#title", ValueAt{Seq: 2, Value: "Zadig"})
	b.Add("#author", ValueAt{Seq: 3, Value: "Voltaire"})

	a.Merge(b)
	assert.Len(t, a["#title"], 2)
	assert.Len(t, a["#author"], 1)
}

func TestRowFirst(t *testing.T) {
	row := Row{"author": {"Voltaire", "Diderot"}}
	assert.Equal(t, "Voltaire", row.First("author"))
	assert.Equal(t, "", row.First("missing"))
}

func TestKindOfSemantic(t *testing.T) {
	assert.Equal(t, KindAuthor, KindOfSemantic("author"))
	assert.Equal(t, KindTitle, KindOfSemantic("title"))
	assert.Equal(t, KindDate, KindOfSemantic("date"))
	assert.Equal(t, KindIdentifier, KindOfSemantic("idno"))
	assert.Equal(t, KindOther, KindOfSemantic("publisher"))
}

func TestPersonReconcilable(t *testing.T) {
	assert.True(t, Person{LastName: "Diderot", Fingerprint: "diderotd"}.Reconcilable())
	assert.False(t, Person{Raw: "1784"}.Reconcilable())
	assert.False(t, Person{LastName: "Diderot"}.Reconcilable())
}
