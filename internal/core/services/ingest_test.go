package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/obvil-labs/teiscope/internal/adapters/driven/corpus"
	"github.com/obvil-labs/teiscope/internal/adapters/driven/storage/memory"
	"github.com/obvil-labs/teiscope/internal/core/domain"
)

const casanovaTEI = `<?xml version="1.0" encoding="UTF-8"?>
<TEI>
  <teiHeader>
    <fileDesc>
      <titleStmt>
        <title level="a">Tome 1</title>
        <title level="s">Histoire de ma vie</title>
        <author key="Casanova, Giacomo">Casanova, Giacomo (1725-1798)</author>
      </titleStmt>
      <publicationStmt>
        <idno type="ark">http://gallica.bnf.fr/ark:/12148/bpt6k123</idno>
        <date when="1826">1826</date>
      </publicationStmt>
    </fileDesc>
  </teiHeader>
  <text>
    <body>
      <p>Une phrase. Une autre phrase!</p>
    </body>
  </text>
</TEI>`

func writeFixture(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func newIngestHarness(t *testing.T) (*IngestService, *memory.Store, string) {
	t.Helper()
	store := memory.NewStore()
	dir := t.TempDir()
	svc := NewIngestService(store, store, store, corpus.NewReader())
	return svc, store, dir
}

func TestParseCorpusStoresTypedItems(t *testing.T) {
	svc, store, dir := newIngestHarness(t)
	path := writeFixture(t, dir, "casanova.xml", casanovaTEI)
	ctx := context.Background()

	status, err := svc.ParseCorpus(ctx, "frantext", filepath.Join(dir, "*.xml"))
	require.NoError(t, err)
	assert.Equal(t, 1, status.Documents)
	assert.Equal(t, 0, status.Errors)
	assert.NotEmpty(t, status.RunID)

	doc, err := store.GetDocument(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, "frantext", doc.CorpusTag)
	assert.Equal(t, "ark:/12148/bpt6k123", doc.Ark)
	assert.True(t, doc.BodyParsed)
	assert.Equal(t, 5, doc.Words)
	assert.Equal(t, 2, doc.Sentences)

	authors, err := store.AuthorsForDocument(ctx, doc.ID)
	require.NoError(t, err)
	require.Len(t, authors, 1)
	assert.Equal(t, "Casanova", authors[0].LastName)
	assert.Equal(t, "Giacomo", authors[0].FirstName)
	assert.Equal(t, "1725", authors[0].Birth)
	assert.Equal(t, "1798", authors[0].Death)
	assert.Equal(t, "casanovag", authors[0].Fingerprint)
	assert.Equal(t, "Casanova, Giacomo", authors[0].Key)

	titles, err := store.TitlesForDocument(ctx, doc.ID)
	require.NoError(t, err)
	assert.Len(t, titles, 2)

	dates, err := store.DatesForDocument(ctx, doc.ID)
	require.NoError(t, err)
	require.Len(t, dates, 1)
	assert.Equal(t, 1826, dates[0].Deduced)
	assert.Equal(t, "1826", dates[0].Edited)
}

func TestParseCorpusSkipsUnreadableDocuments(t *testing.T) {
	svc, _, dir := newIngestHarness(t)
	writeFixture(t, dir, "good.xml", casanovaTEI)
	writeFixture(t, dir, "empty.xml", "")

	status, err := svc.ParseCorpus(context.Background(), "frantext", filepath.Join(dir, "*.xml"))
	require.NoError(t, err)
	assert.Equal(t, 1, status.Documents)
	assert.Equal(t, 1, status.Errors)
}

func TestParseCorpusHeaderlessDocumentIsStored(t *testing.T) {
	svc, store, dir := newIngestHarness(t)
	path := writeFixture(t, dir, "bare.xml", `<TEI><text><body><p>Texte.</p></body></text></TEI>`)
	ctx := context.Background()

	status, err := svc.ParseCorpus(ctx, "frantext", filepath.Join(dir, "*.xml"))
	require.NoError(t, err)
	assert.Equal(t, 1, status.Documents)

	doc, err := store.GetDocument(ctx, path)
	require.NoError(t, err)
	assert.True(t, doc.BodyParsed)

	authors, err := store.AuthorsForDocument(ctx, doc.ID)
	require.NoError(t, err)
	assert.Empty(t, authors)
}

func TestParseCorpusRequiresTagAndPattern(t *testing.T) {
	svc, _, _ := newIngestHarness(t)

	_, err := svc.ParseCorpus(context.Background(), "", "*.xml")
	assert.ErrorIs(t, err, domain.ErrMissingArgument)

	_, err = svc.ParseCorpus(context.Background(), "frantext", "")
	assert.ErrorIs(t, err, domain.ErrMissingArgument)
}

func TestRowItemsSplitsMultipleAuthors(t *testing.T) {
	row := domain.Row{
		"author": {"Erckmann, Émile; Chatrian, Alexandre"},
		"role":   {"écrivain"},
	}

	items := rowItems(domain.KindAuthor, "author", "#fileDesc#titleStmt#author", 1, row)
	require.Len(t, items, 2)
	assert.Equal(t, "Erckmann", items[0].Person.LastName)
	assert.Equal(t, "Chatrian", items[1].Person.LastName)
	// Shared attributes are inherited by every split person.
	assert.Equal(t, "écrivain", items[0].Person.Role)
	assert.Equal(t, "écrivain", items[1].Person.Role)
}

func TestRowItemsMarksURLIdentifiers(t *testing.T) {
	row := domain.Row{
		"idno": {"http://gallica.bnf.fr/ark:/12148/bpt6k123"},
		"type": {"ark"},
	}

	items := rowItems(domain.KindIdentifier, "idno", "#publicationStmt#idno", 1, row)
	require.Len(t, items, 1)
	assert.Equal(t, "url", items[0].Identifier.Type)
}

func TestRowItemsDatePrefersWhenAttribute(t *testing.T) {
	row := domain.Row{
		"date": {"M DCC LXXXIV"},
		"when": {"1784"},
	}

	items := rowItems(domain.KindDate, "date", "#publicationStmt#date", 1, row)
	require.Len(t, items, 1)
	assert.Equal(t, 1784, items[0].Date.Deduced)
	assert.Equal(t, "M DCC LXXXIV", items[0].Date.Raw)
	assert.Equal(t, "1784", items[0].Date.Edited)
}
