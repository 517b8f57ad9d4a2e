package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/obvil-labs/teiscope/internal/adapters/driven/dewey"
	"github.com/obvil-labs/teiscope/internal/adapters/driven/storage/memory"
	"github.com/obvil-labs/teiscope/internal/core/domain"
)

func newReconcileHarness(t *testing.T) (*ReconcileService, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	svc := NewReconcileService(store, store, store, store, dewey.Empty(), NewScorer())
	return svc, store
}

func seedDocument(t *testing.T, store *memory.Store, path string) domain.Document {
	t.Helper()
	doc := domain.Document{Path: path, CorpusTag: "frantext"}
	_, err := store.SaveDocument(context.Background(), &doc)
	require.NoError(t, err)
	return doc
}

func TestEnrichDocumentPrefersMostInformativeRendering(t *testing.T) {
	svc, store := newReconcileHarness(t)
	ctx := context.Background()

	// The sparse rendering appears in the target document, the rich one
	// elsewhere in the corpus. Reconciliation replaces the former.
	target := seedDocument(t, store, "a.xml")
	other := seedDocument(t, store, "b.xml")

	_, err := store.UpsertPerson(ctx, target.ID, "#titleStmt#author", domain.Person{
		Raw: "Diderot", LastName: "Diderot", FirstName: "Denis", Fingerprint: "diderotd",
	})
	require.NoError(t, err)
	_, err = store.UpsertPerson(ctx, other.ID, "#titleStmt#author", domain.Person{
		Raw: "Diderot, Denis (1713-1784)", LastName: "Diderot", FirstName: "Denis",
		Birth: "1713", Death: "1784", Key: "Diderot, Denis", Fingerprint: "diderotd",
	})
	require.NoError(t, err)
	_, err = store.UpsertDate(ctx, target.ID, "#publicationStmt#date", domain.PublicationDate{
		Raw: "1749", Millennium: 1, Century: 7, Decade: 4, Year: 9, Deduced: 1749,
	})
	require.NoError(t, err)

	record, err := svc.EnrichDocument(ctx, target)
	require.NoError(t, err)

	require.Contains(t, record.Authors, "author_1")
	author := record.Authors["author_1"]
	assert.Equal(t, "Diderot, Denis (1713-1784)", author.Raw)
	assert.Equal(t, "1713", author.Birth)
	assert.True(t, author.IsReconciliated)
	assert.Equal(t, "diderotd", author.AlphaKey)

	assert.Equal(t, "1749", record.Date)
	require.NotNil(t, author.AgeAtPublication)
	assert.Equal(t, 36, *author.AgeAtPublication)
	assert.Greater(t, record.Score, 0.0)
}

func TestEnrichDocumentAmbiguousFingerprintIsNotMerged(t *testing.T) {
	svc, store := newReconcileHarness(t)
	ctx := context.Background()

	// Albert and Alice Dupont share the fingerprint "duponta" but are
	// different people: the document keeps its own rendering.
	target := seedDocument(t, store, "a.xml")
	other := seedDocument(t, store, "b.xml")

	_, err := store.UpsertPerson(ctx, target.ID, "#titleStmt#author", domain.Person{
		Raw: "Dupont, Albert", LastName: "Dupont", FirstName: "Albert", Fingerprint: "duponta",
	})
	require.NoError(t, err)
	_, err = store.UpsertPerson(ctx, other.ID, "#titleStmt#author", domain.Person{
		Raw: "Dupont, Alice (1850-1920)", LastName: "Dupont", FirstName: "Alice",
		Birth: "1850", Death: "1920", Fingerprint: "duponta",
	})
	require.NoError(t, err)

	record, err := svc.EnrichDocument(ctx, target)
	require.NoError(t, err)

	require.Contains(t, record.Authors, "author_1")
	author := record.Authors["author_1"]
	assert.Equal(t, "Dupont, Albert", author.Raw)
	assert.Empty(t, author.Birth)
	assert.False(t, author.IsReconciliated)
}

func TestEnrichDocumentCollapsesFingerprintPrefixes(t *testing.T) {
	svc, store := newReconcileHarness(t)
	ctx := context.Background()

	target := seedDocument(t, store, "a.xml")
	_, err := store.UpsertPerson(ctx, target.ID, "#titleStmt#author", domain.Person{
		Raw: "Voltaire", LastName: "Voltaire", Key: "Voltaire", Fingerprint: "voltaire",
	})
	require.NoError(t, err)
	_, err = store.UpsertPerson(ctx, target.ID, "#sourceDesc#author", domain.Person{
		Raw: "Voltère", LastName: "Voltère", Key: "Voltère", Fingerprint: "voltere",
	})
	require.NoError(t, err)

	record, err := svc.EnrichDocument(ctx, target)
	require.NoError(t, err)

	// "volt" prefix folds both fingerprints into one author carrying
	// the union of authority keys.
	require.Len(t, record.Authors, 1)
	author := record.Authors["author_1"]
	assert.Contains(t, author.Key, "Voltaire")
	assert.Contains(t, author.Key, "Voltère")
}

func TestEnrichDocumentOrdersAuthorsByCorpusFrequency(t *testing.T) {
	svc, store := newReconcileHarness(t)
	ctx := context.Background()

	target := seedDocument(t, store, "a.xml")
	secondary := domain.Person{Raw: "Grimm", LastName: "Grimm", Fingerprint: "grimm"}
	principal := domain.Person{Raw: "Diderot", LastName: "Diderot", Fingerprint: "diderot"}

	_, err := store.UpsertPerson(ctx, target.ID, "#titleStmt#author", secondary)
	require.NoError(t, err)
	_, err = store.UpsertPerson(ctx, target.ID, "#titleStmt#author", principal)
	require.NoError(t, err)

	// The principal appears in two more documents, so corpus-wide
	// frequency puts it first despite later insertion.
	for _, path := range []string{"b.xml", "c.xml"} {
		doc := seedDocument(t, store, path)
		_, err = store.UpsertPerson(ctx, doc.ID, "#titleStmt#author", principal)
		require.NoError(t, err)
	}

	record, err := svc.EnrichDocument(ctx, target)
	require.NoError(t, err)
	require.Len(t, record.Authors, 2)
	assert.Equal(t, "Diderot", record.Authors["author_1"].Raw)
	assert.Equal(t, "Grimm", record.Authors["author_2"].Raw)
}

func TestEnrichDocumentSelectsEarliestResolvableDate(t *testing.T) {
	svc, store := newReconcileHarness(t)
	ctx := context.Background()

	target := seedDocument(t, store, "a.xml")
	// "17?9" has an interior gap: unresolvable, never selected.
	_, err := store.UpsertDate(ctx, target.ID, "#publicationStmt#date", domain.PublicationDate{
		Raw: "17?9", Millennium: 1, Century: 7, Decade: domain.UnknownDigit, Year: 9,
		Deduced: domain.UnknownDigit,
	})
	require.NoError(t, err)
	_, err = store.UpsertDate(ctx, target.ID, "#sourceDesc#date", domain.PublicationDate{
		Raw: "1729", Millennium: 1, Century: 7, Decade: 2, Year: 9, Deduced: 1729,
	})
	require.NoError(t, err)

	record, err := svc.EnrichDocument(ctx, target)
	require.NoError(t, err)
	assert.Equal(t, "1729", record.Date)
}

func TestEnrichDocumentTruncatedDateDisplay(t *testing.T) {
	svc, store := newReconcileHarness(t)
	ctx := context.Background()

	target := seedDocument(t, store, "a.xml")
	_, err := store.UpsertDate(ctx, target.ID, "#publicationStmt#date", domain.PublicationDate{
		Raw: "17..", Millennium: 1, Century: 7, Decade: domain.UnknownDigit,
		Year: domain.UnknownDigit, Deduced: domain.UnknownDigit,
	})
	require.NoError(t, err)

	record, err := svc.EnrichDocument(ctx, target)
	require.NoError(t, err)
	assert.Equal(t, "17..", record.Date)
}

func TestConcatTitlesOrdersByLevel(t *testing.T) {
	title := concatTitles([]domain.Title{
		{Text: "Histoire de ma vie", Level: "s"},
		{Text: "Tome 1", Level: "a"},
	})
	assert.Equal(t, "Tome 1 — Histoire de ma vie", title)
}

func TestConcatTitlesDeduplicatesCaseInsensitively(t *testing.T) {
	title := concatTitles([]domain.Title{
		{Text: "CANDIDE", Level: "a"},
		{Text: "Candide", Level: ""},
	})
	assert.Equal(t, "CANDIDE", title)
}

func TestConcatTitlesUnlevelledSortsLast(t *testing.T) {
	title := concatTitles([]domain.Title{
		{Text: "Édition de 1784", Level: ""},
		{Text: "Figaro", Level: "s"},
	})
	assert.Equal(t, "Figaro — Édition de 1784", title)
}

func TestAgeAtPublicationBounds(t *testing.T) {
	age, ok := ageAtPublication("1713", 1749)
	require.True(t, ok)
	assert.Equal(t, 36, age)

	_, ok = ageAtPublication("1800", 1749)
	assert.False(t, ok)

	_, ok = ageAtPublication("1", 1749)
	assert.False(t, ok)

	_, ok = ageAtPublication("17.2", 1780)
	assert.False(t, ok)

	_, ok = ageAtPublication("1600", 1780)
	assert.False(t, ok)
}
