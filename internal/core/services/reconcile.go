package services

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/obvil-labs/teiscope/internal/core/domain"
	"github.com/obvil-labs/teiscope/internal/core/ports/driven"
	"github.com/obvil-labs/teiscope/internal/core/ports/driving"
	"github.com/obvil-labs/teiscope/internal/lingua"
	"github.com/obvil-labs/teiscope/internal/logger"
)

// titleSortPlaceholder sorts level-less titles after every lettered
// level, so a series title ("s") still precedes an unlevelled one.
const titleSortPlaceholder = "ȥ"

// titleJoin separates concatenated title parts.
const titleJoin = " — "

// prefixLen is the fingerprint prefix length used to collapse
// near-identical fingerprints ("dideroted" vs "diderotd") into one
// author record.
const prefixLen = 4

// maxPlausibleAge bounds the computed age at publication.
const maxPlausibleAge = 120

// ReconcileService resolves author identities corpus-wide and builds
// the enriched per-document records.
type ReconcileService struct {
	documents driven.DocumentStore
	items     driven.ItemStore
	persons   driven.PersonIndex
	schema    driven.SchemaChecker
	dewey     driven.DeweyLookup
	scorer    driven.Scorer
}

var _ driving.Reconciler = (*ReconcileService)(nil)

// NewReconcileService wires a reconciler over the given stores.
func NewReconcileService(documents driven.DocumentStore, items driven.ItemStore,
	persons driven.PersonIndex, schema driven.SchemaChecker,
	dewey driven.DeweyLookup, scorer driven.Scorer) *ReconcileService {
	return &ReconcileService{
		documents: documents,
		items:     items,
		persons:   persons,
		schema:    schema,
		dewey:     dewey,
		scorer:    scorer,
	}
}

// corpusState is the precomputed corpus-wide input to per-document
// resolution: fingerprint precedence and the ambiguous set.
type corpusState struct {
	stats     map[string]domain.FingerprintStat
	ambiguous map[string]bool
}

// EnrichAll runs both corpus-wide passes then resolves every document.
func (s *ReconcileService) EnrichAll(ctx context.Context) ([]domain.EnrichedRecord, error) {
	if err := s.schema.CheckSchema(ctx); err != nil {
		return nil, fmt.Errorf("checking schema: %w", err)
	}

	state, err := s.computeCorpusState(ctx)
	if err != nil {
		return nil, err
	}

	docs, err := s.documents.ListDocuments(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}
	logger.Section("reconcile")
	logger.Info("resolving %d documents over %d fingerprints", len(docs), len(state.stats))

	records := make([]domain.EnrichedRecord, 0, len(docs))
	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		record, err := s.enrichDocument(ctx, doc, state)
		if err != nil {
			return nil, fmt.Errorf("enriching %s: %w", doc.Path, err)
		}
		records = append(records, *record)
	}
	return records, nil
}

// EnrichDocument resolves a single document. The corpus-wide passes
// run first; batch callers should prefer EnrichAll.
func (s *ReconcileService) EnrichDocument(ctx context.Context, doc domain.Document) (*domain.EnrichedRecord, error) {
	if err := s.schema.CheckSchema(ctx); err != nil {
		return nil, fmt.Errorf("checking schema: %w", err)
	}
	state, err := s.computeCorpusState(ctx)
	if err != nil {
		return nil, err
	}
	return s.enrichDocument(ctx, doc, state)
}

// computeCorpusState precomputes fingerprint statistics and the
// ambiguous fingerprint set. A fingerprint is ambiguous when its raw
// first-name forms normalise to more than one distinct given name.
func (s *ReconcileService) computeCorpusState(ctx context.Context) (*corpusState, error) {
	stats, err := s.persons.FingerprintStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("computing fingerprint stats: %w", err)
	}

	givenNames, err := s.persons.GivenNamesByFingerprint(ctx)
	if err != nil {
		return nil, fmt.Errorf("collecting given names: %w", err)
	}

	ambiguous := make(map[string]bool)
	for fp, names := range givenNames {
		distinct := make(map[string]bool)
		for _, name := range names {
			if n := lingua.NormalizeGivenName(name); n != "" {
				distinct[n] = true
			}
		}
		if len(distinct) > 1 {
			ambiguous[fp] = true
		}
	}
	return &corpusState{stats: stats, ambiguous: ambiguous}, nil
}

func (s *ReconcileService) enrichDocument(ctx context.Context, doc domain.Document, state *corpusState) (*domain.EnrichedRecord, error) {
	record := domain.EnrichedRecord{DocumentPath: doc.Path}

	authors, err := s.resolveAuthors(ctx, doc, state)
	if err != nil {
		return nil, err
	}
	record.Authors = positionAuthors(authors)

	dates, err := s.items.DatesForDocument(ctx, doc.ID)
	if err != nil {
		return nil, err
	}
	pubYear, pubOK := earliestYear(dates)
	if len(dates) > 0 {
		record.Date = domain.DisplayYear(pubYear, pubOK)
	}

	titles, err := s.items.TitlesForDocument(ctx, doc.ID)
	if err != nil {
		return nil, err
	}
	record.Title = concatTitles(titles)

	if doc.Ark != "" {
		if text, ok := s.dewey.Classification(doc.Ark); ok {
			record.Dewey = text
		}
	}

	if pubOK {
		for position, author := range record.Authors {
			if age, ok := ageAtPublication(author.Birth, pubYear); ok {
				author.AgeAtPublication = &age
				record.Authors[position] = author
			}
		}
	}

	record.Score = comprehensiveness(s.scorer.Score(recordMap(record)))
	return &record, nil
}

// resolveAuthors maps each of the document's distinct fingerprints to
// one author record: the corpus-wide most informative rendering for
// unambiguous fingerprints, the document's own rendering otherwise.
func (s *ReconcileService) resolveAuthors(ctx context.Context, doc domain.Document, state *corpusState) ([]domain.AuthorRecord, error) {
	persons, err := s.items.AuthorsForDocument(ctx, doc.ID)
	if err != nil {
		return nil, err
	}

	var resolved []domain.AuthorRecord
	seen := make(map[string]bool)
	for _, p := range persons {
		if !p.Reconcilable() {
			resolved = append(resolved, authorFromPerson(p, "", false, 0, p.ID))
			continue
		}
		fp := p.Fingerprint
		if seen[fp] {
			continue
		}
		seen[fp] = true
		stat := state.stats[fp]

		if state.ambiguous[fp] {
			// Ambiguous: keep the document's own rendering unmerged.
			resolved = append(resolved, authorFromPerson(p, fp, false, stat.Count, stat.MinID))
			continue
		}

		best, err := s.mostInformative(ctx, fp, p)
		if err != nil {
			return nil, err
		}
		resolved = append(resolved, authorFromPerson(best, fp, true, stat.Count, stat.MinID))
	}

	return s.collapsePrefixGroups(resolved), nil
}

// mostInformative returns the richest person record sharing the
// fingerprint, falling back to the local record when the index has
// nothing.
func (s *ReconcileService) mostInformative(ctx context.Context, fp string, local domain.Person) (domain.Person, error) {
	candidates, err := s.persons.PersonsByFingerprint(ctx, fp)
	if err != nil {
		return domain.Person{}, err
	}
	if len(candidates) == 0 {
		return local, nil
	}

	best := candidates[0]
	bestScore := s.scorer.Score(personMap(best))
	for _, c := range candidates[1:] {
		score := s.scorer.Score(personMap(c))
		if score > bestScore || (score == bestScore && c.ID < best.ID) {
			best = c
			bestScore = score
		}
	}
	return best, nil
}

func authorFromPerson(p domain.Person, fp string, reconciliated bool, freq int, minID int64) domain.AuthorRecord {
	return domain.AuthorRecord{
		Raw:             p.Raw,
		FirstName:       p.FirstName,
		LastName:        p.LastName,
		Birth:           p.Birth,
		Death:           p.Death,
		Role:            p.Role,
		Key:             p.Key,
		AlphaKey:        fp,
		IsReconciliated: reconciliated,
		Freq:            freq,
		MinID:           minID,
	}
}

// collapsePrefixGroups folds author records whose fingerprints share
// the same leading prefix into the group's most informative record,
// carrying the union of authority keys. Ties break by corpus-wide
// precedence.
func (s *ReconcileService) collapsePrefixGroups(authors []domain.AuthorRecord) []domain.AuthorRecord {
	groups := make(map[string][]domain.AuthorRecord)
	var order []string
	for _, a := range authors {
		prefix := a.AlphaKey
		if len(prefix) >= prefixLen {
			prefix = prefix[:prefixLen]
		}
		if _, ok := groups[prefix]; !ok {
			order = append(order, prefix)
		}
		groups[prefix] = append(groups[prefix], a)
	}

	var out []domain.AuthorRecord
	for _, prefix := range order {
		group := groups[prefix]
		if prefix == "" || len(group) == 1 {
			out = append(out, group...)
			continue
		}

		best := group[0]
		bestScore := s.scorer.Score(authorMap(best))
		for _, a := range group[1:] {
			score := s.scorer.Score(authorMap(a))
			if score > bestScore ||
				(score == bestScore && (a.Freq > best.Freq || (a.Freq == best.Freq && a.MinID < best.MinID))) {
				best = a
				bestScore = score
			}
		}
		best.Key = unionKeys(group)
		out = append(out, best)
	}
	return out
}

// unionKeys joins the distinct authority keys of a collapsed group.
func unionKeys(group []domain.AuthorRecord) string {
	var keys []string
	seen := make(map[string]bool)
	for _, a := range group {
		if a.Key == "" || seen[a.Key] {
			continue
		}
		seen[a.Key] = true
		keys = append(keys, a.Key)
	}
	return strings.Join(keys, ", ")
}

// positionAuthors orders records by corpus-wide frequency (desc), then
// earliest insertion, and assigns positional keys author_1..author_n.
func positionAuthors(authors []domain.AuthorRecord) map[string]domain.AuthorRecord {
	if len(authors) == 0 {
		return nil
	}
	sort.SliceStable(authors, func(i, j int) bool {
		if authors[i].Freq != authors[j].Freq {
			return authors[i].Freq > authors[j].Freq
		}
		return authors[i].MinID < authors[j].MinID
	})

	positioned := make(map[string]domain.AuthorRecord, len(authors))
	for i, a := range authors {
		positioned[fmt.Sprintf("author_%d", i+1)] = a
	}
	return positioned
}

// earliestYear selects the smallest resolvable candidate year among
// the document's dates.
func earliestYear(dates []domain.PublicationDate) (int, bool) {
	best := 0
	found := false
	for _, d := range dates {
		year, ok := d.CandidateYear()
		if !ok {
			continue
		}
		if !found || year < best {
			best = year
			found = true
		}
	}
	return best, found
}

// concatTitles joins the document's titles in ascending level order,
// deduplicated case-insensitively.
func concatTitles(titles []domain.Title) string {
	sorted := make([]domain.Title, len(titles))
	copy(sorted, titles)
	sort.SliceStable(sorted, func(i, j int) bool {
		return titleSortKey(sorted[i]) < titleSortKey(sorted[j])
	})

	var parts []string
	seen := make(map[string]bool)
	for _, t := range sorted {
		text := strings.TrimSpace(t.Text)
		if text == "" {
			continue
		}
		lowered := strings.ToLower(text)
		if seen[lowered] {
			continue
		}
		seen[lowered] = true
		parts = append(parts, text)
	}
	return strings.Join(parts, titleJoin)
}

func titleSortKey(t domain.Title) string {
	if t.Level == "" {
		return titleSortPlaceholder
	}
	return t.Level
}

// ageAtPublication computes the author's age when both the birth year
// and the publication year resolve and the result is plausible.
func ageAtPublication(birth string, pubYear int) (int, bool) {
	birthYear, err := strconv.Atoi(strings.TrimSpace(birth))
	if err != nil || birthYear <= 1 {
		return 0, false
	}
	age := pubYear - birthYear
	if age < 0 || age > maxPlausibleAge {
		return 0, false
	}
	return age, true
}
