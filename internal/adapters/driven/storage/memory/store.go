// Package memory provides an in-memory metadata store implementing
// the same ports as the SQLite adapter. Used by service tests.
package memory

import (
	"context"
	"fmt"
	"reflect"
	"sync"

	"github.com/obvil-labs/teiscope/internal/core/domain"
	"github.com/obvil-labs/teiscope/internal/core/ports/driven"
)

type join struct {
	docID  int64
	itemID int64
	origin string
}

// Store keeps every table as a slice guarded by one mutex.
type Store struct {
	mu sync.Mutex

	runs      []domain.Run
	documents []domain.Document

	persons     []domain.Person
	titles      []domain.Title
	dates       []domain.PublicationDate
	identifiers []domain.Identifier

	authorJoins     []join
	titleJoins      []join
	dateJoins       []join
	identifierJoins []join

	nextID int64
}

var (
	_ driven.RunStore      = (*Store)(nil)
	_ driven.DocumentStore = (*Store)(nil)
	_ driven.ItemStore     = (*Store)(nil)
	_ driven.PersonIndex   = (*Store)(nil)
	_ driven.SchemaChecker = (*Store)(nil)
)

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{nextID: 1}
}

func (s *Store) allocID() int64 {
	id := s.nextID
	s.nextID++
	return id
}

// CheckSchema always succeeds: the in-memory schema is the code.
func (s *Store) CheckSchema(context.Context) error {
	return nil
}

func (s *Store) BeginRun(_ context.Context, run *domain.Run) error {
	if run == nil || run.ID == "" {
		return fmt.Errorf("begin run: %w", domain.ErrMissingArgument)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs = append(s.runs, *run)
	return nil
}

func (s *Store) CompleteRun(_ context.Context, run *domain.Run) error {
	if run == nil || run.ID == "" {
		return fmt.Errorf("complete run: %w", domain.ErrMissingArgument)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.runs {
		if s.runs[i].ID == run.ID {
			s.runs[i] = *run
			return nil
		}
	}
	return fmt.Errorf("run %s: %w", run.ID, domain.ErrNotFound)
}

// Runs returns a copy of all recorded runs.
func (s *Store) Runs() []domain.Run {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Run, len(s.runs))
	copy(out, s.runs)
	return out
}

func (s *Store) SaveDocument(_ context.Context, doc *domain.Document) (int64, error) {
	if doc == nil || doc.Path == "" {
		return 0, fmt.Errorf("save document: %w", domain.ErrMissingArgument)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.documents {
		if existing.Path == doc.Path {
			doc.ID = existing.ID
			return existing.ID, nil
		}
	}
	doc.ID = s.allocID()
	s.documents = append(s.documents, *doc)
	return doc.ID, nil
}

func (s *Store) GetDocument(_ context.Context, path string) (*domain.Document, error) {
	if path == "" {
		return nil, fmt.Errorf("get document: %w", domain.ErrMissingArgument)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, doc := range s.documents {
		if doc.Path == path {
			out := doc
			return &out, nil
		}
	}
	return nil, fmt.Errorf("document %s: %w", path, domain.ErrNotFound)
}

func (s *Store) ListDocuments(context.Context) ([]domain.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Document, len(s.documents))
	copy(out, s.documents)
	return out, nil
}

func addJoin(joins []join, docID, itemID int64, origin string) []join {
	for _, j := range joins {
		if j.docID == docID && j.itemID == itemID && j.origin == origin {
			return joins
		}
	}
	return append(joins, join{docID: docID, itemID: itemID, origin: origin})
}

func (s *Store) UpsertPerson(_ context.Context, docID int64, originPath string, p domain.Person) (int64, error) {
	if docID == 0 || originPath == "" {
		return 0, fmt.Errorf("upsert person: %w", domain.ErrMissingArgument)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	id := int64(0)
	for _, existing := range s.persons {
		candidate := existing
		candidate.ID = p.ID
		if reflect.DeepEqual(candidate, p) {
			id = existing.ID
			break
		}
	}
	if id == 0 {
		p.ID = s.allocID()
		s.persons = append(s.persons, p)
		id = p.ID
	}
	s.authorJoins = addJoin(s.authorJoins, docID, id, originPath)
	return id, nil
}

func (s *Store) UpsertTitle(_ context.Context, docID int64, originPath string, t domain.Title) (int64, error) {
	if docID == 0 || originPath == "" {
		return 0, fmt.Errorf("upsert title: %w", domain.ErrMissingArgument)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	id := int64(0)
	for _, existing := range s.titles {
		if existing.Text == t.Text && existing.Level == t.Level {
			id = existing.ID
			break
		}
	}
	if id == 0 {
		t.ID = s.allocID()
		s.titles = append(s.titles, t)
		id = t.ID
	}
	s.titleJoins = addJoin(s.titleJoins, docID, id, originPath)
	return id, nil
}

func (s *Store) UpsertDate(_ context.Context, docID int64, originPath string, d domain.PublicationDate) (int64, error) {
	if docID == 0 || originPath == "" {
		return 0, fmt.Errorf("upsert date: %w", domain.ErrMissingArgument)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	id := int64(0)
	for _, existing := range s.dates {
		candidate := existing
		candidate.ID = d.ID
		if candidate == d {
			id = existing.ID
			break
		}
	}
	if id == 0 {
		d.ID = s.allocID()
		s.dates = append(s.dates, d)
		id = d.ID
	}
	s.dateJoins = addJoin(s.dateJoins, docID, id, originPath)
	return id, nil
}

func (s *Store) UpsertIdentifier(_ context.Context, docID int64, originPath string, ident domain.Identifier) (int64, error) {
	if docID == 0 || originPath == "" {
		return 0, fmt.Errorf("upsert identifier: %w", domain.ErrMissingArgument)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	id := int64(0)
	for _, existing := range s.identifiers {
		if existing.Value == ident.Value && existing.Type == ident.Type {
			id = existing.ID
			break
		}
	}
	if id == 0 {
		ident.ID = s.allocID()
		s.identifiers = append(s.identifiers, ident)
		id = ident.ID
	}
	s.identifierJoins = addJoin(s.identifierJoins, docID, id, originPath)
	return id, nil
}

func (s *Store) AuthorsForDocument(_ context.Context, docID int64) ([]domain.Person, error) {
	if docID == 0 {
		return nil, fmt.Errorf("authors for document: %w", domain.ErrMissingArgument)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []domain.Person
	seen := make(map[int64]bool)
	for _, j := range s.authorJoins {
		if j.docID != docID || seen[j.itemID] {
			continue
		}
		seen[j.itemID] = true
		for _, p := range s.persons {
			if p.ID == j.itemID {
				out = append(out, p)
				break
			}
		}
	}
	return out, nil
}

func (s *Store) TitlesForDocument(_ context.Context, docID int64) ([]domain.Title, error) {
	if docID == 0 {
		return nil, fmt.Errorf("titles for document: %w", domain.ErrMissingArgument)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []domain.Title
	seen := make(map[int64]bool)
	for _, j := range s.titleJoins {
		if j.docID != docID || seen[j.itemID] {
			continue
		}
		seen[j.itemID] = true
		for _, t := range s.titles {
			if t.ID == j.itemID {
				out = append(out, t)
				break
			}
		}
	}
	return out, nil
}

func (s *Store) DatesForDocument(_ context.Context, docID int64) ([]domain.PublicationDate, error) {
	if docID == 0 {
		return nil, fmt.Errorf("dates for document: %w", domain.ErrMissingArgument)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []domain.PublicationDate
	seen := make(map[int64]bool)
	for _, j := range s.dateJoins {
		if j.docID != docID || seen[j.itemID] {
			continue
		}
		seen[j.itemID] = true
		for _, d := range s.dates {
			if d.ID == j.itemID {
				out = append(out, d)
				break
			}
		}
	}
	return out, nil
}

func (s *Store) FingerprintStats(context.Context) (map[string]domain.FingerprintStat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := make(map[string]domain.FingerprintStat)
	for _, j := range s.authorJoins {
		for _, p := range s.persons {
			if p.ID != j.itemID || p.Fingerprint == "" {
				continue
			}
			stat := stats[p.Fingerprint]
			stat.Count++
			if stat.MinID == 0 || p.ID < stat.MinID {
				stat.MinID = p.ID
			}
			stats[p.Fingerprint] = stat
		}
	}
	return stats, nil
}

func (s *Store) GivenNamesByFingerprint(context.Context) (map[string][]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	names := make(map[string][]string)
	for _, p := range s.persons {
		if p.Fingerprint == "" || p.FirstName == "" {
			continue
		}
		names[p.Fingerprint] = append(names[p.Fingerprint], p.FirstName)
	}
	return names, nil
}

func (s *Store) PersonsByFingerprint(_ context.Context, fingerprint string) ([]domain.Person, error) {
	if fingerprint == "" {
		return nil, fmt.Errorf("persons by fingerprint: %w", domain.ErrMissingArgument)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []domain.Person
	for _, p := range s.persons {
		if p.Fingerprint == fingerprint {
			out = append(out, p)
		}
	}
	return out, nil
}
