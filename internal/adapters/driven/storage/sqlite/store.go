// Package sqlite provides the SQLite-backed metadata store. One
// database file holds documents, their typed metadata items and the
// join tables relating them, plus ingest run bookkeeping.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/obvil-labs/teiscope/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/obvil-labs/teiscope/internal/core/domain"
	"github.com/obvil-labs/teiscope/internal/core/ports/driven"
)

// expectedTables is the schema the reconciliation read path depends
// on. CheckSchema fails when any of them is missing.
var expectedTables = []string{
	"runs",
	"documents",
	"persons",
	"titles",
	"dates",
	"identifiers",
	"document_has_author",
	"document_has_title",
	"document_has_date",
	"document_has_identifier",
}

// Store wraps the SQLite database and hands out the port
// implementations backed by it.
type Store struct {
	db   *sql.DB
	path string
}

var _ driven.SchemaChecker = (*Store)(nil)

// NewStore opens (creating if needed) the database at dbPath and runs
// pending migrations. An empty dbPath falls back to
// ~/.teiscope/metadata.db.
func NewStore(dbPath string) (*Store, error) {
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolving home directory: %w", err)
		}
		dbPath = filepath.Join(home, ".teiscope", "metadata.db")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	s := &Store{db: db, path: dbPath}
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating database: %w", err)
	}
	return s, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Runs returns the run bookkeeping store.
func (s *Store) Runs() driven.RunStore {
	return &runStore{db: s.db}
}

// Documents returns the document store.
func (s *Store) Documents() driven.DocumentStore {
	return &documentStore{db: s.db}
}

// Items returns the typed metadata item store.
func (s *Store) Items() driven.ItemStore {
	return &itemStore{db: s.db}
}

// Persons returns the corpus-wide person index.
func (s *Store) Persons() driven.PersonIndex {
	return &personIndex{db: s.db}
}

// CheckSchema verifies every expected table exists.
func (s *Store) CheckSchema(ctx context.Context) error {
	for _, table := range expectedTables {
		var name string
		err := s.db.QueryRowContext(ctx,
			`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table,
		).Scan(&name)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("table %q missing: %w", table, domain.ErrSchemaMismatch)
		}
		if err != nil {
			return fmt.Errorf("checking table %q: %w", table, err)
		}
	}
	return nil
}

// migrate runs all pending *.up.sql migrations, tracking the applied
// version in schema_migrations.
func (s *Store) migrate(fsys fs.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow(`SELECT COALESCE(MAX(version), 0) FROM schema_migrations`)
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			upFiles = append(upFiles, entry.Name())
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(`INSERT INTO schema_migrations (version) VALUES (?)`, version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}
	return nil
}

// runStore implements driven.RunStore.
type runStore struct {
	db *sql.DB
}

var _ driven.RunStore = (*runStore)(nil)

func (r *runStore) BeginRun(ctx context.Context, run *domain.Run) error {
	if run == nil || run.ID == "" {
		return fmt.Errorf("begin run: %w", domain.ErrMissingArgument)
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO runs (id, corpus_tag, started_at) VALUES (?, ?, ?)`,
		run.ID, run.CorpusTag, run.StartedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting run: %w", err)
	}
	return nil
}

func (r *runStore) CompleteRun(ctx context.Context, run *domain.Run) error {
	if run == nil || run.ID == "" {
		return fmt.Errorf("complete run: %w", domain.ErrMissingArgument)
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE runs SET completed_at = ?, documents = ?, errors = ? WHERE id = ?`,
		run.CompletedAt, run.Documents, run.Errors, run.ID,
	)
	if err != nil {
		return fmt.Errorf("completing run: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("completing run: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("run %s: %w", run.ID, domain.ErrNotFound)
	}
	return nil
}

// documentStore implements driven.DocumentStore.
type documentStore struct {
	db *sql.DB
}

var _ driven.DocumentStore = (*documentStore)(nil)

func (d *documentStore) SaveDocument(ctx context.Context, doc *domain.Document) (int64, error) {
	if doc == nil || doc.Path == "" {
		return 0, fmt.Errorf("save document: %w", domain.ErrMissingArgument)
	}

	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var id int64
	err = tx.QueryRowContext(ctx,
		`SELECT id FROM documents WHERE path = ?`, doc.Path,
	).Scan(&id)
	switch {
	case err == nil:
		doc.ID = id
		return id, tx.Commit()
	case !errors.Is(err, sql.ErrNoRows):
		return 0, fmt.Errorf("looking up document: %w", err)
	}

	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now().UTC()
	}
	res, err := tx.ExecContext(ctx,
		`INSERT INTO documents (path, corpus_tag, ark, body_parsed, chars, words, sentences, run_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		doc.Path, doc.CorpusTag, doc.Ark, doc.BodyParsed,
		doc.Chars, doc.Words, doc.Sentences, doc.RunID, doc.CreatedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting document: %w", err)
	}
	id, err = res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("inserting document: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing document: %w", err)
	}
	doc.ID = id
	return id, nil
}

const documentColumns = `id, path, corpus_tag, ark, body_parsed, chars, words, sentences, run_id, created_at`

func scanDocument(row interface{ Scan(...any) error }) (domain.Document, error) {
	var doc domain.Document
	err := row.Scan(&doc.ID, &doc.Path, &doc.CorpusTag, &doc.Ark, &doc.BodyParsed,
		&doc.Chars, &doc.Words, &doc.Sentences, &doc.RunID, &doc.CreatedAt)
	return doc, err
}

func (d *documentStore) GetDocument(ctx context.Context, path string) (*domain.Document, error) {
	if path == "" {
		return nil, fmt.Errorf("get document: %w", domain.ErrMissingArgument)
	}
	doc, err := scanDocument(d.db.QueryRowContext(ctx,
		`SELECT `+documentColumns+` FROM documents WHERE path = ?`, path,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("document %s: %w", path, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting document: %w", err)
	}
	return &doc, nil
}

func (d *documentStore) ListDocuments(ctx context.Context) ([]domain.Document, error) {
	rows, err := d.db.QueryContext(ctx,
		`SELECT `+documentColumns+` FROM documents ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}
	defer rows.Close()

	var docs []domain.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning document: %w", err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}
	return docs, nil
}

// itemStore implements driven.ItemStore. Every upsert runs a
// select-then-insert inside one transaction so the item's full field
// set acts as a natural key.
type itemStore struct {
	db *sql.DB
}

var _ driven.ItemStore = (*itemStore)(nil)

// upsert links docID to the base row produced by find/insert through
// joinTable, creating the base row only when no identical one exists.
func (i *itemStore) upsert(ctx context.Context, docID int64, originPath, joinTable, joinColumn string,
	find func(tx *sql.Tx) (int64, error), insert func(tx *sql.Tx) (int64, error)) (int64, error) {

	if docID == 0 || originPath == "" {
		return 0, fmt.Errorf("upsert into %s: %w", joinTable, domain.ErrMissingArgument)
	}

	tx, err := i.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	id, err := find(tx)
	if errors.Is(err, sql.ErrNoRows) {
		id, err = insert(tx)
	}
	if err != nil {
		return 0, fmt.Errorf("upserting into %s: %w", joinTable, err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT OR IGNORE INTO `+joinTable+` (document_id, `+joinColumn+`, origin_path) VALUES (?, ?, ?)`,
		docID, id, originPath,
	)
	if err != nil {
		return 0, fmt.Errorf("linking %s: %w", joinTable, err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing %s: %w", joinTable, err)
	}
	return id, nil
}

func lastID(res sql.Result, err error) (int64, error) {
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (i *itemStore) UpsertPerson(ctx context.Context, docID int64, originPath string, p domain.Person) (int64, error) {
	extra, err := json.Marshal(p.Extra)
	if err != nil {
		return 0, fmt.Errorf("encoding person extras: %w", err)
	}
	if p.Extra == nil {
		extra = []byte("{}")
	}
	return i.upsert(ctx, docID, originPath, "document_has_author", "person_id",
		func(tx *sql.Tx) (int64, error) {
			var id int64
			err := tx.QueryRowContext(ctx,
				`SELECT id FROM persons
				 WHERE raw = ? AND first_name = ? AND last_name = ? AND birth = ?
				   AND death = ? AND role = ? AND key = ? AND fingerprint = ? AND extra = ?`,
				p.Raw, p.FirstName, p.LastName, p.Birth, p.Death, p.Role, p.Key, p.Fingerprint, string(extra),
			).Scan(&id)
			return id, err
		},
		func(tx *sql.Tx) (int64, error) {
			return lastID(tx.ExecContext(ctx,
				`INSERT INTO persons (raw, first_name, last_name, birth, death, role, key, fingerprint, extra)
				 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				p.Raw, p.FirstName, p.LastName, p.Birth, p.Death, p.Role, p.Key, p.Fingerprint, string(extra),
			))
		})
}

func (i *itemStore) UpsertTitle(ctx context.Context, docID int64, originPath string, t domain.Title) (int64, error) {
	return i.upsert(ctx, docID, originPath, "document_has_title", "title_id",
		func(tx *sql.Tx) (int64, error) {
			var id int64
			err := tx.QueryRowContext(ctx,
				`SELECT id FROM titles WHERE text = ? AND level = ?`, t.Text, t.Level,
			).Scan(&id)
			return id, err
		},
		func(tx *sql.Tx) (int64, error) {
			return lastID(tx.ExecContext(ctx,
				`INSERT INTO titles (text, level) VALUES (?, ?)`, t.Text, t.Level,
			))
		})
}

func (i *itemStore) UpsertDate(ctx context.Context, docID int64, originPath string, d domain.PublicationDate) (int64, error) {
	return i.upsert(ctx, docID, originPath, "document_has_date", "date_id",
		func(tx *sql.Tx) (int64, error) {
			var id int64
			err := tx.QueryRowContext(ctx,
				`SELECT id FROM dates
				 WHERE raw = ? AND edited = ? AND millennium = ? AND century = ?
				   AND decade = ? AND year = ? AND deduced = ?`,
				d.Raw, d.Edited, d.Millennium, d.Century, d.Decade, d.Year, d.Deduced,
			).Scan(&id)
			return id, err
		},
		func(tx *sql.Tx) (int64, error) {
			return lastID(tx.ExecContext(ctx,
				`INSERT INTO dates (raw, edited, millennium, century, decade, year, deduced)
				 VALUES (?, ?, ?, ?, ?, ?, ?)`,
				d.Raw, d.Edited, d.Millennium, d.Century, d.Decade, d.Year, d.Deduced,
			))
		})
}

func (i *itemStore) UpsertIdentifier(ctx context.Context, docID int64, originPath string, ident domain.Identifier) (int64, error) {
	return i.upsert(ctx, docID, originPath, "document_has_identifier", "identifier_id",
		func(tx *sql.Tx) (int64, error) {
			var id int64
			err := tx.QueryRowContext(ctx,
				`SELECT id FROM identifiers WHERE value = ? AND type = ?`, ident.Value, ident.Type,
			).Scan(&id)
			return id, err
		},
		func(tx *sql.Tx) (int64, error) {
			return lastID(tx.ExecContext(ctx,
				`INSERT INTO identifiers (value, type) VALUES (?, ?)`, ident.Value, ident.Type,
			))
		})
}

const personColumns = `p.id, p.raw, p.first_name, p.last_name, p.birth, p.death, p.role, p.key, p.fingerprint, p.extra`

func scanPerson(row interface{ Scan(...any) error }) (domain.Person, error) {
	var p domain.Person
	var extra string
	err := row.Scan(&p.ID, &p.Raw, &p.FirstName, &p.LastName, &p.Birth, &p.Death,
		&p.Role, &p.Key, &p.Fingerprint, &extra)
	if err != nil {
		return p, err
	}
	if extra != "" && extra != "{}" {
		if err := json.Unmarshal([]byte(extra), &p.Extra); err != nil {
			return p, fmt.Errorf("decoding person extras: %w", err)
		}
	}
	return p, nil
}

func (i *itemStore) AuthorsForDocument(ctx context.Context, docID int64) ([]domain.Person, error) {
	if docID == 0 {
		return nil, fmt.Errorf("authors for document: %w", domain.ErrMissingArgument)
	}
	rows, err := i.db.QueryContext(ctx,
		`SELECT `+personColumns+` FROM persons p
		 JOIN document_has_author j ON j.person_id = p.id
		 WHERE j.document_id = ? ORDER BY p.id`, docID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying document authors: %w", err)
	}
	defer rows.Close()

	var persons []domain.Person
	for rows.Next() {
		p, err := scanPerson(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning person: %w", err)
		}
		persons = append(persons, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("querying document authors: %w", err)
	}
	return persons, nil
}

func (i *itemStore) TitlesForDocument(ctx context.Context, docID int64) ([]domain.Title, error) {
	if docID == 0 {
		return nil, fmt.Errorf("titles for document: %w", domain.ErrMissingArgument)
	}
	rows, err := i.db.QueryContext(ctx,
		`SELECT t.id, t.text, t.level FROM titles t
		 JOIN document_has_title j ON j.title_id = t.id
		 WHERE j.document_id = ? ORDER BY t.id`, docID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying document titles: %w", err)
	}
	defer rows.Close()

	var titles []domain.Title
	for rows.Next() {
		var t domain.Title
		if err := rows.Scan(&t.ID, &t.Text, &t.Level); err != nil {
			return nil, fmt.Errorf("scanning title: %w", err)
		}
		titles = append(titles, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("querying document titles: %w", err)
	}
	return titles, nil
}

func (i *itemStore) DatesForDocument(ctx context.Context, docID int64) ([]domain.PublicationDate, error) {
	if docID == 0 {
		return nil, fmt.Errorf("dates for document: %w", domain.ErrMissingArgument)
	}
	rows, err := i.db.QueryContext(ctx,
		`SELECT d.id, d.raw, d.edited, d.millennium, d.century, d.decade, d.year, d.deduced
		 FROM dates d
		 JOIN document_has_date j ON j.date_id = d.id
		 WHERE j.document_id = ? ORDER BY d.id`, docID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying document dates: %w", err)
	}
	defer rows.Close()

	var dates []domain.PublicationDate
	for rows.Next() {
		var d domain.PublicationDate
		if err := rows.Scan(&d.ID, &d.Raw, &d.Edited, &d.Millennium, &d.Century, &d.Decade, &d.Year, &d.Deduced); err != nil {
			return nil, fmt.Errorf("scanning date: %w", err)
		}
		dates = append(dates, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("querying document dates: %w", err)
	}
	return dates, nil
}

// personIndex implements driven.PersonIndex.
type personIndex struct {
	db *sql.DB
}

var _ driven.PersonIndex = (*personIndex)(nil)

func (p *personIndex) FingerprintStats(ctx context.Context) (map[string]domain.FingerprintStat, error) {
	rows, err := p.db.QueryContext(ctx,
		`SELECT p.fingerprint, COUNT(*), MIN(p.id)
		 FROM persons p
		 JOIN document_has_author j ON j.person_id = p.id
		 WHERE p.fingerprint != ''
		 GROUP BY p.fingerprint`,
	)
	if err != nil {
		return nil, fmt.Errorf("querying fingerprint stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]domain.FingerprintStat)
	for rows.Next() {
		var fp string
		var stat domain.FingerprintStat
		if err := rows.Scan(&fp, &stat.Count, &stat.MinID); err != nil {
			return nil, fmt.Errorf("scanning fingerprint stat: %w", err)
		}
		stats[fp] = stat
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("querying fingerprint stats: %w", err)
	}
	return stats, nil
}

func (p *personIndex) GivenNamesByFingerprint(ctx context.Context) (map[string][]string, error) {
	rows, err := p.db.QueryContext(ctx,
		`SELECT DISTINCT fingerprint, first_name FROM persons
		 WHERE fingerprint != '' AND first_name != ''`,
	)
	if err != nil {
		return nil, fmt.Errorf("querying given names: %w", err)
	}
	defer rows.Close()

	names := make(map[string][]string)
	for rows.Next() {
		var fp, first string
		if err := rows.Scan(&fp, &first); err != nil {
			return nil, fmt.Errorf("scanning given name: %w", err)
		}
		names[fp] = append(names[fp], first)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("querying given names: %w", err)
	}
	return names, nil
}

func (p *personIndex) PersonsByFingerprint(ctx context.Context, fingerprint string) ([]domain.Person, error) {
	if fingerprint == "" {
		return nil, fmt.Errorf("persons by fingerprint: %w", domain.ErrMissingArgument)
	}
	rows, err := p.db.QueryContext(ctx,
		`SELECT `+personColumns+` FROM persons p WHERE p.fingerprint = ? ORDER BY p.id`,
		fingerprint,
	)
	if err != nil {
		return nil, fmt.Errorf("querying persons by fingerprint: %w", err)
	}
	defer rows.Close()

	var persons []domain.Person
	for rows.Next() {
		person, err := scanPerson(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning person: %w", err)
		}
		persons = append(persons, person)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("querying persons by fingerprint: %w", err)
	}
	return persons, nil
}
