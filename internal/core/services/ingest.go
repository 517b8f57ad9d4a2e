package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/obvil-labs/teiscope/internal/core/domain"
	"github.com/obvil-labs/teiscope/internal/core/ports/driven"
	"github.com/obvil-labs/teiscope/internal/core/ports/driving"
	"github.com/obvil-labs/teiscope/internal/lingua"
	"github.com/obvil-labs/teiscope/internal/logger"
	"github.com/obvil-labs/teiscope/internal/tei"
)

// IngestService parses corpus documents and persists their header
// metadata. One malformed document never aborts the run: it is
// counted, logged and skipped.
type IngestService struct {
	runs      driven.RunStore
	documents driven.DocumentStore
	items     driven.ItemStore
	reader    driven.CorpusReader
}

var _ driving.Ingestor = (*IngestService)(nil)

// NewIngestService wires an ingestor over the given stores.
func NewIngestService(runs driven.RunStore, documents driven.DocumentStore,
	items driven.ItemStore, reader driven.CorpusReader) *IngestService {
	return &IngestService{
		runs:      runs,
		documents: documents,
		items:     items,
		reader:    reader,
	}
}

// ParseCorpus processes every file matching pattern under corpusTag.
func (s *IngestService) ParseCorpus(ctx context.Context, corpusTag, pattern string) (*driving.IngestStatus, error) {
	if corpusTag == "" || pattern == "" {
		return nil, fmt.Errorf("parse corpus: %w", domain.ErrMissingArgument)
	}

	files, err := s.reader.Files(pattern)
	if err != nil {
		return nil, fmt.Errorf("locating corpus files: %w", err)
	}
	logger.Section("ingest " + corpusTag)
	logger.Info("found %d files for pattern %s", len(files), pattern)

	run := &domain.Run{
		ID:        uuid.NewString(),
		CorpusTag: corpusTag,
		StartedAt: time.Now().UTC(),
	}
	if err := s.runs.BeginRun(ctx, run); err != nil {
		return nil, fmt.Errorf("beginning run: %w", err)
	}

	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := s.ingestFile(ctx, run, path); err != nil {
			logger.Warn("skipping %s: %v", path, err)
			run.Errors++
			continue
		}
		run.Documents++
	}

	run.CompletedAt = time.Now().UTC()
	if err := s.runs.CompleteRun(ctx, run); err != nil {
		return nil, fmt.Errorf("completing run: %w", err)
	}

	return &driving.IngestStatus{
		RunID:     run.ID,
		CorpusTag: run.CorpusTag,
		Documents: run.Documents,
		Errors:    run.Errors,
	}, nil
}

// ingestFile parses one document and stores its row and items.
func (s *IngestService) ingestFile(ctx context.Context, run *domain.Run, path string) error {
	doc, err := tei.LoadDocument(path)
	if err != nil {
		return err
	}

	record := domain.Document{
		Path:      path,
		CorpusTag: run.CorpusTag,
		RunID:     run.ID,
	}

	var items []domain.Item
	header, err := tei.FindHeader(doc)
	switch {
	case err == nil:
		fields := tei.Clean(tei.ExtractHeader(header))
		items = buildItems(tei.GroupByKeyword(fields))
	case errors.Is(err, domain.ErrNoHeader):
		// A headerless document is stored with no metadata items.
		logger.Debug("no header in %s", path)
	default:
		return err
	}

	if metrics, ok := tei.MeasureBody(doc); ok {
		record.BodyParsed = true
		record.Chars = metrics.Chars
		record.Words = metrics.Words
		record.Sentences = metrics.Sentences
	}
	record.Ark = findArk(items)

	docID, err := s.documents.SaveDocument(ctx, &record)
	if err != nil {
		return err
	}

	for _, item := range items {
		if err := s.storeItem(ctx, docID, item); err != nil {
			logger.Warn("skipping item at %s in %s: %v", item.OriginPath, path, err)
			run.Errors++
		}
	}
	return nil
}

func (s *IngestService) storeItem(ctx context.Context, docID int64, item domain.Item) error {
	var err error
	switch item.Kind {
	case domain.KindAuthor:
		_, err = s.items.UpsertPerson(ctx, docID, item.OriginPath, *item.Person)
	case domain.KindTitle:
		_, err = s.items.UpsertTitle(ctx, docID, item.OriginPath, *item.Title)
	case domain.KindDate:
		_, err = s.items.UpsertDate(ctx, docID, item.OriginPath, *item.Date)
	case domain.KindIdentifier:
		_, err = s.items.UpsertIdentifier(ctx, docID, item.OriginPath, *item.Identifier)
	default:
		// Unrecognised kinds are preserved in the item stream but have
		// no table of their own.
	}
	return err
}

// findArk returns the first ARK identifier among the items, if any.
func findArk(items []domain.Item) string {
	for _, item := range items {
		if item.Kind != domain.KindIdentifier {
			continue
		}
		if idx := strings.Index(item.Identifier.Value, "ark:/"); idx >= 0 {
			return item.Identifier.Value[idx:]
		}
	}
	return ""
}

// buildItems converts grouped header fields into typed metadata items.
// Rows are rebuilt per source element so a value and its attributes
// stay correlated.
func buildItems(grouped domain.GroupedFields) []domain.Item {
	var items []domain.Item
	for tag, byParent := range grouped {
		kind := domain.KindOfSemantic(tag)
		for parent, attrs := range byParent {
			origin := parent + domain.PathSeparator + tag
			for seq, row := range tei.RowsBySequence(attrs) {
				items = append(items, rowItems(kind, tag, origin, seq, row)...)
			}
		}
	}
	return items
}

// rowItems builds the items of one reshaped row. A single author row
// naming several persons separated by semicolons yields one item per
// person, each inheriting the row's shared attributes.
func rowItems(kind domain.ItemKind, tag, origin string, seq int, row domain.Row) []domain.Item {
	base := domain.Item{Kind: kind, OriginPath: origin, Seq: seq}

	switch kind {
	case domain.KindAuthor:
		var items []domain.Item
		for _, raw := range splitAuthors(row.First(tag)) {
			p := lingua.ParsePerson(raw)
			p.Role = row.First("role")
			p.Key = row.First("key")
			p.Extra = extraAttrs(row, tag, "role", "key")
			item := base
			item.Person = &p
			items = append(items, item)
		}
		return items

	case domain.KindTitle:
		t := domain.Title{
			Text:  row.First(tag),
			Level: row.First("level"),
		}
		if t.Text == "" {
			return nil
		}
		base.Title = &t
		return []domain.Item{base}

	case domain.KindDate:
		raw := row.First(tag)
		edited := row.First("when")
		source := edited
		if source == "" {
			source = raw
		}
		d, _ := lingua.ParseYearDate(source)
		d.Raw = raw
		d.Edited = edited
		base.Date = &d
		return []domain.Item{base}

	case domain.KindIdentifier:
		id := domain.Identifier{
			Value: row.First(tag),
			Type:  row.First("type"),
		}
		if id.Value == "" {
			return nil
		}
		if strings.Contains(id.Value, "http://") || strings.Contains(id.Value, "https://") {
			id.Type = "url"
		}
		base.Identifier = &id
		return []domain.Item{base}

	default:
		base.Unrecognized = &domain.RawField{
			Path:      origin,
			Attribute: tag,
			Value:     row.First(tag),
		}
		return []domain.Item{base}
	}
}

// splitAuthors separates a multi-person rendering on semicolons.
func splitAuthors(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ";") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// extraAttrs collects row attributes with no dedicated field.
func extraAttrs(row domain.Row, consumed ...string) map[string]string {
	skip := make(map[string]bool, len(consumed))
	for _, c := range consumed {
		skip[c] = true
	}
	var extra map[string]string
	for attr := range row {
		if skip[attr] {
			continue
		}
		if v := row.First(attr); v != "" {
			if extra == nil {
				extra = make(map[string]string)
			}
			extra[attr] = v
		}
	}
	return extra
}
