package services

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/obvil-labs/teiscope/internal/core/domain"
	"github.com/obvil-labs/teiscope/internal/core/ports/driving"
	"github.com/obvil-labs/teiscope/internal/logger"
	"github.com/obvil-labs/teiscope/internal/tei"
)

// ExportService writes enriched records to CSV, YAML and amended TEI
// outputs.
type ExportService struct{}

var _ driving.Exporter = (*ExportService)(nil)

// NewExportService returns an exporter.
func NewExportService() *ExportService {
	return &ExportService{}
}

var csvHeader = []string{
	"document", "authors", "date", "title", "dewey",
	"meta-data_comprehensiveness_score",
}

// ExportCSV writes one row per enriched record. Authors appear in
// positional order, joined with "; ".
func (e *ExportService) ExportCSV(path string, records []domain.EnrichedRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}
	for _, r := range records {
		row := []string{
			r.DocumentPath,
			joinAuthors(r.Authors),
			r.Date,
			r.Title,
			r.Dewey,
			strconv.FormatFloat(r.Score, 'f', 2, 64),
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("writing csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flushing csv: %w", err)
	}
	logger.Info("wrote %d records to %s", len(records), path)
	return nil
}

// SaveReport writes the full enriched records as a YAML document.
func (e *ExportService) SaveReport(path string, records []domain.EnrichedRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating report file: %w", err)
	}
	defer f.Close()

	enc := yaml.NewEncoder(f)
	enc.SetIndent(2)
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("closing report encoder: %w", err)
	}
	logger.Info("wrote report for %d records to %s", len(records), path)
	return nil
}

// WriteAmended copies each record's source document into outputDir
// with the enriched metadata appended to its header. A source that can
// no longer be read or amended is logged and skipped.
func (e *ExportService) WriteAmended(outputDir string, records []domain.EnrichedRecord) error {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	for _, r := range records {
		outPath := filepath.Join(outputDir, filepath.Base(r.DocumentPath))
		if err := tei.AmendHeader(r.DocumentPath, outPath, r); err != nil {
			logger.Warn("amending %s: %v", r.DocumentPath, err)
			continue
		}
		logger.Debug("amended %s", outPath)
	}
	return nil
}

// joinAuthors renders the positioned authors in order for CSV output.
func joinAuthors(authors map[string]domain.AuthorRecord) string {
	positions := make([]string, 0, len(authors))
	for p := range authors {
		positions = append(positions, p)
	}
	sort.Slice(positions, func(i, j int) bool {
		return positionNumber(positions[i]) < positionNumber(positions[j])
	})

	out := ""
	for i, p := range positions {
		if i > 0 {
			out += "; "
		}
		out += authors[p].Raw
	}
	return out
}

func positionNumber(position string) int {
	var n int
	fmt.Sscanf(position, "author_%d", &n)
	return n
}
