package tei

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/beevik/etree"

	"github.com/obvil-labs/teiscope/internal/core/domain"
)

// enrichmentTag names the XML block holding reconciled metadata,
// appended under the document's header.
const enrichmentTag = "enrichedMetadata"

// AmendHeader re-reads the source document, appends the enriched
// record as a sibling block under its header and writes the result to
// outPath. The original file is left untouched.
func AmendHeader(srcPath, outPath string, record domain.EnrichedRecord) error {
	doc, err := LoadDocument(srcPath)
	if err != nil {
		return err
	}
	header, err := FindHeader(doc)
	if err != nil {
		return err
	}

	// Replace a block from an earlier run rather than stacking them.
	if old := header.SelectElement(enrichmentTag); old != nil {
		header.RemoveChild(old)
	}
	header.AddChild(buildEnrichment(record))

	doc.Indent(2)
	if err := doc.WriteToFile(outPath); err != nil {
		return fmt.Errorf("writing amended document %s: %w", outPath, err)
	}
	return nil
}

func buildEnrichment(record domain.EnrichedRecord) *etree.Element {
	block := etree.NewElement(enrichmentTag)

	if record.Title != "" {
		block.CreateElement("title").SetText(record.Title)
	}
	if record.Date != "" {
		block.CreateElement("date").SetText(record.Date)
	}
	if record.Dewey != "" {
		block.CreateElement("dewey").SetText(record.Dewey)
	}
	score := block.CreateElement("comprehensivenessScore")
	score.SetText(strconv.FormatFloat(record.Score, 'f', 2, 64))

	if len(record.Authors) > 0 {
		authors := block.CreateElement("authors")
		for _, position := range sortedPositions(record.Authors) {
			a := record.Authors[position]
			el := authors.CreateElement("author")
			el.CreateAttr("n", position)
			if a.Raw != "" {
				el.SetText(a.Raw)
			}
			setAttr(el, "firstName", a.FirstName)
			setAttr(el, "lastName", a.LastName)
			setAttr(el, "birth", a.Birth)
			setAttr(el, "death", a.Death)
			setAttr(el, "role", a.Role)
			setAttr(el, "key", a.Key)
			setAttr(el, "alphaKey", a.AlphaKey)
			el.CreateAttr("reconciled", strconv.FormatBool(a.IsReconciliated))
			if a.AgeAtPublication != nil {
				el.CreateAttr("ageAtPublication", strconv.Itoa(*a.AgeAtPublication))
			}
		}
	}
	return block
}

func setAttr(el *etree.Element, key, value string) {
	if value != "" {
		el.CreateAttr(key, value)
	}
}

// sortedPositions orders "author_1", "author_2", ... numerically.
func sortedPositions(authors map[string]domain.AuthorRecord) []string {
	positions := make([]string, 0, len(authors))
	for k := range authors {
		positions = append(positions, k)
	}
	sort.Slice(positions, func(i, j int) bool {
		return positionIndex(positions[i]) < positionIndex(positions[j])
	})
	return positions
}

func positionIndex(position string) int {
	var n int
	if _, err := fmt.Sscanf(position, "author_%d", &n); err != nil {
		return 0
	}
	return n
}
