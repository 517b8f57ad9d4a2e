package tei

import (
	"regexp"
	"strings"

	"github.com/beevik/etree"

	"github.com/obvil-labs/teiscope/internal/lingua"
)

// BodyMetrics summarises the text body of a parsed document.
type BodyMetrics struct {
	Chars     int
	Words     int
	Sentences int
}

var sentenceEnd = regexp.MustCompile(`[.!?]+`)

// MeasureBody locates the body element anywhere under the root and
// computes character, word and sentence counts over its text. The
// second return value is false when the body is missing or
// ill-formed; the document is still usable, only flagged.
func MeasureBody(doc *etree.Document) (BodyMetrics, bool) {
	root := doc.Root()
	if root == nil {
		return BodyMetrics{}, false
	}
	body := findDescendant(root, "body")
	if body == nil {
		return BodyMetrics{}, false
	}

	var pieces []string
	collectText(body, &pieces)
	text := lingua.NormalizeString(strings.Join(pieces, " "))

	m := BodyMetrics{
		Chars: len([]rune(text)),
		Words: len(strings.Fields(text)),
	}
	m.Sentences = len(sentenceEnd.FindAllString(text, -1))
	if m.Sentences == 0 && m.Words > 0 {
		m.Sentences = 1
	}
	return m, true
}

func findDescendant(el *etree.Element, tag string) *etree.Element {
	for _, child := range el.ChildElements() {
		if child.Tag == tag {
			return child
		}
		if found := findDescendant(child, tag); found != nil {
			return found
		}
	}
	return nil
}

func collectText(el *etree.Element, pieces *[]string) {
	if t := el.Text(); t != "" {
		*pieces = append(*pieces, t)
	}
	for _, child := range el.ChildElements() {
		collectText(child, pieces)
	}
}
