package tei

import (
	"regexp"
	"strings"

	"github.com/obvil-labs/teiscope/internal/core/domain"
)

// Denylists for structurally uninteresting entries. Tag patterns are
// matched against the final path segment; the projectDesc pattern is
// additionally tested against the full path.
var (
	unwantedTags = regexp.MustCompile(
		`^(?:note|..?|.*at 0x.*|projectDesc.*)$|:` + renditionAttr + `$`)

	unwantedValues = regexp.MustCompile(
		`^(?:$|CONVERT-TARGET:.*|ARTFL Frantext)`)
)

// Clean discards entries whose key matches the tag denylist and
// values matching the placeholder denylist. A key with no surviving
// values is removed entirely. The input map is returned after
// in-place filtering.
func Clean(fields domain.HeaderFields) domain.HeaderFields {
	for key, values := range fields {
		if unwantedTags.MatchString(domain.TagOfKey(key)) ||
			strings.Contains(key, domain.PathSeparator+"projectDesc") {
			delete(fields, key)
			continue
		}

		kept := values[:0]
		for _, v := range values {
			if !unwantedValues.MatchString(v.Value) {
				kept = append(kept, v)
			}
		}
		if len(kept) == 0 {
			delete(fields, key)
			continue
		}
		fields[key] = kept
	}
	return fields
}
