package lingua

import (
	"regexp"
	"strconv"

	"github.com/obvil-labs/teiscope/internal/core/domain"
)

// dateWindow matches a 4-consecutive-character year window: two
// required digits (millennium, century) followed by two positions
// that independently resolve to a digit or stay unknown. Alphabetic
// noise may surround the window ("circa 17.2.").
var dateWindow = regexp.MustCompile(`(-?[0-9])([0-9])(.)(.)`)

// ParseYearDate parses a year date into its four positions. The
// second return value is false when no window was found; the digits
// of the returned date are then all unknown.
func ParseYearDate(value string) (domain.PublicationDate, bool) {
	d := domain.PublicationDate{
		Raw:        value,
		Millennium: domain.UnknownDigit,
		Century:    domain.UnknownDigit,
		Decade:     domain.UnknownDigit,
		Year:       domain.UnknownDigit,
		Deduced:    domain.UnknownDigit,
	}

	m := dateWindow.FindStringSubmatch(value)
	if m == nil {
		return d, false
	}

	d.Millennium = digitOrUnknown(m[1])
	d.Century = digitOrUnknown(m[2])
	d.Decade = digitOrUnknown(m[3])
	d.Year = digitOrUnknown(m[4])

	if d.Decade != domain.UnknownDigit && d.Year != domain.UnknownDigit {
		combined := strconv.Itoa(d.Millennium) + strconv.Itoa(d.Century) +
			strconv.Itoa(d.Decade) + strconv.Itoa(d.Year)
		if n, err := strconv.Atoi(combined); err == nil {
			d.Deduced = n
		}
	}

	return d, true
}

// digitOrUnknown resolves one captured position. Positions are single
// characters except the millennium, which may carry a leading minus.
func digitOrUnknown(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return domain.UnknownDigit
	}
	return n
}
