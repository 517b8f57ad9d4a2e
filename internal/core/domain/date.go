package domain

import (
	"strconv"
	"strings"
)

// UnknownDigit is the sentinel for a date position that could not be
// resolved to a digit.
const UnknownDigit = -1

// DatePlaceholder fills unknown positions when a partial date is
// displayed, e.g. "17..".
const DatePlaceholder = "."

// PublicationDate is either a fully resolved 4-digit year or a
// partial date of up to four independently-known digits.
type PublicationDate struct {
	ID int64

	// Raw is the date string as extracted.
	Raw string

	// Edited is the normalised date attribute ("when"), preferred
	// over Raw when both exist.
	Edited string

	// The four positions of the year, each a digit 0-9 or
	// UnknownDigit.
	Millennium int
	Century    int
	Decade     int
	Year       int

	// Deduced is the combined 4-digit year when the decade and year
	// positions are both known, otherwise UnknownDigit.
	Deduced int
}

// CandidateYear resolves the date to a numeric candidate for
// earliest-date selection. A fully deduced year is returned as-is.
// A partial date resolves only when its known digits are contiguous:
// unknown leading positions are trimmed and unknown trailing
// positions truncate the number ("17??" → 17), but an interior gap
// ("17?9") makes the date unresolvable.
func (d PublicationDate) CandidateYear() (int, bool) {
	if d.Deduced != UnknownDigit {
		return d.Deduced, true
	}

	var b strings.Builder
	for _, digit := range [4]int{d.Millennium, d.Century, d.Decade, d.Year} {
		if digit == UnknownDigit {
			b.WriteByte(' ')
		} else {
			b.WriteByte(byte('0' + digit))
		}
	}
	s := strings.TrimSpace(b.String())
	if s == "" || strings.Contains(s, " ") {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}

// DisplayYear renders a candidate year padded to four characters with
// the placeholder, e.g. 17 → "17..". An unresolvable date set is
// rendered as "....".
func DisplayYear(year int, ok bool) string {
	if !ok {
		return strings.Repeat(DatePlaceholder, 4)
	}
	s := strconv.Itoa(year)
	for len(s) < 4 {
		s += DatePlaceholder
	}
	return s
}
