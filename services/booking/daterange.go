package booking

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"
)

// DateLayout is the canonical calendar date format used everywhere: dates are
// compared as strings, which works because lexicographic order on this layout
// equals chronological order.
const DateLayout = "2006-01-02"

var strictDateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Layouts tried for loose natural-language input, after word capitalization.
// Year-bearing layouts first; year-less forms fall through to the roll-forward
// logic in NormalizeDate.
var looseLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"Jan 2 2006",
	"January 2 2006",
	"2 Jan 2006",
	"2 January 2006",
	"Jan 2",
	"January 2",
	"2 Jan",
	"2 January",
}

// NormalizeDate turns a date-like string into canonical "YYYY-MM-DD" form.
// Strict input passes through unchanged. Loose input ("oct 12", "Jan 3 2026")
// is parsed leniently; when the year is missing or earlier than refYear it is
// rolled forward to refYear, and again to refYear+1 if the result is still
// before now's date. Conversational dates omit the year and must never
// silently resolve to the past.
func NormalizeDate(raw string, refYear int, now time.Time) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", fmt.Errorf("empty date")
	}
	if strictDateRe.MatchString(s) {
		return s, nil
	}

	var t time.Time
	parsed := false
	cleaned := capitalizeWords(strings.ReplaceAll(s, ",", " "))
	for _, layout := range looseLayouts {
		if v, err := time.Parse(layout, cleaned); err == nil {
			t = v
			parsed = true
			break
		}
	}
	if !parsed {
		return "", fmt.Errorf("unrecognized date %q", raw)
	}

	if t.Year() < refYear {
		t = time.Date(refYear, t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if t.Before(today) {
		t = time.Date(refYear+1, t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	}
	return t.Format(DateLayout), nil
}

// Nights returns the whole-day length of [checkIn, checkOut). Checkout must be
// strictly after checkin: a zero-night range is an error.
func Nights(checkIn, checkOut string) (int, error) {
	in, err := ParseDate(checkIn)
	if err != nil {
		return 0, err
	}
	out, err := ParseDate(checkOut)
	if err != nil {
		return 0, err
	}
	n := int(math.Ceil(out.Sub(in).Hours() / 24))
	if n < 1 {
		return 0, NewBookingError(CodeInvalidRange, "check-out must be after check-in")
	}
	return n, nil
}

// Overlaps reports whether the half-open intervals [aStart, aEnd) and
// [bStart, bEnd) intersect. A checkout on another booking's checkin day does
// not overlap, which permits back-to-back turnover.
func Overlaps(aStart, aEnd, bStart, bEnd string) bool {
	return aStart < bEnd && bStart < aEnd
}

// ParseDate parses a canonical "YYYY-MM-DD" date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

func capitalizeWords(s string) string {
	fields := strings.Fields(strings.ToLower(s))
	for i, f := range fields {
		fields[i] = strings.ToUpper(f[:1]) + f[1:]
	}
	return strings.Join(fields, " ")
}
