package parser

import (
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/rcameron/sheetpipe/pkg/sheetpipe/models"
)

// Date and time parsing is strategy-ordered: each input is tried against a
// fixed sequence of encodings and the first calendrically valid match wins.
// A match that is syntactically right but invalid (month 13, Feb 30) falls
// through to the next strategy. When nothing matches the functions report
// ok=false; they never substitute the current wall clock for a bad input.

var (
	isoDateRe      = regexp.MustCompile(`^(\d{4})-(\d{1,2})-(\d{1,2})$`)
	mdyDateRe      = regexp.MustCompile(`^(\d{1,2})([-./])(\d{1,2})([-./])(\d{4})$`)
	embeddedDateRe = regexp.MustCompile(`_(\d{1,2})\.(\d{1,2})\.(\d{4})_`)
	monthDayRe     = regexp.MustCompile(`(?i)\b(JAN|FEB|MAR|APR|MAY|JUN|JUL|AUG|SEP|OCT|NOV|DEC)[A-Z]*\.?[ _-](\d{1,2})\b`)
	tripletRe      = regexp.MustCompile(`(\d{2})\D(\d{2})\D(\d{4})`)
	tripletTokenRe = regexp.MustCompile(`^(\d{2})\D(\d{2})\D(\d{4})$`)

	clockTimeRe    = regexp.MustCompile(`^(\d{1,2}):(\d{2})(?::(\d{2}))?$`)
	twelveHourRe   = regexp.MustCompile(`(?i)^(\d{1,2})(?::(\d{2}))?\s*(AM|PM)$`)
	militaryTimeRe = regexp.MustCompile(`^(\d{3,4})$`)
)

var monthAbbrevs = map[string]int{
	"JAN": 1, "FEB": 2, "MAR": 3, "APR": 4, "MAY": 5, "JUN": 6,
	"JUL": 7, "AUG": 8, "SEP": 9, "OCT": 10, "NOV": 11, "DEC": 12,
}

// ParseDate parses a literal date string carrying an explicit year.
// Strategies, in order: ISO YYYY-MM-DD; MM-DD-YYYY with "-", ".", or "/"
// separators; the generic 2/2/4 numeric-triplet heuristic read as
// month/day/year.
func ParseDate(s string) (models.CalendarDate, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return models.CalendarDate{}, false
	}

	if m := isoDateRe.FindStringSubmatch(s); m != nil {
		d := dateFromParts(m[1], m[2], m[3])
		if d.Valid() {
			return d, true
		}
	}

	if m := mdyDateRe.FindStringSubmatch(s); m != nil && m[2] == m[4] {
		d := dateFromParts(m[5], m[1], m[3])
		if d.Valid() {
			return d, true
		}
	}

	if m := tripletTokenRe.FindStringSubmatch(s); m != nil {
		d := dateFromParts(m[3], m[1], m[2])
		if d.Valid() {
			return d, true
		}
	}

	return models.CalendarDate{}, false
}

// ParseMonthDay parses a three-letter-month form such as "MAY 12" or
// "APR 3" against a caller-supplied reference year. A reference year of
// zero disables the strategy, since these encodings carry no year of
// their own.
func ParseMonthDay(s string, refYear int) (models.CalendarDate, bool) {
	if refYear == 0 {
		return models.CalendarDate{}, false
	}
	m := monthDayRe.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return models.CalendarDate{}, false
	}
	month := monthAbbrevs[strings.ToUpper(m[1])]
	day, _ := strconv.Atoi(m[2])
	d := models.CalendarDate{Year: refYear, Month: month, Day: day}
	if !d.Valid() {
		return models.CalendarDate{}, false
	}
	return d, true
}

// DateFromFilename extracts a date embedded in a file name. This is a
// shared contract with upstream file-discovery collaborators; the
// supported patterns are YYYY-MM-DD, MM-DD-YYYY, MM.DD.YYYY, MM/DD/YYYY,
// _MM.DD.YYYY_, M.D.YYYY, and three-letter month + day.
func DateFromFilename(path string, refYear int) (models.CalendarDate, bool) {
	base := filepath.Base(path)
	if ext := filepath.Ext(base); ext != "" {
		base = strings.TrimSuffix(base, ext)
	}

	if m := embeddedDateRe.FindStringSubmatch(base); m != nil {
		d := dateFromParts(m[3], m[1], m[2])
		if d.Valid() {
			return d, true
		}
	}

	// Dotted M.D.YYYY without the underscore guards.
	for _, tok := range strings.FieldsFunc(base, func(r rune) bool { return r == '_' || r == ' ' }) {
		if d, ok := ParseDate(tok); ok {
			return d, true
		}
	}

	if d, ok := ParseMonthDay(base, refYear); ok {
		return d, true
	}

	if m := tripletRe.FindStringSubmatch(base); m != nil {
		d := dateFromParts(m[3], m[1], m[2])
		if d.Valid() {
			return d, true
		}
	}

	return models.CalendarDate{}, false
}

// ParseTime parses a time-of-day string. Supported encodings, in order:
// HH:MM[:SS], 12-hour with AM/PM, 3/4-digit military without a colon,
// bare hour ("7" means 07:00), and fractional decimal hours ("2.5" means
// 02:30).
func ParseTime(s string) (models.HourMinute, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return models.HourMinute{}, false
	}

	if m := clockTimeRe.FindStringSubmatch(s); m != nil {
		h, _ := strconv.Atoi(m[1])
		min, _ := strconv.Atoi(m[2])
		t := models.HourMinute{Hour: h, Minute: min}
		if t.Valid() {
			return t, true
		}
		return models.HourMinute{}, false
	}

	if m := twelveHourRe.FindStringSubmatch(s); m != nil {
		h, _ := strconv.Atoi(m[1])
		min := 0
		if m[2] != "" {
			min, _ = strconv.Atoi(m[2])
		}
		if h < 1 || h > 12 || min > 59 {
			return models.HourMinute{}, false
		}
		if strings.EqualFold(m[3], "PM") && h != 12 {
			h += 12
		}
		if strings.EqualFold(m[3], "AM") && h == 12 {
			h = 0
		}
		return models.HourMinute{Hour: h, Minute: min}, true
	}

	if m := militaryTimeRe.FindStringSubmatch(s); m != nil {
		digits := m[1]
		h, _ := strconv.Atoi(digits[:len(digits)-2])
		min, _ := strconv.Atoi(digits[len(digits)-2:])
		t := models.HourMinute{Hour: h, Minute: min}
		if t.Valid() {
			return t, true
		}
		return models.HourMinute{}, false
	}

	if h, err := strconv.Atoi(s); err == nil {
		if h >= 0 && h <= 23 {
			return models.HourMinute{Hour: h}, true
		}
		return models.HourMinute{}, false
	}

	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return TimeFromDecimalHours(f)
	}

	return models.HourMinute{}, false
}

// TimeFromDecimalHours converts fractional hours (2.5) into a clock time
// (02:30). Values outside one day are rejected.
func TimeFromDecimalHours(f float64) (models.HourMinute, bool) {
	if f < 0 || f >= 24 {
		return models.HourMinute{}, false
	}
	h := int(f)
	min := int((f-float64(h))*60 + 0.5)
	if min == 60 {
		h++
		min = 0
	}
	t := models.HourMinute{Hour: h, Minute: min}
	if !t.Valid() {
		return models.HourMinute{}, false
	}
	return t, true
}

func dateFromParts(year, month, day string) models.CalendarDate {
	y, _ := strconv.Atoi(year)
	m, _ := strconv.Atoi(month)
	d, _ := strconv.Atoi(day)
	return models.CalendarDate{Year: y, Month: m, Day: d}
}
