// Package models defines data structures for normalized record extraction.
package models

import "fmt"

// CellKind identifies the resolved type of a spreadsheet cell.
type CellKind int

const (
	// KindEmpty is a cell with no content.
	KindEmpty CellKind = iota
	// KindNumber is a numeric cell.
	KindNumber
	// KindText is a textual cell.
	KindText
	// KindDate is a cell resolved to a calendar date.
	KindDate
	// KindTime is a cell resolved to a time of day.
	KindTime
	// KindFormula is a formula cell prior to resolution.
	KindFormula
	// KindUnresolved is a cell whose resolution was attempted and failed.
	// It is never silently replaced with a default value.
	KindUnresolved
)

// String returns the kind name used in diagnostics and serialized output.
func (k CellKind) String() string {
	switch k {
	case KindEmpty:
		return "empty"
	case KindNumber:
		return "number"
	case KindText:
		return "text"
	case KindDate:
		return "date"
	case KindTime:
		return "time"
	case KindFormula:
		return "formula"
	case KindUnresolved:
		return "unresolved"
	}
	return "unknown"
}

// CellValue is the tagged variant for a resolved cell. Exactly one payload
// field is meaningful, selected by Kind.
type CellValue struct {
	// Kind selects the payload field.
	Kind CellKind `json:"kind"`
	// Number is the numeric payload (Kind == KindNumber).
	Number float64 `json:"number,omitempty"`
	// Text is the textual payload (Kind == KindText) or the formula
	// source (Kind == KindFormula or KindUnresolved).
	Text string `json:"text,omitempty"`
	// Date is the date payload (Kind == KindDate).
	Date CalendarDate `json:"date,omitzero"`
	// Time is the time-of-day payload (Kind == KindTime).
	Time HourMinute `json:"time,omitzero"`
}

// EmptyCell returns the empty cell value.
func EmptyCell() CellValue { return CellValue{Kind: KindEmpty} }

// NumberCell returns a numeric cell value.
func NumberCell(n float64) CellValue { return CellValue{Kind: KindNumber, Number: n} }

// TextCell returns a textual cell value.
func TextCell(s string) CellValue { return CellValue{Kind: KindText, Text: s} }

// DateCell returns a date cell value.
func DateCell(d CalendarDate) CellValue { return CellValue{Kind: KindDate, Date: d} }

// TimeCell returns a time-of-day cell value.
func TimeCell(t HourMinute) CellValue { return CellValue{Kind: KindTime, Time: t} }

// FormulaCell returns an unresolved formula cell carrying its source text.
func FormulaCell(src string) CellValue { return CellValue{Kind: KindFormula, Text: src} }

// UnresolvedCell returns a cell whose resolution failed, keeping the raw
// content for diagnostics.
func UnresolvedCell(src string) CellValue { return CellValue{Kind: KindUnresolved, Text: src} }

// IsEmpty reports whether the cell carries no value.
func (v CellValue) IsEmpty() bool { return v.Kind == KindEmpty }

// AsNumber returns the numeric payload and whether the cell is numeric.
func (v CellValue) AsNumber() (float64, bool) {
	if v.Kind == KindNumber {
		return v.Number, true
	}
	return 0, false
}

// AsText returns the textual payload and whether the cell is textual.
func (v CellValue) AsText() (string, bool) {
	if v.Kind == KindText {
		return v.Text, true
	}
	return "", false
}

// String renders the cell for diagnostics output.
func (v CellValue) String() string {
	switch v.Kind {
	case KindEmpty:
		return ""
	case KindNumber:
		return fmt.Sprintf("%g", v.Number)
	case KindText, KindFormula, KindUnresolved:
		return v.Text
	case KindDate:
		return v.Date.String()
	case KindTime:
		return v.Time.String()
	}
	return ""
}

// CalendarDate is a civil date with no time zone.
type CalendarDate struct {
	// Year is the four-digit year.
	Year int `json:"year"`
	// Month is 1-12.
	Month int `json:"month"`
	// Day is 1-31.
	Day int `json:"day"`
}

// Valid reports whether the date is calendrically valid, including leap
// years. A syntactically matched but invalid date (month 13, Feb 30) must
// fall through to the next parse strategy rather than be accepted.
func (d CalendarDate) Valid() bool {
	if d.Year < 1 || d.Month < 1 || d.Month > 12 || d.Day < 1 {
		return false
	}
	return d.Day <= daysInMonth(d.Year, d.Month)
}

// IsZero reports whether the date is the zero value.
func (d CalendarDate) IsZero() bool { return d == CalendarDate{} }

// Before reports whether d is strictly earlier than other.
func (d CalendarDate) Before(other CalendarDate) bool {
	if d.Year != other.Year {
		return d.Year < other.Year
	}
	if d.Month != other.Month {
		return d.Month < other.Month
	}
	return d.Day < other.Day
}

// String formats the date as ISO YYYY-MM-DD.
func (d CalendarDate) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

func daysInMonth(year, month int) int {
	switch month {
	case 1, 3, 5, 7, 8, 10, 12:
		return 31
	case 4, 6, 9, 11:
		return 30
	case 2:
		if year%4 == 0 && (year%100 != 0 || year%400 == 0) {
			return 29
		}
		return 28
	}
	return 0
}

// HourMinute is a time of day without a date.
type HourMinute struct {
	// Hour is 0-23.
	Hour int `json:"hour"`
	// Minute is 0-59.
	Minute int `json:"minute"`
}

// Valid reports whether the time is within a single day.
func (t HourMinute) Valid() bool {
	return t.Hour >= 0 && t.Hour <= 23 && t.Minute >= 0 && t.Minute <= 59
}

// String formats the time as HH:MM.
func (t HourMinute) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}
