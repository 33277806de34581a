package parser

import (
	"testing"

	"github.com/rcameron/sheetpipe/pkg/sheetpipe/models"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		input    string
		expected string
		ok       bool
	}{
		{"2025-05-12", "2025-05-12", true},
		{"05-12-2025", "2025-05-12", true},
		{"05.12.2025", "2025-05-12", true},
		{"05/12/2025", "2025-05-12", true},
		{"5.1.2025", "2025-05-01", true},
		{"12/31/2024", "2024-12-31", true},
		{"02/29/2024", "2024-02-29", true}, // leap year
		{"02/29/2025", "", false},         // not a leap year
		{"13.12.2025", "", false},         // month 13 never accepted
		{"2025-13-12", "", false},
		{"", "", false},
		{"not a date", "", false},
		{"hours worked", "", false},
	}

	for _, tt := range tests {
		d, ok := ParseDate(tt.input)
		if ok != tt.ok {
			t.Errorf("ParseDate(%q) ok = %v, expected %v", tt.input, ok, tt.ok)
			continue
		}
		if ok && d.String() != tt.expected {
			t.Errorf("ParseDate(%q) = %s, expected %s", tt.input, d, tt.expected)
		}
	}
}

// Every supported literal encoding must round-trip through the canonical
// ISO form.
func TestParseDateRoundTrip(t *testing.T) {
	encodings := []string{"2025-05-12", "05-12-2025", "05.12.2025", "05/12/2025"}
	for _, s := range encodings {
		d, ok := ParseDate(s)
		if !ok {
			t.Fatalf("ParseDate(%q) failed", s)
		}
		if d.String() != "2025-05-12" {
			t.Errorf("ParseDate(%q) = %s, expected 2025-05-12", s, d)
		}
	}
}

func TestParseMonthDay(t *testing.T) {
	tests := []struct {
		input    string
		refYear  int
		expected string
		ok       bool
	}{
		{"MAY 12", 2025, "2025-05-12", true},
		{"APR 3", 2025, "2025-04-03", true},
		{"may 12", 2025, "2025-05-12", true},
		{"MAY 12", 0, "", false}, // no reference year, strategy disabled
		{"XYZ 12", 2025, "", false},
	}

	for _, tt := range tests {
		d, ok := ParseMonthDay(tt.input, tt.refYear)
		if ok != tt.ok {
			t.Errorf("ParseMonthDay(%q, %d) ok = %v, expected %v", tt.input, tt.refYear, ok, tt.ok)
			continue
		}
		if ok && d.String() != tt.expected {
			t.Errorf("ParseMonthDay(%q, %d) = %s, expected %s", tt.input, tt.refYear, d, tt.expected)
		}
	}
}

func TestDateFromFilename(t *testing.T) {
	tests := []struct {
		path     string
		expected string
		ok       bool
	}{
		{"Timecard_05.12.2025_crew.xlsx", "2025-05-12", true},
		{"export_2025-05-12.csv", "2025-05-12", true},
		{"billing 05-12-2025 final.xlsx", "2025-05-12", true},
		{"/data/in/allocations_5.1.2025_.xlsx", "2025-05-01", true},
		{"TIMECARD MAY 12.xlsx", "2025-05-12", true},
		{"notes.txt", "", false},
	}

	for _, tt := range tests {
		d, ok := DateFromFilename(tt.path, 2025)
		if ok != tt.ok {
			t.Errorf("DateFromFilename(%q) ok = %v, expected %v", tt.path, ok, tt.ok)
			continue
		}
		if ok && d.String() != tt.expected {
			t.Errorf("DateFromFilename(%q) = %s, expected %s", tt.path, d, tt.expected)
		}
	}
}

func TestParseTime(t *testing.T) {
	tests := []struct {
		input    string
		expected string
		ok       bool
	}{
		{"7:30", "07:30", true},
		{"07:30", "07:30", true},
		{"12:30:15", "12:30", true},
		{"7", "07:00", true},
		{"730", "07:30", true},
		{"1430", "14:30", true},
		{"2.5", "02:30", true},
		{"7 PM", "19:00", true},
		{"7:15pm", "19:15", true},
		{"12 AM", "00:00", true},
		{"12 PM", "12:00", true},
		{"25:00", "", false},
		{"2500", "", false},
		{"lunch", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		tm, ok := ParseTime(tt.input)
		if ok != tt.ok {
			t.Errorf("ParseTime(%q) ok = %v, expected %v", tt.input, ok, tt.ok)
			continue
		}
		if ok && tm.String() != tt.expected {
			t.Errorf("ParseTime(%q) = %s, expected %s", tt.input, tm, tt.expected)
		}
	}
}

func TestTimeFromDecimalHours(t *testing.T) {
	tm, ok := TimeFromDecimalHours(2.5)
	if !ok || tm != (models.HourMinute{Hour: 2, Minute: 30}) {
		t.Errorf("TimeFromDecimalHours(2.5) = %v, %v", tm, ok)
	}
	if _, ok := TimeFromDecimalHours(24.0); ok {
		t.Error("TimeFromDecimalHours(24.0) should fail")
	}
	if _, ok := TimeFromDecimalHours(-1); ok {
		t.Error("TimeFromDecimalHours(-1) should fail")
	}
}

func TestCalendarDateValid(t *testing.T) {
	valid := models.CalendarDate{Year: 2024, Month: 2, Day: 29}
	if !valid.Valid() {
		t.Error("2024-02-29 should be valid")
	}
	invalid := models.CalendarDate{Year: 2025, Month: 2, Day: 29}
	if invalid.Valid() {
		t.Error("2025-02-29 should be invalid")
	}
}
