package parser

import (
	"testing"

	"github.com/rcameron/sheetpipe/pkg/sheetpipe/models"
)

func formulaGrid() *models.RawGrid {
	// Column C (index 2) rows 2-5 hold 1, 2, "x", 4.
	g := gridFromStrings([][]string{
		{"Header", "Header", "Values"},
		{"", "", "1"},
		{"", "", "2"},
		{"", "", "x"},
		{"", "", "4"},
	})
	return g
}

func TestResolveSumSkipsNonNumeric(t *testing.T) {
	g := formulaGrid()
	g.Rows[0] = append(g.Rows[0], models.RawCell{Formula: "=SUM(C2:C5)"})
	r := NewResolver(g, 0)

	val := r.Resolve(0, 3, ColumnHint{})
	n, ok := val.AsNumber()
	if !ok {
		t.Fatalf("expected number, got %v", val)
	}
	// The non-numeric cell does not abort the sum.
	if n != 7 {
		t.Errorf("SUM(C2:C5) = %g, expected 7", n)
	}
}

func TestResolveArithmeticFormula(t *testing.T) {
	g := gridFromStrings([][]string{
		{"8", "1.5", ""},
	})
	g.Rows[0][2] = models.RawCell{Formula: "=A1*B1+2"}
	r := NewResolver(g, 0)

	val := r.Resolve(0, 2, ColumnHint{})
	if n, ok := val.AsNumber(); !ok || n != 14 {
		t.Errorf("A1*B1+2 = %v, expected 14", val)
	}
}

func TestResolveFormulaParenthesesAndNegation(t *testing.T) {
	g := gridFromStrings([][]string{
		{"10", "4", ""},
	})
	g.Rows[0][2] = models.RawCell{Formula: "=(A1-B1)/2"}
	r := NewResolver(g, 0)

	val := r.Resolve(0, 2, ColumnHint{})
	if n, ok := val.AsNumber(); !ok || n != 3 {
		t.Errorf("(A1-B1)/2 = %v, expected 3", val)
	}
}

func TestResolveFormulaUnresolved(t *testing.T) {
	g := gridFromStrings([][]string{
		{"a", "b", ""},
	})
	g.Rows[0][2] = models.RawCell{Formula: `=VLOOKUP(A1,Sheet2!B:C,2)`}
	r := NewResolver(g, 0)

	val := r.Resolve(0, 2, ColumnHint{})
	// Unsupported formulas surface as Unresolved, never a fabricated zero.
	if val.Kind != models.KindUnresolved {
		t.Errorf("expected unresolved, got %v (kind %s)", val, val.Kind)
	}
}

func TestResolveDateRole(t *testing.T) {
	g := gridFromStrings([][]string{
		{"05.12.2025", "garbage"},
	})
	r := NewResolver(g, 0)

	val := r.Resolve(0, 0, ColumnHint{Role: models.RoleDate})
	if val.Kind != models.KindDate || val.Date.String() != "2025-05-12" {
		t.Errorf("date cell = %v, expected 2025-05-12", val)
	}

	// Unparseable content in a date column stays as text for diagnostics.
	val = r.Resolve(0, 1, ColumnHint{Role: models.RoleDate})
	if val.Kind != models.KindText {
		t.Errorf("expected text for unparseable date, got kind %s", val.Kind)
	}
}

func TestResolveClockColumn(t *testing.T) {
	g := gridFromStrings([][]string{
		{"730", "2.5"},
	})
	r := NewResolver(g, 0)
	hint := ColumnHint{Role: models.RoleHours, Clock: true}

	val := r.Resolve(0, 0, hint)
	if val.Kind != models.KindTime || val.Time.String() != "07:30" {
		t.Errorf("clock cell 730 = %v, expected 07:30", val)
	}

	val = r.Resolve(0, 1, hint)
	if val.Kind != models.KindTime || val.Time.String() != "02:30" {
		t.Errorf("clock cell 2.5 = %v, expected 02:30", val)
	}
}

func TestResolveLiterals(t *testing.T) {
	g := gridFromStrings([][]string{
		{"8.5", "North Yard", "", "2025-05-12"},
	})
	r := NewResolver(g, 0)

	if val := r.Resolve(0, 0, ColumnHint{}); val.Kind != models.KindNumber || val.Number != 8.5 {
		t.Errorf("numeric literal = %v", val)
	}
	if val := r.Resolve(0, 1, ColumnHint{}); val.Kind != models.KindText {
		t.Errorf("text literal = %v", val)
	}
	if val := r.Resolve(0, 2, ColumnHint{}); !val.IsEmpty() {
		t.Errorf("empty cell = %v", val)
	}
	// Date-looking text normalizes even outside date columns.
	if val := r.Resolve(0, 3, ColumnHint{}); val.Kind != models.KindDate {
		t.Errorf("date-looking literal = %v", val)
	}
}

func TestEvalArithmetic(t *testing.T) {
	tests := []struct {
		src      string
		expected float64
		ok       bool
	}{
		{"1+2*3", 7, true},
		{"(1+2)*3", 9, true},
		{"-4+10", 6, true},
		{"10/4", 2.5, true},
		{"1/0", 0, false},
		{"1+", 0, false},
		{"foo+1", 0, false},
	}
	for _, tt := range tests {
		n, err := evalArithmetic(tt.src)
		if (err == nil) != tt.ok {
			t.Errorf("evalArithmetic(%q) err = %v, ok expected %v", tt.src, err, tt.ok)
			continue
		}
		if tt.ok && n != tt.expected {
			t.Errorf("evalArithmetic(%q) = %g, expected %g", tt.src, n, tt.expected)
		}
	}
}

func TestResolveSumFallbackWithScale(t *testing.T) {
	// Structured evaluation handles SUM combined with arithmetic.
	g := formulaGrid()
	g.Rows[0] = append(g.Rows[0], models.RawCell{Formula: "=SUM(C2:C5)*2"})
	r := NewResolver(g, 0)

	val := r.Resolve(0, 3, ColumnHint{})
	if n, ok := val.AsNumber(); !ok || n != 14 {
		t.Errorf("SUM(C2:C5)*2 = %v, expected 14", val)
	}
}

func TestResolveCrossColumnSumUnresolved(t *testing.T) {
	g := formulaGrid()
	g.Rows[0] = append(g.Rows[0], models.RawCell{Formula: "=SUM(A2:C5)"})
	r := NewResolver(g, 0)

	val := r.Resolve(0, 3, ColumnHint{})
	if val.Kind != models.KindUnresolved {
		t.Errorf("cross-column SUM should be unresolved, got %v", val)
	}
}
