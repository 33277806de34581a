package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/rcameron/sheetpipe/pkg/sheetpipe/models"
	"github.com/xuri/excelize/v2"
)

// Resolver converts raw cells into typed CellValues against one grid.
// It is stateless apart from the grid it reads, so a single Resolver is
// safe to share across goroutines.
type Resolver struct {
	grid *models.RawGrid
	// refYear anchors month-day date forms that carry no year; zero
	// disables that strategy.
	refYear int
}

// NewResolver returns a resolver bound to one loaded grid.
func NewResolver(grid *models.RawGrid, refYear int) *Resolver {
	return &Resolver{grid: grid, refYear: refYear}
}

// ColumnHint carries per-column context into resolution.
type ColumnHint struct {
	// Role is the column's canonical role.
	Role models.CanonicalRole
	// Clock marks an Hours-adjacent column holding clock times rather
	// than durations (start/end time columns).
	Clock bool
}

var (
	sumRangeRe = regexp.MustCompile(`(?i)SUM\(\s*([A-Z]{1,3})(\d+)\s*:\s*([A-Z]{1,3})(\d+)\s*\)`)
	cellRefRe  = regexp.MustCompile(`\b([A-Z]{1,3})(\d+)\b`)
)

// Resolve converts the cell at (row, col) into a CellValue.
//
// Formula cells go through the structured evaluator first, then the two
// narrow regex fallbacks (same-column SUM range, then arithmetic with
// substituted references); only when all three fail does the cell become
// Unresolved. Content is never replaced with a fabricated zero or the
// current time.
func (r *Resolver) Resolve(row, col int, hint ColumnHint) models.CellValue {
	cell := r.grid.Cell(row, col)

	if cell.Formula != "" {
		return r.resolveFormula(cell)
	}

	raw := strings.TrimSpace(cell.Value)
	if raw == "" {
		return models.EmptyCell()
	}

	if hint.Role == models.RoleDate {
		if d, ok := ParseDate(raw); ok {
			return models.DateCell(d)
		}
		if d, ok := ParseMonthDay(raw, r.refYear); ok {
			return models.DateCell(d)
		}
		// Unparseable content in a date column stays visible as text;
		// the assembler counts it as a date parse failure.
		return models.TextCell(raw)
	}

	if hint.Clock {
		if t, ok := ParseTime(raw); ok {
			return models.TimeCell(t)
		}
	}

	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		// Large integers in an Hours-adjacent column read as military
		// clock times (730 is 07:30, not 730 hours).
		if hint.Role == models.RoleHours && f > 24 {
			if t, ok := ParseTime(raw); ok {
				return models.TimeCell(t)
			}
		}
		return models.NumberCell(f)
	}

	// Date-looking text outside date columns still normalizes.
	if d, ok := ParseDate(raw); ok {
		return models.DateCell(d)
	}

	return models.TextCell(raw)
}

func (r *Resolver) resolveFormula(cell models.RawCell) models.CellValue {
	src := strings.TrimPrefix(strings.TrimSpace(cell.Formula), "=")

	if n, err := r.eval(src, 0); err == nil {
		return models.NumberCell(n)
	}

	if n, ok := r.sumRangeFallback(src); ok {
		return models.NumberCell(n)
	}

	if n, ok := r.substitutionFallback(src); ok {
		return models.NumberCell(n)
	}

	return models.UnresolvedCell(src)
}

// sumRangeFallback evaluates the first SUM(range) in the source over a
// same-column contiguous row range. Non-numeric cells inside the range
// are skipped, not fatal.
func (r *Resolver) sumRangeFallback(src string) (float64, bool) {
	m := sumRangeRe.FindStringSubmatch(src)
	if m == nil {
		return 0, false
	}
	return r.sumRange(m[1], m[2], m[3], m[4])
}

func (r *Resolver) sumRange(colA, rowA, colB, rowB string) (float64, bool) {
	if colA != colB {
		// Cross-column ranges are outside the evaluator's scope.
		return 0, false
	}
	col, _, err := excelize.CellNameToCoordinates(colA + rowA)
	if err != nil {
		return 0, false
	}
	r1, err1 := strconv.Atoi(rowA)
	r2, err2 := strconv.Atoi(rowB)
	if err1 != nil || err2 != nil {
		return 0, false
	}
	if r1 > r2 {
		r1, r2 = r2, r1
	}

	sum := 0.0
	for row := r1; row <= r2; row++ {
		if n, ok := r.numericAt(row-1, col-1); ok {
			sum += n
		}
	}
	return sum, true
}

// substitutionFallback replaces every cell reference with its resolved
// numeric value and evaluates the remaining pure arithmetic.
func (r *Resolver) substitutionFallback(src string) (float64, bool) {
	failed := false
	replaced := cellRefRe.ReplaceAllStringFunc(src, func(ref string) string {
		col, row, err := excelize.CellNameToCoordinates(ref)
		if err != nil {
			failed = true
			return ref
		}
		n, ok := r.numericAt(row-1, col-1)
		if !ok {
			failed = true
			return ref
		}
		return strconv.FormatFloat(n, 'g', -1, 64)
	})
	if failed {
		return 0, false
	}
	n, err := evalArithmetic(replaced)
	if err != nil {
		return 0, false
	}
	return n, true
}

// numericAt resolves the literal numeric value of a cell, following one
// level of formula indirection.
func (r *Resolver) numericAt(row, col int) (float64, bool) {
	cell := r.grid.Cell(row, col)
	if cell.Formula != "" {
		src := strings.TrimPrefix(strings.TrimSpace(cell.Formula), "=")
		// Depth-limited: referenced formulas may not reference further.
		if n, err := evalArithmetic(src); err == nil {
			return n, true
		}
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(cell.Value), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// --- minimal formula evaluator -----------------------------------------
//
// Grammar: expr := term (('+'|'-') term)* ; term := factor (('*'|'/')
// factor)* ; factor := number | cellref | SUM(range) | '(' expr ')' |
// '-' factor. No cross-sheet references, no string functions. This
// matches the complexity the source data actually needs and keeps the
// evaluator auditable.

const maxEvalDepth = 8

type evaluator struct {
	r      *Resolver
	src    string
	pos    int
	depth  int
	noRefs bool
}

// eval evaluates a formula expression against the grid.
func (r *Resolver) eval(src string, depth int) (float64, error) {
	e := &evaluator{r: r, src: src, depth: depth}
	n, err := e.parseExpr()
	if err != nil {
		return 0, err
	}
	e.skipSpace()
	if e.pos != len(e.src) {
		return 0, fmt.Errorf("trailing content at offset %d", e.pos)
	}
	return n, nil
}

// evalArithmetic evaluates a pure arithmetic expression with no cell
// references or functions.
func evalArithmetic(src string) (float64, error) {
	e := &evaluator{src: src, noRefs: true}
	n, err := e.parseExpr()
	if err != nil {
		return 0, err
	}
	e.skipSpace()
	if e.pos != len(e.src) {
		return 0, fmt.Errorf("trailing content at offset %d", e.pos)
	}
	return n, nil
}

func (e *evaluator) parseExpr() (float64, error) {
	n, err := e.parseTerm()
	if err != nil {
		return 0, err
	}
	for {
		e.skipSpace()
		switch e.peek() {
		case '+':
			e.pos++
			m, err := e.parseTerm()
			if err != nil {
				return 0, err
			}
			n += m
		case '-':
			e.pos++
			m, err := e.parseTerm()
			if err != nil {
				return 0, err
			}
			n -= m
		default:
			return n, nil
		}
	}
}

func (e *evaluator) parseTerm() (float64, error) {
	n, err := e.parseFactor()
	if err != nil {
		return 0, err
	}
	for {
		e.skipSpace()
		switch e.peek() {
		case '*':
			e.pos++
			m, err := e.parseFactor()
			if err != nil {
				return 0, err
			}
			n *= m
		case '/':
			e.pos++
			m, err := e.parseFactor()
			if err != nil {
				return 0, err
			}
			if m == 0 {
				return 0, fmt.Errorf("division by zero")
			}
			n /= m
		default:
			return n, nil
		}
	}
}

func (e *evaluator) parseFactor() (float64, error) {
	e.skipSpace()
	c := e.peek()

	switch {
	case c == '-':
		e.pos++
		n, err := e.parseFactor()
		return -n, err
	case c == '(':
		e.pos++
		n, err := e.parseExpr()
		if err != nil {
			return 0, err
		}
		e.skipSpace()
		if e.peek() != ')' {
			return 0, fmt.Errorf("missing closing parenthesis")
		}
		e.pos++
		return n, nil
	case c >= '0' && c <= '9', c == '.':
		return e.parseNumber()
	case c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z':
		return e.parseIdent()
	}
	return 0, fmt.Errorf("unexpected character %q at offset %d", c, e.pos)
}

func (e *evaluator) parseNumber() (float64, error) {
	start := e.pos
	for e.pos < len(e.src) {
		c := e.src[e.pos]
		if (c >= '0' && c <= '9') || c == '.' {
			e.pos++
			continue
		}
		break
	}
	return strconv.ParseFloat(e.src[start:e.pos], 64)
}

func (e *evaluator) parseIdent() (float64, error) {
	start := e.pos
	for e.pos < len(e.src) {
		c := e.src[e.pos]
		if (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') {
			e.pos++
			continue
		}
		break
	}
	ident := e.src[start:e.pos]

	if strings.EqualFold(ident, "SUM") {
		return e.parseSum()
	}

	if e.noRefs || e.r == nil {
		return 0, fmt.Errorf("unexpected identifier %q", ident)
	}
	if e.depth >= maxEvalDepth {
		return 0, fmt.Errorf("reference depth exceeded")
	}

	col, row, err := excelize.CellNameToCoordinates(strings.ToUpper(ident))
	if err != nil {
		return 0, fmt.Errorf("not a cell reference: %q", ident)
	}
	cell := e.r.grid.Cell(row-1, col-1)
	if cell.Formula != "" {
		src := strings.TrimPrefix(strings.TrimSpace(cell.Formula), "=")
		return e.r.eval(src, e.depth+1)
	}
	n, err := strconv.ParseFloat(strings.TrimSpace(cell.Value), 64)
	if err != nil {
		return 0, fmt.Errorf("referenced cell %s is not numeric", ident)
	}
	return n, nil
}

func (e *evaluator) parseSum() (float64, error) {
	if e.noRefs || e.r == nil {
		return 0, fmt.Errorf("SUM not available without a grid")
	}
	e.skipSpace()
	if e.peek() != '(' {
		return 0, fmt.Errorf("SUM requires a range argument")
	}
	// Delegate range handling to the shared same-column summation.
	rest := e.src[e.pos:]
	end := strings.IndexByte(rest, ')')
	if end < 0 {
		return 0, fmt.Errorf("unterminated SUM range")
	}
	arg := rest[1:end]
	m := sumRangeRe.FindStringSubmatch("SUM(" + arg + ")")
	if m == nil {
		return 0, fmt.Errorf("unsupported SUM argument %q", arg)
	}
	n, ok := e.r.sumRange(m[1], m[2], m[3], m[4])
	if !ok {
		return 0, fmt.Errorf("unsupported SUM range %q", arg)
	}
	e.pos += end + 1
	return n, nil
}

func (e *evaluator) peek() byte {
	if e.pos >= len(e.src) {
		return 0
	}
	return e.src[e.pos]
}

func (e *evaluator) skipSpace() {
	for e.pos < len(e.src) && (e.src[e.pos] == ' ' || e.src[e.pos] == '\t') {
		e.pos++
	}
}
