package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rcameron/sheetpipe/pkg/sheetpipe/models"
)

// AssembleParams holds record assembly parameters.
type AssembleParams struct {
	// DailyCap bounds the summed hours for one row. Individual cells are
	// clamped to [0, 24] before summing.
	DailyCap float64
}

// DefaultAssembleParams returns the default assembly parameters.
func DefaultAssembleParams() AssembleParams {
	return AssembleParams{DailyCap: 16}
}

// perCellHoursCap bounds a single hours cell before summation.
const perCellHoursCap = 24

// RowStats reports what assembling one row did, for diagnostics.
type RowStats struct {
	// Unresolved counts cells whose resolution failed in this row.
	Unresolved int
	// DatesUnparsed counts date-role cells no strategy could parse.
	DatesUnparsed int
	// Dropped reports whether the row failed the validity rule.
	Dropped bool
}

// Assembler combines classified columns and resolved values into
// normalized records for one sheet.
type Assembler struct {
	grid     *models.RawGrid
	headers  []string
	mapping  models.ColumnMapping
	hints    map[int]ColumnHint
	resolver *Resolver
	params   AssembleParams
}

// NewAssembler builds an assembler for one grid. headers holds the header
// row's cell texts by column; pass nil for schema-less passthrough.
func NewAssembler(grid *models.RawGrid, headers []string, mapping models.ColumnMapping, resolver *Resolver, params AssembleParams) *Assembler {
	hints := make(map[int]ColumnHint, len(mapping))
	for col, role := range mapping {
		hint := ColumnHint{Role: role}
		if role == models.RoleHours && col < len(headers) {
			hint.Clock = clockColumn(headers[col])
		}
		hints[col] = hint
	}
	return &Assembler{
		grid:     grid,
		headers:  headers,
		mapping:  mapping,
		hints:    hints,
		resolver: resolver,
		params:   params,
	}
}

// clockColumn reports whether an Hours-role header names a clock time
// (start/end) rather than a duration.
func clockColumn(header string) bool {
	norm := NormalizeHeaderText(header)
	if strings.Contains(norm, "start") || strings.Contains(norm, "end") {
		return true
	}
	return strings.Contains(norm, "time") &&
		!strings.Contains(norm, "hours") && !strings.Contains(norm, "duration")
}

// AssembleRow resolves every cell of one data row and emits zero or one
// record. fallbackDate, when non-nil, fills a missing date field (dates
// carried in the filename rather than a column). The sole hard validity
// rule: a row with no date and no employee identifier produces no record.
// Everything else is optional.
func (a *Assembler) AssembleRow(row int, fallbackDate *models.CalendarDate) (*models.NormalizedRecord, RowStats) {
	var stats RowStats

	rec := models.NormalizedRecord{
		SourceFile: a.grid.SourceFile,
		SheetName:  a.grid.SheetName,
		RowIndex:   row,
		RawFields:  make(map[string]models.CellValue),
	}

	width := len(a.grid.Rows[row])
	hoursTotal := 0.0
	haveHours := false

	for col := 0; col < width; col++ {
		raw := a.grid.Cell(row, col)
		if raw.IsEmpty() {
			continue
		}

		hint := a.hints[col]
		val := a.resolver.Resolve(row, col, hint)
		rec.RawFields[a.fieldName(col)] = val

		if val.Kind == models.KindUnresolved {
			stats.Unresolved++
			continue
		}
		if val.IsEmpty() {
			continue
		}

		switch hint.Role {
		case models.RoleDate:
			if val.Kind == models.KindDate && rec.Date == nil {
				d := val.Date
				rec.Date = &d
			} else if val.Kind != models.KindDate {
				stats.DatesUnparsed++
			}
		case models.RoleEmployee:
			applyEmployee(&rec, val)
		case models.RoleHours:
			// Clock-time cells are start/end markers, not durations;
			// only numeric durations contribute to the row total.
			if n, ok := val.AsNumber(); ok {
				hoursTotal += clamp(n, 0, perCellHoursCap)
				haveHours = true
			}
		case models.RoleJob:
			if rec.JobCode == nil {
				if s := stringPayload(val); s != "" {
					rec.JobCode = &s
				}
			}
		case models.RoleAsset:
			if rec.AssetID == nil {
				if s := stringPayload(val); s != "" {
					rec.AssetID = &s
				}
			}
		case models.RoleCost:
			if rec.CostAmount == nil {
				if n, ok := costAmount(val); ok {
					rec.CostAmount = &n
				}
			}
		}
	}

	if haveHours {
		total := clamp(hoursTotal, 0, a.params.DailyCap)
		rec.Hours = &total
	}

	if rec.Date == nil && fallbackDate != nil {
		d := *fallbackDate
		rec.Date = &d
	}

	if rec.Date == nil && rec.EmployeeID == nil && rec.EmployeeName == nil {
		stats.Dropped = true
		return nil, stats
	}
	return &rec, stats
}

// fieldName keys a cell into RawFields by its header text, falling back
// to a positional name for unlabeled columns.
func (a *Assembler) fieldName(col int) string {
	if col < len(a.headers) {
		if h := strings.TrimSpace(a.headers[col]); h != "" {
			return h
		}
	}
	return fmt.Sprintf("col_%d", col)
}

// applyEmployee routes an employee cell to ID or name: purely numeric
// content is an identifier, anything else a display name.
func applyEmployee(rec *models.NormalizedRecord, val models.CellValue) {
	if n, ok := val.AsNumber(); ok {
		if rec.EmployeeID == nil {
			id := strconv.FormatFloat(n, 'f', -1, 64)
			rec.EmployeeID = &id
		}
		return
	}
	s, _ := val.AsText()
	s = strings.TrimSpace(s)
	if s == "" {
		return
	}
	if isDigits(s) {
		if rec.EmployeeID == nil {
			rec.EmployeeID = &s
		}
		return
	}
	if rec.EmployeeName == nil {
		rec.EmployeeName = &s
	}
}

// costAmount extracts a numeric cost, accepting currency-formatted text
// such as "$1,234.50".
func costAmount(val models.CellValue) (float64, bool) {
	if n, ok := val.AsNumber(); ok {
		return n, true
	}
	s, ok := val.AsText()
	if !ok {
		return 0, false
	}
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

func stringPayload(val models.CellValue) string {
	if s, ok := val.AsText(); ok {
		return strings.TrimSpace(s)
	}
	if n, ok := val.AsNumber(); ok {
		return strconv.FormatFloat(n, 'f', -1, 64)
	}
	return ""
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}

func clamp(n, lo, hi float64) float64 {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}
