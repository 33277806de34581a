package sheetpipe

import (
	"errors"

	"github.com/rcameron/sheetpipe/pkg/sheetpipe/models"
	"github.com/rcameron/sheetpipe/pkg/sheetpipe/parser"
)

// Extract runs the full per-file pipeline on one source file: load the
// grid, detect the header row, classify columns, resolve values, and
// assemble records. Failure at any stage past loading degrades to the
// nearest coarser strategy rather than aborting the file; only an
// unreadable file returns an error.
func Extract(path string, opts Options) (models.FileResult, error) {
	result := models.FileResult{Path: path}

	grid, err := parser.LoadGrid(path, opts.SheetName)
	if err != nil {
		ferr := NewFileError(path, "load", errors.Join(ErrUnreadableFile, err))
		result.Err = ferr
		result.Error = ferr.Error()
		return result, ferr
	}

	result.Records, result.Diagnostics = extractGrid(grid, opts)
	return result, nil
}

// extractGrid runs the header/classify/resolve/assemble stages over one
// loaded grid.
func extractGrid(grid *models.RawGrid, opts Options) ([]models.NormalizedRecord, models.FileDiagnostics) {
	diag := models.FileDiagnostics{HeaderRowUsed: -1}

	var headers []string
	var mapping models.ColumnMapping
	dataStart := 0

	if cand := parser.DetectHeader(grid, opts.Header); cand != nil {
		diag.HeaderRowUsed = cand.RowIndex
		dataStart = cand.RowIndex + 1

		headers = make([]string, len(grid.Rows[cand.RowIndex]))
		for col, cell := range grid.Rows[cand.RowIndex] {
			headers[col] = cell.Value
		}

		var notes []string
		mapping, notes = parser.ClassifyColumns(headers)
		diag.Notes = append(diag.Notes, notes...)
	} else {
		// Schema-less passthrough: every column unclassified, every row
		// treated as data.
		mapping = models.ColumnMapping{}
		diag.Notes = append(diag.Notes, "no header row found; schema-less passthrough")
	}
	diag.ColumnMapping = mapping

	resolver := parser.NewResolver(grid, opts.ReferenceYear)
	assembler := parser.NewAssembler(grid, headers, mapping, resolver, opts.Assemble)

	// Timecard exports often carry their date only in the filename; rows
	// with no date column inherit it.
	var fileDate *models.CalendarDate
	if d, ok := parser.DateFromFilename(grid.SourceFile, opts.ReferenceYear); ok {
		fileDate = &d
	}

	var records []models.NormalizedRecord
	for row := dataStart; row < grid.RowCount(); row++ {
		if rowEmpty(grid.Rows[row]) {
			continue
		}
		rec, stats := assembler.AssembleRow(row, fileDate)
		diag.UnresolvedCellCount += stats.Unresolved
		diag.DatesUnparsed += stats.DatesUnparsed
		if rec == nil {
			if stats.Dropped {
				diag.RowsDropped++
			}
			continue
		}
		if !opts.inDateRange(*rec) {
			diag.RowsDropped++
			continue
		}
		records = append(records, *rec)
	}

	return records, diag
}

func rowEmpty(row []models.RawCell) bool {
	for _, cell := range row {
		if !cell.IsEmpty() {
			return false
		}
	}
	return true
}
