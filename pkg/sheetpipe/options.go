// Package sheetpipe converts heterogeneous spreadsheet and delimited
// files into a normalized, typed record stream with per-file diagnostics.
package sheetpipe

import (
	"runtime"
	"time"

	"github.com/rcameron/sheetpipe/pkg/sheetpipe/models"
	"github.com/rcameron/sheetpipe/pkg/sheetpipe/parser"
)

// Options configures extraction behavior.
type Options struct {
	// SheetName selects a workbook sheet; empty means the first sheet.
	SheetName string
	// Header holds header detection parameters.
	Header parser.HeaderDetectionParams
	// Assemble holds record assembly parameters.
	Assemble parser.AssembleParams
	// ReferenceYear anchors month-day date forms that carry no year
	// ("MAY 12"); zero disables that strategy.
	ReferenceYear int
	// StartDate is the inclusive lower bound of the post-assembly date
	// filter; nil means unbounded.
	StartDate *models.CalendarDate
	// EndDate is the inclusive upper bound of the post-assembly date
	// filter; nil means unbounded.
	EndDate *models.CalendarDate
	// FileTimeout bounds one file's wall-clock processing; exceeding it
	// is a file-level error, not a batch abort.
	FileTimeout time.Duration
	// Workers bounds batch parallelism; zero means available cores.
	Workers int
}

// DefaultOptions returns default extraction options.
func DefaultOptions() Options {
	return Options{
		Header:      parser.DefaultHeaderParams(),
		Assemble:    parser.DefaultAssembleParams(),
		FileTimeout: 30 * time.Second,
	}
}

// workerCount resolves the effective pool size.
func (o Options) workerCount() int {
	if o.Workers > 0 {
		return o.Workers
	}
	return runtime.NumCPU()
}

// inDateRange applies the inclusive (start, end) filter to one record.
// Records without a date pass an unbounded filter only.
func (o Options) inDateRange(rec models.NormalizedRecord) bool {
	if o.StartDate == nil && o.EndDate == nil {
		return true
	}
	if rec.Date == nil {
		return false
	}
	if o.StartDate != nil && rec.Date.Before(*o.StartDate) {
		return false
	}
	if o.EndDate != nil && o.EndDate.Before(*rec.Date) {
		return false
	}
	return true
}
