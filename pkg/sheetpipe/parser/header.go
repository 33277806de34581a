package parser

import (
	"strings"

	"github.com/rcameron/sheetpipe/pkg/sheetpipe/models"
)

// HeaderDetectionParams holds parameters for header row detection.
type HeaderDetectionParams struct {
	// ScanWindow is how many leading rows are considered.
	ScanWindow int
	// MinNonEmpty is the minimum non-empty cells for a candidate row.
	MinNonEmpty int
	// MinKeywordScore is the keyword hits needed for a confident match.
	MinKeywordScore int
}

// DefaultHeaderParams returns the default detection parameters.
func DefaultHeaderParams() HeaderDetectionParams {
	return HeaderDetectionParams{
		ScanWindow:      10,
		MinNonEmpty:     3,
		MinKeywordScore: 2,
	}
}

// headerKeywords are the role-bearing words a header cell may contain.
// Keyword hits only score a row; role assignment happens later in
// classification.
var headerKeywords = []string{
	"date", "name", "employee", "hours", "job", "time", "driver",
	"operator", "asset", "vehicle", "equipment", "cost", "amount",
	"project", "site",
}

// DetectHeader locates the header row within the grid's scan window.
//
// Rows with fewer than MinNonEmpty cells are skipped. The first row whose
// keyword score reaches MinKeywordScore wins; failing that, the first row
// with enough non-empty cells is used as a generic tabular header. When no
// row in the window qualifies the result is nil and the caller degrades to
// a schema-less passthrough.
func DetectHeader(g *models.RawGrid, params HeaderDetectionParams) *models.HeaderCandidate {
	window := params.ScanWindow
	if window > g.RowCount() {
		window = g.RowCount()
	}

	var fallback *models.HeaderCandidate
	for row := 0; row < window; row++ {
		nonEmpty := 0
		score := 0
		for col := 0; col < len(g.Rows[row]); col++ {
			cell := g.Rows[row][col]
			if cell.IsEmpty() {
				continue
			}
			nonEmpty++
			if containsHeaderKeyword(cell.Value) {
				score++
			}
		}
		if nonEmpty < params.MinNonEmpty {
			continue
		}
		cand := &models.HeaderCandidate{
			RowIndex:      row,
			NonEmptyCount: nonEmpty,
			KeywordScore:  score,
		}
		if score >= params.MinKeywordScore {
			return cand
		}
		if fallback == nil {
			fallback = cand
		}
	}

	return fallback
}

func containsHeaderKeyword(text string) bool {
	norm := NormalizeHeaderText(text)
	for _, kw := range headerKeywords {
		if strings.Contains(norm, kw) {
			return true
		}
	}
	return false
}
