package parser

import (
	"fmt"
	"strings"

	"github.com/rcameron/sheetpipe/pkg/sheetpipe/models"
)

// roleKeywords pairs a canonical role with the header words that select
// it. Order is the fixed classification priority: Date > Employee > Hours
// > Job > Asset > Cost. The first matching role wins per column, so the
// result is independent of column order and reproducible across runs.
var roleKeywords = []struct {
	role     models.CanonicalRole
	keywords []string
}{
	{models.RoleDate, []string{"date", "day", "workday"}},
	{models.RoleEmployee, []string{"employee", "name", "driver", "operator"}},
	{models.RoleHours, []string{"hours", "time", "duration"}},
	{models.RoleJob, []string{"job", "project", "site", "location"}},
	{models.RoleAsset, []string{"asset", "vehicle", "equipment", "unit"}},
	{models.RoleCost, []string{"cost", "amount", "total", "rate"}},
}

// NormalizeHeaderText lowers a header cell for keyword matching: trimmed,
// lowercased, with every rune outside [a-z0-9_] replaced by a space.
func NormalizeHeaderText(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}
	return b.String()
}

// ClassifyColumns maps each header cell to its canonical role. Columns
// matching no keyword set stay unclassified. A header matching more than
// one role set is assigned the highest-priority role and reported as an
// ambiguity note, never an error.
func ClassifyColumns(headers []string) (models.ColumnMapping, []string) {
	mapping := make(models.ColumnMapping, len(headers))
	var notes []string

	for col, h := range headers {
		norm := NormalizeHeaderText(h)
		if strings.TrimSpace(norm) == "" {
			mapping[col] = models.RoleUnclassified
			continue
		}

		assigned := models.RoleUnclassified
		matches := 0
		for _, rk := range roleKeywords {
			if matchesAny(norm, rk.keywords) {
				matches++
				if assigned == models.RoleUnclassified {
					assigned = rk.role
				}
			}
		}
		mapping[col] = assigned
		if matches > 1 {
			notes = append(notes, fmt.Sprintf(
				"column %d %q matches %d role keyword sets; kept %s",
				col, strings.TrimSpace(h), matches, assigned))
		}
	}

	return mapping, notes
}

func matchesAny(norm string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(norm, kw) {
			return true
		}
	}
	return false
}
