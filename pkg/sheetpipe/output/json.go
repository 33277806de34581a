// Package output serializes extraction results for downstream consumers.
package output

import (
	"encoding/json"
	"io"

	"github.com/rcameron/sheetpipe/pkg/sheetpipe/models"
)

// ToJSON serializes a batch result as a single JSON document.
func ToJSON(result *models.BatchResult, pretty bool) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(result, "", "  ")
	}
	return json.Marshal(result)
}

// RecordsToNDJSON writes records one JSON object per line, the record
// format reporting collaborators consume.
func RecordsToNDJSON(w io.Writer, records []models.NormalizedRecord) error {
	enc := json.NewEncoder(w)
	for _, rec := range records {
		if err := enc.Encode(rec); err != nil {
			return err
		}
	}
	return nil
}

// ComparisonToJSON serializes diff results.
func ComparisonToJSON(results []models.ComparisonResult, pretty bool) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(results, "", "  ")
	}
	return json.Marshal(results)
}

// DedupeReport bundles both duplicate detectors' findings.
type DedupeReport struct {
	// Groups are exact-duplicate groups by content hash.
	Groups []models.DuplicateGroup `json:"duplicate_groups"`
	// SimilarPairs are near-duplicate basenames.
	SimilarPairs []models.SimilarPair `json:"similar_pairs"`
}

// DedupeToJSON serializes a dedupe report.
func DedupeToJSON(report *DedupeReport, pretty bool) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(report, "", "  ")
	}
	return json.Marshal(report)
}
