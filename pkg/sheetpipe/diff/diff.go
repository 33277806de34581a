// Package diff aligns two keyed numeric snapshots and classifies changes.
package diff

import (
	"math"
	"sort"

	"github.com/rcameron/sheetpipe/pkg/sheetpipe/models"
)

// DefaultEpsilon is the tolerance below which a value change is noise.
const DefaultEpsilon = 0.01

// Compare aligns original and updated over the union of their keys and
// classifies each key. Keys only in updated are New (difference is the
// updated value); keys only in original are Removed (difference is the
// negated original value); keys in both are Changed when the absolute
// delta exceeds epsilon, else Unchanged, with difference updated minus
// original either way. Results are sorted by key. Pure function, no I/O.
func Compare(original, updated map[string]float64, epsilon float64) []models.ComparisonResult {
	if epsilon <= 0 {
		epsilon = DefaultEpsilon
	}

	keys := make(map[string]struct{}, len(original)+len(updated))
	for k := range original {
		keys[k] = struct{}{}
	}
	for k := range updated {
		keys[k] = struct{}{}
	}

	results := make([]models.ComparisonResult, 0, len(keys))
	for k := range keys {
		orig, inOrig := original[k]
		upd, inUpd := updated[k]

		res := models.ComparisonResult{Key: k}
		switch {
		case inUpd && !inOrig:
			v := upd
			res.UpdatedValue = &v
			res.Status = models.StatusNew
			res.Difference = upd
		case inOrig && !inUpd:
			v := orig
			res.OriginalValue = &v
			res.Status = models.StatusRemoved
			res.Difference = -orig
		default:
			o, u := orig, upd
			res.OriginalValue = &o
			res.UpdatedValue = &u
			res.Difference = upd - orig
			if math.Abs(res.Difference) > epsilon {
				res.Status = models.StatusChanged
			} else {
				res.Status = models.StatusUnchanged
			}
		}
		results = append(results, res)
	}

	sort.Slice(results, func(i, j int) bool { return results[i].Key < results[j].Key })
	return results
}

// SnapshotFromRecords builds a keyed snapshot from assembled records,
// keying by asset ID and summing cost amounts. Records without both
// fields are skipped.
func SnapshotFromRecords(records []models.NormalizedRecord) map[string]float64 {
	return Snapshot(records, models.RoleAsset, models.RoleCost)
}

// Snapshot builds a keyed snapshot from assembled records using the
// given key and value roles. Keys come from the record field the key
// role maps to (asset ID, job code, employee ID or name, or the date's
// string form); values come from the hours or cost field. Records
// missing either side are skipped.
func Snapshot(records []models.NormalizedRecord, keyRole, valueRole models.CanonicalRole) map[string]float64 {
	snap := make(map[string]float64)
	for _, rec := range records {
		key, ok := recordKey(rec, keyRole)
		if !ok {
			continue
		}
		val, ok := recordValue(rec, valueRole)
		if !ok {
			continue
		}
		snap[key] += val
	}
	return snap
}

func recordKey(rec models.NormalizedRecord, role models.CanonicalRole) (string, bool) {
	switch role {
	case models.RoleAsset:
		if rec.AssetID != nil {
			return *rec.AssetID, true
		}
	case models.RoleJob:
		if rec.JobCode != nil {
			return *rec.JobCode, true
		}
	case models.RoleEmployee:
		if rec.EmployeeID != nil {
			return *rec.EmployeeID, true
		}
		if rec.EmployeeName != nil {
			return *rec.EmployeeName, true
		}
	case models.RoleDate:
		if rec.Date != nil {
			return rec.Date.String(), true
		}
	}
	return "", false
}

func recordValue(rec models.NormalizedRecord, role models.CanonicalRole) (float64, bool) {
	switch role {
	case models.RoleCost:
		if rec.CostAmount != nil {
			return *rec.CostAmount, true
		}
	case models.RoleHours:
		if rec.Hours != nil {
			return *rec.Hours, true
		}
	}
	return 0, false
}
