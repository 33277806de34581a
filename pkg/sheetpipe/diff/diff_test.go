package diff

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcameron/sheetpipe/pkg/sheetpipe/models"
)

func TestCompare(t *testing.T) {
	original := map[string]float64{"A": 100, "B": 200}
	updated := map[string]float64{"A": 150, "C": 50}

	results := Compare(original, updated, 0.01)
	require.Len(t, results, 3)

	// Sorted by key.
	assert.Equal(t, "A", results[0].Key)
	assert.Equal(t, "B", results[1].Key)
	assert.Equal(t, "C", results[2].Key)

	assert.Equal(t, models.StatusChanged, results[0].Status)
	assert.Equal(t, 50.0, results[0].Difference)
	require.NotNil(t, results[0].OriginalValue)
	require.NotNil(t, results[0].UpdatedValue)
	assert.Equal(t, 100.0, *results[0].OriginalValue)
	assert.Equal(t, 150.0, *results[0].UpdatedValue)

	assert.Equal(t, models.StatusRemoved, results[1].Status)
	assert.Equal(t, -200.0, results[1].Difference)
	assert.Nil(t, results[1].UpdatedValue)

	assert.Equal(t, models.StatusNew, results[2].Status)
	assert.Equal(t, 50.0, results[2].Difference)
	assert.Nil(t, results[2].OriginalValue)
}

func TestCompareUnchangedWithinEpsilon(t *testing.T) {
	results := Compare(
		map[string]float64{"A": 100},
		map[string]float64{"A": 100.005},
		0.01,
	)
	require.Len(t, results, 1)
	assert.Equal(t, models.StatusUnchanged, results[0].Status)
	assert.InDelta(t, 0.005, results[0].Difference, 1e-9)
}

// A key classified New diffing (A, B) must classify Removed diffing
// (B, A), with the differences negated.
func TestCompareSymmetry(t *testing.T) {
	a := map[string]float64{"X": 10, "Y": 20}
	b := map[string]float64{"Y": 25, "Z": 5}

	forward := Compare(a, b, 0.01)
	backward := Compare(b, a, 0.01)
	require.Len(t, forward, 3)
	require.Len(t, backward, 3)

	fwd := make(map[string]models.ComparisonResult)
	for _, r := range forward {
		fwd[r.Key] = r
	}
	for _, r := range backward {
		f := fwd[r.Key]
		switch f.Status {
		case models.StatusNew:
			assert.Equal(t, models.StatusRemoved, r.Status, "key %s", r.Key)
		case models.StatusRemoved:
			assert.Equal(t, models.StatusNew, r.Status, "key %s", r.Key)
		default:
			assert.Equal(t, f.Status, r.Status, "key %s", r.Key)
		}
		assert.Equal(t, f.Difference, -r.Difference, "key %s", r.Key)
	}
}

func TestCompareEmptySnapshots(t *testing.T) {
	assert.Empty(t, Compare(nil, nil, 0.01))
}

func TestCompareDefaultEpsilon(t *testing.T) {
	// epsilon <= 0 falls back to the default tolerance.
	results := Compare(
		map[string]float64{"A": 1},
		map[string]float64{"A": 1.001},
		0,
	)
	require.Len(t, results, 1)
	assert.Equal(t, models.StatusUnchanged, results[0].Status)
}

func TestSnapshotFromRecords(t *testing.T) {
	asset := func(s string) *string { return &s }
	cost := func(f float64) *float64 { return &f }

	records := []models.NormalizedRecord{
		{AssetID: asset("EX-210"), CostAmount: cost(100)},
		{AssetID: asset("EX-210"), CostAmount: cost(50)},
		{AssetID: asset("DZ-140"), CostAmount: cost(75)},
		{AssetID: asset("NO-COST")},
		{CostAmount: cost(10)},
	}

	snap := SnapshotFromRecords(records)
	assert.Equal(t, map[string]float64{"EX-210": 150, "DZ-140": 75}, snap)
}

func TestSnapshotRoleSelection(t *testing.T) {
	str := func(s string) *string { return &s }
	num := func(f float64) *float64 { return &f }

	records := []models.NormalizedRecord{
		{EmployeeID: str("1337"), Hours: num(8)},
		{EmployeeID: str("1337"), Hours: num(4.5)},
		{EmployeeName: str("Dana Wu"), Hours: num(6)},
		{JobCode: str("J-100"), Hours: num(2)}, // no employee field
		{EmployeeID: str("2001")},              // no hours
	}

	snap := Snapshot(records, models.RoleEmployee, models.RoleHours)
	assert.Equal(t, map[string]float64{"1337": 12.5, "Dana Wu": 6}, snap)

	// A job-keyed snapshot only sees the record carrying a job code.
	byJob := Snapshot(records, models.RoleJob, models.RoleHours)
	assert.Equal(t, map[string]float64{"J-100": 2}, byJob)
}
