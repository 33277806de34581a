package models

// ChangeStatus classifies one key's change between two snapshots.
type ChangeStatus string

const (
	// StatusNew marks a key present only in the updated snapshot.
	StatusNew ChangeStatus = "new"
	// StatusRemoved marks a key present only in the original snapshot.
	StatusRemoved ChangeStatus = "removed"
	// StatusChanged marks a key whose value moved beyond the tolerance.
	StatusChanged ChangeStatus = "changed"
	// StatusUnchanged marks a key whose value stayed within the tolerance.
	StatusUnchanged ChangeStatus = "unchanged"
)

// ComparisonResult is one aligned key's classification.
type ComparisonResult struct {
	// Key is the alignment key (e.g., a normalized asset ID).
	Key string `json:"key"`
	// OriginalValue is the value in the original snapshot, if present.
	OriginalValue *float64 `json:"original_value,omitempty"`
	// UpdatedValue is the value in the updated snapshot, if present.
	UpdatedValue *float64 `json:"updated_value,omitempty"`
	// Status classifies the change.
	Status ChangeStatus `json:"status"`
	// Difference is updated minus original; for one-sided keys it is the
	// signed surviving value.
	Difference float64 `json:"difference"`
}
