package models

// CanonicalRole is the semantic meaning assigned to a column.
type CanonicalRole int

const (
	// RoleUnclassified is a column matching no role keyword set.
	RoleUnclassified CanonicalRole = iota
	// RoleDate is a work-date column.
	RoleDate
	// RoleEmployee is an employee name or identifier column.
	RoleEmployee
	// RoleHours is a worked-hours or duration column.
	RoleHours
	// RoleJob is a job, project, or site column.
	RoleJob
	// RoleAsset is an asset, vehicle, or equipment column.
	RoleAsset
	// RoleCost is a cost, amount, or rate column.
	RoleCost
)

// String returns the role name used in diagnostics and serialized output.
func (r CanonicalRole) String() string {
	switch r {
	case RoleDate:
		return "date"
	case RoleEmployee:
		return "employee"
	case RoleHours:
		return "hours"
	case RoleJob:
		return "job"
	case RoleAsset:
		return "asset"
	case RoleCost:
		return "cost"
	}
	return "unclassified"
}

// MarshalText implements encoding.TextMarshaler so ColumnMapping keys and
// values serialize readably.
func (r CanonicalRole) MarshalText() ([]byte, error) { return []byte(r.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *CanonicalRole) UnmarshalText(text []byte) error {
	switch string(text) {
	case "date":
		*r = RoleDate
	case "employee":
		*r = RoleEmployee
	case "hours":
		*r = RoleHours
	case "job":
		*r = RoleJob
	case "asset":
		*r = RoleAsset
	case "cost":
		*r = RoleCost
	default:
		*r = RoleUnclassified
	}
	return nil
}

// ColumnMapping maps a 0-based column index to its canonical role.
// A column holds exactly one role.
type ColumnMapping map[int]CanonicalRole

// Role returns the role for a column, defaulting to RoleUnclassified.
func (m ColumnMapping) Role(col int) CanonicalRole {
	if r, ok := m[col]; ok {
		return r
	}
	return RoleUnclassified
}

// HeaderCandidate describes a row considered as the header during detection.
type HeaderCandidate struct {
	// RowIndex is the 0-based grid row.
	RowIndex int `json:"row_index"`
	// NonEmptyCount is the number of non-empty cells in the row.
	NonEmptyCount int `json:"non_empty_count"`
	// KeywordScore is the number of cells containing a role keyword.
	KeywordScore int `json:"keyword_score"`
}

// NormalizedRecord is one typed record assembled from a data row.
// All fields except the source coordinates are optional; a record missing
// both its date and any employee identifier is dropped at assembly.
type NormalizedRecord struct {
	// SourceFile is the file the record came from.
	SourceFile string `json:"source_file"`
	// SheetName is the sheet the record came from ("" for delimited files).
	SheetName string `json:"sheet_name,omitempty"`
	// RowIndex is the 0-based grid row the record was assembled from.
	RowIndex int `json:"row_index"`
	// Date is the record's work date.
	Date *CalendarDate `json:"date,omitempty"`
	// EmployeeID is the employee identifier when the source provides one.
	EmployeeID *string `json:"employee_id,omitempty"`
	// EmployeeName is the employee display name.
	EmployeeName *string `json:"employee_name,omitempty"`
	// Hours is the summed, clamped hours value.
	Hours *float64 `json:"hours,omitempty"`
	// JobCode is the job, project, or site code.
	JobCode *string `json:"job_code,omitempty"`
	// AssetID is the asset or equipment identifier.
	AssetID *string `json:"asset_id,omitempty"`
	// CostAmount is the cost or billing amount.
	CostAmount *float64 `json:"cost_amount,omitempty"`
	// RawFields preserves every resolved cell keyed by header text, for
	// downstream consumers that need columns outside the canonical roles.
	RawFields map[string]CellValue `json:"raw_fields,omitempty"`
}

// FileDiagnostics summarizes what extraction did to one file.
type FileDiagnostics struct {
	// HeaderRowUsed is the 0-based header row, or -1 for schema-less
	// passthrough.
	HeaderRowUsed int `json:"header_row_used"`
	// ColumnMapping is the role assigned to each classified column.
	ColumnMapping ColumnMapping `json:"column_mapping"`
	// RowsDropped counts data rows discarded by the validity rule.
	RowsDropped int `json:"rows_dropped"`
	// UnresolvedCellCount counts cells whose resolution failed.
	UnresolvedCellCount int `json:"unresolved_cell_count"`
	// DatesUnparsed counts date-role cells no strategy could parse.
	DatesUnparsed int `json:"dates_unparsed"`
	// Notes carries non-fatal conditions such as ambiguous headers.
	Notes []string `json:"notes,omitempty"`
}

// FileResult pairs one input file with its records and diagnostics.
type FileResult struct {
	// Path is the input file path.
	Path string `json:"path"`
	// Records are the assembled records, in row order.
	Records []NormalizedRecord `json:"records"`
	// Diagnostics summarizes extraction for the file.
	Diagnostics FileDiagnostics `json:"diagnostics"`
	// Err is the file-level failure, if the file was unreadable.
	Err error `json:"-"`
	// Error is the string form of Err for serialization.
	Error string `json:"error,omitempty"`
}

// BatchResult aggregates a whole batch run.
type BatchResult struct {
	// RunID identifies the batch run.
	RunID string `json:"run_id"`
	// Files holds one result per input, in input order.
	Files []FileResult `json:"files"`
	// Records is the merged record stream across all succeeded files.
	Records []NormalizedRecord `json:"records"`
	// Succeeded lists files that produced records or clean diagnostics.
	Succeeded []string `json:"succeeded"`
	// Failed lists files that could not be read or timed out.
	Failed []string `json:"failed"`
}
