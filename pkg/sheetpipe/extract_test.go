package sheetpipe

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/rcameron/sheetpipe/pkg/sheetpipe/models"
)

// writeTimecardWorkbook builds a realistic timecard sheet: a title row,
// a sparse spacer, the header at grid row 3, then data.
func writeTimecardWorkbook(t *testing.T) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()
	sheet := "Sheet1"

	f.SetCellValue(sheet, "A1", "Acme Construction - Weekly Timecards")
	f.SetCellValue(sheet, "A3", "Employee Name")
	f.SetCellValue(sheet, "B3", "Work Date")
	f.SetCellValue(sheet, "C3", "Hours")
	f.SetCellValue(sheet, "D3", "Job Site")

	f.SetCellValue(sheet, "A4", "J. Smith")
	f.SetCellValue(sheet, "B4", "05/12/2025")
	f.SetCellValue(sheet, "C4", 8)
	f.SetCellValue(sheet, "D4", "North Yard")

	f.SetCellValue(sheet, "A5", "K. Jones")
	f.SetCellValue(sheet, "B5", "05/13/2025")
	f.SetCellValue(sheet, "C5", 7.5)
	f.SetCellValue(sheet, "D5", "South Pit")

	// Hours column footer formula; its row has no employee or date and
	// must never become a record.
	f.SetCellFormula(sheet, "C6", "=SUM(C4:C5)")

	path := filepath.Join(t.TempDir(), "timecards.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestExtractWorkbook(t *testing.T) {
	path := writeTimecardWorkbook(t)

	result, err := Extract(path, DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, 2, result.Diagnostics.HeaderRowUsed)
	assert.Equal(t, models.RoleEmployee, result.Diagnostics.ColumnMapping[0])
	assert.Equal(t, models.RoleDate, result.Diagnostics.ColumnMapping[1])
	assert.Equal(t, models.RoleHours, result.Diagnostics.ColumnMapping[2])
	assert.Equal(t, models.RoleJob, result.Diagnostics.ColumnMapping[3])

	require.Len(t, result.Records, 2)

	rec := result.Records[0]
	require.NotNil(t, rec.EmployeeName)
	assert.Equal(t, "J. Smith", *rec.EmployeeName)
	require.NotNil(t, rec.Date)
	assert.Equal(t, "2025-05-12", rec.Date.String())
	require.NotNil(t, rec.Hours)
	assert.Equal(t, 8.0, *rec.Hours)

	// The footer row was dropped by the validity rule.
	assert.Equal(t, 1, result.Diagnostics.RowsDropped)
}

func TestExtractCSV(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "export.csv")
	csv := "Employee Name,Work Date,Hours,Job Site\n" +
		"J. Smith,05/12/2025,8,North Yard\n" +
		"K. Jones,bad-date,7.5,South Pit\n"
	require.NoError(t, os.WriteFile(path, []byte(csv), 0644))

	result, err := Extract(path, DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, 0, result.Diagnostics.HeaderRowUsed)
	require.Len(t, result.Records, 2)

	// An unparseable date leaves the field unset; the row survives
	// because the employee identifier is present.
	assert.Nil(t, result.Records[1].Date)
	assert.Equal(t, 1, result.Diagnostics.DatesUnparsed)
}

func TestExtractDateFilter(t *testing.T) {
	path := writeTimecardWorkbook(t)

	opts := DefaultOptions()
	opts.StartDate = &models.CalendarDate{Year: 2025, Month: 5, Day: 13}
	opts.EndDate = &models.CalendarDate{Year: 2025, Month: 5, Day: 13}

	result, err := Extract(path, opts)
	require.NoError(t, err)
	require.Len(t, result.Records, 1)
	require.NotNil(t, result.Records[0].EmployeeName)
	assert.Equal(t, "K. Jones", *result.Records[0].EmployeeName)
}

func TestExtractFilenameDateFallback(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "crew_05.12.2025_.csv")
	csv := "Employee Name,Hours,Job Site\n" +
		"J. Smith,8,North Yard\n"
	require.NoError(t, os.WriteFile(path, []byte(csv), 0644))

	result, err := Extract(path, DefaultOptions())
	require.NoError(t, err)
	require.Len(t, result.Records, 1)
	require.NotNil(t, result.Records[0].Date)
	assert.Equal(t, "2025-05-12", result.Records[0].Date.String())
}

func TestExtractUnreadableFile(t *testing.T) {
	_, err := Extract(filepath.Join(t.TempDir(), "missing.xlsx"), DefaultOptions())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnreadableFile)

	var ferr *FileError
	require.ErrorAs(t, err, &ferr)
	assert.Equal(t, "load", ferr.Stage)
}

func TestExtractNoHeaderPassthrough(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fragment.csv")
	require.NoError(t, os.WriteFile(path, []byte("x\ny\n"), 0644))

	result, err := Extract(path, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, -1, result.Diagnostics.HeaderRowUsed)
	assert.NotEmpty(t, result.Diagnostics.Notes)
}
