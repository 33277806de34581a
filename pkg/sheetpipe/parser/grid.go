package parser

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rcameron/sheetpipe/pkg/sheetpipe/models"
	"github.com/xuri/excelize/v2"
)

// LoadGrid reads one sheet of a source file into a RawGrid. Workbooks go
// through excelize; .csv and .tsv files through encoding/csv. sheetName
// selects a workbook sheet and defaults to the first sheet; it is ignored
// for delimited files.
func LoadGrid(path, sheetName string) (*models.RawGrid, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return loadDelimited(path, ',')
	case ".tsv":
		return loadDelimited(path, '\t')
	default:
		return loadWorkbook(path, sheetName)
	}
}

// SheetNames lists the sheets of a workbook, or a single empty name for
// delimited files.
func SheetNames(path string) ([]string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".tsv":
		return []string{""}, nil
	}
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return f.GetSheetList(), nil
}

func loadWorkbook(path, sheetName string) (*models.RawGrid, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if sheetName == "" {
		list := f.GetSheetList()
		if len(list) == 0 {
			return nil, fmt.Errorf("workbook %s has no sheets", path)
		}
		sheetName = list[0]
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, err
	}

	grid := &models.RawGrid{
		SourceFile: path,
		SheetName:  sheetName,
		Rows:       make([][]models.RawCell, len(rows)),
	}

	for rowIdx, row := range rows {
		cells := make([]models.RawCell, len(row))
		for colIdx, value := range row {
			cells[colIdx] = models.RawCell{Value: value}

			cellName, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+1)
			formula, err := f.GetCellFormula(sheetName, cellName)
			if err == nil && formula != "" {
				cells[colIdx].Formula = formula
			}
		}
		grid.Rows[rowIdx] = cells
	}

	trimGrid(grid)
	return grid, nil
}

func loadDelimited(path string, comma rune) (*models.RawGrid, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = comma
	r.FieldsPerRecord = -1 // exports are routinely ragged
	r.LazyQuotes = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	grid := &models.RawGrid{
		SourceFile: path,
		Rows:       make([][]models.RawCell, len(records)),
	}
	for rowIdx, row := range records {
		cells := make([]models.RawCell, len(row))
		for colIdx, value := range row {
			cells[colIdx] = models.RawCell{Value: value}
		}
		grid.Rows[rowIdx] = cells
	}

	trimGrid(grid)
	return grid, nil
}

// trimGrid drops fully-empty trailing rows so downstream stages scan only
// the populated region.
func trimGrid(g *models.RawGrid) {
	last := -1
	for rowIdx, row := range g.Rows {
		for _, cell := range row {
			if !cell.IsEmpty() {
				last = rowIdx
				break
			}
		}
	}
	g.Rows = g.Rows[:last+1]
}
