package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ukaji3/quarterchart-go/pkg/quarterchart/models"
	"github.com/xuri/excelize/v2"
)

// SheetRows is the tabular content of one sheet.
type SheetRows struct {
	// Header holds the column names in column order.
	Header []string
	// Rows holds the non-empty data rows below the header.
	Rows []models.RawRow
	// Range is the data bounding box in A1 notation ("" for an empty sheet).
	Range string
}

// ReadRows reads a sheet as records keyed by the header row.
// The header is the first non-empty row. Blank rows are skipped and
// missing cells are stored as nil.
func ReadRows(f *excelize.File, sheetName string) (*SheetRows, error) {
	grid, err := readGrid(f, sheetName)
	if err != nil {
		return nil, err
	}

	result := &SheetRows{}
	minRow, maxRow, minCol, maxCol := findDataBounds(grid)
	if minRow < 0 {
		return result, nil
	}
	result.Range = rangeRef(minRow, maxRow, minCol, maxCol)
	result.Header = headerNames(grid[minRow], maxCol)

	for rowIdx := minRow + 1; rowIdx < len(grid); rowIdx++ {
		row := grid[rowIdx]
		record := make(models.RawRow, len(result.Header))
		hasData := false

		for colIdx, name := range result.Header {
			if colIdx >= len(row) || row[colIdx] == "" {
				record[name] = nil
				continue
			}
			hasData = true
			record[name] = parseValue(row[colIdx])
		}

		if hasData {
			result.Rows = append(result.Rows, record)
		}
	}

	return result, nil
}

// readGrid streams the sheet into raw (unformatted) cell strings.
func readGrid(f *excelize.File, sheetName string) ([][]string, error) {
	rows, err := f.Rows(sheetName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var grid [][]string
	for rows.Next() {
		cols, err := rows.Columns(excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, err
		}
		grid = append(grid, cols)
	}
	if err := rows.Error(); err != nil {
		return nil, err
	}
	return grid, nil
}

// headerNames turns the header row into unique column names.
// Blank headers become "__EMPTY" and repeated names get a "_N" suffix.
func headerNames(row []string, maxCol int) []string {
	names := make([]string, maxCol+1)
	seen := make(map[string]int)
	for colIdx := range names {
		name := ""
		if colIdx < len(row) {
			name = strings.TrimSpace(row[colIdx])
		}
		if name == "" {
			name = "__EMPTY"
		}
		base := name
		if n, ok := seen[base]; ok {
			name = fmt.Sprintf("%s_%d", base, n)
			seen[base] = n + 1
		} else {
			seen[base] = 1
		}
		names[colIdx] = name
	}
	return names
}

func rangeRef(minRow, maxRow, minCol, maxCol int) string {
	startCell, _ := excelize.CoordinatesToCellName(minCol+1, minRow+1)
	endCell, _ := excelize.CoordinatesToCellName(maxCol+1, maxRow+1)
	return fmt.Sprintf("%s:%s", startCell, endCell)
}

// parseValue attempts to parse a string value as a number.
// Returns int64 for integers, float64 for decimals, or the original string.
func parseValue(s string) interface{} {
	// Try integer first
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	// Try float
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	// Return as string
	return s
}
