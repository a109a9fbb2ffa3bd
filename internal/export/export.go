// Package export renders category records into downloadable formats.
package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"easyenglish/internal/dto"
)

// Sheet and MIME type of the XLSX export.
const (
	CategoriesSheet = "Categories"
	XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var categoryHeaders = []string{"ID", "Name"}

// CategoriesXLSX returns a workbook (as bytes) with one header row followed
// by one row per record, in the order given.
func CategoriesXLSX(records []dto.CategoryResponse) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	// Rename the default sheet rather than adding a second one.
	if err := f.SetSheetName(f.GetSheetName(0), CategoriesSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	for i, h := range categoryHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(CategoriesSheet, cell, h); err != nil {
			return nil, fmt.Errorf("write header: %w", err)
		}
	}

	for i, r := range records {
		row := i + 2
		if err := f.SetSheetRow(CategoriesSheet, fmt.Sprintf("A%d", row), &[]any{r.ID, r.Name}); err != nil {
			return nil, fmt.Errorf("write row %d: %w", row, err)
		}
	}

	_ = f.SetColWidth(CategoriesSheet, "A", "A", 10)
	_ = f.SetColWidth(CategoriesSheet, "B", "B", 40)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}
