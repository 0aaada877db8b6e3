package exporter

import (
	"fmt"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"emaparse/pkg/contracts/domain"
)

const compositeSheetName = "Responses"

// WriteCompositeExcel writes the composite table to an Excel workbook
// with the same header and row ordering as the composite CSV. Some
// research groups consume the output directly in Excel; the workbook
// avoids the delimiter and encoding pitfalls CSV import has there.
func WriteCompositeExcel(path string, header []string, rows []domain.NormalizedRow) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", compositeSheetName); err != nil {
		return &WriteError{Path: path, Err: err}
	}

	if err := writeSheetRow(f, 1, toAny(header)); err != nil {
		return &WriteError{Path: path, Err: err}
	}

	for i, row := range rows {
		record := make([]any, len(header))
		for j, column := range header {
			record[j] = row.Cell(column)
		}
		if err := writeSheetRow(f, i+2, record); err != nil {
			return &WriteError{Path: path, Err: err}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return &WriteError{Path: path, Err: err}
	}

	slog.Info("Wrote composite workbook",
		slog.String("path", path),
		slog.Int("row_count", len(rows)))
	return nil
}

func writeSheetRow(f *excelize.File, rowNumber int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNumber)
	if err != nil {
		return fmt.Errorf("row %d: %w", rowNumber, err)
	}
	return f.SetSheetRow(compositeSheetName, cell, &values)
}

func toAny(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
