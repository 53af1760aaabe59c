// Package export writes the product table to spreadsheet formats.
package export

import (
	"fmt"
	"io"
	"strings"

	"product-panel/internal/table"

	"github.com/xuri/excelize/v2"
)

// SheetName is the worksheet holding the exported table.
const SheetName = "Products"

// ContentTypeXLSX is the MIME type of the workbook.
const ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// WriteXLSX writes t as a single-sheet workbook: a bold header row with the
// field names followed by one row per table row. Numeric columns keep their
// raw values and get a number format built from the field's decimals.
func WriteXLSX(w io.Writer, t *table.Table) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	for col, field := range t.Fields {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(SheetName, cell, field.Name); err != nil {
			return fmt.Errorf("failed to write header %s: %w", field.Name, err)
		}
		if err := f.SetCellStyle(SheetName, cell, cell, headerStyle); err != nil {
			return fmt.Errorf("failed to style header %s: %w", field.Name, err)
		}

		colName, err := excelize.ColumnNumberToName(col + 1)
		if err != nil {
			return err
		}
		if width := field.Config.Custom.Width; width > 0 {
			// Pixel widths map roughly to seven pixels per character.
			if err := f.SetColWidth(SheetName, colName, colName, float64(width)/7); err != nil {
				return fmt.Errorf("failed to set width for %s: %w", field.Name, err)
			}
		}

		if field.Type == table.FieldTypeNumber && t.Len() > 0 {
			format := numberFormat(field.Config)
			style, err := f.NewStyle(&excelize.Style{CustomNumFmt: &format})
			if err != nil {
				return fmt.Errorf("failed to create number style for %s: %w", field.Name, err)
			}
			first := fmt.Sprintf("%s2", colName)
			last := fmt.Sprintf("%s%d", colName, t.Len()+1)
			if err := f.SetCellStyle(SheetName, first, last, style); err != nil {
				return fmt.Errorf("failed to style column %s: %w", field.Name, err)
			}
		}
	}

	for row := 0; row < t.Len(); row++ {
		cell, err := excelize.CoordinatesToCellName(1, row+2)
		if err != nil {
			return err
		}
		values := t.Row(row)
		if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
			return fmt.Errorf("failed to write row %d: %w", row+1, err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// numberFormat converts decimals and unit hints into an Excel number format.
func numberFormat(cfg table.FieldConfig) string {
	format := "0"
	if cfg.Decimals != nil && *cfg.Decimals > 0 {
		format += "." + strings.Repeat("0", *cfg.Decimals)
	} else if cfg.Decimals == nil {
		format = "General"
	}

	switch cfg.Unit {
	case "":
		return format
	case "percent":
		// Values are already percentages, so append a literal sign rather than scaling.
		return format + `"%"`
	default:
		return format + ` "` + cfg.Unit + `"`
	}
}
