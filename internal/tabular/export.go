package tabular

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/leadops/leadwash/internal/lead"
)

// WriteCSV renders a record set as CSV: header row followed by data
// rows, missing values as empty cells.
func WriteCSV(w io.Writer, set lead.RecordSet) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(set.Columns); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	row := make([]string, len(set.Columns))
	for _, rec := range set.Rows {
		for i, col := range set.Columns {
			row[i] = lead.ValueString(rec.Field(col))
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteRemovedCSV renders every removed record across the outcomes as
// CSV with a leading Reason column carrying the human-readable reason.
func WriteRemovedCSV(w io.Writer, columns []string, outcomes []lead.Outcome) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(append([]string{"Reason"}, columns...)); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	row := make([]string, len(columns)+1)
	for _, out := range outcomes {
		for _, rec := range out.Removed.Rows {
			row[0] = out.Reason.Description()
			for i, col := range columns {
				row[i+1] = lead.ValueString(rec.Field(col))
			}
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("write csv row: %w", err)
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportRemovedWorkbook renders the removed records as an xlsx audit
// workbook: a leading Reason column with the human-readable reason, and
// a yellow fill on the column(s) implicated by each reason (a DNC name
// match highlights both name columns). The column mapping resolves
// field roles to actual column names.
func ExportRemovedWorkbook(columns []string, outcomes []lead.Outcome, mapping lead.ColumnMapping) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Removed Rows"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("name export sheet: %w", err)
	}

	yellow, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"FFFF00"}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("create highlight style: %w", err)
	}

	header := append([]string{"Reason"}, columns...)
	for i, name := range header {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, name); err != nil {
			return nil, fmt.Errorf("write export header: %w", err)
		}
	}

	// 1-based column positions in the exported sheet, keyed by name.
	colPos := make(map[string]int, len(columns))
	for i, c := range columns {
		colPos[c] = i + 2 // +1 for 1-based, +1 for the Reason column
	}

	rowNum := 2
	for _, out := range outcomes {
		implicated := implicatedColumns(out.Reason, mapping)
		for _, rec := range out.Removed.Rows {
			cell, _ := excelize.CoordinatesToCellName(1, rowNum)
			if err := f.SetCellValue(sheet, cell, out.Reason.Description()); err != nil {
				return nil, fmt.Errorf("write reason cell: %w", err)
			}
			for i, col := range columns {
				cell, _ := excelize.CoordinatesToCellName(i+2, rowNum)
				if err := f.SetCellValue(sheet, cell, lead.ValueString(rec.Field(col))); err != nil {
					return nil, fmt.Errorf("write export cell: %w", err)
				}
			}
			for _, col := range implicated {
				pos, ok := colPos[col]
				if !ok {
					continue
				}
				cell, _ := excelize.CoordinatesToCellName(pos, rowNum)
				if err := f.SetCellStyle(sheet, cell, cell, yellow); err != nil {
					return nil, fmt.Errorf("highlight export cell: %w", err)
				}
			}
			rowNum++
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("serialize export workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// implicatedColumns resolves a reason's field roles to column names via
// the mapping, dropping roles the mapping could not resolve.
func implicatedColumns(reason lead.Reason, mapping lead.ColumnMapping) []string {
	var cols []string
	for _, role := range reason.Fields() {
		if c := mapping.ColumnFor(role); c != "" {
			cols = append(cols, c)
		}
	}
	return cols
}
