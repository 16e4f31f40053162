// Package tabular reads uploaded CSV and Excel files into record sets,
// detects highlighted cells, and renders audit exports.
package tabular

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/leadops/leadwash/internal/lead"
)

// ErrUnsupportedFormat marks a file whose extension is not accepted.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// validExtensions are the accepted upload extensions. Legacy .xls is
// not readable by the xlsx stack and is rejected.
var validExtensions = map[string]struct{}{
	".csv":  {},
	".xlsx": {},
	".xlsm": {},
}

// Ext extracts the lowercase extension (with leading dot) from a
// filename, or "" when there is none.
func Ext(filename string) string {
	i := strings.LastIndex(filename, ".")
	if i < 0 {
		return ""
	}
	return strings.ToLower(filename[i:])
}

// IsValidFormat reports whether the filename carries an accepted
// extension.
func IsValidFormat(filename string) bool {
	_, ok := validExtensions[Ext(filename)]
	return ok
}

// ReadFile parses an uploaded file into a record set, dispatching on
// the filename extension. Empty cells become nil (missing).
func ReadFile(data []byte, filename string) (lead.RecordSet, error) {
	switch ext := Ext(filename); ext {
	case ".csv":
		return readCSV(bytes.NewReader(data))
	case ".xlsx", ".xlsm":
		return readExcel(data)
	default:
		return lead.RecordSet{}, fmt.Errorf("%w: %q (must be .csv, .xlsx, or .xlsm)", ErrUnsupportedFormat, ext)
	}
}

func readCSV(r io.Reader) (lead.RecordSet, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	rows, err := cr.ReadAll()
	if err != nil {
		return lead.RecordSet{}, fmt.Errorf("read csv: %w", err)
	}
	if len(rows) == 0 {
		return lead.RecordSet{}, errors.New("csv file has no header row")
	}
	return fromRows(rows), nil
}

func readExcel(data []byte) (lead.RecordSet, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return lead.RecordSet{}, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return lead.RecordSet{}, errors.New("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return lead.RecordSet{}, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return lead.RecordSet{}, errors.New("workbook has no header row")
	}

	set := fromRows(rows)
	typeBoolCells(f, sheets[0], &set)
	return set, nil
}

// typeBoolCells restores typed booleans lost by GetRows, which renders
// boolean cells as the strings "TRUE"/"FALSE". Validators distinguish
// the typed boolean true from the string, so only cells the workbook
// actually types as boolean are converted.
func typeBoolCells(f *excelize.File, sheet string, set *lead.RecordSet) {
	for rowIdx, rec := range set.Rows {
		for colIdx, col := range set.Columns {
			s, ok := rec[col].(string)
			if !ok || (s != "TRUE" && s != "FALSE") {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err != nil {
				continue
			}
			ct, err := f.GetCellType(sheet, cell)
			if err != nil || ct != excelize.CellTypeBool {
				continue
			}
			rec[col] = s == "TRUE"
		}
	}
}

// fromRows builds a record set from a header row plus data rows.
// Cells beyond the header width are ignored; short rows leave the
// trailing columns missing.
func fromRows(rows [][]string) lead.RecordSet {
	header := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		header[i] = strings.TrimSpace(h)
	}

	set := lead.RecordSet{Columns: header, Rows: make([]lead.Record, 0, len(rows)-1)}
	for _, raw := range rows[1:] {
		rec := make(lead.Record, len(header))
		for i, col := range header {
			if i < len(raw) && strings.TrimSpace(raw[i]) != "" {
				rec[col] = raw[i]
			} else {
				rec[col] = nil
			}
		}
		set.Rows = append(set.Rows, rec)
	}
	return set
}
