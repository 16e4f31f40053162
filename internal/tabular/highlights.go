package tabular

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/leadops/leadwash/internal/lead"
)

// ReadExcelWithHighlights parses a workbook's first sheet into a record
// set and scans cell styles for highlighted cells. Returned coordinates
// are 0-based (data row, column); the header row is not scanned. A cell
// counts as highlighted when it carries a solid pattern fill whose
// color is neither fully transparent nor white. The scan is bounded by
// the data's row and column extent.
func ReadExcelWithHighlights(data []byte) (lead.RecordSet, map[lead.CellRef]struct{}, error) {
	set, err := readExcel(data)
	if err != nil {
		return lead.RecordSet{}, nil, err
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return lead.RecordSet{}, nil, fmt.Errorf("open workbook for highlight scan: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetList()[0]
	highlighted := make(map[lead.CellRef]struct{})

	// Style IDs are shared across cells; resolving each ID once keeps
	// the scan linear in distinct styles rather than cells.
	styleCache := make(map[int]bool)

	for rowIdx := 0; rowIdx < set.Len(); rowIdx++ {
		for colIdx := 0; colIdx < len(set.Columns); colIdx++ {
			cell, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err != nil {
				continue
			}
			styleID, err := f.GetCellStyle(sheet, cell)
			if err != nil {
				continue
			}

			hl, ok := styleCache[styleID]
			if !ok {
				hl = styleHasHighlight(f, styleID)
				styleCache[styleID] = hl
			}
			if hl {
				highlighted[lead.CellRef{Row: rowIdx, Col: colIdx}] = struct{}{}
			}
		}
	}
	return set, highlighted, nil
}

// styleHasHighlight reports whether a style carries a solid non-white,
// non-transparent fill.
func styleHasHighlight(f *excelize.File, styleID int) bool {
	style, err := f.GetStyle(styleID)
	if err != nil || style == nil {
		return false
	}
	fill := style.Fill
	if fill.Type != "pattern" || fill.Pattern != 1 || len(fill.Color) == 0 {
		return false
	}
	return isHighlightColor(fill.Color[0])
}

// isHighlightColor rejects empty, fully transparent, and white fills.
// Colors arrive as RGB or ARGB hex.
func isHighlightColor(color string) bool {
	c := strings.ToUpper(strings.TrimPrefix(strings.TrimSpace(color), "#"))
	switch c {
	case "", "00000000", "FFFFFF", "FFFFFFFF":
		return false
	}
	return true
}
