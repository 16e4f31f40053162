// Package lead defines the data model for consumer lead records:
// records and record sets, the required-column contract, removal
// reasons, and filter outcomes. This package has no I/O dependencies
// and can be used by any ingestion frontend.
package lead

import (
	"fmt"
	"math"
	"strconv"
)

// Record is a single lead row, mapping column name to raw cell value.
// Values are string, float64, bool, or nil (missing). Spreadsheet
// readers may only produce strings; the wider types exist so typed
// sources (JSON ingestion, numeric spreadsheet cells) keep their
// original shape for validators that distinguish them.
type Record map[string]any

// Field returns the raw value for a column, or nil when absent.
func (r Record) Field(name string) any {
	return r[name]
}

// Clone returns a shallow copy of the record.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// RecordSet is an ordered, duplicate-preserving collection of records
// sharing one column schema. Row identity is positional.
type RecordSet struct {
	Columns []string
	Rows    []Record
}

// Len returns the number of rows.
func (s RecordSet) Len() int {
	return len(s.Rows)
}

// Empty returns a record set with the same columns and no rows.
func (s RecordSet) Empty() RecordSet {
	return RecordSet{Columns: s.Columns}
}

// CellRef is a 0-based (data row, column) coordinate within a record set.
type CellRef struct {
	Row int
	Col int
}

// ValueString renders a raw cell value as a string for display and
// matching. Missing values render as "". Integral floats render without
// a decimal point or exponent so spreadsheet numerics compare cleanly.
func ValueString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		if t {
			return "TRUE"
		}
		return "FALSE"
	case float64:
		if math.IsNaN(t) {
			return ""
		}
		if t == math.Trunc(t) && math.Abs(t) < 1e15 {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	default:
		return fmt.Sprint(t)
	}
}

// IsMissing reports whether a cell value counts as absent: nil or a
// float NaN (the missing marker produced by spreadsheet tooling).
func IsMissing(v any) bool {
	if v == nil {
		return true
	}
	if f, ok := v.(float64); ok {
		return math.IsNaN(f)
	}
	return false
}
