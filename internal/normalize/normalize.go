// Package normalize converts raw cell values into the canonical
// comparison forms every suppression and deduplication rule operates
// on. Keeping matching on canonical forms means source formatting
// (dashes, parentheses, scientific notation, case) cannot cause a
// missed suppression match.
package normalize

import (
	"math"
	"strconv"
	"strings"

	"github.com/leadops/leadwash/internal/lead"
)

// Phone reduces a raw phone value to its digits. Floats (produced by
// spreadsheet scientific notation for large integers) are rendered as
// integer strings first so no decimal point or exponent survives as a
// spurious character. Missing, empty, and NaN inputs yield "".
// Idempotent: Phone(Phone(x)) == Phone(x).
func Phone(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case bool:
		return ""
	case float64:
		return digits(floatToIntString(t))
	case string:
		s := t
		if strings.ContainsAny(s, "eE") {
			if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
				s = floatToIntString(f)
			}
		}
		return digits(s)
	default:
		return digits(lead.ValueString(v))
	}
}

// Zip reduces a raw zip value to its first 5 digits, or "" when fewer
// than 5 digits are present.
func Zip(v any) string {
	d := digits(lead.ValueString(v))
	if len(d) < 5 {
		return ""
	}
	return d[:5]
}

// Name trims and lowercases a raw name value. Missing inputs yield "".
func Name(v any) string {
	if lead.IsMissing(v) {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(lead.ValueString(v)))
}

// floatToIntString renders a float as a truncated integer string, the
// same way spreadsheet numerics are recovered from scientific notation.
func floatToIntString(f float64) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return ""
	}
	if math.Abs(f) >= 1e18 {
		// Out of int64 range; fall back to non-exponent rendering.
		return strconv.FormatFloat(f, 'f', 0, 64)
	}
	return strconv.FormatInt(int64(math.Trunc(f)), 10)
}

func digits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
