package cleanse

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/leadops/leadwash/internal/lead"
	"github.com/leadops/leadwash/internal/normalize"
)

// IsValidLastName reports whether a last name value is usable.
// Valid when non-empty after trimming, not the boolean true (the typed
// boolean, not the string "true"), and the first character is a letter.
func IsValidLastName(v any) bool {
	if lead.IsMissing(v) {
		return false
	}
	if b, ok := v.(bool); ok && b {
		return false
	}

	s := strings.TrimSpace(lead.ValueString(v))
	if s == "" {
		return false
	}

	first := []rune(s)[0]
	return unicode.IsLetter(first)
}

// IsValidPhone reports whether a phone normalizes to exactly 10 digits
// not starting with 1.
func IsValidPhone(v any) bool {
	n := normalize.Phone(v)
	if len(n) != 10 {
		return false
	}
	return n[0] != '1'
}

// IsEmptyPhone reports whether a phone normalizes to the empty string.
func IsEmptyPhone(v any) bool {
	return normalize.Phone(v) == ""
}

// IsValidEmail checks structural email validity: non-empty, exactly one
// @, and non-empty text on both sides of it.
func IsValidEmail(v any) bool {
	if lead.IsMissing(v) {
		return false
	}

	s := strings.TrimSpace(lead.ValueString(v))
	if s == "" {
		return false
	}
	if strings.Count(s, "@") != 1 {
		return false
	}

	at := strings.Index(s, "@")
	return at > 0 && at < len(s)-1
}

// placeholderEmails are exact trim+lowercase values treated as "no
// email given" entries.
var placeholderEmails = map[string]struct{}{
	"n/a":     {},
	"no":      {},
	"nada":    {},
	"na":      {},
	"noemail": {},
	"none":    {},
}

// IsPlaceholderEmail reports whether the value is exactly one of the
// closed placeholder set (case-insensitive).
func IsPlaceholderEmail(v any) bool {
	if lead.IsMissing(v) {
		return false
	}
	s := strings.ToLower(strings.TrimSpace(lead.ValueString(v)))
	_, ok := placeholderEmails[s]
	return ok
}

// uuidPattern is the fixed 8-4-4-4-12 hyphenated hex form. uuid.Parse
// is deliberately not used here: it also accepts braced, URN, and
// 32-hex renderings, which this contract rejects.
var uuidPattern = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

// IsValidUUID reports whether the value matches the hyphenated
// 8-4-4-4-12 hex UUID form, case-insensitive.
func IsValidUUID(v any) bool {
	if lead.IsMissing(v) {
		return false
	}
	return uuidPattern.MatchString(strings.TrimSpace(lead.ValueString(v)))
}

// RowContainsTest reports whether the first-name or last-name field
// contains the substring "test", case-insensitive. Only those two
// fields are checked.
func RowContainsTest(r lead.Record, firstCol, lastCol string) bool {
	for _, col := range []string{firstCol, lastCol} {
		if col == "" {
			continue
		}
		v, ok := r[col]
		if !ok || lead.IsMissing(v) {
			continue
		}
		if strings.Contains(strings.ToLower(lead.ValueString(v)), "test") {
			return true
		}
	}
	return false
}

// DefaultProhibitedTerms are the substrings that make a whole row
// unusable wherever they appear.
var DefaultProhibitedTerms = []string{"loan depot", "fuck"}

// RowContainsProhibited reports whether any field contains one of the
// prohibited terms, case-insensitive.
func RowContainsProhibited(r lead.Record, terms []string) bool {
	for _, v := range r {
		if lead.IsMissing(v) {
			continue
		}
		s := strings.ToLower(lead.ValueString(v))
		for _, term := range terms {
			if strings.Contains(s, term) {
				return true
			}
		}
	}
	return false
}

// FilterInvalidLastNames removes rows whose last name is invalid.
func FilterInvalidLastNames(set lead.RecordSet, lastNameCol string) lead.Outcome {
	return Partition(set, lead.ReasonInvalidLastName, func(r lead.Record) bool {
		return !IsValidLastName(r.Field(lastNameCol))
	})
}

// FilterEmptyPhones removes rows whose phone normalizes to nothing.
// This runs as its own stage, before structural phone validation, so
// "no phone at all" and "malformed phone" are audited separately.
func FilterEmptyPhones(set lead.RecordSet, phoneCol string) lead.Outcome {
	return Partition(set, lead.ReasonEmptyPhone, func(r lead.Record) bool {
		return IsEmptyPhone(r.Field(phoneCol))
	})
}

// FilterInvalidPhones removes rows whose phone is structurally invalid.
func FilterInvalidPhones(set lead.RecordSet, phoneCol string) lead.Outcome {
	return Partition(set, lead.ReasonInvalidPhone, func(r lead.Record) bool {
		return !IsValidPhone(r.Field(phoneCol))
	})
}

// FilterInvalidEmails removes rows whose email is structurally invalid.
func FilterInvalidEmails(set lead.RecordSet, emailCol string) lead.Outcome {
	return Partition(set, lead.ReasonInvalidEmail, func(r lead.Record) bool {
		return !IsValidEmail(r.Field(emailCol))
	})
}

// FilterPlaceholderEmails removes rows whose email is a known
// placeholder token.
func FilterPlaceholderEmails(set lead.RecordSet, emailCol string) lead.Outcome {
	return Partition(set, lead.ReasonPlaceholderEmail, func(r lead.Record) bool {
		return IsPlaceholderEmail(r.Field(emailCol))
	})
}

// FilterTestEntries removes rows with TEST markers in the name fields.
func FilterTestEntries(set lead.RecordSet, firstCol, lastCol string) lead.Outcome {
	return Partition(set, lead.ReasonContainsTest, func(r lead.Record) bool {
		return RowContainsTest(r, firstCol, lastCol)
	})
}

// FilterProhibitedContent removes rows containing any prohibited term
// in any field.
func FilterProhibitedContent(set lead.RecordSet, terms []string) lead.Outcome {
	return Partition(set, lead.ReasonProhibitedContent, func(r lead.Record) bool {
		return RowContainsProhibited(r, terms)
	})
}

// FilterInvalidUUIDs removes rows whose lead ID is not a well-formed
// UUID.
func FilterInvalidUUIDs(set lead.RecordSet, uuidCol string) lead.Outcome {
	return Partition(set, lead.ReasonInvalidUUID, func(r lead.Record) bool {
		return !IsValidUUID(r.Field(uuidCol))
	})
}

// RemoveHighlightedRows removes every row whose index appears in the
// highlighted cell set, regardless of which column was flagged. A
// highlighted cell is a human "remove this" mark and is honored before
// any programmatic rule runs.
func RemoveHighlightedRows(set lead.RecordSet, highlighted map[lead.CellRef]struct{}) lead.Outcome {
	rows := make(map[int]struct{}, len(highlighted))
	for ref := range highlighted {
		rows[ref.Row] = struct{}{}
	}

	kept := set.Empty()
	removed := set.Empty()
	for i, row := range set.Rows {
		if _, ok := rows[i]; ok {
			removed.Rows = append(removed.Rows, row)
		} else {
			kept.Rows = append(kept.Rows, row)
		}
	}

	return lead.Outcome{
		Kept:         kept,
		Removed:      removed,
		RemovedCount: removed.Len(),
		Reason:       lead.ReasonHighlightedCells,
	}
}
