package lead

import (
	"fmt"
	"sort"
	"strings"
)

// RequiredColumns is the closed column contract for a raw lead file.
// A load missing any of these is rejected before any filter runs;
// columns outside this list are dropped.
var RequiredColumns = []string{
	"DateReceived",
	"FirstName",
	"LastName",
	"Email",
	"Phone1",
	"StreetAddress",
	"City",
	"State",
	"ZipCode",
	"DesiredLoanAmount",
	"FirstMortgageBalance",
	"ExistingPropertyValue",
	"Universal_LeadId",
}

// MissingColumnsError reports required columns absent from a load.
type MissingColumnsError struct {
	Missing []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("missing required columns: %s", strings.Join(e.Missing, ", "))
}

// ValidateRequiredColumns checks that every required column exists in
// the set. Returns a *MissingColumnsError listing the absent columns.
func ValidateRequiredColumns(s RecordSet) error {
	existing := make(map[string]struct{}, len(s.Columns))
	for _, c := range s.Columns {
		existing[c] = struct{}{}
	}

	var missing []string
	for _, c := range RequiredColumns {
		if _, ok := existing[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return &MissingColumnsError{Missing: missing}
	}
	return nil
}

// FilterToRequiredColumns drops every column outside the required
// contract, returning the narrowed set and the sorted dropped names.
func FilterToRequiredColumns(s RecordSet) (RecordSet, []string) {
	required := make(map[string]struct{}, len(RequiredColumns))
	for _, c := range RequiredColumns {
		required[c] = struct{}{}
	}

	var keep []string
	for _, c := range RequiredColumns {
		for _, existing := range s.Columns {
			if existing == c {
				keep = append(keep, c)
				break
			}
		}
	}

	var dropped []string
	for _, c := range s.Columns {
		if _, ok := required[c]; !ok {
			dropped = append(dropped, c)
		}
	}
	sort.Strings(dropped)

	out := RecordSet{Columns: keep, Rows: make([]Record, 0, len(s.Rows))}
	for _, row := range s.Rows {
		nr := make(Record, len(keep))
		for _, c := range keep {
			if v, ok := row[c]; ok {
				nr[c] = v
			}
		}
		out.Rows = append(out.Rows, nr)
	}
	return out, dropped
}

// FieldRole identifies a mapped field used by filters and exports.
type FieldRole string

const (
	RolePhone     FieldRole = "phone"
	RoleFirstName FieldRole = "first_name"
	RoleLastName  FieldRole = "last_name"
	RoleEmail     FieldRole = "email"
	RoleZipCode   FieldRole = "zip_code"
	RoleLeadID    FieldRole = "lead_id"
)

// ColumnMapping maps field roles to actual column names in a load.
type ColumnMapping struct {
	Phone     string
	FirstName string
	LastName  string
	Email     string
	ZipCode   string
	LeadID    string
}

// columnPatterns lists common header spellings per role, in preference
// order, for auto-detection.
var columnPatterns = map[FieldRole][]string{
	RolePhone:     {"Phone1", "Phone", "PhoneNumber", "phone1", "phone"},
	RoleFirstName: {"FirstName", "First_Name", "First Name", "firstname"},
	RoleLastName:  {"LastName", "Last_Name", "Last Name", "lastname"},
	RoleEmail:     {"Email", "EmailAddress", "email", "E-mail"},
	RoleZipCode:   {"ZipCode", "Zip_Code", "Zip Code", "Zip", "zipcode", "zip"},
	RoleLeadID:    {"Universal_LeadId", "LeadId", "Lead_Id", "UUID", "ID"},
}

// DetectColumns auto-detects the column mapping from headers.
// Matching is exact-first, then case-insensitive.
func DetectColumns(columns []string) ColumnMapping {
	find := func(role FieldRole) string {
		for _, pattern := range columnPatterns[role] {
			for _, col := range columns {
				if col == pattern {
					return col
				}
			}
		}
		for _, pattern := range columnPatterns[role] {
			for _, col := range columns {
				if strings.EqualFold(col, pattern) {
					return col
				}
			}
		}
		return ""
	}

	return ColumnMapping{
		Phone:     find(RolePhone),
		FirstName: find(RoleFirstName),
		LastName:  find(RoleLastName),
		Email:     find(RoleEmail),
		ZipCode:   find(RoleZipCode),
		LeadID:    find(RoleLeadID),
	}
}

// ColumnFor returns the mapped column name for a role, or "".
func (m ColumnMapping) ColumnFor(role FieldRole) string {
	switch role {
	case RolePhone:
		return m.Phone
	case RoleFirstName:
		return m.FirstName
	case RoleLastName:
		return m.LastName
	case RoleEmail:
		return m.Email
	case RoleZipCode:
		return m.ZipCode
	case RoleLeadID:
		return m.LeadID
	default:
		return ""
	}
}
