// Package suppress loads regulatory suppression lists (DNC, TCPA,
// master phone lists) from arbitrary tabular reference files and
// applies them against lead record sets. Loaders are heuristic and
// best-effort: a malformed sheet, row, or value is skipped, never
// fatal, because aborting a legally required suppression pass is worse
// than partial suppression.
package suppress

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/leadops/leadwash/internal/lead"
	"github.com/leadops/leadwash/internal/normalize"
)

// Set is a reference set of normalized strings (phones, zips, area
// codes, or concatenated lowercase names). Immutable for the duration
// of a run once loaded.
type Set map[string]struct{}

// Has reports membership.
func (s Set) Has(v string) bool {
	_, ok := s[v]
	return ok
}

// Len returns the number of entries.
func (s Set) Len() int {
	return len(s)
}

func (s Set) add(v string) {
	s[v] = struct{}{}
}

// keywordColumns returns the columns whose name contains the keyword
// (case-insensitive), falling back to the first column when none match.
func keywordColumns(columns []string, keyword string) []string {
	var matched []string
	for _, c := range columns {
		if strings.Contains(strings.ToLower(c), keyword) {
			matched = append(matched, c)
		}
	}
	if len(matched) == 0 && len(columns) > 0 {
		matched = []string{columns[0]}
	}
	return matched
}

// LoadTCPAPhones extracts normalized 10-digit phones from a TCPA phone
// suppression file. Columns whose name contains "phone" are used; when
// none match, the first column is.
func LoadTCPAPhones(set lead.RecordSet) Set {
	phones := make(Set)
	for _, col := range keywordColumns(set.Columns, "phone") {
		for _, row := range set.Rows {
			n := normalize.Phone(row.Field(col))
			if len(n) == 10 {
				phones.add(n)
			}
		}
	}
	return phones
}

// LoadTCPAZips extracts normalized 5-digit zip codes from a TCPA zip
// suppression file. Columns whose name contains "zip" are used; when
// none match, the first column is.
func LoadTCPAZips(set lead.RecordSet) Set {
	zips := make(Set)
	for _, col := range keywordColumns(set.Columns, "zip") {
		for _, row := range set.Rows {
			z := normalize.Zip(row.Field(col))
			if len(z) == 5 {
				zips.add(z)
			}
		}
	}
	return zips
}

// LoadLDDNC extracts phone numbers, area codes, and concatenated names
// from an LD DNC file. Only the first two columns are read: column 1
// holds 10-digit phones or 3-digit area codes (length decides which),
// column 2 holds pre-concatenated FirstNameLastName strings. A file
// with fewer than two columns yields three empty sets.
func LoadLDDNC(set lead.RecordSet) (phones, areaCodes, names Set) {
	phones = make(Set)
	areaCodes = make(Set)
	names = make(Set)

	if len(set.Columns) < 2 {
		return phones, areaCodes, names
	}

	phoneCol, nameCol := set.Columns[0], set.Columns[1]
	for _, row := range set.Rows {
		if v := row.Field(phoneCol); !lead.IsMissing(v) {
			switch d := normalize.Phone(v); len(d) {
			case 10:
				phones.add(d)
			case 3:
				areaCodes.add(d)
			}
		}
		if name := normalize.Name(row.Field(nameCol)); name != "" {
			names.add(name)
		}
	}
	return phones, areaCodes, names
}

// LoadMasterPhones extracts normalized 10-digit phones from every sheet
// of a master suppression workbook, using the same phone-column
// heuristic per sheet. A sheet that fails to parse is skipped so a
// malformed tab cannot abort extraction from the others.
func LoadMasterPhones(data []byte) (Set, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open master phone workbook: %w", err)
	}
	defer f.Close()

	phones := make(Set)
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil || len(rows) < 2 {
			continue
		}

		header := rows[0]
		var phoneIdx []int
		for i, name := range header {
			if strings.Contains(strings.ToLower(name), "phone") {
				phoneIdx = append(phoneIdx, i)
			}
		}
		if len(phoneIdx) == 0 && len(header) > 0 {
			phoneIdx = []int{0}
		}

		for _, row := range rows[1:] {
			for _, i := range phoneIdx {
				if i >= len(row) {
					continue
				}
				n := normalize.Phone(row[i])
				if len(n) == 10 {
					phones.add(n)
				}
			}
		}
	}
	return phones, nil
}
