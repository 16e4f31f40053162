package suppress

import (
	"bytes"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/leadops/leadwash/internal/lead"
)

func TestKeywordColumns(t *testing.T) {
	t.Run("matching columns selected", func(t *testing.T) {
		got := keywordColumns([]string{"Name", "PhoneNumber", "Cell Phone"}, "phone")
		if len(got) != 2 || got[0] != "PhoneNumber" || got[1] != "Cell Phone" {
			t.Errorf("keywordColumns = %v", got)
		}
	})

	t.Run("fallback to first column", func(t *testing.T) {
		got := keywordColumns([]string{"ColA", "ColB"}, "phone")
		if len(got) != 1 || got[0] != "ColA" {
			t.Errorf("keywordColumns = %v", got)
		}
	})

	t.Run("no columns at all", func(t *testing.T) {
		if got := keywordColumns(nil, "phone"); len(got) != 0 {
			t.Errorf("keywordColumns = %v, want empty", got)
		}
	})
}

func TestLoadTCPAPhones(t *testing.T) {
	set := lead.RecordSet{
		Columns: []string{"Phone"},
		Rows: []lead.Record{
			{"Phone": "(555) 123-4567"},
			{"Phone": "555123"}, // too short, dropped
			{"Phone": float64(3055550000)},
			{"Phone": nil},
		},
	}

	phones := LoadTCPAPhones(set)

	if phones.Len() != 2 {
		t.Fatalf("Len = %d, want 2", phones.Len())
	}
	if !phones.Has("5551234567") || !phones.Has("3055550000") {
		t.Errorf("phones = %v", phones)
	}
}

func TestLoadTCPAZips(t *testing.T) {
	set := lead.RecordSet{
		Columns: []string{"ZipCode"},
		Rows: []lead.Record{
			{"ZipCode": "90210"},
			{"ZipCode": "12345-6789"},
			{"ZipCode": "123"}, // too short, dropped
		},
	}

	zips := LoadTCPAZips(set)

	if zips.Len() != 2 {
		t.Fatalf("Len = %d, want 2", zips.Len())
	}
	if !zips.Has("90210") || !zips.Has("12345") {
		t.Errorf("zips = %v", zips)
	}
}

func TestLoadLDDNC(t *testing.T) {
	set := lead.RecordSet{
		Columns: []string{"Phone", "Name"},
		Rows: []lead.Record{
			{"Phone": "5551234567", "Name": "JohnSmith"},
			{"Phone": "212", "Name": nil},
			{"Phone": "99", "Name": "  MaryJones "},
			{"Phone": nil, "Name": ""},
		},
	}

	phones, areaCodes, names := LoadLDDNC(set)

	if !phones.Has("5551234567") || phones.Len() != 1 {
		t.Errorf("phones = %v", phones)
	}
	if !areaCodes.Has("212") || areaCodes.Len() != 1 {
		t.Errorf("areaCodes = %v", areaCodes)
	}
	if !names.Has("johnsmith") || !names.Has("maryjones") || names.Len() != 2 {
		t.Errorf("names = %v", names)
	}
}

func TestLoadLDDNC_TooFewColumns(t *testing.T) {
	phones, areaCodes, names := LoadLDDNC(lead.RecordSet{Columns: []string{"Phone"}})
	if phones.Len() != 0 || areaCodes.Len() != 0 || names.Len() != 0 {
		t.Error("single-column file should yield empty sets")
	}
}

func TestLoadMasterPhones(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	// Sheet1 has a phone column by name; the second sheet has no phone
	// header so its first column is used.
	f.SetSheetRow("Sheet1", "A1", &[]any{"Name", "Phone"})
	f.SetSheetRow("Sheet1", "A2", &[]any{"Ann", "555-123-4567"})
	f.SetSheetRow("Sheet1", "A3", &[]any{"Bob", "bad"})

	if _, err := f.NewSheet("Archive"); err != nil {
		t.Fatal(err)
	}
	f.SetSheetRow("Archive", "A1", &[]any{"Number"})
	f.SetSheetRow("Archive", "A2", &[]any{"3055550000"})

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatal(err)
	}

	phones, err := LoadMasterPhones(buf.Bytes())
	if err != nil {
		t.Fatalf("LoadMasterPhones: %v", err)
	}
	if phones.Len() != 2 {
		t.Fatalf("Len = %d, want 2: %v", phones.Len(), phones)
	}
	if !phones.Has("5551234567") || !phones.Has("3055550000") {
		t.Errorf("phones = %v", phones)
	}
}

func TestLoadMasterPhones_NotAWorkbook(t *testing.T) {
	if _, err := LoadMasterPhones([]byte("plain,csv,data")); err == nil {
		t.Fatal("expected error for non-xlsx payload")
	}
}
