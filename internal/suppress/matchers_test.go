package suppress

import (
	"testing"

	"github.com/leadops/leadwash/internal/lead"
)

func leadSet() lead.RecordSet {
	return lead.RecordSet{
		Columns: []string{"FirstName", "LastName", "Phone1", "ZipCode"},
		Rows: []lead.Record{
			{"FirstName": "Ann", "LastName": "Smith", "Phone1": "2125551234", "ZipCode": "10001"},
			{"FirstName": "Bob", "LastName": "Jones", "Phone1": "3055556789", "ZipCode": "33101"},
			{"FirstName": "Cat", "LastName": "Lee", "Phone1": "7865550000", "ZipCode": "90210"},
		},
	}
}

func setOf(values ...string) Set {
	s := make(Set, len(values))
	for _, v := range values {
		s.add(v)
	}
	return s
}

func TestFilterByDNCPhones(t *testing.T) {
	out := FilterByDNCPhones(leadSet(), "Phone1", setOf("3055556789"))

	if out.RemovedCount != 1 {
		t.Fatalf("RemovedCount = %d, want 1", out.RemovedCount)
	}
	if out.Removed.Rows[0]["LastName"] != "Jones" {
		t.Errorf("removed row = %v", out.Removed.Rows[0])
	}
	if out.Reason != lead.ReasonDNCPhoneMatch {
		t.Errorf("Reason = %q", out.Reason)
	}
}

func TestFilterByAreaCodes(t *testing.T) {
	out := FilterByAreaCodes(leadSet(), "Phone1", setOf("212", "305"))

	if out.RemovedCount != 2 {
		t.Fatalf("RemovedCount = %d, want 2", out.RemovedCount)
	}
	if out.Kept.Len() != 1 || out.Kept.Rows[0]["Phone1"] != "7865550000" {
		t.Errorf("kept = %v", out.Kept.Rows)
	}
}

func TestFilterByAreaCodes_ShortPhoneNeverMatches(t *testing.T) {
	set := lead.RecordSet{
		Columns: []string{"Phone1"},
		Rows:    []lead.Record{{"Phone1": "21"}},
	}
	out := FilterByAreaCodes(set, "Phone1", setOf("212"))
	if out.RemovedCount != 0 {
		t.Errorf("RemovedCount = %d, want 0", out.RemovedCount)
	}
}

func TestFilterByNameMatch(t *testing.T) {
	out := FilterByNameMatch(leadSet(), "FirstName", "LastName", setOf("annsmith"))

	if out.RemovedCount != 1 {
		t.Fatalf("RemovedCount = %d, want 1", out.RemovedCount)
	}
	if out.Removed.Rows[0]["FirstName"] != "Ann" {
		t.Errorf("removed row = %v", out.Removed.Rows[0])
	}
	if out.Reason != lead.ReasonDNCNameMatch {
		t.Errorf("Reason = %q", out.Reason)
	}
}

func TestFilterByTCPAZips(t *testing.T) {
	out := FilterByTCPAZips(leadSet(), "ZipCode", setOf("90210"))

	if out.RemovedCount != 1 {
		t.Fatalf("RemovedCount = %d, want 1", out.RemovedCount)
	}
	if out.Removed.Rows[0]["LastName"] != "Lee" {
		t.Errorf("removed row = %v", out.Removed.Rows[0])
	}
}

func TestFilterByMasterPhones(t *testing.T) {
	out := FilterByMasterPhones(leadSet(), "Phone1", setOf("2125551234", "7865550000"))

	if out.RemovedCount != 2 {
		t.Fatalf("RemovedCount = %d, want 2", out.RemovedCount)
	}
	if out.Kept.Len() != 1 || out.Kept.Rows[0]["LastName"] != "Jones" {
		t.Errorf("kept = %v", out.Kept.Rows)
	}
	if out.Reason != lead.ReasonMasterPhoneMatch {
		t.Errorf("Reason = %q", out.Reason)
	}
}
