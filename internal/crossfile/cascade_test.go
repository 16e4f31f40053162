package crossfile

import (
	"testing"

	"github.com/leadops/leadwash/internal/lead"
)

func slot(phones ...string) lead.RecordSet {
	set := lead.RecordSet{Columns: []string{"Phone1"}}
	for _, p := range phones {
		set.Rows = append(set.Rows, lead.Record{"Phone1": p})
	}
	return set
}

func phoneCols(n int) []string {
	cols := make([]string, n)
	for i := range cols {
		cols[i] = "Phone1"
	}
	return cols
}

func keptPhones(out lead.Outcome) []string {
	var phones []string
	for _, r := range out.Kept.Rows {
		phones = append(phones, r["Phone1"].(string))
	}
	return phones
}

func TestCascade_FirstSlotKeptInFull(t *testing.T) {
	slots := []lead.RecordSet{
		slot("5551234567", "3055550000"),
		slot("5551234567", "7865551111"),
	}

	outcomes := Cascade(slots, phoneCols(len(slots)))

	if len(outcomes) != 2 {
		t.Fatalf("len(outcomes) = %d, want 2", len(outcomes))
	}
	if outcomes[0].RemovedCount != 0 || outcomes[0].Kept.Len() != 2 {
		t.Errorf("slot 0 should be untouched: %+v", outcomes[0])
	}
	if outcomes[1].RemovedCount != 1 {
		t.Fatalf("slot 1 RemovedCount = %d, want 1", outcomes[1].RemovedCount)
	}
	if got := keptPhones(outcomes[1]); len(got) != 1 || got[0] != "7865551111" {
		t.Errorf("slot 1 kept = %v", got)
	}
}

func TestCascade_PhoneSurvivesOnlyInHighestSlot(t *testing.T) {
	// The same phone in slots 1, 2, and 4 (0-based 0, 1, 3) survives
	// only in the highest-priority slot holding it.
	shared := "5551234567"
	slots := []lead.RecordSet{
		slot(shared, "1110001111"),
		slot(shared, "2220002222"),
		slot("3330003333"),
		slot(shared),
	}

	outcomes := Cascade(slots, phoneCols(len(slots)))

	if outcomes[0].RemovedCount != 0 {
		t.Errorf("slot 0 removals = %d", outcomes[0].RemovedCount)
	}
	if outcomes[1].RemovedCount != 1 {
		t.Errorf("slot 1 removals = %d, want 1", outcomes[1].RemovedCount)
	}
	if outcomes[2].RemovedCount != 0 {
		t.Errorf("slot 2 removals = %d, want 0", outcomes[2].RemovedCount)
	}
	if outcomes[3].RemovedCount != 1 || outcomes[3].Kept.Len() != 0 {
		t.Errorf("slot 3 = %+v", outcomes[3])
	}
}

func TestCascade_RollingReferenceUsesSurvivorsOnly(t *testing.T) {
	// Phone B is removed from slot 1 as a duplicate of slot 0. It must
	// still be removed from slot 2: the reference holds slot 1's
	// survivors plus slot 0, and B remains present via slot 0.
	// Phone C appears first in slot 1 and survives there, so slot 2
	// loses its copy to slot 1's surviving one.
	slots := []lead.RecordSet{
		slot("2000000002"),                               // B
		slot("2000000002", "3000000003"),                 // B removed, C survives
		slot("2000000002", "3000000003", "4000000004"),   // only D survives
	}

	outcomes := Cascade(slots, phoneCols(len(slots)))

	if outcomes[1].RemovedCount != 1 {
		t.Errorf("slot 1 removals = %d, want 1 (B)", outcomes[1].RemovedCount)
	}
	if got := keptPhones(outcomes[1]); len(got) != 1 || got[0] != "3000000003" {
		t.Errorf("slot 1 kept = %v", got)
	}
	if outcomes[2].RemovedCount != 2 {
		t.Errorf("slot 2 removals = %d, want 2 (B and C)", outcomes[2].RemovedCount)
	}
	if got := keptPhones(outcomes[2]); len(got) != 1 || got[0] != "4000000004" {
		t.Errorf("slot 2 kept = %v", got)
	}
}

func TestCascade_EmptyPhonesNeverMatch(t *testing.T) {
	slots := []lead.RecordSet{
		slot(""),
		slot("", "5551234567"),
	}

	outcomes := Cascade(slots, phoneCols(len(slots)))

	if outcomes[1].RemovedCount != 0 {
		t.Errorf("empty phones should not cascade-match, removals = %d", outcomes[1].RemovedCount)
	}
}

func TestCascade_InputsNotMutated(t *testing.T) {
	first := slot("5551234567")
	second := slot("5551234567")
	slots := []lead.RecordSet{first, second}

	Cascade(slots, phoneCols(len(slots)))

	if second.Len() != 1 {
		t.Errorf("input slot mutated: len = %d", second.Len())
	}
}

func TestCascade_PerSlotPhoneColumns(t *testing.T) {
	newest := slot("5551234567")
	older := lead.RecordSet{
		Columns: []string{"Phone"},
		Rows: []lead.Record{
			{"Phone": "5551234567"},
			{"Phone": "3055550000"},
		},
	}

	outcomes := Cascade([]lead.RecordSet{newest, older}, []string{"Phone1", "Phone"})

	if outcomes[1].RemovedCount != 1 {
		t.Errorf("slot 1 removals = %d, want 1 despite differing column name", outcomes[1].RemovedCount)
	}
}
