// Package crossfile removes duplicate phones across priority-ordered
// record sets. Slot 1 (the newest file) is kept in full; each lower
// slot is deduplicated against everything that survived above it.
package crossfile

import (
	"github.com/leadops/leadwash/internal/cleanse"
	"github.com/leadops/leadwash/internal/lead"
	"github.com/leadops/leadwash/internal/normalize"
)

// Cascade deduplicates slots in strict priority order, slot 0 highest.
// phoneCols names each slot's phone column, since slots loaded from
// different sources may not share header spelling. The reference phone
// set for slot k is the union of normalized phones from the
// already-deduplicated slots 0..k-1 (the rolling property), so a phone
// present in slots 2, 3, and 5 survives in slot 2 and is removed from
// slots 3 and 5. The cascade is a fold over immutable snapshots:
// inputs are never mutated, and each slot's outcome is returned, slot 0
// included with zero removals. Within-slot duplicates are out of scope;
// callers run intra-file deduplication first.
func Cascade(slots []lead.RecordSet, phoneCols []string) []lead.Outcome {
	outcomes := make([]lead.Outcome, 0, len(slots))
	reference := make(map[string]struct{})

	for i, slot := range slots {
		phoneCol := phoneCols[i]

		var out lead.Outcome
		if i == 0 {
			out = lead.Outcome{
				Kept:    slot,
				Removed: slot.Empty(),
				Reason:  lead.ReasonCrossfileDedupe,
			}
		} else {
			out = cleanse.Partition(slot, lead.ReasonCrossfileDedupe, func(r lead.Record) bool {
				_, dup := reference[normalize.Phone(r.Field(phoneCol))]
				return dup
			})
		}
		outcomes = append(outcomes, out)

		// Only survivors feed the reference for lower-priority slots.
		for _, row := range out.Kept.Rows {
			if n := normalize.Phone(row.Field(phoneCol)); n != "" {
				reference[n] = struct{}{}
			}
		}
	}
	return outcomes
}
