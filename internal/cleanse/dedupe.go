package cleanse

import (
	"math/rand"

	"github.com/leadops/leadwash/internal/lead"
	"github.com/leadops/leadwash/internal/normalize"
)

// RemoveDuplicatePhones keeps exactly one record per distinct
// normalized phone value. The survivor within a duplicate group is
// randomized per run: rows are shuffled before the first occurrence of
// each phone is kept, matching the upstream product behavior. An empty
// or invalid normalized phone is a duplicate group like any other.
func RemoveDuplicatePhones(set lead.RecordSet, phoneCol string) lead.Outcome {
	order := make([]int, set.Len())
	for i := range order {
		order[i] = i
	}
	rand.Shuffle(len(order), func(i, j int) {
		order[i], order[j] = order[j], order[i]
	})

	kept := set.Empty()
	removed := set.Empty()
	seen := make(map[string]struct{}, set.Len())

	for _, idx := range order {
		row := set.Rows[idx]
		phone := normalize.Phone(row.Field(phoneCol))
		if _, dup := seen[phone]; dup {
			removed.Rows = append(removed.Rows, row)
			continue
		}
		seen[phone] = struct{}{}
		kept.Rows = append(kept.Rows, row)
	}

	return lead.Outcome{
		Kept:         kept,
		Removed:      removed,
		RemovedCount: removed.Len(),
		Reason:       lead.ReasonDuplicatePhone,
	}
}
