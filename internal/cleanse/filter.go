// Package cleanse implements the record validators and the filter
// engine that partitions a record set into kept and removed subsets,
// one removal reason per filter.
package cleanse

import (
	"github.com/leadops/leadwash/internal/lead"
)

// RemovePredicate reports whether a record should be removed.
type RemovePredicate func(lead.Record) bool

// Partition splits a record set using a removal predicate. Every input
// row lands in exactly one of kept or removed; order is preserved in
// both subsets. The input set is not mutated.
func Partition(set lead.RecordSet, reason lead.Reason, remove RemovePredicate) lead.Outcome {
	kept := set.Empty()
	removed := set.Empty()

	for _, row := range set.Rows {
		if remove(row) {
			removed.Rows = append(removed.Rows, row)
		} else {
			kept.Rows = append(kept.Rows, row)
		}
	}

	return lead.Outcome{
		Kept:         kept,
		Removed:      removed,
		RemovedCount: removed.Len(),
		Reason:       reason,
	}
}

// Stage is one filter in a pipeline: it partitions whatever survived
// the previous stages.
type Stage func(lead.RecordSet) lead.Outcome

// Run applies stages in order, each seeing only the survivors of the
// previous one, so a record carries the reason of the first filter
// that removed it. Returns the final kept set, every outcome, and an
// aggregate summary.
func Run(set lead.RecordSet, stages []Stage) (lead.RecordSet, []lead.Outcome, lead.StageSummary) {
	current := set
	outcomes := make([]lead.Outcome, 0, len(stages))

	for _, stage := range stages {
		out := stage(current)
		outcomes = append(outcomes, out)
		current = out.Kept
	}

	return current, outcomes, lead.Summarize(set.Len(), outcomes)
}
