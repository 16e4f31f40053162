package lead

// Outcome is the result of one filter applied to a record set. Every
// input record lands in exactly one of Kept or Removed, so
// Kept.Len() + Removed.Len() always equals the input length. Removed
// records retain every original column; the attached Reason tags them
// for audit export.
type Outcome struct {
	Kept         RecordSet
	Removed      RecordSet
	RemovedCount int
	Reason       Reason
}

// StageSummary aggregates a sequence of outcomes applied to one record
// set: row counts before and after, and removals grouped by reason.
type StageSummary struct {
	BeforeCount int            `json:"before_count"`
	AfterCount  int            `json:"after_count"`
	Removals    map[Reason]int `json:"removal_summary"`
}

// Summarize builds a stage summary from the outcomes of one pipeline
// pass. beforeCount is the row count before the first filter ran.
func Summarize(beforeCount int, outcomes []Outcome) StageSummary {
	sum := StageSummary{
		BeforeCount: beforeCount,
		AfterCount:  beforeCount,
		Removals:    make(map[Reason]int),
	}
	for _, o := range outcomes {
		if o.RemovedCount > 0 {
			sum.Removals[o.Reason] += o.RemovedCount
			sum.AfterCount -= o.RemovedCount
		}
	}
	return sum
}
