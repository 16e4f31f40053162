// Package core orchestrates cleansing runs: it owns the in-memory run
// registry, loads lead files and suppression references, and drives the
// canonical filter pipeline and the cross-file cascade. It has no UI
// dependencies and can be driven by any frontend.
package core

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/leadops/leadwash/internal/lead"
	"github.com/leadops/leadwash/internal/suppress"
)

// MaxSlots is the number of file slots per run: slot 1 is the newest
// weekly file, slots 2..5 are older pre-cleaned files.
const MaxSlots = 5

var (
	ErrRunNotFound       = errors.New("run not found")
	ErrTooManyRuns       = errors.New("too many active runs")
	ErrSlotOutOfRange    = fmt.Errorf("slot must be between 1 and %d", MaxSlots)
	ErrSlotNotLoaded     = errors.New("no file loaded in slot")
	ErrSlotNotCleansed   = errors.New("slot 1 must be cleansed before the cascade")
	ErrSlotNotCleansable = errors.New("only slot 1 can be cleansed")
	ErrNoPhoneColumn     = errors.New("no phone column detected")
	ErrUnknownRefKind    = errors.New("unknown reference kind")
)

// ReferenceKind names a loadable suppression list.
type ReferenceKind string

const (
	RefDNC        ReferenceKind = "dnc"
	RefTCPAPhones ReferenceKind = "tcpa-phones"
	RefTCPAZips   ReferenceKind = "tcpa-zips"
	RefMaster     ReferenceKind = "master"
)

// references holds every suppression set loaded for a run. Each set is
// computed once from the uploaded bytes and reused across matcher
// stages; a nil set means that list was never loaded.
type references struct {
	DNCPhones    suppress.Set
	DNCAreaCodes suppress.Set
	DNCNames     suppress.Set
	TCPAPhones   suppress.Set
	TCPAZips     suppress.Set
	MasterPhones suppress.Set
}

// fileSlot is one of the run's record sets. The working set is
// replaced by each pipeline stage's kept subset; outcomes accumulate
// for audit export.
type fileSlot struct {
	FileName   string
	Set        lead.RecordSet
	Mapping    lead.ColumnMapping
	Highlights map[lead.CellRef]struct{}
	Outcomes   []lead.Outcome
	Summary    *lead.StageSummary
	Cleansed   bool
	Dropped    []string
}

// Run is one cleansing session: up to five prioritized file slots plus
// the suppression references shared by all of them.
type Run struct {
	ID        uuid.UUID
	CreatedAt time.Time

	mu    sync.Mutex
	slots [MaxSlots]*fileSlot
	refs  references
}

// slot returns the 1-based slot, or an error when out of range or
// empty.
func (r *Run) slot(n int) (*fileSlot, error) {
	if n < 1 || n > MaxSlots {
		return nil, ErrSlotOutOfRange
	}
	s := r.slots[n-1]
	if s == nil {
		return nil, fmt.Errorf("%w: %d", ErrSlotNotLoaded, n)
	}
	return s, nil
}

// RunStatus is the caller-facing snapshot of a run.
type RunStatus struct {
	ID        uuid.UUID    `json:"id"`
	CreatedAt time.Time    `json:"created_at"`
	Slots     []SlotStatus `json:"slots"`
	Loaded    []string     `json:"references_loaded"`
}

// SlotStatus summarizes one file slot.
type SlotStatus struct {
	Slot     int                `json:"slot"`
	FileName string             `json:"file_name"`
	Rows     int                `json:"rows"`
	Cleansed bool               `json:"cleansed"`
	Dropped  []string           `json:"dropped_columns,omitempty"`
	Summary  *lead.StageSummary `json:"summary,omitempty"`
}

func (r *Run) status() *RunStatus {
	st := &RunStatus{ID: r.ID, CreatedAt: r.CreatedAt}
	for i, s := range r.slots {
		if s == nil {
			continue
		}
		st.Slots = append(st.Slots, SlotStatus{
			Slot:     i + 1,
			FileName: s.FileName,
			Rows:     s.Set.Len(),
			Cleansed: s.Cleansed,
			Dropped:  s.Dropped,
			Summary:  s.Summary,
		})
	}
	if r.refs.DNCPhones != nil {
		st.Loaded = append(st.Loaded, string(RefDNC))
	}
	if r.refs.TCPAPhones != nil {
		st.Loaded = append(st.Loaded, string(RefTCPAPhones))
	}
	if r.refs.TCPAZips != nil {
		st.Loaded = append(st.Loaded, string(RefTCPAZips))
	}
	if r.refs.MasterPhones != nil {
		st.Loaded = append(st.Loaded, string(RefMaster))
	}
	return st
}
