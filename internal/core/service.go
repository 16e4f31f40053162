package core

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/leadops/leadwash/internal/cleanse"
	"github.com/leadops/leadwash/internal/config"
	"github.com/leadops/leadwash/internal/crossfile"
	"github.com/leadops/leadwash/internal/lead"
	"github.com/leadops/leadwash/internal/logging"
	"github.com/leadops/leadwash/internal/metrics"
	"github.com/leadops/leadwash/internal/suppress"
	"github.com/leadops/leadwash/internal/tabular"
)

// Service is the cleansing engine shared by all runs. All state is in
// memory; runs live until the caller deletes them.
type Service struct {
	cfg     *config.Config
	metrics *metrics.Metrics

	email      *cleanse.EmailHeuristic
	prohibited []string

	mu   sync.RWMutex
	runs map[uuid.UUID]*Run
}

// NewService builds a service from configuration. Prohibited terms from
// config extend the built-in list.
func NewService(cfg *config.Config, m *metrics.Metrics) (*Service, error) {
	heuristic, err := cleanse.NewEmailHeuristic(cleanse.DefaultEmailRules())
	if err != nil {
		return nil, fmt.Errorf("compile email rules: %w", err)
	}

	terms := append([]string{}, cleanse.DefaultProhibitedTerms...)
	terms = append(terms, cfg.Cleanse.ExtraProhibitedTerms...)

	return &Service{
		cfg:        cfg,
		metrics:    m,
		email:      heuristic,
		prohibited: terms,
		runs:       make(map[uuid.UUID]*Run),
	}, nil
}

// CreateRun registers a new empty run and returns its status.
func (s *Service) CreateRun(ctx context.Context) (*RunStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.runs) >= s.cfg.Cleanse.MaxRuns {
		return nil, ErrTooManyRuns
	}

	run := &Run{ID: uuid.New(), CreatedAt: time.Now().UTC()}
	s.runs[run.ID] = run
	s.metrics.ActiveRuns.Set(float64(len(s.runs)))

	logging.FromContext(ctx).Info("run created", "run_id", run.ID)
	return run.status(), nil
}

// DeleteRun discards a run and all of its in-memory state.
func (s *Service) DeleteRun(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.runs[id]; !ok {
		return ErrRunNotFound
	}
	delete(s.runs, id)
	s.metrics.ActiveRuns.Set(float64(len(s.runs)))

	logging.FromContext(ctx).Info("run deleted", "run_id", id)
	return nil
}

// Status returns the caller-facing snapshot of a run.
func (s *Service) Status(id uuid.UUID) (*RunStatus, error) {
	run, err := s.run(id)
	if err != nil {
		return nil, err
	}
	run.mu.Lock()
	defer run.mu.Unlock()
	return run.status(), nil
}

func (s *Service) run(id uuid.UUID) (*Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	run, ok := s.runs[id]
	if !ok {
		return nil, ErrRunNotFound
	}
	return run, nil
}

// LoadLeadFile parses an uploaded lead file into a slot. Slot 1 is the
// raw weekly file: it must satisfy the required-column contract, has
// extra columns dropped, and (for Excel uploads) gets its cell styles
// scanned for highlighted rows. Slots 2..5 hold pre-cleaned files and
// only need a detectable phone column.
func (s *Service) LoadLeadFile(ctx context.Context, runID uuid.UUID, slotNum int, filename string, data []byte) (*SlotStatus, error) {
	run, err := s.run(runID)
	if err != nil {
		return nil, err
	}
	if slotNum < 1 || slotNum > MaxSlots {
		return nil, ErrSlotOutOfRange
	}
	if !tabular.IsValidFormat(filename) {
		return nil, fmt.Errorf("%w: %q", tabular.ErrUnsupportedFormat, filename)
	}

	slot := &fileSlot{FileName: filename}

	isExcel := tabular.Ext(filename) != ".csv"
	if slotNum == 1 && isExcel {
		set, highlights, err := tabular.ReadExcelWithHighlights(data)
		if err != nil {
			return nil, err
		}
		slot.Set = set
		slot.Highlights = highlights
	} else {
		set, err := tabular.ReadFile(data, filename)
		if err != nil {
			return nil, err
		}
		slot.Set = set
	}

	if slotNum == 1 {
		if err := lead.ValidateRequiredColumns(slot.Set); err != nil {
			return nil, err
		}
		slot.Set, slot.Dropped = lead.FilterToRequiredColumns(slot.Set)
	}

	slot.Mapping = lead.DetectColumns(slot.Set.Columns)
	if slot.Mapping.Phone == "" {
		return nil, fmt.Errorf("%w in %q", ErrNoPhoneColumn, filename)
	}

	run.mu.Lock()
	run.slots[slotNum-1] = slot
	run.mu.Unlock()

	s.metrics.RecordsLoaded.Add(float64(slot.Set.Len()))
	logging.FromContext(ctx).Info("lead file loaded",
		"run_id", runID,
		"slot", slotNum,
		"file", filename,
		"rows", slot.Set.Len(),
		"highlighted_cells", len(slot.Highlights),
		"dropped_columns", len(slot.Dropped),
	)

	return &SlotStatus{
		Slot:     slotNum,
		FileName: filename,
		Rows:     slot.Set.Len(),
		Dropped:  slot.Dropped,
	}, nil
}

// ReferenceStatus reports what a reference upload yielded.
type ReferenceStatus struct {
	Kind    ReferenceKind `json:"kind"`
	Entries int           `json:"entries"`
}

// LoadReference parses a suppression reference file and stores the
// resulting set(s) on the run. Sets are computed once and reused by
// every matcher stage.
func (s *Service) LoadReference(ctx context.Context, runID uuid.UUID, kind ReferenceKind, filename string, data []byte) (*ReferenceStatus, error) {
	run, err := s.run(runID)
	if err != nil {
		return nil, err
	}

	status := &ReferenceStatus{Kind: kind}

	run.mu.Lock()
	defer run.mu.Unlock()

	switch kind {
	case RefMaster:
		phones, err := suppress.LoadMasterPhones(data)
		if err != nil {
			return nil, err
		}
		run.refs.MasterPhones = phones
		status.Entries = phones.Len()

	case RefDNC, RefTCPAPhones, RefTCPAZips:
		set, err := tabular.ReadFile(data, filename)
		if err != nil {
			return nil, err
		}
		switch kind {
		case RefDNC:
			phones, areaCodes, names := suppress.LoadLDDNC(set)
			run.refs.DNCPhones = phones
			run.refs.DNCAreaCodes = areaCodes
			run.refs.DNCNames = names
			status.Entries = phones.Len() + areaCodes.Len() + names.Len()
		case RefTCPAPhones:
			run.refs.TCPAPhones = suppress.LoadTCPAPhones(set)
			status.Entries = run.refs.TCPAPhones.Len()
		case RefTCPAZips:
			run.refs.TCPAZips = suppress.LoadTCPAZips(set)
			status.Entries = run.refs.TCPAZips.Len()
		}

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownRefKind, kind)
	}

	s.metrics.ReferenceLoads.WithLabelValues(string(kind)).Inc()
	logging.FromContext(ctx).Info("reference loaded",
		"run_id", runID,
		"kind", kind,
		"file", filename,
		"entries", status.Entries,
	)
	return status, nil
}

// Cleanse runs the canonical single-file filter order on slot 1:
// highlighted rows, record validators, loaded suppression lists, and
// intra-file duplicate removal. Stages for reference lists that were
// never loaded are skipped. The slot's working set becomes the cleaned
// output; outcomes accumulate for audit export.
//
// Only slot 1 is cleansable. Slots 2..5 hold pre-cleaned files loaded
// without the full required-column contract, so the validator stages
// would see empty column mappings there and remove every row.
func (s *Service) Cleanse(ctx context.Context, runID uuid.UUID, slotNum int) (*SlotStatus, error) {
	run, err := s.run(runID)
	if err != nil {
		return nil, err
	}
	if slotNum != 1 {
		return nil, fmt.Errorf("%w: %d", ErrSlotNotCleansable, slotNum)
	}

	run.mu.Lock()
	defer run.mu.Unlock()

	slot, err := run.slot(slotNum)
	if err != nil {
		return nil, err
	}

	m := slot.Mapping
	stages := []cleanse.Stage{
		func(set lead.RecordSet) lead.Outcome {
			return cleanse.RemoveHighlightedRows(set, slot.Highlights)
		},
		func(set lead.RecordSet) lead.Outcome {
			return cleanse.FilterInvalidLastNames(set, m.LastName)
		},
		func(set lead.RecordSet) lead.Outcome {
			return cleanse.FilterEmptyPhones(set, m.Phone)
		},
		func(set lead.RecordSet) lead.Outcome {
			return cleanse.FilterInvalidPhones(set, m.Phone)
		},
		func(set lead.RecordSet) lead.Outcome {
			return cleanse.FilterInvalidEmails(set, m.Email)
		},
		func(set lead.RecordSet) lead.Outcome {
			return cleanse.FilterTestEntries(set, m.FirstName, m.LastName)
		},
		func(set lead.RecordSet) lead.Outcome {
			return cleanse.FilterPlaceholderEmails(set, m.Email)
		},
		func(set lead.RecordSet) lead.Outcome {
			return cleanse.FilterFakeEmails(set, m.Email, s.email)
		},
		func(set lead.RecordSet) lead.Outcome {
			return cleanse.FilterProhibitedContent(set, s.prohibited)
		},
		func(set lead.RecordSet) lead.Outcome {
			return cleanse.FilterInvalidUUIDs(set, m.LeadID)
		},
	}

	refs := run.refs
	if refs.DNCPhones != nil {
		stages = append(stages,
			func(set lead.RecordSet) lead.Outcome {
				return suppress.FilterByDNCPhones(set, m.Phone, refs.DNCPhones)
			},
			func(set lead.RecordSet) lead.Outcome {
				return suppress.FilterByAreaCodes(set, m.Phone, refs.DNCAreaCodes)
			},
			func(set lead.RecordSet) lead.Outcome {
				return suppress.FilterByNameMatch(set, m.FirstName, m.LastName, refs.DNCNames)
			},
		)
	}
	if refs.TCPAZips != nil {
		stages = append(stages, func(set lead.RecordSet) lead.Outcome {
			return suppress.FilterByTCPAZips(set, m.ZipCode, refs.TCPAZips)
		})
	}
	if refs.TCPAPhones != nil {
		stages = append(stages, func(set lead.RecordSet) lead.Outcome {
			return suppress.FilterByTCPAPhones(set, m.Phone, refs.TCPAPhones)
		})
	}
	stages = append(stages, func(set lead.RecordSet) lead.Outcome {
		return cleanse.RemoveDuplicatePhones(set, m.Phone)
	})
	if refs.MasterPhones != nil {
		stages = append(stages, func(set lead.RecordSet) lead.Outcome {
			return suppress.FilterByMasterPhones(set, m.Phone, refs.MasterPhones)
		})
	}

	start := time.Now()
	cleaned, outcomes, summary := cleanse.Run(slot.Set, stages)

	slot.Set = cleaned
	slot.Outcomes = append(slot.Outcomes, outcomes...)
	slot.Summary = &summary
	slot.Cleansed = true
	// Highlight coordinates are positional against the originally
	// loaded rows; they are spent once applied.
	slot.Highlights = nil

	s.metrics.StagesRun.Add(float64(len(stages)))
	s.metrics.CleanseDuration.Observe(time.Since(start).Seconds())
	for reason, count := range summary.Removals {
		s.metrics.RecordsRemoved.WithLabelValues(string(reason)).Add(float64(count))
	}

	logging.FromContext(ctx).Info("slot cleansed",
		"run_id", runID,
		"slot", slotNum,
		"before", summary.BeforeCount,
		"after", summary.AfterCount,
		"stages", len(stages),
		"duration", time.Since(start),
	)

	return &SlotStatus{
		Slot:     slotNum,
		FileName: slot.FileName,
		Rows:     cleaned.Len(),
		Cleansed: true,
		Summary:  &summary,
	}, nil
}

// Cascade deduplicates phones across every loaded slot in priority
// order. Slot 1 must have been cleansed first; it is kept in full and
// each lower slot is deduplicated against the post-dedup state of the
// slots above it.
func (s *Service) Cascade(ctx context.Context, runID uuid.UUID) ([]SlotStatus, error) {
	run, err := s.run(runID)
	if err != nil {
		return nil, err
	}

	run.mu.Lock()
	defer run.mu.Unlock()

	first := run.slots[0]
	if first == nil {
		return nil, fmt.Errorf("%w: 1", ErrSlotNotLoaded)
	}
	if !first.Cleansed {
		return nil, ErrSlotNotCleansed
	}

	var (
		sets      []lead.RecordSet
		phoneCols []string
		loaded    []*fileSlot
		indexes   []int
	)
	for i, slot := range run.slots {
		if slot == nil {
			continue
		}
		sets = append(sets, slot.Set)
		phoneCols = append(phoneCols, slot.Mapping.Phone)
		loaded = append(loaded, slot)
		indexes = append(indexes, i+1)
	}

	outcomes := crossfile.Cascade(sets, phoneCols)

	statuses := make([]SlotStatus, 0, len(outcomes))
	for i, out := range outcomes {
		slot := loaded[i]
		before := slot.Set.Len()
		slot.Set = out.Kept
		if out.RemovedCount > 0 {
			slot.Outcomes = append(slot.Outcomes, out)
			s.metrics.RecordsRemoved.WithLabelValues(string(out.Reason)).Add(float64(out.RemovedCount))
		}

		// Fold the cascade removals into the slot's existing summary so
		// the per-reason tally from the cleanse pass survives.
		if slot.Summary == nil {
			summary := lead.Summarize(before, []lead.Outcome{out})
			slot.Summary = &summary
		} else {
			slot.Summary.AfterCount -= out.RemovedCount
			if out.RemovedCount > 0 {
				slot.Summary.Removals[out.Reason] += out.RemovedCount
			}
		}
		statuses = append(statuses, SlotStatus{
			Slot:     indexes[i],
			FileName: slot.FileName,
			Rows:     slot.Set.Len(),
			Cleansed: slot.Cleansed,
			Summary:  slot.Summary,
		})
	}

	logging.FromContext(ctx).Info("cascade complete", "run_id", runID, "slots", len(outcomes))
	return statuses, nil
}

// ExportCleaned renders a slot's current working set as CSV bytes.
func (s *Service) ExportCleaned(runID uuid.UUID, slotNum int) ([]byte, string, error) {
	run, err := s.run(runID)
	if err != nil {
		return nil, "", err
	}
	run.mu.Lock()
	defer run.mu.Unlock()

	slot, err := run.slot(slotNum)
	if err != nil {
		return nil, "", err
	}

	var buf bytes.Buffer
	if err := tabular.WriteCSV(&buf, slot.Set); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), slot.FileName, nil
}

// ExportRemovedCSV renders every record removed from a slot, with its
// human-readable reason, as CSV bytes.
func (s *Service) ExportRemovedCSV(runID uuid.UUID, slotNum int) ([]byte, error) {
	run, err := s.run(runID)
	if err != nil {
		return nil, err
	}
	run.mu.Lock()
	defer run.mu.Unlock()

	slot, err := run.slot(slotNum)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := tabular.WriteRemovedCSV(&buf, slot.Set.Columns, slot.Outcomes); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ExportRemovedWorkbook renders a slot's removed records as a styled
// xlsx audit workbook: reason column first, implicated cells filled
// yellow.
func (s *Service) ExportRemovedWorkbook(runID uuid.UUID, slotNum int) ([]byte, error) {
	run, err := s.run(runID)
	if err != nil {
		return nil, err
	}
	run.mu.Lock()
	defer run.mu.Unlock()

	slot, err := run.slot(slotNum)
	if err != nil {
		return nil, err
	}
	return tabular.ExportRemovedWorkbook(slot.Set.Columns, slot.Outcomes, slot.Mapping)
}
