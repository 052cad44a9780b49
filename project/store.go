// Package project holds packaging analysis records and the store that owns them.
package project

import (
	"fmt"
	"slices"
	"time"

	"github.com/timgluz/dva/efficiency"
	"github.com/timgluz/dva/measurement"
)

// EfficiencyTolerance is the relative tolerance used when cross-checking
// stored efficiency figures against freshly computed ones.
const EfficiencyTolerance = 1e-9

var (
	ErrNotFound           = fmt.Errorf("project not found")
	ErrDuplicateID        = fmt.Errorf("duplicate project id")
	ErrInvalidRecord      = fmt.Errorf("invalid project record")
	ErrEfficiencyMismatch = fmt.Errorf("stored efficiency does not match measurements")
)

// State is the persisted form of a Store.
type State struct {
	NextID  int      `json:"nextId"`
	Records []Record `json:"projects"`
}

// Store is the in-memory collection of project records.
//
// Ids come from a monotonic counter: deleting the newest record never frees
// its id for reuse, and the counter is persisted with the records.
// A Store is not safe for concurrent use; callers serialize access.
type Store struct {
	records map[int]Record
	nextID  int
	now     func() time.Time
}

type Option func(*Store)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

func NewStore(opts ...Option) *Store {
	s := &Store{
		records: make(map[int]Record),
		nextID:  1,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) timestamp() time.Time {
	return s.now().UTC().Round(0)
}

// Create validates the draft, computes its efficiency and assigns the next id.
func (s *Store) Create(draft Draft) (Record, error) {
	record := Record{
		Name:                 draft.Name,
		Designer:             draft.Designer,
		Description:          draft.Description,
		Contact:              draft.Contact,
		PrimaryMeasurement:   draft.PrimaryMeasurement,
		SecondaryMeasurement: draft.SecondaryMeasurement,
		SecondaryDimensions:  draft.SecondaryDimensions,
	}

	record, err := derive(record.clone())
	if err != nil {
		return Record{}, err
	}

	record.ID = s.nextID
	record.CreatedAt = s.timestamp()
	record.UpdatedAt = record.CreatedAt

	s.nextID++
	s.records[record.ID] = record
	return record.clone(), nil
}

// Update replaces the record with id by a copy carrying the given fields.
// The id and creation time never change.
func (s *Store) Update(id int, fields Fields) (Record, error) {
	current, ok := s.records[id]
	if !ok {
		return Record{}, fmt.Errorf("%w: %d", ErrNotFound, id)
	}

	updated := fields.merge(current)
	if fields.changesMeasurements() {
		var err error
		if updated, err = derive(updated); err != nil {
			return Record{}, err
		}
	}

	updated.ID = current.ID
	updated.CreatedAt = current.CreatedAt
	updated.UpdatedAt = s.timestamp()

	s.records[id] = updated
	return updated.clone(), nil
}

// Delete removes the given ids and returns how many records were removed.
// Unknown ids are ignored.
func (s *Store) Delete(ids ...int) int {
	deleted := 0
	for _, id := range ids {
		if _, ok := s.records[id]; !ok {
			continue
		}
		delete(s.records, id)
		deleted++
	}
	return deleted
}

func (s *Store) Get(id int) (Record, error) {
	record, ok := s.records[id]
	if !ok {
		return Record{}, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	return record.clone(), nil
}

// List returns copies of all records ordered by id.
func (s *Store) List() []Record {
	records := make([]Record, 0, len(s.records))
	for _, id := range s.sortedIDs() {
		records = append(records, s.records[id].clone())
	}
	return records
}

// ListCreatedWithin returns the records whose creation time falls into p, ordered by id.
func (s *Store) ListCreatedWithin(p Period) []Record {
	var records []Record
	for _, id := range s.sortedIDs() {
		if record := s.records[id]; p.Contains(record.CreatedAt) {
			records = append(records, record.clone())
		}
	}
	return records
}

func (s *Store) Len() int {
	return len(s.records)
}

// NextID is the id the next Create will assign.
func (s *Store) NextID() int {
	return s.nextID
}

func (s *Store) sortedIDs() []int {
	ids := make([]int, 0, len(s.records))
	for id := range s.records {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Export copies the store content for persistence.
func (s *Store) Export() State {
	return State{
		NextID:  s.nextID,
		Records: s.List(),
	}
}

// Restore replaces the store content with state. Every record is validated and
// its efficiency re-derived; a stored result that diverges from its
// measurements is reported as ErrEfficiencyMismatch. On error the store is
// left untouched.
func (s *Store) Restore(state State) error {
	records := make(map[int]Record, len(state.Records))
	maxID := 0

	for i, stored := range state.Records {
		record, err := verifyRecord(stored)
		if err != nil {
			return fmt.Errorf("project #%d: %w", i, err)
		}

		if _, exists := records[record.ID]; exists {
			return fmt.Errorf("%w: %d", ErrDuplicateID, record.ID)
		}

		records[record.ID] = record
		maxID = max(maxID, record.ID)
	}

	s.records = records
	s.nextID = max(state.NextID, maxID+1, 1)
	return nil
}

func verifyRecord(stored Record) (Record, error) {
	record := stored.clone()
	if record.ID <= 0 {
		return Record{}, fmt.Errorf("%w: id %d must be positive", ErrInvalidRecord, record.ID)
	}

	if err := record.PrimaryMeasurement.Validate(); err != nil {
		return Record{}, fmt.Errorf("%w: project %d primary: %w", ErrInvalidRecord, record.ID, err)
	}

	if err := record.SecondaryMeasurement.Validate(); err != nil {
		return Record{}, fmt.Errorf("%w: project %d secondary: %w", ErrInvalidRecord, record.ID, err)
	}

	if record.SecondaryDimensions != nil {
		derived, err := record.SecondaryDimensions.Measurement()
		if err != nil {
			return Record{}, fmt.Errorf("%w: project %d dimensions: %w", ErrInvalidRecord, record.ID, err)
		}
		if !sameVolume(derived, record.SecondaryMeasurement) {
			return Record{}, fmt.Errorf("%w: project %d secondary measurement differs from its dimensions", ErrEfficiencyMismatch, record.ID)
		}
	}

	expected, err := efficiency.Compute(record.PrimaryMeasurement, record.SecondaryMeasurement)
	if err != nil {
		return Record{}, fmt.Errorf("%w: project %d: %w", ErrInvalidRecord, record.ID, err)
	}

	// snapshots written without the cached result get it filled in
	if record.EfficiencyResult == (efficiency.Result{}) {
		record.EfficiencyResult = expected
	} else if !expected.Matches(record.EfficiencyResult, EfficiencyTolerance) {
		return Record{}, fmt.Errorf("%w: project %d stored %.6f%%, measurements give %.6f%%",
			ErrEfficiencyMismatch, record.ID, record.EfficiencyResult.EfficiencyPercent, expected.EfficiencyPercent)
	}

	record.CreatedAt = record.CreatedAt.UTC()
	record.UpdatedAt = record.UpdatedAt.UTC()
	return record, nil
}

func sameVolume(a, b measurement.Measurement) bool {
	va, errA := measurement.ToCanonicalVolume(a)
	vb, errB := measurement.ToCanonicalVolume(b)
	if errA != nil || errB != nil {
		return false
	}

	diff := va - vb
	if diff < 0 {
		diff = -diff
	}
	return diff <= EfficiencyTolerance*max(va, vb)
}
