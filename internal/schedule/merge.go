package schedule

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/courtside/scheduler/internal/model"
)

// Role is the viewer's relationship to the coach whose schedule is being
// read. Public viewers only ever see open availability.
type Role int

const (
	RolePublic Role = iota
	RoleCoach
)

// AvailabilityRow and AppointmentRow are the raw shapes handed over by
// the storage collaborator, resolved once at this boundary and never
// re-inspected by string comparison downstream.
type AvailabilityRow struct {
	ID        string
	StartTime time.Time
	EndTime   time.Time
	Status    model.AvailabilityStatus
}

type AppointmentRow struct {
	ID         string
	StartTime  time.Time
	EndTime    time.Time
	ClientName string
	Location   string
	Notes      string
}

type AvailabilityStore interface {
	ListByCoach(ctx context.Context, coachID string, onlyOpen bool) ([]AvailabilityRow, error)
}

type AppointmentStore interface {
	ListByCoach(ctx context.Context, coachID string) ([]AppointmentRow, error)
}

// RefreshError signals that a storage fetch failed during a merge. The
// merge never silently proceeds with a partial result that could be
// mistaken for "no data".
type RefreshError struct {
	Source model.SourceKind
	Err    error
}

func (e *RefreshError) Error() string {
	return fmt.Sprintf("refresh %s: %v", e.Source, e.Err)
}

func (e *RefreshError) Unwrap() error { return e.Err }

// Merger pulls the two slot streams from storage and combines them into
// one time-ordered collection. It owns the last known good snapshot and
// fences concurrent refreshes with a monotonic generation counter so a
// slow refresh can never overwrite the result of a newer one.
type Merger struct {
	availability AvailabilityStore
	appointments AppointmentStore
	logger       *zap.Logger

	mu       sync.Mutex
	gen      uint64
	snapGen  uint64
	snapshot []model.Slot
}

func NewMerger(availability AvailabilityStore, appointments AppointmentStore, logger *zap.Logger) *Merger {
	return &Merger{
		availability: availability,
		appointments: appointments,
		logger:       logger,
	}
}

// Snapshot returns the result of the newest successful coach refresh.
// Callers may fall back to it when a refresh fails, but must present it
// as stale, not as current data.
func (m *Merger) Snapshot() []model.Slot {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Slot, len(m.snapshot))
	copy(out, m.snapshot)
	return out
}

// Refresh fetches and merges the schedule for one coach. Public viewers
// get open availability only; the coach gets all availability plus
// private appointments, fetched concurrently. Result order is a pure
// function of the fetched data, not of fetch completion order.
func (m *Merger) Refresh(ctx context.Context, coachID string, role Role) ([]model.Slot, error) {
	gen := m.begin()

	if role == RolePublic {
		rows, err := m.availability.ListByCoach(ctx, coachID, true)
		if err != nil {
			return nil, &RefreshError{Source: model.SourceAvailability, Err: err}
		}
		slots := make([]model.Slot, 0, len(rows))
		for _, r := range rows {
			slots = append(slots, SlotFromAvailability(r))
		}
		sortByInstant(slots)
		return slots, nil
	}

	type availResult struct {
		rows []AvailabilityRow
		err  error
	}
	type apptResult struct {
		rows []AppointmentRow
		err  error
	}

	availCh := make(chan availResult, 1)
	apptCh := make(chan apptResult, 1)

	go func() {
		rows, err := m.availability.ListByCoach(ctx, coachID, false)
		availCh <- availResult{rows: rows, err: err}
	}()
	go func() {
		rows, err := m.appointments.ListByCoach(ctx, coachID)
		apptCh <- apptResult{rows: rows, err: err}
	}()

	avail := <-availCh
	appt := <-apptCh

	if avail.err != nil {
		return nil, &RefreshError{Source: model.SourceAvailability, Err: avail.err}
	}
	if appt.err != nil {
		return nil, &RefreshError{Source: model.SourceAppointment, Err: appt.err}
	}

	slots := make([]model.Slot, 0, len(avail.rows)+len(appt.rows))
	for _, r := range avail.rows {
		slots = append(slots, SlotFromAvailability(r))
	}
	for _, r := range appt.rows {
		slots = append(slots, SlotFromAppointment(r))
	}
	sortByInstant(slots)

	if !m.commit(gen, slots) {
		m.logger.Debug("Discarding stale refresh result",
			zap.String("coach_id", coachID),
			zap.Uint64("generation", gen),
		)
	}
	return slots, nil
}

func (m *Merger) begin() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gen++
	return m.gen
}

// commit stores the refresh result as the snapshot unless a newer
// refresh already committed.
func (m *Merger) commit(gen uint64, slots []model.Slot) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if gen < m.snapGen {
		return false
	}
	m.snapGen = gen
	m.snapshot = slots
	return true
}

// SlotFromAvailability normalizes an availability row into a slot. The
// civil date always comes from the normalized start instant; raw UTC
// instants never reach the slot directly.
func SlotFromAvailability(r AvailabilityRow) model.Slot {
	date, start := ToCivil(r.StartTime)
	_, end := ToCivil(r.EndTime)
	return model.Slot{
		ID:        r.ID,
		Source:    model.SourceAvailability,
		Date:      date,
		StartTime: start,
		EndTime:   end,
		Kind:      model.Classify(model.SourceAvailability, r.Status),
	}
}

func SlotFromAppointment(r AppointmentRow) model.Slot {
	date, start := ToCivil(r.StartTime)
	_, end := ToCivil(r.EndTime)
	return model.Slot{
		ID:         r.ID,
		Source:     model.SourceAppointment,
		Date:       date,
		StartTime:  start,
		EndTime:    end,
		Kind:       model.Classify(model.SourceAppointment, ""),
		ClientName: r.ClientName,
		Location:   r.Location,
		Notes:      r.Notes,
	}
}
