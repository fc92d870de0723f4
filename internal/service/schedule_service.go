package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/courtside/scheduler/internal/ics"
	"github.com/courtside/scheduler/internal/model"
	"github.com/courtside/scheduler/internal/schedule"
)

type AvailabilityStore interface {
	schedule.AvailabilityStore
	Create(ctx context.Context, coachID string, start, end time.Time, status model.AvailabilityStatus) (string, error)
	Update(ctx context.Context, id string, start, end time.Time, status model.AvailabilityStatus) error
	Delete(ctx context.Context, id string) error
	OwnerCoach(ctx context.Context, id string) (string, error)
}

type AppointmentStore interface {
	schedule.AppointmentStore
	Create(ctx context.Context, coachID string, start, end time.Time, clientName, location, notes string) (string, error)
	Update(ctx context.Context, id string, start, end time.Time, clientName, location, notes string) error
	Delete(ctx context.Context, id string) error
	OwnerCoach(ctx context.Context, id string) (string, error)
}

// SlotInput is a mutation request against either record type, expressed
// in civil date plus decimal hours like the rest of the engine.
type SlotInput struct {
	Date       model.Date `json:"date"`
	StartTime  float64    `json:"start_time"`
	EndTime    float64    `json:"end_time"`
	Kind       model.Kind `json:"kind"`
	ClientName string     `json:"client_name"`
	Location   string     `json:"location"`
	Notes      string     `json:"notes"`
}

// ImportSummary reports the outcome of an ICS import.
type ImportSummary struct {
	Blocks   int `json:"blocks"`
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

// ScheduleService is the engine's entry point: refreshes through the
// merger and mutations against the storage collaborator. Mutations never
// touch the merged collection directly; they write through storage and
// the caller re-pulls.
type ScheduleService struct {
	merger       *schedule.Merger
	availability AvailabilityStore
	appointments AppointmentStore
	logger       *zap.Logger
}

func NewScheduleService(availability AvailabilityStore, appointments AppointmentStore, logger *zap.Logger) *ScheduleService {
	return &ScheduleService{
		merger:       schedule.NewMerger(availability, appointments, logger),
		availability: availability,
		appointments: appointments,
		logger:       logger,
	}
}

// Refresh pulls the coach's schedule for the given viewer. A viewer is
// the coach only when their authenticated identity matches the owner of
// the coach page; everyone else gets the public view.
func (s *ScheduleService) Refresh(ctx context.Context, coach *model.CoachProfile, viewerUserID string) ([]model.Slot, error) {
	role := schedule.RolePublic
	if viewerUserID != "" && viewerUserID == coach.UserID {
		role = schedule.RoleCoach
	}
	return s.merger.Refresh(ctx, coach.ID, role)
}

// LastKnownGood exposes the newest successful coach refresh so callers
// can show something when a refresh fails. It is stale by definition.
func (s *ScheduleService) LastKnownGood() []model.Slot {
	return s.merger.Snapshot()
}

// authorize enforces the mutation boundary locally, before any external
// write, independent of what storage itself enforces.
func (s *ScheduleService) authorize(coach *model.CoachProfile, viewerUserID string) error {
	if viewerUserID == "" || viewerUserID != coach.UserID {
		return model.ErrUnauthorized
	}
	return nil
}

func (s *ScheduleService) CreateAppointment(ctx context.Context, coach *model.CoachProfile, viewerUserID string, in SlotInput) (string, error) {
	if err := s.authorize(coach, viewerUserID); err != nil {
		return "", err
	}

	// Quick-add: an empty request becomes a one-hour appointment at
	// 09:00 today.
	if in.Date.IsZero() {
		today, _ := schedule.ToCivil(time.Now())
		in.Date = today
	}
	if in.StartTime == 0 && in.EndTime == 0 {
		in.StartTime, in.EndTime = 9, 10
	}

	if err := validInterval(in); err != nil {
		return "", err
	}

	id, err := s.appointments.Create(ctx,
		coach.ID,
		schedule.ToInstant(in.Date, in.StartTime),
		schedule.ToInstant(in.Date, in.EndTime),
		in.ClientName, in.Location, in.Notes,
	)
	if err != nil {
		return "", fmt.Errorf("create appointment: %w", err)
	}

	s.logger.Info("Appointment created",
		zap.String("coach_id", coach.ID),
		zap.String("appointment_id", id),
		zap.String("date", in.Date.String()),
	)
	return id, nil
}

func (s *ScheduleService) UpdateAppointment(ctx context.Context, coach *model.CoachProfile, viewerUserID, id string, in SlotInput) error {
	if err := s.authorize(coach, viewerUserID); err != nil {
		return err
	}
	if err := validInterval(in); err != nil {
		return err
	}
	if err := s.ownedBy(ctx, s.appointments.OwnerCoach, coach, id); err != nil {
		return err
	}

	err := s.appointments.Update(ctx, id,
		schedule.ToInstant(in.Date, in.StartTime),
		schedule.ToInstant(in.Date, in.EndTime),
		in.ClientName, in.Location, in.Notes,
	)
	if err != nil {
		return fmt.Errorf("update appointment: %w", err)
	}

	s.logger.Info("Appointment updated",
		zap.String("coach_id", coach.ID),
		zap.String("appointment_id", id),
	)
	return nil
}

func (s *ScheduleService) DeleteAppointment(ctx context.Context, coach *model.CoachProfile, viewerUserID, id string) error {
	if err := s.authorize(coach, viewerUserID); err != nil {
		return err
	}
	if err := s.ownedBy(ctx, s.appointments.OwnerCoach, coach, id); err != nil {
		return err
	}
	if err := s.appointments.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete appointment: %w", err)
	}

	s.logger.Info("Appointment deleted",
		zap.String("coach_id", coach.ID),
		zap.String("appointment_id", id),
	)
	return nil
}

func (s *ScheduleService) CreateAvailability(ctx context.Context, coach *model.CoachProfile, viewerUserID string, in SlotInput) (string, error) {
	if err := s.authorize(coach, viewerUserID); err != nil {
		return "", err
	}
	if err := validInterval(in); err != nil {
		return "", err
	}

	id, err := s.availability.Create(ctx,
		coach.ID,
		schedule.ToInstant(in.Date, in.StartTime),
		schedule.ToInstant(in.Date, in.EndTime),
		statusFor(in.Kind),
	)
	if err != nil {
		return "", fmt.Errorf("create availability: %w", err)
	}

	s.logger.Info("Availability created",
		zap.String("coach_id", coach.ID),
		zap.String("availability_id", id),
		zap.String("date", in.Date.String()),
	)
	return id, nil
}

func (s *ScheduleService) UpdateAvailability(ctx context.Context, coach *model.CoachProfile, viewerUserID, id string, in SlotInput) error {
	if err := s.authorize(coach, viewerUserID); err != nil {
		return err
	}
	if err := validInterval(in); err != nil {
		return err
	}
	if err := s.ownedBy(ctx, s.availability.OwnerCoach, coach, id); err != nil {
		return err
	}

	err := s.availability.Update(ctx, id,
		schedule.ToInstant(in.Date, in.StartTime),
		schedule.ToInstant(in.Date, in.EndTime),
		statusFor(in.Kind),
	)
	if err != nil {
		return fmt.Errorf("update availability: %w", err)
	}

	s.logger.Info("Availability updated",
		zap.String("coach_id", coach.ID),
		zap.String("availability_id", id),
	)
	return nil
}

func (s *ScheduleService) DeleteAvailability(ctx context.Context, coach *model.CoachProfile, viewerUserID, id string) error {
	if err := s.authorize(coach, viewerUserID); err != nil {
		return err
	}
	if err := s.ownedBy(ctx, s.availability.OwnerCoach, coach, id); err != nil {
		return err
	}
	if err := s.availability.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete availability: %w", err)
	}

	s.logger.Info("Availability deleted",
		zap.String("coach_id", coach.ID),
		zap.String("availability_id", id),
	)
	return nil
}

// ImportICS parses a calendar export and persists every extracted event
// as a private appointment. Imported slots are appended as-is; duplicate
// removal is a separate, explicit operation.
func (s *ScheduleService) ImportICS(ctx context.Context, coach *model.CoachProfile, viewerUserID, icsText string) (ImportSummary, error) {
	if err := s.authorize(coach, viewerUserID); err != nil {
		return ImportSummary{}, err
	}

	res := ics.Parse(icsText)
	summary := ImportSummary{Blocks: res.Blocks, Skipped: res.Skipped}

	for _, slot := range res.Slots {
		_, err := s.appointments.Create(ctx,
			coach.ID,
			schedule.ToInstant(slot.Date, slot.StartTime),
			schedule.ToInstant(slot.Date, slot.EndTime),
			slot.ClientName, slot.Location, slot.Notes,
		)
		if err != nil {
			return summary, fmt.Errorf("persist imported event: %w", err)
		}
		summary.Imported++
	}

	s.logger.Info("Calendar imported",
		zap.String("coach_id", coach.ID),
		zap.Int("blocks", summary.Blocks),
		zap.Int("imported", summary.Imported),
		zap.Int("skipped", summary.Skipped),
	)
	return summary, nil
}

// RemoveDuplicates deletes slots that are exact duplicates under the
// (date, start, end, client name) key, keeping the first occurrence of
// each. Returns how many records were removed.
func (s *ScheduleService) RemoveDuplicates(ctx context.Context, coach *model.CoachProfile, viewerUserID string) (int, error) {
	if err := s.authorize(coach, viewerUserID); err != nil {
		return 0, err
	}

	slots, err := s.merger.Refresh(ctx, coach.ID, schedule.RoleCoach)
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, dup := range schedule.Duplicates(slots) {
		switch dup.Source {
		case model.SourceAppointment:
			err = s.appointments.Delete(ctx, dup.ID)
		default:
			err = s.availability.Delete(ctx, dup.ID)
		}
		if err != nil {
			return removed, fmt.Errorf("remove duplicate %s: %w", dup.ID, err)
		}
		removed++
	}

	if removed > 0 {
		s.logger.Info("Duplicates removed",
			zap.String("coach_id", coach.ID),
			zap.Int("removed", removed),
		)
	}
	return removed, nil
}

func (s *ScheduleService) ownedBy(ctx context.Context, owner func(context.Context, string) (string, error), coach *model.CoachProfile, id string) error {
	coachID, err := owner(ctx, id)
	if err != nil {
		return err
	}
	if coachID == "" {
		return model.ErrNotFound
	}
	if coachID != coach.ID {
		return model.ErrUnauthorized
	}
	return nil
}

func validInterval(in SlotInput) error {
	probe := model.Slot{Date: in.Date, StartTime: in.StartTime, EndTime: in.EndTime}
	return probe.Validate()
}

func statusFor(kind model.Kind) model.AvailabilityStatus {
	if kind == model.KindBlocked {
		return model.AvailabilityClosed
	}
	return model.AvailabilityOpen
}
