package ics

import (
	"fmt"
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/courtside/scheduler/internal/model"
	"github.com/courtside/scheduler/internal/schedule"
)

// Export serializes a schedule as an iCalendar document. Booked slots
// carry their client name as the summary; availability slots are labeled
// by kind so a coach can see blocks in an external calendar too.
func Export(coach *model.CoachProfile, slots []model.Slot) string {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)

	now := time.Now().UTC()
	for _, s := range slots {
		ev := cal.AddEvent(fmt.Sprintf("%s@%s", s.ID, coach.Slug))
		ev.SetDtStampTime(now)
		ev.SetStartAt(schedule.ToInstant(s.Date, s.StartTime).UTC())
		ev.SetEndAt(schedule.ToInstant(s.Date, s.EndTime).UTC())
		ev.SetSummary(summaryFor(s))
		if s.Location != "" {
			ev.SetLocation(s.Location)
		}
		if s.Notes != "" {
			ev.SetDescription(s.Notes)
		}
	}
	return cal.Serialize()
}

func summaryFor(s model.Slot) string {
	switch s.Kind {
	case model.KindBooked:
		if s.ClientName != "" {
			return s.ClientName
		}
		return "Booked"
	case model.KindBlocked:
		return "Blocked"
	default:
		return "Available"
	}
}
