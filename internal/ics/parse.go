// Package ics converts between iCalendar documents and the internal slot
// model: a best-effort importer for third-party calendar exports and a
// serializer for handing a schedule back out.
package ics

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/courtside/scheduler/internal/model"
	"github.com/courtside/scheduler/internal/schedule"
)

const (
	fallbackSummary = "Imported Event"
	fallbackNotes   = "Imported from calendar"

	// Compact basic format, e.g. 20240215T140000Z. Instants are taken
	// as UTC whether or not the Z suffix is present.
	instantLayout = "20060102T150405"
)

// ImportResult reports what the parser extracted. Blocks counts VEVENT
// blocks present; Skipped counts blocks dropped for missing or
// unparseable instants. Skipped > 0 is a count to report, not an error.
type ImportResult struct {
	Slots   []model.Slot
	Blocks  int
	Skipped int
}

// Parse extracts booked slots from an iCalendar document. A malformed
// event never aborts the import: the event is dropped and parsing
// continues. A document with no events yields an empty result.
func Parse(text string) ImportResult {
	var res ImportResult

	blocks := strings.Split(text, "BEGIN:VEVENT")
	if len(blocks) < 2 {
		return res
	}

	for _, block := range blocks[1:] {
		res.Blocks++
		slot, ok := parseEvent(block)
		if !ok {
			res.Skipped++
			continue
		}
		res.Slots = append(res.Slots, slot)
	}
	return res
}

func parseEvent(block string) (model.Slot, bool) {
	var summary, description string
	var start, end time.Time
	var haveStart, haveEnd bool

	for _, line := range strings.Split(block, "\n") {
		line = strings.TrimRight(line, "\r")
		switch {
		case strings.HasPrefix(line, "SUMMARY:"):
			summary = strings.TrimPrefix(line, "SUMMARY:")
		case strings.HasPrefix(line, "DESCRIPTION:"):
			description = strings.TrimPrefix(line, "DESCRIPTION:")
		case strings.HasPrefix(line, "DTSTART"):
			if t, ok := parseInstant(line); ok {
				start, haveStart = t, true
			}
		case strings.HasPrefix(line, "DTEND"):
			if t, ok := parseInstant(line); ok {
				end, haveEnd = t, true
			}
		}
	}

	if !haveStart || !haveEnd {
		return model.Slot{}, false
	}

	date, startHour := schedule.ToCivil(start)
	_, endHour := schedule.ToCivil(end)

	return model.Slot{
		ID:         uuid.NewString(),
		Source:     model.SourceAppointment,
		Date:       date,
		StartTime:  startHour,
		EndTime:    endHour,
		Kind:       model.KindBooked,
		ClientName: textOr(summary, fallbackSummary),
		Notes:      textOr(description, fallbackNotes),
	}, true
}

// parseInstant handles lines like "DTSTART:20240215T140000Z" and
// timezone-qualified variants such as "DTSTART;TZID=...:...". Whatever
// the qualifier says, the value is interpreted as UTC.
func parseInstant(line string) (time.Time, bool) {
	idx := strings.Index(line, ":")
	if idx < 0 {
		return time.Time{}, false
	}
	v := strings.TrimSpace(line[idx+1:])
	v = strings.TrimSuffix(v, "Z")
	t, err := time.ParseInLocation(instantLayout, v, time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// textOr unescapes literal "\n" sequences to spaces and falls back to a
// placeholder when nothing is left.
func textOr(s, fallback string) string {
	s = strings.TrimSpace(strings.ReplaceAll(s, `\n`, " "))
	if s == "" {
		return fallback
	}
	return s
}
