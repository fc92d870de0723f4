package model

// SourceKind identifies which storage table a slot was loaded from. It
// determines which fields are meaningful and which mutation endpoint
// applies to the slot.
type SourceKind string

const (
	SourceAvailability SourceKind = "availability"
	SourceAppointment  SourceKind = "appointment"
)

// AvailabilityStatus is the raw status column on availability rows.
type AvailabilityStatus string

const (
	AvailabilityOpen   AvailabilityStatus = "open"
	AvailabilityClosed AvailabilityStatus = "closed"
)

type Kind string

const (
	KindAvailable Kind = "available"
	KindBlocked   Kind = "blocked"
	KindBooked    Kind = "booked"
)

// Slot is the canonical unit of schedule data. Times are decimal hours of
// day in the fixed display timezone; Date is the civil date the slot
// begins on, also in the fixed timezone.
type Slot struct {
	ID        string     `json:"id"`
	Source    SourceKind `json:"source"`
	Date      Date       `json:"date"`
	StartTime float64    `json:"start_time"`
	EndTime   float64    `json:"end_time"`
	Kind      Kind       `json:"kind"`

	// Populated only for booked slots coming from appointment rows.
	ClientName  string `json:"client_name,omitempty"`
	ClientPhone string `json:"client_phone,omitempty"`
	ClientEmail string `json:"client_email,omitempty"`
	Location    string `json:"location,omitempty"`
	Notes       string `json:"notes,omitempty"`
}

// Classify maps a source table plus its status column to a slot kind.
// Availability rows are open or closed; appointment rows are always booked.
func Classify(source SourceKind, status AvailabilityStatus) Kind {
	if source == SourceAppointment {
		return KindBooked
	}
	if status == AvailabilityOpen {
		return KindAvailable
	}
	return KindBlocked
}

// Overlaps reports whether two slots share any time. Intervals are
// half-open, so a slot ending at 10:00 does not overlap one starting
// at 10:00. Slots on different civil dates never overlap.
func Overlaps(a, b Slot) bool {
	if a.Date != b.Date {
		return false
	}
	return a.StartTime < b.EndTime && b.StartTime < a.EndTime
}

// Validate rejects zero- or negative-length intervals and times outside
// the civil day.
func (s Slot) Validate() error {
	if s.StartTime < 0 || s.StartTime >= 24 || s.EndTime <= 0 || s.EndTime > 24 {
		return ErrInvalidInterval
	}
	if s.EndTime <= s.StartTime {
		return ErrInvalidInterval
	}
	return nil
}
