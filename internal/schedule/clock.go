package schedule

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/courtside/scheduler/internal/model"
)

// Every viewer sees the same wall clock regardless of their locale. The
// offset is a constant with no daylight-saving transition, so conversion
// is an arithmetic shift rather than a timezone-database lookup.
var DisplayZone = time.FixedZone("PST", -8*60*60)

// ToCivil converts an absolute instant to the display timezone's civil
// date and decimal hour of day. Seconds are dropped; downstream code
// never carries fractions of a minute.
func ToCivil(t time.Time) (model.Date, float64) {
	local := t.In(DisplayZone)
	return model.DateOf(local), float64(local.Hour()) + float64(local.Minute())/60
}

// ToInstant is the inverse of ToCivil: it pins a civil date and decimal
// hour back to an absolute instant in the display timezone.
func ToInstant(d model.Date, hour float64) time.Time {
	h, m := splitHour(hour)
	return time.Date(d.Year, d.Month, d.Day, h, m, 0, 0, DisplayZone)
}

// DecimalToClock renders a decimal hour as a 24-hour "HH:MM" string.
func DecimalToClock(hour float64) string {
	h, m := splitHour(hour)
	return fmt.Sprintf("%02d:%02d", h, m)
}

// ClockToDecimal parses a 24-hour "HH:MM" string into a decimal hour.
func ClockToDecimal(clock string) (float64, error) {
	parts := strings.SplitN(clock, ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("parse clock %q: want HH:MM", clock)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("parse clock %q: %w", clock, err)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("parse clock %q: %w", clock, err)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("parse clock %q: out of range", clock)
	}
	return float64(h) + float64(m)/60, nil
}

// splitHour rounds the fractional part to the nearest whole minute, ties
// away from zero, carrying into the hour when rounding reaches 60.
func splitHour(hour float64) (int, int) {
	h := int(math.Floor(hour))
	m := int(math.Round((hour - math.Floor(hour)) * 60))
	if m == 60 {
		h++
		m = 0
	}
	return h, m
}
