package model

import (
	"fmt"
	"time"
)

// Date is a civil calendar date in the fixed display timezone. It carries
// no clock or location of its own; conversion to an absolute instant goes
// through the schedule clock.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

func DateOf(t time.Time) Date {
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}
}

func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, fmt.Errorf("parse date: %w", err)
	}
	return DateOf(t), nil
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

func (d Date) IsZero() bool {
	return d == Date{}
}

// utc pins the date to UTC midnight for calendar arithmetic. The zone is
// irrelevant here as long as it is consistent and DST-free.
func (d Date) utc() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

func (d Date) AddDays(n int) Date {
	return DateOf(d.utc().AddDate(0, 0, n))
}

func (d Date) Weekday() time.Weekday {
	return d.utc().Weekday()
}

func (d Date) Before(o Date) bool {
	return d.utc().Before(o.utc())
}

func (d Date) After(o Date) bool {
	return o.Before(d)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := string(b)
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return fmt.Errorf("parse date: invalid JSON value %s", s)
	}
	parsed, err := ParseDate(s[1 : len(s)-1])
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Week is seven consecutive civil dates, Sunday through Saturday.
type Week [7]Date

// WeeksForMonth returns the whole weeks needed to render a month grid.
// The first week begins on the Sunday on or before the first of the
// month; weeks are emitted until the week containing the last day of the
// month is complete. Leading and trailing days belong to the adjacent
// months but are structurally identical slot-bearing days.
func WeeksForMonth(year int, month time.Month) []Week {
	first := Date{Year: year, Month: month, Day: 1}
	last := DateOf(first.utc().AddDate(0, 1, -1))

	cur := first.AddDays(-int(first.Weekday()))

	var weeks []Week
	for !cur.After(last) || cur.Month == month {
		var w Week
		for i := range w {
			w[i] = cur
			cur = cur.AddDays(1)
		}
		weeks = append(weeks, w)

		if cur.Month != month && w[6].Month != month {
			break
		}
	}
	return weeks
}
