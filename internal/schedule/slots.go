package schedule

import (
	"sort"

	"github.com/courtside/scheduler/internal/model"
)

// OnDate returns the slots beginning on the given civil date, ascending
// by start time. The sort is stable so slots sharing a start time keep
// their input order across refreshes.
func OnDate(slots []model.Slot, d model.Date) []model.Slot {
	var out []model.Slot
	for _, s := range slots {
		if s.Date == d {
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].StartTime < out[j].StartTime
	})
	return out
}

// sortByInstant orders slots by their reconstructed absolute start
// instant, not the decimal hour alone, so cross-date ordering stays
// correct. Stable to preserve input order on exact ties.
func sortByInstant(slots []model.Slot) {
	sort.SliceStable(slots, func(i, j int) bool {
		return ToInstant(slots[i].Date, slots[i].StartTime).
			Before(ToInstant(slots[j].Date, slots[j].StartTime))
	})
}
