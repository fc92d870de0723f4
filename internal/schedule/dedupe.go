package schedule

import "github.com/courtside/scheduler/internal/model"

type dedupeKey struct {
	date       model.Date
	start, end float64
	client     string
}

func keyOf(s model.Slot) dedupeKey {
	return dedupeKey{date: s.Date, start: s.StartTime, end: s.EndTime, client: s.ClientName}
}

// Dedupe drops slots that agree on (date, start, end, client name),
// keeping the first occurrence. Survivor order matches first-occurrence
// order in the input. Location and notes are deliberately not part of
// the key.
func Dedupe(slots []model.Slot) []model.Slot {
	seen := make(map[dedupeKey]struct{}, len(slots))
	out := make([]model.Slot, 0, len(slots))
	for _, s := range slots {
		k := keyOf(s)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, s)
	}
	return out
}

// Duplicates returns the slots Dedupe would drop, in input order.
func Duplicates(slots []model.Slot) []model.Slot {
	seen := make(map[dedupeKey]struct{}, len(slots))
	var dropped []model.Slot
	for _, s := range slots {
		k := keyOf(s)
		if _, dup := seen[k]; dup {
			dropped = append(dropped, s)
			continue
		}
		seen[k] = struct{}{}
	}
	return dropped
}
