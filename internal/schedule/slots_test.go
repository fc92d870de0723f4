package schedule

import (
	"testing"
	"time"

	"github.com/courtside/scheduler/internal/model"
)

func TestOnDate(t *testing.T) {
	day := model.Date{Year: 2024, Month: time.March, Day: 10}
	other := model.Date{Year: 2024, Month: time.March, Day: 11}

	slots := []model.Slot{
		{ID: "late", Date: day, StartTime: 15, EndTime: 16},
		{ID: "elsewhere", Date: other, StartTime: 9, EndTime: 10},
		{ID: "first-nine", Date: day, StartTime: 9, EndTime: 10},
		{ID: "second-nine", Date: day, StartTime: 9, EndTime: 9.5},
		{ID: "early", Date: day, StartTime: 7, EndTime: 8},
	}

	got := OnDate(slots, day)

	wantOrder := []string{"early", "first-nine", "second-nine", "late"}
	if len(got) != len(wantOrder) {
		t.Fatalf("expected %d slots, got %d", len(wantOrder), len(got))
	}
	for i, id := range wantOrder {
		if got[i].ID != id {
			t.Errorf("position %d: expected %s, got %s", i, id, got[i].ID)
		}
	}
}

func TestOnDate_StableAcrossCalls(t *testing.T) {
	// Slots sharing a start time must not reorder between refreshes.
	day := model.Date{Year: 2024, Month: time.March, Day: 10}
	slots := []model.Slot{
		{ID: "a", Date: day, StartTime: 9, EndTime: 10},
		{ID: "b", Date: day, StartTime: 9, EndTime: 10},
		{ID: "c", Date: day, StartTime: 9, EndTime: 10},
	}

	for i := 0; i < 5; i++ {
		got := OnDate(slots, day)
		if got[0].ID != "a" || got[1].ID != "b" || got[2].ID != "c" {
			t.Fatalf("unstable order: %s %s %s", got[0].ID, got[1].ID, got[2].ID)
		}
	}
}

func TestOnDate_Empty(t *testing.T) {
	day := model.Date{Year: 2024, Month: time.March, Day: 10}
	if got := OnDate(nil, day); len(got) != 0 {
		t.Fatalf("expected no slots, got %d", len(got))
	}
}
