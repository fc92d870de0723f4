package schedule

import (
	"testing"
	"time"

	"github.com/courtside/scheduler/internal/model"
)

func TestDedupe(t *testing.T) {
	day := model.Date{Year: 2024, Month: time.March, Day: 10}

	jane := model.Slot{ID: "1", Date: day, StartTime: 9, EndTime: 10, ClientName: "Jane"}
	janeAgain := model.Slot{ID: "2", Date: day, StartTime: 9, EndTime: 10, ClientName: "Jane"}
	bob := model.Slot{ID: "3", Date: day, StartTime: 9, EndTime: 10, ClientName: "Bob"}

	got := Dedupe([]model.Slot{jane, janeAgain, bob})

	if len(got) != 2 {
		t.Fatalf("expected 2 slots, got %d", len(got))
	}
	if got[0].ID != "1" {
		t.Errorf("expected first occurrence to win, got slot %s", got[0].ID)
	}
	if got[1].ID != "3" {
		t.Errorf("expected Bob to survive, got slot %s", got[1].ID)
	}
}

func TestDedupe_LocationNotInKey(t *testing.T) {
	// Same time and name but different locations still count as
	// duplicates: the key is (date, start, end, client name) only.
	day := model.Date{Year: 2024, Month: time.March, Day: 10}
	a := model.Slot{ID: "1", Date: day, StartTime: 9, EndTime: 10, ClientName: "Jane", Location: "Court 1"}
	b := model.Slot{ID: "2", Date: day, StartTime: 9, EndTime: 10, ClientName: "Jane", Location: "Court 2"}

	if got := Dedupe([]model.Slot{a, b}); len(got) != 1 {
		t.Fatalf("expected 1 slot, got %d", len(got))
	}
}

func TestDedupe_Idempotent(t *testing.T) {
	day := model.Date{Year: 2024, Month: time.March, Day: 10}
	input := []model.Slot{
		{ID: "1", Date: day, StartTime: 9, EndTime: 10, ClientName: "Jane"},
		{ID: "2", Date: day, StartTime: 9, EndTime: 10, ClientName: "Jane"},
		{ID: "3", Date: day, StartTime: 11, EndTime: 12},
		{ID: "4", Date: day, StartTime: 11, EndTime: 12},
	}

	once := Dedupe(input)
	twice := Dedupe(once)

	if len(once) > len(input) {
		t.Fatal("dedupe grew the collection")
	}
	if len(once) != len(twice) {
		t.Fatalf("not idempotent: %d != %d", len(once), len(twice))
	}
	for i := range once {
		if once[i].ID != twice[i].ID {
			t.Fatalf("order changed on second pass at %d", i)
		}
	}
}

func TestDuplicates(t *testing.T) {
	day := model.Date{Year: 2024, Month: time.March, Day: 10}
	input := []model.Slot{
		{ID: "keep", Date: day, StartTime: 9, EndTime: 10, ClientName: "Jane"},
		{ID: "drop-1", Date: day, StartTime: 9, EndTime: 10, ClientName: "Jane"},
		{ID: "drop-2", Date: day, StartTime: 9, EndTime: 10, ClientName: "Jane"},
		{ID: "unique", Date: day, StartTime: 11, EndTime: 12},
	}

	dropped := Duplicates(input)
	if len(dropped) != 2 {
		t.Fatalf("expected 2 duplicates, got %d", len(dropped))
	}
	if dropped[0].ID != "drop-1" || dropped[1].ID != "drop-2" {
		t.Errorf("unexpected duplicates: %s, %s", dropped[0].ID, dropped[1].ID)
	}
}
