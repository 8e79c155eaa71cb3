package scheduling

import (
	"errors"
	"testing"
	"time"
)

func TestPlanReminders_FixedOffsets(t *testing.T) {
	rec := BookingRecord{
		BookingID: "b-1",
		Provider:  "Dr. Sharma",
		Date:      "2025-09-10",
		Start:     "09:00:00",
	}

	plan, err := PlanReminders(rec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if plan.BookingID != "b-1" {
		t.Errorf("booking id = %q", plan.BookingID)
	}
	if len(plan.Entries) != 3 {
		t.Fatalf("got %d entries, want 3", len(plan.Entries))
	}

	appt := time.Date(2025, 9, 10, 9, 0, 0, 0, time.Local)
	want := []struct {
		due  time.Time
		kind ReminderKind
	}{
		{appt.Add(-24 * time.Hour), KindRegularReminder},
		{appt.Add(-2 * time.Hour), KindFormsCheck},
		{appt.Add(-30 * time.Minute), KindConfirmationCheck},
	}
	for i, w := range want {
		e := plan.Entries[i]
		if !e.DueAt.Equal(w.due) {
			t.Errorf("entry %d due at %v, want %v", i, e.DueAt, w.due)
		}
		if e.Kind != w.kind {
			t.Errorf("entry %d kind %q, want %q", i, e.Kind, w.kind)
		}
		if e.Status != "scheduled" {
			t.Errorf("entry %d status %q", i, e.Status)
		}
		if e.Message == "" {
			t.Errorf("entry %d has empty message", i)
		}
	}
}

func TestPlanReminders_Idempotent(t *testing.T) {
	rec := BookingRecord{BookingID: "b-2", Provider: "Dr. Verma", Date: "September 12, 2025", Start: "2:00 PM"}

	first, err := PlanReminders(rec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := PlanReminders(rec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := range first.Entries {
		if !first.Entries[i].DueAt.Equal(second.Entries[i].DueAt) {
			t.Errorf("entry %d drifted between calls: %v vs %v", i, first.Entries[i].DueAt, second.Entries[i].DueAt)
		}
	}
}

func TestPlanReminders_MalformedTime(t *testing.T) {
	rec := BookingRecord{BookingID: "b-3", Date: "2025-09-10", Start: "half past nine"}
	if _, err := PlanReminders(rec); !errors.Is(err, ErrValidation) {
		t.Fatalf("want ErrValidation, got %v", err)
	}
}
