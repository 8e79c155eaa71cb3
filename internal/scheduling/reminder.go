package scheduling

import (
	"fmt"
	"time"
)

const reminderStatusScheduled = "scheduled"

// The fixed reminder timeline: offsets before the appointment instant,
// each with a distinct purpose.
var reminderSpec = []struct {
	offset   time.Duration
	kind     ReminderKind
	template string
}{
	{24 * time.Hour, KindRegularReminder,
		"Reminder: You have an appointment with %s on %s at %s. Please arrive 15 minutes early."},
	{2 * time.Hour, KindFormsCheck,
		"Reminder: Your appointment with %s is in 2 hours. Have you completed the intake forms? Please reply YES if completed, NO if not."},
	{30 * time.Minute, KindConfirmationCheck,
		"Final reminder: Your appointment with %s is in 30 minutes. Please confirm you're still coming or reply with your cancellation reason."},
}

// PlanReminders derives the three-entry reminder timeline for a confirmed
// booking. Pure and idempotent: the same record always yields the same
// offsets. Delivery and persistence belong to the delivery collaborator.
func PlanReminders(rec BookingRecord) (*ReminderPlan, error) {
	at, err := AppointmentInstant(rec.Date, rec.Start)
	if err != nil {
		return nil, err
	}

	plan := &ReminderPlan{BookingID: rec.BookingID}
	for _, spec := range reminderSpec {
		msg := spec.template
		if spec.kind == KindRegularReminder {
			msg = fmt.Sprintf(spec.template, rec.Provider, rec.Date, rec.Start)
		} else {
			msg = fmt.Sprintf(spec.template, rec.Provider)
		}
		plan.Entries = append(plan.Entries, ReminderEntry{
			Offset:  spec.offset,
			DueAt:   at.Add(-spec.offset),
			Kind:    spec.kind,
			Message: msg,
			Status:  reminderStatusScheduled,
		})
	}
	return plan, nil
}
