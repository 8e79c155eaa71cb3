package scheduling

import (
	"context"
	"time"
)

// SlotRepository is the tabular slot store. ListDay returns every slot for
// a provider/day sorted by start time; Claim flips is_booked for the given
// start times only if all of them are currently free, with no partial
// mutation otherwise. Claim is the sole mutator of slot state.
type SlotRepository interface {
	ListDay(ctx context.Context, provider, date string) ([]Slot, error)
	Claim(ctx context.Context, provider, date string, starts []string) error
}

// PatientRepository is the deduplicated patient directory. Get resolves an
// identity tuple (case-insensitive names, exact dob) or ErrNotFound; Put
// inserts or replaces the row for the patient's identity.
type PatientRepository interface {
	Get(ctx context.Context, id PatientIdentity) (*Patient, error)
	Put(ctx context.Context, p Patient) error
}

// LedgerRepository is the append-only booking history. Append never mutates
// prior records; ListRange returns records whose date falls within
// [from, to] inclusive.
type LedgerRepository interface {
	Append(ctx context.Context, rec BookingRecord) error
	ListRange(ctx context.Context, from, to string) ([]BookingRecord, error)
}

// Delivery is the transport collaborator. The core only computes reminder
// plans and forms requests; retries and delivery confirmation live behind
// this interface.
type Delivery interface {
	DeliverPlan(ctx context.Context, plan ReminderPlan, contact Contact) error
	SendForms(ctx context.Context, req FormsRequest) error
}

// FormsRequest asks the delivery collaborator to mail intake forms after a
// confirmed booking.
type FormsRequest struct {
	BookingID    string `json:"booking_id"`
	PatientName  string `json:"patient_name"`
	PatientEmail string `json:"patient_email"`
	Provider     string `json:"provider"`
	Date         string `json:"date"`
}

// Clock abstracts "now" so past-date validation is testable.
type Clock func() time.Time
