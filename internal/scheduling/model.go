package scheduling

import (
	"fmt"
	"strings"
	"time"
)

// BaseSlotMinutes is the fixed grid size every provider schedule is laid
// out on. Longer appointments are synthesized from adjacent base slots.
const BaseSlotMinutes = 30

// Slot is the smallest bookable calendar unit for a provider on a date.
// Dates are canonical YYYY-MM-DD, times canonical HH:MM. Within a day a
// slot is identified by its start time; slots never overlap.
type Slot struct {
	Provider string
	Location string
	Date     string
	Start    string
	End      string
	Booked   bool
}

// Offering is a candidate bookable unit presented to a caller, possibly
// composed of multiple adjacent slots. Its ID is a composite identity
// referencing the underlying slot start times in order.
type Offering struct {
	ID              string   `json:"offering_id"`
	Provider        string   `json:"provider"`
	Location        string   `json:"location"`
	Date            string   `json:"date"`
	Start           string   `json:"start_time"`
	End             string   `json:"end_time"`
	DurationMinutes int      `json:"duration_minutes"`
	SlotStarts      []string `json:"slot_starts"`
}

// EncodeOfferingID builds the composite identity "provider|date|start1+start2".
func EncodeOfferingID(provider, date string, starts []string) string {
	return provider + "|" + date + "|" + strings.Join(starts, "+")
}

// DecodeOfferingID is the inverse of EncodeOfferingID.
func DecodeOfferingID(id string) (provider, date string, starts []string, err error) {
	parts := strings.Split(id, "|")
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
		return "", "", nil, fmt.Errorf("%w: malformed offering id %q", ErrValidation, id)
	}
	return parts[0], parts[1], strings.Split(parts[2], "+"), nil
}

// BookingRecord is a committed claim on one or more slots. Created once by
// the booking service, immutable thereafter, owned by the ledger.
type BookingRecord struct {
	BookingID       string    `json:"booking_id"`
	PatientName     string    `json:"patient_name"`
	PatientEmail    string    `json:"patient_email,omitempty"`
	PatientPhone    string    `json:"patient_phone,omitempty"`
	Provider        string    `json:"provider"`
	Location        string    `json:"location"`
	Date            string    `json:"date"`
	Start           string    `json:"start_time"`
	End             string    `json:"end_time"`
	DurationMinutes int       `json:"duration_minutes"`
	CreatedAt       time.Time `json:"created_at"`
}

// PatientIdentity is the deduplication key for the patient directory:
// names compared case-insensitively, dob exactly.
type PatientIdentity struct {
	FirstName string
	LastName  string
	DOB       string
}

// Key returns the canonical lower-cased identity tuple.
func (id PatientIdentity) Key() string {
	return strings.ToLower(strings.TrimSpace(id.FirstName)) + "|" +
		strings.ToLower(strings.TrimSpace(id.LastName)) + "|" +
		strings.TrimSpace(id.DOB)
}

type Patient struct {
	FirstName         string    `json:"first_name"`
	LastName          string    `json:"last_name"`
	DOB               string    `json:"dob"`
	Email             string    `json:"email,omitempty"`
	Phone             string    `json:"phone,omitempty"`
	PreferredProvider string    `json:"preferred_provider,omitempty"`
	Location          string    `json:"location,omitempty"`
	InsuranceCarrier  string    `json:"insurance_carrier,omitempty"`
	MemberID          string    `json:"member_id,omitempty"`
	GroupID           string    `json:"group_id,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
}

// Identity returns the patient's deduplication key fields.
func (p Patient) Identity() PatientIdentity {
	return PatientIdentity{FirstName: p.FirstName, LastName: p.LastName, DOB: p.DOB}
}

type ReminderKind string

const (
	KindRegularReminder   ReminderKind = "regular_reminder"
	KindFormsCheck        ReminderKind = "forms_check"
	KindConfirmationCheck ReminderKind = "confirmation_check"
)

// ReminderEntry is one reminder due a fixed offset before the appointment.
type ReminderEntry struct {
	Offset  time.Duration `json:"offset_before_appointment"`
	DueAt   time.Time     `json:"due_at"`
	Kind    ReminderKind  `json:"kind"`
	Message string        `json:"message"`
	Status  string        `json:"status"`
}

// ReminderPlan is the fixed three-entry timeline for a confirmed booking.
// It is computed, never persisted; delivery is a separate collaborator.
type ReminderPlan struct {
	BookingID string          `json:"booking_id"`
	Entries   []ReminderEntry `json:"entries"`
}

// ReportRow aggregates ledger records by (date, provider).
type ReportRow struct {
	Date               string  `json:"date"`
	Provider           string  `json:"provider"`
	TotalAppointments  int     `json:"total_appointments"`
	TotalMinutes       int     `json:"total_minutes"`
	AvgDurationMinutes float64 `json:"avg_duration_minutes"`
}

// Contact carries optional patient contact channels.
type Contact struct {
	Email string
	Phone string
}
