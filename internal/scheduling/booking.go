package scheduling

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/clinicware/appointment-engine/internal/lock"
)

// bookingNamespace seeds deterministic booking ids: claiming the same
// slots always yields the same id, which keeps retries idempotent.
var bookingNamespace = uuid.MustParse("8f9a61f2-4ac6-43d4-9c0e-2b6a5d7f3e91")

// Bookings claims offerings atomically and is the only writer of booked
// state. The ledger and delivery hand-offs are best-effort side effects:
// a booking is authoritative once its slots are claimed.
type Bookings struct {
	calendar *Calendar
	ledger   *Ledger
	delivery Delivery
	locker   lock.Locker
	log      *zap.Logger
	now      Clock
}

func NewBookings(calendar *Calendar, ledger *Ledger, delivery Delivery, locker lock.Locker, log *zap.Logger, now Clock) *Bookings {
	if now == nil {
		now = time.Now
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Bookings{
		calendar: calendar,
		ledger:   ledger,
		delivery: delivery,
		locker:   locker,
		log:      log,
		now:      now,
	}
}

// Book claims the offering's underlying slots atomically and returns the
// resulting record. The slots are re-resolved against current calendar
// state inside the schedule lock, so an offering that went stale between
// the availability query and this call fails with ErrConflict and no side
// effects. Exactly one of any set of concurrent callers wins.
func (b *Bookings) Book(ctx context.Context, offeringID, patientName string, contact Contact) (*BookingRecord, error) {
	if patientName == "" {
		return nil, fmt.Errorf("%w: patient name is required", ErrValidation)
	}
	provider, date, starts, err := DecodeOfferingID(offeringID)
	if err != nil {
		return nil, err
	}

	var record *BookingRecord

	err = b.locker.WithLock(ctx, lock.ScheduleKey(provider, date), func(ctx context.Context) error {
		day, err := b.calendar.Day(ctx, provider, date)
		if err != nil {
			return err
		}
		if len(day) == 0 {
			return fmt.Errorf("%w: no schedule for %s on %s", ErrNotFound, provider, date)
		}

		byStart := make(map[string]Slot, len(day))
		for _, s := range day {
			byStart[s.Start] = s
		}
		claimed := make([]Slot, 0, len(starts))
		for _, start := range starts {
			s, ok := byStart[start]
			if !ok || s.Booked {
				return fmt.Errorf("%w: slot %s %s %s is no longer available", ErrConflict, provider, date, start)
			}
			claimed = append(claimed, s)
		}

		if err := b.calendar.Claim(ctx, provider, date, starts); err != nil {
			return err
		}

		first, last := claimed[0], claimed[len(claimed)-1]
		record = &BookingRecord{
			BookingID:       uuid.NewSHA1(bookingNamespace, []byte(offeringID)).String(),
			PatientName:     patientName,
			PatientEmail:    contact.Email,
			PatientPhone:    contact.Phone,
			Provider:        provider,
			Location:        first.Location,
			Date:            date,
			Start:           first.Start,
			End:             last.End,
			DurationMinutes: len(claimed) * BaseSlotMinutes,
			CreatedAt:       b.now().UTC(),
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, lock.ErrLockNotAcquired) {
			return nil, fmt.Errorf("%w: schedule is being booked, please retry", ErrConflict)
		}
		return nil, err
	}

	b.recordSideEffects(ctx, record, contact)
	return record, nil
}

// recordSideEffects appends the booking to the ledger and hands the
// reminder plan and intake-forms request to the delivery collaborator.
// Failures here are logged, never propagated: the slot claim already
// committed.
func (b *Bookings) recordSideEffects(ctx context.Context, rec *BookingRecord, contact Contact) {
	if err := b.ledger.Append(ctx, *rec); err != nil {
		b.log.Warn("ledger append failed",
			zap.String("booking_id", rec.BookingID),
			zap.Error(err))
	}

	if b.delivery == nil {
		return
	}

	plan, err := PlanReminders(*rec)
	if err != nil {
		b.log.Warn("reminder plan failed",
			zap.String("booking_id", rec.BookingID),
			zap.Error(err))
	} else if err := b.delivery.DeliverPlan(ctx, *plan, contact); err != nil {
		b.log.Warn("reminder delivery hand-off failed",
			zap.String("booking_id", rec.BookingID),
			zap.Error(err))
	}

	if contact.Email != "" {
		req := FormsRequest{
			BookingID:    rec.BookingID,
			PatientName:  rec.PatientName,
			PatientEmail: contact.Email,
			Provider:     rec.Provider,
			Date:         rec.Date,
		}
		if err := b.delivery.SendForms(ctx, req); err != nil {
			b.log.Warn("intake forms hand-off failed",
				zap.String("booking_id", rec.BookingID),
				zap.Error(err))
		}
	}
}
