// Package delivery carries reminder plans and intake-forms requests out of
// the booking engine. The engine only computes what to send and when;
// transport, retries and confirmation live here or further downstream.
package delivery

import (
	"context"

	"go.uber.org/zap"

	"github.com/clinicware/appointment-engine/internal/scheduling"
)

// LogDelivery writes every hand-off to the log and nothing else. It is
// the default in dev and the fallback when no queue is configured.
type LogDelivery struct {
	log *zap.Logger
}

func NewLogDelivery(log *zap.Logger) *LogDelivery {
	if log == nil {
		log = zap.NewNop()
	}
	return &LogDelivery{log: log}
}

func (d *LogDelivery) DeliverPlan(ctx context.Context, plan scheduling.ReminderPlan, contact scheduling.Contact) error {
	for _, entry := range plan.Entries {
		d.log.Info("reminder scheduled",
			zap.String("booking_id", plan.BookingID),
			zap.String("kind", string(entry.Kind)),
			zap.Time("due_at", entry.DueAt),
			zap.String("email", contact.Email),
			zap.String("phone", contact.Phone),
		)
	}
	return nil
}

func (d *LogDelivery) SendForms(ctx context.Context, req scheduling.FormsRequest) error {
	d.log.Info("intake forms requested",
		zap.String("booking_id", req.BookingID),
		zap.String("patient_email", req.PatientEmail),
		zap.String("provider", req.Provider),
		zap.String("date", req.Date),
	)
	return nil
}
