package delivery

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"github.com/clinicware/appointment-engine/internal/scheduling"
)

// Handler processes the queued delivery tasks. Actual transport (SMTP,
// SMS gateway) is plugged in behind Sender; the default just logs, which
// is enough for dev and for the simulator.
type Handler struct {
	log    *zap.Logger
	sender Sender
}

// Sender is the final-mile transport for a message.
type Sender interface {
	Send(ctx context.Context, email, phone, message string) error
}

type logSender struct {
	log *zap.Logger
}

func (s *logSender) Send(ctx context.Context, email, phone, message string) error {
	s.log.Info("message sent",
		zap.String("email", email),
		zap.String("phone", phone),
		zap.String("message", message),
	)
	return nil
}

func NewHandler(log *zap.Logger, sender Sender) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	if sender == nil {
		sender = &logSender{log: log}
	}
	return &Handler{log: log, sender: sender}
}

// Register wires the handler into an asynq mux.
func (h *Handler) Register(mux *asynq.ServeMux) {
	mux.HandleFunc(TypeReminder, h.handleReminder)
	mux.HandleFunc(TypeForms, h.handleForms)
}

func (h *Handler) handleReminder(ctx context.Context, t *asynq.Task) error {
	var p ReminderPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("unmarshal reminder payload: %w: %w", err, asynq.SkipRetry)
	}

	h.log.Info("dispatching reminder",
		zap.String("booking_id", p.BookingID),
		zap.String("kind", p.Kind),
		zap.Time("due_at", p.DueAt),
	)
	return h.sender.Send(ctx, p.Email, p.Phone, p.Message)
}

func (h *Handler) handleForms(ctx context.Context, t *asynq.Task) error {
	var req scheduling.FormsRequest
	if err := json.Unmarshal(t.Payload(), &req); err != nil {
		return fmt.Errorf("unmarshal forms payload: %w: %w", err, asynq.SkipRetry)
	}

	h.log.Info("sending intake forms",
		zap.String("booking_id", req.BookingID),
		zap.String("patient_email", req.PatientEmail),
	)
	msg := fmt.Sprintf(
		"Dear %s, please find attached the intake forms for your appointment with %s on %s: Patient Information, Medical History, Insurance Information and Consent Forms.",
		req.PatientName, req.Provider, req.Date,
	)
	return h.sender.Send(ctx, req.PatientEmail, "", msg)
}
