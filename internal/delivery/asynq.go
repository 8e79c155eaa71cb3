package delivery

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"github.com/clinicware/appointment-engine/internal/scheduling"
)

const (
	TypeReminder = "delivery:reminder"
	TypeForms    = "delivery:forms"
)

// ReminderPayload is one scheduled reminder, enqueued to fire at its due
// instant.
type ReminderPayload struct {
	BookingID string    `json:"booking_id"`
	Kind      string    `json:"kind"`
	Message   string    `json:"message"`
	DueAt     time.Time `json:"due_at"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
}

// QueueDelivery enqueues each reminder and forms request as an asynq task.
// Reminders are scheduled with ProcessAt so the worker picks them up at
// their due time; forms go out immediately.
type QueueDelivery struct {
	client *asynq.Client
}

func NewQueueDelivery(redisAddr, username, password string) *QueueDelivery {
	return &QueueDelivery{
		client: asynq.NewClient(asynq.RedisClientOpt{
			Addr:     redisAddr,
			Username: username,
			Password: password,
		}),
	}
}

func (d *QueueDelivery) Close() error {
	return d.client.Close()
}

func (d *QueueDelivery) DeliverPlan(ctx context.Context, plan scheduling.ReminderPlan, contact scheduling.Contact) error {
	for _, entry := range plan.Entries {
		payload, err := json.Marshal(ReminderPayload{
			BookingID: plan.BookingID,
			Kind:      string(entry.Kind),
			Message:   entry.Message,
			DueAt:     entry.DueAt,
			Email:     contact.Email,
			Phone:     contact.Phone,
		})
		if err != nil {
			return fmt.Errorf("marshal reminder payload: %w", err)
		}

		task := asynq.NewTask(TypeReminder, payload)
		_, err = d.client.EnqueueContext(ctx, task,
			asynq.ProcessAt(entry.DueAt),
			asynq.MaxRetry(5),
			asynq.TaskID(plan.BookingID+":"+string(entry.Kind)),
		)
		if err != nil && !errors.Is(err, asynq.ErrTaskIDConflict) {
			return fmt.Errorf("enqueue reminder %s/%s: %w", plan.BookingID, entry.Kind, err)
		}
	}
	return nil
}

func (d *QueueDelivery) SendForms(ctx context.Context, req scheduling.FormsRequest) error {
	payload, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("marshal forms payload: %w", err)
	}

	task := asynq.NewTask(TypeForms, payload)
	_, err = d.client.EnqueueContext(ctx, task,
		asynq.MaxRetry(5),
		asynq.TaskID(req.BookingID+":forms"),
	)
	if err != nil && !errors.Is(err, asynq.ErrTaskIDConflict) {
		return fmt.Errorf("enqueue forms %s: %w", req.BookingID, err)
	}
	return nil
}
