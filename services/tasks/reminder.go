package tasks

import (
	"encoding/json"

	"github.com/hibiken/asynq"

	"clinicflow/models"
)

const TypeReminderDeliver = "reminder:deliver"

// NewReminderDeliveryTask builds the queue task for one reminder
// notification. MaxRetry bounds redelivery at the transport layer.
func NewReminderDeliveryTask(payload models.ReminderNotification, maxRetry int) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeReminderDeliver, b)
	opts := []asynq.Option{asynq.MaxRetry(maxRetry)}

	return task, opts, nil
}
