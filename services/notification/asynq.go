package notification

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"clinicflow/models"
	"clinicflow/services/tasks"
)

// AsynqNotifier enqueues reminder notifications onto the Redis-backed
// delivery queue; the cron worker drains it.
type AsynqNotifier struct {
	Client   *asynq.Client
	MaxRetry int
	logger   *zap.Logger
}

// NewAsynqNotifier constructs the queue-backed notifier.
func NewAsynqNotifier(client *asynq.Client, maxRetry int, logger *zap.Logger) *AsynqNotifier {
	return &AsynqNotifier{Client: client, MaxRetry: maxRetry, logger: logger}
}

func (n *AsynqNotifier) Send(ctx context.Context, payload models.ReminderNotification) error {
	task, opts, err := tasks.NewReminderDeliveryTask(payload, n.MaxRetry)
	if err != nil {
		return fmt.Errorf("failed to build delivery task: %w", err)
	}
	info, err := n.Client.EnqueueContext(ctx, task, opts...)
	if err != nil {
		return fmt.Errorf("%w: enqueue: %v", ErrNotificationFailure, err)
	}
	n.logger.Debug("reminder delivery enqueued",
		zap.String("taskID", info.ID),
		zap.String("bookingID", payload.BookingID),
		zap.String("kind", string(payload.Kind)))
	return nil
}
