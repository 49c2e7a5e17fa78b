package notification

import (
	"context"
	"errors"

	"clinicflow/models"
)

// ErrNotificationFailure marks a recoverable delivery failure. The
// reminder engine retries a bounded number of times, then skips the
// task with a flag for manual follow-up.
var ErrNotificationFailure = errors.New("notification delivery failed")

// Notifier is the abstract outbound transport for reminders. A failed
// Send leaves the reminder task pending for bounded redelivery; the
// reminder engine never retries indefinitely.
type Notifier interface {
	Send(ctx context.Context, n models.ReminderNotification) error
}
