package notification

import (
	"context"

	"go.uber.org/zap"

	"clinicflow/models"
)

// LogNotifier writes notifications to the log instead of a real
// transport. Used in development and as the tick fallback when no
// queue is configured.
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier constructs a log-only notifier.
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Send(_ context.Context, payload models.ReminderNotification) error {
	n.logger.Info("reminder notification",
		zap.String("bookingID", payload.BookingID),
		zap.String("patientID", payload.PatientID),
		zap.String("kind", string(payload.Kind)),
		zap.String("channel", payload.Channel),
		zap.String("message", payload.Message))
	return nil
}
