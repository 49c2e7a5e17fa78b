package reminder

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	calendarRepo "clinicflow/database/repository/calendar"
	reminderRepo "clinicflow/database/repository/reminder"
	"clinicflow/models"
	"clinicflow/services/notification"
)

// BookingCanceller is the slice of the booking manager the reminder
// engine needs when a patient cancels in response to a reminder.
type BookingCanceller interface {
	Cancel(ctx context.Context, bookingID string) error
}

// reminderOffsets are the three stages in firing order: 24h, 2h and 1h
// before the appointment start, strictly decreasing time-to-appointment.
var reminderOffsets = []struct {
	Kind   models.ReminderKind
	Before time.Duration
}{
	{models.ReminderConfirm24h, 24 * time.Hour},
	{models.ReminderFormCheck2h, 2 * time.Hour},
	{models.ReminderFinalConfirm1h, time.Hour},
}

// Scheduler advances each booking's reminder plan through the
// three-stage state machine. It holds no in-memory timers: Tick
// recomputes due tasks from persisted fireAt/state, so the workflow
// survives restarts, and ticks are idempotent.
type Scheduler struct {
	Plans    reminderRepo.ReminderRepository
	Calendar calendarRepo.CalendarRepository
	Notifier notification.Notifier

	// Grace is how long a fired reminder waits for a response before
	// it is skipped and the workflow proceeds.
	Grace time.Duration
	// MaxDeliveryAttempts bounds notifier redelivery for one task
	// before it is skipped with the delivery-failed flag set.
	MaxDeliveryAttempts int

	canceller BookingCanceller
	logger    *zap.Logger
}

// NewScheduler constructs the reminder engine.
func NewScheduler(plans reminderRepo.ReminderRepository, calendar calendarRepo.CalendarRepository, notifier notification.Notifier, grace time.Duration, maxDeliveryAttempts int, logger *zap.Logger) *Scheduler {
	if maxDeliveryAttempts <= 0 {
		maxDeliveryAttempts = 3
	}
	return &Scheduler{
		Plans:               plans,
		Calendar:            calendar,
		Notifier:            notifier,
		Grace:               grace,
		MaxDeliveryAttempts: maxDeliveryAttempts,
		logger:              logger,
	}
}

// SetCanceller wires the booking manager in after construction; the
// two components reference each other.
func (s *Scheduler) SetCanceller(c BookingCanceller) {
	s.canceller = c
}

// PlanReminders creates the three-task plan for a freshly confirmed
// booking. Creation is exactly-once per booking: a plan that already
// exists is left untouched.
func (s *Scheduler) PlanReminders(ctx context.Context, booking *models.Booking) error {
	startAt, err := booking.StartAt()
	if err != nil {
		return fmt.Errorf("invalid booking date: %w", err)
	}

	tasks := make([]models.ReminderTask, 0, len(reminderOffsets))
	for _, off := range reminderOffsets {
		tasks = append(tasks, models.ReminderTask{
			Kind:   off.Kind,
			FireAt: startAt.Add(-off.Before),
			State:  models.TaskStatePending,
		})
	}

	plan := &models.ReminderPlan{
		BookingID: booking.ID,
		PatientID: booking.PatientID,
		Tasks:     tasks,
		Active:    true,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.Plans.CreatePlan(ctx, plan); err != nil {
		if errors.Is(err, reminderRepo.ErrPlanExists) {
			return nil
		}
		return err
	}

	s.logger.Info("reminder plan created",
		zap.String("bookingID", booking.ID),
		zap.Time("appointmentAt", startAt))
	return nil
}

// RetirePlan skips every pending or fired task and deactivates the
// plan. Called when the booking is cancelled; a missing plan (booking
// never confirmed) is not an error.
func (s *Scheduler) RetirePlan(ctx context.Context, bookingID string) error {
	plan, err := s.Plans.GetPlan(ctx, bookingID)
	if err != nil {
		if errors.Is(err, reminderRepo.ErrPlanNotFound) {
			return nil
		}
		return err
	}
	skipRemaining(plan)
	plan.Active = false
	return s.Plans.SavePlan(ctx, plan)
}

// Tick advances every active plan against the given wall-clock time.
// Notifier failures are contained per task and never abort the tick
// for other plans or tasks.
func (s *Scheduler) Tick(ctx context.Context, now time.Time) {
	plans, err := s.Plans.ActivePlans(ctx)
	if err != nil {
		s.logger.Error("tick: failed to load active plans", zap.Error(err))
		return
	}

	for i := range plans {
		plan := plans[i]
		if err := s.advancePlan(ctx, now, &plan); err != nil {
			s.logger.Error("tick: failed to advance plan",
				zap.String("bookingID", plan.BookingID), zap.Error(err))
		}
	}
}

func (s *Scheduler) advancePlan(ctx context.Context, now time.Time, plan *models.ReminderPlan) error {
	booking, err := s.Calendar.GetBooking(ctx, plan.BookingID)
	if err != nil {
		return fmt.Errorf("failed to load booking: %w", err)
	}

	// Cancellation always wins: the next tick skips everything left.
	if booking.Status == models.BookingStatusCancelled {
		skipRemaining(plan)
		plan.Active = false
		return s.Plans.SavePlan(ctx, plan)
	}

	for i := range plan.Tasks {
		task := &plan.Tasks[i]
		switch task.State {
		case models.TaskStatePending:
			if task.FireAt.After(now) {
				continue
			}
			s.fireTask(ctx, now, plan, task, booking)
		case models.TaskStateFired:
			if task.FiredAt != nil && now.Sub(*task.FiredAt) >= s.Grace {
				task.State = models.TaskStateSkipped
				s.logger.Info("reminder skipped: grace window elapsed",
					zap.String("bookingID", plan.BookingID),
					zap.String("kind", string(task.Kind)))
			}
		}
	}

	if plan.Settled() {
		plan.Active = false
	}
	return s.Plans.SavePlan(ctx, plan)
}

// fireTask sends one due reminder. On notifier failure the task stays
// pending for redelivery on a later tick, up to MaxDeliveryAttempts.
func (s *Scheduler) fireTask(ctx context.Context, now time.Time, plan *models.ReminderPlan, task *models.ReminderTask, booking *models.Booking) {
	err := s.Notifier.Send(ctx, models.ReminderNotification{
		BookingID: plan.BookingID,
		PatientID: plan.PatientID,
		Kind:      task.Kind,
		Channel:   "email",
		Message:   reminderMessage(task.Kind, booking),
	})
	if err != nil {
		task.Attempts++
		s.logger.Warn("reminder delivery failed",
			zap.String("bookingID", plan.BookingID),
			zap.String("kind", string(task.Kind)),
			zap.Int("attempts", task.Attempts),
			zap.Error(err))
		if task.Attempts >= s.MaxDeliveryAttempts {
			// Flagged for manual follow-up.
			task.State = models.TaskStateSkipped
			task.DeliveryFailed = true
		}
		return
	}

	firedAt := now
	task.State = models.TaskStateFired
	task.FiredAt = &firedAt
	s.logger.Info("reminder fired",
		zap.String("bookingID", plan.BookingID),
		zap.String("kind", string(task.Kind)))
}

// HandleResponse consumes a patient's reply to a fired reminder and
// returns the message to show them. Replies to tasks that already
// timed out are reported back without changing state; replying to a
// reminder that has not fired is an integration error.
func (s *Scheduler) HandleResponse(ctx context.Context, bookingID string, kind models.ReminderKind, response string) (string, error) {
	plan, err := s.Plans.GetPlan(ctx, bookingID)
	if err != nil {
		return "", err
	}
	task := plan.Task(kind)
	if task == nil {
		return "", fmt.Errorf("unknown reminder kind %q", kind)
	}

	switch task.State {
	case models.TaskStateAcknowledged:
		return "Your response has already been recorded.", nil
	case models.TaskStateSkipped:
		return "This reminder has expired. Please call us if you need to make changes.", nil
	case models.TaskStatePending:
		return "", fmt.Errorf("reminder %s has not fired for booking %s", kind, bookingID)
	}

	booking, err := s.Calendar.GetBooking(ctx, bookingID)
	if err != nil {
		return "", err
	}

	reply, acknowledged, cancelRequested, sendForms := s.dispatchResponse(kind, strings.ToLower(strings.TrimSpace(response)))
	if !acknowledged {
		// Unclear response: the task stays fired, awaiting a clearer
		// reply or the grace window.
		return reply, nil
	}

	task.State = models.TaskStateAcknowledged
	if sendForms {
		plan.FormsSent = true
	}
	if plan.Settled() {
		plan.Active = false
	}
	if err := s.Plans.SavePlan(ctx, plan); err != nil {
		return "", err
	}

	if sendForms {
		if err := s.Notifier.Send(ctx, models.ReminderNotification{
			BookingID: bookingID,
			PatientID: plan.PatientID,
			Kind:      kind,
			Channel:   "email",
			Message:   formsMessage(booking),
		}); err != nil {
			s.logger.Warn("failed to send intake forms",
				zap.String("bookingID", bookingID), zap.Error(err))
		}
	}

	if cancelRequested && s.canceller != nil {
		if err := s.canceller.Cancel(ctx, bookingID); err != nil {
			return "", fmt.Errorf("failed to cancel booking: %w", err)
		}
	}
	return reply, nil
}

// dispatchResponse maps a normalized reply onto the per-stage keyword
// protocol. Returns the patient-facing message plus what to do about
// it.
func (s *Scheduler) dispatchResponse(kind models.ReminderKind, response string) (reply string, acknowledged, cancelRequested, sendForms bool) {
	switch kind {
	case models.ReminderConfirm24h:
		switch {
		case strings.Contains(response, "confirm"):
			return "Appointment confirmed! You'll receive another reminder closer to your visit.", true, false, false
		case strings.Contains(response, "cancel"):
			return "Your appointment has been cancelled. Please call us to reschedule.", true, true, false
		case strings.Contains(response, "forms"):
			return "Your intake forms have been sent. Please complete them before your appointment.", true, false, true
		}
		return "Response not understood. Please reply CONFIRM, CANCEL, or NEED FORMS.", false, false, false

	case models.ReminderFormCheck2h:
		switch {
		case strings.Contains(response, "completed"):
			return "Perfect, your forms are complete. You'll receive a final confirmation reminder shortly.", true, false, false
		case strings.Contains(response, "forms"):
			return "Your intake forms have been re-sent. Please complete them as soon as possible.", true, false, true
		case strings.Contains(response, "cancel"):
			return "Your appointment has been cancelled. Please call us to reschedule.", true, true, false
		}
		return "Response not understood. Please reply FORMS COMPLETED, NEED FORMS, or CANCEL.", false, false, false

	case models.ReminderFinalConfirm1h:
		switch {
		case strings.Contains(response, "confirm"):
			return "Final confirmation received! Please arrive 15 minutes early for check-in.", true, false, false
		case strings.Contains(response, "cancel"):
			return "Your appointment has been cancelled. Please call us to reschedule.", true, true, false
		case strings.Contains(response, "call"):
			return "We'll call you shortly. Please keep your phone nearby.", true, false, false
		}
		return "Response not understood. Please reply CONFIRMED, CANCEL, or CALL US.", false, false, false
	}
	return "Unknown reminder type.", false, false, false
}

// skipRemaining moves every non-terminal task to skipped.
func skipRemaining(plan *models.ReminderPlan) {
	for i := range plan.Tasks {
		task := &plan.Tasks[i]
		if !task.Terminal() {
			task.State = models.TaskStateSkipped
		}
	}
}
