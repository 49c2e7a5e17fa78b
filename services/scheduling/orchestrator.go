package scheduling

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"clinicflow/models"
)

// Orchestrator composes the slot finder and booking manager to satisfy
// a booking request end to end: duration from the patient-type policy,
// candidate walk with bounded conflict retries, then confirmation per
// deployment policy.
type Orchestrator struct {
	Finder  *SlotFinder
	Manager *BookingManager

	// MaxAttempts bounds how many candidates are tried after losing
	// races; the orchestrator is the only place slot conflicts are
	// retried.
	MaxAttempts int
	// AutoConfirm controls whether a successful reservation is
	// confirmed immediately or left held for an external step.
	AutoConfirm bool

	logger *zap.Logger
}

// NewOrchestrator wires the booking pipeline.
func NewOrchestrator(finder *SlotFinder, manager *BookingManager, maxAttempts int, autoConfirm bool, logger *zap.Logger) *Orchestrator {
	if maxAttempts <= 0 {
		maxAttempts = 5
	}
	return &Orchestrator{
		Finder:      finder,
		Manager:     manager,
		MaxAttempts: maxAttempts,
		AutoConfirm: autoConfirm,
		logger:      logger,
	}
}

// BookAppointment finds and reserves the earliest bookable slot for
// the patient within [fromDate, toDate]. On a lost race it moves to
// the next candidate, up to MaxAttempts, before failing with
// ErrNoAvailability.
func (o *Orchestrator) BookAppointment(ctx context.Context, doctorID, patientID string, patientType models.PatientType, fromDate, toDate string) (*models.Booking, error) {
	duration := patientType.Duration()

	candidates, err := o.Finder.FindSlots(ctx, doctorID, fromDate, toDate, duration)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, ErrNoAvailability
	}

	attempts := 0
	for _, cand := range candidates {
		if attempts >= o.MaxAttempts {
			break
		}
		attempts++

		booking, err := o.Manager.Reserve(ctx, doctorID, patientID, cand.Date, cand.Start, duration)
		if errors.Is(err, ErrSlotConflict) {
			o.logger.Debug("lost slot race, trying next candidate",
				zap.String("doctorID", doctorID),
				zap.String("date", cand.Date),
				zap.String("slot", cand.Label))
			continue
		}
		if err != nil {
			return nil, err
		}

		if o.AutoConfirm {
			confirmed, err := o.Manager.Confirm(ctx, booking.ID)
			if err != nil {
				return nil, err
			}
			return confirmed, nil
		}
		return booking, nil
	}

	return nil, ErrNoAvailability
}
