// File: database/repository/reminder/interface.go
package reminderRepo

import (
	"context"
	"errors"

	"clinicflow/models"
)

// ErrPlanExists guards the exactly-once plan creation at confirmation.
var ErrPlanExists = errors.New("reminder plan already exists")

// ErrPlanNotFound is returned when no plan exists for a booking.
var ErrPlanNotFound = errors.New("reminder plan not found")

// ReminderRepository persists reminder plans so that due tasks can be
// recomputed from stored fireAt/state after a restart.
type ReminderRepository interface {
	// CreatePlan stores a new plan; fails with ErrPlanExists if the
	// booking already has one.
	CreatePlan(ctx context.Context, plan *models.ReminderPlan) error
	GetPlan(ctx context.Context, bookingID string) (*models.ReminderPlan, error)
	// ActivePlans returns every plan still being evaluated by the tick.
	ActivePlans(ctx context.Context) ([]models.ReminderPlan, error)
	// SavePlan overwrites the stored plan.
	SavePlan(ctx context.Context, plan *models.ReminderPlan) error
}
