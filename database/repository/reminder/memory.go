// File: database/repository/reminder/memory.go
package reminderRepo

import (
	"context"
	"sync"

	"clinicflow/models"
)

// InMemoryReminderRepo is a map-backed ReminderRepository for tests.
type InMemoryReminderRepo struct {
	mu    sync.RWMutex
	plans map[string]models.ReminderPlan // bookingID -> plan
}

// NewInMemoryReminderRepo constructs an empty in-memory store.
func NewInMemoryReminderRepo() *InMemoryReminderRepo {
	return &InMemoryReminderRepo{plans: make(map[string]models.ReminderPlan)}
}

func (r *InMemoryReminderRepo) CreatePlan(_ context.Context, plan *models.ReminderPlan) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.plans[plan.BookingID]; ok {
		return ErrPlanExists
	}
	r.plans[plan.BookingID] = clonePlan(plan)
	return nil
}

func (r *InMemoryReminderRepo) GetPlan(_ context.Context, bookingID string) (*models.ReminderPlan, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	plan, ok := r.plans[bookingID]
	if !ok {
		return nil, ErrPlanNotFound
	}
	out := clonePlan(&plan)
	return &out, nil
}

func (r *InMemoryReminderRepo) ActivePlans(_ context.Context) ([]models.ReminderPlan, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []models.ReminderPlan
	for _, plan := range r.plans {
		if plan.Active {
			out = append(out, clonePlan(&plan))
		}
	}
	return out, nil
}

func (r *InMemoryReminderRepo) SavePlan(_ context.Context, plan *models.ReminderPlan) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.plans[plan.BookingID] = clonePlan(plan)
	return nil
}

// clonePlan deep-copies the task slice so callers never share state
// with the store.
func clonePlan(p *models.ReminderPlan) models.ReminderPlan {
	out := *p
	out.Tasks = make([]models.ReminderTask, len(p.Tasks))
	copy(out.Tasks, p.Tasks)
	return out
}
