package scheduling

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	calendarRepo "clinicflow/database/repository/calendar"
	"clinicflow/models"
)

// recordingPlanner captures planner calls from the booking manager.
type recordingPlanner struct {
	mu      sync.Mutex
	planned []string
	retired []string
}

func (p *recordingPlanner) PlanReminders(_ context.Context, booking *models.Booking) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.planned = append(p.planned, booking.ID)
	return nil
}

func (p *recordingPlanner) RetirePlan(_ context.Context, bookingID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.retired = append(p.retired, bookingID)
	return nil
}

func newTestManager(t *testing.T) (*BookingManager, *calendarRepo.InMemoryCalendarRepo, *recordingPlanner) {
	t.Helper()
	repo := calendarRepo.NewInMemoryCalendarRepo()
	seedWindows(t, repo, "doc-1", []models.WorkingWindow{
		{Date: "2025-06-10", Start: 540, End: 720}, // 09:00-12:00
	})
	planner := &recordingPlanner{}
	manager := NewBookingManager(repo, zap.NewNop()).
		WithNow(fixedClock(time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)))
	manager.SetReminderPlanner(planner)
	return manager, repo, planner
}

func TestReserveCreatesHeldBooking(t *testing.T) {
	manager, repo, _ := newTestManager(t)
	ctx := context.Background()

	booking, err := manager.Reserve(ctx, "doc-1", "pat-1", "2025-06-10", 540, 30)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusHeld, booking.Status)
	assert.Equal(t, 570, booking.End)

	stored, err := repo.GetBooking(ctx, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusHeld, stored.Status)
}

func TestReserveRejectsOverlap(t *testing.T) {
	manager, _, _ := newTestManager(t)
	ctx := context.Background()

	_, err := manager.Reserve(ctx, "doc-1", "pat-1", "2025-06-10", 540, 30)
	require.NoError(t, err)

	tests := []struct {
		name  string
		start int
	}{
		{"identical interval", 540},
		{"straddles the start", 525},
		{"starts inside", 555},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := manager.Reserve(ctx, "doc-1", "pat-2", "2025-06-10", tt.start, 30)
			assert.ErrorIs(t, err, ErrSlotConflict)
		})
	}

	// Back to back is fine: intervals are end-exclusive.
	_, err = manager.Reserve(ctx, "doc-1", "pat-2", "2025-06-10", 570, 30)
	assert.NoError(t, err)
}

func TestReserveRejectsOutsideWorkingHours(t *testing.T) {
	manager, _, _ := newTestManager(t)

	_, err := manager.Reserve(context.Background(), "doc-1", "pat-1", "2025-06-10", 700, 30)
	assert.ErrorIs(t, err, ErrOutsideWorkingHours)

	_, err = manager.Reserve(context.Background(), "doc-1", "pat-1", "2025-06-11", 540, 30)
	assert.ErrorIs(t, err, ErrOutsideWorkingHours)
}

func TestReserveConcurrentSameSlotExactlyOneWins(t *testing.T) {
	manager, _, _ := newTestManager(t)
	ctx := context.Background()

	const racers = 16
	var wins, conflicts int64
	var wg sync.WaitGroup
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := manager.Reserve(ctx, "doc-1", "pat", "2025-06-10", 540, 30)
			if err == nil {
				atomic.AddInt64(&wins, 1)
			} else if errors.Is(err, ErrSlotConflict) {
				atomic.AddInt64(&conflicts, 1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(1), wins)
	assert.Equal(t, int64(racers-1), conflicts)
}

func TestConfirmTransitionsAndPlansReminders(t *testing.T) {
	manager, _, planner := newTestManager(t)
	ctx := context.Background()

	booking, err := manager.Reserve(ctx, "doc-1", "pat-1", "2025-06-10", 540, 30)
	require.NoError(t, err)

	confirmed, err := manager.Confirm(ctx, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusConfirmed, confirmed.Status)
	assert.Equal(t, []string{booking.ID}, planner.planned)

	// Confirm is held-only.
	_, err = manager.Confirm(ctx, booking.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestCancelFreesIntervalAndRetiresPlan(t *testing.T) {
	manager, _, planner := newTestManager(t)
	ctx := context.Background()

	booking, err := manager.Reserve(ctx, "doc-1", "pat-1", "2025-06-10", 540, 30)
	require.NoError(t, err)
	require.NoError(t, manager.Cancel(ctx, booking.ID))
	assert.Equal(t, []string{booking.ID}, planner.retired)

	// The interval is free again.
	_, err = manager.Reserve(ctx, "doc-1", "pat-2", "2025-06-10", 540, 30)
	assert.NoError(t, err)

	// Double cancel is an invalid transition.
	err = manager.Cancel(ctx, booking.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestCancelUnknownBooking(t *testing.T) {
	manager, _, _ := newTestManager(t)
	err := manager.Cancel(context.Background(), "missing")
	assert.ErrorIs(t, err, calendarRepo.ErrBookingNotFound)
}

func TestRescheduleMovesBooking(t *testing.T) {
	manager, repo, planner := newTestManager(t)
	ctx := context.Background()

	booking, err := manager.Reserve(ctx, "doc-1", "pat-1", "2025-06-10", 540, 30)
	require.NoError(t, err)
	confirmed, err := manager.Confirm(ctx, booking.ID)
	require.NoError(t, err)

	moved, err := manager.Reschedule(ctx, confirmed.ID, "2025-06-10", 600)
	require.NoError(t, err)
	assert.NotEqual(t, confirmed.ID, moved.ID)
	assert.Equal(t, models.BookingStatusConfirmed, moved.Status)
	assert.Equal(t, 600, moved.Start)
	assert.Equal(t, 630, moved.End)

	orig, err := repo.GetBooking(ctx, confirmed.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusCancelled, orig.Status)

	// The confirmed booking's plan moves with it.
	assert.Contains(t, planner.retired, confirmed.ID)
	assert.Contains(t, planner.planned, moved.ID)
}

func TestRescheduleConflictRollsBack(t *testing.T) {
	manager, repo, _ := newTestManager(t)
	ctx := context.Background()

	booking, err := manager.Reserve(ctx, "doc-1", "pat-1", "2025-06-10", 540, 30)
	require.NoError(t, err)
	confirmed, err := manager.Confirm(ctx, booking.ID)
	require.NoError(t, err)

	blocker, err := manager.Reserve(ctx, "doc-1", "pat-2", "2025-06-10", 600, 30)
	require.NoError(t, err)

	_, err = manager.Reschedule(ctx, confirmed.ID, "2025-06-10", 600)
	assert.ErrorIs(t, err, ErrSlotConflict)

	// The original booking survives untouched.
	orig, err := repo.GetBooking(ctx, confirmed.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusConfirmed, orig.Status)
	assert.Equal(t, 540, orig.Start)

	_, err = repo.GetBooking(ctx, blocker.ID)
	assert.NoError(t, err)
}

func TestRescheduleCancelledBooking(t *testing.T) {
	manager, _, _ := newTestManager(t)
	ctx := context.Background()

	booking, err := manager.Reserve(ctx, "doc-1", "pat-1", "2025-06-10", 540, 30)
	require.NoError(t, err)
	require.NoError(t, manager.Cancel(ctx, booking.ID))

	_, err = manager.Reschedule(ctx, booking.ID, "2025-06-10", 600)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}
