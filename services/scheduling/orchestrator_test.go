package scheduling

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	calendarRepo "clinicflow/database/repository/calendar"
	"clinicflow/models"
)

// racingCalendarRepo simulates losing a slot race: after the slot
// finder's read, a competing booking lands on the first candidate
// right before the manager re-validates.
type racingCalendarRepo struct {
	*calendarRepo.InMemoryCalendarRepo

	calls    int64
	competer models.Booking
	injected int64
}

func (r *racingCalendarRepo) ActiveBookings(ctx context.Context, doctorID, date string) ([]models.Booking, error) {
	// First call belongs to the finder; inject before the second, which
	// is the manager's first conflict check.
	if atomic.AddInt64(&r.calls, 1) == 2 && atomic.CompareAndSwapInt64(&r.injected, 0, 1) {
		if err := r.InMemoryCalendarRepo.InsertBooking(ctx, &r.competer); err != nil {
			return nil, err
		}
	}
	return r.InMemoryCalendarRepo.ActiveBookings(ctx, doctorID, date)
}

func newTestOrchestrator(t *testing.T, repo calendarRepo.CalendarRepository, maxAttempts int, autoConfirm bool) *Orchestrator {
	t.Helper()
	clock := fixedClock(time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC))
	finder := NewSlotFinder(repo, 15).WithNow(clock)
	manager := NewBookingManager(repo, zap.NewNop()).WithNow(clock)
	manager.SetReminderPlanner(&recordingPlanner{})
	return NewOrchestrator(finder, manager, maxAttempts, autoConfirm, zap.NewNop())
}

func TestBookAppointmentTakesEarliestSlot(t *testing.T) {
	repo := calendarRepo.NewInMemoryCalendarRepo()
	seedWindows(t, repo, "doc-1", []models.WorkingWindow{
		{Date: "2025-06-10", Start: 540, End: 720},
	})
	orch := newTestOrchestrator(t, repo, 5, true)

	booking, err := orch.BookAppointment(context.Background(), "doc-1", "pat-1", models.PatientTypeReturning, "2025-06-10", "2025-06-10")
	require.NoError(t, err)
	assert.Equal(t, 540, booking.Start)
	assert.Equal(t, 570, booking.End)
	assert.Equal(t, models.BookingStatusConfirmed, booking.Status)
}

func TestBookAppointmentNewPatientGetsHour(t *testing.T) {
	repo := calendarRepo.NewInMemoryCalendarRepo()
	seedWindows(t, repo, "doc-1", []models.WorkingWindow{
		{Date: "2025-06-10", Start: 540, End: 720},
	})
	orch := newTestOrchestrator(t, repo, 5, true)

	booking, err := orch.BookAppointment(context.Background(), "doc-1", "pat-1", models.PatientTypeNew, "2025-06-10", "2025-06-10")
	require.NoError(t, err)
	assert.Equal(t, 60, booking.End-booking.Start)
}

func TestBookAppointmentRetriesAfterLostRace(t *testing.T) {
	inner := calendarRepo.NewInMemoryCalendarRepo()
	seedWindows(t, inner, "doc-1", []models.WorkingWindow{
		{Date: "2025-06-10", Start: 540, End: 720},
	})
	repo := &racingCalendarRepo{
		InMemoryCalendarRepo: inner,
		competer: models.Booking{
			ID: "rival", DoctorID: "doc-1", Date: "2025-06-10",
			Start: 540, End: 570, Status: models.BookingStatusConfirmed,
		},
	}
	orch := newTestOrchestrator(t, repo, 5, true)

	booking, err := orch.BookAppointment(context.Background(), "doc-1", "pat-1", models.PatientTypeReturning, "2025-06-10", "2025-06-10")
	require.NoError(t, err)

	// The rival took 09:00-09:30; the first candidate clear of it won.
	assert.Equal(t, 570, booking.Start)
}

func TestBookAppointmentBoundedRetries(t *testing.T) {
	inner := calendarRepo.NewInMemoryCalendarRepo()
	seedWindows(t, inner, "doc-1", []models.WorkingWindow{
		{Date: "2025-06-10", Start: 540, End: 570}, // room for exactly one
	})
	repo := &racingCalendarRepo{
		InMemoryCalendarRepo: inner,
		competer: models.Booking{
			ID: "rival", DoctorID: "doc-1", Date: "2025-06-10",
			Start: 540, End: 570, Status: models.BookingStatusConfirmed,
		},
	}
	orch := newTestOrchestrator(t, repo, 1, true)

	_, err := orch.BookAppointment(context.Background(), "doc-1", "pat-1", models.PatientTypeReturning, "2025-06-10", "2025-06-10")
	assert.ErrorIs(t, err, ErrNoAvailability)
}

func TestBookAppointmentNoAvailability(t *testing.T) {
	repo := calendarRepo.NewInMemoryCalendarRepo()
	orch := newTestOrchestrator(t, repo, 5, true)

	_, err := orch.BookAppointment(context.Background(), "doc-1", "pat-1", models.PatientTypeReturning, "2025-06-10", "2025-06-10")
	assert.ErrorIs(t, err, ErrNoAvailability)
}

func TestBookAppointmentHoldWithoutAutoConfirm(t *testing.T) {
	repo := calendarRepo.NewInMemoryCalendarRepo()
	seedWindows(t, repo, "doc-1", []models.WorkingWindow{
		{Date: "2025-06-10", Start: 540, End: 720},
	})
	orch := newTestOrchestrator(t, repo, 5, false)

	booking, err := orch.BookAppointment(context.Background(), "doc-1", "pat-1", models.PatientTypeReturning, "2025-06-10", "2025-06-10")
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusHeld, booking.Status)
}
