package scheduling

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	calendarRepo "clinicflow/database/repository/calendar"
	"clinicflow/models"
)

// ReminderPlanner is the hook into the reminder engine: plans are
// created when a booking is confirmed and retired when it is
// cancelled. Implemented by the reminder scheduler.
type ReminderPlanner interface {
	PlanReminders(ctx context.Context, booking *models.Booking) error
	RetirePlan(ctx context.Context, bookingID string) error
}

// BookingManager owns the invariant that no two non-cancelled bookings
// for the same doctor overlap. All mutation of a doctor's booking set
// runs inside that doctor's exclusive section, so concurrent
// reservations for the same doctor serialize while different doctors
// proceed independently.
type BookingManager struct {
	Repo calendarRepo.CalendarRepository

	planner ReminderPlanner
	logger  *zap.Logger
	nowFn   func() time.Time

	mu    sync.Mutex
	locks map[string]*sync.Mutex // doctorID -> exclusive section
}

// NewBookingManager constructs a manager over the calendar store.
func NewBookingManager(repo calendarRepo.CalendarRepository, logger *zap.Logger) *BookingManager {
	return &BookingManager{
		Repo:   repo,
		logger: logger,
		nowFn:  time.Now,
		locks:  make(map[string]*sync.Mutex),
	}
}

// SetReminderPlanner wires the reminder engine in after construction;
// the two components reference each other.
func (m *BookingManager) SetReminderPlanner(p ReminderPlanner) {
	m.planner = p
}

// WithNow overrides the manager's clock. Test hook.
func (m *BookingManager) WithNow(nowFn func() time.Time) *BookingManager {
	m.nowFn = nowFn
	return m
}

// doctorLock returns the exclusive section for one doctor.
func (m *BookingManager) doctorLock(doctorID string) *sync.Mutex {
	m.mu.Lock()
	defer m.mu.Unlock()

	lock, ok := m.locks[doctorID]
	if !ok {
		lock = &sync.Mutex{}
		m.locks[doctorID] = lock
	}
	return lock
}

// Reserve atomically creates a held booking for [start, start+duration)
// on date, re-validating against the live store: either the booking is
// created with no overlap, or the call fails with ErrSlotConflict and
// no state changes. It never waits for a slot to free up.
func (m *BookingManager) Reserve(ctx context.Context, doctorID, patientID, date string, start, durationMinutes int) (*models.Booking, error) {
	if durationMinutes <= 0 {
		return nil, fmt.Errorf("invalid duration %d", durationMinutes)
	}
	end := start + durationMinutes

	lock := m.doctorLock(doctorID)
	lock.Lock()
	defer lock.Unlock()

	if err := m.checkInterval(ctx, doctorID, date, start, end); err != nil {
		return nil, err
	}

	booking := &models.Booking{
		ID:        uuid.New().String(),
		DoctorID:  doctorID,
		PatientID: patientID,
		Date:      date,
		Start:     start,
		End:       end,
		Status:    models.BookingStatusHeld,
		CreatedAt: m.nowFn().UTC(),
	}
	if err := m.Repo.InsertBooking(ctx, booking); err != nil {
		return nil, fmt.Errorf("failed to persist booking: %w", err)
	}

	m.logger.Info("slot reserved",
		zap.String("bookingID", booking.ID),
		zap.String("doctorID", doctorID),
		zap.String("date", date),
		zap.String("slot", models.SlotLabel(start, end)))
	return booking, nil
}

// checkInterval validates that [start, end) sits inside a working
// window and does not overlap a live booking. Caller must hold the
// doctor's lock.
func (m *BookingManager) checkInterval(ctx context.Context, doctorID, date string, start, end int) error {
	windows, err := m.Repo.WorkingWindows(ctx, doctorID, date, date)
	if err != nil {
		return fmt.Errorf("failed to load working windows: %w", err)
	}
	inWindow := false
	for _, w := range windows {
		if start >= w.Start && end <= w.End {
			inWindow = true
			break
		}
	}
	if !inWindow {
		return ErrOutsideWorkingHours
	}

	bookings, err := m.Repo.ActiveBookings(ctx, doctorID, date)
	if err != nil {
		return fmt.Errorf("failed to load bookings: %w", err)
	}
	for _, b := range bookings {
		if start < b.End && b.Start < end {
			return ErrSlotConflict
		}
	}
	return nil
}

// Confirm transitions a held booking to confirmed and creates its
// reminder plan. Any other starting status is an invalid transition.
func (m *BookingManager) Confirm(ctx context.Context, bookingID string) (*models.Booking, error) {
	booking, err := m.Repo.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	lock := m.doctorLock(booking.DoctorID)
	lock.Lock()
	defer lock.Unlock()

	// Re-read under the lock; a concurrent cancel may have won.
	booking, err = m.Repo.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.Status != models.BookingStatusHeld {
		return nil, fmt.Errorf("%w: cannot confirm %s booking %s", ErrInvalidTransition, booking.Status, bookingID)
	}

	if err := m.Repo.UpdateBookingStatus(ctx, bookingID, models.BookingStatusConfirmed); err != nil {
		return nil, err
	}
	booking.Status = models.BookingStatusConfirmed

	if m.planner != nil {
		if err := m.planner.PlanReminders(ctx, booking); err != nil {
			m.logger.Error("failed to plan reminders",
				zap.String("bookingID", bookingID), zap.Error(err))
		}
	}

	m.logger.Info("booking confirmed", zap.String("bookingID", bookingID))
	return booking, nil
}

// Cancel transitions any non-terminal booking to cancelled, freeing
// its interval and retiring its reminder plan. Cancelling an already
// cancelled booking is an invalid transition.
func (m *BookingManager) Cancel(ctx context.Context, bookingID string) error {
	booking, err := m.Repo.GetBooking(ctx, bookingID)
	if err != nil {
		return err
	}

	lock := m.doctorLock(booking.DoctorID)
	lock.Lock()

	booking, err = m.Repo.GetBooking(ctx, bookingID)
	if err != nil {
		lock.Unlock()
		return err
	}
	if booking.Status == models.BookingStatusCancelled {
		lock.Unlock()
		return fmt.Errorf("%w: booking %s already cancelled", ErrInvalidTransition, bookingID)
	}
	if err := m.Repo.UpdateBookingStatus(ctx, bookingID, models.BookingStatusCancelled); err != nil {
		lock.Unlock()
		return err
	}
	lock.Unlock()

	// Retire outside the exclusive section; the reminder tick also
	// re-reads booking status, so a lost retire still converges.
	if m.planner != nil {
		if err := m.planner.RetirePlan(ctx, bookingID); err != nil {
			m.logger.Error("failed to retire reminder plan",
				zap.String("bookingID", bookingID), zap.Error(err))
		}
	}

	m.logger.Info("booking cancelled", zap.String("bookingID", bookingID))
	return nil
}

// Reschedule moves a booking to a new start, keeping its duration and
// status: cancel-then-reserve with rollback. If the new interval is
// not free, the original booking is restored unchanged — there is no
// window where the patient holds no booking because a reschedule
// failed.
func (m *BookingManager) Reschedule(ctx context.Context, bookingID, newDate string, newStart int) (*models.Booking, error) {
	orig, err := m.Repo.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if orig.Status == models.BookingStatusCancelled {
		return nil, fmt.Errorf("%w: cannot reschedule cancelled booking %s", ErrInvalidTransition, bookingID)
	}
	duration := orig.End - orig.Start
	newEnd := newStart + duration

	lock := m.doctorLock(orig.DoctorID)
	lock.Lock()

	origStatus := orig.Status
	if err := m.Repo.UpdateBookingStatus(ctx, bookingID, models.BookingStatusCancelled); err != nil {
		lock.Unlock()
		return nil, err
	}

	if err := m.checkInterval(ctx, orig.DoctorID, newDate, newStart, newEnd); err != nil {
		// Rollback: restore the original booking unchanged.
		if restoreErr := m.Repo.UpdateBookingStatus(ctx, bookingID, origStatus); restoreErr != nil {
			m.logger.Error("failed to restore booking after reschedule conflict",
				zap.String("bookingID", bookingID), zap.Error(restoreErr))
		}
		lock.Unlock()
		return nil, err
	}

	moved := &models.Booking{
		ID:        uuid.New().String(),
		DoctorID:  orig.DoctorID,
		PatientID: orig.PatientID,
		Date:      newDate,
		Start:     newStart,
		End:       newEnd,
		Status:    origStatus,
		CreatedAt: m.nowFn().UTC(),
	}
	if err := m.Repo.InsertBooking(ctx, moved); err != nil {
		if restoreErr := m.Repo.UpdateBookingStatus(ctx, bookingID, origStatus); restoreErr != nil {
			m.logger.Error("failed to restore booking after insert failure",
				zap.String("bookingID", bookingID), zap.Error(restoreErr))
		}
		lock.Unlock()
		return nil, fmt.Errorf("failed to persist rescheduled booking: %w", err)
	}
	lock.Unlock()

	if m.planner != nil && origStatus == models.BookingStatusConfirmed {
		if err := m.planner.RetirePlan(ctx, bookingID); err != nil {
			m.logger.Error("failed to retire reminder plan",
				zap.String("bookingID", bookingID), zap.Error(err))
		}
		if err := m.planner.PlanReminders(ctx, moved); err != nil {
			m.logger.Error("failed to plan reminders for rescheduled booking",
				zap.String("bookingID", moved.ID), zap.Error(err))
		}
	}

	m.logger.Info("booking rescheduled",
		zap.String("from", bookingID),
		zap.String("to", moved.ID),
		zap.String("date", newDate),
		zap.String("slot", models.SlotLabel(newStart, newEnd)))
	return moved, nil
}
