// File: database/repository/calendar/memory.go
package calendarRepo

import (
	"context"
	"errors"
	"sort"
	"sync"

	"clinicflow/models"
)

// ErrBookingNotFound is returned when a booking ID does not exist.
var ErrBookingNotFound = errors.New("booking not found")

// InMemoryCalendarRepo is a map-backed CalendarRepository used in tests
// and local runs without Mongo.
type InMemoryCalendarRepo struct {
	mu       sync.RWMutex
	windows  map[string][]models.WorkingWindow // doctorID -> windows
	bookings map[string]models.Booking         // bookingID -> booking
}

// NewInMemoryCalendarRepo constructs an empty in-memory store.
func NewInMemoryCalendarRepo() *InMemoryCalendarRepo {
	return &InMemoryCalendarRepo{
		windows:  make(map[string][]models.WorkingWindow),
		bookings: make(map[string]models.Booking),
	}
}

func (r *InMemoryCalendarRepo) ReplaceWorkingWindows(_ context.Context, doctorID string, windows []models.WorkingWindow) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	copied := make([]models.WorkingWindow, len(windows))
	for i, w := range windows {
		w.DoctorID = doctorID
		copied[i] = w
	}
	r.windows[doctorID] = copied
	return nil
}

func (r *InMemoryCalendarRepo) WorkingWindows(_ context.Context, doctorID, fromDate, toDate string) ([]models.WorkingWindow, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []models.WorkingWindow
	for _, w := range r.windows[doctorID] {
		if w.Date >= fromDate && w.Date <= toDate {
			out = append(out, w)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date == out[j].Date {
			return out[i].Start < out[j].Start
		}
		return out[i].Date < out[j].Date
	})
	return out, nil
}

func (r *InMemoryCalendarRepo) ActiveBookings(_ context.Context, doctorID, date string) ([]models.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []models.Booking
	for _, b := range r.bookings {
		if b.DoctorID == doctorID && b.Date == date && b.Active() {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start < out[j].Start })
	return out, nil
}

func (r *InMemoryCalendarRepo) InsertBooking(_ context.Context, booking *models.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.bookings[booking.ID] = *booking
	return nil
}

func (r *InMemoryCalendarRepo) GetBooking(_ context.Context, bookingID string) (*models.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.bookings[bookingID]
	if !ok {
		return nil, ErrBookingNotFound
	}
	return &b, nil
}

func (r *InMemoryCalendarRepo) UpdateBookingStatus(_ context.Context, bookingID, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.bookings[bookingID]
	if !ok {
		return ErrBookingNotFound
	}
	b.Status = status
	r.bookings[bookingID] = b
	return nil
}

func (r *InMemoryCalendarRepo) BookingsByStatus(_ context.Context, statuses []string) ([]models.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	wanted := make(map[string]bool, len(statuses))
	for _, s := range statuses {
		wanted[s] = true
	}
	var out []models.Booking
	for _, b := range r.bookings {
		if wanted[b.Status] {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date == out[j].Date {
			return out[i].Start < out[j].Start
		}
		return out[i].Date < out[j].Date
	})
	return out, nil
}
