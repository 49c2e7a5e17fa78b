// File: database/repository/calendar/interface.go
package calendarRepo

import (
	"context"

	"clinicflow/models"
)

// CalendarRepository is the store behind the scheduling engine: each
// doctor's working windows plus the booking set. The slot finder only
// reads it; all mutation goes through the booking manager, which
// serializes the read-check-write sequence per doctor.
type CalendarRepository interface {
	// ReplaceWorkingWindows loads a doctor's calendar import, replacing
	// any previous windows for that doctor.
	ReplaceWorkingWindows(ctx context.Context, doctorID string, windows []models.WorkingWindow) error
	// WorkingWindows returns the doctor's windows with dates in
	// [fromDate, toDate], ordered by date then start.
	WorkingWindows(ctx context.Context, doctorID, fromDate, toDate string) ([]models.WorkingWindow, error)

	// ActiveBookings returns the doctor's non-cancelled bookings on a
	// date, ordered by start.
	ActiveBookings(ctx context.Context, doctorID, date string) ([]models.Booking, error)
	InsertBooking(ctx context.Context, booking *models.Booking) error
	GetBooking(ctx context.Context, bookingID string) (*models.Booking, error)
	UpdateBookingStatus(ctx context.Context, bookingID, status string) error
	// BookingsByStatus lists bookings in a status for reporting.
	BookingsByStatus(ctx context.Context, statuses []string) ([]models.Booking, error)
}
