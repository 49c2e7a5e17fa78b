package report

import (
	"context"

	calendarRepo "clinicflow/database/repository/calendar"
	"clinicflow/models"
)

// Service hands finalized bookings to the export/report collaborator
// as a stable read-only view.
type Service struct {
	Calendar calendarRepo.CalendarRepository
}

// NewService constructs the report view.
func NewService(calendar calendarRepo.CalendarRepository) *Service {
	return &Service{Calendar: calendar}
}

// FinalizedBookings returns confirmed and cancelled bookings for
// offline reporting.
func (s *Service) FinalizedBookings(ctx context.Context) ([]models.BookingView, error) {
	bookings, err := s.Calendar.BookingsByStatus(ctx, []string{
		models.BookingStatusConfirmed,
		models.BookingStatusCancelled,
	})
	if err != nil {
		return nil, err
	}

	views := make([]models.BookingView, 0, len(bookings))
	for _, b := range bookings {
		views = append(views, models.BookingView{
			ID:        b.ID,
			DoctorID:  b.DoctorID,
			PatientID: b.PatientID,
			Date:      b.Date,
			Start:     models.MinutesToClock(b.Start),
			End:       models.MinutesToClock(b.End),
			Duration:  b.End - b.Start,
			Status:    b.Status,
			CreatedAt: b.CreatedAt,
		})
	}
	return views, nil
}
