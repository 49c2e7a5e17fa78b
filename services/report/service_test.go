package report

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	calendarRepo "clinicflow/database/repository/calendar"
	"clinicflow/models"
)

func TestFinalizedBookingsExcludesHeld(t *testing.T) {
	ctx := context.Background()
	repo := calendarRepo.NewInMemoryCalendarRepo()
	for _, b := range []models.Booking{
		{ID: "b1", DoctorID: "doc-1", Date: "2025-06-10", Start: 540, End: 570, Status: models.BookingStatusConfirmed},
		{ID: "b2", DoctorID: "doc-1", Date: "2025-06-10", Start: 570, End: 600, Status: models.BookingStatusHeld},
		{ID: "b3", DoctorID: "doc-1", Date: "2025-06-10", Start: 600, End: 660, Status: models.BookingStatusCancelled},
	} {
		b := b
		require.NoError(t, repo.InsertBooking(ctx, &b))
	}

	views, err := NewService(repo).FinalizedBookings(ctx)
	require.NoError(t, err)
	require.Len(t, views, 2)

	assert.Equal(t, "b1", views[0].ID)
	assert.Equal(t, "09:00", views[0].Start)
	assert.Equal(t, "09:30", views[0].End)
	assert.Equal(t, 30, views[0].Duration)
	assert.Equal(t, "b3", views[1].ID)
	assert.Equal(t, 60, views[1].Duration)
}
