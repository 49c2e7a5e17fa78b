package scheduling

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	calendarRepo "clinicflow/database/repository/calendar"
	"clinicflow/models"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// seedWindows loads one doctor's working windows into a fresh store.
func seedWindows(t *testing.T, repo *calendarRepo.InMemoryCalendarRepo, doctorID string, windows []models.WorkingWindow) {
	t.Helper()
	require.NoError(t, repo.ReplaceWorkingWindows(context.Background(), doctorID, windows))
}

func TestFindSlotsStepsAtGranularity(t *testing.T) {
	repo := calendarRepo.NewInMemoryCalendarRepo()
	seedWindows(t, repo, "doc-1", []models.WorkingWindow{
		{Date: "2025-06-10", Start: 540, End: 600}, // 09:00-10:00
	})

	finder := NewSlotFinder(repo, 15).WithNow(fixedClock(time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)))

	slots, err := finder.FindSlots(context.Background(), "doc-1", "2025-06-10", "2025-06-10", 30)
	require.NoError(t, err)

	// A 30-minute appointment fits at 09:00, 09:15 and 09:30; a 09:45
	// start would spill past the end of the window.
	require.Len(t, slots, 3)
	assert.Equal(t, []int{540, 555, 570}, []int{slots[0].Start, slots[1].Start, slots[2].Start})
	assert.Equal(t, "09:00 - 09:30", slots[0].Label)
	assert.Equal(t, "09:30 - 10:00", slots[2].Label)
}

func TestFindSlotsExcludesBookedIntervals(t *testing.T) {
	ctx := context.Background()
	repo := calendarRepo.NewInMemoryCalendarRepo()
	seedWindows(t, repo, "doc-1", []models.WorkingWindow{
		{Date: "2025-06-10", Start: 540, End: 600},
	})
	require.NoError(t, repo.InsertBooking(ctx, &models.Booking{
		ID: "b1", DoctorID: "doc-1", Date: "2025-06-10",
		Start: 570, End: 600, Status: models.BookingStatusConfirmed,
	}))

	finder := NewSlotFinder(repo, 15).WithNow(fixedClock(time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)))

	slots, err := finder.FindSlots(ctx, "doc-1", "2025-06-10", "2025-06-10", 30)
	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.Equal(t, 540, slots[0].Start)
}

func TestFindSlotsCancelledBookingFreesInterval(t *testing.T) {
	ctx := context.Background()
	repo := calendarRepo.NewInMemoryCalendarRepo()
	seedWindows(t, repo, "doc-1", []models.WorkingWindow{
		{Date: "2025-06-10", Start: 540, End: 600},
	})
	require.NoError(t, repo.InsertBooking(ctx, &models.Booking{
		ID: "b1", DoctorID: "doc-1", Date: "2025-06-10",
		Start: 570, End: 600, Status: models.BookingStatusCancelled,
	}))

	finder := NewSlotFinder(repo, 15).WithNow(fixedClock(time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)))

	slots, err := finder.FindSlots(ctx, "doc-1", "2025-06-10", "2025-06-10", 30)
	require.NoError(t, err)
	assert.Len(t, slots, 3)
}

func TestFindSlotsSameDayExcludesPastStarts(t *testing.T) {
	repo := calendarRepo.NewInMemoryCalendarRepo()
	seedWindows(t, repo, "doc-1", []models.WorkingWindow{
		{Date: "2025-06-10", Start: 540, End: 600},
	})

	// 09:20 on the appointment day: 09:00 and 09:15 are in the past.
	finder := NewSlotFinder(repo, 15).WithNow(fixedClock(time.Date(2025, 6, 10, 9, 20, 0, 0, time.UTC)))

	slots, err := finder.FindSlots(context.Background(), "doc-1", "2025-06-10", "2025-06-10", 30)
	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.Equal(t, 570, slots[0].Start)
}

func TestFindSlotsDurationPolicy(t *testing.T) {
	tests := []struct {
		name       string
		duration   int
		wantStarts []int
	}{
		{"returning patient fits twice", 30, []int{540, 555, 570}},
		{"new patient needs the whole window", 60, []int{540}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := calendarRepo.NewInMemoryCalendarRepo()
			seedWindows(t, repo, "doc-1", []models.WorkingWindow{
				{Date: "2025-06-10", Start: 540, End: 600},
			})
			finder := NewSlotFinder(repo, 15).WithNow(fixedClock(time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)))

			slots, err := finder.FindSlots(context.Background(), "doc-1", "2025-06-10", "2025-06-10", tt.duration)
			require.NoError(t, err)

			starts := make([]int, len(slots))
			for i, s := range slots {
				starts[i] = s.Start
			}
			assert.Equal(t, tt.wantStarts, starts)
		})
	}
}

func TestFindSlotsChronologicalAcrossDates(t *testing.T) {
	repo := calendarRepo.NewInMemoryCalendarRepo()
	seedWindows(t, repo, "doc-1", []models.WorkingWindow{
		{Date: "2025-06-11", Start: 540, End: 570},
		{Date: "2025-06-10", Start: 840, End: 870}, // 14:00-14:30
	})
	finder := NewSlotFinder(repo, 15).WithNow(fixedClock(time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)))

	slots, err := finder.FindSlots(context.Background(), "doc-1", "2025-06-10", "2025-06-11", 30)
	require.NoError(t, err)
	require.Len(t, slots, 2)
	assert.Equal(t, "2025-06-10", slots[0].Date)
	assert.Equal(t, "2025-06-11", slots[1].Date)
}

func TestFindSlotsNoWindows(t *testing.T) {
	repo := calendarRepo.NewInMemoryCalendarRepo()
	finder := NewSlotFinder(repo, 15)

	slots, err := finder.FindSlots(context.Background(), "doc-1", "2025-06-10", "2025-06-10", 30)
	require.NoError(t, err)
	assert.Empty(t, slots)
}
