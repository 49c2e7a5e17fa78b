package scheduling

import (
	"context"
	"fmt"
	"sort"
	"time"

	calendarRepo "clinicflow/database/repository/calendar"
	"clinicflow/models"
)

// SlotFinder computes bookable slots from a doctor's working calendar
// and existing bookings. Pure read: it never mutates the store, and
// its output is advisory — the booking manager re-validates at
// reservation time.
type SlotFinder struct {
	Repo        calendarRepo.CalendarRepository
	Granularity int // step between candidate starts, in minutes

	// nowFn is the clock, injectable in tests.
	nowFn func() time.Time
}

// NewSlotFinder constructs a finder stepping at the given granularity.
func NewSlotFinder(repo calendarRepo.CalendarRepository, granularityMinutes int) *SlotFinder {
	if granularityMinutes <= 0 {
		granularityMinutes = 15
	}
	return &SlotFinder{
		Repo:        repo,
		Granularity: granularityMinutes,
		nowFn:       time.Now,
	}
}

// WithNow overrides the finder's clock. Test hook.
func (f *SlotFinder) WithNow(nowFn func() time.Time) *SlotFinder {
	f.nowFn = nowFn
	return f
}

// interval is a half-open [start, end) range in minutes from midnight.
type interval struct {
	start, end int
}

// FindSlots returns every duration-length slot that fits inside the
// doctor's working windows on dates in [fromDate, toDate] without
// overlapping an existing non-cancelled booking, in chronological
// order. Same-day candidates starting before now are excluded.
func (f *SlotFinder) FindSlots(ctx context.Context, doctorID, fromDate, toDate string, durationMinutes int) ([]models.SlotCandidate, error) {
	if durationMinutes <= 0 {
		return nil, fmt.Errorf("invalid duration %d", durationMinutes)
	}

	windows, err := f.Repo.WorkingWindows(ctx, doctorID, fromDate, toDate)
	if err != nil {
		return nil, fmt.Errorf("failed to load working windows: %w", err)
	}
	if len(windows) == 0 {
		return nil, nil
	}

	now := f.nowFn().UTC()
	today := now.Format("2006-01-02")
	nowMinutes := now.Hour()*60 + now.Minute()

	// Busy intervals are loaded once per date.
	busyByDate := make(map[string][]interval)

	var candidates []models.SlotCandidate
	for _, w := range windows {
		if w.Date < today {
			continue
		}

		busy, ok := busyByDate[w.Date]
		if !ok {
			bookings, err := f.Repo.ActiveBookings(ctx, doctorID, w.Date)
			if err != nil {
				return nil, fmt.Errorf("failed to load bookings for %s: %w", w.Date, err)
			}
			busy = mergeBusy(bookings)
			busyByDate[w.Date] = busy
		}

		for _, free := range subtractBusy(interval{w.Start, w.End}, busy) {
			for start := free.start; start+durationMinutes <= free.end; start += f.Granularity {
				if w.Date == today && start < nowMinutes {
					continue
				}
				candidates = append(candidates, models.SlotCandidate{
					DoctorID: doctorID,
					Date:     w.Date,
					Start:    start,
					End:      start + durationMinutes,
					Label:    models.SlotLabel(start, start+durationMinutes),
				})
			}
		}
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Date == candidates[j].Date {
			return candidates[i].Start < candidates[j].Start
		}
		return candidates[i].Date < candidates[j].Date
	})
	return candidates, nil
}

// mergeBusy collapses the bookings into sorted, non-overlapping busy
// intervals.
func mergeBusy(bookings []models.Booking) []interval {
	if len(bookings) == 0 {
		return nil
	}
	busy := make([]interval, 0, len(bookings))
	for _, b := range bookings {
		busy = append(busy, interval{b.Start, b.End})
	}
	sort.Slice(busy, func(i, j int) bool { return busy[i].start < busy[j].start })

	merged := busy[:1]
	for _, iv := range busy[1:] {
		last := &merged[len(merged)-1]
		if iv.start <= last.end {
			if iv.end > last.end {
				last.end = iv.end
			}
			continue
		}
		merged = append(merged, iv)
	}
	return merged
}

// subtractBusy returns the free sub-intervals of window after removing
// the merged busy intervals.
func subtractBusy(window interval, busy []interval) []interval {
	var free []interval
	cursor := window.start
	for _, iv := range busy {
		if iv.end <= window.start || iv.start >= window.end {
			continue
		}
		if iv.start > cursor {
			free = append(free, interval{cursor, min(iv.start, window.end)})
		}
		if iv.end > cursor {
			cursor = iv.end
		}
	}
	if cursor < window.end {
		free = append(free, interval{cursor, window.end})
	}
	return free
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
