package models

import "fmt"

// SlotCandidate is a bookable interval produced by the slot finder.
// Derived and ephemeral: it is never persisted, and the authoritative
// conflict check happens again at reservation time.
type SlotCandidate struct {
	DoctorID string `json:"doctorId"`
	Date     string `json:"date"`
	Start    int    `json:"start"`
	End      int    `json:"end"`
	Label    string `json:"label"` // e.g. "09:00 - 09:30"
}

// MinutesToClock renders minutes from midnight as "HH:MM".
func MinutesToClock(mins int) string {
	return fmt.Sprintf("%02d:%02d", mins/60, mins%60)
}

// SlotLabel builds the display label for an interval.
func SlotLabel(start, end int) string {
	return MinutesToClock(start) + " - " + MinutesToClock(end)
}
