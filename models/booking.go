package models

import "time"

// Booking statuses. A held booking still occupies its interval for
// conflict purposes; only cancelled frees it.
const (
	BookingStatusHeld      = "held"
	BookingStatusConfirmed = "confirmed"
	BookingStatusCancelled = "cancelled"
)

// Booking is an appointment reservation against a doctor's calendar.
// Start/End are minutes from midnight on Date; the interval is
// half-open [Start, End).
type Booking struct {
	ID        string    `bson:"id" json:"id"`
	DoctorID  string    `bson:"doctorId" json:"doctorId"`
	PatientID string    `bson:"patientId" json:"patientId"`
	Date      string    `bson:"date" json:"date"` // "2006-01-02"
	Start     int       `bson:"start" json:"start"`
	End       int       `bson:"end" json:"end"`
	Status    string    `bson:"status" json:"status"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

// Active reports whether the booking still occupies its interval.
func (b *Booking) Active() bool {
	return b.Status != BookingStatusCancelled
}

// StartAt returns the absolute appointment start instant in UTC.
func (b *Booking) StartAt() (time.Time, error) {
	day, err := time.Parse("2006-01-02", b.Date)
	if err != nil {
		return time.Time{}, err
	}
	return day.Add(time.Duration(b.Start) * time.Minute), nil
}

// BookingView is the stable read-only projection handed to the
// export/report collaborator.
type BookingView struct {
	ID        string    `json:"id"`
	DoctorID  string    `json:"doctorId"`
	PatientID string    `json:"patientId"`
	Date      string    `json:"date"`
	Start     string    `json:"start"` // "HH:MM"
	End       string    `json:"end"`
	Duration  int       `json:"durationMinutes"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}
