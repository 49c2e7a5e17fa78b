package models

// WorkingWindow is the time range a doctor is bookable on a given date.
// Start/End are minutes from midnight (e.g. 540 for 9:00 AM); the window
// is half-open [Start, End) — no slot may extend past End.
// Windows are set by calendar import and immutable for the session.
type WorkingWindow struct {
	DoctorID string `bson:"doctorId" json:"doctorId"`
	Date     string `bson:"date" json:"date" validate:"required,datetime=2006-01-02"`
	Start    int    `bson:"start" json:"start" validate:"gte=0,lt=1440"`
	End      int    `bson:"end" json:"end" validate:"gtfield=Start,lte=1440"`
}

// ScheduleImportRequest is the calendar import payload for one doctor.
type ScheduleImportRequest struct {
	Windows []WorkingWindow `json:"windows" binding:"required,min=1"`
}
