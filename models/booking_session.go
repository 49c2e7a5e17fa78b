package models

// BookingSession is the cached state between a slot query and the
// patient's pick. Candidates are advisory; reservation re-validates
// against the live calendar.
type BookingSession struct {
	SessionID   string          `json:"sessionId"`
	DoctorID    string          `json:"doctorId"`
	PatientID   string          `json:"patientId"`
	PatientType PatientType     `json:"patientType"`
	Candidates  []SlotCandidate `json:"candidates"`
}

// BookingSessionRequest starts a booking session: identify the
// patient, pick a doctor and a date range to search. ToDate defaults
// to the configured search horizon when omitted.
type BookingSessionRequest struct {
	Identity PatientIdentity `json:"identity" binding:"required"`
	DoctorID string          `json:"doctorId" binding:"required"`
	FromDate string          `json:"fromDate" binding:"required"`
	ToDate   string          `json:"toDate"`
}

// ConfirmSlotRequest picks one candidate out of a session.
type ConfirmSlotRequest struct {
	SlotIndex int `json:"slotIndex" binding:"min=0"`
}

// BookAppointmentRequest is the single-shot orchestrated booking call.
// ToDate defaults to the configured search horizon when omitted.
type BookAppointmentRequest struct {
	Identity PatientIdentity `json:"identity" binding:"required"`
	DoctorID string          `json:"doctorId" binding:"required"`
	FromDate string          `json:"fromDate" binding:"required"`
	ToDate   string          `json:"toDate"`
}

// RescheduleRequest moves a booking to a new start, keeping duration.
type RescheduleRequest struct {
	Date  string `json:"date" binding:"required"`
	Start int    `json:"start" binding:"min=0"`
}

// ReminderResponseRequest carries a patient's reply to a fired
// reminder back into the state machine.
type ReminderResponseRequest struct {
	BookingID string       `json:"bookingId" binding:"required"`
	Kind      ReminderKind `json:"kind" binding:"required"`
	Response  string       `json:"response" binding:"required"`
}
