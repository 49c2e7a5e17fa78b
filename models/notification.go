package models

// ReminderNotification is the payload enqueued for delivery when a
// reminder task fires. Transport is abstract; the delivery worker
// resolves the recipient's contact details at send time.
type ReminderNotification struct {
	BookingID string       `json:"bookingId"`
	PatientID string       `json:"patientId"`
	Kind      ReminderKind `json:"kind"`
	Channel   string       `json:"channel"` // "email" or "sms"
	Message   string       `json:"message"`
}
