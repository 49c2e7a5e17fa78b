package reminder

import (
	"fmt"

	"clinicflow/models"
)

// reminderMessage builds the outbound text for one reminder stage.
func reminderMessage(kind models.ReminderKind, booking *models.Booking) string {
	when := fmt.Sprintf("%s at %s", booking.Date, models.MinutesToClock(booking.Start))

	switch kind {
	case models.ReminderConfirm24h:
		return fmt.Sprintf(
			"Appointment reminder: your appointment is tomorrow, %s. "+
				"Reply CONFIRM if you're coming, CANCEL to reschedule, or NEED FORMS for intake forms.", when)
	case models.ReminderFormCheck2h:
		return fmt.Sprintf(
			"Forms reminder: your appointment is in 2 hours, %s. "+
				"Reply FORMS COMPLETED if your intake forms are done, NEED FORMS to get them again, or CANCEL.", when)
	case models.ReminderFinalConfirm1h:
		return fmt.Sprintf(
			"Final confirmation: your appointment is in 1 hour, %s. "+
				"Reply CONFIRMED if you're coming, CANCEL if not, or CALL US to speak to someone.", when)
	}
	return ""
}

// formsMessage is sent when a patient asks for intake forms.
func formsMessage(booking *models.Booking) string {
	return fmt.Sprintf(
		"Your patient intake forms for the appointment on %s at %s have been sent to your email. "+
			"Please complete them before your visit.",
		booking.Date, models.MinutesToClock(booking.Start))
}
