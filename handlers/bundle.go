package handlers

import "github.com/gin-gonic/gin"

// HandlerBundle aggregates the endpoints routes.RegisterRoutes wires
// into the router.
type HandlerBundle struct {
	// Schedule endpoints.
	ImportScheduleHandler gin.HandlerFunc
	GetScheduleHandler    gin.HandlerFunc

	// Booking endpoints.
	StartSessionHandler gin.HandlerFunc
	ConfirmSlotHandler  gin.HandlerFunc
	BookHandler         gin.HandlerFunc
	CancelHandler       gin.HandlerFunc
	RescheduleHandler   gin.HandlerFunc

	// Reminder endpoints.
	ReminderRespondHandler gin.HandlerFunc
	GetReminderPlanHandler gin.HandlerFunc

	// Report endpoints.
	FinalizedBookingsHandler gin.HandlerFunc
}
