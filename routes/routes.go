package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"clinicflow/handlers"
)

// RegisterScheduleRoutes registers calendar import endpoints.
func RegisterScheduleRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/schedules")
	{
		api.PUT("/:doctorID", hb.ImportScheduleHandler)
		api.GET("/:doctorID", hb.GetScheduleHandler)
	}
}

// RegisterBookingRoutes sets up the endpoints for the booking engine.
func RegisterBookingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	bookingGroup := r.Group("/api/booking")
	{
		bookingGroup.POST("/session", hb.StartSessionHandler)
		bookingGroup.POST("/session/:sessionID/confirm", hb.ConfirmSlotHandler)
		bookingGroup.POST("/book", hb.BookHandler)
		bookingGroup.DELETE("/:bookingID", hb.CancelHandler)
		bookingGroup.PUT("/:bookingID/reschedule", hb.RescheduleHandler)
	}
}

// RegisterReminderRoutes registers reminder response endpoints.
func RegisterReminderRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/reminders")
	{
		api.POST("/respond", hb.ReminderRespondHandler)
		api.GET("/:bookingID", hb.GetReminderPlanHandler)
	}
}

// RegisterReportRoutes registers reporting endpoints.
func RegisterReportRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/reports")
	{
		api.GET("/bookings", hb.FinalizedBookingsHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Hi, I'm ClinicFlow"})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	// Setup global middleware (e.g., CORS) here.
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterScheduleRoutes(r, hb)
	RegisterBookingRoutes(r, hb)
	RegisterReminderRoutes(r, hb)
	RegisterReportRoutes(r, hb)
	RegisterHealthRoute(r)
}
