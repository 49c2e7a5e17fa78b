package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	reminderRepo "clinicflow/database/repository/reminder"
	"clinicflow/models"
	"clinicflow/services/reminder"
	"clinicflow/utils"
)

// ReminderHandler feeds patient replies into the reminder state
// machine and exposes a booking's reminder plan.
type ReminderHandler struct {
	Scheduler *reminder.Scheduler
	Plans     reminderRepo.ReminderRepository
}

// NewReminderHandler constructs the reminder endpoints.
func NewReminderHandler(scheduler *reminder.Scheduler, plans reminderRepo.ReminderRepository) *ReminderHandler {
	return &ReminderHandler{Scheduler: scheduler, Plans: plans}
}

// RespondHandler records a patient's reply to a fired reminder.
func (h *ReminderHandler) RespondHandler(c *gin.Context) {
	var req models.ReminderResponseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	reply, err := h.Scheduler.HandleResponse(c.Request.Context(), req.BookingID, req.Kind, req.Response)
	if err != nil {
		if errors.Is(err, reminderRepo.ErrPlanNotFound) {
			utils.JSONError(c, http.StatusNotFound, "no reminder plan for booking", "")
			return
		}
		utils.JSONError(c, http.StatusUnprocessableEntity, "could not process response", err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": reply})
}

// GetPlanHandler returns the reminder plan for one booking.
func (h *ReminderHandler) GetPlanHandler(c *gin.Context) {
	bookingID := c.Param("bookingID")
	plan, err := h.Plans.GetPlan(c.Request.Context(), bookingID)
	if err != nil {
		if errors.Is(err, reminderRepo.ErrPlanNotFound) {
			utils.JSONError(c, http.StatusNotFound, "no reminder plan for booking", "")
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "failed to load reminder plan", err.Error())
		return
	}
	c.JSON(http.StatusOK, plan)
}
