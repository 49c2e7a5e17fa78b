package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	calendarRepo "clinicflow/database/repository/calendar"
	"clinicflow/models"
	"clinicflow/utils"
)

// ScheduleHandler manages calendar imports: the working windows each
// doctor is bookable in.
type ScheduleHandler struct {
	Calendar calendarRepo.CalendarRepository
	validate *validator.Validate
}

// NewScheduleHandler constructs the schedule endpoints.
func NewScheduleHandler(calendar calendarRepo.CalendarRepository) *ScheduleHandler {
	return &ScheduleHandler{Calendar: calendar, validate: validator.New()}
}

// ImportScheduleHandler loads a doctor's working windows, replacing
// any previous import for that doctor.
func (h *ScheduleHandler) ImportScheduleHandler(c *gin.Context) {
	doctorID := c.Param("doctorID")

	var req models.ScheduleImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid schedule payload", err.Error())
		return
	}
	for _, w := range req.Windows {
		if err := h.validate.Struct(w); err != nil {
			utils.JSONError(c, http.StatusBadRequest, "invalid working window", err.Error())
			return
		}
	}

	if err := h.Calendar.ReplaceWorkingWindows(c.Request.Context(), doctorID, req.Windows); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to import schedule", err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{"doctorId": doctorID, "imported": len(req.Windows)})
}

// GetScheduleHandler returns a doctor's working windows in a range.
func (h *ScheduleHandler) GetScheduleHandler(c *gin.Context) {
	doctorID := c.Param("doctorID")
	fromDate := c.Query("from")
	toDate := c.Query("to")
	if fromDate == "" || toDate == "" {
		utils.JSONError(c, http.StatusBadRequest, "missing date range", "from and to query parameters are required")
		return
	}

	windows, err := h.Calendar.WorkingWindows(c.Request.Context(), doctorID, fromDate, toDate)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to load schedule", err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{"doctorId": doctorID, "windows": windows})
}
