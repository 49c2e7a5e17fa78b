package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"clinicflow/services/report"
	"clinicflow/utils"
)

// ReportHandler exposes finalized bookings for offline reporting.
type ReportHandler struct {
	Reports *report.Service
}

func NewReportHandler(reports *report.Service) *ReportHandler {
	return &ReportHandler{Reports: reports}
}

// FinalizedBookingsHandler returns confirmed and cancelled bookings.
func (h *ReportHandler) FinalizedBookingsHandler(c *gin.Context) {
	views, err := h.Reports.FinalizedBookings(c.Request.Context())
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to load bookings", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": views, "count": len(views)})
}
