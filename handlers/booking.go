package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"

	"clinicflow/config"
	"clinicflow/models"
	"clinicflow/services/patient"
	"clinicflow/services/scheduling"
	"clinicflow/utils"
)

// sessionTTL bounds how long a slot pick stays valid; candidates go
// stale as other patients book.
const sessionTTL = 10 * time.Minute

// BookingHandler exposes the booking pipeline: session-based slot
// selection, single-shot orchestrated booking, cancel and reschedule.
type BookingHandler struct {
	Directory    patient.DirectoryService
	Finder       *scheduling.SlotFinder
	Manager      *scheduling.BookingManager
	Orchestrator *scheduling.Orchestrator
	Cache        *redis.Client
	AutoConfirm  bool
}

// NewBookingHandler constructs the booking endpoints.
func NewBookingHandler(directory patient.DirectoryService, finder *scheduling.SlotFinder, manager *scheduling.BookingManager, orchestrator *scheduling.Orchestrator, cache *redis.Client, autoConfirm bool) *BookingHandler {
	return &BookingHandler{
		Directory:    directory,
		Finder:       finder,
		Manager:      manager,
		Orchestrator: orchestrator,
		Cache:        cache,
		AutoConfirm:  autoConfirm,
	}
}

// StartSessionHandler identifies the patient, computes their bookable
// slots, and caches the candidate list for a follow-up pick.
func (h *BookingHandler) StartSessionHandler(c *gin.Context) {
	var req models.BookingSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	ctx := c.Request.Context()
	lookup, err := h.Directory.Lookup(ctx, req.Identity)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "patient lookup failed", err.Error())
		return
	}

	toDate, err := defaultToDate(req.FromDate, req.ToDate)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid date", err.Error())
		return
	}

	candidates, err := h.Finder.FindSlots(ctx, req.DoctorID, req.FromDate, toDate, lookup.PatientType.Duration())
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to compute slots", err.Error())
		return
	}
	if len(candidates) == 0 {
		utils.JSONError(c, http.StatusNotFound, "no availability",
			"no slots available for the selected doctor and range; try other dates or doctors")
		return
	}

	session := models.BookingSession{
		SessionID:   uuid.New().String(),
		DoctorID:    req.DoctorID,
		PatientID:   lookup.PatientID,
		PatientType: lookup.PatientType,
		Candidates:  candidates,
	}
	data, err := json.Marshal(session)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to marshal booking session", err.Error())
		return
	}
	if err := h.Cache.Set(ctx, sessionKey(session.SessionID), data, sessionTTL).Err(); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to cache booking session", err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"sessionId":   session.SessionID,
		"patientType": lookup.PatientType,
		"slots":       candidates,
	})
}

// ConfirmSlotHandler reserves the candidate the patient picked out of
// a cached session. A lost race surfaces as a conflict so the client
// can offer the remaining candidates.
func (h *BookingHandler) ConfirmSlotHandler(c *gin.Context) {
	sessionID := c.Param("sessionID")
	var req models.ConfirmSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	ctx := c.Request.Context()
	data, err := h.Cache.Get(ctx, sessionKey(sessionID)).Result()
	if err != nil {
		utils.JSONError(c, http.StatusNotFound, "booking session not found or expired", "")
		return
	}
	var session models.BookingSession
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to parse booking session", err.Error())
		return
	}
	if req.SlotIndex < 0 || req.SlotIndex >= len(session.Candidates) {
		utils.JSONError(c, http.StatusBadRequest, "invalid slot index", "")
		return
	}

	cand := session.Candidates[req.SlotIndex]
	booking, err := h.Manager.Reserve(ctx, session.DoctorID, session.PatientID, cand.Date, cand.Start, session.PatientType.Duration())
	if err != nil {
		writeSchedulingError(c, err)
		return
	}

	if h.AutoConfirm {
		booking, err = h.Manager.Confirm(ctx, booking.ID)
		if err != nil {
			writeSchedulingError(c, err)
			return
		}
	}

	c.JSON(http.StatusCreated, booking)
}

// BookHandler is the single-shot orchestrated booking: first bookable
// candidate in the range, with bounded conflict retries.
func (h *BookingHandler) BookHandler(c *gin.Context) {
	var req models.BookAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	ctx := c.Request.Context()
	lookup, err := h.Directory.Lookup(ctx, req.Identity)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "patient lookup failed", err.Error())
		return
	}

	toDate, err := defaultToDate(req.FromDate, req.ToDate)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid date", err.Error())
		return
	}

	booking, err := h.Orchestrator.BookAppointment(ctx, req.DoctorID, lookup.PatientID, lookup.PatientType, req.FromDate, toDate)
	if err != nil {
		writeSchedulingError(c, err)
		return
	}

	c.JSON(http.StatusCreated, booking)
}

// CancelHandler cancels a booking, freeing its interval and retiring
// its reminder plan.
func (h *BookingHandler) CancelHandler(c *gin.Context) {
	bookingID := c.Param("bookingID")
	if err := h.Manager.Cancel(c.Request.Context(), bookingID); err != nil {
		writeSchedulingError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookingId": bookingID, "status": models.BookingStatusCancelled})
}

// RescheduleHandler moves a booking to a new start; on conflict the
// original booking is left untouched.
func (h *BookingHandler) RescheduleHandler(c *gin.Context) {
	bookingID := c.Param("bookingID")
	var req models.RescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	moved, err := h.Manager.Reschedule(c.Request.Context(), bookingID, req.Date, req.Start)
	if err != nil {
		writeSchedulingError(c, err)
		return
	}
	c.JSON(http.StatusOK, moved)
}

func sessionKey(sessionID string) string {
	return "booking:session:" + sessionID
}

// defaultToDate caps an omitted range end at the configured search
// horizon from the start date.
func defaultToDate(fromDate, toDate string) (string, error) {
	if toDate != "" {
		return toDate, nil
	}
	from, err := time.Parse("2006-01-02", fromDate)
	if err != nil {
		return "", err
	}
	return from.AddDate(0, 0, config.AppConfig.SearchHorizonDays).Format("2006-01-02"), nil
}

// writeSchedulingError maps the scheduling error taxonomy onto
// distinct, actionable HTTP responses.
func writeSchedulingError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, scheduling.ErrNoAvailability):
		utils.JSONError(c, http.StatusNotFound, "no availability",
			"no slots available in the requested range; try other dates or doctors")
	case errors.Is(err, scheduling.ErrSlotConflict):
		utils.JSONError(c, http.StatusConflict, "slot conflict",
			"that slot was just taken; pick another candidate or retry")
	case errors.Is(err, scheduling.ErrOutsideWorkingHours):
		utils.JSONError(c, http.StatusUnprocessableEntity, "outside working hours",
			"the requested interval is not inside the doctor's working hours")
	case errors.Is(err, scheduling.ErrInvalidTransition):
		utils.JSONError(c, http.StatusConflict, "invalid booking state", err.Error())
	default:
		utils.JSONError(c, http.StatusInternalServerError, "booking failed", err.Error())
	}
}
