package handlers

import (
	"net/http"

	"dencare/middleware"
	"dencare/services/booking"
	"dencare/utils"

	"github.com/gin-gonic/gin"
)

// BookingHandler exposes the reservation protocol and appointment
// lifecycle endpoints.
type BookingHandler struct {
	Svc booking.BookingService
}

func NewBookingHandler(svc booking.BookingService) *BookingHandler {
	return &BookingHandler{Svc: svc}
}

type slotRequest struct {
	Date string `json:"date" binding:"required,apptdate"`
	Time string `json:"time" binding:"required,timelabel"`
}

type appointmentUpdateRequest struct {
	DentistID string `json:"dentistId"`
	Date      string `json:"date" binding:"omitempty,apptdate"`
	Time      string `json:"time" binding:"omitempty,timelabel"`
}

// statusForKind maps the booking error taxonomy to HTTP statuses.
func statusForKind(kind booking.Kind) int {
	switch kind {
	case booking.KindNotFound:
		return http.StatusNotFound
	case booking.KindInvalidRequest:
		return http.StatusBadRequest
	case booking.KindConflict:
		return http.StatusConflict
	case booking.KindForbidden:
		return http.StatusForbidden
	case booking.KindExpired:
		return http.StatusGone
	default:
		return http.StatusInternalServerError
	}
}

func bookingError(c *gin.Context, err error) {
	utils.JSONError(c, statusForKind(booking.KindOf(err)), "booking failed", err.Error())
}

// Reserve takes a temporary hold on a slot for the authenticated user.
func (h *BookingHandler) Reserve(c *gin.Context) {
	var req slotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	receipt, err := h.Svc.Reserve(c.Request.Context(), c.Param("id"), req.Date, req.Time,
		c.GetString(middleware.ContextUserID), c.GetString(middleware.ContextUserRole))
	if err != nil {
		bookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": receipt})
}

// Confirm turns a live reservation into a confirmed appointment.
func (h *BookingHandler) Confirm(c *gin.Context) {
	var req slotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	appt, err := h.Svc.Confirm(c.Request.Context(), c.Param("id"), req.Date, req.Time,
		c.GetString(middleware.ContextUserID), c.GetString(middleware.ContextUserRole))
	if err != nil {
		bookingError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": appt})
}

// GetAppointments lists the caller's appointments (all for admins,
// optionally filtered with ?dentist=).
func (h *BookingHandler) GetAppointments(c *gin.Context) {
	appts, err := h.Svc.ListAppointments(c.Request.Context(),
		c.GetString(middleware.ContextUserID), c.GetString(middleware.ContextUserRole),
		c.Query("dentist"))
	if err != nil {
		bookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(appts), "data": appts})
}

// GetAppointment fetches one appointment by id.
func (h *BookingHandler) GetAppointment(c *gin.Context) {
	appt, err := h.Svc.GetAppointment(c.Request.Context(), c.Param("id"),
		c.GetString(middleware.ContextUserID), c.GetString(middleware.ContextUserRole))
	if err != nil {
		bookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": appt})
}

// UpdateAppointment moves an appointment to a different slot.
func (h *BookingHandler) UpdateAppointment(c *gin.Context) {
	var req appointmentUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	appt, err := h.Svc.UpdateAppointment(c.Request.Context(), c.Param("id"),
		c.GetString(middleware.ContextUserID), c.GetString(middleware.ContextUserRole),
		booking.AppointmentChange{DentistID: req.DentistID, Date: req.Date, Time: req.Time})
	if err != nil {
		bookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": appt})
}

// DeleteAppointment cancels an appointment and frees its slot.
func (h *BookingHandler) DeleteAppointment(c *gin.Context) {
	err := h.Svc.CancelAppointment(c.Request.Context(), c.Param("id"),
		c.GetString(middleware.ContextUserID), c.GetString(middleware.ContextUserRole))
	if err != nil {
		bookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{}})
}
