package handlers

import (
	"errors"
	"net/http"

	"dencare/models"
	"dencare/services/dentist"
	"dencare/utils"

	"github.com/gin-gonic/gin"
)

// DentistHandler exposes dentist browsing and admin roster management.
type DentistHandler struct {
	Svc dentist.DentistService
}

func NewDentistHandler(svc dentist.DentistService) *DentistHandler {
	return &DentistHandler{Svc: svc}
}

// GetDentists lists all dentists.
func (h *DentistHandler) GetDentists(c *gin.Context) {
	dentists, err := h.Svc.GetAll()
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "cannot find dentists", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(dentists), "data": dentists})
}

// GetDentist returns a single dentist with its calendar.
func (h *DentistHandler) GetDentist(c *gin.Context) {
	d, err := h.Svc.GetByID(c.Param("id"))
	if err != nil {
		if errors.Is(err, dentist.ErrNotFound) {
			utils.JSONError(c, http.StatusNotFound, "dentist not found", "")
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "cannot find dentist", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": d})
}

// CreateDentist adds a dentist (admin only).
func (h *DentistHandler) CreateDentist(c *gin.Context) {
	var input models.Dentist
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	d, err := h.Svc.Create(&input)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "failed to create dentist", err.Error())
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": d})
}

// UpdateDentist modifies a dentist's profile (admin only).
func (h *DentistHandler) UpdateDentist(c *gin.Context) {
	var input models.Dentist
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	d, err := h.Svc.Update(c.Param("id"), &input)
	if err != nil {
		if errors.Is(err, dentist.ErrNotFound) {
			utils.JSONError(c, http.StatusNotFound, "dentist not found", "")
			return
		}
		utils.JSONError(c, http.StatusBadRequest, "failed to update dentist", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": d})
}

// DeleteDentist removes a dentist (admin only).
func (h *DentistHandler) DeleteDentist(c *gin.Context) {
	if err := h.Svc.Delete(c.Param("id")); err != nil {
		if errors.Is(err, dentist.ErrNotFound) {
			utils.JSONError(c, http.StatusNotFound, "dentist not found", "")
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "failed to delete dentist", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{}})
}

type calendarRequest struct {
	Calendar []models.DateSlots `json:"calendar" binding:"required"`
}

// SetCalendar replaces a dentist's slot calendar (admin only).
func (h *DentistHandler) SetCalendar(c *gin.Context) {
	var req calendarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	d, err := h.Svc.SetCalendar(c.Param("id"), req.Calendar)
	if err != nil {
		if errors.Is(err, dentist.ErrNotFound) {
			utils.JSONError(c, http.StatusNotFound, "dentist not found", "")
			return
		}
		utils.JSONError(c, http.StatusBadRequest, "failed to set calendar", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": d})
}
