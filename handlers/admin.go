package handlers

import (
	"net/http"
	"time"

	maintenanceRepo "dencare/database/repository/maintenance"
	"dencare/models"
	"dencare/utils"

	"github.com/gin-gonic/gin"
)

// AdminHandler exposes the maintenance-window controls.
type AdminHandler struct {
	Maintenance maintenanceRepo.MaintenanceRepository
}

func NewAdminHandler(m maintenanceRepo.MaintenanceRepository) *AdminHandler {
	return &AdminHandler{Maintenance: m}
}

// GetMaintenance returns the current maintenance window.
func (h *AdminHandler) GetMaintenance(c *gin.Context) {
	m, err := h.Maintenance.Get()
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to read maintenance window", err.Error())
		return
	}
	if m == nil {
		m = &models.Maintenance{}
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": m})
}

type maintenanceRequest struct {
	Active bool      `json:"active"`
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
}

// SetMaintenance declares or clears a maintenance window (admin only).
func (h *AdminHandler) SetMaintenance(c *gin.Context) {
	var req maintenanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	if req.Active && !req.End.After(req.Start) {
		utils.JSONError(c, http.StatusBadRequest, "invalid window", "end must be after start")
		return
	}

	m := &models.Maintenance{Active: req.Active, Start: req.Start, End: req.End}
	if err := h.Maintenance.Set(m); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to set maintenance window", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": m})
}
