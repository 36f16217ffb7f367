package handlers

import (
	"errors"
	"net/http"
	"time"

	userRepo "dencare/database/repository/user"
	"dencare/middleware"
	"dencare/models"
	"dencare/services/user"
	"dencare/utils"

	"github.com/gin-gonic/gin"
)

// AuthHandler exposes account registration and authentication.
type AuthHandler struct {
	Svc user.UserService
}

func NewAuthHandler(svc user.UserService) *AuthHandler {
	return &AuthHandler{Svc: svc}
}

type registerRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Tel      string `json:"tel"`
	Role     string `json:"role"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Register creates an account and returns a signed token.
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	u, token, err := h.Svc.Register(user.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Tel:      req.Tel,
		Role:     req.Role,
	})
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, userRepo.ErrEmailTaken) {
			status = http.StatusConflict
		}
		utils.JSONError(c, status, "registration failed", err.Error())
		return
	}

	sendTokenResponse(c, http.StatusCreated, u, token)
}

// Login verifies credentials and returns a signed token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	u, token, err := h.Svc.Authenticate(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, user.ErrInvalidCredentials) {
			utils.JSONError(c, http.StatusUnauthorized, "invalid credentials", "")
			return
		}
		utils.JSONError(c, http.StatusBadRequest, "login failed", err.Error())
		return
	}

	sendTokenResponse(c, http.StatusOK, u, token)
}

// Me returns the authenticated account.
func (h *AuthHandler) Me(c *gin.Context) {
	u, err := h.Svc.GetByID(c.GetString(middleware.ContextUserID))
	if err != nil {
		utils.JSONError(c, http.StatusNotFound, "user not found", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": u})
}

// Logout clears the token cookie.
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetCookie("token", "none", 10, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{}})
}

func sendTokenResponse(c *gin.Context, status int, u *models.User, token string) {
	// Cookie for browser clients; the JSON token serves API clients.
	c.SetCookie("token", token, int((24 * time.Hour).Seconds()), "/", "", false, true)
	c.JSON(status, gin.H{
		"success": true,
		"id":      u.ID,
		"name":    u.Name,
		"email":   u.Email,
		"token":   token,
	})
}
