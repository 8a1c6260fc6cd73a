package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "spendwatch/internal/errors"
	"spendwatch/internal/services"
)

// SettingsHandler handles account settings requests.
type SettingsHandler struct {
	userService  services.UserServicer
	auditService services.AuditServicer
}

// NewSettingsHandler creates a new SettingsHandler.
func NewSettingsHandler(userService services.UserServicer, auditService services.AuditServicer) *SettingsHandler {
	return &SettingsHandler{userService: userService, auditService: auditService}
}

// UpdateSettingsRequest represents the request payload for updating settings.
type UpdateSettingsRequest struct {
	Email                *string `json:"email" binding:"omitempty,email,max=255"`
	NotificationsEnabled *bool   `json:"notifications_enabled"`
}

// ChangePasswordRequest represents the request payload for changing the password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8,max=128"`
}

// SettingsResponse represents the user's account settings.
type SettingsResponse struct {
	Email                string `json:"email"`
	NotificationsEnabled bool   `json:"notifications_enabled"`
}

// GetSettings returns the user's account settings.
// @Summary     Get settings
// @Description Get the authenticated user's account settings
// @Tags        settings
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} SettingsResponse "Account settings"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /settings [get]
func (h *SettingsHandler) GetSettings(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	user, err := h.userService.GetUserByID(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"settings": gin.H{
			"email":                 user.Email,
			"notifications_enabled": user.NotificationsEnabled,
		},
	})
}

// UpdateSettings updates the user's email or notification preference.
// @Summary     Update settings
// @Description Update the authenticated user's email or notification preference
// @Tags        settings
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body UpdateSettingsRequest true "Settings to update"
// @Success     200 {object} SettingsResponse "Updated settings"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     409 {object} ErrorResponse "Email already in use"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /settings [put]
func (h *SettingsHandler) UpdateSettings(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	user, err := h.userService.UpdateSettings(userID, req.Email, req.NotificationsEnabled)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_SETTINGS", "user", userID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{
		"settings": gin.H{
			"email":                 user.Email,
			"notifications_enabled": user.NotificationsEnabled,
		},
	})
}

// ChangePassword changes the user's password.
// @Summary     Change password
// @Description Change the authenticated user's password
// @Tags        settings
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body ChangePasswordRequest true "Current and new password"
// @Success     200 {object} MessageResponse "Password changed"
// @Failure     400 {object} ErrorResponse "Invalid input or wrong current password"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /settings/password [put]
func (h *SettingsHandler) ChangePassword(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	if err := h.userService.ChangePassword(userID, req.CurrentPassword, req.NewPassword); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CHANGE_PASSWORD", "user", userID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Password changed successfully"})
}
