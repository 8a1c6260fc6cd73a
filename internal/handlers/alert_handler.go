package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "spendwatch/internal/errors"
	"spendwatch/internal/pagination"
	"spendwatch/internal/services"
)

// AlertHandler handles budget alert requests.
type AlertHandler struct {
	alertService services.AlertServicer
}

// NewAlertHandler creates a new AlertHandler.
func NewAlertHandler(alertService services.AlertServicer) *AlertHandler {
	return &AlertHandler{alertService: alertService}
}

// GetAlerts handles listing alerts for the authenticated user.
// @Summary     Get alerts
// @Description Get a paginated list of budget alerts, newest first
// @Tags        alerts
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       unread_only query bool false "Only return unread alerts"
// @Param       page        query int  false "Page number (default 1)"
// @Param       page_size   query int  false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Alert] "Paginated alerts"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /alerts [get]
func (h *AlertHandler) GetAlerts(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	var unreadOnly bool
	switch c.Query("unread_only") {
	case "", "false":
	case "true":
		unreadOnly = true
	default:
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "unread_only must be 'true' or 'false'"))
		return
	}

	result, err := h.alertService.List(userID, unreadOnly, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// MarkRead handles acknowledging an alert.
// @Summary     Mark alert read
// @Description Mark a budget alert as read
// @Tags        alerts
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Alert ID"
// @Success     200 {object} MessageResponse "Alert marked read"
// @Failure     400 {object} ErrorResponse "Invalid alert ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Alert not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /alerts/{id}/mark_read [post]
func (h *AlertHandler) MarkRead(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	alertID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.alertService.MarkRead(alertID, userID); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Alert marked as read"})
}
