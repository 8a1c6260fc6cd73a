package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"spendwatch/internal/services"
)

// ReportHandler handles reporting requests.
type ReportHandler struct {
	reportService services.ReportServicer
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportService services.ReportServicer) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// GetMonthlyReport handles the budget-vs-actual monthly report.
// @Summary     Get monthly report
// @Description Get budget vs actual spending per category and per day for a month
// @Tags        reports
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       month query int false "Calendar month (1-12, defaults to current)"
// @Param       year  query int false "Calendar year (defaults to current)"
// @Success     200 {object} services.MonthlyReport "Monthly report"
// @Failure     400 {object} ErrorResponse "Invalid period"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /reports [get]
func (h *ReportHandler) GetMonthlyReport(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	month, year, err := parsePeriodQuery(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	report, err := h.reportService.GetMonthlyReport(userID, month, year)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"report": report})
}
