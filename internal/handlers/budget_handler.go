package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "spendwatch/internal/errors"
	"spendwatch/internal/logger"
	"spendwatch/internal/pagination"
	"spendwatch/internal/services"
)

// BudgetHandler handles budget-related requests. Setting a budget triggers
// an evaluation of the period, since lowering a threshold can put existing
// spend over it.
type BudgetHandler struct {
	budgetService services.BudgetServicer
	evaluator     services.Evaluator
	auditService  services.AuditServicer
}

// NewBudgetHandler creates a new BudgetHandler.
func NewBudgetHandler(budgetService services.BudgetServicer, evaluator services.Evaluator, auditService services.AuditServicer) *BudgetHandler {
	return &BudgetHandler{budgetService: budgetService, evaluator: evaluator, auditService: auditService}
}

// UpsertBudgetRequest represents the request payload for setting a budget.
type UpsertBudgetRequest struct {
	CategoryID uint            `json:"category_id" binding:"required"`
	Month      int             `json:"month" binding:"required,month"`
	Year       int             `json:"year" binding:"required,year"`
	Amount     decimal.Decimal `json:"amount" binding:"required,nonnegative_amount"`
}

// UpsertBudget handles creating or replacing a budget for a period.
// @Summary     Set a budget
// @Description Create or replace the budget for a category and month
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body UpsertBudgetRequest true "Budget details"
// @Success     200 {object} models.Budget "Budget saved"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Category not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets [put]
func (h *BudgetHandler) UpsertBudget(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpsertBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	budget, err := h.budgetService.UpsertBudget(userID, req.CategoryID, req.Month, req.Year, req.Amount)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPSERT_BUDGET", "budget", budget.ID, c.ClientIP(),
		map[string]interface{}{"category_id": req.CategoryID, "month": req.Month, "year": req.Year, "amount": req.Amount.String()})

	if _, err := h.evaluator.Evaluate(c.Request.Context(), userID, req.CategoryID, req.Month, req.Year); err != nil {
		logger.Get().Errorw("Budget evaluation failed",
			"user_id", userID,
			"category_id", req.CategoryID,
			"error", err,
		)
	}

	c.JSON(http.StatusOK, gin.H{"budget": budget})
}

// GetBudgets handles listing budgets for a period.
// @Summary     Get budgets
// @Description Get a paginated list of budgets for a month (defaults to the current month)
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       month     query int false "Calendar month (1-12)"
// @Param       year      query int false "Calendar year"
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Budget] "Paginated budgets"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets [get]
func (h *BudgetHandler) GetBudgets(c *gin.Context) {
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

	month, year, err := parsePeriodQuery(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.budgetService.GetUserBudgets(userID, month, year, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// DeleteBudget handles deleting a budget.
// @Summary     Delete budget
// @Description Delete a budget by ID
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Budget ID"
// @Success     200 {object} MessageResponse "Budget deleted"
// @Failure     400 {object} ErrorResponse "Invalid budget ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/{id} [delete]
func (h *BudgetHandler) DeleteBudget(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	budgetID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.budgetService.DeleteBudget(userID, budgetID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_BUDGET", "budget", budgetID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Budget deleted successfully"})
}
