package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "spendwatch/internal/errors"
	"spendwatch/internal/logger"
	"spendwatch/internal/pagination"
	"spendwatch/internal/services"
)

// ExpenseHandler handles expense-related requests. Every successful write
// triggers a budget evaluation for the affected period.
type ExpenseHandler struct {
	expenseService services.ExpenseServicer
	evaluator      services.Evaluator
	auditService   services.AuditServicer
}

// NewExpenseHandler creates a new ExpenseHandler.
func NewExpenseHandler(expenseService services.ExpenseServicer, evaluator services.Evaluator, auditService services.AuditServicer) *ExpenseHandler {
	return &ExpenseHandler{expenseService: expenseService, evaluator: evaluator, auditService: auditService}
}

// CreateExpenseRequest represents the request payload for recording an expense.
type CreateExpenseRequest struct {
	CategoryID  uint            `json:"category_id" binding:"required"`
	Amount      decimal.Decimal `json:"amount" binding:"required,positive_amount"`
	Date        *time.Time      `json:"date"`
	Description string          `json:"description" binding:"max=255"`
	SharedWith  string          `json:"shared_with" binding:"max=255"`
}

// UpdateExpenseRequest represents the request payload for updating an expense.
type UpdateExpenseRequest struct {
	CategoryID  *uint            `json:"category_id"`
	Amount      *decimal.Decimal `json:"amount" binding:"omitempty,positive_amount"`
	Date        *time.Time       `json:"date"`
	Description *string          `json:"description" binding:"omitempty,max=255"`
}

// CreateExpense handles recording a new expense.
// @Summary     Record an expense
// @Description Record a new expense and re-evaluate the period's budget
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateExpenseRequest true "Expense details"
// @Success     201 {object} models.Expense "Expense recorded"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Category not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /expenses [post]
func (h *ExpenseHandler) CreateExpense(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	date := time.Time{}
	if req.Date != nil {
		date = *req.Date
	}

	expense, err := h.expenseService.CreateExpense(userID, req.CategoryID, req.Amount, date, req.Description, req.SharedWith)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_EXPENSE", "expense", expense.ID, c.ClientIP(),
		map[string]interface{}{"category_id": req.CategoryID, "amount": req.Amount.String()})

	h.evaluate(c, userID, expense.CategoryID, expense.Date)

	c.JSON(http.StatusCreated, gin.H{"expense": expense})
}

// GetExpenses handles listing expenses for the authenticated user.
// @Summary     Get expenses
// @Description Get a paginated, filtered list of expenses
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       category_id query int    false "Filter by category"
// @Param       from        query string false "Filter by start date (RFC 3339)"
// @Param       to          query string false "Filter by end date (RFC 3339)"
// @Param       month       query int    false "Filter by calendar month"
// @Param       year        query int    false "Filter by calendar year"
// @Param       page        query int    false "Page number (default 1)"
// @Param       page_size   query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Expense] "Paginated expenses"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /expenses [get]
func (h *ExpenseHandler) GetExpenses(c *gin.Context) {
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

	filter, err := parseExpenseFilter(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.expenseService.GetUserExpenses(userID, page, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetExpense handles retrieving a specific expense.
// @Summary     Get expense by ID
// @Description Get a specific expense by ID
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Expense ID"
// @Success     200 {object} models.Expense "Expense details"
// @Failure     400 {object} ErrorResponse "Invalid expense ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Expense not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /expenses/{id} [get]
func (h *ExpenseHandler) GetExpense(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	expenseID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	expense, err := h.expenseService.GetExpenseByID(userID, expenseID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"expense": expense})
}

// UpdateExpense handles updating an existing expense. Both the old and the
// new period are re-evaluated when the expense moves between months or
// categories.
// @Summary     Update expense
// @Description Update an existing expense and re-evaluate affected budgets
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int                  true "Expense ID"
// @Param       request body UpdateExpenseRequest true "Updated expense details"
// @Success     200 {object} models.Expense "Updated expense"
// @Failure     400 {object} ErrorResponse "Invalid input or expense ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Expense not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /expenses/{id} [put]
func (h *ExpenseHandler) UpdateExpense(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	expenseID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	before, err := h.expenseService.GetExpenseByID(userID, expenseID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	expense, err := h.expenseService.UpdateExpense(userID, expenseID, req.CategoryID, req.Amount, req.Date, req.Description)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_EXPENSE", "expense", expenseID, c.ClientIP(), nil)

	h.evaluate(c, userID, before.CategoryID, before.Date)
	if expense.CategoryID != before.CategoryID || !samePeriod(expense.Date, before.Date) {
		h.evaluate(c, userID, expense.CategoryID, expense.Date)
	}

	c.JSON(http.StatusOK, gin.H{"expense": expense})
}

// DeleteExpense handles deleting an expense.
// @Summary     Delete expense
// @Description Delete an expense by ID and re-evaluate the period's budget
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Expense ID"
// @Success     200 {object} MessageResponse "Expense deleted"
// @Failure     400 {object} ErrorResponse "Invalid expense ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Expense not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /expenses/{id} [delete]
func (h *ExpenseHandler) DeleteExpense(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	expenseID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	expense, err := h.expenseService.GetExpenseByID(userID, expenseID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.expenseService.DeleteExpense(userID, expenseID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_EXPENSE", "expense", expenseID, c.ClientIP(), nil)

	h.evaluate(c, userID, expense.CategoryID, expense.Date)

	c.JSON(http.StatusOK, gin.H{"message": "Expense deleted successfully"})
}

// evaluate runs a budget evaluation for the period containing date.
// Evaluation failures never fail the request that triggered them.
func (h *ExpenseHandler) evaluate(c *gin.Context, userID, categoryID uint, date time.Time) {
	if _, err := h.evaluator.Evaluate(c.Request.Context(), userID, categoryID, int(date.Month()), date.Year()); err != nil {
		logger.Get().Errorw("Budget evaluation failed",
			"user_id", userID,
			"category_id", categoryID,
			"error", err,
		)
	}
}

func samePeriod(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}

func parseExpenseFilter(c *gin.Context) (services.ExpenseFilter, error) {
	var filter services.ExpenseFilter

	if v := c.Query("category_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid category_id")
		}
		categoryID := uint(id)
		filter.CategoryID = &categoryID
	}
	if v := c.Query("from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid from date")
		}
		filter.FromDate = &t
	}
	if v := c.Query("to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid to date")
		}
		filter.ToDate = &t
	}
	if c.Query("month") != "" || c.Query("year") != "" {
		month, year, err := parsePeriodQuery(c)
		if err != nil {
			return filter, err
		}
		filter.Month = &month
		filter.Year = &year
	}

	return filter, nil
}
