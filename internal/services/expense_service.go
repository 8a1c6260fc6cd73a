package services

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "spendwatch/internal/errors"
	"spendwatch/internal/models"
	"spendwatch/internal/pagination"
)

// expenseService handles ledger business logic.
type expenseService struct {
	db         *gorm.DB
	categories CategoryServicer
}

// NewExpenseService creates a new ExpenseServicer.
func NewExpenseService(db *gorm.DB, categories CategoryServicer) ExpenseServicer {
	return &expenseService{db: db, categories: categories}
}

// CreateExpense records a new expense for the user.
func (s *expenseService) CreateExpense(userID, categoryID uint, amount decimal.Decimal, date time.Time, description, sharedWith string) (*models.Expense, error) {
	if !amount.IsPositive() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be positive")
	}

	// The category must exist and belong to the user.
	if _, err := s.categories.GetCategoryByID(userID, categoryID); err != nil {
		return nil, err
	}

	if date.IsZero() {
		date = time.Now().UTC()
	}

	expense := &models.Expense{
		UserID:      userID,
		CategoryID:  categoryID,
		Amount:      amount,
		Date:        date,
		Description: description,
		SharedWith:  sharedWith,
	}

	if err := s.db.Create(expense).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if err := s.db.Preload("Category").First(expense, expense.ID).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return expense, nil
}

// GetUserExpenses retrieves a paginated, filtered list of the user's expenses.
func (s *expenseService) GetUserExpenses(userID uint, page pagination.PageRequest, filter ExpenseFilter) (*pagination.PageResponse[models.Expense], error) {
	page.Defaults()

	query := s.db.Model(&models.Expense{}).Where("user_id = ?", userID)

	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.FromDate != nil {
		query = query.Where("date >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		query = query.Where("date <= ?", *filter.ToDate)
	}
	if filter.Month != nil && filter.Year != nil {
		start, end := periodBounds(*filter.Month, *filter.Year)
		query = query.Where("date >= ? AND date < ?", start, end)
	}

	var totalItems int64
	if err := query.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var expenses []models.Expense
	if err := query.Preload("Category").
		Order("date DESC, id DESC").
		Scopes(pagination.Paginate(page)).
		Find(&expenses).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(expenses, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetExpenseByID returns an expense by ID if it belongs to the user.
func (s *expenseService) GetExpenseByID(userID, expenseID uint) (*models.Expense, error) {
	var expense models.Expense
	if err := s.db.Preload("Category").
		Where("id = ? AND user_id = ?", expenseID, userID).
		First(&expense).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrExpenseNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &expense, nil
}

// UpdateExpense applies partial updates to an expense owned by the user.
func (s *expenseService) UpdateExpense(userID, expenseID uint, categoryID *uint, amount *decimal.Decimal, date *time.Time, description *string) (*models.Expense, error) {
	expense, err := s.GetExpenseByID(userID, expenseID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})

	if categoryID != nil && *categoryID != expense.CategoryID {
		if _, err := s.categories.GetCategoryByID(userID, *categoryID); err != nil {
			return nil, err
		}
		updates["category_id"] = *categoryID
	}
	if amount != nil {
		if !amount.IsPositive() {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be positive")
		}
		updates["amount"] = *amount
	}
	if date != nil {
		updates["date"] = *date
	}
	if description != nil {
		updates["description"] = *description
	}

	if len(updates) > 0 {
		if err := s.db.Model(expense).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return s.GetExpenseByID(userID, expenseID)
}

// DeleteExpense soft deletes an expense owned by the user.
func (s *expenseService) DeleteExpense(userID, expenseID uint) error {
	result := s.db.Where("id = ? AND user_id = ?", expenseID, userID).Delete(&models.Expense{})
	if result.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrExpenseNotFound
	}
	return nil
}

// SumForPeriod returns the cumulative spend for a user's category within the
// given calendar month. Missing rows sum to zero.
func (s *expenseService) SumForPeriod(userID, categoryID uint, month, year int) (decimal.Decimal, error) {
	start, end := periodBounds(month, year)

	var row struct {
		Total decimal.Decimal
	}
	err := s.db.Model(&models.Expense{}).
		Select("COALESCE(SUM(amount), 0) AS total").
		Where("user_id = ? AND category_id = ? AND date >= ? AND date < ?", userID, categoryID, start, end).
		Scan(&row).Error
	if err != nil {
		return decimal.Zero, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return row.Total, nil
}

// periodBounds returns the half-open [start, end) interval of a calendar month.
func periodBounds(month, year int) (time.Time, time.Time) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}
