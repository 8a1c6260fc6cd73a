package services

import (
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "spendwatch/internal/errors"
	"spendwatch/internal/models"
	"spendwatch/internal/pagination"
)

// budgetService handles budget threshold management.
type budgetService struct {
	db         *gorm.DB
	categories CategoryServicer
}

// NewBudgetService creates a new BudgetServicer.
func NewBudgetService(db *gorm.DB, categories CategoryServicer) BudgetServicer {
	return &budgetService{db: db, categories: categories}
}

// UpsertBudget creates or replaces the budget for a (category, month, year)
// period. Re-submitting the same period overwrites the amount.
func (s *budgetService) UpsertBudget(userID, categoryID uint, month, year int, amount decimal.Decimal) (*models.Budget, error) {
	if err := validatePeriod(month, year); err != nil {
		return nil, err
	}
	if amount.IsNegative() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must not be negative")
	}

	if _, err := s.categories.GetCategoryByID(userID, categoryID); err != nil {
		return nil, err
	}

	budget := &models.Budget{
		UserID:     userID,
		CategoryID: categoryID,
		Month:      month,
		Year:       year,
		Amount:     amount,
	}

	err := s.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "user_id"}, {Name: "category_id"}, {Name: "month"}, {Name: "year"},
		},
		DoUpdates: clause.AssignmentColumns([]string{"amount", "updated_at"}),
	}).Create(budget).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	// Reload so the caller sees the surviving row after a conflict update.
	var saved models.Budget
	err = s.db.Preload("Category").
		Where("user_id = ? AND category_id = ? AND month = ? AND year = ?", userID, categoryID, month, year).
		First(&saved).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &saved, nil
}

// GetUserBudgets retrieves a paginated list of the user's budgets for a period.
func (s *budgetService) GetUserBudgets(userID uint, month, year int, page pagination.PageRequest) (*pagination.PageResponse[models.Budget], error) {
	if err := validatePeriod(month, year); err != nil {
		return nil, err
	}
	page.Defaults()

	query := s.db.Model(&models.Budget{}).
		Where("user_id = ? AND month = ? AND year = ?", userID, month, year)

	var totalItems int64
	if err := query.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var budgets []models.Budget
	if err := query.Preload("Category").
		Order("category_id ASC").
		Scopes(pagination.Paginate(page)).
		Find(&budgets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(budgets, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetForPeriod returns the budget configured for a (category, month, year)
// period, or ErrBudgetNotFound when none is set.
func (s *budgetService) GetForPeriod(userID, categoryID uint, month, year int) (*models.Budget, error) {
	var budget models.Budget
	err := s.db.Where("user_id = ? AND category_id = ? AND month = ? AND year = ?", userID, categoryID, month, year).
		First(&budget).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBudgetNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &budget, nil
}

// DeleteBudget removes a budget owned by the user. Hard delete so the period
// can be re-created without tripping the uniqueness constraint.
func (s *budgetService) DeleteBudget(userID, budgetID uint) error {
	result := s.db.Where("id = ? AND user_id = ?", budgetID, userID).Delete(&models.Budget{})
	if result.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrBudgetNotFound
	}
	return nil
}

// validatePeriod rejects out-of-range calendar periods.
func validatePeriod(month, year int) error {
	if month < 1 || month > 12 || year < 1 {
		return apperrors.ErrInvalidPeriod
	}
	return nil
}
