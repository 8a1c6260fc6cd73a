package services

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "spendwatch/internal/errors"
	"spendwatch/internal/models"
)

// reportService produces read-only budget-vs-actual reports.
type reportService struct {
	db *gorm.DB
}

// NewReportService creates a new ReportServicer.
func NewReportService(db *gorm.DB) ReportServicer {
	return &reportService{db: db}
}

// GetMonthlyReport aggregates spend per category and per day for the given
// month, joined against the configured budgets. Categories without activity
// still appear so the client can render zero rows.
func (s *reportService) GetMonthlyReport(userID uint, month, year int) (*MonthlyReport, error) {
	if err := validatePeriod(month, year); err != nil {
		return nil, err
	}

	start, end := periodBounds(month, year)

	var categories []models.Category
	if err := s.db.Where("user_id = ?", userID).Order("name ASC").Find(&categories).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	// Spend grouped by category.
	var spentRows []struct {
		CategoryID uint
		Total      decimal.Decimal
	}
	err := s.db.Model(&models.Expense{}).
		Select("category_id, COALESCE(SUM(amount), 0) AS total").
		Where("user_id = ? AND date >= ? AND date < ?", userID, start, end).
		Group("category_id").
		Scan(&spentRows).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	spentByCategory := make(map[uint]decimal.Decimal, len(spentRows))
	for _, row := range spentRows {
		spentByCategory[row.CategoryID] = row.Total
	}

	// Budgets for the period.
	var budgets []models.Budget
	if err := s.db.Where("user_id = ? AND month = ? AND year = ?", userID, month, year).Find(&budgets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	budgetByCategory := make(map[uint]decimal.Decimal, len(budgets))
	for _, b := range budgets {
		budgetByCategory[b.CategoryID] = b.Amount
	}

	report := &MonthlyReport{
		Month:            month,
		Year:             year,
		CategorySpending: make([]CategorySpending, 0, len(categories)),
		TotalSpent:       decimal.Zero,
		TotalBudget:      decimal.Zero,
	}

	for _, category := range categories {
		spent := spentByCategory[category.ID]
		budget := budgetByCategory[category.ID]

		line := CategorySpending{
			CategoryID: category.ID,
			Name:       category.Name,
			Spent:      spent,
			Budget:     budget,
			Remaining:  budget.Sub(spent),
		}
		if budget.IsPositive() {
			percent, _ := spent.Div(budget).Mul(decimal.NewFromInt(100)).Float64()
			line.Percent = percent
		}

		report.CategorySpending = append(report.CategorySpending, line)
		report.TotalSpent = report.TotalSpent.Add(spent)
		report.TotalBudget = report.TotalBudget.Add(budget)
	}

	// Spend grouped by day, chronological.
	var dailyRows []struct {
		Day   string
		Total decimal.Decimal
	}
	err = s.db.Model(&models.Expense{}).
		Select("DATE(date) AS day, COALESCE(SUM(amount), 0) AS total").
		Where("user_id = ? AND date >= ? AND date < ?", userID, start, end).
		Group("DATE(date)").
		Order("day ASC").
		Scan(&dailyRows).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	report.DailySpending = make([]DailySpending, 0, len(dailyRows))
	for _, row := range dailyRows {
		report.DailySpending = append(report.DailySpending, DailySpending{Date: row.Day, Amount: row.Total})
	}

	return report, nil
}
