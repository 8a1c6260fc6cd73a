package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"spendwatch/internal/models"
	"spendwatch/internal/pagination"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(email, password, firstName, lastName string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id uint) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
	UpdateSettings(userID uint, email *string, notificationsEnabled *bool) (*models.User, error)
	ChangePassword(userID uint, currentPassword, newPassword string) error
}

// CategoryServicer defines the contract for category-related business logic.
type CategoryServicer interface {
	CreateCategory(userID uint, name, description string) (*models.Category, error)
	GetUserCategories(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Category], error)
	GetCategoryByID(userID, categoryID uint) (*models.Category, error)
	SeedDefaults(tx *gorm.DB, userID uint) error
}

// ExpenseFilter holds optional filter parameters for listing expenses.
type ExpenseFilter struct {
	FromDate   *time.Time
	ToDate     *time.Time
	CategoryID *uint
	Month      *int
	Year       *int
}

// ExpenseServicer defines the contract for ledger operations. SumForPeriod is
// the aggregation the alert evaluator reads.
type ExpenseServicer interface {
	CreateExpense(userID, categoryID uint, amount decimal.Decimal, date time.Time, description, sharedWith string) (*models.Expense, error)
	GetUserExpenses(userID uint, page pagination.PageRequest, filter ExpenseFilter) (*pagination.PageResponse[models.Expense], error)
	GetExpenseByID(userID, expenseID uint) (*models.Expense, error)
	UpdateExpense(userID, expenseID uint, categoryID *uint, amount *decimal.Decimal, date *time.Time, description *string) (*models.Expense, error)
	DeleteExpense(userID, expenseID uint) error
	SumForPeriod(userID, categoryID uint, month, year int) (decimal.Decimal, error)
}

// BudgetServicer defines the contract for budget threshold management.
// A budget is identified by its (user, category, month, year) period.
type BudgetServicer interface {
	UpsertBudget(userID, categoryID uint, month, year int, amount decimal.Decimal) (*models.Budget, error)
	GetUserBudgets(userID uint, month, year int, page pagination.PageRequest) (*pagination.PageResponse[models.Budget], error)
	GetForPeriod(userID, categoryID uint, month, year int) (*models.Budget, error)
	DeleteBudget(userID, budgetID uint) error
}

// AlertServicer defines the contract for the alert store. UpsertForPeriod is
// the atomic create-or-escalate write backing the evaluator; the returned
// bool reports whether the transition requires a notification.
type AlertServicer interface {
	List(userID uint, unreadOnly bool, page pagination.PageRequest) (*pagination.PageResponse[models.Alert], error)
	MarkRead(alertID, userID uint) error
	MarkNotified(alertID uint) error
	UpsertForPeriod(userID, categoryID uint, month, year int, actual, threshold decimal.Decimal, message string) (*models.Alert, bool, error)
}

// Evaluator decides whether spend in a period has crossed its configured
// threshold and drives the alert store and notifier accordingly.
type Evaluator interface {
	Evaluate(ctx context.Context, userID, categoryID uint, month, year int) (*models.Alert, error)
}

// Notifier delivers a notification for a newly-notifiable alert.
type Notifier interface {
	Notify(ctx context.Context, alert *models.Alert, user *models.User) error
}

// CategorySpending is one category's budget-vs-actual line in a report.
type CategorySpending struct {
	CategoryID uint            `json:"category_id"`
	Name       string          `json:"name"`
	Spent      decimal.Decimal `json:"spent"`
	Budget     decimal.Decimal `json:"budget"`
	Remaining  decimal.Decimal `json:"remaining"`
	Percent    float64         `json:"percent"`
}

// DailySpending is the total spend for one day of the reported month.
type DailySpending struct {
	Date   string          `json:"date"`
	Amount decimal.Decimal `json:"amount"`
}

// MonthlyReport aggregates budget vs actual for a user's month.
type MonthlyReport struct {
	Month            int                `json:"month"`
	Year             int                `json:"year"`
	CategorySpending []CategorySpending `json:"category_spending"`
	DailySpending    []DailySpending    `json:"daily_spending"`
	TotalSpent       decimal.Decimal    `json:"total_spent"`
	TotalBudget      decimal.Decimal    `json:"total_budget"`
}

// ReportServicer defines the contract for read-only reporting.
type ReportServicer interface {
	GetMonthlyReport(userID uint, month, year int) (*MonthlyReport, error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID uint, action, resourceType string, resourceID uint, ipAddress string, changes map[string]interface{})
}
