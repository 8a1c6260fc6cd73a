package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"spendwatch/internal/models"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, db, email)
}

// CreateTestUserWithEmail creates a user with the given email.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:                email,
		Password:             string(hash),
		NotificationsEnabled: true,
		IsActive:             true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestCategory creates a category with a unique name.
func CreateTestCategory(t *testing.T, db *gorm.DB, userID uint) *models.Category {
	t.Helper()
	return CreateTestCategoryWithName(t, db, userID, fmt.Sprintf("Test Category %d", nextID()))
}

// CreateTestCategoryWithName creates a category with the given name.
func CreateTestCategoryWithName(t *testing.T, db *gorm.DB, userID uint, name string) *models.Category {
	t.Helper()

	category := &models.Category{
		UserID: userID,
		Name:   name,
	}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

// CreateTestExpense creates an expense with the given amount at the given date.
func CreateTestExpense(t *testing.T, db *gorm.DB, userID, categoryID uint, amount decimal.Decimal, date time.Time) *models.Expense {
	t.Helper()

	expense := &models.Expense{
		UserID:     userID,
		CategoryID: categoryID,
		Amount:     amount,
		Date:       date,
	}
	if err := db.Create(expense).Error; err != nil {
		t.Fatalf("failed to create test expense: %v", err)
	}
	return expense
}

// CreateTestBudget creates a budget for the given category and period.
func CreateTestBudget(t *testing.T, db *gorm.DB, userID, categoryID uint, month, year int, amount decimal.Decimal) *models.Budget {
	t.Helper()

	budget := &models.Budget{
		UserID:     userID,
		CategoryID: categoryID,
		Month:      month,
		Year:       year,
		Amount:     amount,
	}
	if err := db.Create(budget).Error; err != nil {
		t.Fatalf("failed to create test budget: %v", err)
	}
	return budget
}

// CreateTestAlert creates an alert row for the given period.
func CreateTestAlert(t *testing.T, db *gorm.DB, userID, categoryID uint, month, year int, actual, threshold decimal.Decimal) *models.Alert {
	t.Helper()

	alert := &models.Alert{
		UserID:          userID,
		CategoryID:      categoryID,
		Month:           month,
		Year:            year,
		ActualAmount:    actual,
		ThresholdAmount: threshold,
		Message:         fmt.Sprintf("Test alert %d", nextID()),
	}
	if err := db.Create(alert).Error; err != nil {
		t.Fatalf("failed to create test alert: %v", err)
	}
	return alert
}
