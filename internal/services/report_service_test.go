package services

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"spendwatch/internal/testutil"
)

func TestGetMonthlyReport(t *testing.T) {
	t.Run("aggregates_budget_vs_actual", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewReportService(db)
		user := testutil.CreateTestUser(t, db)
		food := testutil.CreateTestCategoryWithName(t, db, user.ID, "Food")
		travel := testutil.CreateTestCategoryWithName(t, db, user.ID, "Travel")

		testutil.CreateTestBudget(t, db, user.ID, food.ID, 6, 2025, decimal.NewFromInt(200))
		testutil.CreateTestExpense(t, db, user.ID, food.ID, decimal.NewFromInt(80), time.Date(2025, 6, 5, 0, 0, 0, 0, time.UTC))
		testutil.CreateTestExpense(t, db, user.ID, food.ID, decimal.NewFromInt(20), time.Date(2025, 6, 12, 0, 0, 0, 0, time.UTC))
		testutil.CreateTestExpense(t, db, user.ID, travel.ID, decimal.NewFromInt(50), time.Date(2025, 6, 5, 0, 0, 0, 0, time.UTC))
		// Out-of-period spend must not appear.
		testutil.CreateTestExpense(t, db, user.ID, food.ID, decimal.NewFromInt(500), time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC))

		report, err := svc.GetMonthlyReport(user.ID, 6, 2025)
		testutil.AssertNoError(t, err)

		if len(report.CategorySpending) != 2 {
			t.Fatalf("expected 2 category lines, got %d", len(report.CategorySpending))
		}

		var foodLine, travelLine *CategorySpending
		for i := range report.CategorySpending {
			switch report.CategorySpending[i].CategoryID {
			case food.ID:
				foodLine = &report.CategorySpending[i]
			case travel.ID:
				travelLine = &report.CategorySpending[i]
			}
		}
		if foodLine == nil || travelLine == nil {
			t.Fatal("expected lines for both categories")
		}

		if !foodLine.Spent.Equal(decimal.NewFromInt(100)) {
			t.Errorf("expected Food spent 100, got %s", foodLine.Spent)
		}
		if !foodLine.Budget.Equal(decimal.NewFromInt(200)) {
			t.Errorf("expected Food budget 200, got %s", foodLine.Budget)
		}
		if !foodLine.Remaining.Equal(decimal.NewFromInt(100)) {
			t.Errorf("expected Food remaining 100, got %s", foodLine.Remaining)
		}
		if foodLine.Percent != 50 {
			t.Errorf("expected Food percent 50, got %f", foodLine.Percent)
		}

		// No budget configured for Travel.
		if !travelLine.Budget.IsZero() {
			t.Errorf("expected Travel budget 0, got %s", travelLine.Budget)
		}
		if travelLine.Percent != 0 {
			t.Errorf("expected Travel percent 0, got %f", travelLine.Percent)
		}

		if !report.TotalSpent.Equal(decimal.NewFromInt(150)) {
			t.Errorf("expected total spent 150, got %s", report.TotalSpent)
		}
		if !report.TotalBudget.Equal(decimal.NewFromInt(200)) {
			t.Errorf("expected total budget 200, got %s", report.TotalBudget)
		}

		// Two distinct spending days in June.
		if len(report.DailySpending) != 2 {
			t.Errorf("expected 2 daily entries, got %d", len(report.DailySpending))
		}
	})

	t.Run("empty_month", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewReportService(db)
		user := testutil.CreateTestUser(t, db)
		testutil.CreateTestCategoryWithName(t, db, user.ID, "Food")

		report, err := svc.GetMonthlyReport(user.ID, 6, 2025)
		testutil.AssertNoError(t, err)

		if !report.TotalSpent.IsZero() {
			t.Errorf("expected zero total, got %s", report.TotalSpent)
		}
		if len(report.CategorySpending) != 1 {
			t.Errorf("inactive categories should still appear, got %d lines", len(report.CategorySpending))
		}
		if len(report.DailySpending) != 0 {
			t.Errorf("expected no daily entries, got %d", len(report.DailySpending))
		}
	})

	t.Run("invalid_period", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewReportService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.GetMonthlyReport(user.ID, 0, 2025)
		testutil.AssertAppError(t, err, "INVALID_PERIOD")
	})
}
