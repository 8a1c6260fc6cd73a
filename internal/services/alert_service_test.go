package services

import (
	"testing"

	"github.com/shopspring/decimal"

	"spendwatch/internal/pagination"
	"spendwatch/internal/testutil"
)

func TestListAlerts(t *testing.T) {
	t.Run("returns_user_alerts_only", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAlertService(db)
		user1 := testutil.CreateTestUser(t, db)
		user2 := testutil.CreateTestUser(t, db)
		cat1 := testutil.CreateTestCategory(t, db, user1.ID)
		cat2 := testutil.CreateTestCategory(t, db, user2.ID)

		testutil.CreateTestAlert(t, db, user1.ID, cat1.ID, 5, 2025, decimal.NewFromInt(120), decimal.NewFromInt(100))
		testutil.CreateTestAlert(t, db, user1.ID, cat1.ID, 6, 2025, decimal.NewFromInt(130), decimal.NewFromInt(100))
		testutil.CreateTestAlert(t, db, user2.ID, cat2.ID, 6, 2025, decimal.NewFromInt(140), decimal.NewFromInt(100))

		page := pagination.PageRequest{Page: 1, PageSize: 20}
		result, err := svc.List(user1.ID, false, page)
		testutil.AssertNoError(t, err)

		if result.TotalItems != 2 {
			t.Errorf("expected 2 alerts, got %d", result.TotalItems)
		}
	})

	t.Run("unread_only_filter", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAlertService(db)
		user := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategory(t, db, user.ID)

		read := testutil.CreateTestAlert(t, db, user.ID, cat.ID, 5, 2025, decimal.NewFromInt(120), decimal.NewFromInt(100))
		testutil.CreateTestAlert(t, db, user.ID, cat.ID, 6, 2025, decimal.NewFromInt(130), decimal.NewFromInt(100))
		testutil.AssertNoError(t, svc.MarkRead(read.ID, user.ID))

		page := pagination.PageRequest{Page: 1, PageSize: 20}
		result, err := svc.List(user.ID, true, page)
		testutil.AssertNoError(t, err)

		if result.TotalItems != 1 {
			t.Fatalf("expected 1 unread alert, got %d", result.TotalItems)
		}
		if result.Data[0].Month != 6 {
			t.Errorf("expected the June alert, got month %d", result.Data[0].Month)
		}
	})
}

func TestMarkRead(t *testing.T) {
	t.Run("marks_alert_read", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAlertService(db)
		user := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategory(t, db, user.ID)
		alert := testutil.CreateTestAlert(t, db, user.ID, cat.ID, 6, 2025, decimal.NewFromInt(120), decimal.NewFromInt(100))

		testutil.AssertNoError(t, svc.MarkRead(alert.ID, user.ID))

		page := pagination.PageRequest{Page: 1, PageSize: 20}
		result, err := svc.List(user.ID, true, page)
		testutil.AssertNoError(t, err)
		if result.TotalItems != 0 {
			t.Errorf("expected no unread alerts, got %d", result.TotalItems)
		}
	})

	t.Run("foreign_alert_reads_as_not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAlertService(db)
		owner := testutil.CreateTestUser(t, db)
		intruder := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategory(t, db, owner.ID)
		alert := testutil.CreateTestAlert(t, db, owner.ID, cat.ID, 6, 2025, decimal.NewFromInt(120), decimal.NewFromInt(100))

		err := svc.MarkRead(alert.ID, intruder.ID)
		testutil.AssertAppError(t, err, "ALERT_NOT_FOUND")

		// The owner's alert must be untouched.
		page := pagination.PageRequest{Page: 1, PageSize: 20}
		result, err := svc.List(owner.ID, true, page)
		testutil.AssertNoError(t, err)
		if result.TotalItems != 1 {
			t.Error("foreign mark_read must not mutate the alert")
		}
	})

	t.Run("missing_alert", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAlertService(db)
		user := testutil.CreateTestUser(t, db)

		err := svc.MarkRead(9999, user.ID)
		testutil.AssertAppError(t, err, "ALERT_NOT_FOUND")
	})
}

func TestUpsertForPeriod(t *testing.T) {
	t.Run("creates_new_alert", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAlertService(db)
		user := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategory(t, db, user.ID)

		alert, notify, err := svc.UpsertForPeriod(user.ID, cat.ID, 6, 2025, decimal.NewFromInt(220), decimal.NewFromInt(200), "over budget")
		testutil.AssertNoError(t, err)

		if !notify {
			t.Error("new alert should request notification")
		}
		if alert.ID == 0 {
			t.Fatal("expected persisted alert")
		}
		if alert.IsRead || alert.Notified {
			t.Error("new alert should be unread and unnotified")
		}
	})

	t.Run("escalates_on_higher_spend", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAlertService(db)
		user := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategory(t, db, user.ID)

		first, _, err := svc.UpsertForPeriod(user.ID, cat.ID, 6, 2025, decimal.NewFromInt(220), decimal.NewFromInt(200), "over budget")
		testutil.AssertNoError(t, err)
		testutil.AssertNoError(t, svc.MarkNotified(first.ID))
		testutil.AssertNoError(t, svc.MarkRead(first.ID, user.ID))

		second, notify, err := svc.UpsertForPeriod(user.ID, cat.ID, 6, 2025, decimal.NewFromInt(230), decimal.NewFromInt(200), "over budget again")
		testutil.AssertNoError(t, err)

		if notify {
			t.Error("already-notified alert must not request a second notification")
		}
		if second.ID != first.ID {
			t.Error("escalation must reuse the period's row")
		}
		if !second.ActualAmount.Equal(decimal.NewFromInt(230)) {
			t.Errorf("expected escalated actual 230, got %s", second.ActualAmount)
		}
		if second.IsRead {
			t.Error("escalation should flip the alert back to unread")
		}
		if !second.Notified {
			t.Error("escalation must not reset the notified flag")
		}
	})

	t.Run("lower_spend_does_not_regress_snapshot", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAlertService(db)
		user := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategory(t, db, user.ID)

		_, _, err := svc.UpsertForPeriod(user.ID, cat.ID, 6, 2025, decimal.NewFromInt(250), decimal.NewFromInt(200), "over budget")
		testutil.AssertNoError(t, err)

		alert, _, err := svc.UpsertForPeriod(user.ID, cat.ID, 6, 2025, decimal.NewFromInt(210), decimal.NewFromInt(200), "smaller")
		testutil.AssertNoError(t, err)

		if !alert.ActualAmount.Equal(decimal.NewFromInt(250)) {
			t.Errorf("guarded update must keep the higher snapshot, got %s", alert.ActualAmount)
		}
	})

	t.Run("unnotified_existing_alert_requests_retry", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAlertService(db)
		user := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategory(t, db, user.ID)

		_, _, err := svc.UpsertForPeriod(user.ID, cat.ID, 6, 2025, decimal.NewFromInt(220), decimal.NewFromInt(200), "over budget")
		testutil.AssertNoError(t, err)

		// Delivery never happened, so the next evaluation should retry.
		_, notify, err := svc.UpsertForPeriod(user.ID, cat.ID, 6, 2025, decimal.NewFromInt(220), decimal.NewFromInt(200), "over budget")
		testutil.AssertNoError(t, err)
		if !notify {
			t.Error("unnotified alert should request notification again")
		}
	})

	t.Run("single_row_per_period", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAlertService(db)
		user := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategory(t, db, user.ID)

		for i := 0; i < 5; i++ {
			amount := decimal.NewFromInt(int64(200 + i*10))
			_, _, err := svc.UpsertForPeriod(user.ID, cat.ID, 6, 2025, amount, decimal.NewFromInt(200), "over budget")
			testutil.AssertNoError(t, err)
		}

		var count int64
		db.Table("alerts").Where("user_id = ? AND category_id = ?", user.ID, cat.ID).Count(&count)
		if count != 1 {
			t.Errorf("expected a single alert row for the period, got %d", count)
		}
	})
}
