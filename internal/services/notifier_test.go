package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"

	"spendwatch/internal/testutil"
)

func TestNotify(t *testing.T) {
	ctx := context.Background()

	t.Run("sends_and_marks_notified", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		alerts := NewAlertService(db)
		sender := &fakeSender{}
		notifier := NewEmailNotifier(alerts, sender, 2*time.Second, NewMetrics(prometheus.NewRegistry()))
		user := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategory(t, db, user.ID)
		alert := testutil.CreateTestAlert(t, db, user.ID, cat.ID, 6, 2025, decimal.NewFromInt(220), decimal.NewFromInt(200))

		testutil.AssertNoError(t, notifier.Notify(ctx, alert, user))

		if sender.count() != 1 {
			t.Fatalf("expected 1 email, got %d", sender.count())
		}
		if sender.sent[0].To != user.Email {
			t.Errorf("expected recipient %s, got %s", user.Email, sender.sent[0].To)
		}
		if !strings.Contains(sender.sent[0].Subject, "June 2025") {
			t.Errorf("expected subject to name the period, got %q", sender.sent[0].Subject)
		}
		if !alert.Notified {
			t.Error("expected in-memory alert marked notified")
		}

		var notified bool
		db.Table("alerts").Where("id = ?", alert.ID).Select("notified").Scan(&notified)
		if !notified {
			t.Error("expected persisted notified flag")
		}
	})

	t.Run("skips_already_notified", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		alerts := NewAlertService(db)
		sender := &fakeSender{}
		notifier := NewEmailNotifier(alerts, sender, 2*time.Second, NewMetrics(prometheus.NewRegistry()))
		user := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategory(t, db, user.ID)
		alert := testutil.CreateTestAlert(t, db, user.ID, cat.ID, 6, 2025, decimal.NewFromInt(220), decimal.NewFromInt(200))
		alert.Notified = true

		testutil.AssertNoError(t, notifier.Notify(ctx, alert, user))

		if sender.count() != 0 {
			t.Errorf("expected no email for notified alert, got %d", sender.count())
		}
	})

	t.Run("skips_opted_out_user", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		alerts := NewAlertService(db)
		sender := &fakeSender{}
		notifier := NewEmailNotifier(alerts, sender, 2*time.Second, NewMetrics(prometheus.NewRegistry()))
		user := testutil.CreateTestUser(t, db)
		user.NotificationsEnabled = false
		cat := testutil.CreateTestCategory(t, db, user.ID)
		alert := testutil.CreateTestAlert(t, db, user.ID, cat.ID, 6, 2025, decimal.NewFromInt(220), decimal.NewFromInt(200))

		testutil.AssertNoError(t, notifier.Notify(ctx, alert, user))

		if sender.count() != 0 {
			t.Errorf("expected no email for opted-out user, got %d", sender.count())
		}
		if alert.Notified {
			t.Error("skipped alert must stay unnotified")
		}
	})

	t.Run("transport_failure_leaves_alert_unnotified", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		alerts := NewAlertService(db)
		sender := &fakeSender{err: errors.New("connection refused")}
		notifier := NewEmailNotifier(alerts, sender, 2*time.Second, NewMetrics(prometheus.NewRegistry()))
		user := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategory(t, db, user.ID)
		alert := testutil.CreateTestAlert(t, db, user.ID, cat.ID, 6, 2025, decimal.NewFromInt(220), decimal.NewFromInt(200))

		err := notifier.Notify(ctx, alert, user)
		testutil.AssertAppError(t, err, "NOTIFICATION_FAILED")

		if alert.Notified {
			t.Error("failed delivery must leave the alert unnotified")
		}
	})

	t.Run("slow_relay_times_out", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		alerts := NewAlertService(db)
		sender := &fakeSender{delay: 200 * time.Millisecond}
		notifier := NewEmailNotifier(alerts, sender, 10*time.Millisecond, NewMetrics(prometheus.NewRegistry()))
		user := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategory(t, db, user.ID)
		alert := testutil.CreateTestAlert(t, db, user.ID, cat.ID, 6, 2025, decimal.NewFromInt(220), decimal.NewFromInt(200))

		err := notifier.Notify(ctx, alert, user)
		testutil.AssertAppError(t, err, "NOTIFICATION_FAILED")
	})
}
