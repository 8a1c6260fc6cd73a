package services

import (
	"context"
	"fmt"
	"time"

	apperrors "spendwatch/internal/errors"
	"spendwatch/internal/logger"
	"spendwatch/internal/mail"
	"spendwatch/internal/models"
)

// emailNotifier delivers budget alerts over email and records delivery in the
// alert store so each period notifies at most once.
type emailNotifier struct {
	alerts  AlertServicer
	sender  mail.Sender
	timeout time.Duration
	metrics *Metrics
}

// NewEmailNotifier creates a new email-backed Notifier.
func NewEmailNotifier(alerts AlertServicer, sender mail.Sender, timeout time.Duration, metrics *Metrics) Notifier {
	return &emailNotifier{
		alerts:  alerts,
		sender:  sender,
		timeout: timeout,
		metrics: metrics,
	}
}

// Notify sends the alert email and marks the alert notified on success.
// Skips silently when the alert was already delivered or the user has opted
// out. Delivery is bounded by the configured timeout.
func (n *emailNotifier) Notify(ctx context.Context, alert *models.Alert, user *models.User) error {
	if alert.Notified {
		n.metrics.NotificationAttempt(NotifySkipped)
		return nil
	}
	if !user.NotificationsEnabled {
		n.metrics.NotificationAttempt(NotifySkipped)
		logger.Get().Debugw("Skipping alert notification, user opted out",
			"user_id", user.ID,
			"alert_id", alert.ID,
		)
		return nil
	}

	subject := fmt.Sprintf("Budget alert for %s", alert.PeriodLabel())
	body := alert.Message

	ctx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		errCh <- n.sender.Send(user.Email, subject, body)
	}()

	select {
	case <-ctx.Done():
		n.metrics.NotificationAttempt(NotifyFailed)
		return apperrors.Wrap(apperrors.ErrNotificationFailed, ctx.Err())
	case err := <-errCh:
		if err != nil {
			n.metrics.NotificationAttempt(NotifyFailed)
			return apperrors.Wrap(apperrors.ErrNotificationFailed, err)
		}
	}

	if err := n.alerts.MarkNotified(alert.ID); err != nil {
		// The email went out but the flag did not stick. Log and report
		// success so a retry path can observe the flag on the next pass.
		logger.Get().Errorw("Failed to mark alert notified after delivery",
			"alert_id", alert.ID,
			"error", err,
		)
	}
	alert.Notified = true

	n.metrics.NotificationAttempt(NotifySent)
	logger.Get().Infow("Alert notification sent",
		"user_id", user.ID,
		"alert_id", alert.ID,
		"period", alert.PeriodLabel(),
	)
	return nil
}
