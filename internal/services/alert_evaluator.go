package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	apperrors "spendwatch/internal/errors"
	"spendwatch/internal/logger"
	"spendwatch/internal/models"
)

// alertEvaluator compares cumulative period spend against the configured
// budget and drives the alert store and notifier. Evaluations run after
// every expense or budget write for the affected period.
type alertEvaluator struct {
	users      UserServicer
	categories CategoryServicer
	budgets    BudgetServicer
	expenses   ExpenseServicer
	alerts     AlertServicer
	notifier   Notifier
	metrics    *Metrics
}

// NewAlertEvaluator creates a new Evaluator.
func NewAlertEvaluator(users UserServicer, categories CategoryServicer, budgets BudgetServicer, expenses ExpenseServicer, alerts AlertServicer, notifier Notifier, metrics *Metrics) Evaluator {
	return &alertEvaluator{
		users:      users,
		categories: categories,
		budgets:    budgets,
		expenses:   expenses,
		alerts:     alerts,
		notifier:   notifier,
		metrics:    metrics,
	}
}

// Evaluate checks one (user, category, month, year) period. Returns the
// period's alert when spend exceeds the budget, nil when no budget is set or
// spend is within it. Notification failures are logged, never returned: the
// triggering request must not fail because the mail relay is down.
func (e *alertEvaluator) Evaluate(ctx context.Context, userID, categoryID uint, month, year int) (*models.Alert, error) {
	start := time.Now()

	if err := validatePeriod(month, year); err != nil {
		return nil, err
	}

	user, err := e.users.GetUserByID(userID)
	if err != nil {
		return nil, err
	}

	budget, err := e.budgets.GetForPeriod(userID, categoryID, month, year)
	if err != nil {
		if errors.Is(err, apperrors.ErrBudgetNotFound) {
			e.metrics.ObserveEvaluation(OutcomeNoBudget, time.Since(start))
			return nil, nil
		}
		return nil, err
	}

	actual, err := e.expenses.SumForPeriod(userID, categoryID, month, year)
	if err != nil {
		return nil, err
	}

	// Spend at or under the threshold never alerts. Crossing is strict.
	if actual.LessThanOrEqual(budget.Amount) {
		e.metrics.ObserveEvaluation(OutcomeUnder, time.Since(start))
		return nil, nil
	}

	category, err := e.categories.GetCategoryByID(userID, categoryID)
	if err != nil {
		return nil, err
	}

	message := fmt.Sprintf("Budget exceeded for %s in %s %d: spent %s of %s",
		category.Name, time.Month(month), year, actual.StringFixed(2), budget.Amount.StringFixed(2))

	alert, notify, err := e.alerts.UpsertForPeriod(userID, categoryID, month, year, actual, budget.Amount, message)
	if err != nil {
		return nil, err
	}

	if notify {
		e.metrics.AlertRaised()
		e.metrics.ObserveEvaluation(OutcomeRaised, time.Since(start))
	} else {
		e.metrics.ObserveEvaluation(OutcomeEscalated, time.Since(start))
	}

	if notify {
		if err := e.notifier.Notify(ctx, alert, user); err != nil {
			logger.Get().Errorw("Alert notification failed",
				"user_id", userID,
				"alert_id", alert.ID,
				"error", err,
			)
		}
	}

	return alert, nil
}
