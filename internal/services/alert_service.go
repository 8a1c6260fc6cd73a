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

// alertService is the persistent alert store. One row per
// (user, category, month, year) period, enforced by a unique index.
type alertService struct {
	db *gorm.DB
}

// NewAlertService creates a new AlertServicer.
func NewAlertService(db *gorm.DB) AlertServicer {
	return &alertService{db: db}
}

// List retrieves the user's alerts, newest first. With unreadOnly set, only
// alerts not yet marked read are returned.
func (s *alertService) List(userID uint, unreadOnly bool, page pagination.PageRequest) (*pagination.PageResponse[models.Alert], error) {
	page.Defaults()

	query := s.db.Model(&models.Alert{}).Where("user_id = ?", userID)
	if unreadOnly {
		query = query.Where("is_read = ?", false)
	}

	var totalItems int64
	if err := query.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var alerts []models.Alert
	if err := query.Preload("Category").
		Order("created_at DESC, id DESC").
		Scopes(pagination.Paginate(page)).
		Find(&alerts).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(alerts, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// MarkRead marks an alert as read. Ownership is enforced in the predicate so
// a foreign alert ID reads as not found.
func (s *alertService) MarkRead(alertID, userID uint) error {
	result := s.db.Model(&models.Alert{}).
		Where("id = ? AND user_id = ?", alertID, userID).
		Update("is_read", true)
	if result.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrAlertNotFound
	}
	return nil
}

// MarkNotified records that a notification was delivered for the alert.
// Never cleared afterwards, which is what makes delivery once-per-period.
func (s *alertService) MarkNotified(alertID uint) error {
	result := s.db.Model(&models.Alert{}).
		Where("id = ?", alertID).
		Update("notified", true)
	if result.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrAlertNotFound
	}
	return nil
}

// UpsertForPeriod creates the period's alert row, or escalates the existing
// one when the spend has grown. Concurrent evaluations of the same period
// race on the insert; the unique index guarantees a single row survives and
// the loser falls through to the escalation path.
//
// The returned bool reports whether the caller should notify: true for a
// newly created row, or for an existing row whose notification never landed.
func (s *alertService) UpsertForPeriod(userID, categoryID uint, month, year int, actual, threshold decimal.Decimal, message string) (*models.Alert, bool, error) {
	alert := &models.Alert{
		UserID:          userID,
		CategoryID:      categoryID,
		Month:           month,
		Year:            year,
		ActualAmount:    actual,
		ThresholdAmount: threshold,
		Message:         message,
	}

	result := s.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "user_id"}, {Name: "category_id"}, {Name: "month"}, {Name: "year"},
		},
		DoNothing: true,
	}).Create(alert)
	if result.Error != nil {
		return nil, false, apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected > 0 {
		return alert, true, nil
	}

	// Lost the insert race or the row predates this evaluation. Re-read the
	// surviving row and escalate it if the spend has grown.
	var existing models.Alert
	err := s.db.Where("user_id = ? AND category_id = ? AND month = ? AND year = ?", userID, categoryID, month, year).
		First(&existing).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, apperrors.ErrAlertNotFound
		}
		return nil, false, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	// Guarded update: only a strictly higher spend escalates, so concurrent
	// evaluations cannot regress the snapshot. Escalation re-surfaces the
	// alert as unread but never resets the notified flag.
	escalation := s.db.Model(&models.Alert{}).
		Where("id = ? AND actual_amount < ?", existing.ID, actual).
		Updates(map[string]interface{}{
			"actual_amount":    actual,
			"threshold_amount": threshold,
			"message":          message,
			"is_read":          false,
		})
	if escalation.Error != nil {
		return nil, false, apperrors.Wrap(apperrors.ErrInternalServer, escalation.Error)
	}

	if err := s.db.First(&existing, existing.ID).Error; err != nil {
		return nil, false, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return &existing, !existing.Notified, nil
}
