package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Alert records a threshold-exceedance event for one (user, category, month,
// year) period. ActualAmount and ThresholdAmount are snapshots taken at
// evaluation time; budgets can change retroactively and the alert must keep
// the condition that triggered it. At most one alert row exists per period,
// enforced by idx_alerts_period.
type Alert struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	UserID          uint            `gorm:"not null;uniqueIndex:idx_alerts_period" json:"user_id"`
	CategoryID      uint            `gorm:"not null;uniqueIndex:idx_alerts_period" json:"category_id"`
	Month           int             `gorm:"not null;uniqueIndex:idx_alerts_period" json:"month"`
	Year            int             `gorm:"not null;uniqueIndex:idx_alerts_period" json:"year"`
	ActualAmount    decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"actual_amount"`
	ThresholdAmount decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"threshold_amount"`
	Message         string          `json:"message"`
	IsRead          bool            `gorm:"column:is_read;default:false" json:"is_read"`
	Notified        bool            `gorm:"default:false" json:"notified"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`

	// Relationships
	Category Category `gorm:"foreignKey:CategoryID" json:"category"`
}

// PeriodLabel renders the alert's month and year for display and email bodies.
func (a *Alert) PeriodLabel() string {
	return fmt.Sprintf("%s %d", time.Month(a.Month), a.Year)
}
