package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Budget is the spend ceiling configured for one (user, category, month, year)
// period. Amount is the threshold the alert evaluator compares spend against.
// Budgets are hard-deleted so a removed period can be re-created without
// tripping the uniqueness constraint.
type Budget struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	UserID     uint            `gorm:"not null;uniqueIndex:idx_budgets_period" json:"user_id"`
	CategoryID uint            `gorm:"not null;uniqueIndex:idx_budgets_period" json:"category_id"`
	Month      int             `gorm:"not null;uniqueIndex:idx_budgets_period" json:"month"`
	Year       int             `gorm:"not null;uniqueIndex:idx_budgets_period" json:"year"`
	Amount     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`

	// Relationships
	Category Category `gorm:"foreignKey:CategoryID" json:"category"`
}
