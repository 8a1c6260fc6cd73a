package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense represents a single spend record in a user's ledger
type Expense struct {
	Base
	UserID      uint            `gorm:"not null;index" json:"user_id"`
	CategoryID  uint            `gorm:"not null;index" json:"category_id"`
	Amount      decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	Date        time.Time       `gorm:"not null" json:"date"`
	Description string          `json:"description"`
	SharedWith  string          `json:"shared_with"`

	// Relationships
	Category Category `gorm:"foreignKey:CategoryID" json:"category"`
}
