package models

// Category represents an expense category owned by a user
type Category struct {
	Base
	UserID      uint   `gorm:"not null;uniqueIndex:idx_categories_user_name" json:"user_id"`
	Name        string `gorm:"not null;uniqueIndex:idx_categories_user_name" json:"name"`
	Description string `json:"description"`

	// Relationships
	Expenses []Expense `gorm:"foreignKey:CategoryID" json:"expenses,omitempty"`
	Budgets  []Budget  `gorm:"foreignKey:CategoryID" json:"budgets,omitempty"`
}

// DefaultCategoryNames are seeded for every new user at registration.
var DefaultCategoryNames = []string{
	"Food", "Transport", "Entertainment", "Housing", "Utilities",
	"Healthcare", "Shopping", "Education", "Travel", "Other",
}
