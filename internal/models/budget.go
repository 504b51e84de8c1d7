package models

import "time"

// Budget represents a monthly spending ceiling for one category.
// Month is a first-of-month anchor date; there is exactly one budget
// line per (user, category, month).
type Budget struct {
	Base
	UserID     string    `gorm:"type:uuid;not null;index" json:"user_id"`
	CategoryID string    `gorm:"type:uuid;not null" json:"category_id"`
	Month      time.Time `gorm:"not null;index" json:"month"`
	Amount     float64   `gorm:"not null" json:"amount"`

	// Relationships
	Category Category `gorm:"foreignKey:CategoryID" json:"category"`
}
