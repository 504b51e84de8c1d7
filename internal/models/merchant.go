package models

// Merchant represents a payee resolved from transaction data.
type Merchant struct {
	Base
	UserID string `gorm:"type:uuid;not null;index" json:"user_id"`
	Name   string `gorm:"not null" json:"name"`
}
