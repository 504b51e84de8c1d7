package models

import "time"

// Transaction represents a financial transaction. Amount is signed:
// positive values are income, negative values are expenses. Transactions
// are immutable once written; the dashboard only ever reads them.
type Transaction struct {
	Base
	UserID      string    `gorm:"type:uuid;not null;index" json:"user_id"`
	Date        time.Time `gorm:"not null;index" json:"date"`
	Amount      float64   `gorm:"not null" json:"amount"`
	Description string    `json:"description"`
	CategoryID  *string   `gorm:"type:uuid" json:"category_id,omitempty"`
	MerchantID  *string   `gorm:"type:uuid" json:"merchant_id,omitempty"`

	// Relationships
	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Merchant *Merchant `gorm:"foreignKey:MerchantID" json:"merchant,omitempty"`
}

// IsExpense reports whether the transaction is an expense.
func (t *Transaction) IsExpense() bool { return t.Amount < 0 }

// IsIncome reports whether the transaction is income.
func (t *Transaction) IsIncome() bool { return t.Amount > 0 }
