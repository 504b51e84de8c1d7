package models

import "time"

// GoalStatus represents the lifecycle state of a financial goal.
type GoalStatus string

const (
	GoalStatusActive    GoalStatus = "active"
	GoalStatusCompleted GoalStatus = "completed"
	GoalStatusCancelled GoalStatus = "cancelled"
)

// FinancialGoal represents a savings target the user is working toward.
type FinancialGoal struct {
	Base
	UserID        string     `gorm:"type:uuid;not null;index" json:"user_id"`
	Name          string     `gorm:"not null" json:"name"`
	Description   string     `json:"description"`
	TargetAmount  float64    `gorm:"not null" json:"target_amount"`
	CurrentAmount float64    `gorm:"default:0" json:"current_amount"`
	TargetDate    *time.Time `json:"target_date,omitempty"`
	Status        GoalStatus `gorm:"default:active" json:"status"`
}

// Percentage returns progress toward the target as a percentage,
// 0 when the target amount is not positive.
func (g *FinancialGoal) Percentage() float64 {
	if g.TargetAmount <= 0 {
		return 0
	}
	return g.CurrentAmount / g.TargetAmount * 100
}
