package services

import (
	"context"
	"time"

	"finsight/internal/models"
	"finsight/internal/pagination"
	"finsight/internal/period"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(email, password, firstName, lastName string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
}

// CategoryServicer defines the contract for category-related business logic.
type CategoryServicer interface {
	CreateCategory(userID, name, icon, color string) (*models.Category, error)
	GetUserCategories(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Category], error)
	GetCategoryByID(userID, categoryID string) (*models.Category, error)
	UpdateCategory(userID, categoryID, name, icon, color string) (*models.Category, error)
	DeleteCategory(userID, categoryID string) error
}

// TransactionFilter holds optional filter parameters for listing transactions.
type TransactionFilter struct {
	FromDate   *time.Time
	ToDate     *time.Time
	CategoryID *string
	// ExpensesOnly/IncomeOnly filter by amount sign.
	ExpensesOnly bool
	IncomeOnly   bool
}

// TransactionServicer defines the contract for transaction-related business logic.
type TransactionServicer interface {
	CreateTransaction(userID string, date time.Time, amount float64, description string, categoryID, merchantID *string) (*models.Transaction, error)
	GetUserTransactions(userID string, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
	GetTransactionByID(userID, transactionID string) (*models.Transaction, error)
	DeleteTransaction(userID, transactionID string) error
}

// BudgetServicer defines the contract for budget-related business logic.
type BudgetServicer interface {
	CreateBudget(userID, categoryID string, month time.Time, amount float64) (*models.Budget, error)
	GetBudgetsForMonth(userID string, month time.Time) ([]models.Budget, error)
	GetBudgetByID(userID, budgetID string) (*models.Budget, error)
	UpdateBudget(userID, budgetID string, amount float64) (*models.Budget, error)
	DeleteBudget(userID, budgetID string) error
}

// GoalServicer defines the contract for financial-goal business logic.
type GoalServicer interface {
	CreateGoal(userID, name, description string, targetAmount float64, targetDate *time.Time) (*models.FinancialGoal, error)
	GetUserGoals(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.FinancialGoal], error)
	GetGoalByID(userID, goalID string) (*models.FinancialGoal, error)
	UpdateGoalProgress(userID, goalID string, currentAmount float64) (*models.FinancialGoal, error)
	UpdateGoalStatus(userID, goalID string, status models.GoalStatus) (*models.FinancialGoal, error)
	DeleteGoal(userID, goalID string) error
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID, action, resourceType, resourceID, ipAddress string, changes map[string]interface{})
}

// Trend classifies a category's spend against the immediately preceding
// equal-length window.
type Trend string

const (
	TrendUp     Trend = "up"
	TrendDown   Trend = "down"
	TrendStable Trend = "stable"
)

// BudgetStatus classifies actual spend against a budget ceiling.
type BudgetStatus string

const (
	BudgetStatusOver    BudgetStatus = "over"
	BudgetStatusOnTrack BudgetStatus = "on_track"
	BudgetStatusUnder   BudgetStatus = "under"
)

// InsightType is the severity/flavor of an advisory insight.
type InsightType string

const (
	InsightTypeWarning InsightType = "warning"
	InsightTypeInfo    InsightType = "info"
	InsightTypeSuccess InsightType = "success"
)

// FinancialSummary holds the headline figures for one period.
// Expenses is surfaced as an absolute value; Savings is signed and may
// be negative.
type FinancialSummary struct {
	Period   period.Period `json:"period"`
	Income   float64       `json:"income"`
	Expenses float64       `json:"expenses"`
	Savings  float64       `json:"savings"`
	Budget   float64       `json:"budget"`
}

// SpendingByCategory is one row of the categorized spending breakdown.
type SpendingByCategory struct {
	CategoryID      *string `json:"category_id,omitempty"`
	Category        string  `json:"category"`
	Amount          float64 `json:"amount"`
	Count           int     `json:"transaction_count"`
	Percentage      float64 `json:"percentage"`
	Trend           Trend   `json:"trend"`
	TrendPercentage float64 `json:"trend_percentage"`
}

// BudgetComparison joins one budget line with actual spend for the period.
type BudgetComparison struct {
	BudgetID   string       `json:"budget_id"`
	CategoryID string       `json:"category_id"`
	Category   string       `json:"category"`
	Budget     float64      `json:"budget"`
	Actual     float64      `json:"actual"`
	Remaining  float64      `json:"remaining"`
	Percentage float64      `json:"percentage"`
	Status     BudgetStatus `json:"status"`
}

// GoalProgress is a goal decorated with its completion percentage.
type GoalProgress struct {
	ID            string            `json:"id"`
	Name          string            `json:"name"`
	Description   string            `json:"description,omitempty"`
	TargetAmount  float64           `json:"target_amount"`
	CurrentAmount float64           `json:"current_amount"`
	Percentage    float64           `json:"percentage"`
	TargetDate    *time.Time        `json:"target_date,omitempty"`
	Status        models.GoalStatus `json:"status"`
}

// Insight is an advisory message derived by a fixed rule from snapshot
// data. Insights are computed per request and never persisted.
type Insight struct {
	Type    InsightType `json:"type"`
	Title   string      `json:"title"`
	Message string      `json:"message"`
}

// DashboardSnapshot is the complete dashboard result for one request.
// It is constructed fresh on every call and fully determined by the
// underlying data at the retrieval instant; it is never cached or
// mutated after construction.
type DashboardSnapshot struct {
	Summary            FinancialSummary     `json:"summary"`
	SpendingByCategory []SpendingByCategory `json:"spending_by_category"`
	RecentTransactions []models.Transaction `json:"recent_transactions"`
	BudgetComparisons  []BudgetComparison   `json:"budget_comparisons"`
	Goals              []GoalProgress       `json:"goals"`
	Insights           []Insight            `json:"insights"`
	GeneratedAt        time.Time            `json:"generated_at"`
}

// MonthlyTrend is one month of the spending-trends series.
type MonthlyTrend struct {
	Month         string               `json:"month"`
	TotalSpending float64              `json:"total_spending"`
	Categories    []SpendingByCategory `json:"categories"`
}

// DashboardServicer defines the read-side dashboard operations exposed
// to the HTTP layer.
type DashboardServicer interface {
	GetDashboardData(ctx context.Context, userID string, p period.Period) (*DashboardSnapshot, error)
	GetTransactionsByCategory(ctx context.Context, userID, categoryID string, p period.Period) ([]models.Transaction, error)
	GetSpendingTrends(ctx context.Context, userID string, months int) ([]MonthlyTrend, error)
}
