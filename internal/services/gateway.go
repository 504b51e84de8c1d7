package services

import (
	"context"
	"time"

	"gorm.io/gorm"

	apperrors "finsight/internal/errors"
	"finsight/internal/models"
	"finsight/internal/period"
)

// uncategorizedName is the synthetic bucket for expense transactions
// that carry no category reference.
const uncategorizedName = "Uncategorized"

// AmountSign filters transaction aggregation by amount sign.
type AmountSign int

const (
	SignIncome  AmountSign = iota // amount > 0
	SignExpense                   // amount < 0
)

// CategorySpendRow is one grouped aggregate row: absolute summed expense
// amount and transaction count for a category within a window.
type CategorySpendRow struct {
	CategoryID   *string
	CategoryName string
	Amount       float64
	Count        int
}

// AggregateReader is the aggregation gateway: the sole storage interface
// the dashboard core composes. All operations are read-only, free of
// side effects, and safe to invoke concurrently. Storage failures are
// surfaced as ErrDataUnavailable; the composer aborts on the first one.
type AggregateReader interface {
	SumAmount(ctx context.Context, userID string, w period.Window, sign AmountSign) (float64, error)
	SpendByCategory(ctx context.Context, userID string, w period.Window) ([]CategorySpendRow, error)
	SpendForCategory(ctx context.Context, userID string, w period.Window, categoryID string) (float64, error)
	RecentTransactions(ctx context.Context, userID string, limit int) ([]models.Transaction, error)
	TransactionsByCategory(ctx context.Context, userID, categoryID string, w period.Window) ([]models.Transaction, error)
	BudgetLines(ctx context.Context, userID string, monthAnchor time.Time) ([]models.Budget, error)
	ListGoals(ctx context.Context, userID string) ([]models.FinancialGoal, error)
}

// gormAggregateReader implements AggregateReader over GORM.
type gormAggregateReader struct {
	db *gorm.DB
}

// NewAggregateReader creates the GORM-backed aggregation gateway.
func NewAggregateReader(db *gorm.DB) AggregateReader {
	return &gormAggregateReader{db: db}
}

// SumAmount returns the signed total of transactions in the window whose
// amount matches the requested sign. A missing aggregate (no rows) is zero.
func (r *gormAggregateReader) SumAmount(ctx context.Context, userID string, w period.Window, sign AmountSign) (float64, error) {
	q := r.db.WithContext(ctx).Model(&models.Transaction{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("user_id = ? AND date BETWEEN ? AND ?", userID, w.Start, w.End)

	if sign == SignIncome {
		q = q.Where("amount > 0")
	} else {
		q = q.Where("amount < 0")
	}

	var total float64
	if err := q.Scan(&total).Error; err != nil {
		return 0, apperrors.Wrap(apperrors.ErrDataUnavailable, err)
	}
	return total, nil
}

// spendRow is the raw scan target for the grouped expense query.
type spendRow struct {
	CategoryID *string `gorm:"column:category_id"`
	Name       *string `gorm:"column:category_name"`
	Total      float64 `gorm:"column:total"`
	TxCount    int     `gorm:"column:tx_count"`
}

// SpendByCategory groups expense transactions in the window by category.
// Amounts are returned as absolute values; uncategorized transactions
// fold into a single synthetic bucket.
func (r *gormAggregateReader) SpendByCategory(ctx context.Context, userID string, w period.Window) ([]CategorySpendRow, error) {
	var rows []spendRow
	err := r.db.WithContext(ctx).Model(&models.Transaction{}).
		Select("transactions.category_id AS category_id, categories.name AS category_name, SUM(-transactions.amount) AS total, COUNT(*) AS tx_count").
		Joins("LEFT JOIN categories ON categories.id = transactions.category_id AND categories.deleted_at IS NULL").
		Where("transactions.user_id = ? AND transactions.amount < 0 AND transactions.date BETWEEN ? AND ?", userID, w.Start, w.End).
		Group("transactions.category_id, categories.name").
		Scan(&rows).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrDataUnavailable, err)
	}

	result := make([]CategorySpendRow, len(rows))
	for i, row := range rows {
		name := uncategorizedName
		if row.Name != nil && *row.Name != "" {
			name = *row.Name
		}
		result[i] = CategorySpendRow{
			CategoryID:   row.CategoryID,
			CategoryName: name,
			Amount:       row.Total,
			Count:        row.TxCount,
		}
	}
	return result, nil
}

// SpendForCategory returns the absolute expense total for one category
// within the window.
func (r *gormAggregateReader) SpendForCategory(ctx context.Context, userID string, w period.Window, categoryID string) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).Model(&models.Transaction{}).
		Select("COALESCE(SUM(-amount), 0)").
		Where("user_id = ? AND category_id = ? AND amount < 0 AND date BETWEEN ? AND ?",
			userID, categoryID, w.Start, w.End).
		Scan(&total).Error
	if err != nil {
		return 0, apperrors.Wrap(apperrors.ErrDataUnavailable, err)
	}
	return total, nil
}

// RecentTransactions returns the most recent transactions irrespective
// of window, newest first, with category and merchant display fields
// resolved.
func (r *gormAggregateReader) RecentTransactions(ctx context.Context, userID string, limit int) ([]models.Transaction, error) {
	var transactions []models.Transaction
	err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Merchant").
		Where("user_id = ?", userID).
		Order("date DESC").
		Limit(limit).
		Find(&transactions).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrDataUnavailable, err)
	}
	return transactions, nil
}

// TransactionsByCategory returns all window transactions for one
// category, newest first.
func (r *gormAggregateReader) TransactionsByCategory(ctx context.Context, userID, categoryID string, w period.Window) ([]models.Transaction, error) {
	var transactions []models.Transaction
	err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Merchant").
		Where("user_id = ? AND category_id = ? AND date BETWEEN ? AND ?", userID, categoryID, w.Start, w.End).
		Order("date DESC").
		Find(&transactions).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrDataUnavailable, err)
	}
	return transactions, nil
}

// BudgetLines returns all budget rows for the calendar month containing
// the anchor, category names resolved.
func (r *gormAggregateReader) BudgetLines(ctx context.Context, userID string, monthAnchor time.Time) ([]models.Budget, error) {
	monthStart := time.Date(monthAnchor.Year(), monthAnchor.Month(), 1, 0, 0, 0, 0, monthAnchor.Location())
	nextMonth := monthStart.AddDate(0, 1, 0)

	var budgets []models.Budget
	err := r.db.WithContext(ctx).
		Preload("Category").
		Where("user_id = ? AND month >= ? AND month < ?", userID, monthStart, nextMonth).
		Find(&budgets).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrDataUnavailable, err)
	}
	return budgets, nil
}

// ListGoals returns the user's goals, newest first.
func (r *gormAggregateReader) ListGoals(ctx context.Context, userID string) ([]models.FinancialGoal, error) {
	var goals []models.FinancialGoal
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&goals).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrDataUnavailable, err)
	}
	return goals, nil
}
