package services

import (
	"context"
	"math"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"finsight/internal/models"
	"finsight/internal/period"
)

// recentTransactionLimit caps the recent-transactions list on the dashboard.
const recentTransactionLimit = 10

// dashboardService computes the financial dashboard as a pure read-side
// projection: nothing it produces is persisted, and two calls over an
// unchanged dataset yield identical figures (timestamp excepted).
type dashboardService struct {
	reader AggregateReader
}

// NewDashboardService creates a new DashboardServicer.
func NewDashboardService(reader AggregateReader) DashboardServicer {
	return &dashboardService{reader: reader}
}

// GetDashboardData assembles the full dashboard snapshot for one period.
// The five independent data slices are fetched concurrently so latency is
// bounded by the slowest fetch; any single failure aborts the whole call.
// No partial snapshot is ever returned.
func (s *dashboardService) GetDashboardData(ctx context.Context, userID string, p period.Period) (*DashboardSnapshot, error) {
	w := period.Resolve(p, time.Now())

	var (
		summary     *FinancialSummary
		spend       []SpendingByCategory
		recent      []models.Transaction
		comparisons []BudgetComparison
		goals       []models.FinancialGoal
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		summary, err = s.computeSummary(gctx, userID, w, p)
		return err
	})
	g.Go(func() error {
		var err error
		spend, err = s.computeCategorySpend(gctx, userID, w)
		return err
	})
	g.Go(func() error {
		var err error
		recent, err = s.reader.RecentTransactions(gctx, userID, recentTransactionLimit)
		return err
	})
	g.Go(func() error {
		var err error
		comparisons, err = s.computeBudgetComparisons(gctx, userID, w)
		return err
	})
	g.Go(func() error {
		var err error
		goals, err = s.reader.ListGoals(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	progress := goalProgress(goals)

	return &DashboardSnapshot{
		Summary:            *summary,
		SpendingByCategory: spend,
		RecentTransactions: recent,
		BudgetComparisons:  comparisons,
		Goals:              progress,
		Insights:           BuildInsights(*summary, spend, comparisons, progress),
		GeneratedAt:        time.Now(),
	}, nil
}

// GetTransactionsByCategory returns all transactions for one category
// within the period's window, newest first.
func (s *dashboardService) GetTransactionsByCategory(ctx context.Context, userID, categoryID string, p period.Period) ([]models.Transaction, error) {
	w := period.Resolve(p, time.Now())
	return s.reader.TransactionsByCategory(ctx, userID, categoryID, w)
}

// GetSpendingTrends computes category spend for each of the last `months`
// calendar months, ending at the current month, oldest first. Each month
// is computed independently with the same analyzer the dashboard uses.
func (s *dashboardService) GetSpendingTrends(ctx context.Context, userID string, months int) ([]MonthlyTrend, error) {
	now := time.Now()
	trends := make([]MonthlyTrend, 0, months)

	for i := months - 1; i >= 0; i-- {
		monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -i, 0)
		w := period.MonthWindow(monthStart)

		spend, err := s.computeCategorySpend(ctx, userID, w)
		if err != nil {
			return nil, err
		}

		var total float64
		for _, row := range spend {
			total += row.Amount
		}

		trends = append(trends, MonthlyTrend{
			Month:         monthStart.Format("2006-01"),
			TotalSpending: total,
			Categories:    spend,
		})
	}
	return trends, nil
}

// computeSummary derives income, expenses, savings, and budget-for-period.
// The three aggregations are independent and run concurrently. Budget is
// pinned to the calendar month containing the window start; for a rolling
// 30-day window spanning two months this intentionally uses the start
// month's budget total rather than a blended figure.
func (s *dashboardService) computeSummary(ctx context.Context, userID string, w period.Window, p period.Period) (*FinancialSummary, error) {
	var income, expenseSum, budget float64

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		income, err = s.reader.SumAmount(gctx, userID, w, SignIncome)
		return err
	})
	g.Go(func() error {
		var err error
		expenseSum, err = s.reader.SumAmount(gctx, userID, w, SignExpense)
		return err
	})
	g.Go(func() error {
		lines, err := s.reader.BudgetLines(gctx, userID, w.AnchorMonth())
		if err != nil {
			return err
		}
		for _, line := range lines {
			budget += line.Amount
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	expenses := math.Abs(expenseSum)
	return &FinancialSummary{
		Period:   p,
		Income:   income,
		Expenses: expenses,
		Savings:  income - expenses,
		Budget:   budget,
	}, nil
}

// computeCategorySpend groups window expenses by category, derives each
// category's percentage share, and classifies its trend against the
// immediately preceding equal-length window.
func (s *dashboardService) computeCategorySpend(ctx context.Context, userID string, w period.Window) ([]SpendingByCategory, error) {
	current, err := s.reader.SpendByCategory(ctx, userID, w)
	if err != nil {
		return nil, err
	}
	previous, err := s.reader.SpendByCategory(ctx, userID, w.Previous())
	if err != nil {
		return nil, err
	}

	var totalExpenses float64
	for _, row := range current {
		totalExpenses += row.Amount
	}

	prevByCategory := make(map[string]float64, len(previous))
	for _, row := range previous {
		prevByCategory[categoryKey(row.CategoryID)] = row.Amount
	}

	result := make([]SpendingByCategory, len(current))
	for i, row := range current {
		var percentage float64
		if totalExpenses > 0 {
			percentage = row.Amount / totalExpenses * 100
		}

		trend, trendPct := classifyTrend(row.Amount, prevByCategory[categoryKey(row.CategoryID)])

		result[i] = SpendingByCategory{
			CategoryID:      row.CategoryID,
			Category:        row.CategoryName,
			Amount:          row.Amount,
			Count:           row.Count,
			Percentage:      percentage,
			Trend:           trend,
			TrendPercentage: trendPct,
		}
	}

	// Descending by amount; equal amounts fall back to category name so
	// the order is deterministic for a fixed input.
	sort.Slice(result, func(i, j int) bool {
		if result[i].Amount != result[j].Amount {
			return result[i].Amount > result[j].Amount
		}
		return result[i].Category < result[j].Category
	})
	return result, nil
}

// classifyTrend applies the trend rule: Δ = (amount − prev)/prev × 100;
// up above +5, down below −5, stable between. A category that had no
// prior spend but has spend now is up 100%.
func classifyTrend(amount, prev float64) (Trend, float64) {
	if prev <= 0 {
		if amount > 0 {
			return TrendUp, 100
		}
		return TrendStable, 0
	}

	delta := (amount - prev) / prev * 100
	pct := math.Round(math.Abs(delta))
	switch {
	case delta > 5:
		return TrendUp, pct
	case delta < -5:
		return TrendDown, pct
	default:
		return TrendStable, pct
	}
}

// computeBudgetComparisons joins each budget line of the window's anchor
// month with actual category spend in the window. The per-line actual
// fetches are independent reads and run concurrently.
func (s *dashboardService) computeBudgetComparisons(ctx context.Context, userID string, w period.Window) ([]BudgetComparison, error) {
	lines, err := s.reader.BudgetLines(ctx, userID, w.AnchorMonth())
	if err != nil {
		return nil, err
	}

	result := make([]BudgetComparison, len(lines))
	g, gctx := errgroup.WithContext(ctx)
	for i, line := range lines {
		i, line := i, line
		g.Go(func() error {
			actual, err := s.reader.SpendForCategory(gctx, userID, w, line.CategoryID)
			if err != nil {
				return err
			}

			var percentage float64
			if line.Amount > 0 {
				percentage = math.Round(actual / line.Amount * 100)
			}

			result[i] = BudgetComparison{
				BudgetID:   line.ID,
				CategoryID: line.CategoryID,
				Category:   line.Category.Name,
				Budget:     line.Amount,
				Actual:     actual,
				Remaining:  line.Amount - actual,
				Percentage: percentage,
				Status:     budgetStatus(percentage),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Percentage != result[j].Percentage {
			return result[i].Percentage > result[j].Percentage
		}
		return result[i].Category < result[j].Category
	})
	return result, nil
}

// budgetStatus is a pure function of the spend percentage.
func budgetStatus(percentage float64) BudgetStatus {
	switch {
	case percentage > 100:
		return BudgetStatusOver
	case percentage > 80:
		return BudgetStatusOnTrack
	default:
		return BudgetStatusUnder
	}
}

// goalProgress decorates goals with their completion percentage,
// preserving the reader's newest-first order.
func goalProgress(goals []models.FinancialGoal) []GoalProgress {
	result := make([]GoalProgress, len(goals))
	for i, g := range goals {
		result[i] = GoalProgress{
			ID:            g.ID,
			Name:          g.Name,
			Description:   g.Description,
			TargetAmount:  g.TargetAmount,
			CurrentAmount: g.CurrentAmount,
			Percentage:    g.Percentage(),
			TargetDate:    g.TargetDate,
			Status:        g.Status,
		}
	}
	return result
}

// categoryKey normalizes an optional category reference for map lookups;
// uncategorized rows share one bucket.
func categoryKey(id *string) string {
	if id == nil {
		return ""
	}
	return *id
}
