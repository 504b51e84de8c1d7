package services_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	apperrors "finsight/internal/errors"
	"finsight/internal/models"
	"finsight/internal/period"
	"finsight/internal/services"
)

// fakeReader is a deterministic in-memory AggregateReader. Per-window
// category spend is keyed on the window start so current and previous
// windows resolve to different datasets.
type fakeReader struct {
	income        float64
	expenseSum    float64 // signed, negative
	spendByWindow map[time.Time][]services.CategorySpendRow
	spendByCat    map[string]float64
	recent        []models.Transaction
	budgets       []models.Budget
	goals         []models.FinancialGoal

	failOn string // method name that should error, "" for none
}

func (f *fakeReader) fail(method string) error {
	if f.failOn == method {
		return apperrors.Wrap(apperrors.ErrDataUnavailable, fmt.Errorf("%s: injected failure", method))
	}
	return nil
}

func (f *fakeReader) SumAmount(_ context.Context, _ string, _ period.Window, sign services.AmountSign) (float64, error) {
	if err := f.fail("SumAmount"); err != nil {
		return 0, err
	}
	if sign == services.SignIncome {
		return f.income, nil
	}
	return f.expenseSum, nil
}

func (f *fakeReader) SpendByCategory(_ context.Context, _ string, w period.Window) ([]services.CategorySpendRow, error) {
	if err := f.fail("SpendByCategory"); err != nil {
		return nil, err
	}
	return f.spendByWindow[w.Start], nil
}

func (f *fakeReader) SpendForCategory(_ context.Context, _ string, _ period.Window, categoryID string) (float64, error) {
	if err := f.fail("SpendForCategory"); err != nil {
		return 0, err
	}
	return f.spendByCat[categoryID], nil
}

func (f *fakeReader) RecentTransactions(_ context.Context, _ string, limit int) ([]models.Transaction, error) {
	if err := f.fail("RecentTransactions"); err != nil {
		return nil, err
	}
	if len(f.recent) > limit {
		return f.recent[:limit], nil
	}
	return f.recent, nil
}

func (f *fakeReader) TransactionsByCategory(_ context.Context, _, _ string, _ period.Window) ([]models.Transaction, error) {
	if err := f.fail("TransactionsByCategory"); err != nil {
		return nil, err
	}
	return f.recent, nil
}

func (f *fakeReader) BudgetLines(_ context.Context, _ string, _ time.Time) ([]models.Budget, error) {
	if err := f.fail("BudgetLines"); err != nil {
		return nil, err
	}
	return f.budgets, nil
}

func (f *fakeReader) ListGoals(_ context.Context, _ string) ([]models.FinancialGoal, error) {
	if err := f.fail("ListGoals"); err != nil {
		return nil, err
	}
	return f.goals, nil
}

func strPtr(s string) *string { return &s }

// currentAndPrevious returns the windows GetDashboardData will resolve
// for the given period at the time of the call.
func currentAndPrevious(p period.Period) (period.Window, period.Window) {
	w := period.Resolve(p, time.Now())
	return w, w.Previous()
}

func TestDashboardSummaryFigures(t *testing.T) {
	reader := &fakeReader{
		income:        3500,
		expenseSum:    -1200,
		spendByWindow: map[time.Time][]services.CategorySpendRow{},
	}
	svc := services.NewDashboardService(reader)

	snapshot, err := svc.GetDashboardData(context.Background(), "user-1", period.CurrentMonth)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	s := snapshot.Summary
	if s.Income != 3500 {
		t.Errorf("expected income 3500, got %f", s.Income)
	}
	if s.Expenses != 1200 {
		t.Errorf("expected expenses 1200 (absolute), got %f", s.Expenses)
	}
	if s.Savings != 2300 {
		t.Errorf("expected savings 2300, got %f", s.Savings)
	}
	if s.Period != period.CurrentMonth {
		t.Errorf("expected period %q, got %q", period.CurrentMonth, s.Period)
	}
}

func TestDashboardCategoryTrendUp(t *testing.T) {
	cur, prev := currentAndPrevious(period.CurrentMonth)
	groceries := strPtr("cat-groceries")

	reader := &fakeReader{
		income:     0,
		expenseSum: -130,
		spendByWindow: map[time.Time][]services.CategorySpendRow{
			cur.Start:  {{CategoryID: groceries, CategoryName: "Groceries", Amount: 130, Count: 4}},
			prev.Start: {{CategoryID: groceries, CategoryName: "Groceries", Amount: 100, Count: 3}},
		},
	}
	svc := services.NewDashboardService(reader)

	snapshot, err := svc.GetDashboardData(context.Background(), "user-1", period.CurrentMonth)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(snapshot.SpendingByCategory) != 1 {
		t.Fatalf("expected 1 category row, got %d", len(snapshot.SpendingByCategory))
	}
	row := snapshot.SpendingByCategory[0]
	if row.Trend != services.TrendUp {
		t.Errorf("expected trend up, got %q", row.Trend)
	}
	if row.TrendPercentage != 30 {
		t.Errorf("expected trend percentage 30, got %f", row.TrendPercentage)
	}
	if row.Percentage != 100 {
		t.Errorf("single category should hold 100%% share, got %f", row.Percentage)
	}
}

func TestDashboardCategoryWithNoPriorSpend(t *testing.T) {
	cur, _ := currentAndPrevious(period.CurrentMonth)
	dining := strPtr("cat-dining")

	reader := &fakeReader{
		expenseSum: -60,
		spendByWindow: map[time.Time][]services.CategorySpendRow{
			cur.Start: {{CategoryID: dining, CategoryName: "Dining", Amount: 60, Count: 2}},
		},
	}
	svc := services.NewDashboardService(reader)

	snapshot, err := svc.GetDashboardData(context.Background(), "user-1", period.CurrentMonth)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	row := snapshot.SpendingByCategory[0]
	if row.Trend != services.TrendUp || row.TrendPercentage != 100 {
		t.Errorf("new spend with no prior should be up 100%%, got %q %f", row.Trend, row.TrendPercentage)
	}
}

func TestDashboardBudgetComparisonOver(t *testing.T) {
	reader := &fakeReader{
		spendByWindow: map[time.Time][]services.CategorySpendRow{},
		spendByCat:    map[string]float64{"cat-groceries": 550},
		budgets: []models.Budget{
			{
				Base:       models.Base{ID: "budget-1"},
				CategoryID: "cat-groceries",
				Amount:     500,
				Category:   models.Category{Name: "Groceries"},
			},
		},
	}
	svc := services.NewDashboardService(reader)

	snapshot, err := svc.GetDashboardData(context.Background(), "user-1", period.CurrentMonth)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(snapshot.BudgetComparisons) != 1 {
		t.Fatalf("expected 1 comparison, got %d", len(snapshot.BudgetComparisons))
	}
	c := snapshot.BudgetComparisons[0]
	if c.Percentage != 110 {
		t.Errorf("expected percentage 110, got %f", c.Percentage)
	}
	if c.Status != services.BudgetStatusOver {
		t.Errorf("expected status over, got %q", c.Status)
	}
	if c.Remaining != -50 {
		t.Errorf("expected remaining -50, got %f", c.Remaining)
	}
}

func TestDashboardEmptyWindow(t *testing.T) {
	reader := &fakeReader{
		spendByWindow: map[time.Time][]services.CategorySpendRow{},
	}
	svc := services.NewDashboardService(reader)

	snapshot, err := svc.GetDashboardData(context.Background(), "user-1", period.CurrentMonth)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	s := snapshot.Summary
	if s.Income != 0 || s.Expenses != 0 || s.Savings != 0 {
		t.Errorf("expected all-zero summary, got %+v", s)
	}
	if len(snapshot.SpendingByCategory) != 0 {
		t.Errorf("expected empty category list, got %d rows", len(snapshot.SpendingByCategory))
	}
	if len(snapshot.Insights) != 0 {
		t.Errorf("expected no insights, got %+v", snapshot.Insights)
	}
}

func TestDashboardGoalNearCompletionInsight(t *testing.T) {
	newSvc := func(current float64) services.DashboardServicer {
		return services.NewDashboardService(&fakeReader{
			spendByWindow: map[time.Time][]services.CategorySpendRow{},
			goals: []models.FinancialGoal{
				{Base: models.Base{ID: "goal-1"}, Name: "Emergency fund", TargetAmount: 100, CurrentAmount: current, Status: models.GoalStatusActive},
			},
		})
	}

	snapshot, err := newSvc(85).GetDashboardData(context.Background(), "user-1", period.CurrentMonth)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	found := false
	for _, insight := range snapshot.Insights {
		if insight.Title == "Goal almost reached" {
			found = true
		}
	}
	if !found {
		t.Errorf("goal at 85%% should produce a near-completion insight, got %+v", snapshot.Insights)
	}

	snapshot, err = newSvc(50).GetDashboardData(context.Background(), "user-1", period.CurrentMonth)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, insight := range snapshot.Insights {
		if insight.Title == "Goal almost reached" {
			t.Errorf("goal at 50%% should not produce a near-completion insight")
		}
	}
}

func TestDashboardFailsFastOnReaderError(t *testing.T) {
	for _, method := range []string{"SumAmount", "SpendByCategory", "RecentTransactions", "BudgetLines", "ListGoals"} {
		t.Run(method, func(t *testing.T) {
			reader := &fakeReader{
				spendByWindow: map[time.Time][]services.CategorySpendRow{},
				failOn:        method,
			}
			svc := services.NewDashboardService(reader)

			snapshot, err := svc.GetDashboardData(context.Background(), "user-1", period.CurrentMonth)
			if snapshot != nil {
				t.Error("no partial snapshot should be returned on failure")
			}
			var appErr *apperrors.AppError
			if !errors.As(err, &appErr) || appErr.Code != "DATA_UNAVAILABLE" {
				t.Errorf("expected DATA_UNAVAILABLE, got %v", err)
			}
		})
	}
}

func TestDashboardDeterministicForFixedData(t *testing.T) {
	cur, prev := currentAndPrevious(period.LastMonth)
	rent := strPtr("cat-rent")
	food := strPtr("cat-food")

	reader := &fakeReader{
		income:     4000,
		expenseSum: -1500,
		spendByWindow: map[time.Time][]services.CategorySpendRow{
			cur.Start: {
				{CategoryID: rent, CategoryName: "Rent", Amount: 1000, Count: 1},
				{CategoryID: food, CategoryName: "Food", Amount: 500, Count: 12},
			},
			prev.Start: {
				{CategoryID: rent, CategoryName: "Rent", Amount: 1000, Count: 1},
			},
		},
	}
	svc := services.NewDashboardService(reader)

	first, err := svc.GetDashboardData(context.Background(), "user-1", period.LastMonth)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := svc.GetDashboardData(context.Background(), "user-1", period.LastMonth)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	first.GeneratedAt = second.GeneratedAt
	if fmt.Sprintf("%+v", first) != fmt.Sprintf("%+v", second) {
		t.Error("two calls over unchanged data should yield identical snapshots")
	}
}

func TestDashboardCategoryOrdering(t *testing.T) {
	cur, _ := currentAndPrevious(period.CurrentMonth)

	reader := &fakeReader{
		expenseSum: -300,
		spendByWindow: map[time.Time][]services.CategorySpendRow{
			cur.Start: {
				{CategoryID: strPtr("c1"), CategoryName: "Utilities", Amount: 100, Count: 2},
				{CategoryID: strPtr("c2"), CategoryName: "Groceries", Amount: 150, Count: 5},
				{CategoryID: strPtr("c3"), CategoryName: "Dining", Amount: 100, Count: 3},
			},
		},
	}
	svc := services.NewDashboardService(reader)

	snapshot, err := svc.GetDashboardData(context.Background(), "user-1", period.CurrentMonth)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := make([]string, len(snapshot.SpendingByCategory))
	for i, row := range snapshot.SpendingByCategory {
		got[i] = row.Category
	}
	want := []string{"Groceries", "Dining", "Utilities"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected order %v, got %v", want, got)
		}
	}

	var totalPct float64
	for _, row := range snapshot.SpendingByCategory {
		totalPct += row.Percentage
	}
	if totalPct < 99.9 || totalPct > 100.1 {
		t.Errorf("category percentages should sum to ~100, got %f", totalPct)
	}
}

func TestSpendingTrendsMonthSeries(t *testing.T) {
	reader := &fakeReader{
		spendByWindow: map[time.Time][]services.CategorySpendRow{},
	}
	svc := services.NewDashboardService(reader)

	trends, err := svc.GetSpendingTrends(context.Background(), "user-1", 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(trends) != 3 {
		t.Fatalf("expected 3 months, got %d", len(trends))
	}

	// Oldest first, ending at the current month.
	now := time.Now()
	last := trends[2].Month
	if want := now.Format("2006-01"); last != want {
		t.Errorf("expected final month %q, got %q", want, last)
	}
	for i := 1; i < len(trends); i++ {
		if trends[i].Month <= trends[i-1].Month {
			t.Errorf("months should be strictly increasing: %q then %q", trends[i-1].Month, trends[i].Month)
		}
	}
}
