package services_test

import (
	"context"
	"testing"
	"time"

	"finsight/internal/period"
	"finsight/internal/services"
	"finsight/internal/testutil"
)

func midMonthWindow() period.Window {
	// A fixed June 2025 window keeps the tests independent of the clock.
	return period.MonthWindow(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
}

func TestSumAmountSeparatesSigns(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	user := testutil.CreateTestUser(t, db)
	w := midMonthWindow()
	inWindow := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	testutil.CreateTestTransaction(t, db, user.ID, inWindow, 3500, nil)
	testutil.CreateTestTransaction(t, db, user.ID, inWindow, -1200, nil)
	// Out of window; must not count.
	testutil.CreateTestTransaction(t, db, user.ID, inWindow.AddDate(0, 1, 0), -999, nil)

	reader := services.NewAggregateReader(db)

	income, err := reader.SumAmount(context.Background(), user.ID, w, services.SignIncome)
	testutil.AssertNoError(t, err)
	if income != 3500 {
		t.Errorf("expected income 3500, got %f", income)
	}

	expenses, err := reader.SumAmount(context.Background(), user.ID, w, services.SignExpense)
	testutil.AssertNoError(t, err)
	if expenses != -1200 {
		t.Errorf("expected signed expense sum -1200, got %f", expenses)
	}
}

func TestSumAmountEmptyWindowIsZero(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	user := testutil.CreateTestUser(t, db)
	reader := services.NewAggregateReader(db)

	total, err := reader.SumAmount(context.Background(), user.ID, midMonthWindow(), services.SignIncome)
	testutil.AssertNoError(t, err)
	if total != 0 {
		t.Errorf("expected 0 for empty window, got %f", total)
	}
}

func TestSpendByCategoryGroupsAndBuckets(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	user := testutil.CreateTestUser(t, db)
	groceries := testutil.CreateTestCategoryWithName(t, db, user.ID, "Groceries")
	w := midMonthWindow()
	inWindow := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)

	testutil.CreateTestTransaction(t, db, user.ID, inWindow, -40, &groceries.ID)
	testutil.CreateTestTransaction(t, db, user.ID, inWindow, -60, &groceries.ID)
	// Uncategorized expense and an income row that must be excluded.
	testutil.CreateTestTransaction(t, db, user.ID, inWindow, -25, nil)
	testutil.CreateTestTransaction(t, db, user.ID, inWindow, 500, &groceries.ID)

	reader := services.NewAggregateReader(db)
	rows, err := reader.SpendByCategory(context.Background(), user.ID, w)
	testutil.AssertNoError(t, err)

	if len(rows) != 2 {
		t.Fatalf("expected 2 grouped rows, got %d", len(rows))
	}

	byName := map[string]services.CategorySpendRow{}
	for _, row := range rows {
		byName[row.CategoryName] = row
	}

	g, ok := byName["Groceries"]
	if !ok {
		t.Fatal("expected a Groceries row")
	}
	if g.Amount != 100 {
		t.Errorf("expected absolute Groceries total 100, got %f", g.Amount)
	}
	if g.Count != 2 {
		t.Errorf("expected 2 Groceries transactions, got %d", g.Count)
	}

	u, ok := byName["Uncategorized"]
	if !ok {
		t.Fatal("expected an Uncategorized bucket")
	}
	if u.Amount != 25 {
		t.Errorf("expected Uncategorized total 25, got %f", u.Amount)
	}
	if u.CategoryID != nil {
		t.Error("Uncategorized bucket should carry no category reference")
	}
}

func TestSpendForCategory(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	user := testutil.CreateTestUser(t, db)
	dining := testutil.CreateTestCategory(t, db, user.ID)
	other := testutil.CreateTestCategory(t, db, user.ID)
	w := midMonthWindow()
	inWindow := time.Date(2025, 6, 20, 19, 30, 0, 0, time.UTC)

	testutil.CreateTestTransaction(t, db, user.ID, inWindow, -75.50, &dining.ID)
	testutil.CreateTestTransaction(t, db, user.ID, inWindow, -10, &other.ID)

	reader := services.NewAggregateReader(db)
	total, err := reader.SpendForCategory(context.Background(), user.ID, w, dining.ID)
	testutil.AssertNoError(t, err)
	if total != 75.50 {
		t.Errorf("expected 75.50, got %f", total)
	}
}

func TestRecentTransactionsOrderAndLimit(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	user := testutil.CreateTestUser(t, db)
	base := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	for i := 0; i < 15; i++ {
		testutil.CreateTestTransaction(t, db, user.ID, base.AddDate(0, 0, i), -float64(i+1), nil)
	}

	reader := services.NewAggregateReader(db)
	transactions, err := reader.RecentTransactions(context.Background(), user.ID, 10)
	testutil.AssertNoError(t, err)

	if len(transactions) != 10 {
		t.Fatalf("expected 10 transactions, got %d", len(transactions))
	}
	for i := 1; i < len(transactions); i++ {
		if transactions[i].Date.After(transactions[i-1].Date) {
			t.Fatal("transactions should be ordered newest first")
		}
	}
}

func TestBudgetLinesFilterByMonth(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	user := testutil.CreateTestUser(t, db)
	groceries := testutil.CreateTestCategoryWithName(t, db, user.ID, "Groceries")
	rent := testutil.CreateTestCategoryWithName(t, db, user.ID, "Rent")

	june := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	testutil.CreateTestBudget(t, db, user.ID, groceries.ID, june, 400)
	testutil.CreateTestBudget(t, db, user.ID, rent.ID, june, 1200)
	testutil.CreateTestBudget(t, db, user.ID, groceries.ID, june.AddDate(0, 1, 0), 450)

	reader := services.NewAggregateReader(db)
	lines, err := reader.BudgetLines(context.Background(), user.ID, june.AddDate(0, 0, 14))
	testutil.AssertNoError(t, err)

	if len(lines) != 2 {
		t.Fatalf("expected the 2 June lines, got %d", len(lines))
	}
	for _, line := range lines {
		if line.Category.Name == "" {
			t.Error("budget lines should have category names resolved")
		}
	}
}

func TestTransactionsByCategoryWindowed(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	user := testutil.CreateTestUser(t, db)
	category := testutil.CreateTestCategory(t, db, user.ID)
	w := midMonthWindow()

	inside := time.Date(2025, 6, 5, 10, 0, 0, 0, time.UTC)
	outside := time.Date(2025, 7, 5, 10, 0, 0, 0, time.UTC)
	testutil.CreateTestTransaction(t, db, user.ID, inside, -30, &category.ID)
	testutil.CreateTestTransaction(t, db, user.ID, inside.AddDate(0, 0, 3), -20, &category.ID)
	testutil.CreateTestTransaction(t, db, user.ID, outside, -99, &category.ID)

	reader := services.NewAggregateReader(db)
	transactions, err := reader.TransactionsByCategory(context.Background(), user.ID, category.ID, w)
	testutil.AssertNoError(t, err)

	if len(transactions) != 2 {
		t.Fatalf("expected 2 transactions inside the window, got %d", len(transactions))
	}
	if transactions[0].Date.Before(transactions[1].Date) {
		t.Error("transactions should be ordered newest first")
	}
}

func TestListGoals(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	user := testutil.CreateTestUser(t, db)
	other := testutil.CreateTestUser(t, db)
	testutil.CreateTestGoal(t, db, user.ID, 1000, 100)
	testutil.CreateTestGoal(t, db, user.ID, 500, 500)
	testutil.CreateTestGoal(t, db, other.ID, 200, 0)

	reader := services.NewAggregateReader(db)
	goals, err := reader.ListGoals(context.Background(), user.ID)
	testutil.AssertNoError(t, err)

	if len(goals) != 2 {
		t.Fatalf("expected 2 goals for the user, got %d", len(goals))
	}
}
