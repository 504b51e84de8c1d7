package services_test

import (
	"strings"
	"testing"

	"finsight/internal/services"
)

func TestBuildInsightsBudgetExceeded(t *testing.T) {
	comparisons := []services.BudgetComparison{
		{Category: "Groceries", Status: services.BudgetStatusOver},
		{Category: "Dining", Status: services.BudgetStatusUnder},
		{Category: "Transport", Status: services.BudgetStatusOver},
	}

	insights := services.BuildInsights(services.FinancialSummary{}, nil, comparisons, nil)
	if len(insights) != 1 {
		t.Fatalf("expected 1 insight, got %d", len(insights))
	}

	insight := insights[0]
	if insight.Type != services.InsightTypeWarning {
		t.Errorf("expected warning, got %q", insight.Type)
	}
	if !strings.Contains(insight.Message, "2 categories") {
		t.Errorf("message should name the over-budget count: %q", insight.Message)
	}
	if !strings.Contains(insight.Message, "Groceries") || !strings.Contains(insight.Message, "Transport") {
		t.Errorf("message should name the over-budget categories: %q", insight.Message)
	}
}

func TestBuildInsightsSingularCategoryNoun(t *testing.T) {
	comparisons := []services.BudgetComparison{
		{Category: "Groceries", Status: services.BudgetStatusOver},
	}

	insights := services.BuildInsights(services.FinancialSummary{}, nil, comparisons, nil)
	if len(insights) != 1 {
		t.Fatalf("expected 1 insight, got %d", len(insights))
	}
	if !strings.Contains(insights[0].Message, "1 category:") {
		t.Errorf("single over-budget line should use the singular noun: %q", insights[0].Message)
	}
}

func TestBuildInsightsSpendingSpike(t *testing.T) {
	spend := []services.SpendingByCategory{
		{Category: "Dining", Amount: 300, Trend: services.TrendUp, TrendPercentage: 45},
		{Category: "Groceries", Amount: 200, Trend: services.TrendUp, TrendPercentage: 90},
	}

	insights := services.BuildInsights(services.FinancialSummary{}, spend, nil, nil)
	if len(insights) != 1 {
		t.Fatalf("expected 1 insight, got %d", len(insights))
	}
	// Only the top spending category is considered, not the steepest riser.
	if !strings.Contains(insights[0].Message, "Dining") {
		t.Errorf("spike insight should reference the top category: %q", insights[0].Message)
	}
}

func TestBuildInsightsSpikeThresholdNotMet(t *testing.T) {
	spend := []services.SpendingByCategory{
		{Category: "Dining", Amount: 300, Trend: services.TrendUp, TrendPercentage: 20},
	}

	insights := services.BuildInsights(services.FinancialSummary{}, spend, nil, nil)
	if len(insights) != 0 {
		t.Errorf("a rise of exactly 20%% should not trigger the spike insight, got %+v", insights)
	}
}

func TestBuildInsightsHighSavingsRate(t *testing.T) {
	summary := services.FinancialSummary{Income: 1000, Expenses: 700, Savings: 300}

	insights := services.BuildInsights(summary, nil, nil, nil)
	if len(insights) != 1 {
		t.Fatalf("expected 1 insight, got %d", len(insights))
	}
	if insights[0].Type != services.InsightTypeSuccess {
		t.Errorf("expected success insight, got %q", insights[0].Type)
	}
}

func TestBuildInsightsNoSavingsInsightOnDeficit(t *testing.T) {
	summary := services.FinancialSummary{Income: 1000, Expenses: 1200, Savings: -200}

	insights := services.BuildInsights(summary, nil, nil, nil)
	if len(insights) != 0 {
		t.Errorf("negative savings should not produce insights, got %+v", insights)
	}
}

func TestBuildInsightsGoalBoundaries(t *testing.T) {
	tests := []struct {
		name       string
		percentage float64
		want       bool
	}{
		{"below range", 79, false},
		{"lower bound inclusive", 80, true},
		{"inside range", 95, true},
		{"completed goal excluded", 100, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			goals := []services.GoalProgress{{Name: "Vacation", Percentage: tt.percentage}}
			insights := services.BuildInsights(services.FinancialSummary{}, nil, nil, goals)
			got := len(insights) == 1
			if got != tt.want {
				t.Errorf("goal at %f%%: insight emitted = %v, want %v", tt.percentage, got, tt.want)
			}
		})
	}
}

func TestBuildInsightsRulesAreIndependent(t *testing.T) {
	summary := services.FinancialSummary{Income: 1000, Expenses: 500, Savings: 500}
	spend := []services.SpendingByCategory{
		{Category: "Dining", Amount: 300, Trend: services.TrendUp, TrendPercentage: 50},
	}
	comparisons := []services.BudgetComparison{
		{Category: "Dining", Status: services.BudgetStatusOver},
	}
	goals := []services.GoalProgress{{Name: "Vacation", Percentage: 90}}

	insights := services.BuildInsights(summary, spend, comparisons, goals)
	if len(insights) != 4 {
		t.Errorf("all four rules firing should yield 4 insights, got %d: %+v", len(insights), insights)
	}
}
