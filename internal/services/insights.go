package services

import (
	"fmt"
	"math"
	"strings"
)

// Insight rule thresholds.
const (
	spikeTrendThreshold    = 20 // percent increase over previous window
	goalNearCompletionLow  = 80 // percent progress, inclusive
	goalNearCompletionHigh = 100
	highSavingsRate        = 20 // percent of income
)

// BuildInsights evaluates the fixed advisory rules over the computed
// dashboard slices. Rules are independent and evaluated in order; each
// appends zero or one insight and none short-circuits another. The list
// may be empty.
func BuildInsights(summary FinancialSummary, spend []SpendingByCategory, comparisons []BudgetComparison, goals []GoalProgress) []Insight {
	insights := []Insight{}

	if insight, ok := budgetExceededInsight(comparisons); ok {
		insights = append(insights, insight)
	}
	if insight, ok := spendingSpikeInsight(spend); ok {
		insights = append(insights, insight)
	}
	if insight, ok := goalNearCompletionInsight(goals); ok {
		insights = append(insights, insight)
	}
	if insight, ok := highSavingsInsight(summary); ok {
		insights = append(insights, insight)
	}

	return insights
}

// budgetExceededInsight warns when any budget comparison is over,
// naming the count and the over-budget categories.
func budgetExceededInsight(comparisons []BudgetComparison) (Insight, bool) {
	var names []string
	for _, c := range comparisons {
		if c.Status == BudgetStatusOver {
			names = append(names, c.Category)
		}
	}
	if len(names) == 0 {
		return Insight{}, false
	}

	noun := "categories"
	if len(names) == 1 {
		noun = "category"
	}
	return Insight{
		Type:    InsightTypeWarning,
		Title:   "Budget exceeded",
		Message: fmt.Sprintf("You have exceeded your budget in %d %s: %s", len(names), noun, strings.Join(names, ", ")),
	}, true
}

// spendingSpikeInsight flags the top spending category when its spend
// rose more than the spike threshold versus the previous window.
func spendingSpikeInsight(spend []SpendingByCategory) (Insight, bool) {
	if len(spend) == 0 {
		return Insight{}, false
	}

	top := spend[0]
	if top.Trend != TrendUp || top.TrendPercentage <= spikeTrendThreshold {
		return Insight{}, false
	}
	return Insight{
		Type:    InsightTypeInfo,
		Title:   "Spending spike",
		Message: fmt.Sprintf("Your %s spending is up %.0f%% compared to the previous period", top.Category, top.TrendPercentage),
	}, true
}

// goalNearCompletionInsight celebrates the first goal between 80% and
// 100% progress. The goal list order is caller-supplied, newest first.
func goalNearCompletionInsight(goals []GoalProgress) (Insight, bool) {
	for _, g := range goals {
		if g.Percentage >= goalNearCompletionLow && g.Percentage < goalNearCompletionHigh {
			return Insight{
				Type:    InsightTypeSuccess,
				Title:   "Goal almost reached",
				Message: fmt.Sprintf("You are %.0f%% of the way to \"%s\"", g.Percentage, g.Name),
			}, true
		}
	}
	return Insight{}, false
}

// highSavingsInsight rewards a savings rate above the threshold.
func highSavingsInsight(summary FinancialSummary) (Insight, bool) {
	if summary.Savings <= 0 || summary.Income <= 0 {
		return Insight{}, false
	}
	rate := summary.Savings / summary.Income * 100
	if rate <= highSavingsRate {
		return Insight{}, false
	}
	return Insight{
		Type:    InsightTypeSuccess,
		Title:   "High savings rate",
		Message: fmt.Sprintf("Great job! You saved %.0f%% of your income this period", math.Round(rate)),
	}, true
}
