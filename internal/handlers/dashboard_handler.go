package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "finsight/internal/errors"
	"finsight/internal/period"
	"finsight/internal/services"
)

// trend query bounds for /dashboard/trends.
const (
	defaultTrendMonths = 6
	maxTrendMonths     = 24
)

// DashboardHandler handles dashboard read requests.
type DashboardHandler struct {
	dashboardService services.DashboardServicer
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(dashboardService services.DashboardServicer) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// parsePeriod validates the period query parameter. Unknown selectors are
// a caller error and never reach the dashboard core.
func parsePeriod(c *gin.Context) (period.Period, error) {
	p := period.Period(c.DefaultQuery("period", string(period.CurrentMonth)))
	if !p.Valid() {
		return "", apperrors.ErrInvalidPeriod
	}
	return p, nil
}

// GetDashboard returns the full dashboard snapshot for one period.
// @Summary     Get dashboard
// @Description Get the complete financial dashboard: summary, categorized spending with trends, recent transactions, budget comparisons, goals, and insights
// @Tags        dashboard
// @Produce     json
// @Security    BearerAuth
// @Param       period query string false "Period selector (current_month, last_month, last_30_days)" default(current_month)
// @Success     200 {object} services.DashboardSnapshot "Dashboard snapshot"
// @Failure     400 {object} ErrorResponse "Invalid period"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     503 {object} ErrorResponse "Data unavailable"
// @Router      /dashboard [get]
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	p, err := parsePeriod(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	snapshot, err := h.dashboardService.GetDashboardData(c.Request.Context(), userID, p)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, snapshot)
}

// GetSpendingTrends returns monthly spending totals with category breakdowns.
// @Summary     Get spending trends
// @Description Get per-month category spending for the last N calendar months, oldest first
// @Tags        dashboard
// @Produce     json
// @Security    BearerAuth
// @Param       months query int false "Number of months (1-24)" default(6)
// @Success     200 {object} map[string]interface{} "Monthly trends"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     503 {object} ErrorResponse "Data unavailable"
// @Router      /dashboard/trends [get]
func (h *DashboardHandler) GetSpendingTrends(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	months := defaultTrendMonths
	if v := c.Query("months"); v != "" {
		months, err = strconv.Atoi(v)
		if err != nil || months < 1 || months > maxTrendMonths {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "months must be between 1 and 24"))
			return
		}
	}

	trends, err := h.dashboardService.GetSpendingTrends(c.Request.Context(), userID, months)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"trends": trends})
}

// GetCategoryTransactions returns all window transactions for one category.
// @Summary     Get transactions by category
// @Description Get all transactions for a category within the period's window, newest first
// @Tags        dashboard
// @Produce     json
// @Security    BearerAuth
// @Param       id     path  string true  "Category ID"
// @Param       period query string false "Period selector (current_month, last_month, last_30_days)" default(current_month)
// @Success     200 {object} map[string]interface{} "Transactions"
// @Failure     400 {object} ErrorResponse "Invalid period"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     503 {object} ErrorResponse "Data unavailable"
// @Router      /categories/{id}/transactions [get]
func (h *DashboardHandler) GetCategoryTransactions(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	p, err := parsePeriod(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transactions, err := h.dashboardService.GetTransactionsByCategory(c.Request.Context(), userID, c.Param("id"), p)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transactions": transactions})
}
