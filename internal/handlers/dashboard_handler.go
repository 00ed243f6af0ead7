package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "gescom/internal/errors"
	"gescom/internal/period"
	"gescom/internal/services"
)

// DashboardHandler handles cross-commessa aggregation requests.
type DashboardHandler struct {
	dashboardService services.DashboardServicer
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(dashboardService services.DashboardServicer) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// PeriodRequest holds the period query parameters shared by the
// dashboard endpoints. Start and end are only read for custom-range.
type PeriodRequest struct {
	Periodo string `form:"periodo" binding:"omitempty,periodo"`
	Start   string `form:"start"`
	End     string `form:"end"`
}

func (r PeriodRequest) token() period.Token {
	if r.Periodo == "" {
		return period.All
	}
	return period.Token(r.Periodo)
}

func (r PeriodRequest) bounds() (*time.Time, *time.Time, error) {
	start, err := parseOptionalDate(r.Start)
	if err != nil {
		return nil, nil, err
	}
	end, err := parseOptionalDate(r.End)
	if err != nil {
		return nil, nil, err
	}
	return start, end, nil
}

// GetSummary returns the headline KPIs for a period
// @Summary     Dashboard summary
// @Description Revenue, cost, margin and active commesse for the period, with period-over-period trends
// @Tags        dashboard
// @Produce     json
// @Security    BearerAuth
// @Param       periodo query string false "Period token" Enums(all, current-month, current-quarter, current-year, last-3-months, custom-range)
// @Param       start query string false "Custom range start (YYYY-MM-DD)"
// @Param       end query string false "Custom range end (YYYY-MM-DD)"
// @Success     200 {object} services.DashboardSummary "Summary"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /dashboard/summary [get]
func (h *DashboardHandler) GetSummary(c *gin.Context) {
	var req PeriodRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	start, end, err := req.bounds()
	if err != nil {
		respondWithError(c, err)
		return
	}

	summary, err := h.dashboardService.GetSummary(req.token(), start, end, time.Now())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// GetMonthlyTrend returns the month-by-month revenue/cost series
// @Summary     Monthly trend
// @Description Month-by-month invoice revenue and reconstructed monthly cost for the period
// @Tags        dashboard
// @Produce     json
// @Security    BearerAuth
// @Param       periodo query string false "Period token" Enums(all, current-month, current-quarter, current-year, last-3-months, custom-range)
// @Param       start query string false "Custom range start (YYYY-MM-DD)"
// @Param       end query string false "Custom range end (YYYY-MM-DD)"
// @Success     200 {array} services.TrendPoint "Trend series"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /dashboard/trend [get]
func (h *DashboardHandler) GetMonthlyTrend(c *gin.Context) {
	var req PeriodRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	start, end, err := req.bounds()
	if err != nil {
		respondWithError(c, err)
		return
	}

	series, err := h.dashboardService.GetMonthlyTrend(req.token(), start, end, time.Now())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"trend": series})
}

// GetBudgetVsActual compares budgets with actual costs per commessa
// @Summary     Budget vs actual
// @Description Applicable budget against latest cumulative cost, per commessa
// @Tags        dashboard
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array} services.BudgetVsActualRow "Rows"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /dashboard/budget-vs-actual [get]
func (h *DashboardHandler) GetBudgetVsActual(c *gin.Context) {
	rows, err := h.dashboardService.GetBudgetVsActual()
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"rows": rows})
}

// GetMarginDistribution buckets commesse by forecast margin
// @Summary     Margin distribution
// @Description Commesse bucketed by latest forecast margin against the configured thresholds
// @Tags        dashboard
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} services.MarginDistribution "Distribution"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /dashboard/margin-distribution [get]
func (h *DashboardHandler) GetMarginDistribution(c *gin.Context) {
	dist, err := h.dashboardService.GetMarginDistribution()
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, dist)
}
