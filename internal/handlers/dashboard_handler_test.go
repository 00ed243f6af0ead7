package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"gescom/internal/period"
	"gescom/internal/services"
)

// --- mock dashboard service ---

type mockDashboardService struct {
	getSummaryFn            func(token period.Token, customStart, customEnd *time.Time, now time.Time) (*services.DashboardSummary, error)
	getMonthlyTrendFn       func(token period.Token, customStart, customEnd *time.Time, now time.Time) ([]services.TrendPoint, error)
	getBudgetVsActualFn     func() ([]services.BudgetVsActualRow, error)
	getMarginDistributionFn func() (*services.MarginDistribution, error)
}

func (m *mockDashboardService) GetSummary(token period.Token, customStart, customEnd *time.Time, now time.Time) (*services.DashboardSummary, error) {
	if m.getSummaryFn != nil {
		return m.getSummaryFn(token, customStart, customEnd, now)
	}
	return &services.DashboardSummary{}, nil
}

func (m *mockDashboardService) GetMonthlyTrend(token period.Token, customStart, customEnd *time.Time, now time.Time) ([]services.TrendPoint, error) {
	if m.getMonthlyTrendFn != nil {
		return m.getMonthlyTrendFn(token, customStart, customEnd, now)
	}
	return []services.TrendPoint{}, nil
}

func (m *mockDashboardService) GetBudgetVsActual() ([]services.BudgetVsActualRow, error) {
	if m.getBudgetVsActualFn != nil {
		return m.getBudgetVsActualFn()
	}
	return []services.BudgetVsActualRow{}, nil
}

func (m *mockDashboardService) GetMarginDistribution() (*services.MarginDistribution, error) {
	if m.getMarginDistributionFn != nil {
		return m.getMarginDistributionFn()
	}
	return &services.MarginDistribution{}, nil
}

var _ services.DashboardServicer = (*mockDashboardService)(nil)

func setupDashboardRouter(handler *DashboardHandler) *gin.Engine {
	r := gin.New()
	r.GET("/dashboard/summary", handler.GetSummary)
	r.GET("/dashboard/trend", handler.GetMonthlyTrend)
	r.GET("/dashboard/budget-vs-actual", handler.GetBudgetVsActual)
	r.GET("/dashboard/margin-distribution", handler.GetMarginDistribution)
	return r
}

func TestDashboardHandler_GetSummary(t *testing.T) {
	t.Run("defaults to all-time", func(t *testing.T) {
		var gotToken period.Token
		svc := &mockDashboardService{
			getSummaryFn: func(token period.Token, _, _ *time.Time, _ time.Time) (*services.DashboardSummary, error) {
				gotToken = token
				return &services.DashboardSummary{Periodo: token, Ricavi: 18000, Costi: 15000}, nil
			},
		}
		r := setupDashboardRouter(NewDashboardHandler(svc))

		rec := doRequest(r, "GET", "/dashboard/summary", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotToken != period.All {
			t.Errorf("expected all token, got %s", gotToken)
		}
		result := parseJSON(t, rec)
		if result["ricavi"].(float64) != 18000 {
			t.Errorf("expected ricavi 18000, got %v", result["ricavi"])
		}
		// Absent trend serializes as null, never as 0.
		if result["trend_ricavi"] != nil {
			t.Errorf("expected null trend, got %v", result["trend_ricavi"])
		}
	})

	t.Run("passes custom range bounds", func(t *testing.T) {
		var gotStart, gotEnd *time.Time
		svc := &mockDashboardService{
			getSummaryFn: func(_ period.Token, start, end *time.Time, _ time.Time) (*services.DashboardSummary, error) {
				gotStart, gotEnd = start, end
				return &services.DashboardSummary{}, nil
			},
		}
		r := setupDashboardRouter(NewDashboardHandler(svc))

		rec := doRequest(r, "GET", "/dashboard/summary?periodo=custom-range&start=2024-01-01&end=2024-03-31", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotStart == nil || gotEnd == nil {
			t.Fatal("expected both bounds to be passed")
		}
		if gotStart.Format("2006-01-02") != "2024-01-01" {
			t.Errorf("unexpected start %v", gotStart)
		}
	})

	t.Run("returns 400 on unknown periodo", func(t *testing.T) {
		r := setupDashboardRouter(NewDashboardHandler(&mockDashboardService{}))

		rec := doRequest(r, "GET", "/dashboard/summary?periodo=last-week", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 400 on malformed custom date", func(t *testing.T) {
		r := setupDashboardRouter(NewDashboardHandler(&mockDashboardService{}))

		rec := doRequest(r, "GET", "/dashboard/summary?periodo=custom-range&start=01-01-2024&end=2024-03-31", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestDashboardHandler_GetMonthlyTrend(t *testing.T) {
	svc := &mockDashboardService{
		getMonthlyTrendFn: func(period.Token, *time.Time, *time.Time, time.Time) ([]services.TrendPoint, error) {
			return []services.TrendPoint{
				{Mese: "2024-01", Ricavi: 10000, Costi: 9000},
				{Mese: "2024-02", Ricavi: 8000, Costi: 6000},
			}, nil
		},
	}
	r := setupDashboardRouter(NewDashboardHandler(svc))

	rec := doRequest(r, "GET", "/dashboard/trend", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	trend := parseJSON(t, rec)["trend"].([]interface{})
	if len(trend) != 2 {
		t.Fatalf("expected 2 points, got %d", len(trend))
	}
}

func TestDashboardHandler_GetMarginDistribution(t *testing.T) {
	svc := &mockDashboardService{
		getMarginDistributionFn: func() (*services.MarginDistribution, error) {
			return &services.MarginDistribution{Critico: 1, Buono: 2, NonDisponibile: 1}, nil
		},
	}
	r := setupDashboardRouter(NewDashboardHandler(svc))

	rec := doRequest(r, "GET", "/dashboard/margin-distribution", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	result := parseJSON(t, rec)
	if result["critico"].(float64) != 1 {
		t.Errorf("expected 1 critico, got %v", result["critico"])
	}
	if result["non_disponibile"].(float64) != 1 {
		t.Errorf("expected 1 non disponibile, got %v", result["non_disponibile"])
	}
}
