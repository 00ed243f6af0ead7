package services

import (
	"math"
	"testing"
	"time"

	"gescom/internal/models"
	"gescom/internal/period"
	"gescom/internal/testutil"
)

// now anchors the dashboard tests inside the fixture data's months.
var dashboardNow = time.Date(2024, time.February, 10, 12, 0, 0, 0, time.UTC)

func almostEqual(a, b float64) bool { return math.Abs(a-b) < 1e-6 }

func TestGetSummary(t *testing.T) {
	t.Run("all_time_kpis", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewDashboardService(db)
		commessa := testutil.CreateTestCommessa(t, db)
		testutil.CreateTestFattura(t, db, commessa.ID, "2024-01", 10000)
		testutil.CreateTestFattura(t, db, commessa.ID, "2024-02", 8000)
		testutil.CreateTestMargine(t, db, commessa.ID, "2024-01", 9000, 200)
		testutil.CreateTestMargine(t, db, commessa.ID, "2024-02", 15000, 320)

		summary, err := svc.GetSummary(period.All, nil, nil, dashboardNow)
		testutil.AssertNoError(t, err)

		if summary.Ricavi != 18000 {
			t.Errorf("expected ricavi 18000, got %v", summary.Ricavi)
		}
		// Costs are monthly deltas: 9000 + 6000, which telescopes to the
		// latest cumulative value.
		if summary.Costi != 15000 {
			t.Errorf("expected costi 15000, got %v", summary.Costi)
		}
		if !almostEqual(summary.Margine, 3000.0/18000.0*100) {
			t.Errorf("unexpected margine %v", summary.Margine)
		}
		if summary.CommesseAttive != 1 {
			t.Errorf("expected 1 commessa attiva, got %d", summary.CommesseAttive)
		}
		// "all" has no previous period to compare against.
		if summary.TrendRicavi != nil || summary.TrendCosti != nil {
			t.Error("expected nil trends for all-time period")
		}
	})

	t.Run("month_over_month_trend", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewDashboardService(db)
		commessa := testutil.CreateTestCommessa(t, db)
		testutil.CreateTestFattura(t, db, commessa.ID, "2024-01", 10000)
		testutil.CreateTestFattura(t, db, commessa.ID, "2024-02", 8000)
		testutil.CreateTestMargine(t, db, commessa.ID, "2024-01", 9000, 200)
		testutil.CreateTestMargine(t, db, commessa.ID, "2024-02", 15000, 320)

		summary, err := svc.GetSummary(period.CurrentMonth, nil, nil, dashboardNow)
		testutil.AssertNoError(t, err)

		if summary.Ricavi != 8000 {
			t.Errorf("expected ricavi 8000, got %v", summary.Ricavi)
		}
		if summary.Costi != 6000 {
			t.Errorf("expected costi 6000, got %v", summary.Costi)
		}
		if summary.TrendRicavi == nil {
			t.Fatal("expected a revenue trend")
		}
		if !almostEqual(*summary.TrendRicavi, -20) {
			t.Errorf("expected revenue trend -20, got %v", *summary.TrendRicavi)
		}
		if summary.TrendCosti == nil {
			t.Fatal("expected a cost trend")
		}
		if !almostEqual(*summary.TrendCosti, (6000.0-9000.0)/9000.0*100) {
			t.Errorf("unexpected cost trend %v", *summary.TrendCosti)
		}
	})

	t.Run("trend_unavailable_from_zero", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewDashboardService(db)
		commessa := testutil.CreateTestCommessa(t, db)
		// Data only in the current month: previous period is zero.
		testutil.CreateTestFattura(t, db, commessa.ID, "2024-02", 8000)

		summary, err := svc.GetSummary(period.CurrentMonth, nil, nil, dashboardNow)
		testutil.AssertNoError(t, err)

		if summary.TrendRicavi != nil {
			t.Errorf("expected nil revenue trend, got %v", *summary.TrendRicavi)
		}
	})

	t.Run("custom_range_requires_bounds", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewDashboardService(db)

		_, err := svc.GetSummary(period.CustomRange, nil, nil, dashboardNow)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestGetMonthlyTrend(t *testing.T) {
	t.Run("series_sorted_with_delta_costs", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewDashboardService(db)
		commessa := testutil.CreateTestCommessa(t, db)
		testutil.CreateTestFattura(t, db, commessa.ID, "2024-02", 8000)
		testutil.CreateTestFattura(t, db, commessa.ID, "2024-01", 10000)
		testutil.CreateTestMargine(t, db, commessa.ID, "2024-01", 9000, 200)
		testutil.CreateTestMargine(t, db, commessa.ID, "2024-02", 15000, 320)

		series, err := svc.GetMonthlyTrend(period.All, nil, nil, dashboardNow)
		testutil.AssertNoError(t, err)

		if len(series) != 2 {
			t.Fatalf("expected 2 points, got %d", len(series))
		}
		if series[0].Mese != "2024-01" || series[1].Mese != "2024-02" {
			t.Fatalf("expected sorted months, got %s then %s", series[0].Mese, series[1].Mese)
		}
		if series[1].Ricavi != 8000 {
			t.Errorf("expected february ricavi 8000, got %v", series[1].Ricavi)
		}
		// Monthly delta, not the 15000 cumulative snapshot.
		if series[1].Costi != 6000 {
			t.Errorf("expected february costi 6000, got %v", series[1].Costi)
		}
	})

	t.Run("range_filters_months", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewDashboardService(db)
		commessa := testutil.CreateTestCommessa(t, db)
		testutil.CreateTestFattura(t, db, commessa.ID, "2024-01", 10000)
		testutil.CreateTestFattura(t, db, commessa.ID, "2024-02", 8000)

		series, err := svc.GetMonthlyTrend(period.CurrentMonth, nil, nil, dashboardNow)
		testutil.AssertNoError(t, err)

		if len(series) != 1 {
			t.Fatalf("expected 1 point, got %d", len(series))
		}
		if series[0].Mese != "2024-02" {
			t.Errorf("expected 2024-02, got %s", series[0].Mese)
		}
	})
}

func TestGetBudgetVsActual(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewDashboardService(db)
	commessa := testutil.CreateTestCommessa(t, db)
	testutil.CreateTestLumpSumBudget(t, db, commessa.ID, "2024-01", 50000)
	testutil.CreateTestMargine(t, db, commessa.ID, "2024-01", 9000, 200)
	testutil.CreateTestMargine(t, db, commessa.ID, "2024-02", 15000, 320)
	empty := testutil.CreateTestCommessa(t, db)

	rows, err := svc.GetBudgetVsActual()
	testutil.AssertNoError(t, err)

	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	byID := make(map[uint]BudgetVsActualRow)
	for _, r := range rows {
		byID[r.CommessaID] = r
	}
	if row := byID[commessa.ID]; row.Budget != 50000 || row.Consuntivo != 15000 {
		t.Errorf("expected 50000/15000, got %v/%v", row.Budget, row.Consuntivo)
	}
	if row := byID[empty.ID]; row.Budget != 0 || row.Consuntivo != 0 {
		t.Errorf("expected zero row for empty commessa, got %v/%v", row.Budget, row.Consuntivo)
	}
}

func TestGetMarginDistribution(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewDashboardService(db)

	// Margin 20%: below the default critical threshold of 30.
	critico := testutil.CreateTestCommessa(t, db)
	testutil.CreateTestFattura(t, db, critico.ID, "2024-01", 10000)
	testutil.CreateTestMargine(t, db, critico.ID, "2024-01", 8000, 160)

	// Margin 40%: between warning (35) and excellent (45).
	buono := testutil.CreateTestCommessa(t, db)
	testutil.CreateTestFattura(t, db, buono.ID, "2024-01", 10000)
	testutil.CreateTestMargine(t, db, buono.ID, "2024-01", 6000, 120)

	// Margin 50%: above excellent.
	eccellente := testutil.CreateTestCommessa(t, db)
	testutil.CreateTestFattura(t, db, eccellente.ID, "2024-01", 10000)
	testutil.CreateTestMargine(t, db, eccellente.ID, "2024-01", 5000, 100)

	// No forecast history at all.
	testutil.CreateTestCommessa(t, db)

	// Corpo with remaining work and no resolvable rate: undefined.
	undefinedCorpo := testutil.CreateTestCommessaWithTipologia(t, db, models.TipologiaCorpo)
	_, err := NewMargineService(db).CreateMargine(undefinedCorpo.ID, "2024-01", 5000, 0, 10, 0)
	testutil.AssertNoError(t, err)

	dist, err := svc.GetMarginDistribution()
	testutil.AssertNoError(t, err)

	if dist.Critico != 1 {
		t.Errorf("expected 1 critico, got %d", dist.Critico)
	}
	if dist.Buono != 1 {
		t.Errorf("expected 1 buono, got %d", dist.Buono)
	}
	if dist.Eccellente != 1 {
		t.Errorf("expected 1 eccellente, got %d", dist.Eccellente)
	}
	if dist.NonDisponibile != 2 {
		t.Errorf("expected 2 non disponibili, got %d", dist.NonDisponibile)
	}
}
