package forecast

import (
	"testing"

	"gescom/internal/models"
)

func master(id, commessaID uint, mese string, tipo models.TipoBudget, importo *float64) models.BudgetMaster {
	return models.BudgetMaster{
		Base:           models.Base{ID: id},
		CommessaID:     commessaID,
		BudgetID:       "BUD",
		MeseCompetenza: mese,
		Tipo:           tipo,
		Importo:        importo,
	}
}

func detail(masterID uint, figura string, tariffa, giorni float64) models.BudgetDetail {
	return models.BudgetDetail{BudgetMasterID: masterID, Figura: figura, Tariffa: tariffa, Giorni: giorni}
}

func ptr(v float64) *float64 { return &v }

func TestApplicableMaster(t *testing.T) {
	t.Run("none_for_empty", func(t *testing.T) {
		if _, ok := ApplicableMaster(nil); ok {
			t.Error("expected no applicable master")
		}
	})

	t.Run("max_competency_month_wins", func(t *testing.T) {
		m, ok := ApplicableMaster([]models.BudgetMaster{
			master(1, 1, "2024-01", models.TipoBudgetDetail, nil),
			master(2, 1, "2024-06", models.TipoBudgetDetail, nil),
			master(3, 1, "2024-03", models.TipoBudgetDetail, nil),
		})
		if !ok || m.ID != 2 {
			t.Errorf("expected master 2 (2024-06), got %d", m.ID)
		}
	})

	t.Run("adding_earlier_month_never_changes_result", func(t *testing.T) {
		masters := []models.BudgetMaster{master(1, 1, "2024-06", models.TipoBudgetDetail, nil)}
		before, _ := ApplicableMaster(masters)

		masters = append(masters, master(2, 1, "2023-12", models.TipoBudgetDetail, nil))
		after, _ := ApplicableMaster(masters)

		if before.ID != after.ID {
			t.Errorf("expected applicable master to stay %d, got %d", before.ID, after.ID)
		}
	})
}

func TestMasterTotal(t *testing.T) {
	t.Run("detail_type_sums_lines", func(t *testing.T) {
		m := master(1, 1, "2024-01", models.TipoBudgetDetail, nil)
		details := []models.BudgetDetail{
			detail(1, "Project Manager", 596, 22),
			detail(1, "Software Engineer", 430, 70),
			detail(99, "Other Master Line", 1000, 10),
		}
		want := 596*22.0 + 430*70.0
		if got := MasterTotal(m, details); got != want {
			t.Errorf("expected %v, got %v", want, got)
		}
	})

	t.Run("total_type_uses_importo", func(t *testing.T) {
		m := master(1, 1, "2024-01", models.TipoBudgetTotal, ptr(75000))
		if got := MasterTotal(m, nil); got != 75000 {
			t.Errorf("expected 75000, got %v", got)
		}
	})

	t.Run("total_type_nil_importo_is_zero", func(t *testing.T) {
		m := master(1, 1, "2024-01", models.TipoBudgetTotal, nil)
		if got := MasterTotal(m, nil); got != 0 {
			t.Errorf("expected 0, got %v", got)
		}
	})

	t.Run("fractional_days", func(t *testing.T) {
		m := master(1, 1, "2024-01", models.TipoBudgetDetail, nil)
		if got := MasterTotal(m, []models.BudgetDetail{detail(1, "Consultant", 500, 2.5)}); got != 1250 {
			t.Errorf("expected 1250, got %v", got)
		}
	})
}

func TestAverageHourlyCost(t *testing.T) {
	t.Run("detail_budget", func(t *testing.T) {
		masters := []models.BudgetMaster{master(1, 1, "2024-01", models.TipoBudgetDetail, nil)}
		details := []models.BudgetDetail{detail(1, "Software Engineer", 500, 100)}
		// 50000 / (100 days * 8h) = 62.5
		if got := AverageHourlyCost(masters, details); got != 62.5 {
			t.Errorf("expected 62.5, got %v", got)
		}
	})

	t.Run("total_budget_yields_zero", func(t *testing.T) {
		masters := []models.BudgetMaster{master(1, 1, "2024-01", models.TipoBudgetTotal, ptr(50000))}
		if got := AverageHourlyCost(masters, nil); got != 0 {
			t.Errorf("expected 0 for total-type budget, got %v", got)
		}
	})

	t.Run("no_details_yields_zero", func(t *testing.T) {
		masters := []models.BudgetMaster{master(1, 1, "2024-01", models.TipoBudgetDetail, nil)}
		if got := AverageHourlyCost(masters, nil); got != 0 {
			t.Errorf("expected 0 without detail lines, got %v", got)
		}
	})

	t.Run("no_budget_yields_zero", func(t *testing.T) {
		if got := AverageHourlyCost(nil, nil); got != 0 {
			t.Errorf("expected 0 without budgets, got %v", got)
		}
	})
}
