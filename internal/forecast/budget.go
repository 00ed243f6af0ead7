package forecast

import "gescom/internal/models"

// HoursPerDay converts budget days to hours (standard 8-hour workday).
const HoursPerDay = 8.0

// ApplicableMaster selects the budget that currently applies to a
// commessa: the master with the lexicographically greatest competency
// month. Budgets are snapshots superseded by month, not a versioned
// history. The tie-break is undefined; the one-master-per-month invariant
// means no two masters should share a month. Returns false when the
// commessa has no budgets; callers treat that as a zero budget.
func ApplicableMaster(masters []models.BudgetMaster) (models.BudgetMaster, bool) {
	if len(masters) == 0 {
		return models.BudgetMaster{}, false
	}
	latest := masters[0]
	for _, m := range masters[1:] {
		if m.MeseCompetenza > latest.MeseCompetenza {
			latest = m
		}
	}
	return latest, true
}

// MasterTotal computes the monetary total of a budget master: the
// lump-sum importo for total-type budgets, the sum of tariffa x giorni
// over its detail lines otherwise. Details belonging to other masters
// are ignored.
func MasterTotal(master models.BudgetMaster, details []models.BudgetDetail) float64 {
	if master.Tipo == models.TipoBudgetTotal {
		if master.Importo == nil {
			return 0
		}
		return *master.Importo
	}

	var total float64
	for _, d := range details {
		if d.BudgetMasterID == master.ID {
			total += d.Valore()
		}
	}
	return total
}

// ApplicableTotal resolves the applicable budget for a commessa and
// returns its total, or 0 when there is no budget.
func ApplicableTotal(masters []models.BudgetMaster, details []models.BudgetDetail) float64 {
	master, ok := ApplicableMaster(masters)
	if !ok {
		return 0
	}
	return MasterTotal(master, details)
}

// AverageHourlyCost derives the average hourly cost from the applicable
// budget: total cost divided by total days converted to hours. Only
// detail-type budgets carry enough information; total-type budgets and
// budgets without detail lines yield 0.
func AverageHourlyCost(masters []models.BudgetMaster, details []models.BudgetDetail) float64 {
	master, ok := ApplicableMaster(masters)
	if !ok || master.Tipo != models.TipoBudgetDetail {
		return 0
	}

	var cost, days float64
	for _, d := range details {
		if d.BudgetMasterID == master.ID {
			cost += d.Valore()
			days += d.Giorni
		}
	}
	if days == 0 {
		return 0
	}
	return cost / (days * HoursPerDay)
}
