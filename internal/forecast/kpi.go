package forecast

import (
	"time"

	"gescom/internal/models"
	"gescom/internal/period"
)

// KPI is the revenue/cost pair aggregated over a project set and period.
type KPI struct {
	Ricavi float64 `json:"ricavi"`
	Costi  float64 `json:"costi"`
}

// PeriodKPI sums invoice revenue and reconstructed monthly cost for the
// given commesse within the range. Revenue counts fatture whose
// competency month falls in range. Cost is a true monthly cost: each
// commessa's full forecast history is converted to monthly deltas first,
// then only the deltas whose month falls in range are summed; a narrow
// range still requires the complete history.
func PeriodKPI(ids []uint, fatture []models.Fattura, margini []models.Margine, r period.Range) KPI {
	idSet := make(map[uint]bool, len(ids))
	for _, id := range ids {
		idSet[id] = true
	}

	var kpi KPI
	for _, f := range fatture {
		if idSet[f.CommessaID] && monthInRange(f.MeseCompetenza, r) {
			kpi.Ricavi += f.Importo
		}
	}

	byCommessa := make(map[uint][]models.Margine)
	for _, m := range margini {
		if idSet[m.CommessaID] {
			byCommessa[m.CommessaID] = append(byCommessa[m.CommessaID], m)
		}
	}
	for _, records := range byCommessa {
		for _, d := range MonthlyDeltas(records) {
			if monthInRange(d.Record.Mese, r) {
				kpi.Costi += d.Costo
			}
		}
	}
	return kpi
}

// Trend computes the period-over-period percentage delta. The second
// return value is false when the previous period's value is zero but the
// current one is not: the delta is unavailable, not infinite.
func Trend(current, previous float64) (float64, bool) {
	if previous == 0 {
		if current == 0 {
			return 0, true
		}
		return 0, false
	}
	return (current - previous) / previous * 100, true
}

// MonthAnchor converts a YYYY-MM competency month to a date anchored on
// day 02. The mid-month anchor (deliberately not day 1) keeps month
// membership stable across UTC/local day-one boundary rounding. Returns
// false for malformed month strings.
func MonthAnchor(mese string) (time.Time, bool) {
	t, err := time.Parse("2006-01-02", mese+"-02")
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func monthInRange(mese string, r period.Range) bool {
	if r.Unbounded() {
		return true
	}
	anchor, ok := MonthAnchor(mese)
	if !ok {
		return false
	}
	return r.Contains(anchor)
}
