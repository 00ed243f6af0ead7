// Package forecast is the margin/EAC/ETC calculation engine. All
// functions are pure: they operate on entity slices loaded by the caller
// and never touch storage. Zero-denominator divisions conventionally
// yield 0, with one exception: a Corpo forecast with remaining work and
// no resolvable hourly rate is undefined and reported as
// ErrCostRateUnavailable rather than silently zeroed.
package forecast

import (
	"errors"

	"gescom/internal/models"
)

// ErrCostRateUnavailable signals a Corpo forecast whose cost to complete
// cannot be computed: remaining days are positive but neither the record
// nor the applicable budget provides an hourly rate.
var ErrCostRateUnavailable = errors.New("hourly cost rate unavailable with remaining work")

// Metrics is the full metric bundle for one forecast record. Fields that
// belong to the other contract branch are left at zero.
type Metrics struct {
	Mese            string  `json:"mese"`
	CostoConsuntivi float64 `json:"costo_consuntivi"`
	BudgetTotale    float64 `json:"budget_totale"`
	MarginePercent  float64 `json:"margine_percent"`
	CostoEAC        float64 `json:"costo_eac"`
	CostoETC        float64 `json:"costo_etc"`
	Avanzamento     float64 `json:"avanzamento"`
	RicavoMaturato  float64 `json:"ricavo_maturato"`
	RicavoResiduo   float64 `json:"ricavo_residuo"`

	// T&M / Canone branch
	CostoMensile      float64 `json:"costo_mensile"`
	OreMensili        float64 `json:"ore_mensili"`
	RicavoConsuntivo  float64 `json:"ricavo_consuntivo"`
	CostoOrario       float64 `json:"costo_orario"`
	OreETC            float64 `json:"ore_etc"`

	// Corpo branch
	CostoMedioHH    float64 `json:"costo_medio_hh"`
	CostoDaBudget   bool    `json:"costo_da_budget"`
	OreDaFare       float64 `json:"ore_da_fare"`
}

// Compute evaluates the full metric set for one forecast record,
// branching on the contract type of its commessa. For T&M/Canone the
// chronologically previous record (nil for the first month) and the
// commessa's fatture drive the monthly deltas and revenue to date; for
// Corpo they are unused.
func Compute(
	commessa models.Commessa,
	record models.Margine,
	previous *models.Margine,
	fatture []models.Fattura,
	masters []models.BudgetMaster,
	details []models.BudgetDetail,
) (Metrics, error) {
	if commessa.Tipologia.Fixed() {
		return computeCorpo(record, masters, details)
	}
	return computeTM(record, previous, fatture, masters, details), nil
}

// computeCorpo implements the fixed-price branch: remaining days drive
// the estimate to complete, and margin is measured against the budget.
func computeCorpo(record models.Margine, masters []models.BudgetMaster, details []models.BudgetDetail) (Metrics, error) {
	budget := ApplicableTotal(masters, details)

	hourly := record.CostoMedioHH
	fromBudget := false
	if hourly <= 0 {
		hourly = AverageHourlyCost(masters, details)
		fromBudget = hourly > 0
	}
	if hourly == 0 && record.GgDaFare > 0 {
		return Metrics{}, ErrCostRateUnavailable
	}

	oreDaFare := record.GgDaFare * HoursPerDay
	etc := oreDaFare * hourly
	eac := etc + record.CostoConsuntivi

	m := Metrics{
		Mese:            record.Mese,
		CostoConsuntivi: record.CostoConsuntivi,
		BudgetTotale:    budget,
		CostoEAC:        eac,
		CostoETC:        etc,
		CostoMedioHH:    hourly,
		CostoDaBudget:   fromBudget,
		OreDaFare:       oreDaFare,
	}
	if budget > 0 {
		m.MarginePercent = (budget - eac) / budget * 100
	}
	if eac > 0 {
		m.Avanzamento = record.CostoConsuntivi / eac * 100
	}
	m.RicavoMaturato = budget * m.Avanzamento / 100
	m.RicavoResiduo = budget - m.RicavoMaturato
	return m, nil
}

// computeTM implements the time-and-materials/retainer branch: margin is
// measured against invoiced revenue up to the record's month, and the
// EAC is projected by applying that margin to the budget.
func computeTM(
	record models.Margine,
	previous *models.Margine,
	fatture []models.Fattura,
	masters []models.BudgetMaster,
	details []models.BudgetDetail,
) Metrics {
	m := Metrics{
		Mese:            record.Mese,
		CostoConsuntivi: record.CostoConsuntivi,
		CostoMensile:    record.CostoConsuntivi,
		OreMensili:      record.HHConsuntivo,
	}
	if previous != nil {
		m.CostoMensile = record.CostoConsuntivi - previous.CostoConsuntivi
		m.OreMensili = record.HHConsuntivo - previous.HHConsuntivo
	}

	m.RicavoConsuntivo = RevenueToMonth(fatture, record.Mese)

	if record.HHConsuntivo > 0 {
		m.CostoOrario = record.CostoConsuntivi / record.HHConsuntivo
	}
	if m.RicavoConsuntivo > 0 {
		m.MarginePercent = (m.RicavoConsuntivo - record.CostoConsuntivi) / m.RicavoConsuntivo * 100
	}

	m.BudgetTotale = ApplicableTotal(masters, details)
	if m.BudgetTotale > 0 {
		m.CostoEAC = m.BudgetTotale * (1 - m.MarginePercent/100)
	}
	if m.CostoEAC > 0 {
		m.CostoETC = m.CostoEAC - record.CostoConsuntivi
	}
	if m.CostoOrario > 0 {
		m.OreETC = m.CostoETC / m.CostoOrario
	}
	if m.CostoEAC > 0 {
		m.Avanzamento = record.CostoConsuntivi / m.CostoEAC * 100
	}
	m.RicavoMaturato = m.BudgetTotale * m.Avanzamento / 100
	m.RicavoResiduo = m.BudgetTotale - m.RicavoMaturato
	return m
}

// RevenueToMonth sums invoice amounts with competency month up to and
// including mese.
func RevenueToMonth(fatture []models.Fattura, mese string) float64 {
	var total float64
	for _, f := range fatture {
		if f.MeseCompetenza <= mese {
			total += f.Importo
		}
	}
	return total
}

// LatestMetrics evaluates the commessa's most recent forecast record.
// The boolean is false when the commessa has no forecast history at all:
// "no forecast yet" is distinct from a computed 0% margin and callers
// must not coerce it to zero.
func LatestMetrics(
	commessa models.Commessa,
	records []models.Margine,
	fatture []models.Fattura,
	masters []models.BudgetMaster,
	details []models.BudgetDetail,
) (Metrics, bool, error) {
	record, previous, ok := LatestWithPrevious(records)
	if !ok {
		return Metrics{}, false, nil
	}
	m, err := Compute(commessa, record, previous, fatture, masters, details)
	if err != nil {
		return Metrics{}, true, err
	}
	return m, true, nil
}

// RealizedMargin is the budget-independent at-a-glance margin:
// (total invoiced - actual cost to date) / total invoiced. The actual
// cost to date is the latest cumulative snapshot. Returns 0 when nothing
// has been invoiced.
func RealizedMargin(fatture []models.Fattura, records []models.Margine) float64 {
	var invoiced float64
	for _, f := range fatture {
		invoiced += f.Importo
	}
	if invoiced == 0 {
		return 0
	}

	var cost float64
	if latest, ok := Latest(records); ok {
		cost = latest.CostoConsuntivi
	}
	return (invoiced - cost) / invoiced * 100
}
