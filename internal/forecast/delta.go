package forecast

import (
	"sort"

	"gescom/internal/models"
)

// MonthlyDelta is one month of a commessa's forecast series with its
// cumulative fields converted back to per-month values.
type MonthlyDelta struct {
	Record models.Margine
	Costo  float64
	Ore    float64
}

// MonthlyDeltas reconstructs per-month cost and hour values from a
// commessa's cumulative forecast snapshots. Records are ordered ascending
// by competency month (insertion order is irrelevant); each delta is the
// difference versus the chronologically previous record, and the first
// record's delta is its own cumulative value. The reconstruction is
// recomputed on every call and never stored.
func MonthlyDeltas(records []models.Margine) []MonthlyDelta {
	sorted := sortByMese(records)

	deltas := make([]MonthlyDelta, len(sorted))
	for i, rec := range sorted {
		d := MonthlyDelta{Record: rec, Costo: rec.CostoConsuntivi, Ore: rec.HHConsuntivo}
		if i > 0 {
			d.Costo = rec.CostoConsuntivi - sorted[i-1].CostoConsuntivi
			d.Ore = rec.HHConsuntivo - sorted[i-1].HHConsuntivo
		}
		deltas[i] = d
	}
	return deltas
}

// Latest returns the forecast record with the greatest competency month,
// or false if the series is empty.
func Latest(records []models.Margine) (models.Margine, bool) {
	if len(records) == 0 {
		return models.Margine{}, false
	}
	latest := records[0]
	for _, rec := range records[1:] {
		if rec.Mese > latest.Mese {
			latest = rec
		}
	}
	return latest, true
}

// LatestWithPrevious returns the latest record together with its
// chronological predecessor (nil when the latest is the first record).
func LatestWithPrevious(records []models.Margine) (models.Margine, *models.Margine, bool) {
	if len(records) == 0 {
		return models.Margine{}, nil, false
	}
	sorted := sortByMese(records)
	latest := sorted[len(sorted)-1]
	if len(sorted) == 1 {
		return latest, nil, true
	}
	prev := sorted[len(sorted)-2]
	return latest, &prev, true
}

func sortByMese(records []models.Margine) []models.Margine {
	sorted := make([]models.Margine, len(records))
	copy(sorted, records)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Mese < sorted[j].Mese })
	return sorted
}
