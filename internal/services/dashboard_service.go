package services

import (
	"errors"
	"sort"
	"time"

	"gorm.io/gorm"

	"gescom/internal/config"
	apperrors "gescom/internal/errors"
	"gescom/internal/forecast"
	"gescom/internal/models"
	"gescom/internal/period"
)

// dashboardService computes cross-commessa aggregations. Like the
// per-commessa services it loads plain entity slices and defers all
// math to the calculation engine.
type dashboardService struct {
	db *gorm.DB
}

// NewDashboardService creates a new DashboardServicer.
func NewDashboardService(db *gorm.DB) DashboardServicer {
	return &dashboardService{db: db}
}

// GetSummary computes the headline KPIs for the resolved period, with
// period-over-period trend deltas where a previous period of equal shape
// exists.
func (s *dashboardService) GetSummary(token period.Token, customStart, customEnd *time.Time, now time.Time) (*DashboardSummary, error) {
	r, err := period.Resolve(token, now, customStart, customEnd)
	if err != nil {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error())
	}

	ids, fatture, margini, err := s.loadKPIData()
	if err != nil {
		return nil, err
	}

	kpi := forecast.PeriodKPI(ids, fatture, margini, r)
	summary := &DashboardSummary{
		Periodo: token,
		Ricavi:  kpi.Ricavi,
		Costi:   kpi.Costi,
	}
	if kpi.Ricavi > 0 {
		summary.Margine = (kpi.Ricavi - kpi.Costi) / kpi.Ricavi * 100
	}

	if err := s.db.Model(&models.Commessa{}).Where("stato = ?", models.StatoAttivo).
		Count(&summary.CommesseAttive).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if prev, ok := period.Previous(token, now); ok {
		prevKPI := forecast.PeriodKPI(ids, fatture, margini, prev)
		if delta, ok := forecast.Trend(kpi.Ricavi, prevKPI.Ricavi); ok {
			summary.TrendRicavi = &delta
		}
		if delta, ok := forecast.Trend(kpi.Costi, prevKPI.Costi); ok {
			summary.TrendCosti = &delta
		}
	}
	return summary, nil
}

// GetMonthlyTrend builds the month-by-month revenue/cost series for the
// resolved period. Revenue comes from invoice competency months; cost is
// the reconstructed monthly delta, never the cumulative snapshot.
func (s *dashboardService) GetMonthlyTrend(token period.Token, customStart, customEnd *time.Time, now time.Time) ([]TrendPoint, error) {
	r, err := period.Resolve(token, now, customStart, customEnd)
	if err != nil {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error())
	}

	_, fatture, margini, err := s.loadKPIData()
	if err != nil {
		return nil, err
	}

	points := make(map[string]*TrendPoint)
	point := func(mese string) *TrendPoint {
		if p, ok := points[mese]; ok {
			return p
		}
		p := &TrendPoint{Mese: mese}
		points[mese] = p
		return p
	}

	for _, f := range fatture {
		if anchor, ok := forecast.MonthAnchor(f.MeseCompetenza); ok && r.Contains(anchor) {
			point(f.MeseCompetenza).Ricavi += f.Importo
		}
	}

	byCommessa := make(map[uint][]models.Margine)
	for _, m := range margini {
		byCommessa[m.CommessaID] = append(byCommessa[m.CommessaID], m)
	}
	for _, records := range byCommessa {
		for _, d := range forecast.MonthlyDeltas(records) {
			if anchor, ok := forecast.MonthAnchor(d.Record.Mese); ok && r.Contains(anchor) {
				point(d.Record.Mese).Costi += d.Costo
			}
		}
	}

	series := make([]TrendPoint, 0, len(points))
	for _, p := range points {
		series = append(series, *p)
	}
	sort.Slice(series, func(i, j int) bool { return series[i].Mese < series[j].Mese })
	return series, nil
}

// GetBudgetVsActual compares each commessa's applicable budget with its
// actual cost to date.
func (s *dashboardService) GetBudgetVsActual() ([]BudgetVsActualRow, error) {
	commesse, err := s.loadCommesse()
	if err != nil {
		return nil, err
	}

	rows := make([]BudgetVsActualRow, 0, len(commesse))
	for _, commessa := range commesse {
		masters, details, margini, _, err := s.loadCommessaData(commessa.ID)
		if err != nil {
			return nil, err
		}

		row := BudgetVsActualRow{
			CommessaID: commessa.ID,
			Nome:       commessa.Nome,
			Budget:     forecast.ApplicableTotal(masters, details),
		}
		if latest, ok := forecast.Latest(margini); ok {
			row.Consuntivo = latest.CostoConsuntivi
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// GetMarginDistribution buckets commesse by their latest forecast margin
// against the configured thresholds. Commesse without a computable
// margin land in NonDisponibile rather than in a percentage bucket.
func (s *dashboardService) GetMarginDistribution() (*MarginDistribution, error) {
	commesse, err := s.loadCommesse()
	if err != nil {
		return nil, err
	}
	thresholds := config.Get().Thresholds

	dist := &MarginDistribution{}
	for _, commessa := range commesse {
		masters, details, margini, fatture, err := s.loadCommessaData(commessa.ID)
		if err != nil {
			return nil, err
		}

		metrics, ok, err := forecast.LatestMetrics(commessa, margini, fatture, masters, details)
		if !ok || errors.Is(err, forecast.ErrCostRateUnavailable) {
			dist.NonDisponibile++
			continue
		}
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		switch {
		case metrics.MarginePercent < thresholds.Critical:
			dist.Critico++
		case metrics.MarginePercent < thresholds.Warning:
			dist.Attenzione++
		case metrics.MarginePercent < thresholds.Excellent:
			dist.Buono++
		default:
			dist.Eccellente++
		}
	}
	return dist, nil
}

func (s *dashboardService) loadCommesse() ([]models.Commessa, error) {
	var commesse []models.Commessa
	if err := s.db.Order("nome ASC").Find(&commesse).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return commesse, nil
}

// loadKPIData loads the full cross-commessa dataset the KPI aggregator
// works on. Cost reconstruction needs each commessa's complete forecast
// history even for a narrow period.
func (s *dashboardService) loadKPIData() ([]uint, []models.Fattura, []models.Margine, error) {
	var ids []uint
	if err := s.db.Model(&models.Commessa{}).Pluck("id", &ids).Error; err != nil {
		return nil, nil, nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var fatture []models.Fattura
	if err := s.db.Find(&fatture).Error; err != nil {
		return nil, nil, nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var margini []models.Margine
	if err := s.db.Find(&margini).Error; err != nil {
		return nil, nil, nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return ids, fatture, margini, nil
}

func (s *dashboardService) loadCommessaData(commessaID uint) ([]models.BudgetMaster, []models.BudgetDetail, []models.Margine, []models.Fattura, error) {
	var masters []models.BudgetMaster
	if err := s.db.Preload("Dettagli").Where("commessa_id = ?", commessaID).Find(&masters).Error; err != nil {
		return nil, nil, nil, nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var margini []models.Margine
	if err := s.db.Where("commessa_id = ?", commessaID).Find(&margini).Error; err != nil {
		return nil, nil, nil, nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var fatture []models.Fattura
	if err := s.db.Where("commessa_id = ?", commessaID).Find(&fatture).Error; err != nil {
		return nil, nil, nil, nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return masters, collectDetails(masters), margini, fatture, nil
}
