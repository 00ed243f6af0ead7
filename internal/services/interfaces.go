package services

import (
	"time"

	"gescom/internal/forecast"
	"gescom/internal/models"
	"gescom/internal/pagination"
	"gescom/internal/period"
)

// CommessaFilter holds optional filter parameters for listing commesse.
// Search matches nome, cliente, stato and tipologia case-insensitively.
type CommessaFilter struct {
	Cliente   *string
	Stato     *models.StatoCommessa
	Tipologia *models.Tipologia
	Search    *string
}

// CommessaSummary aggregates the at-a-glance figures for one commessa.
// MargineForecast is nil when the commessa has no forecast history yet,
// or when its Corpo forecast is undefined for lack of an hourly rate;
// "no forecast" is not the same as a 0% margin.
type CommessaSummary struct {
	Commessa          models.Commessa `json:"commessa"`
	BudgetTotale      float64         `json:"budget_totale"`
	TotaleOrdini      float64         `json:"totale_ordini"`
	TotaleFatturato   float64         `json:"totale_fatturato"`
	MargineRealizzato float64         `json:"margine_realizzato"`
	MargineForecast   *float64        `json:"margine_forecast"`
}

// CommessaServicer defines the contract for commessa-related business logic.
type CommessaServicer interface {
	CreateCommessa(nome, cliente string, dataInizio time.Time, stato models.StatoCommessa, tipologia models.Tipologia) (*models.Commessa, error)
	GetCommesse(page pagination.PageRequest, filter CommessaFilter) (*pagination.PageResponse[models.Commessa], error)
	GetCommessaByID(id uint) (*models.Commessa, error)
	UpdateCommessa(id uint, nome, cliente *string, dataInizio *time.Time, stato *models.StatoCommessa, tipologia *models.Tipologia) (*models.Commessa, error)
	DeleteCommessa(id uint) error
	GetCommessaSummary(id uint) (*CommessaSummary, error)
}

// BudgetLineInput is one role line of a detail-type budget being created.
type BudgetLineInput struct {
	Figura  string
	Tariffa float64
	Giorni  float64
}

// BudgetSummary pairs a budget master with its computed total.
type BudgetSummary struct {
	Master models.BudgetMaster `json:"master"`
	Totale float64             `json:"totale"`
}

// BudgetServicer defines the contract for budget-related business logic.
type BudgetServicer interface {
	CreateBudget(commessaID uint, budgetID, meseCompetenza string, tipo models.TipoBudget, importo *float64, lines []BudgetLineInput) (*models.BudgetMaster, error)
	GetCommessaBudgets(commessaID uint) ([]BudgetSummary, error)
	GetBudgetByID(id uint) (*models.BudgetMaster, error)
	UpdateBudget(id uint, meseCompetenza *string, importo *float64) (*models.BudgetMaster, error)
	DuplicateBudget(id uint, newBudgetID, newMese string) (*models.BudgetMaster, error)
	DeleteBudget(id uint) error
	AddBudgetDetail(masterID uint, line BudgetLineInput) (*models.BudgetDetail, error)
	UpdateBudgetDetail(detailID uint, figura *string, tariffa, giorni *float64) (*models.BudgetDetail, error)
	DeleteBudgetDetail(detailID uint) error
}

// OrdineServicer defines the contract for purchase-order business logic.
type OrdineServicer interface {
	CreateOrdine(commessaID uint, numeroOrdine string, data time.Time, importo float64) (*models.Ordine, error)
	GetCommessaOrdini(commessaID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Ordine], error)
	UpdateOrdine(id uint, numeroOrdine *string, data *time.Time, importo *float64) (*models.Ordine, error)
	DeleteOrdine(id uint) error
	GetTotaleOrdini(commessaID uint) (float64, error)
}

// FatturaServicer defines the contract for invoice business logic.
type FatturaServicer interface {
	CreateFattura(commessaID uint, meseCompetenza string, dataInvioConsuntivo time.Time, importo float64) (*models.Fattura, error)
	GetCommessaFatture(commessaID uint) ([]models.Fattura, error)
	UpdateFattura(id uint, meseCompetenza *string, dataInvioConsuntivo *time.Time, importo *float64) (*models.Fattura, error)
	DeleteFattura(id uint) error
}

// MargineRow is one forecast record with its computed metric bundle.
// Metrics is nil and CostRateUnavailable true for a Corpo record whose
// cost to complete cannot be resolved; the listing never fails as a
// whole for one undefined row.
type MargineRow struct {
	Margine             models.Margine    `json:"margine"`
	Metrics             *forecast.Metrics `json:"metrics"`
	CostRateUnavailable bool              `json:"cost_rate_unavailable"`
}

// MargineServicer defines the contract for forecast-record business logic.
type MargineServicer interface {
	CreateMargine(commessaID uint, mese string, costoConsuntivi, hhConsuntivo, ggDaFare, costoMedioHH float64) (*models.Margine, error)
	GetCommessaMargini(commessaID uint) ([]MargineRow, error)
	GetLatestMetrics(commessaID uint) (*forecast.Metrics, error)
	UpdateMargine(id uint, mese *string, costoConsuntivi, hhConsuntivo, ggDaFare, costoMedioHH *float64) (*models.Margine, error)
	DeleteMargine(id uint) error
}

// DashboardSummary is the headline KPI block for a resolved period.
// Trend deltas are nil when the previous period has no defined
// comparison (zero previous with nonzero current, or a token with no
// previous period at all).
type DashboardSummary struct {
	Periodo        period.Token `json:"periodo"`
	Ricavi         float64      `json:"ricavi"`
	Costi          float64      `json:"costi"`
	Margine        float64      `json:"margine"`
	CommesseAttive int64        `json:"commesse_attive"`
	TrendRicavi    *float64     `json:"trend_ricavi"`
	TrendCosti     *float64     `json:"trend_costi"`
}

// TrendPoint is one month of the revenue/cost trend series.
type TrendPoint struct {
	Mese   string  `json:"mese"`
	Ricavi float64 `json:"ricavi"`
	Costi  float64 `json:"costi"`
}

// BudgetVsActualRow compares a commessa's applicable budget with its
// actual cost to date (latest cumulative snapshot).
type BudgetVsActualRow struct {
	CommessaID uint    `json:"commessa_id"`
	Nome       string  `json:"nome"`
	Budget     float64 `json:"budget"`
	Consuntivo float64 `json:"consuntivo"`
}

// MarginDistribution buckets commesse by their latest forecast margin
// against the configured thresholds. NonDisponibile counts commesse
// whose margin cannot be computed (no forecast history, or an undefined
// Corpo forecast).
type MarginDistribution struct {
	Critico        int `json:"critico"`
	Attenzione     int `json:"attenzione"`
	Buono          int `json:"buono"`
	Eccellente     int `json:"eccellente"`
	NonDisponibile int `json:"non_disponibile"`
}

// DashboardServicer defines the contract for cross-commessa aggregations.
// Callers pass now explicitly so period resolution stays deterministic.
type DashboardServicer interface {
	GetSummary(token period.Token, customStart, customEnd *time.Time, now time.Time) (*DashboardSummary, error)
	GetMonthlyTrend(token period.Token, customStart, customEnd *time.Time, now time.Time) ([]TrendPoint, error)
	GetBudgetVsActual() ([]BudgetVsActualRow, error)
	GetMarginDistribution() (*MarginDistribution, error)
}
