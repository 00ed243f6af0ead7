package models

// TipoBudget distinguishes detailed budgets (rate x days per role) from
// lump-sum budgets carrying a single importo.
type TipoBudget string

const (
	TipoBudgetDetail TipoBudget = "detail"
	TipoBudgetTotal  TipoBudget = "total"
)

// BudgetMaster is a budget snapshot for a commessa, keyed by competency
// month. A commessa has at most one master per month; the applicable
// budget at any time is the one with the greatest MeseCompetenza
// ("most recent wins"; there is no time-sliced history).
type BudgetMaster struct {
	Base
	CommessaID     uint       `gorm:"not null;index" json:"commessa_id"`
	BudgetID       string     `gorm:"not null" json:"budget_id"`
	MeseCompetenza string     `gorm:"not null;size:7" json:"mese_competenza"`
	Tipo           TipoBudget `gorm:"not null;default:detail" json:"tipo"`
	Importo        *float64   `json:"importo,omitempty"`

	Dettagli []BudgetDetail `gorm:"foreignKey:BudgetMasterID" json:"dettagli,omitempty"`
}

// BudgetDetail is one role line of a detail-type budget. Its monetary
// value is Tariffa * Giorni; fractional days are allowed.
type BudgetDetail struct {
	Base
	BudgetMasterID uint    `gorm:"not null;index" json:"budget_master_id"`
	Figura         string  `gorm:"not null" json:"figura"`
	Tariffa        float64 `gorm:"not null" json:"tariffa"`
	Giorni         float64 `gorm:"not null" json:"giorni"`
}

// Valore returns the monetary value of the budget line.
func (d BudgetDetail) Valore() float64 { return d.Tariffa * d.Giorni }
