package models

// Margine is a monthly forecast/cost-actuals snapshot for a commessa.
// CostoConsuntivi and HHConsuntivo are cumulative running totals to date,
// not per-month values: a single month's figure must be reconstructed by
// subtracting the previous record in month order. At most one record per
// (commessa, month).
//
// GgDaFare and CostoMedioHH are only meaningful for Corpo commesse;
// HHConsuntivo only for T&M/Canone. A zero CostoMedioHH means "derive the
// hourly rate from the applicable budget".
type Margine struct {
	Base
	CommessaID      uint    `gorm:"not null;index" json:"commessa_id"`
	Mese            string  `gorm:"not null;size:7" json:"mese"`
	CostoConsuntivi float64 `gorm:"not null" json:"costo_consuntivi"`
	HHConsuntivo    float64 `json:"hh_consuntivo"`
	GgDaFare        float64 `json:"gg_da_fare"`
	CostoMedioHH    float64 `json:"costo_medio_hh"`
}

// TableName overrides GORM's English pluralization.
func (Margine) TableName() string { return "margini" }
