package models

import "time"

// Fattura is an invoice issued for a commessa. At most one fattura per
// (commessa, competency month).
type Fattura struct {
	Base
	CommessaID          uint      `gorm:"not null;index" json:"commessa_id"`
	MeseCompetenza      string    `gorm:"not null;size:7" json:"mese_competenza"`
	DataInvioConsuntivo time.Time `gorm:"not null" json:"data_invio_consuntivo"`
	Importo             float64   `gorm:"not null" json:"importo"`
}

// TableName overrides GORM's English pluralization.
func (Fattura) TableName() string { return "fatture" }
