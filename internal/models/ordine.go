package models

import "time"

// Ordine is a purchase order received for a commessa. There is no
// uniqueness constraint on ordini.
type Ordine struct {
	Base
	CommessaID   uint      `gorm:"not null;index" json:"commessa_id"`
	NumeroOrdine string    `gorm:"not null" json:"numero_ordine"`
	Data         time.Time `gorm:"not null" json:"data"`
	Importo      float64   `gorm:"not null" json:"importo"`
}

// TableName overrides GORM's English pluralization.
func (Ordine) TableName() string { return "ordini" }
