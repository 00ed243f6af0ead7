package models

import "time"

// StatoCommessa represents the lifecycle state of a commessa
type StatoCommessa string

const (
	StatoPianificazione StatoCommessa = "Pianificazione"
	StatoAttivo         StatoCommessa = "Attivo"
	StatoCompletato     StatoCommessa = "Completato"
	StatoSospeso        StatoCommessa = "Sospeso"
)

// Tipologia is the contract billing model of a commessa. It drives which
// forecast formula branch applies: Corpo is fixed price, T&M and Canone
// are billed on actuals and share the same formulas.
type Tipologia string

const (
	TipologiaTM     Tipologia = "T&M"
	TipologiaCorpo  Tipologia = "Corpo"
	TipologiaCanone Tipologia = "Canone"
)

// Fixed returns true for fixed-price contracts.
func (t Tipologia) Fixed() bool { return t == TipologiaCorpo }

// Commessa represents a client project/contract, the root entity.
// Its name is unique across the store; deleting a commessa cascades to
// budgets, ordini, fatture and margini.
type Commessa struct {
	Base
	Nome       string        `gorm:"not null;index" json:"nome"`
	Cliente    string        `gorm:"not null" json:"cliente"`
	DataInizio time.Time     `gorm:"not null" json:"data_inizio"`
	Stato      StatoCommessa `gorm:"not null" json:"stato"`
	Tipologia  Tipologia     `gorm:"not null" json:"tipologia"`
}

// TableName overrides GORM's English pluralization.
func (Commessa) TableName() string { return "commesse" }
