package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"gescom/internal/models"

	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestCommessa creates an active T&M commessa with a unique name.
func CreateTestCommessa(t *testing.T, db *gorm.DB) *models.Commessa {
	t.Helper()
	return CreateTestCommessaWithTipologia(t, db, models.TipologiaTM)
}

// CreateTestCommessaWithTipologia creates an active commessa with the given contract type.
func CreateTestCommessaWithTipologia(t *testing.T, db *gorm.DB, tipologia models.Tipologia) *models.Commessa {
	t.Helper()

	commessa := &models.Commessa{
		Nome:       fmt.Sprintf("Progetto Test %d", nextID()),
		Cliente:    "Cliente Test",
		DataInizio: time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC),
		Stato:      models.StatoAttivo,
		Tipologia:  tipologia,
	}
	if err := db.Create(commessa).Error; err != nil {
		t.Fatalf("failed to create test commessa: %v", err)
	}
	return commessa
}

// CreateTestBudgetMaster creates a detail-type budget master for the given month.
func CreateTestBudgetMaster(t *testing.T, db *gorm.DB, commessaID uint, mese string) *models.BudgetMaster {
	t.Helper()

	master := &models.BudgetMaster{
		CommessaID:     commessaID,
		BudgetID:       fmt.Sprintf("BUD%03d", nextID()),
		MeseCompetenza: mese,
		Tipo:           models.TipoBudgetDetail,
	}
	if err := db.Create(master).Error; err != nil {
		t.Fatalf("failed to create test budget master: %v", err)
	}
	return master
}

// CreateTestLumpSumBudget creates a total-type budget master with the given importo.
func CreateTestLumpSumBudget(t *testing.T, db *gorm.DB, commessaID uint, mese string, importo float64) *models.BudgetMaster {
	t.Helper()

	master := &models.BudgetMaster{
		CommessaID:     commessaID,
		BudgetID:       fmt.Sprintf("BUD%03d", nextID()),
		MeseCompetenza: mese,
		Tipo:           models.TipoBudgetTotal,
		Importo:        &importo,
	}
	if err := db.Create(master).Error; err != nil {
		t.Fatalf("failed to create test lump-sum budget: %v", err)
	}
	return master
}

// CreateTestBudgetDetail creates one budget line for the given master.
func CreateTestBudgetDetail(t *testing.T, db *gorm.DB, masterID uint, tariffa, giorni float64) *models.BudgetDetail {
	t.Helper()

	detail := &models.BudgetDetail{
		BudgetMasterID: masterID,
		Figura:         fmt.Sprintf("Figura %d", nextID()),
		Tariffa:        tariffa,
		Giorni:         giorni,
	}
	if err := db.Create(detail).Error; err != nil {
		t.Fatalf("failed to create test budget detail: %v", err)
	}
	return detail
}

// CreateTestOrdine creates a purchase order for the commessa.
func CreateTestOrdine(t *testing.T, db *gorm.DB, commessaID uint, importo float64) *models.Ordine {
	t.Helper()

	ordine := &models.Ordine{
		CommessaID:   commessaID,
		NumeroOrdine: fmt.Sprintf("ORD-2024-%03d", nextID()),
		Data:         time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC),
		Importo:      importo,
	}
	if err := db.Create(ordine).Error; err != nil {
		t.Fatalf("failed to create test ordine: %v", err)
	}
	return ordine
}

// CreateTestFattura creates an invoice for the given competency month.
func CreateTestFattura(t *testing.T, db *gorm.DB, commessaID uint, mese string, importo float64) *models.Fattura {
	t.Helper()

	fattura := &models.Fattura{
		CommessaID:          commessaID,
		MeseCompetenza:      mese,
		DataInvioConsuntivo: time.Date(2024, time.February, 5, 0, 0, 0, 0, time.UTC),
		Importo:             importo,
	}
	if err := db.Create(fattura).Error; err != nil {
		t.Fatalf("failed to create test fattura: %v", err)
	}
	return fattura
}

// CreateTestMargine creates a forecast record with cumulative cost and hours.
func CreateTestMargine(t *testing.T, db *gorm.DB, commessaID uint, mese string, costo, ore float64) *models.Margine {
	t.Helper()

	margine := &models.Margine{
		CommessaID:      commessaID,
		Mese:            mese,
		CostoConsuntivi: costo,
		HHConsuntivo:    ore,
	}
	if err := db.Create(margine).Error; err != nil {
		t.Fatalf("failed to create test margine: %v", err)
	}
	return margine
}
