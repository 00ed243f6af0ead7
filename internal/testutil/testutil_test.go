package testutil_test

import (
	"testing"

	"gescom/internal/errors"
	"gescom/internal/models"
	"gescom/internal/testutil"
)

func TestSetupTestDB(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	var count int64
	for _, table := range []string{"commesse", "budget_masters", "budget_details", "ordini", "fatture", "margini"} {
		if err := db.Table(table).Count(&count).Error; err != nil {
			t.Errorf("table %q should exist after migration: %v", table, err)
		}
	}
}

func TestFixtures(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	commessa := testutil.CreateTestCommessa(t, db)
	if commessa.ID == 0 {
		t.Fatal("commessa should have a non-zero ID")
	}

	corpo := testutil.CreateTestCommessaWithTipologia(t, db, models.TipologiaCorpo)
	if corpo.Tipologia != models.TipologiaCorpo {
		t.Errorf("expected Corpo, got %s", corpo.Tipologia)
	}

	master := testutil.CreateTestBudgetMaster(t, db, commessa.ID, "2024-01")
	if master.Tipo != models.TipoBudgetDetail {
		t.Errorf("expected detail budget, got %s", master.Tipo)
	}

	lump := testutil.CreateTestLumpSumBudget(t, db, commessa.ID, "2024-02", 50000)
	if lump.Importo == nil || *lump.Importo != 50000 {
		t.Errorf("expected importo 50000, got %v", lump.Importo)
	}

	detail := testutil.CreateTestBudgetDetail(t, db, master.ID, 500, 100)
	if detail.Valore() != 50000 {
		t.Errorf("expected line value 50000, got %v", detail.Valore())
	}

	fattura := testutil.CreateTestFattura(t, db, commessa.ID, "2024-01", 12000)
	if fattura.Importo != 12000 {
		t.Errorf("expected importo 12000, got %v", fattura.Importo)
	}

	margine := testutil.CreateTestMargine(t, db, commessa.ID, "2024-01", 9000, 200)
	if margine.CostoConsuntivi != 9000 {
		t.Errorf("expected cumulative cost 9000, got %v", margine.CostoConsuntivi)
	}
}

func TestAssertAppError(t *testing.T) {
	err := errors.WithMessage(errors.ErrCommessaNotFound, "custom message")
	testutil.AssertAppError(t, err, "COMMESSA_NOT_FOUND")
}

func TestAssertNoError(t *testing.T) {
	testutil.AssertNoError(t, nil)
}
