package services

import (
	"testing"
	"time"

	"gescom/internal/testutil"
)

func TestCreateFattura(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewFatturaService(db)
		commessa := testutil.CreateTestCommessa(t, db)

		fattura, err := svc.CreateFattura(commessa.ID, "2024-02",
			time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC), 18000)
		testutil.AssertNoError(t, err)

		if fattura.ID == 0 {
			t.Fatal("expected non-zero fattura ID")
		}
		if fattura.MeseCompetenza != "2024-02" {
			t.Errorf("expected mese 2024-02, got %s", fattura.MeseCompetenza)
		}
	})

	t.Run("duplicate_month", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewFatturaService(db)
		commessa := testutil.CreateTestCommessa(t, db)
		testutil.CreateTestFattura(t, db, commessa.ID, "2024-02", 10000)

		_, err := svc.CreateFattura(commessa.ID, "2024-02", time.Now(), 5000)
		testutil.AssertAppError(t, err, "DUPLICATE_FATTURA_MONTH")
	})

	t.Run("same_month_other_commessa_is_fine", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewFatturaService(db)
		first := testutil.CreateTestCommessa(t, db)
		second := testutil.CreateTestCommessa(t, db)
		testutil.CreateTestFattura(t, db, first.ID, "2024-02", 10000)

		_, err := svc.CreateFattura(second.ID, "2024-02", time.Now(), 5000)
		testutil.AssertNoError(t, err)
	})

	t.Run("commessa_not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewFatturaService(db)

		_, err := svc.CreateFattura(9999, "2024-02", time.Now(), 5000)
		testutil.AssertAppError(t, err, "COMMESSA_NOT_FOUND")
	})
}

func TestGetCommessaFatture(t *testing.T) {
	t.Run("month_order", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewFatturaService(db)
		commessa := testutil.CreateTestCommessa(t, db)
		testutil.CreateTestFattura(t, db, commessa.ID, "2024-03", 3000)
		testutil.CreateTestFattura(t, db, commessa.ID, "2024-01", 1000)
		testutil.CreateTestFattura(t, db, commessa.ID, "2024-02", 2000)

		fatture, err := svc.GetCommessaFatture(commessa.ID)
		testutil.AssertNoError(t, err)

		if len(fatture) != 3 {
			t.Fatalf("expected 3 fatture, got %d", len(fatture))
		}
		for i, want := range []string{"2024-01", "2024-02", "2024-03"} {
			if fatture[i].MeseCompetenza != want {
				t.Errorf("position %d: expected %s, got %s", i, want, fatture[i].MeseCompetenza)
			}
		}
	})
}

func TestUpdateFattura(t *testing.T) {
	t.Run("month_change_revalidated", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewFatturaService(db)
		commessa := testutil.CreateTestCommessa(t, db)
		testutil.CreateTestFattura(t, db, commessa.ID, "2024-01", 1000)
		target := testutil.CreateTestFattura(t, db, commessa.ID, "2024-02", 2000)

		mese := "2024-01"
		_, err := svc.UpdateFattura(target.ID, &mese, nil, nil)
		testutil.AssertAppError(t, err, "DUPLICATE_FATTURA_MONTH")

		mese = "2024-04"
		updated, err := svc.UpdateFattura(target.ID, &mese, nil, nil)
		testutil.AssertNoError(t, err)
		if updated.MeseCompetenza != "2024-04" {
			t.Errorf("expected mese 2024-04, got %s", updated.MeseCompetenza)
		}
	})

	t.Run("same_month_update_is_fine", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewFatturaService(db)
		commessa := testutil.CreateTestCommessa(t, db)
		fattura := testutil.CreateTestFattura(t, db, commessa.ID, "2024-01", 1000)

		mese := "2024-01"
		importo := 1500.0
		updated, err := svc.UpdateFattura(fattura.ID, &mese, nil, &importo)
		testutil.AssertNoError(t, err)
		if updated.Importo != 1500 {
			t.Errorf("expected importo 1500, got %v", updated.Importo)
		}
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewFatturaService(db)

		_, err := svc.UpdateFattura(9999, nil, nil, nil)
		testutil.AssertAppError(t, err, "FATTURA_NOT_FOUND")
	})
}

func TestDeleteFattura(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewFatturaService(db)
	commessa := testutil.CreateTestCommessa(t, db)
	fattura := testutil.CreateTestFattura(t, db, commessa.ID, "2024-01", 1000)

	testutil.AssertNoError(t, svc.DeleteFattura(fattura.ID))
	testutil.AssertAppError(t, svc.DeleteFattura(fattura.ID), "FATTURA_NOT_FOUND")
}
