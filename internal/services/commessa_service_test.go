package services

import (
	"testing"
	"time"

	"gescom/internal/models"
	"gescom/internal/pagination"
	"gescom/internal/testutil"
)

func TestCreateCommessa(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCommessaService(db)

		commessa, err := svc.CreateCommessa("Portale Clienti", "Acme SpA",
			time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC),
			models.StatoAttivo, models.TipologiaTM)
		testutil.AssertNoError(t, err)

		if commessa.ID == 0 {
			t.Fatal("expected non-zero commessa ID")
		}
		if commessa.Nome != "Portale Clienti" {
			t.Errorf("expected nome Portale Clienti, got %s", commessa.Nome)
		}
		if commessa.Tipologia != models.TipologiaTM {
			t.Errorf("expected tipologia T&M, got %s", commessa.Tipologia)
		}
	})

	t.Run("duplicate_name", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCommessaService(db)

		_, err := svc.CreateCommessa("Migrazione ERP", "Acme SpA",
			time.Now(), models.StatoAttivo, models.TipologiaCorpo)
		testutil.AssertNoError(t, err)

		_, err = svc.CreateCommessa("Migrazione ERP", "Altro Cliente",
			time.Now(), models.StatoPianificazione, models.TipologiaTM)
		testutil.AssertAppError(t, err, "DUPLICATE_COMMESSA")
	})

	t.Run("empty_name", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCommessaService(db)

		_, err := svc.CreateCommessa("   ", "Acme SpA", time.Now(), models.StatoAttivo, models.TipologiaTM)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestGetCommesse(t *testing.T) {
	t.Run("filters_by_stato_and_tipologia", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCommessaService(db)

		mustCreate := func(nome string, stato models.StatoCommessa, tipologia models.Tipologia) {
			_, err := svc.CreateCommessa(nome, "Acme SpA", time.Now(), stato, tipologia)
			testutil.AssertNoError(t, err)
		}
		mustCreate("Alpha", models.StatoAttivo, models.TipologiaTM)
		mustCreate("Beta", models.StatoAttivo, models.TipologiaCorpo)
		mustCreate("Gamma", models.StatoCompletato, models.TipologiaTM)

		attivo := models.StatoAttivo
		result, err := svc.GetCommesse(pagination.PageRequest{}, CommessaFilter{Stato: &attivo})
		testutil.AssertNoError(t, err)
		if result.TotalItems != 2 {
			t.Errorf("expected 2 attive, got %d", result.TotalItems)
		}

		corpo := models.TipologiaCorpo
		result, err = svc.GetCommesse(pagination.PageRequest{}, CommessaFilter{Stato: &attivo, Tipologia: &corpo})
		testutil.AssertNoError(t, err)
		if result.TotalItems != 1 {
			t.Errorf("expected 1 attiva a corpo, got %d", result.TotalItems)
		}
	})

	t.Run("free_text_search", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCommessaService(db)

		_, err := svc.CreateCommessa("Portale Fornitori", "Acme SpA", time.Now(), models.StatoAttivo, models.TipologiaTM)
		testutil.AssertNoError(t, err)
		_, err = svc.CreateCommessa("App Mobile", "Beta Srl", time.Now(), models.StatoAttivo, models.TipologiaCanone)
		testutil.AssertNoError(t, err)

		search := "portale"
		result, err := svc.GetCommesse(pagination.PageRequest{}, CommessaFilter{Search: &search})
		testutil.AssertNoError(t, err)
		if result.TotalItems != 1 {
			t.Fatalf("expected 1 match, got %d", result.TotalItems)
		}
		if result.Data[0].Nome != "Portale Fornitori" {
			t.Errorf("unexpected match: %s", result.Data[0].Nome)
		}

		// Search also matches the cliente column.
		search = "beta srl"
		result, err = svc.GetCommesse(pagination.PageRequest{}, CommessaFilter{Search: &search})
		testutil.AssertNoError(t, err)
		if result.TotalItems != 1 {
			t.Errorf("expected 1 match on cliente, got %d", result.TotalItems)
		}
	})

	t.Run("pagination", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCommessaService(db)

		for i := 0; i < 5; i++ {
			testutil.CreateTestCommessa(t, db)
		}

		result, err := svc.GetCommesse(pagination.PageRequest{Page: 2, PageSize: 2}, CommessaFilter{})
		testutil.AssertNoError(t, err)
		if len(result.Data) != 2 {
			t.Errorf("expected 2 items on page 2, got %d", len(result.Data))
		}
		if result.TotalItems != 5 {
			t.Errorf("expected 5 total, got %d", result.TotalItems)
		}
		if result.TotalPages != 3 {
			t.Errorf("expected 3 pages, got %d", result.TotalPages)
		}
	})
}

func TestUpdateCommessa(t *testing.T) {
	t.Run("partial_update", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCommessaService(db)
		commessa := testutil.CreateTestCommessa(t, db)

		stato := models.StatoCompletato
		updated, err := svc.UpdateCommessa(commessa.ID, nil, nil, nil, &stato, nil)
		testutil.AssertNoError(t, err)

		if updated.Stato != models.StatoCompletato {
			t.Errorf("expected stato Completato, got %s", updated.Stato)
		}
		if updated.Nome != commessa.Nome {
			t.Errorf("nome should be unchanged, got %s", updated.Nome)
		}
	})

	t.Run("rename_to_existing_name", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCommessaService(db)
		first := testutil.CreateTestCommessa(t, db)
		second := testutil.CreateTestCommessa(t, db)

		_, err := svc.UpdateCommessa(second.ID, &first.Nome, nil, nil, nil, nil)
		testutil.AssertAppError(t, err, "DUPLICATE_COMMESSA")
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCommessaService(db)

		_, err := svc.UpdateCommessa(9999, nil, nil, nil, nil, nil)
		testutil.AssertAppError(t, err, "COMMESSA_NOT_FOUND")
	})
}

func TestDeleteCommessa(t *testing.T) {
	t.Run("cascades_to_dependents", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCommessaService(db)
		commessa := testutil.CreateTestCommessa(t, db)
		master := testutil.CreateTestBudgetMaster(t, db, commessa.ID, "2024-01")
		testutil.CreateTestBudgetDetail(t, db, master.ID, 500, 20)
		testutil.CreateTestOrdine(t, db, commessa.ID, 10000)
		testutil.CreateTestFattura(t, db, commessa.ID, "2024-01", 8000)
		testutil.CreateTestMargine(t, db, commessa.ID, "2024-01", 5000, 100)

		err := svc.DeleteCommessa(commessa.ID)
		testutil.AssertNoError(t, err)

		_, err = svc.GetCommessaByID(commessa.ID)
		testutil.AssertAppError(t, err, "COMMESSA_NOT_FOUND")

		for table, model := range map[string]interface{}{
			"budget_masters": &models.BudgetMaster{},
			"budget_details": &models.BudgetDetail{},
			"ordini":         &models.Ordine{},
			"fatture":        &models.Fattura{},
			"margini":        &models.Margine{},
		} {
			var count int64
			if err := db.Model(model).Count(&count).Error; err != nil {
				t.Fatalf("count %s: %v", table, err)
			}
			if count != 0 {
				t.Errorf("expected %s to be empty after cascade, got %d", table, count)
			}
		}
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCommessaService(db)

		err := svc.DeleteCommessa(9999)
		testutil.AssertAppError(t, err, "COMMESSA_NOT_FOUND")
	})
}

func TestGetCommessaSummary(t *testing.T) {
	t.Run("aggregates_totals", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCommessaService(db)
		commessa := testutil.CreateTestCommessa(t, db)
		master := testutil.CreateTestBudgetMaster(t, db, commessa.ID, "2024-01")
		testutil.CreateTestBudgetDetail(t, db, master.ID, 400, 50) // 20000
		testutil.CreateTestOrdine(t, db, commessa.ID, 15000)
		testutil.CreateTestOrdine(t, db, commessa.ID, 5000)
		testutil.CreateTestFattura(t, db, commessa.ID, "2024-01", 10000)
		testutil.CreateTestMargine(t, db, commessa.ID, "2024-01", 6000, 120)

		summary, err := svc.GetCommessaSummary(commessa.ID)
		testutil.AssertNoError(t, err)

		if summary.BudgetTotale != 20000 {
			t.Errorf("expected budget 20000, got %v", summary.BudgetTotale)
		}
		if summary.TotaleOrdini != 20000 {
			t.Errorf("expected ordini 20000, got %v", summary.TotaleOrdini)
		}
		if summary.TotaleFatturato != 10000 {
			t.Errorf("expected fatturato 10000, got %v", summary.TotaleFatturato)
		}
		// (10000 - 6000) / 10000 * 100
		if summary.MargineRealizzato != 40 {
			t.Errorf("expected margine realizzato 40, got %v", summary.MargineRealizzato)
		}
		if summary.MargineForecast == nil {
			t.Fatal("expected a forecast margin")
		}
	})

	t.Run("no_forecast_history_yields_nil_margin", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCommessaService(db)
		commessa := testutil.CreateTestCommessa(t, db)

		summary, err := svc.GetCommessaSummary(commessa.ID)
		testutil.AssertNoError(t, err)

		if summary.MargineForecast != nil {
			t.Errorf("expected nil forecast margin, got %v", *summary.MargineForecast)
		}
	})
}
