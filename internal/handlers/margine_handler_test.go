package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "gescom/internal/errors"
	"gescom/internal/forecast"
	"gescom/internal/models"
	"gescom/internal/services"
)

// --- mock margine service ---

type mockMargineService struct {
	createMargineFn      func(commessaID uint, mese string, costoConsuntivi, hhConsuntivo, ggDaFare, costoMedioHH float64) (*models.Margine, error)
	getCommessaMarginiFn func(commessaID uint) ([]services.MargineRow, error)
	getLatestMetricsFn   func(commessaID uint) (*forecast.Metrics, error)
	updateMargineFn      func(id uint, mese *string, costoConsuntivi, hhConsuntivo, ggDaFare, costoMedioHH *float64) (*models.Margine, error)
	deleteMargineFn      func(id uint) error
}

func (m *mockMargineService) CreateMargine(commessaID uint, mese string, costoConsuntivi, hhConsuntivo, ggDaFare, costoMedioHH float64) (*models.Margine, error) {
	if m.createMargineFn != nil {
		return m.createMargineFn(commessaID, mese, costoConsuntivi, hhConsuntivo, ggDaFare, costoMedioHH)
	}
	return &models.Margine{}, nil
}

func (m *mockMargineService) GetCommessaMargini(commessaID uint) ([]services.MargineRow, error) {
	if m.getCommessaMarginiFn != nil {
		return m.getCommessaMarginiFn(commessaID)
	}
	return []services.MargineRow{}, nil
}

func (m *mockMargineService) GetLatestMetrics(commessaID uint) (*forecast.Metrics, error) {
	if m.getLatestMetricsFn != nil {
		return m.getLatestMetricsFn(commessaID)
	}
	return nil, nil
}

func (m *mockMargineService) UpdateMargine(id uint, mese *string, costoConsuntivi, hhConsuntivo, ggDaFare, costoMedioHH *float64) (*models.Margine, error) {
	if m.updateMargineFn != nil {
		return m.updateMargineFn(id, mese, costoConsuntivi, hhConsuntivo, ggDaFare, costoMedioHH)
	}
	return &models.Margine{}, nil
}

func (m *mockMargineService) DeleteMargine(id uint) error {
	if m.deleteMargineFn != nil {
		return m.deleteMargineFn(id)
	}
	return nil
}

var _ services.MargineServicer = (*mockMargineService)(nil)

func setupMargineRouter(handler *MargineHandler) *gin.Engine {
	r := gin.New()
	r.POST("/commesse/:id/margini", handler.CreateMargine)
	r.GET("/commesse/:id/margini", handler.GetCommessaMargini)
	r.GET("/commesse/:id/margini/latest", handler.GetLatestMetrics)
	r.PUT("/margini/:id", handler.UpdateMargine)
	r.DELETE("/margini/:id", handler.DeleteMargine)
	return r
}

func TestMargineHandler_CreateMargine(t *testing.T) {
	t.Run("returns 201 on success", func(t *testing.T) {
		svc := &mockMargineService{
			createMargineFn: func(commessaID uint, mese string, costo, ore, gg, rate float64) (*models.Margine, error) {
				return &models.Margine{
					Base:            models.Base{ID: 7},
					CommessaID:      commessaID,
					Mese:            mese,
					CostoConsuntivi: costo,
					HHConsuntivo:    ore,
				}, nil
			},
		}
		r := setupMargineRouter(NewMargineHandler(svc))

		rec := doRequest(r, "POST", "/commesse/1/margini",
			`{"mese":"2024-02","costo_consuntivi":15000,"hh_consuntivo":320}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		margine := parseJSON(t, rec)["margine"].(map[string]interface{})
		if margine["mese"] != "2024-02" {
			t.Errorf("expected mese 2024-02, got %v", margine["mese"])
		}
	})

	t.Run("returns 400 on malformed month", func(t *testing.T) {
		r := setupMargineRouter(NewMargineHandler(&mockMargineService{}))

		rec := doRequest(r, "POST", "/commesse/1/margini",
			`{"mese":"2024-2","costo_consuntivi":15000}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 409 on duplicate month", func(t *testing.T) {
		svc := &mockMargineService{
			createMargineFn: func(uint, string, float64, float64, float64, float64) (*models.Margine, error) {
				return nil, apperrors.ErrDuplicateMargineMonth
			},
		}
		r := setupMargineRouter(NewMargineHandler(svc))

		rec := doRequest(r, "POST", "/commesse/1/margini",
			`{"mese":"2024-02","costo_consuntivi":15000}`)

		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
	})
}

func TestMargineHandler_GetCommessaMargini(t *testing.T) {
	t.Run("returns rows with flagged undefined forecast", func(t *testing.T) {
		svc := &mockMargineService{
			getCommessaMarginiFn: func(uint) ([]services.MargineRow, error) {
				return []services.MargineRow{
					{
						Margine: models.Margine{Mese: "2024-01", CostoConsuntivi: 9000},
						Metrics: &forecast.Metrics{Mese: "2024-01", CostoMensile: 9000},
					},
					{
						Margine:             models.Margine{Mese: "2024-02", CostoConsuntivi: 15000},
						CostRateUnavailable: true,
					},
				}, nil
			},
		}
		r := setupMargineRouter(NewMargineHandler(svc))

		rec := doRequest(r, "GET", "/commesse/1/margini", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		rows := parseJSON(t, rec)["margini"].([]interface{})
		if len(rows) != 2 {
			t.Fatalf("expected 2 rows, got %d", len(rows))
		}
		second := rows[1].(map[string]interface{})
		if second["metrics"] != nil {
			t.Error("expected null metrics on undefined row")
		}
		if second["cost_rate_unavailable"] != true {
			t.Error("expected cost_rate_unavailable true")
		}
	})
}

func TestMargineHandler_GetLatestMetrics(t *testing.T) {
	t.Run("returns null metrics without history", func(t *testing.T) {
		r := setupMargineRouter(NewMargineHandler(&mockMargineService{}))

		rec := doRequest(r, "GET", "/commesse/1/margini/latest", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if parseJSON(t, rec)["metrics"] != nil {
			t.Error("expected null metrics")
		}
	})

	t.Run("returns 422 when cost rate unavailable", func(t *testing.T) {
		svc := &mockMargineService{
			getLatestMetricsFn: func(uint) (*forecast.Metrics, error) {
				return nil, apperrors.ErrCostRateUnavailable
			},
		}
		r := setupMargineRouter(NewMargineHandler(svc))

		rec := doRequest(r, "GET", "/commesse/1/margini/latest", "")

		if rec.Code != http.StatusUnprocessableEntity {
			t.Fatalf("expected 422, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "COST_RATE_UNAVAILABLE")
	})
}

func TestMargineHandler_DeleteMargine(t *testing.T) {
	t.Run("returns 404 when missing", func(t *testing.T) {
		svc := &mockMargineService{
			deleteMargineFn: func(uint) error { return apperrors.ErrMargineNotFound },
		}
		r := setupMargineRouter(NewMargineHandler(svc))

		rec := doRequest(r, "DELETE", "/margini/42", "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}
