package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "gescom/internal/errors"
	"gescom/internal/services"
)

// MargineHandler handles forecast-record requests.
type MargineHandler struct {
	margineService services.MargineServicer
}

// NewMargineHandler creates a new MargineHandler.
func NewMargineHandler(margineService services.MargineServicer) *MargineHandler {
	return &MargineHandler{margineService: margineService}
}

// CreateMargineRequest represents the request payload for creating a
// forecast record. CostoConsuntivi and HHConsuntivo are cumulative to
// date, not monthly values.
type CreateMargineRequest struct {
	Mese            string  `json:"mese" binding:"required,mese_competenza"`
	CostoConsuntivi float64 `json:"costo_consuntivi" binding:"gte=0"`
	HHConsuntivo    float64 `json:"hh_consuntivo" binding:"gte=0"`
	GgDaFare        float64 `json:"gg_da_fare" binding:"gte=0"`
	CostoMedioHH    float64 `json:"costo_medio_hh" binding:"gte=0"`
}

// UpdateMargineRequest represents the request payload for updating a forecast record.
type UpdateMargineRequest struct {
	Mese            *string  `json:"mese" binding:"omitempty,mese_competenza"`
	CostoConsuntivi *float64 `json:"costo_consuntivi" binding:"omitempty,gte=0"`
	HHConsuntivo    *float64 `json:"hh_consuntivo" binding:"omitempty,gte=0"`
	GgDaFare        *float64 `json:"gg_da_fare" binding:"omitempty,gte=0"`
	CostoMedioHH    *float64 `json:"costo_medio_hh" binding:"omitempty,gte=0"`
}

// CreateMargine records a forecast snapshot for a commessa
// @Summary     Create a forecast record
// @Description Record a monthly forecast snapshot; one per (commessa, month)
// @Tags        margini
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Commessa ID"
// @Param       request body CreateMargineRequest true "Forecast record"
// @Success     201 {object} models.Margine "Record created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Commessa not found"
// @Failure     409 {object} ErrorResponse "Month already recorded"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /commesse/{id}/margini [post]
func (h *MargineHandler) CreateMargine(c *gin.Context) {
	commessaID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateMargineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	margine, err := h.margineService.CreateMargine(commessaID, req.Mese,
		req.CostoConsuntivi, req.HHConsuntivo, req.GgDaFare, req.CostoMedioHH)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"margine": margine})
}

// GetCommessaMargini lists a commessa's forecast records with metrics
// @Summary     List forecast records
// @Description List forecast records in month order, each with its computed metric bundle
// @Tags        margini
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Commessa ID"
// @Success     200 {array} services.MargineRow "Records with metrics"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Commessa not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /commesse/{id}/margini [get]
func (h *MargineHandler) GetCommessaMargini(c *gin.Context) {
	commessaID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	rows, err := h.margineService.GetCommessaMargini(commessaID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"margini": rows})
}

// GetLatestMetrics returns the latest forecast metric bundle
// @Summary     Get latest forecast metrics
// @Description Metrics of the most recent forecast record; metrics is null when no record exists
// @Tags        margini
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Commessa ID"
// @Success     200 {object} forecast.Metrics "Latest metrics"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Commessa not found"
// @Failure     422 {object} ErrorResponse "Cost rate unavailable"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /commesse/{id}/margini/latest [get]
func (h *MargineHandler) GetLatestMetrics(c *gin.Context) {
	commessaID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	metrics, err := h.margineService.GetLatestMetrics(commessaID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"metrics": metrics})
}

// UpdateMargine updates a forecast record
// @Summary     Update a forecast record
// @Tags        margini
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Margine ID"
// @Param       request body UpdateMargineRequest true "Fields to update"
// @Success     200 {object} models.Margine "Updated record"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Not found"
// @Failure     409 {object} ErrorResponse "Month already recorded"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /margini/{id} [put]
func (h *MargineHandler) UpdateMargine(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateMargineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	margine, err := h.margineService.UpdateMargine(id, req.Mese,
		req.CostoConsuntivi, req.HHConsuntivo, req.GgDaFare, req.CostoMedioHH)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"margine": margine})
}

// DeleteMargine removes a forecast record
// @Summary     Delete a forecast record
// @Tags        margini
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Margine ID"
// @Success     204 "Deleted"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /margini/{id} [delete]
func (h *MargineHandler) DeleteMargine(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.margineService.DeleteMargine(id); err != nil {
		respondWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
