package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "gescom/internal/errors"
	"gescom/internal/services"
)

// FatturaHandler handles invoice requests.
type FatturaHandler struct {
	fatturaService services.FatturaServicer
}

// NewFatturaHandler creates a new FatturaHandler.
func NewFatturaHandler(fatturaService services.FatturaServicer) *FatturaHandler {
	return &FatturaHandler{fatturaService: fatturaService}
}

// CreateFatturaRequest represents the request payload for creating a fattura.
type CreateFatturaRequest struct {
	MeseCompetenza      string  `json:"mese_competenza" binding:"required,mese_competenza"`
	DataInvioConsuntivo string  `json:"data_invio_consuntivo" binding:"required"`
	Importo             float64 `json:"importo" binding:"gte=0"`
}

// UpdateFatturaRequest represents the request payload for updating a fattura.
type UpdateFatturaRequest struct {
	MeseCompetenza      *string  `json:"mese_competenza" binding:"omitempty,mese_competenza"`
	DataInvioConsuntivo *string  `json:"data_invio_consuntivo"`
	Importo             *float64 `json:"importo" binding:"omitempty,gte=0"`
}

// CreateFattura records an invoice for a commessa
// @Summary     Create a fattura
// @Description Record an invoice; one per (commessa, competency month)
// @Tags        fatture
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Commessa ID"
// @Param       request body CreateFatturaRequest true "Fattura details"
// @Success     201 {object} models.Fattura "Fattura created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Commessa not found"
// @Failure     409 {object} ErrorResponse "Month already invoiced"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /commesse/{id}/fatture [post]
func (h *FatturaHandler) CreateFattura(c *gin.Context) {
	commessaID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateFatturaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	dataInvio, err := parseDate(req.DataInvioConsuntivo)
	if err != nil {
		respondWithError(c, err)
		return
	}

	fattura, err := h.fatturaService.CreateFattura(commessaID, req.MeseCompetenza, dataInvio, req.Importo)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"fattura": fattura})
}

// GetCommessaFatture lists a commessa's fatture
// @Summary     List fatture
// @Description List a commessa's invoices in competency-month order
// @Tags        fatture
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Commessa ID"
// @Success     200 {array} models.Fattura "Fatture"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /commesse/{id}/fatture [get]
func (h *FatturaHandler) GetCommessaFatture(c *gin.Context) {
	commessaID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	fatture, err := h.fatturaService.GetCommessaFatture(commessaID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"fatture": fatture})
}

// UpdateFattura updates a fattura
// @Summary     Update a fattura
// @Tags        fatture
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Fattura ID"
// @Param       request body UpdateFatturaRequest true "Fields to update"
// @Success     200 {object} models.Fattura "Updated fattura"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Not found"
// @Failure     409 {object} ErrorResponse "Month already invoiced"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /fatture/{id} [put]
func (h *FatturaHandler) UpdateFattura(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateFatturaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	var dataInvio *time.Time
	if req.DataInvioConsuntivo != nil {
		parsed, err := parseDate(*req.DataInvioConsuntivo)
		if err != nil {
			respondWithError(c, err)
			return
		}
		dataInvio = &parsed
	}

	fattura, err := h.fatturaService.UpdateFattura(id, req.MeseCompetenza, dataInvio, req.Importo)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"fattura": fattura})
}

// DeleteFattura removes a fattura
// @Summary     Delete a fattura
// @Tags        fatture
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Fattura ID"
// @Success     204 "Deleted"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /fatture/{id} [delete]
func (h *FatturaHandler) DeleteFattura(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.fatturaService.DeleteFattura(id); err != nil {
		respondWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
