package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "gescom/internal/errors"
	"gescom/internal/pagination"
	"gescom/internal/services"
)

// OrdineHandler handles purchase-order requests.
type OrdineHandler struct {
	ordineService services.OrdineServicer
}

// NewOrdineHandler creates a new OrdineHandler.
func NewOrdineHandler(ordineService services.OrdineServicer) *OrdineHandler {
	return &OrdineHandler{ordineService: ordineService}
}

// CreateOrdineRequest represents the request payload for creating an ordine.
type CreateOrdineRequest struct {
	NumeroOrdine string  `json:"numero_ordine" binding:"required,min=1,max=100"`
	Data         string  `json:"data" binding:"required"`
	Importo      float64 `json:"importo" binding:"gte=0"`
}

// UpdateOrdineRequest represents the request payload for updating an ordine.
type UpdateOrdineRequest struct {
	NumeroOrdine *string  `json:"numero_ordine" binding:"omitempty,min=1,max=100"`
	Data         *string  `json:"data"`
	Importo      *float64 `json:"importo" binding:"omitempty,gte=0"`
}

// CreateOrdine records a purchase order for a commessa
// @Summary     Create an ordine
// @Tags        ordini
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Commessa ID"
// @Param       request body CreateOrdineRequest true "Ordine details"
// @Success     201 {object} models.Ordine "Ordine created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Commessa not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /commesse/{id}/ordini [post]
func (h *OrdineHandler) CreateOrdine(c *gin.Context) {
	commessaID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateOrdineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	data, err := parseDate(req.Data)
	if err != nil {
		respondWithError(c, err)
		return
	}

	ordine, err := h.ordineService.CreateOrdine(commessaID, req.NumeroOrdine, data, req.Importo)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"ordine": ordine})
}

// GetCommessaOrdini lists a commessa's ordini
// @Summary     List ordini
// @Tags        ordini
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Commessa ID"
// @Param       page query int false "Page number"
// @Param       page_size query int false "Page size"
// @Success     200 {object} pagination.PageResponse[models.Ordine] "Ordini"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /commesse/{id}/ordini [get]
func (h *OrdineHandler) GetCommessaOrdini(c *gin.Context) {
	commessaID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.ordineService.GetCommessaOrdini(commessaID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetTotaleOrdini returns the sum of a commessa's orders
// @Summary     Get orders total
// @Tags        ordini
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Commessa ID"
// @Success     200 {object} map[string]float64 "Total"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /commesse/{id}/ordini/totale [get]
func (h *OrdineHandler) GetTotaleOrdini(c *gin.Context) {
	commessaID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	total, err := h.ordineService.GetTotaleOrdini(commessaID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"totale": total})
}

// UpdateOrdine updates an ordine
// @Summary     Update an ordine
// @Tags        ordini
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Ordine ID"
// @Param       request body UpdateOrdineRequest true "Fields to update"
// @Success     200 {object} models.Ordine "Updated ordine"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /ordini/{id} [put]
func (h *OrdineHandler) UpdateOrdine(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateOrdineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	var data *time.Time
	if req.Data != nil {
		parsed, err := parseDate(*req.Data)
		if err != nil {
			respondWithError(c, err)
			return
		}
		data = &parsed
	}

	ordine, err := h.ordineService.UpdateOrdine(id, req.NumeroOrdine, data, req.Importo)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ordine": ordine})
}

// DeleteOrdine removes an ordine
// @Summary     Delete an ordine
// @Tags        ordini
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Ordine ID"
// @Success     204 "Deleted"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /ordini/{id} [delete]
func (h *OrdineHandler) DeleteOrdine(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.ordineService.DeleteOrdine(id); err != nil {
		respondWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
