package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "gescom/internal/errors"
	"gescom/internal/models"
	"gescom/internal/pagination"
	"gescom/internal/services"
)

// CommessaHandler handles commessa-related requests.
type CommessaHandler struct {
	commessaService services.CommessaServicer
}

// NewCommessaHandler creates a new CommessaHandler.
func NewCommessaHandler(commessaService services.CommessaServicer) *CommessaHandler {
	return &CommessaHandler{commessaService: commessaService}
}

// CreateCommessaRequest represents the request payload for creating a commessa.
type CreateCommessaRequest struct {
	Nome       string `json:"nome" binding:"required,min=1,max=200"`
	Cliente    string `json:"cliente" binding:"required,min=1,max=200"`
	DataInizio string `json:"data_inizio" binding:"required"`
	Stato      string `json:"stato" binding:"required,stato_commessa"`
	Tipologia  string `json:"tipologia" binding:"required,tipologia"`
}

// UpdateCommessaRequest represents the request payload for updating a commessa.
// All fields are optional; only the provided ones are applied.
type UpdateCommessaRequest struct {
	Nome       *string `json:"nome" binding:"omitempty,min=1,max=200"`
	Cliente    *string `json:"cliente" binding:"omitempty,min=1,max=200"`
	DataInizio *string `json:"data_inizio"`
	Stato      *string `json:"stato" binding:"omitempty,stato_commessa"`
	Tipologia  *string `json:"tipologia" binding:"omitempty,tipologia"`
}

// ListCommesseRequest holds the query parameters for listing commesse.
type ListCommesseRequest struct {
	pagination.PageRequest
	Cliente   *string `form:"cliente"`
	Stato     *string `form:"stato" binding:"omitempty,stato_commessa"`
	Tipologia *string `form:"tipologia" binding:"omitempty,tipologia"`
	Search    *string `form:"search"`
}

// CreateCommessa handles the creation of a new commessa
// @Summary     Create a commessa
// @Description Create a new commessa; the name must be unique
// @Tags        commesse
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateCommessaRequest true "Commessa details"
// @Success     201 {object} models.Commessa "Commessa created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     409 {object} ErrorResponse "Duplicate name"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /commesse [post]
func (h *CommessaHandler) CreateCommessa(c *gin.Context) {
	var req CreateCommessaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	dataInizio, err := parseDate(req.DataInizio)
	if err != nil {
		respondWithError(c, err)
		return
	}

	commessa, err := h.commessaService.CreateCommessa(req.Nome, req.Cliente, dataInizio,
		models.StatoCommessa(req.Stato), models.Tipologia(req.Tipologia))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"commessa": commessa})
}

// GetCommesse lists commesse with filters and pagination
// @Summary     List commesse
// @Description List commesse filtered by cliente, stato, tipologia or free-text search
// @Tags        commesse
// @Produce     json
// @Security    BearerAuth
// @Param       page query int false "Page number"
// @Param       page_size query int false "Page size"
// @Param       cliente query string false "Filter by cliente"
// @Param       stato query string false "Filter by stato"
// @Param       tipologia query string false "Filter by tipologia"
// @Param       search query string false "Free-text search on nome, cliente, stato, tipologia"
// @Success     200 {object} pagination.PageResponse[models.Commessa] "Commesse"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /commesse [get]
func (h *CommessaHandler) GetCommesse(c *gin.Context) {
	var req ListCommesseRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	filter := services.CommessaFilter{
		Cliente: req.Cliente,
		Search:  req.Search,
	}
	if req.Stato != nil {
		stato := models.StatoCommessa(*req.Stato)
		filter.Stato = &stato
	}
	if req.Tipologia != nil {
		tipologia := models.Tipologia(*req.Tipologia)
		filter.Tipologia = &tipologia
	}

	result, err := h.commessaService.GetCommesse(req.PageRequest, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetCommessa retrieves a single commessa
// @Summary     Get a commessa
// @Tags        commesse
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Commessa ID"
// @Success     200 {object} models.Commessa "Commessa"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /commesse/{id} [get]
func (h *CommessaHandler) GetCommessa(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	commessa, err := h.commessaService.GetCommessaByID(id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"commessa": commessa})
}

// GetCommessaSummary retrieves a commessa's aggregated figures
// @Summary     Get a commessa summary
// @Description Budget total, orders total, invoiced total, realized margin and latest forecast margin
// @Tags        commesse
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Commessa ID"
// @Success     200 {object} services.CommessaSummary "Summary"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /commesse/{id}/summary [get]
func (h *CommessaHandler) GetCommessaSummary(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	summary, err := h.commessaService.GetCommessaSummary(id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// UpdateCommessa updates a commessa
// @Summary     Update a commessa
// @Tags        commesse
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Commessa ID"
// @Param       request body UpdateCommessaRequest true "Fields to update"
// @Success     200 {object} models.Commessa "Updated commessa"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Not found"
// @Failure     409 {object} ErrorResponse "Duplicate name"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /commesse/{id} [put]
func (h *CommessaHandler) UpdateCommessa(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateCommessaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	var dataInizio *time.Time
	if req.DataInizio != nil {
		parsed, err := parseDate(*req.DataInizio)
		if err != nil {
			respondWithError(c, err)
			return
		}
		dataInizio = &parsed
	}

	var stato *models.StatoCommessa
	if req.Stato != nil {
		s := models.StatoCommessa(*req.Stato)
		stato = &s
	}
	var tipologia *models.Tipologia
	if req.Tipologia != nil {
		tp := models.Tipologia(*req.Tipologia)
		tipologia = &tp
	}

	commessa, err := h.commessaService.UpdateCommessa(id, req.Nome, req.Cliente, dataInizio, stato, tipologia)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"commessa": commessa})
}

// DeleteCommessa deletes a commessa and all its dependent records
// @Summary     Delete a commessa
// @Description Delete a commessa together with its budgets, ordini, fatture and margini
// @Tags        commesse
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Commessa ID"
// @Success     204 "Deleted"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /commesse/{id} [delete]
func (h *CommessaHandler) DeleteCommessa(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.commessaService.DeleteCommessa(id); err != nil {
		respondWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
