package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "gescom/internal/errors"
	"gescom/internal/models"
	"gescom/internal/services"
)

// BudgetHandler handles budget-related requests.
type BudgetHandler struct {
	budgetService services.BudgetServicer
}

// NewBudgetHandler creates a new BudgetHandler.
func NewBudgetHandler(budgetService services.BudgetServicer) *BudgetHandler {
	return &BudgetHandler{budgetService: budgetService}
}

// BudgetLineRequest is one role line in a budget payload.
type BudgetLineRequest struct {
	Figura  string  `json:"figura" binding:"required,min=1,max=100"`
	Tariffa float64 `json:"tariffa" binding:"gte=0"`
	Giorni  float64 `json:"giorni" binding:"gte=0"`
}

// CreateBudgetRequest represents the request payload for creating a budget master.
type CreateBudgetRequest struct {
	BudgetID       string              `json:"budget_id" binding:"required,min=1,max=50"`
	MeseCompetenza string              `json:"mese_competenza" binding:"required,mese_competenza"`
	Tipo           string              `json:"tipo" binding:"required,tipo_budget"`
	Importo        *float64            `json:"importo" binding:"omitempty,gte=0"`
	Dettagli       []BudgetLineRequest `json:"dettagli" binding:"omitempty,dive"`
}

// UpdateBudgetRequest represents the request payload for updating a budget master.
type UpdateBudgetRequest struct {
	MeseCompetenza *string  `json:"mese_competenza" binding:"omitempty,mese_competenza"`
	Importo        *float64 `json:"importo" binding:"omitempty,gte=0"`
}

// DuplicateBudgetRequest represents the request payload for duplicating a budget master.
type DuplicateBudgetRequest struct {
	BudgetID       string `json:"budget_id" binding:"required,min=1,max=50"`
	MeseCompetenza string `json:"mese_competenza" binding:"required,mese_competenza"`
}

// UpdateBudgetDetailRequest represents the request payload for updating a role line.
type UpdateBudgetDetailRequest struct {
	Figura  *string  `json:"figura" binding:"omitempty,min=1,max=100"`
	Tariffa *float64 `json:"tariffa" binding:"omitempty,gte=0"`
	Giorni  *float64 `json:"giorni" binding:"omitempty,gte=0"`
}

// CreateBudget creates a budget master for a commessa
// @Summary     Create a budget
// @Description Create a budget master (detail lines or lump sum) for a commessa; one per competency month
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Commessa ID"
// @Param       request body CreateBudgetRequest true "Budget details"
// @Success     201 {object} models.BudgetMaster "Budget created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Commessa not found"
// @Failure     409 {object} ErrorResponse "Month already budgeted"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /commesse/{id}/budgets [post]
func (h *BudgetHandler) CreateBudget(c *gin.Context) {
	commessaID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	lines := make([]services.BudgetLineInput, 0, len(req.Dettagli))
	for _, l := range req.Dettagli {
		lines = append(lines, services.BudgetLineInput{Figura: l.Figura, Tariffa: l.Tariffa, Giorni: l.Giorni})
	}

	master, err := h.budgetService.CreateBudget(commessaID, req.BudgetID, req.MeseCompetenza,
		models.TipoBudget(req.Tipo), req.Importo, lines)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"budget": master})
}

// GetCommessaBudgets lists a commessa's budgets with totals
// @Summary     List budgets
// @Description List a commessa's budget masters with computed totals, most recent month first
// @Tags        budgets
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Commessa ID"
// @Success     200 {array} services.BudgetSummary "Budgets"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Commessa not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /commesse/{id}/budgets [get]
func (h *BudgetHandler) GetCommessaBudgets(c *gin.Context) {
	commessaID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	summaries, err := h.budgetService.GetCommessaBudgets(commessaID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"budgets": summaries})
}

// GetBudget retrieves a budget master with its lines
// @Summary     Get a budget
// @Tags        budgets
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Budget ID"
// @Success     200 {object} models.BudgetMaster "Budget"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/{id} [get]
func (h *BudgetHandler) GetBudget(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	master, err := h.budgetService.GetBudgetByID(id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"budget": master})
}

// UpdateBudget updates a budget master
// @Summary     Update a budget
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Budget ID"
// @Param       request body UpdateBudgetRequest true "Fields to update"
// @Success     200 {object} models.BudgetMaster "Updated budget"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Not found"
// @Failure     409 {object} ErrorResponse "Month already budgeted"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/{id} [put]
func (h *BudgetHandler) UpdateBudget(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	master, err := h.budgetService.UpdateBudget(id, req.MeseCompetenza, req.Importo)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"budget": master})
}

// DuplicateBudget duplicates a budget master onto a new month
// @Summary     Duplicate a budget
// @Description Copy a budget master and its lines onto a new budget id and competency month
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Budget ID"
// @Param       request body DuplicateBudgetRequest true "New budget id and month"
// @Success     201 {object} models.BudgetMaster "Copied budget"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Not found"
// @Failure     409 {object} ErrorResponse "Month already budgeted"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/{id}/duplicate [post]
func (h *BudgetHandler) DuplicateBudget(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req DuplicateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	copy, err := h.budgetService.DuplicateBudget(id, req.BudgetID, req.MeseCompetenza)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"budget": copy})
}

// DeleteBudget deletes a budget master and its lines
// @Summary     Delete a budget
// @Tags        budgets
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Budget ID"
// @Success     204 "Deleted"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/{id} [delete]
func (h *BudgetHandler) DeleteBudget(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.budgetService.DeleteBudget(id); err != nil {
		respondWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// AddBudgetDetail appends a role line to a budget
// @Summary     Add a budget line
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Budget ID"
// @Param       request body BudgetLineRequest true "Role line"
// @Success     201 {object} models.BudgetDetail "Line created"
// @Failure     400 {object} ErrorResponse "Invalid input or lump-sum budget"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/{id}/details [post]
func (h *BudgetHandler) AddBudgetDetail(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req BudgetLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	detail, err := h.budgetService.AddBudgetDetail(id, services.BudgetLineInput{
		Figura:  req.Figura,
		Tariffa: req.Tariffa,
		Giorni:  req.Giorni,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"detail": detail})
}

// UpdateBudgetDetail updates a role line
// @Summary     Update a budget line
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Detail ID"
// @Param       request body UpdateBudgetDetailRequest true "Fields to update"
// @Success     200 {object} models.BudgetDetail "Updated line"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budget-details/{id} [put]
func (h *BudgetHandler) UpdateBudgetDetail(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateBudgetDetailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	detail, err := h.budgetService.UpdateBudgetDetail(id, req.Figura, req.Tariffa, req.Giorni)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"detail": detail})
}

// DeleteBudgetDetail removes a role line
// @Summary     Delete a budget line
// @Tags        budgets
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Detail ID"
// @Success     204 "Deleted"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budget-details/{id} [delete]
func (h *BudgetHandler) DeleteBudgetDetail(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.budgetService.DeleteBudgetDetail(id); err != nil {
		respondWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
