package services

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	apperrors "gescom/internal/errors"
	"gescom/internal/forecast"
	"gescom/internal/models"
	"gescom/internal/pagination"
)

// commessaService handles commessa-related business logic.
type commessaService struct {
	db *gorm.DB
}

// NewCommessaService creates a new CommessaServicer.
func NewCommessaService(db *gorm.DB) CommessaServicer {
	return &commessaService{db: db}
}

// CreateCommessa creates a new commessa. The name must be unique across
// the whole store.
func (s *commessaService) CreateCommessa(nome, cliente string, dataInizio time.Time, stato models.StatoCommessa, tipologia models.Tipologia) (*models.Commessa, error) {
	nome = strings.TrimSpace(nome)
	if nome == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "commessa name is required")
	}

	var count int64
	if err := s.db.Model(&models.Commessa{}).Where("nome = ?", nome).Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return nil, apperrors.ErrDuplicateCommessa
	}

	commessa := &models.Commessa{
		Nome:       nome,
		Cliente:    cliente,
		DataInizio: dataInizio,
		Stato:      stato,
		Tipologia:  tipologia,
	}
	if err := s.db.Create(commessa).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return commessa, nil
}

// GetCommesse returns a paginated list of commesse matching the filter.
func (s *commessaService) GetCommesse(page pagination.PageRequest, filter CommessaFilter) (*pagination.PageResponse[models.Commessa], error) {
	page.Defaults()

	query := s.db.Model(&models.Commessa{})
	if filter.Cliente != nil {
		query = query.Where("cliente = ?", *filter.Cliente)
	}
	if filter.Stato != nil {
		query = query.Where("stato = ?", *filter.Stato)
	}
	if filter.Tipologia != nil {
		query = query.Where("tipologia = ?", *filter.Tipologia)
	}
	if filter.Search != nil && *filter.Search != "" {
		like := "%" + strings.ToLower(*filter.Search) + "%"
		query = query.Where(
			"LOWER(nome) LIKE ? OR LOWER(cliente) LIKE ? OR LOWER(stato) LIKE ? OR LOWER(tipologia) LIKE ?",
			like, like, like, like,
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var commesse []models.Commessa
	if err := query.Scopes(pagination.Paginate(page)).Order("data_inizio DESC, id DESC").Find(&commesse).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	resp := pagination.NewPageResponse(commesse, page.Page, page.PageSize, total)
	return &resp, nil
}

// GetCommessaByID retrieves a commessa by its ID.
func (s *commessaService) GetCommessaByID(id uint) (*models.Commessa, error) {
	var commessa models.Commessa
	if err := s.db.First(&commessa, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCommessaNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &commessa, nil
}

// UpdateCommessa updates the provided fields of a commessa. A name
// change is re-validated against the uniqueness invariant.
func (s *commessaService) UpdateCommessa(id uint, nome, cliente *string, dataInizio *time.Time, stato *models.StatoCommessa, tipologia *models.Tipologia) (*models.Commessa, error) {
	commessa, err := s.GetCommessaByID(id)
	if err != nil {
		return nil, err
	}

	if nome != nil {
		trimmed := strings.TrimSpace(*nome)
		if trimmed == "" {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "commessa name is required")
		}
		if trimmed != commessa.Nome {
			var count int64
			if err := s.db.Model(&models.Commessa{}).Where("nome = ? AND id <> ?", trimmed, id).Count(&count).Error; err != nil {
				return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
			if count > 0 {
				return nil, apperrors.ErrDuplicateCommessa
			}
		}
		commessa.Nome = trimmed
	}
	if cliente != nil {
		commessa.Cliente = *cliente
	}
	if dataInizio != nil {
		commessa.DataInizio = *dataInizio
	}
	if stato != nil {
		commessa.Stato = *stato
	}
	if tipologia != nil {
		commessa.Tipologia = *tipologia
	}

	if err := s.db.Save(commessa).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return commessa, nil
}

// DeleteCommessa deletes a commessa and all its dependent records
// (budgets with their lines, ordini, fatture, margini) in one transaction.
func (s *commessaService) DeleteCommessa(id uint) error {
	if _, err := s.GetCommessaByID(id); err != nil {
		return err
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		masterIDs := tx.Model(&models.BudgetMaster{}).Select("id").Where("commessa_id = ?", id)
		if err := tx.Where("budget_master_id IN (?)", masterIDs).Delete(&models.BudgetDetail{}).Error; err != nil {
			return err
		}
		if err := tx.Where("commessa_id = ?", id).Delete(&models.BudgetMaster{}).Error; err != nil {
			return err
		}
		if err := tx.Where("commessa_id = ?", id).Delete(&models.Ordine{}).Error; err != nil {
			return err
		}
		if err := tx.Where("commessa_id = ?", id).Delete(&models.Fattura{}).Error; err != nil {
			return err
		}
		if err := tx.Where("commessa_id = ?", id).Delete(&models.Margine{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Commessa{}, id).Error
	})
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// GetCommessaSummary aggregates the at-a-glance figures for one commessa.
func (s *commessaService) GetCommessaSummary(id uint) (*CommessaSummary, error) {
	commessa, err := s.GetCommessaByID(id)
	if err != nil {
		return nil, err
	}

	var masters []models.BudgetMaster
	if err := s.db.Preload("Dettagli").Where("commessa_id = ?", id).Find(&masters).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	details := collectDetails(masters)

	var totaleOrdini float64
	if err := s.db.Model(&models.Ordine{}).Where("commessa_id = ?", id).
		Select("COALESCE(SUM(importo), 0)").Scan(&totaleOrdini).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var fatture []models.Fattura
	if err := s.db.Where("commessa_id = ?", id).Find(&fatture).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	var totaleFatturato float64
	for _, f := range fatture {
		totaleFatturato += f.Importo
	}

	var margini []models.Margine
	if err := s.db.Where("commessa_id = ?", id).Find(&margini).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	summary := &CommessaSummary{
		Commessa:          *commessa,
		BudgetTotale:      forecast.ApplicableTotal(masters, details),
		TotaleOrdini:      totaleOrdini,
		TotaleFatturato:   totaleFatturato,
		MargineRealizzato: forecast.RealizedMargin(fatture, margini),
	}

	// An undefined Corpo forecast degrades to "no forecast margin"
	// here rather than failing the whole summary.
	metrics, ok, err := forecast.LatestMetrics(*commessa, margini, fatture, masters, details)
	if ok && err == nil {
		summary.MargineForecast = &metrics.MarginePercent
	}
	return summary, nil
}

// collectDetails flattens the preloaded detail lines of a set of masters.
func collectDetails(masters []models.BudgetMaster) []models.BudgetDetail {
	var details []models.BudgetDetail
	for _, m := range masters {
		details = append(details, m.Dettagli...)
	}
	return details
}
