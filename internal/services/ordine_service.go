package services

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	apperrors "gescom/internal/errors"
	"gescom/internal/models"
	"gescom/internal/pagination"
)

// ordineService handles purchase-order business logic.
type ordineService struct {
	db *gorm.DB
}

// NewOrdineService creates a new OrdineServicer.
func NewOrdineService(db *gorm.DB) OrdineServicer {
	return &ordineService{db: db}
}

// CreateOrdine records a purchase order for a commessa. Ordini carry no
// uniqueness constraint.
func (s *ordineService) CreateOrdine(commessaID uint, numeroOrdine string, data time.Time, importo float64) (*models.Ordine, error) {
	if strings.TrimSpace(numeroOrdine) == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "numero ordine is required")
	}

	var count int64
	if err := s.db.Model(&models.Commessa{}).Where("id = ?", commessaID).Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count == 0 {
		return nil, apperrors.ErrCommessaNotFound
	}

	ordine := &models.Ordine{
		CommessaID:   commessaID,
		NumeroOrdine: numeroOrdine,
		Data:         data,
		Importo:      importo,
	}
	if err := s.db.Create(ordine).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return ordine, nil
}

// GetCommessaOrdini returns a paginated list of a commessa's ordini,
// newest first.
func (s *ordineService) GetCommessaOrdini(commessaID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Ordine], error) {
	page.Defaults()

	query := s.db.Model(&models.Ordine{}).Where("commessa_id = ?", commessaID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var ordini []models.Ordine
	if err := query.Scopes(pagination.Paginate(page)).Order("data DESC, id DESC").Find(&ordini).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	resp := pagination.NewPageResponse(ordini, page.Page, page.PageSize, total)
	return &resp, nil
}

// UpdateOrdine updates the provided fields of an ordine.
func (s *ordineService) UpdateOrdine(id uint, numeroOrdine *string, data *time.Time, importo *float64) (*models.Ordine, error) {
	var ordine models.Ordine
	if err := s.db.First(&ordine, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrOrdineNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if numeroOrdine != nil {
		if strings.TrimSpace(*numeroOrdine) == "" {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "numero ordine is required")
		}
		ordine.NumeroOrdine = *numeroOrdine
	}
	if data != nil {
		ordine.Data = *data
	}
	if importo != nil {
		ordine.Importo = *importo
	}

	if err := s.db.Save(&ordine).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &ordine, nil
}

// DeleteOrdine removes an ordine.
func (s *ordineService) DeleteOrdine(id uint) error {
	result := s.db.Delete(&models.Ordine{}, id)
	if result.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrOrdineNotFound
	}
	return nil
}

// GetTotaleOrdini sums the importo of all ordini of a commessa.
func (s *ordineService) GetTotaleOrdini(commessaID uint) (float64, error) {
	var total float64
	if err := s.db.Model(&models.Ordine{}).Where("commessa_id = ?", commessaID).
		Select("COALESCE(SUM(importo), 0)").Scan(&total).Error; err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return total, nil
}
