package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "gescom/internal/errors"
	"gescom/internal/models"
)

// fatturaService handles invoice business logic.
type fatturaService struct {
	db *gorm.DB
}

// NewFatturaService creates a new FatturaServicer.
func NewFatturaService(db *gorm.DB) FatturaServicer {
	return &fatturaService{db: db}
}

// CreateFattura records an invoice. A commessa holds at most one fattura
// per competency month.
func (s *fatturaService) CreateFattura(commessaID uint, meseCompetenza string, dataInvioConsuntivo time.Time, importo float64) (*models.Fattura, error) {
	var count int64
	if err := s.db.Model(&models.Commessa{}).Where("id = ?", commessaID).Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count == 0 {
		return nil, apperrors.ErrCommessaNotFound
	}

	if err := s.checkMonthFree(commessaID, meseCompetenza, 0); err != nil {
		return nil, err
	}

	fattura := &models.Fattura{
		CommessaID:          commessaID,
		MeseCompetenza:      meseCompetenza,
		DataInvioConsuntivo: dataInvioConsuntivo,
		Importo:             importo,
	}
	if err := s.db.Create(fattura).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return fattura, nil
}

// GetCommessaFatture lists a commessa's fatture in competency-month order.
func (s *fatturaService) GetCommessaFatture(commessaID uint) ([]models.Fattura, error) {
	var fatture []models.Fattura
	if err := s.db.Where("commessa_id = ?", commessaID).
		Order("mese_competenza ASC").Find(&fatture).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return fatture, nil
}

// UpdateFattura updates the provided fields of a fattura. A competency
// month change is re-validated against the one-per-month invariant.
func (s *fatturaService) UpdateFattura(id uint, meseCompetenza *string, dataInvioConsuntivo *time.Time, importo *float64) (*models.Fattura, error) {
	var fattura models.Fattura
	if err := s.db.First(&fattura, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrFatturaNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if meseCompetenza != nil && *meseCompetenza != fattura.MeseCompetenza {
		if err := s.checkMonthFree(fattura.CommessaID, *meseCompetenza, fattura.ID); err != nil {
			return nil, err
		}
		fattura.MeseCompetenza = *meseCompetenza
	}
	if dataInvioConsuntivo != nil {
		fattura.DataInvioConsuntivo = *dataInvioConsuntivo
	}
	if importo != nil {
		fattura.Importo = *importo
	}

	if err := s.db.Save(&fattura).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &fattura, nil
}

// DeleteFattura removes a fattura.
func (s *fatturaService) DeleteFattura(id uint) error {
	result := s.db.Delete(&models.Fattura{}, id)
	if result.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrFatturaNotFound
	}
	return nil
}

func (s *fatturaService) checkMonthFree(commessaID uint, mese string, excludeID uint) error {
	var count int64
	query := s.db.Model(&models.Fattura{}).Where("commessa_id = ? AND mese_competenza = ?", commessaID, mese)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return apperrors.ErrDuplicateFatturaMonth
	}
	return nil
}
