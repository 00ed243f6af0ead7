package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "gescom/internal/errors"
	"gescom/internal/forecast"
	"gescom/internal/models"
)

// margineService handles forecast-record business logic. Listing loads
// the commessa's full snapshot (records, fatture, budgets) and feeds the
// pure calculation engine; nothing is precomputed or stored.
type margineService struct {
	db *gorm.DB
}

// NewMargineService creates a new MargineServicer.
func NewMargineService(db *gorm.DB) MargineServicer {
	return &margineService{db: db}
}

// CreateMargine records a forecast snapshot. A commessa holds at most
// one record per month; CostoConsuntivi and HHConsuntivo are cumulative
// to date.
func (s *margineService) CreateMargine(commessaID uint, mese string, costoConsuntivi, hhConsuntivo, ggDaFare, costoMedioHH float64) (*models.Margine, error) {
	var count int64
	if err := s.db.Model(&models.Commessa{}).Where("id = ?", commessaID).Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count == 0 {
		return nil, apperrors.ErrCommessaNotFound
	}

	if err := s.checkMonthFree(commessaID, mese, 0); err != nil {
		return nil, err
	}

	margine := &models.Margine{
		CommessaID:      commessaID,
		Mese:            mese,
		CostoConsuntivi: costoConsuntivi,
		HHConsuntivo:    hhConsuntivo,
		GgDaFare:        ggDaFare,
		CostoMedioHH:    costoMedioHH,
	}
	if err := s.db.Create(margine).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return margine, nil
}

// GetCommessaMargini lists a commessa's forecast records in month order,
// each with its computed metric bundle. A Corpo record with no resolvable
// hourly rate yields a row flagged CostRateUnavailable instead of failing
// the listing.
func (s *margineService) GetCommessaMargini(commessaID uint) ([]MargineRow, error) {
	commessa, margini, fatture, masters, details, err := s.loadSnapshot(commessaID)
	if err != nil {
		return nil, err
	}

	rows := make([]MargineRow, 0, len(margini))
	for i, record := range margini {
		var previous *models.Margine
		if i > 0 {
			previous = &margini[i-1]
		}

		row := MargineRow{Margine: record}
		metrics, err := forecast.Compute(*commessa, record, previous, fatture, masters, details)
		switch {
		case errors.Is(err, forecast.ErrCostRateUnavailable):
			row.CostRateUnavailable = true
		case err != nil:
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		default:
			row.Metrics = &metrics
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// GetLatestMetrics evaluates the most recent forecast record of a
// commessa. Returns nil without error when the commessa has no forecast
// history: callers must treat that as "no value", not zero.
func (s *margineService) GetLatestMetrics(commessaID uint) (*forecast.Metrics, error) {
	commessa, margini, fatture, masters, details, err := s.loadSnapshot(commessaID)
	if err != nil {
		return nil, err
	}

	metrics, ok, err := forecast.LatestMetrics(*commessa, margini, fatture, masters, details)
	if !ok {
		return nil, nil
	}
	if errors.Is(err, forecast.ErrCostRateUnavailable) {
		return nil, apperrors.Wrap(apperrors.ErrCostRateUnavailable, err)
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &metrics, nil
}

// UpdateMargine updates the provided fields of a forecast record. A month
// change is re-validated against the one-per-month invariant.
func (s *margineService) UpdateMargine(id uint, mese *string, costoConsuntivi, hhConsuntivo, ggDaFare, costoMedioHH *float64) (*models.Margine, error) {
	var margine models.Margine
	if err := s.db.First(&margine, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrMargineNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if mese != nil && *mese != margine.Mese {
		if err := s.checkMonthFree(margine.CommessaID, *mese, margine.ID); err != nil {
			return nil, err
		}
		margine.Mese = *mese
	}
	if costoConsuntivi != nil {
		margine.CostoConsuntivi = *costoConsuntivi
	}
	if hhConsuntivo != nil {
		margine.HHConsuntivo = *hhConsuntivo
	}
	if ggDaFare != nil {
		margine.GgDaFare = *ggDaFare
	}
	if costoMedioHH != nil {
		margine.CostoMedioHH = *costoMedioHH
	}

	if err := s.db.Save(&margine).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &margine, nil
}

// DeleteMargine removes a forecast record. Monthly deltas of later
// months are reconstructed per query, so no stored value needs fixing up.
func (s *margineService) DeleteMargine(id uint) error {
	result := s.db.Delete(&models.Margine{}, id)
	if result.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrMargineNotFound
	}
	return nil
}

// loadSnapshot loads everything the calculation engine needs for one
// commessa: its forecast records in month order, fatture, and budget
// masters with lines.
func (s *margineService) loadSnapshot(commessaID uint) (*models.Commessa, []models.Margine, []models.Fattura, []models.BudgetMaster, []models.BudgetDetail, error) {
	var commessa models.Commessa
	if err := s.db.First(&commessa, commessaID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, nil, nil, nil, apperrors.ErrCommessaNotFound
		}
		return nil, nil, nil, nil, nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var margini []models.Margine
	if err := s.db.Where("commessa_id = ?", commessaID).Order("mese ASC").Find(&margini).Error; err != nil {
		return nil, nil, nil, nil, nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var fatture []models.Fattura
	if err := s.db.Where("commessa_id = ?", commessaID).Find(&fatture).Error; err != nil {
		return nil, nil, nil, nil, nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var masters []models.BudgetMaster
	if err := s.db.Preload("Dettagli").Where("commessa_id = ?", commessaID).Find(&masters).Error; err != nil {
		return nil, nil, nil, nil, nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return &commessa, margini, fatture, masters, collectDetails(masters), nil
}

func (s *margineService) checkMonthFree(commessaID uint, mese string, excludeID uint) error {
	var count int64
	query := s.db.Model(&models.Margine{}).Where("commessa_id = ? AND mese = ?", commessaID, mese)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return apperrors.ErrDuplicateMargineMonth
	}
	return nil
}
