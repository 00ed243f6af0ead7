package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	apperrors "gescom/internal/errors"
	"gescom/internal/forecast"
	"gescom/internal/models"
)

// budgetService handles budget-related business logic.
type budgetService struct {
	db *gorm.DB
}

// NewBudgetService creates a new BudgetServicer.
func NewBudgetService(db *gorm.DB) BudgetServicer {
	return &budgetService{db: db}
}

// CreateBudget creates a budget master with its detail lines. A commessa
// holds at most one master per competency month; lump-sum masters carry
// an importo and no lines, detail masters carry lines and no importo.
func (s *budgetService) CreateBudget(commessaID uint, budgetID, meseCompetenza string, tipo models.TipoBudget, importo *float64, lines []BudgetLineInput) (*models.BudgetMaster, error) {
	if strings.TrimSpace(budgetID) == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "budget id is required")
	}
	if err := s.checkCommessaExists(commessaID); err != nil {
		return nil, err
	}
	if err := s.checkMonthFree(commessaID, meseCompetenza, 0); err != nil {
		return nil, err
	}

	switch tipo {
	case models.TipoBudgetTotal:
		if len(lines) > 0 {
			return nil, apperrors.ErrLumpSumBudgetDetail
		}
		if importo == nil {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "a lump-sum budget requires an importo")
		}
	case models.TipoBudgetDetail:
		if importo != nil {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "a detail budget is valued by its lines, not an importo")
		}
	default:
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "unknown budget type")
	}

	master := &models.BudgetMaster{
		CommessaID:     commessaID,
		BudgetID:       budgetID,
		MeseCompetenza: meseCompetenza,
		Tipo:           tipo,
		Importo:        importo,
	}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(master).Error; err != nil {
			return err
		}
		for _, line := range lines {
			detail := &models.BudgetDetail{
				BudgetMasterID: master.ID,
				Figura:         line.Figura,
				Tariffa:        line.Tariffa,
				Giorni:         line.Giorni,
			}
			if err := tx.Create(detail).Error; err != nil {
				return err
			}
			master.Dettagli = append(master.Dettagli, *detail)
		}
		return nil
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return master, nil
}

// GetCommessaBudgets lists a commessa's budget masters with their totals,
// most recent competency month first.
func (s *budgetService) GetCommessaBudgets(commessaID uint) ([]BudgetSummary, error) {
	if err := s.checkCommessaExists(commessaID); err != nil {
		return nil, err
	}

	var masters []models.BudgetMaster
	if err := s.db.Preload("Dettagli").Where("commessa_id = ?", commessaID).
		Order("mese_competenza DESC").Find(&masters).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	summaries := make([]BudgetSummary, 0, len(masters))
	for _, m := range masters {
		summaries = append(summaries, BudgetSummary{
			Master: m,
			Totale: forecast.MasterTotal(m, m.Dettagli),
		})
	}
	return summaries, nil
}

// GetBudgetByID retrieves a budget master with its detail lines.
func (s *budgetService) GetBudgetByID(id uint) (*models.BudgetMaster, error) {
	var master models.BudgetMaster
	if err := s.db.Preload("Dettagli").First(&master, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBudgetNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &master, nil
}

// UpdateBudget updates a master's competency month and, for lump-sum
// masters, its importo. A month change is re-validated against the
// one-master-per-month invariant.
func (s *budgetService) UpdateBudget(id uint, meseCompetenza *string, importo *float64) (*models.BudgetMaster, error) {
	master, err := s.GetBudgetByID(id)
	if err != nil {
		return nil, err
	}

	if meseCompetenza != nil && *meseCompetenza != master.MeseCompetenza {
		if err := s.checkMonthFree(master.CommessaID, *meseCompetenza, master.ID); err != nil {
			return nil, err
		}
		master.MeseCompetenza = *meseCompetenza
	}
	if importo != nil {
		if master.Tipo != models.TipoBudgetTotal {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "a detail budget is valued by its lines, not an importo")
		}
		master.Importo = importo
	}

	if err := s.db.Save(master).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return master, nil
}

// DuplicateBudget copies a master and its lines onto a new budget id and
// competency month. The copy goes through the same month invariant as a
// fresh create.
func (s *budgetService) DuplicateBudget(id uint, newBudgetID, newMese string) (*models.BudgetMaster, error) {
	source, err := s.GetBudgetByID(id)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(newBudgetID) == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "budget id is required")
	}
	if err := s.checkMonthFree(source.CommessaID, newMese, 0); err != nil {
		return nil, err
	}

	copy := &models.BudgetMaster{
		CommessaID:     source.CommessaID,
		BudgetID:       newBudgetID,
		MeseCompetenza: newMese,
		Tipo:           source.Tipo,
		Importo:        source.Importo,
	}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(copy).Error; err != nil {
			return err
		}
		for _, line := range source.Dettagli {
			detail := &models.BudgetDetail{
				BudgetMasterID: copy.ID,
				Figura:         line.Figura,
				Tariffa:        line.Tariffa,
				Giorni:         line.Giorni,
			}
			if err := tx.Create(detail).Error; err != nil {
				return err
			}
			copy.Dettagli = append(copy.Dettagli, *detail)
		}
		return nil
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return copy, nil
}

// DeleteBudget deletes a master together with its detail lines.
func (s *budgetService) DeleteBudget(id uint) error {
	if _, err := s.GetBudgetByID(id); err != nil {
		return err
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("budget_master_id = ?", id).Delete(&models.BudgetDetail{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.BudgetMaster{}, id).Error
	})
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// AddBudgetDetail appends a role line to a detail-type master.
func (s *budgetService) AddBudgetDetail(masterID uint, line BudgetLineInput) (*models.BudgetDetail, error) {
	master, err := s.GetBudgetByID(masterID)
	if err != nil {
		return nil, err
	}
	if master.Tipo == models.TipoBudgetTotal {
		return nil, apperrors.ErrLumpSumBudgetDetail
	}
	if strings.TrimSpace(line.Figura) == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "figura is required")
	}

	detail := &models.BudgetDetail{
		BudgetMasterID: master.ID,
		Figura:         line.Figura,
		Tariffa:        line.Tariffa,
		Giorni:         line.Giorni,
	}
	if err := s.db.Create(detail).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return detail, nil
}

// UpdateBudgetDetail updates the provided fields of a role line.
func (s *budgetService) UpdateBudgetDetail(detailID uint, figura *string, tariffa, giorni *float64) (*models.BudgetDetail, error) {
	var detail models.BudgetDetail
	if err := s.db.First(&detail, detailID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBudgetDetailNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if figura != nil {
		if strings.TrimSpace(*figura) == "" {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "figura is required")
		}
		detail.Figura = *figura
	}
	if tariffa != nil {
		detail.Tariffa = *tariffa
	}
	if giorni != nil {
		detail.Giorni = *giorni
	}

	if err := s.db.Save(&detail).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &detail, nil
}

// DeleteBudgetDetail removes a role line.
func (s *budgetService) DeleteBudgetDetail(detailID uint) error {
	result := s.db.Delete(&models.BudgetDetail{}, detailID)
	if result.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrBudgetDetailNotFound
	}
	return nil
}

func (s *budgetService) checkCommessaExists(commessaID uint) error {
	var count int64
	if err := s.db.Model(&models.Commessa{}).Where("id = ?", commessaID).Count(&count).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count == 0 {
		return apperrors.ErrCommessaNotFound
	}
	return nil
}

// checkMonthFree enforces one master per (commessa, competency month).
// excludeID lets an update skip the master being edited.
func (s *budgetService) checkMonthFree(commessaID uint, mese string, excludeID uint) error {
	var count int64
	query := s.db.Model(&models.BudgetMaster{}).Where("commessa_id = ? AND mese_competenza = ?", commessaID, mese)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return apperrors.ErrDuplicateBudgetMonth
	}
	return nil
}
