package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"askhub/internal/model"
)

type DialogRepository struct {
	db *gorm.DB
}

func NewDialogRepository(db *gorm.DB) *DialogRepository {
	return &DialogRepository{db: db}
}

func (r *DialogRepository) Create(dialog *model.Dialog) error {
	if err := r.db.Create(dialog).Error; err != nil {
		return fmt.Errorf("create dialog failed: %w", err)
	}
	return nil
}

func (r *DialogRepository) GetByID(dialogID uint) (*model.Dialog, error) {
	var dialog model.Dialog
	if err := r.db.First(&dialog, dialogID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get dialog failed: %w", err)
	}
	return &dialog, nil
}

func (r *DialogRepository) GetByIDAndProjectID(dialogID, projectID uint) (*model.Dialog, error) {
	var dialog model.Dialog
	if err := r.db.Where("id = ? AND project_id = ?", dialogID, projectID).First(&dialog).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get dialog failed: %w", err)
	}
	return &dialog, nil
}

// GetByIDForOwner resolves a dialog only when its project belongs to ownerID.
// Non-owned dialogs are indistinguishable from missing ones.
func (r *DialogRepository) GetByIDForOwner(dialogID, ownerID uint) (*model.Dialog, error) {
	var dialog model.Dialog
	err := r.db.
		Joins("JOIN projects ON projects.id = dialogs.project_id").
		Where("dialogs.id = ? AND projects.owner_id = ?", dialogID, ownerID).
		First(&dialog).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get dialog failed: %w", err)
	}
	return &dialog, nil
}

func (r *DialogRepository) ListByOwnerID(ownerID uint) ([]model.Dialog, error) {
	var dialogs []model.Dialog
	err := r.db.
		Joins("JOIN projects ON projects.id = dialogs.project_id").
		Where("projects.owner_id = ?", ownerID).
		Order("dialogs.updated_at DESC").
		Find(&dialogs).Error
	if err != nil {
		return nil, fmt.Errorf("list dialogs failed: %w", err)
	}
	return dialogs, nil
}

func (r *DialogRepository) Update(dialog *model.Dialog) error {
	if err := r.db.Save(dialog).Error; err != nil {
		return fmt.Errorf("update dialog failed: %w", err)
	}
	return nil
}

// DeleteByID removes the dialog and its messages in one transaction.
func (r *DialogRepository) DeleteByID(dialogID uint) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("dialog_id = ?", dialogID).Delete(&model.Message{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Dialog{}, dialogID).Error
	})
	if err != nil {
		return fmt.Errorf("delete dialog failed: %w", err)
	}
	return nil
}
