package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"askhub/internal/model"
)

type ProjectRepository struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

func (r *ProjectRepository) Create(project *model.Project) error {
	if err := r.db.Create(project).Error; err != nil {
		return fmt.Errorf("create project failed: %w", err)
	}
	return nil
}

func (r *ProjectRepository) GetByID(id uint) (*model.Project, error) {
	var project model.Project
	if err := r.db.First(&project, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get project failed: %w", err)
	}
	return &project, nil
}

func (r *ProjectRepository) GetByIDAndOwnerID(projectID, ownerID uint) (*model.Project, error) {
	var project model.Project
	if err := r.db.Where("id = ? AND owner_id = ?", projectID, ownerID).First(&project).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get project failed: %w", err)
	}
	return &project, nil
}

func (r *ProjectRepository) ListByOwnerID(ownerID uint) ([]model.Project, error) {
	var projects []model.Project
	if err := r.db.Where("owner_id = ?", ownerID).Order("created_at DESC").Find(&projects).Error; err != nil {
		return nil, fmt.Errorf("list projects failed: %w", err)
	}
	return projects, nil
}

func (r *ProjectRepository) Update(project *model.Project) error {
	if err := r.db.Save(project).Error; err != nil {
		return fmt.Errorf("update project failed: %w", err)
	}
	return nil
}

// DeleteByIDAndOwnerID removes the project together with its dialogs and
// their messages in one transaction. The cascade is applied here as well as
// via foreign key constraints, so engines without enforced FKs behave the same.
func (r *ProjectRepository) DeleteByIDAndOwnerID(projectID, ownerID uint) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var dialogIDs []uint
		if err := tx.Model(&model.Dialog{}).Where("project_id = ?", projectID).Pluck("id", &dialogIDs).Error; err != nil {
			return err
		}
		if len(dialogIDs) > 0 {
			if err := tx.Where("dialog_id IN ?", dialogIDs).Delete(&model.Message{}).Error; err != nil {
				return err
			}
			if err := tx.Where("id IN ?", dialogIDs).Delete(&model.Dialog{}).Error; err != nil {
				return err
			}
		}
		return tx.Where("id = ? AND owner_id = ?", projectID, ownerID).Delete(&model.Project{}).Error
	})
	if err != nil {
		return fmt.Errorf("delete project failed: %w", err)
	}
	return nil
}
