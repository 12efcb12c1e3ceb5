package repository

import (
	"fmt"

	"gorm.io/gorm"

	"askhub/internal/model"
)

type AskAuditRepository struct {
	db *gorm.DB
}

func NewAskAuditRepository(db *gorm.DB) *AskAuditRepository {
	return &AskAuditRepository{db: db}
}

func (r *AskAuditRepository) Create(audit *model.AskAudit) error {
	if err := r.db.Create(audit).Error; err != nil {
		return fmt.Errorf("create ask audit failed: %w", err)
	}
	return nil
}
