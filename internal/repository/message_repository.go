package repository

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"askhub/internal/model"
)

type MessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

// Create stores the message and bumps the parent dialog's updated_at in the
// same transaction.
func (r *MessageRepository) Create(message *model.Message) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(message).Error; err != nil {
			return err
		}
		return tx.Model(&model.Dialog{}).
			Where("id = ?", message.DialogID).
			Update("updated_at", time.Now()).Error
	})
	if err != nil {
		return fmt.Errorf("create message failed: %w", err)
	}
	return nil
}

// GetByIDForOwner resolves a message only when its dialog's project belongs to
// ownerID. The dialog is preloaded so ownership can be re-derived by callers.
func (r *MessageRepository) GetByIDForOwner(messageID, ownerID uint) (*model.Message, error) {
	var message model.Message
	err := r.db.
		Preload("Dialog").
		Joins("JOIN dialogs ON dialogs.id = messages.dialog_id").
		Joins("JOIN projects ON projects.id = dialogs.project_id").
		Where("messages.id = ? AND projects.owner_id = ?", messageID, ownerID).
		First(&message).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get message failed: %w", err)
	}
	return &message, nil
}

func (r *MessageRepository) ListByDialogID(dialogID uint, limit int) ([]model.Message, error) {
	if limit <= 0 || limit > 200 {
		limit = 100
	}

	var messages []model.Message
	if err := r.db.Where("dialog_id = ?", dialogID).Order("created_at ASC, id ASC").Limit(limit).Find(&messages).Error; err != nil {
		return nil, fmt.Errorf("list messages failed: %w", err)
	}
	return messages, nil
}

func (r *MessageRepository) ListByOwnerID(ownerID uint, limit int) ([]model.Message, error) {
	if limit <= 0 || limit > 500 {
		limit = 200
	}

	var messages []model.Message
	err := r.db.
		Joins("JOIN dialogs ON dialogs.id = messages.dialog_id").
		Joins("JOIN projects ON projects.id = dialogs.project_id").
		Where("projects.owner_id = ?", ownerID).
		Order("messages.created_at ASC, messages.id ASC").
		Limit(limit).
		Find(&messages).Error
	if err != nil {
		return nil, fmt.Errorf("list messages failed: %w", err)
	}
	return messages, nil
}

// UpdateContent touches only the content column so the preloaded Dialog
// association is never written back.
func (r *MessageRepository) UpdateContent(messageID uint, content string) error {
	if err := r.db.Model(&model.Message{}).Where("id = ?", messageID).Update("content", content).Error; err != nil {
		return fmt.Errorf("update message failed: %w", err)
	}
	return nil
}

func (r *MessageRepository) DeleteByID(messageID uint) error {
	if err := r.db.Delete(&model.Message{}, messageID).Error; err != nil {
		return fmt.Errorf("delete message failed: %w", err)
	}
	return nil
}
