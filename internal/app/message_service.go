package app

import (
	"context"
	"strings"

	"askhub/internal/model"
	"askhub/internal/repository"
)

type MessageService struct {
	messages     *repository.MessageRepository
	dialogs      *repository.DialogRepository
	guard        *OwnershipGuard
	historyCache HistoryCache
}

type CreateMessageInput struct {
	ActorID  uint
	DialogID uint
	Content  string
}

func NewMessageService(
	messages *repository.MessageRepository,
	dialogs *repository.DialogRepository,
	guard *OwnershipGuard,
	historyCache HistoryCache,
) *MessageService {
	return &MessageService{
		messages:     messages,
		dialogs:      dialogs,
		guard:        guard,
		historyCache: historyCache,
	}
}

// Create stores a user-authored message. Role and sender come from the acting
// identity; client-supplied values for either are ignored by the handler layer.
func (s *MessageService) Create(input CreateMessageInput) (*model.Message, error) {
	content := strings.TrimSpace(input.Content)
	if input.DialogID == 0 || content == "" {
		return nil, ErrInvalidInput
	}

	dialog, err := s.dialogs.GetByID(input.DialogID)
	if err != nil {
		return nil, err
	}
	if dialog == nil {
		return nil, ErrDialogNotFound
	}
	if _, err := s.guard.Authorize(input.ActorID, dialog); err != nil {
		return nil, err
	}

	senderID := input.ActorID
	message := &model.Message{
		DialogID: input.DialogID,
		SenderID: &senderID,
		Role:     model.RoleUser,
		Content:  content,
	}
	if err := s.messages.Create(message); err != nil {
		return nil, err
	}
	s.invalidateHistory(input.DialogID)
	return message, nil
}

// ListByDialog returns conversation history, read through the cache when it
// is clean.
func (s *MessageService) ListByDialog(actorID, dialogID uint, limit int) ([]model.Message, error) {
	if actorID == 0 || dialogID == 0 {
		return nil, ErrInvalidInput
	}

	dialog, err := s.dialogs.GetByIDForOwner(dialogID, actorID)
	if err != nil {
		return nil, err
	}
	if dialog == nil {
		return nil, ErrDialogNotFound
	}

	ctx := context.Background()
	if s.historyCache != nil {
		dirty, err := s.historyCache.IsDirty(ctx, dialogID)
		if err == nil && !dirty {
			if cached, hit, cacheErr := s.historyCache.GetHistory(ctx, dialogID); cacheErr == nil && hit {
				return trimMessages(cached, limit), nil
			}
		}
	}

	messages, err := s.messages.ListByDialogID(dialogID, limit)
	if err != nil {
		return nil, err
	}
	if s.historyCache != nil {
		if dirty, dirtyErr := s.historyCache.IsDirty(ctx, dialogID); dirtyErr == nil && !dirty {
			_ = s.historyCache.SetHistory(ctx, dialogID, messages)
		}
	}
	return messages, nil
}

func (s *MessageService) List(actorID uint, limit int) ([]model.Message, error) {
	if actorID == 0 {
		return nil, ErrInvalidInput
	}
	return s.messages.ListByOwnerID(actorID, limit)
}

func (s *MessageService) Get(actorID, messageID uint) (*model.Message, error) {
	if actorID == 0 || messageID == 0 {
		return nil, ErrInvalidInput
	}
	message, err := s.messages.GetByIDForOwner(messageID, actorID)
	if err != nil {
		return nil, err
	}
	if message == nil {
		return nil, ErrMessageNotFound
	}
	return message, nil
}

// UpdateContent edits the text of a message; role and sender never change.
func (s *MessageService) UpdateContent(actorID, messageID uint, content string) (*model.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrInvalidInput
	}

	message, err := s.Get(actorID, messageID)
	if err != nil {
		return nil, err
	}

	if err := s.messages.UpdateContent(message.ID, content); err != nil {
		return nil, err
	}
	message.Content = content
	s.invalidateHistory(message.DialogID)
	return message, nil
}

func (s *MessageService) Delete(actorID, messageID uint) error {
	message, err := s.Get(actorID, messageID)
	if err != nil {
		return err
	}
	if err := s.messages.DeleteByID(messageID); err != nil {
		return err
	}
	s.invalidateHistory(message.DialogID)
	return nil
}

func (s *MessageService) invalidateHistory(dialogID uint) {
	if s.historyCache == nil {
		return
	}
	ctx := context.Background()
	_ = s.historyCache.MarkDirty(ctx, dialogID)
	_ = s.historyCache.DeleteHistory(ctx, dialogID)
}

func trimMessages(messages []model.Message, limit int) []model.Message {
	if limit <= 0 || limit >= len(messages) {
		return messages
	}
	return messages[len(messages)-limit:]
}
