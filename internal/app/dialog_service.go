package app

import (
	"context"
	"strings"

	"askhub/internal/model"
	"askhub/internal/repository"
)

type DialogService struct {
	dialogs      *repository.DialogRepository
	guard        *OwnershipGuard
	historyCache HistoryCache
}

type CreateDialogInput struct {
	ActorID   uint
	ProjectID uint
	Title     string
}

func NewDialogService(dialogs *repository.DialogRepository, guard *OwnershipGuard, historyCache HistoryCache) *DialogService {
	return &DialogService{
		dialogs:      dialogs,
		guard:        guard,
		historyCache: historyCache,
	}
}

// Create requires the target project to be owned by the actor.
func (s *DialogService) Create(input CreateDialogInput) (*model.Dialog, error) {
	if input.ProjectID == 0 {
		return nil, ErrInvalidInput
	}

	dialog := &model.Dialog{
		ProjectID: input.ProjectID,
		Title:     strings.TrimSpace(input.Title),
	}
	if _, err := s.guard.Authorize(input.ActorID, dialog); err != nil {
		return nil, err
	}

	if err := s.dialogs.Create(dialog); err != nil {
		return nil, err
	}
	return dialog, nil
}

func (s *DialogService) List(actorID uint) ([]model.Dialog, error) {
	if actorID == 0 {
		return nil, ErrInvalidInput
	}
	return s.dialogs.ListByOwnerID(actorID)
}

func (s *DialogService) Get(actorID, dialogID uint) (*model.Dialog, error) {
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
	return dialog, nil
}

func (s *DialogService) UpdateTitle(actorID, dialogID uint, title string) (*model.Dialog, error) {
	dialog, err := s.Get(actorID, dialogID)
	if err != nil {
		return nil, err
	}

	dialog.Title = strings.TrimSpace(title)
	if err := s.dialogs.Update(dialog); err != nil {
		return nil, err
	}
	return dialog, nil
}

// Delete removes the dialog and its messages.
func (s *DialogService) Delete(actorID, dialogID uint) error {
	if _, err := s.Get(actorID, dialogID); err != nil {
		return err
	}
	if err := s.dialogs.DeleteByID(dialogID); err != nil {
		return err
	}
	if s.historyCache != nil {
		_ = s.historyCache.DeleteHistory(context.Background(), dialogID)
	}
	return nil
}
