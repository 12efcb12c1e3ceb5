package app

import (
	"context"
	"log"
	"strings"
	"time"

	"askhub/internal/ai"
	"askhub/internal/model"
	"askhub/internal/repository"
)

const dialogTitleMaxRunes = 80

// HistoryCache is the dialog-history read cache (redis in production, nil-ok
// everywhere).
type HistoryCache interface {
	GetHistory(ctx context.Context, dialogID uint) ([]model.Message, bool, error)
	SetHistory(ctx context.Context, dialogID uint, messages []model.Message) error
	DeleteHistory(ctx context.Context, dialogID uint) error
	MarkDirty(ctx context.Context, dialogID uint) error
	IsDirty(ctx context.Context, dialogID uint) (bool, error)
}

// AskAuditPublisher ships ask audit records to the async persist worker.
// Best effort: a publish failure is logged and never fails the ask.
type AskAuditPublisher interface {
	Publish(ctx context.Context, audit model.AskAudit) error
}

// AskService orchestrates the ask flow: resolve the owned project, resolve or
// create the dialog, store the user message, call the answering service, store
// the assistant reply. The three persistence/call steps are sequential and
// deliberately not transactional: an upstream failure leaves the user message
// in place.
type AskService struct {
	projects     *repository.ProjectRepository
	dialogs      *repository.DialogRepository
	messages     *repository.MessageRepository
	aiClient     *ai.Client
	publisher    AskAuditPublisher
	historyCache HistoryCache
}

type AskInput struct {
	UserID    uint
	Username  string
	ProjectID uint
	DialogID  uint
	Prompt    string
}

type AskResult struct {
	Answer    string `json:"answer"`
	DialogID  uint   `json:"dialog_id"`
	ProjectID uint   `json:"project_id"`
}

func NewAskService(
	projects *repository.ProjectRepository,
	dialogs *repository.DialogRepository,
	messages *repository.MessageRepository,
	aiClient *ai.Client,
	publisher AskAuditPublisher,
	historyCache HistoryCache,
) *AskService {
	return &AskService{
		projects:     projects,
		dialogs:      dialogs,
		messages:     messages,
		aiClient:     aiClient,
		publisher:    publisher,
		historyCache: historyCache,
	}
}

func (s *AskService) Ask(ctx context.Context, input AskInput) (*AskResult, error) {
	if input.UserID == 0 || input.ProjectID == 0 {
		return nil, ErrInvalidInput
	}

	// Single validation point: the trimmed prompt is the canonical prompt.
	prompt := strings.TrimSpace(input.Prompt)
	if prompt == "" {
		return nil, ErrPromptEmpty
	}

	// Owner scoping doubles as the ownership check: a project someone else
	// owns looks exactly like a missing one.
	project, err := s.projects.GetByIDAndOwnerID(input.ProjectID, input.UserID)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, ErrProjectNotFound
	}

	var dialog *model.Dialog
	if input.DialogID != 0 {
		dialog, err = s.dialogs.GetByIDAndProjectID(input.DialogID, project.ID)
		if err != nil {
			return nil, err
		}
		if dialog == nil {
			return nil, ErrDialogNotFound
		}
	} else {
		dialog = &model.Dialog{
			ProjectID: project.ID,
			Title:     truncateRunes(prompt, dialogTitleMaxRunes),
		}
		if err := s.dialogs.Create(dialog); err != nil {
			return nil, err
		}
	}

	started := time.Now()

	senderID := input.UserID
	userMessage := &model.Message{
		DialogID: dialog.ID,
		SenderID: &senderID,
		Role:     model.RoleUser,
		Content:  prompt,
	}
	if err := s.messages.Create(userMessage); err != nil {
		return nil, err
	}
	s.invalidateHistory(dialog.ID)

	upstream, err := s.aiClient.Ask(ctx, ai.AskRequest{
		Prompt:    prompt,
		ProjectID: project.ID,
		User:      input.Username,
	})
	if err != nil {
		// The user message stays stored; partial completion is the
		// documented outcome, not a transaction to roll back.
		s.audit(ctx, input, dialog.ID, "", model.AskStatusUpstreamError, started)
		return nil, err
	}

	assistantMessage := &model.Message{
		DialogID: dialog.ID,
		SenderID: nil,
		Role:     model.RoleAssistant,
		Content:  upstream.Answer,
	}
	if err := s.messages.Create(assistantMessage); err != nil {
		return nil, err
	}
	s.invalidateHistory(dialog.ID)
	s.audit(ctx, input, dialog.ID, upstream.Answer, model.AskStatusOK, started)

	return &AskResult{
		Answer:    upstream.Answer,
		DialogID:  dialog.ID,
		ProjectID: project.ID,
	}, nil
}

func (s *AskService) audit(ctx context.Context, input AskInput, dialogID uint, answer, status string, started time.Time) {
	if s.publisher == nil {
		return
	}
	record := model.AskAudit{
		ProjectID: input.ProjectID,
		DialogID:  dialogID,
		UserID:    input.UserID,
		Prompt:    strings.TrimSpace(input.Prompt),
		Answer:    answer,
		Status:    status,
		LatencyMS: time.Since(started).Milliseconds(),
	}
	if err := s.publisher.Publish(ctx, record); err != nil {
		log.Printf("publish ask audit failed: %v", err)
	}
}

func (s *AskService) invalidateHistory(dialogID uint) {
	if s.historyCache == nil {
		return
	}
	ctx := context.Background()
	_ = s.historyCache.MarkDirty(ctx, dialogID)
	_ = s.historyCache.DeleteHistory(ctx, dialogID)
}

func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
