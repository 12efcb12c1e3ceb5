package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"askhub/internal/ai"
	"askhub/internal/model"
	"askhub/internal/repository"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&model.User{},
		&model.Project{},
		&model.Dialog{},
		&model.Message{},
		&model.AskAudit{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return db
}

func seedUser(t *testing.T, db *gorm.DB, username string) *model.User {
	t.Helper()
	user := &model.User{Username: username, Email: username + "@example.com", PasswordHash: "x"}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("seed user failed: %v", err)
	}
	return user
}

func seedProject(t *testing.T, db *gorm.DB, ownerID uint, name string) *model.Project {
	t.Helper()
	project := &model.Project{OwnerID: ownerID, Name: name}
	if err := db.Create(project).Error; err != nil {
		t.Fatalf("seed project failed: %v", err)
	}
	return project
}

func newEchoUpstream(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			Prompt    string `json:"prompt"`
			ProjectID uint   `json:"project_id"`
			User      string `json:"user"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("decode upstream payload failed: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"answer":     "[echo] You said: " + payload.Prompt,
			"project_id": payload.ProjectID,
			"user":       payload.User,
		})
	}))
}

func newAskService(db *gorm.DB, baseURL string) *AskService {
	client := ai.NewClient(ai.Config{BaseURL: baseURL, Timeout: 5 * time.Second})
	return NewAskService(
		repository.NewProjectRepository(db),
		repository.NewDialogRepository(db),
		repository.NewMessageRepository(db),
		client,
		nil,
		nil,
	)
}

func TestAskRoundTrip(t *testing.T) {
	db := newTestDB(t)
	upstream := newEchoUpstream(t)
	defer upstream.Close()

	owner := seedUser(t, db, "alice")
	project := seedProject(t, db, owner.ID, "demo")
	svc := newAskService(db, upstream.URL)

	result, err := svc.Ask(context.Background(), AskInput{
		UserID:    owner.ID,
		Username:  owner.Username,
		ProjectID: project.ID,
		Prompt:    "  hello world  ",
	})
	if err != nil {
		t.Fatalf("ask failed: %v", err)
	}
	if result.Answer != "[echo] You said: hello world" {
		t.Errorf("unexpected answer: %q", result.Answer)
	}
	if result.ProjectID != project.ID {
		t.Errorf("unexpected project id: %d", result.ProjectID)
	}
	if result.DialogID == 0 {
		t.Fatal("expected a dialog to be created")
	}

	messages, err := repository.NewMessageRepository(db).ListByDialogID(result.DialogID, 0)
	if err != nil {
		t.Fatalf("list messages failed: %v", err)
	}
	if len(messages) != 2 {
		t.Fatalf("expected exactly 2 messages, got %d", len(messages))
	}
	if messages[0].Role != model.RoleUser || messages[0].Content != "hello world" {
		t.Errorf("unexpected user message: %+v", messages[0])
	}
	if messages[0].SenderID == nil || *messages[0].SenderID != owner.ID {
		t.Errorf("user message should carry sender %d, got %v", owner.ID, messages[0].SenderID)
	}
	if messages[1].Role != model.RoleAssistant || messages[1].Content != result.Answer {
		t.Errorf("unexpected assistant message: %+v", messages[1])
	}
	if messages[1].SenderID != nil {
		t.Errorf("assistant message should have no sender, got %v", messages[1].SenderID)
	}
}

func TestAskNonOwnedProjectIsNotFound(t *testing.T) {
	db := newTestDB(t)
	upstream := newEchoUpstream(t)
	defer upstream.Close()

	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	project := seedProject(t, db, bob.ID, "bobs")
	svc := newAskService(db, upstream.URL)

	_, err := svc.Ask(context.Background(), AskInput{
		UserID:    alice.ID,
		Username:  alice.Username,
		ProjectID: project.ID,
		Prompt:    "hi",
	})
	if !errors.Is(err, ErrProjectNotFound) {
		t.Fatalf("expected ErrProjectNotFound for non-owned project, got %v", err)
	}
	if errors.Is(err, ErrPermissionDenied) {
		t.Fatal("ownership must be hidden as not-found, not permission-denied")
	}
}

func TestAskWhitespacePrompt(t *testing.T) {
	db := newTestDB(t)
	owner := seedUser(t, db, "alice")
	project := seedProject(t, db, owner.ID, "demo")
	svc := newAskService(db, "http://127.0.0.1:0")

	_, err := svc.Ask(context.Background(), AskInput{
		UserID:    owner.ID,
		Username:  owner.Username,
		ProjectID: project.ID,
		Prompt:    "   \n\t  ",
	})
	if !errors.Is(err, ErrPromptEmpty) {
		t.Fatalf("expected ErrPromptEmpty, got %v", err)
	}

	var count int64
	db.Model(&model.Dialog{}).Count(&count)
	if count != 0 {
		t.Errorf("no dialog should be created for an empty prompt, got %d", count)
	}
}

func TestAskCreatesDialogWithTruncatedTitle(t *testing.T) {
	db := newTestDB(t)
	upstream := newEchoUpstream(t)
	defer upstream.Close()

	owner := seedUser(t, db, "alice")
	project := seedProject(t, db, owner.ID, "demo")
	svc := newAskService(db, upstream.URL)

	prompt := strings.Repeat("ab", 50) // 100 characters
	result, err := svc.Ask(context.Background(), AskInput{
		UserID:    owner.ID,
		Username:  owner.Username,
		ProjectID: project.ID,
		Prompt:    prompt,
	})
	if err != nil {
		t.Fatalf("ask failed: %v", err)
	}

	var dialog model.Dialog
	if err := db.First(&dialog, result.DialogID).Error; err != nil {
		t.Fatalf("load dialog failed: %v", err)
	}
	if len([]rune(dialog.Title)) != 80 {
		t.Errorf("expected title of exactly 80 characters, got %d", len([]rune(dialog.Title)))
	}
	if dialog.Title != prompt[:80] {
		t.Errorf("title must be the prompt prefix, got %q", dialog.Title)
	}

	var count int64
	db.Model(&model.Dialog{}).Count(&count)
	if count != 1 {
		t.Errorf("expected exactly one dialog, got %d", count)
	}
}

func TestAskShortPromptKeepsFullTitle(t *testing.T) {
	db := newTestDB(t)
	upstream := newEchoUpstream(t)
	defer upstream.Close()

	owner := seedUser(t, db, "alice")
	project := seedProject(t, db, owner.ID, "demo")
	svc := newAskService(db, upstream.URL)

	result, err := svc.Ask(context.Background(), AskInput{
		UserID:    owner.ID,
		Username:  owner.Username,
		ProjectID: project.ID,
		Prompt:    "short prompt",
	})
	if err != nil {
		t.Fatalf("ask failed: %v", err)
	}

	var dialog model.Dialog
	if err := db.First(&dialog, result.DialogID).Error; err != nil {
		t.Fatalf("load dialog failed: %v", err)
	}
	if dialog.Title != "short prompt" {
		t.Errorf("unexpected title: %q", dialog.Title)
	}
}

func TestAskExistingDialogAppends(t *testing.T) {
	db := newTestDB(t)
	upstream := newEchoUpstream(t)
	defer upstream.Close()

	owner := seedUser(t, db, "alice")
	project := seedProject(t, db, owner.ID, "demo")
	dialog := &model.Dialog{ProjectID: project.ID, Title: "existing"}
	if err := db.Create(dialog).Error; err != nil {
		t.Fatalf("seed dialog failed: %v", err)
	}
	svc := newAskService(db, upstream.URL)

	result, err := svc.Ask(context.Background(), AskInput{
		UserID:    owner.ID,
		Username:  owner.Username,
		ProjectID: project.ID,
		DialogID:  dialog.ID,
		Prompt:    "hi again",
	})
	if err != nil {
		t.Fatalf("ask failed: %v", err)
	}
	if result.DialogID != dialog.ID {
		t.Errorf("expected reuse of dialog %d, got %d", dialog.ID, result.DialogID)
	}

	var count int64
	db.Model(&model.Dialog{}).Count(&count)
	if count != 1 {
		t.Errorf("no new dialog should be created, got %d", count)
	}
}

func TestAskUnknownDialogIsNotFound(t *testing.T) {
	db := newTestDB(t)
	upstream := newEchoUpstream(t)
	defer upstream.Close()

	owner := seedUser(t, db, "alice")
	project := seedProject(t, db, owner.ID, "demo")
	svc := newAskService(db, upstream.URL)

	_, err := svc.Ask(context.Background(), AskInput{
		UserID:    owner.ID,
		Username:  owner.Username,
		ProjectID: project.ID,
		DialogID:  9999,
		Prompt:    "hi",
	})
	if !errors.Is(err, ErrDialogNotFound) {
		t.Fatalf("expected ErrDialogNotFound, got %v", err)
	}
}

func TestAskUpstreamFailureKeepsUserMessage(t *testing.T) {
	db := newTestDB(t)
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	upstream.Close()

	owner := seedUser(t, db, "alice")
	project := seedProject(t, db, owner.ID, "demo")
	svc := newAskService(db, upstream.URL)

	_, err := svc.Ask(context.Background(), AskInput{
		UserID:    owner.ID,
		Username:  owner.Username,
		ProjectID: project.ID,
		Prompt:    "hello?",
	})
	if !errors.Is(err, ai.ErrUpstreamUnavailable) {
		t.Fatalf("expected ErrUpstreamUnavailable, got %v", err)
	}

	var messages []model.Message
	if err := db.Order("created_at ASC, id ASC").Find(&messages).Error; err != nil {
		t.Fatalf("load messages failed: %v", err)
	}
	if len(messages) != 1 {
		t.Fatalf("expected exactly the user message to survive, got %d messages", len(messages))
	}
	if messages[0].Role != model.RoleUser || messages[0].Content != "hello?" {
		t.Errorf("unexpected surviving message: %+v", messages[0])
	}
}
