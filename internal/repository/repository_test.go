package repository

import (
	"fmt"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"askhub/internal/model"
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
	user := &model.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
	}
	if err := NewUserRepository(db).Create(user); err != nil {
		t.Fatalf("seed user failed: %v", err)
	}
	return user
}

func seedProject(t *testing.T, db *gorm.DB, ownerID uint, name string) *model.Project {
	t.Helper()
	project := &model.Project{OwnerID: ownerID, Name: name}
	if err := NewProjectRepository(db).Create(project); err != nil {
		t.Fatalf("seed project failed: %v", err)
	}
	return project
}

func seedDialog(t *testing.T, db *gorm.DB, projectID uint, title string) *model.Dialog {
	t.Helper()
	dialog := &model.Dialog{ProjectID: projectID, Title: title}
	if err := NewDialogRepository(db).Create(dialog); err != nil {
		t.Fatalf("seed dialog failed: %v", err)
	}
	return dialog
}

func TestProjectDeleteCascades(t *testing.T) {
	db := newTestDB(t)
	owner := seedUser(t, db, "alice")
	project := seedProject(t, db, owner.ID, "demo")
	dialog := seedDialog(t, db, project.ID, "thread")

	messageRepo := NewMessageRepository(db)
	for _, content := range []string{"hi", "hello"} {
		msg := &model.Message{DialogID: dialog.ID, Role: model.RoleUser, Content: content, SenderID: &owner.ID}
		if err := messageRepo.Create(msg); err != nil {
			t.Fatalf("create message failed: %v", err)
		}
	}

	if err := NewProjectRepository(db).DeleteByIDAndOwnerID(project.ID, owner.ID); err != nil {
		t.Fatalf("delete project failed: %v", err)
	}

	var dialogCount, messageCount int64
	db.Model(&model.Dialog{}).Count(&dialogCount)
	db.Model(&model.Message{}).Count(&messageCount)
	if dialogCount != 0 {
		t.Errorf("expected 0 dialogs after cascade, got %d", dialogCount)
	}
	if messageCount != 0 {
		t.Errorf("expected 0 messages after cascade, got %d", messageCount)
	}
}

func TestProjectOwnerScoping(t *testing.T) {
	db := newTestDB(t)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	project := seedProject(t, db, alice.ID, "alice-project")

	repo := NewProjectRepository(db)

	got, err := repo.GetByIDAndOwnerID(project.ID, bob.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Errorf("expected non-owned project to be invisible, got %+v", got)
	}

	got, err = repo.GetByIDAndOwnerID(project.ID, alice.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil {
		t.Fatal("expected owner to see the project")
	}
}

func TestDialogOwnerScoping(t *testing.T) {
	db := newTestDB(t)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	project := seedProject(t, db, alice.ID, "p")
	dialog := seedDialog(t, db, project.ID, "d")

	repo := NewDialogRepository(db)

	if got, err := repo.GetByIDForOwner(dialog.ID, bob.ID); err != nil || got != nil {
		t.Errorf("expected nil for stranger, got %+v err %v", got, err)
	}
	if got, err := repo.GetByIDForOwner(dialog.ID, alice.ID); err != nil || got == nil {
		t.Errorf("expected dialog for owner, got %+v err %v", got, err)
	}
}

func TestMessageCreateTouchesDialog(t *testing.T) {
	db := newTestDB(t)
	owner := seedUser(t, db, "alice")
	project := seedProject(t, db, owner.ID, "p")
	dialog := seedDialog(t, db, project.ID, "d")

	var before model.Dialog
	if err := db.First(&before, dialog.ID).Error; err != nil {
		t.Fatalf("load dialog failed: %v", err)
	}

	time.Sleep(10 * time.Millisecond)

	msg := &model.Message{DialogID: dialog.ID, Role: model.RoleUser, Content: "hi", SenderID: &owner.ID}
	if err := NewMessageRepository(db).Create(msg); err != nil {
		t.Fatalf("create message failed: %v", err)
	}

	var after model.Dialog
	if err := db.First(&after, dialog.ID).Error; err != nil {
		t.Fatalf("reload dialog failed: %v", err)
	}
	if !after.UpdatedAt.After(before.UpdatedAt) {
		t.Errorf("expected updated_at to advance: before=%v after=%v", before.UpdatedAt, after.UpdatedAt)
	}
}

func TestMessageListOrder(t *testing.T) {
	db := newTestDB(t)
	owner := seedUser(t, db, "alice")
	project := seedProject(t, db, owner.ID, "p")
	dialog := seedDialog(t, db, project.ID, "d")

	repo := NewMessageRepository(db)
	contents := []string{"first", "second", "third"}
	for _, content := range contents {
		msg := &model.Message{DialogID: dialog.ID, Role: model.RoleUser, Content: content, SenderID: &owner.ID}
		if err := repo.Create(msg); err != nil {
			t.Fatalf("create message failed: %v", err)
		}
	}

	messages, err := repo.ListByDialogID(dialog.ID, 0)
	if err != nil {
		t.Fatalf("list messages failed: %v", err)
	}
	if len(messages) != len(contents) {
		t.Fatalf("expected %d messages, got %d", len(contents), len(messages))
	}
	for i, content := range contents {
		if messages[i].Content != content {
			t.Errorf("position %d: expected %q, got %q", i, content, messages[i].Content)
		}
	}
}

func TestMessageGetByIDForOwnerPreloadsDialog(t *testing.T) {
	db := newTestDB(t)
	owner := seedUser(t, db, "alice")
	project := seedProject(t, db, owner.ID, "p")
	dialog := seedDialog(t, db, project.ID, "d")

	repo := NewMessageRepository(db)
	msg := &model.Message{DialogID: dialog.ID, Role: model.RoleUser, Content: "hi", SenderID: &owner.ID}
	if err := repo.Create(msg); err != nil {
		t.Fatalf("create message failed: %v", err)
	}

	got, err := repo.GetByIDForOwner(msg.ID, owner.ID)
	if err != nil {
		t.Fatalf("get message failed: %v", err)
	}
	if got == nil {
		t.Fatal("expected message for owner")
	}
	if got.OwningProjectID() != project.ID {
		t.Errorf("expected owning project %d via preloaded dialog, got %d", project.ID, got.OwningProjectID())
	}
}
