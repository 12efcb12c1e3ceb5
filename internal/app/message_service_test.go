package app

import (
	"errors"
	"testing"

	"askhub/internal/model"
	"askhub/internal/repository"
)

func TestMessageCreateForcesRoleAndSender(t *testing.T) {
	db := newTestDB(t)
	owner := seedUser(t, db, "alice")
	project := seedProject(t, db, owner.ID, "p")
	dialog := &model.Dialog{ProjectID: project.ID, Title: "d"}
	if err := db.Create(dialog).Error; err != nil {
		t.Fatalf("seed dialog failed: %v", err)
	}

	projectRepo := repository.NewProjectRepository(db)
	dialogRepo := repository.NewDialogRepository(db)
	svc := NewMessageService(
		repository.NewMessageRepository(db),
		dialogRepo,
		NewOwnershipGuard(projectRepo),
		nil,
	)

	message, err := svc.Create(CreateMessageInput{
		ActorID:  owner.ID,
		DialogID: dialog.ID,
		Content:  "  hello  ",
	})
	if err != nil {
		t.Fatalf("create message failed: %v", err)
	}
	if message.Role != model.RoleUser {
		t.Errorf("role must be forced to user, got %q", message.Role)
	}
	if message.SenderID == nil || *message.SenderID != owner.ID {
		t.Errorf("sender must be the acting user, got %v", message.SenderID)
	}
	if message.Content != "hello" {
		t.Errorf("content must be trimmed, got %q", message.Content)
	}
}

func TestMessageCreateDeniedForStranger(t *testing.T) {
	db := newTestDB(t)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	project := seedProject(t, db, alice.ID, "p")
	dialog := &model.Dialog{ProjectID: project.ID, Title: "d"}
	if err := db.Create(dialog).Error; err != nil {
		t.Fatalf("seed dialog failed: %v", err)
	}

	svc := NewMessageService(
		repository.NewMessageRepository(db),
		repository.NewDialogRepository(db),
		NewOwnershipGuard(repository.NewProjectRepository(db)),
		nil,
	)

	_, err := svc.Create(CreateMessageInput{
		ActorID:  bob.ID,
		DialogID: dialog.ID,
		Content:  "hi",
	})
	if !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied for stranger, got %v", err)
	}
}

func TestMessageUpdateContentKeepsRoleAndSender(t *testing.T) {
	db := newTestDB(t)
	owner := seedUser(t, db, "alice")
	project := seedProject(t, db, owner.ID, "p")
	dialog := &model.Dialog{ProjectID: project.ID, Title: "d"}
	if err := db.Create(dialog).Error; err != nil {
		t.Fatalf("seed dialog failed: %v", err)
	}

	svc := NewMessageService(
		repository.NewMessageRepository(db),
		repository.NewDialogRepository(db),
		NewOwnershipGuard(repository.NewProjectRepository(db)),
		nil,
	)

	created, err := svc.Create(CreateMessageInput{ActorID: owner.ID, DialogID: dialog.ID, Content: "draft"})
	if err != nil {
		t.Fatalf("create message failed: %v", err)
	}

	updated, err := svc.UpdateContent(owner.ID, created.ID, "  final  ")
	if err != nil {
		t.Fatalf("update message failed: %v", err)
	}
	if updated.Content != "final" {
		t.Errorf("content must be trimmed and updated, got %q", updated.Content)
	}

	var stored model.Message
	if err := db.First(&stored, created.ID).Error; err != nil {
		t.Fatalf("reload message failed: %v", err)
	}
	if stored.Content != "final" || stored.Role != model.RoleUser {
		t.Errorf("unexpected stored message: %+v", stored)
	}
	if stored.SenderID == nil || *stored.SenderID != owner.ID {
		t.Errorf("sender must be unchanged, got %v", stored.SenderID)
	}
}

func TestMessageListByDialogHiddenFromStranger(t *testing.T) {
	db := newTestDB(t)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	project := seedProject(t, db, alice.ID, "p")
	dialog := &model.Dialog{ProjectID: project.ID, Title: "d"}
	if err := db.Create(dialog).Error; err != nil {
		t.Fatalf("seed dialog failed: %v", err)
	}

	svc := NewMessageService(
		repository.NewMessageRepository(db),
		repository.NewDialogRepository(db),
		NewOwnershipGuard(repository.NewProjectRepository(db)),
		nil,
	)

	if _, err := svc.ListByDialog(bob.ID, dialog.ID, 0); !errors.Is(err, ErrDialogNotFound) {
		t.Fatalf("stranger must see not-found, got %v", err)
	}
	if _, err := svc.ListByDialog(alice.ID, dialog.ID, 0); err != nil {
		t.Fatalf("owner listing failed: %v", err)
	}
}
