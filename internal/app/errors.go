package app

import "errors"

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrPromptEmpty       = errors.New("prompt cannot be empty")
	ErrPermissionDenied  = errors.New("you do not own this project")
	ErrProjectNotFound   = errors.New("project not found")
	ErrDialogNotFound    = errors.New("dialog not found")
	ErrMessageNotFound   = errors.New("message not found")
	ErrUsernameExists    = errors.New("username already exists")
	ErrEmailExists       = errors.New("email already exists")
	ErrInvalidCredential = errors.New("invalid username or password")
)
