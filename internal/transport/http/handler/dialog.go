package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"askhub/internal/app"
	"askhub/internal/transport/http/response"
)

type DialogHandler struct {
	dialogService *app.DialogService
}

type CreateDialogRequest struct {
	ProjectID uint   `json:"project_id" binding:"required,gt=0"`
	Title     string `json:"title" binding:"max=255"`
}

type UpdateDialogRequest struct {
	Title string `json:"title" binding:"required,max=255"`
}

func NewDialogHandler(dialogService *app.DialogService) *DialogHandler {
	return &DialogHandler{dialogService: dialogService}
}

func (h *DialogHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "invalid token payload")
		return
	}

	var req CreateDialogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request payload")
		return
	}

	dialog, err := h.dialogService.Create(app.CreateDialogInput{
		ActorID:   userID,
		ProjectID: req.ProjectID,
		Title:     req.Title,
	})
	if err != nil {
		respondError(c, err, "create dialog failed")
		return
	}

	response.Created(c, dialog)
}

func (h *DialogHandler) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "invalid token payload")
		return
	}

	dialogs, err := h.dialogService.List(userID)
	if err != nil {
		respondError(c, err, "list dialogs failed")
		return
	}

	response.OK(c, dialogs)
}

func (h *DialogHandler) Get(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "invalid token payload")
		return
	}

	dialogID, ok := pathID(c)
	if !ok {
		return
	}

	dialog, err := h.dialogService.Get(userID, dialogID)
	if err != nil {
		respondError(c, err, "get dialog failed")
		return
	}

	response.OK(c, dialog)
}

func (h *DialogHandler) Update(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "invalid token payload")
		return
	}

	dialogID, ok := pathID(c)
	if !ok {
		return
	}

	var req UpdateDialogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request payload")
		return
	}

	dialog, err := h.dialogService.UpdateTitle(userID, dialogID, req.Title)
	if err != nil {
		respondError(c, err, "update dialog failed")
		return
	}

	response.OK(c, dialog)
}

func (h *DialogHandler) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "invalid token payload")
		return
	}

	dialogID, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.dialogService.Delete(userID, dialogID); err != nil {
		respondError(c, err, "delete dialog failed")
		return
	}

	response.NoContent(c)
}
