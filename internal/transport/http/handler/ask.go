package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"askhub/internal/app"
	"askhub/internal/transport/http/response"
)

type AskHandler struct {
	askService *app.AskService
}

type AskRequest struct {
	ProjectID uint   `json:"project_id" binding:"required,gt=0"`
	DialogID  uint   `json:"dialog_id"`
	Prompt    string `json:"prompt" binding:"required"`
}

func NewAskHandler(askService *app.AskService) *AskHandler {
	return &AskHandler{askService: askService}
}

// Ask forwards a prompt to the answering service and stores both sides of
// the exchange. dialog_id is optional; omitting it starts a new dialog.
func (h *AskHandler) Ask(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "invalid token payload")
		return
	}

	var req AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request payload")
		return
	}

	result, err := h.askService.Ask(c.Request.Context(), app.AskInput{
		UserID:    userID,
		Username:  currentUsername(c),
		ProjectID: req.ProjectID,
		DialogID:  req.DialogID,
		Prompt:    req.Prompt,
	})
	if err != nil {
		respondError(c, err, "ask failed")
		return
	}

	response.OK(c, result)
}
