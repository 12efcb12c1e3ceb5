package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"askhub/internal/app"
	"askhub/internal/transport/http/response"
)

type MessageHandler struct {
	messageService *app.MessageService
}

// CreateMessageRequest deliberately has no role or sender field: both are
// forced from the acting identity.
type CreateMessageRequest struct {
	DialogID uint   `json:"dialog_id" binding:"required,gt=0"`
	Content  string `json:"content" binding:"required"`
}

type UpdateMessageRequest struct {
	Content string `json:"content" binding:"required"`
}

func NewMessageHandler(messageService *app.MessageService) *MessageHandler {
	return &MessageHandler{messageService: messageService}
}

func (h *MessageHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "invalid token payload")
		return
	}

	var req CreateMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request payload")
		return
	}

	message, err := h.messageService.Create(app.CreateMessageInput{
		ActorID:  userID,
		DialogID: req.DialogID,
		Content:  req.Content,
	})
	if err != nil {
		respondError(c, err, "create message failed")
		return
	}

	response.Created(c, message)
}

// List returns the history of one dialog when dialog_id is given, otherwise
// every message across the actor's projects in conversation order.
func (h *MessageHandler) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "invalid token payload")
		return
	}

	limit := 100
	if raw := c.Query("limit"); raw != "" {
		if parsed, parseErr := strconv.Atoi(raw); parseErr == nil {
			limit = parsed
		}
	}

	if raw := c.Query("dialog_id"); raw != "" {
		dialogID64, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || dialogID64 == 0 {
			response.Error(c, http.StatusBadRequest, "invalid dialog_id")
			return
		}
		messages, err := h.messageService.ListByDialog(userID, uint(dialogID64), limit)
		if err != nil {
			respondError(c, err, "list messages failed")
			return
		}
		response.OK(c, messages)
		return
	}

	messages, err := h.messageService.List(userID, limit)
	if err != nil {
		respondError(c, err, "list messages failed")
		return
	}
	response.OK(c, messages)
}

func (h *MessageHandler) Get(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "invalid token payload")
		return
	}

	messageID, ok := pathID(c)
	if !ok {
		return
	}

	message, err := h.messageService.Get(userID, messageID)
	if err != nil {
		respondError(c, err, "get message failed")
		return
	}

	response.OK(c, message)
}

func (h *MessageHandler) Update(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "invalid token payload")
		return
	}

	messageID, ok := pathID(c)
	if !ok {
		return
	}

	var req UpdateMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request payload")
		return
	}

	message, err := h.messageService.UpdateContent(userID, messageID, req.Content)
	if err != nil {
		respondError(c, err, "update message failed")
		return
	}

	response.OK(c, message)
}

func (h *MessageHandler) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "invalid token payload")
		return
	}

	messageID, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.messageService.Delete(userID, messageID); err != nil {
		respondError(c, err, "delete message failed")
		return
	}

	response.NoContent(c)
}
