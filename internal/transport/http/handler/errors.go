package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"askhub/internal/ai"
	"askhub/internal/app"
	"askhub/internal/transport/http/middleware"
	"askhub/internal/transport/http/response"
)

// respondError maps service errors onto the HTTP taxonomy: 400 validation,
// 403 ownership mismatch, 404 unresolvable or non-owned resources, 502
// answering-service failures.
func respondError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, app.ErrPromptEmpty):
		response.Error(c, http.StatusBadRequest, "Prompt cannot be empty.")
	case errors.Is(err, app.ErrInvalidInput):
		response.Error(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, app.ErrPermissionDenied):
		response.Error(c, http.StatusForbidden, err.Error())
	case errors.Is(err, app.ErrProjectNotFound),
		errors.Is(err, app.ErrDialogNotFound),
		errors.Is(err, app.ErrMessageNotFound):
		response.Error(c, http.StatusNotFound, err.Error())
	case errors.Is(err, ai.ErrUpstreamUnavailable):
		response.Error(c, http.StatusBadGateway, err.Error())
	default:
		response.Error(c, http.StatusInternalServerError, fallback)
	}
}

func currentUserID(c *gin.Context) (uint, bool) {
	userIDAny, exists := c.Get(middleware.ContextUserIDKey)
	if !exists {
		return 0, false
	}
	userID, ok := userIDAny.(uint)
	return userID, ok
}

func currentUsername(c *gin.Context) string {
	usernameAny, exists := c.Get(middleware.ContextUsernameKey)
	if !exists {
		return ""
	}
	username, _ := usernameAny.(string)
	return username
}
