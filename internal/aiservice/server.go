// Package aiservice is the stand-alone answering service. It echoes prompts
// today and is the integration point for a real model provider later.
package aiservice

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

type AskPayload struct {
	Prompt    string `json:"prompt" binding:"required"`
	ProjectID *uint  `json:"project_id"`
	User      string `json:"user"`
}

type AskReply struct {
	Answer    string `json:"answer"`
	ProjectID *uint  `json:"project_id"`
	User      string `json:"user,omitempty"`
}

func NewRouter(mode string) *gin.Engine {
	if mode != "" {
		gin.SetMode(mode)
	}
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	router.GET("/health", health)
	router.POST("/ask", ask)
	router.POST("/generate/", ask)

	return router
}

func health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func ask(c *gin.Context) {
	var payload AskPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Prompt cannot be empty."})
		return
	}
	if strings.TrimSpace(payload.Prompt) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Prompt cannot be empty."})
		return
	}

	c.JSON(http.StatusOK, AskReply{
		Answer:    "[echo] You said: " + payload.Prompt,
		ProjectID: payload.ProjectID,
		User:      payload.User,
	})
}
