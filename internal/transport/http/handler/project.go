package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"askhub/internal/app"
	"askhub/internal/transport/http/response"
)

type ProjectHandler struct {
	projectService *app.ProjectService
}

type CreateProjectRequest struct {
	Name        string `json:"name" binding:"required,max=200"`
	Description string `json:"description"`
}

type UpdateProjectRequest struct {
	Name        string `json:"name" binding:"required,max=200"`
	Description string `json:"description"`
}

func NewProjectHandler(projectService *app.ProjectService) *ProjectHandler {
	return &ProjectHandler{projectService: projectService}
}

func (h *ProjectHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "invalid token payload")
		return
	}

	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request payload")
		return
	}

	project, err := h.projectService.Create(app.CreateProjectInput{
		OwnerID:     userID,
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		respondError(c, err, "create project failed")
		return
	}

	response.Created(c, project)
}

func (h *ProjectHandler) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "invalid token payload")
		return
	}

	projects, err := h.projectService.List(userID)
	if err != nil {
		respondError(c, err, "list projects failed")
		return
	}

	response.OK(c, projects)
}

func (h *ProjectHandler) Get(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "invalid token payload")
		return
	}

	projectID, ok := pathID(c)
	if !ok {
		return
	}

	project, err := h.projectService.Get(userID, projectID)
	if err != nil {
		respondError(c, err, "get project failed")
		return
	}

	response.OK(c, project)
}

func (h *ProjectHandler) Update(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "invalid token payload")
		return
	}

	projectID, ok := pathID(c)
	if !ok {
		return
	}

	var req UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request payload")
		return
	}

	project, err := h.projectService.Update(app.UpdateProjectInput{
		OwnerID:     userID,
		ProjectID:   projectID,
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		respondError(c, err, "update project failed")
		return
	}

	response.OK(c, project)
}

func (h *ProjectHandler) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "invalid token payload")
		return
	}

	projectID, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.projectService.Delete(userID, projectID); err != nil {
		respondError(c, err, "delete project failed")
		return
	}

	response.NoContent(c)
}

func pathID(c *gin.Context) (uint, bool) {
	id64, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id64 == 0 {
		response.Error(c, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return uint(id64), true
}
