package app

import (
	"strings"

	"askhub/internal/model"
	"askhub/internal/repository"
)

type ProjectService struct {
	projects *repository.ProjectRepository
}

type CreateProjectInput struct {
	OwnerID     uint
	Name        string
	Description string
}

type UpdateProjectInput struct {
	OwnerID     uint
	ProjectID   uint
	Name        string
	Description string
}

func NewProjectService(projects *repository.ProjectRepository) *ProjectService {
	return &ProjectService{projects: projects}
}

// Create sets the owner from the acting identity; clients cannot create
// projects on behalf of someone else.
func (s *ProjectService) Create(input CreateProjectInput) (*model.Project, error) {
	name := strings.TrimSpace(input.Name)
	if input.OwnerID == 0 || name == "" {
		return nil, ErrInvalidInput
	}

	project := &model.Project{
		OwnerID:     input.OwnerID,
		Name:        name,
		Description: input.Description,
	}
	if err := s.projects.Create(project); err != nil {
		return nil, err
	}
	return project, nil
}

func (s *ProjectService) List(ownerID uint) ([]model.Project, error) {
	if ownerID == 0 {
		return nil, ErrInvalidInput
	}
	return s.projects.ListByOwnerID(ownerID)
}

func (s *ProjectService) Get(ownerID, projectID uint) (*model.Project, error) {
	if ownerID == 0 || projectID == 0 {
		return nil, ErrInvalidInput
	}
	project, err := s.projects.GetByIDAndOwnerID(projectID, ownerID)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, ErrProjectNotFound
	}
	return project, nil
}

func (s *ProjectService) Update(input UpdateProjectInput) (*model.Project, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrInvalidInput
	}

	project, err := s.Get(input.OwnerID, input.ProjectID)
	if err != nil {
		return nil, err
	}

	project.Name = name
	project.Description = input.Description
	if err := s.projects.Update(project); err != nil {
		return nil, err
	}
	return project, nil
}

// Delete cascades to the project's dialogs and their messages.
func (s *ProjectService) Delete(ownerID, projectID uint) error {
	if _, err := s.Get(ownerID, projectID); err != nil {
		return err
	}
	return s.projects.DeleteByIDAndOwnerID(projectID, ownerID)
}
