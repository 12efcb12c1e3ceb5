package app

import (
	"askhub/internal/model"
	"askhub/internal/repository"
)

// OwnershipGuard decides whether an actor may touch an entity. Access is
// granted iff the entity's owning project belongs to the actor. The guard
// resolves ownership through model.ProjectOwned, so Dialog and Message are
// handled by the same path as Project itself.
type OwnershipGuard struct {
	projects *repository.ProjectRepository
}

func NewOwnershipGuard(projects *repository.ProjectRepository) *OwnershipGuard {
	return &OwnershipGuard{projects: projects}
}

// Authorize returns the owning project on success. A missing project is
// ErrProjectNotFound; an anonymous actor or ownership mismatch is
// ErrPermissionDenied.
func (g *OwnershipGuard) Authorize(actorID uint, entity model.ProjectOwned) (*model.Project, error) {
	if actorID == 0 || entity == nil {
		return nil, ErrPermissionDenied
	}

	projectID := entity.OwningProjectID()
	if projectID == 0 {
		return nil, ErrPermissionDenied
	}

	project, err := g.projects.GetByID(projectID)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, ErrProjectNotFound
	}
	if project.OwnerID != actorID {
		return nil, ErrPermissionDenied
	}
	return project, nil
}
