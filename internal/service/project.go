package service

import (
	"context"
	"errors"

	"github.com/projecthub/projecthub/internal/constants"
	"github.com/projecthub/projecthub/internal/dto"
	apperrors "github.com/projecthub/projecthub/internal/errors"
	"github.com/projecthub/projecthub/internal/model"
	"github.com/projecthub/projecthub/internal/repository"
	ctxutil "github.com/projecthub/projecthub/pkg/context"
	"github.com/projecthub/projecthub/pkg/logger"
	"gorm.io/gorm"
)

// ProjectService owns project CRUD with owner-or-admin authorization on
// mutation and a read-through cache on listings.
type ProjectService struct {
	repoProject *repository.ProjectRepository
	repoUser    *repository.UserRepository
	cache       *CacheService
}

func NewProjectService(repoProject *repository.ProjectRepository, repoUser *repository.UserRepository, cache *CacheService) *ProjectService {
	return &ProjectService{
		repoProject: repoProject,
		repoUser:    repoUser,
		cache:       cache,
	}
}

func toProjectResponse(project *model.Project) dto.ProjectResponse {
	return dto.ProjectResponse{
		ID:          project.ID,
		Name:        project.Name,
		Description: project.Description,
		Status:      project.Status,
		Owner: dto.ProjectOwner{
			ID:    project.Owner.ID,
			Name:  project.Owner.Name,
			Email: project.Owner.Email,
		},
		Metadata:  project.Metadata,
		CreatedAt: project.CreatedAt,
		UpdatedAt: project.UpdatedAt,
	}
}

// canMutate reports whether the actor may update or delete the project.
// Owners mutate their own projects; admins mutate anything.
func canMutate(project *model.Project, actorID uint, actorRole string) bool {
	return project.OwnerID == actorID || actorRole == constants.RoleAdmin
}

// Create creates a project owned by the authenticated user
func (s *ProjectService) Create(ctx context.Context, ownerID uint, req *dto.CreateProjectRequest) (*dto.ProjectResponse, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "CreateProject")

	if _, err := s.repoUser.GetByID(ctx, ownerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	status := req.Status
	if status == "" {
		status = constants.ProjectStatusPending
	}

	project := &model.Project{
		Name:        req.Name,
		Description: req.Description,
		Status:      status,
		OwnerID:     ownerID,
		Metadata:    req.Metadata,
	}

	if err := s.repoProject.Create(ctx, project); err != nil {
		logger.ErrorWithContext(ctx, "Failed to create project").
			Uint("owner_id", ownerID).
			Err(err).
			Log()
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	s.invalidateListings(ctx)

	logger.InfoWithContext(ctx, "Project created").
		Uint("project_id", project.ID).
		Uint("owner_id", ownerID).
		Log()

	// reload with the owner preloaded so the response carries owner fields
	created, err := s.repoProject.GetByID(ctx, project.ID)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	response := toProjectResponse(created)
	return &response, nil
}

func (s *ProjectService) GetByID(ctx context.Context, id uint) (*dto.ProjectResponse, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "GetProject")

	project, err := s.repoProject.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrProjectNotFound
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	response := toProjectResponse(project)
	return &response, nil
}

// listPage is the cached shape of one listing page
type listPage struct {
	Projects []dto.ProjectResponse `json:"projects"`
	Total    int64                 `json:"total"`
}

func (s *ProjectService) GetAll(ctx context.Context, limit, offset int, search string) ([]dto.ProjectResponse, int64, int, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "ListProjects")

	cacheKey := s.cache.ListKey(constants.CacheKeyProjects, limit, offset, search)

	var page listPage
	if s.cache.GetJSON(ctx, cacheKey, &page) {
		pageTotal := int((page.Total + int64(limit) - 1) / int64(limit))
		return page.Projects, page.Total, pageTotal, nil
	}

	projects, total, err := s.repoProject.GetAll(ctx, limit, offset, search)
	if err != nil {
		return nil, 0, 0, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	res := make([]dto.ProjectResponse, 0, len(projects))
	for i := range projects {
		res = append(res, toProjectResponse(&projects[i]))
	}

	s.cache.SetJSON(ctx, cacheKey, listPage{Projects: res, Total: total})

	pageTotal := int((total + int64(limit) - 1) / int64(limit))
	return res, total, pageTotal, nil
}

// Update applies a partial update after an owner-or-admin check
func (s *ProjectService) Update(ctx context.Context, id uint, actorID uint, actorRole string, req *dto.UpdateProjectRequest) (*dto.ProjectResponse, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "UpdateProject")

	project, err := s.repoProject.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrProjectNotFound
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if !canMutate(project, actorID, actorRole) {
		logger.WarnWithContext(ctx, "Project update denied").
			Uint("project_id", id).
			Uint("actor_id", actorID).
			String("actor_role", actorRole).
			Log()
		return nil, apperrors.ErrForbidden
	}

	updates := map[string]interface{}{}
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.Description != "" {
		updates["description"] = req.Description
	}
	if req.Status != "" {
		updates["status"] = req.Status
	}
	if req.Metadata != nil {
		updates["metadata"] = req.Metadata
	}

	if len(updates) > 0 {
		if err := s.repoProject.Update(ctx, id, updates); err != nil {
			return nil, apperrors.WrapError(apperrors.ErrInternal, err)
		}
		s.invalidateListings(ctx)
	}

	logger.InfoWithContext(ctx, "Project updated").
		Uint("project_id", id).
		Uint("actor_id", actorID).
		Log()

	return s.GetByID(ctx, id)
}

// Delete removes a project after an owner-or-admin check
func (s *ProjectService) Delete(ctx context.Context, id uint, actorID uint, actorRole string) error {
	ctx = ctxutil.WithOperation(ctx, "service", "DeleteProject")

	project, err := s.repoProject.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrProjectNotFound
		}
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if !canMutate(project, actorID, actorRole) {
		logger.WarnWithContext(ctx, "Project delete denied").
			Uint("project_id", id).
			Uint("actor_id", actorID).
			String("actor_role", actorRole).
			Log()
		return apperrors.ErrForbidden
	}

	if err := s.repoProject.Delete(ctx, id); err != nil {
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}

	s.invalidateListings(ctx)

	logger.InfoWithContext(ctx, "Project deleted").
		Uint("project_id", id).
		Uint("actor_id", actorID).
		Log()

	return nil
}

func (s *ProjectService) invalidateListings(ctx context.Context) {
	if _, err := s.cache.InvalidatePrefix(ctx, constants.CacheKeyProjects); err != nil {
		logger.WarnWithContext(ctx, "Failed to invalidate project cache").
			Err(err).
			Log()
	}
}
