package repository

import (
	"context"
	"time"

	"github.com/projecthub/projecthub/internal/model"
	ctxutil "github.com/projecthub/projecthub/pkg/context"
	"github.com/projecthub/projecthub/pkg/logger"
	"gorm.io/gorm"
)

type ProjectRepository struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// ownerSelect limits the preloaded owner to its public columns
func ownerSelect(db *gorm.DB) *gorm.DB {
	return db.Select("id", "name", "email")
}

func (r *ProjectRepository) GetByID(ctx context.Context, id uint) (*model.Project, error) {
	ctx = ctxutil.WithOperation(ctx, "repository", "GetByID")

	var project model.Project
	result := r.db.WithContext(ctx).Preload("Owner", ownerSelect).Where("id = ?", id).First(&project)
	if result.Error != nil {
		logger.DebugWithContext(ctx, "Failed to get project by ID").
			Uint("project_id", id).
			Err(result.Error).
			Log()
		return nil, result.Error
	}

	return &project, nil
}

func (r *ProjectRepository) GetAll(ctx context.Context, limit, offset int, search string) ([]model.Project, int64, error) {
	ctx = ctxutil.WithOperation(ctx, "repository", "GetAll")

	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}

	start := time.Now()
	var projects []model.Project
	var total int64

	query := r.db.WithContext(ctx).Model(&model.Project{})

	if search != "" {
		searchPattern := "%" + search + "%"
		query = query.Where("name ILIKE ? OR description ILIKE ?", searchPattern, searchPattern)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Preload("Owner", ownerSelect).Limit(limit).Offset(offset).Order("id").Find(&projects).Error; err != nil {
		logger.ErrorWithContext(ctx, "Failed to fetch projects").
			Int("limit", limit).
			Int("offset", offset).
			Duration(time.Since(start)).
			Err(err).
			Log()
		return nil, 0, err
	}

	logger.DebugWithContext(ctx, "Projects retrieved").
		Int64("total", total).
		Int("returned_count", len(projects)).
		Duration(time.Since(start)).
		Log()

	return projects, total, nil
}

func (r *ProjectRepository) Create(ctx context.Context, project *model.Project) error {
	ctx = ctxutil.WithOperation(ctx, "repository", "Create")

	result := r.db.WithContext(ctx).Create(project)
	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to create project").
			String("name", project.Name).
			Err(result.Error).
			Log()
		return result.Error
	}

	logger.InfoWithContext(ctx, "Project created").
		Uint("project_id", project.ID).
		Uint("owner_id", project.OwnerID).
		Log()

	return nil
}

func (r *ProjectRepository) Update(ctx context.Context, id uint, updates map[string]interface{}) error {
	ctx = ctxutil.WithOperation(ctx, "repository", "Update")

	if len(updates) == 0 {
		return nil
	}

	result := r.db.WithContext(ctx).Model(&model.Project{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to update project").
			Uint("project_id", id).
			Err(result.Error).
			Log()
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *ProjectRepository) Delete(ctx context.Context, id uint) error {
	ctx = ctxutil.WithOperation(ctx, "repository", "Delete")

	result := r.db.WithContext(ctx).Unscoped().Delete(&model.Project{}, id)
	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to delete project").
			Uint("project_id", id).
			Err(result.Error).
			Log()
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	logger.InfoWithContext(ctx, "Project deleted").
		Uint("project_id", id).
		Log()

	return nil
}
