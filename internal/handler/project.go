package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/projecthub/projecthub/internal/constants"
	"github.com/projecthub/projecthub/internal/dto"
	apperrors "github.com/projecthub/projecthub/internal/errors"
	"github.com/projecthub/projecthub/internal/middleware"
	"github.com/projecthub/projecthub/internal/service"
	ctxutil "github.com/projecthub/projecthub/pkg/context"
	"github.com/projecthub/projecthub/pkg/logger"
)

// ProjectHandler exposes project CRUD. All routes require authentication;
// ownership checks live in the service.
type ProjectHandler struct {
	projectService *service.ProjectService
}

func NewProjectHandler(projectService *service.ProjectService) *ProjectHandler {
	return &ProjectHandler{projectService: projectService}
}

func (h *ProjectHandler) GetAll(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "GetAllProjects")

	pagination := constants.ParsePaginationParams(c)
	search := c.DefaultQuery(constants.QueryParamSearch, constants.DefaultSearch)

	res, total, pageTotal, err := h.projectService.GetAll(ctx, pagination.Limit, pagination.Offset, search)
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to list projects").
			Int("page", pagination.Page).
			Err(err).
			Log()
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, constants.BuildListResponse(total, pagination.Page, pageTotal, res))
}

func (h *ProjectHandler) GetByID(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "GetProjectByID")

	id, ok := parseIDParam(c)
	if !ok {
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse("Invalid project ID", c.Param("id")))
		return
	}

	project, err := h.projectService.GetByID(ctx, id)
	if err != nil {
		logger.WarnWithContext(ctx, "Failed to fetch project").
			Uint("project_id", id).
			Err(err).
			Log()
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, project)
}

func (h *ProjectHandler) Create(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "CreateProject")

	userID, ok := middleware.AuthenticatedUserID(c)
	if !ok {
		respondError(c, apperrors.ErrUnauthorized)
		return
	}

	var req dto.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.WarnWithContext(ctx, "Invalid create project payload").
			Uint("user_id", userID).
			Err(err).
			Log()
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse(constants.MsgBadRequest, err.Error()))
		return
	}

	project, err := h.projectService.Create(ctx, userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, project)
}

func (h *ProjectHandler) Update(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "UpdateProject")

	id, ok := parseIDParam(c)
	if !ok {
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse("Invalid project ID", c.Param("id")))
		return
	}

	userID, ok := middleware.AuthenticatedUserID(c)
	if !ok {
		respondError(c, apperrors.ErrUnauthorized)
		return
	}
	role := c.GetString("role")

	var req dto.UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.WarnWithContext(ctx, "Invalid update project payload").
			Uint("project_id", id).
			Err(err).
			Log()
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse(constants.MsgBadRequest, err.Error()))
		return
	}

	project, err := h.projectService.Update(ctx, id, userID, role, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, project)
}

func (h *ProjectHandler) Delete(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "DeleteProject")

	id, ok := parseIDParam(c)
	if !ok {
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse("Invalid project ID", c.Param("id")))
		return
	}

	userID, ok := middleware.AuthenticatedUserID(c)
	if !ok {
		respondError(c, apperrors.ErrUnauthorized)
		return
	}
	role := c.GetString("role")

	if err := h.projectService.Delete(ctx, id, userID, role); err != nil {
		logger.WarnWithContext(ctx, "Failed to delete project").
			Uint("project_id", id).
			Err(err).
			Log()
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, constants.BuildSuccessResponse(constants.MsgDeleted))
}
