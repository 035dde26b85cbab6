package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/projecthub/projecthub/internal/constants"
	"github.com/projecthub/projecthub/internal/dto"
	apperrors "github.com/projecthub/projecthub/internal/errors"
	"github.com/projecthub/projecthub/internal/middleware"
	"github.com/projecthub/projecthub/internal/service"
	ctxutil "github.com/projecthub/projecthub/pkg/context"
	"github.com/projecthub/projecthub/pkg/logger"
)

// UserHandler exposes the admin-facing user CRUD
type UserHandler struct {
	userService *service.UserService
}

func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

func parseIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return 0, false
	}
	return uint(id), true
}

func (h *UserHandler) GetAll(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "GetAllUsers")

	pagination := constants.ParsePaginationParams(c)
	search := c.DefaultQuery(constants.QueryParamSearch, constants.DefaultSearch)

	logger.InfoWithContext(ctx, "List users request").
		Int("page", pagination.Page).
		Int("limit", pagination.Limit).
		String("search", search).
		Log()

	res, total, pageTotal, err := h.userService.GetAll(ctx, pagination.Limit, pagination.Offset, search)
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to list users").
			Int("page", pagination.Page).
			Err(err).
			Log()
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, constants.BuildListResponse(total, pagination.Page, pageTotal, res))
}

func (h *UserHandler) GetByID(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "GetUserByID")

	id, ok := parseIDParam(c)
	if !ok {
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse("Invalid user ID", c.Param("id")))
		return
	}

	user, err := h.userService.GetByID(ctx, id)
	if err != nil {
		logger.WarnWithContext(ctx, "Failed to fetch user").
			Uint("target_user_id", id).
			Err(err).
			Log()
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) Create(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "CreateUser")

	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.WarnWithContext(ctx, "Invalid create user payload").
			Err(err).
			Log()
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse(constants.MsgBadRequest, err.Error()))
		return
	}

	user, err := h.userService.CreateUser(ctx, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	logger.InfoWithContext(ctx, "User created by admin").
		Uint("target_user_id", user.ID).
		Log()

	c.JSON(http.StatusCreated, user)
}

func (h *UserHandler) Update(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "UpdateUser")

	id, ok := parseIDParam(c)
	if !ok {
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse("Invalid user ID", c.Param("id")))
		return
	}

	actorID, ok := middleware.AuthenticatedUserID(c)
	if !ok {
		respondError(c, apperrors.ErrUnauthorized)
		return
	}
	if actorID != id && c.GetString("role") != constants.RoleAdmin {
		logger.WarnWithContext(ctx, "User update denied").
			Uint("target_user_id", id).
			Uint("actor_id", actorID).
			Log()
		respondError(c, apperrors.ErrForbidden)
		return
	}

	var req dto.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.WarnWithContext(ctx, "Invalid update user payload").
			Uint("target_user_id", id).
			Err(err).
			Log()
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse(constants.MsgBadRequest, err.Error()))
		return
	}

	// only admins may change roles
	if c.GetString("role") != constants.RoleAdmin {
		req.Role = ""
	}

	user, err := h.userService.UpdateUser(ctx, id, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) Delete(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "DeleteUser")

	id, ok := parseIDParam(c)
	if !ok {
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse("Invalid user ID", c.Param("id")))
		return
	}

	requestingUserID, ok := middleware.AuthenticatedUserID(c)
	if !ok {
		respondError(c, apperrors.ErrUnauthorized)
		return
	}

	if err := h.userService.DeleteUser(ctx, id, requestingUserID); err != nil {
		logger.WarnWithContext(ctx, "Failed to delete user").
			Uint("target_user_id", id).
			Err(err).
			Log()
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, constants.BuildSuccessResponse(constants.MsgDeleted))
}
