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

// AuthHandler exposes registration and the session lifecycle. The access
// token travels in response bodies; the refresh token only ever leaves in
// the httpOnly cookie scoped to the auth routes.
type AuthHandler struct {
	userService *service.UserService
	refreshTTL  int // cookie Max-Age in seconds
}

func NewAuthHandler(userService *service.UserService, jwtService *service.JWTService) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		refreshTTL:  int(jwtService.RefreshTTL().Seconds()),
	}
}

func (h *AuthHandler) setRefreshCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(constants.RefreshCookieName, token, h.refreshTTL, constants.RefreshCookiePath, "", false, true)
}

func (h *AuthHandler) clearRefreshCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(constants.RefreshCookieName, "", -1, constants.RefreshCookiePath, "", false, true)
}

func respondError(c *gin.Context, err error) {
	c.JSON(apperrors.ToHTTPStatus(err), constants.BuildErrorResponse(apperrors.GetErrorMessage(err), apperrors.GetErrorCode(err)))
}

// Register creates an account and opens a session for it
func (h *AuthHandler) Register(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "Register")

	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.WarnWithContext(ctx, "Invalid registration payload").
			Err(err).
			Log()
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse(constants.MsgBadRequest, err.Error()))
		return
	}

	res, refreshToken, err := h.userService.Register(ctx, &req)
	if err != nil {
		logger.WarnWithContext(ctx, "Registration failed").
			String("email", req.Email).
			Err(err).
			Log()
		respondError(c, err)
		return
	}

	h.setRefreshCookie(c, refreshToken)
	c.JSON(http.StatusCreated, res)
}

// Login authenticates credentials and opens a session
func (h *AuthHandler) Login(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "Login")

	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.WarnWithContext(ctx, "Invalid login payload").
			Err(err).
			Log()
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse(constants.MsgBadRequest, err.Error()))
		return
	}

	res, refreshToken, err := h.userService.Login(ctx, req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	h.setRefreshCookie(c, refreshToken)
	c.JSON(http.StatusOK, res)
}

// Refresh exchanges the cookie's refresh token for a new token pair
func (h *AuthHandler) Refresh(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "Refresh")

	presented, err := c.Cookie(constants.RefreshCookieName)
	if err != nil || presented == "" {
		logger.WarnWithContext(ctx, "Refresh request without cookie").Log()
		respondError(c, apperrors.ErrMissingToken)
		return
	}

	res, rotated, err := h.userService.Refresh(ctx, presented)
	if err != nil {
		// drop the cookie only when the session itself is dead; a
		// transient backend failure must not log the client out
		if apperrors.ToHTTPStatus(err) == http.StatusUnauthorized {
			h.clearRefreshCookie(c)
		}
		respondError(c, err)
		return
	}

	h.setRefreshCookie(c, rotated)
	c.JSON(http.StatusOK, res)
}

// Logout revokes the current session and clears the cookie
func (h *AuthHandler) Logout(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "Logout")

	userID, ok := middleware.AuthenticatedUserID(c)
	if !ok {
		respondError(c, apperrors.ErrUnauthorized)
		return
	}

	if err := h.userService.Logout(ctx, userID); err != nil {
		respondError(c, err)
		return
	}

	h.clearRefreshCookie(c)
	c.JSON(http.StatusOK, constants.BuildSuccessResponse("Logged out successfully"))
}

// Me returns the authenticated user's profile
func (h *AuthHandler) Me(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "Me")

	userID, ok := middleware.AuthenticatedUserID(c)
	if !ok {
		respondError(c, apperrors.ErrUnauthorized)
		return
	}

	user, err := h.userService.GetByID(ctx, userID)
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to fetch own profile").
			Uint("user_id", userID).
			Err(err).
			Log()
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// UpdateProfile applies a partial update to the caller's own record
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "UpdateProfile")

	userID, ok := middleware.AuthenticatedUserID(c)
	if !ok {
		respondError(c, apperrors.ErrUnauthorized)
		return
	}

	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.WarnWithContext(ctx, "Invalid profile payload").
			Uint("user_id", userID).
			Err(err).
			Log()
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse(constants.MsgBadRequest, err.Error()))
		return
	}

	user, err := h.userService.UpdateProfile(ctx, userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// ChangePassword verifies the old password before storing the new one
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "ChangePassword")

	userID, ok := middleware.AuthenticatedUserID(c)
	if !ok {
		respondError(c, apperrors.ErrUnauthorized)
		return
	}

	var req dto.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.WarnWithContext(ctx, "Invalid change password payload").
			Uint("user_id", userID).
			Err(err).
			Log()
		respondError(c, apperrors.ErrMissingPassword)
		return
	}

	if err := h.userService.ChangePassword(ctx, userID, req.OldPassword, req.NewPassword); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, constants.BuildSuccessResponse("Password changed successfully"))
}
