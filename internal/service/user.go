package service

import (
	"context"
	"errors"
	"strings"

	"github.com/projecthub/projecthub/internal/constants"
	"github.com/projecthub/projecthub/internal/dto"
	apperrors "github.com/projecthub/projecthub/internal/errors"
	"github.com/projecthub/projecthub/internal/model"
	ctxutil "github.com/projecthub/projecthub/pkg/context"
	"github.com/projecthub/projecthub/pkg/logger"
	"gorm.io/gorm"
)

// UserStore is the persistence surface the user service depends on.
// repository.UserRepository satisfies it; absent rows surface as
// gorm.ErrRecordNotFound.
type UserStore interface {
	GetByID(ctx context.Context, id uint) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetAll(ctx context.Context, limit, offset int, search string) ([]model.User, int64, error)
	Create(ctx context.Context, user *model.User) error
	Update(ctx context.Context, id uint, updates map[string]interface{}) error
	UpdatePassword(ctx context.Context, id uint, hashedPassword string) error
	UpdateLastLogin(ctx context.Context, id uint) error
	UpdateRefreshToken(ctx context.Context, id uint, refreshToken string) error
	Delete(ctx context.Context, id uint) error
}

// UserService owns registration, the login/refresh/logout session state
// machine, profile mutation, and the admin user CRUD.
type UserService struct {
	repoUser   UserStore
	jwtService *JWTService
}

func NewUserService(repo UserStore, jwtService *JWTService) *UserService {
	return &UserService{
		repoUser:   repo,
		jwtService: jwtService,
	}
}

func toUserResponse(user *model.User) dto.UserResponse {
	return dto.UserResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Role:      user.Role,
		Age:       user.Age,
		LastLogin: user.LastLogin,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// validateEmail checks email uniqueness, optionally excluding one user id
// (profile updates may keep the caller's own email).
func (s *UserService) validateEmail(ctx context.Context, email string, excludeID *uint) error {
	existingUser, err := s.repoUser.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil // email is available
		}
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if excludeID != nil && existingUser.ID == *excludeID {
		return nil // email belongs to the same user
	}

	return apperrors.ErrEmailExists
}

// issueSession creates a fresh token pair and persists the refresh token,
// overwriting any prior session for the user.
func (s *UserService) issueSession(ctx context.Context, user *model.User) (accessToken, refreshToken string, err error) {
	accessToken, err = s.jwtService.GenerateAccessToken(user.ID, user.Role)
	if err != nil {
		return "", "", apperrors.WrapError(apperrors.ErrInternal, err)
	}

	refreshToken, err = s.jwtService.GenerateRefreshToken(user.ID)
	if err != nil {
		return "", "", apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if err := s.repoUser.UpdateRefreshToken(ctx, user.ID, refreshToken); err != nil {
		return "", "", apperrors.WrapError(apperrors.ErrInternal, err)
	}

	return accessToken, refreshToken, nil
}

// Register creates a new user and opens a session for it. The returned
// refresh token goes into the httpOnly cookie at the handler boundary.
func (s *UserService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.LoginResponse, string, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "Register")

	email := normalizeEmail(req.Email)

	logger.InfoWithContext(ctx, "Registering new user").
		String("email", email).
		Log()

	if err := s.validateEmail(ctx, email, nil); err != nil {
		logger.WarnWithContext(ctx, "Registration rejected").
			String("email", email).
			Err(err).
			Log()
		return nil, "", err
	}

	hashedPassword, err := HashPassword(req.Password)
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to hash password").
			Err(err).
			Log()
		return nil, "", apperrors.WrapError(apperrors.ErrInternal, err)
	}

	role := req.Role
	if role == "" {
		role = constants.RoleUser
	}
	age := req.Age
	if age == 0 {
		age = constants.DefaultAge
	}

	user := &model.User{
		Name:     strings.TrimSpace(req.Name),
		Email:    email,
		Password: hashedPassword,
		Role:     role,
		Age:      age,
	}

	if err := s.repoUser.Create(ctx, user); err != nil {
		logger.ErrorWithContext(ctx, "Failed to create user").
			String("email", email).
			Err(err).
			Log()
		return nil, "", apperrors.WrapError(apperrors.ErrInternal, err)
	}

	accessToken, refreshToken, err := s.issueSession(ctx, user)
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to open session after registration").
			Uint("user_id", user.ID).
			Err(err).
			Log()
		return nil, "", err
	}

	logger.InfoWithContext(ctx, "User registered").
		Uint("user_id", user.ID).
		String("email", email).
		Log()

	return &dto.LoginResponse{
		AccessToken: accessToken,
		ExpiresIn:   int(s.jwtService.AccessTTL().Seconds()),
		User:        toUserResponse(user),
	}, refreshToken, nil
}

// Login authenticates credentials and opens a session. Unknown email and
// wrong password produce the same error so callers cannot enumerate users.
func (s *UserService) Login(ctx context.Context, email, password string) (*dto.LoginResponse, string, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "Login")

	email = normalizeEmail(email)

	logger.InfoWithContext(ctx, "Login attempt").
		String("email", email).
		Log()

	user, err := s.repoUser.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.InfoWithContext(ctx, "Login failed: unknown email").
				String("email", email).
				Log()
			return nil, "", apperrors.ErrInvalidCredentials
		}
		return nil, "", apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if !VerifyPassword(password, user.Password) {
		logger.WarnWithContext(ctx, "Login failed: password mismatch").
			String("email", email).
			Uint("user_id", user.ID).
			Log()
		return nil, "", apperrors.ErrInvalidCredentials
	}

	accessToken, refreshToken, err := s.issueSession(ctx, user)
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to open session").
			Uint("user_id", user.ID).
			Err(err).
			Log()
		return nil, "", err
	}

	// Best effort; a failed timestamp write must not fail the login
	if err := s.repoUser.UpdateLastLogin(ctx, user.ID); err != nil {
		logger.WarnWithContext(ctx, "Failed to update last login").
			Uint("user_id", user.ID).
			Err(err).
			Log()
	}

	logger.InfoWithContext(ctx, "User logged in").
		Uint("user_id", user.ID).
		String("email", email).
		Log()

	return &dto.LoginResponse{
		AccessToken: accessToken,
		ExpiresIn:   int(s.jwtService.AccessTTL().Seconds()),
		User:        toUserResponse(user),
	}, refreshToken, nil
}

// Refresh exchanges a valid refresh token for a new access token and a
// rotated refresh token. The presented token must verify against the
// refresh secret AND equal the stored value; a token invalidated by logout
// or a later login fails the second check.
func (s *UserService) Refresh(ctx context.Context, presentedToken string) (*dto.RefreshResponse, string, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "Refresh")

	if presentedToken == "" {
		return nil, "", apperrors.ErrMissingToken
	}

	claims, err := s.jwtService.ValidateRefreshToken(presentedToken)
	if err != nil {
		logger.WarnWithContext(ctx, "Refresh token failed validation").
			Err(err).
			Log()
		return nil, "", err
	}

	user, err := s.repoUser.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.WarnWithContext(ctx, "Refresh for unknown user").
				Uint("user_id", claims.UserID).
				Log()
			return nil, "", apperrors.ErrSessionRevoked
		}
		return nil, "", apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if user.RefreshToken == "" || user.RefreshToken != presentedToken {
		logger.WarnWithContext(ctx, "Refresh token does not match stored session").
			Uint("user_id", user.ID).
			Log()
		return nil, "", apperrors.ErrSessionRevoked
	}

	accessToken, refreshToken, err := s.issueSession(ctx, user)
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to rotate session").
			Uint("user_id", user.ID).
			Err(err).
			Log()
		return nil, "", err
	}

	logger.InfoWithContext(ctx, "Session refreshed").
		Uint("user_id", user.ID).
		Log()

	return &dto.RefreshResponse{
		AccessToken: accessToken,
		ExpiresIn:   int(s.jwtService.AccessTTL().Seconds()),
	}, refreshToken, nil
}

// Logout clears the stored refresh token, ending the session. Idempotent:
// logging out with no active session succeeds.
func (s *UserService) Logout(ctx context.Context, userID uint) error {
	ctx = ctxutil.WithOperation(ctx, "service", "Logout")

	if err := s.repoUser.UpdateRefreshToken(ctx, userID, ""); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// user deleted underneath an active session; nothing to revoke
			return nil
		}
		logger.ErrorWithContext(ctx, "Failed to clear refresh token").
			Uint("user_id", userID).
			Err(err).
			Log()
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}

	logger.InfoWithContext(ctx, "User logged out").
		Uint("user_id", userID).
		Log()

	return nil
}

func (s *UserService) GetByID(ctx context.Context, id uint) (*dto.UserResponse, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "GetByID")

	user, err := s.repoUser.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	response := toUserResponse(user)
	return &response, nil
}

func (s *UserService) GetAll(ctx context.Context, limit, offset int, search string) ([]dto.UserResponse, int64, int, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "GetAll")

	users, total, err := s.repoUser.GetAll(ctx, limit, offset, search)
	if err != nil {
		return nil, 0, 0, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	pageTotal := int((total + int64(limit) - 1) / int64(limit))

	res := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		res = append(res, toUserResponse(&users[i]))
	}

	return res, total, pageTotal, nil
}

// CreateUser is the admin-facing creation path; unlike Register it does not
// open a session for the new user.
func (s *UserService) CreateUser(ctx context.Context, req *dto.CreateUserRequest) (*dto.UserResponse, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "CreateUser")

	email := normalizeEmail(req.Email)

	if err := s.validateEmail(ctx, email, nil); err != nil {
		return nil, err
	}

	hashedPassword, err := HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	role := req.Role
	if role == "" {
		role = constants.RoleUser
	}
	age := req.Age
	if age == 0 {
		age = constants.DefaultAge
	}

	user := &model.User{
		Name:     strings.TrimSpace(req.Name),
		Email:    email,
		Password: hashedPassword,
		Role:     role,
		Age:      age,
	}

	if err := s.repoUser.Create(ctx, user); err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	response := toUserResponse(user)
	return &response, nil
}

// UpdateUser applies an admin update, including role changes
func (s *UserService) UpdateUser(ctx context.Context, id uint, req *dto.UpdateUserRequest) (*dto.UserResponse, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "UpdateUser")

	if _, err := s.repoUser.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	updates := map[string]interface{}{}
	if req.Name != "" {
		updates["name"] = strings.TrimSpace(req.Name)
	}
	if req.Email != "" {
		email := normalizeEmail(req.Email)
		if err := s.validateEmail(ctx, email, &id); err != nil {
			return nil, err
		}
		updates["email"] = email
	}
	if req.Role != "" {
		updates["role"] = req.Role
	}
	if req.Age != 0 {
		updates["age"] = req.Age
	}

	if err := s.repoUser.Update(ctx, id, updates); err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	return s.GetByID(ctx, id)
}

// UpdateProfile applies a self-service partial update. Role and password
// are not accepted here.
func (s *UserService) UpdateProfile(ctx context.Context, userID uint, req *dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "UpdateProfile")

	if _, err := s.repoUser.GetByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	updates := map[string]interface{}{}
	if req.Name != "" {
		updates["name"] = strings.TrimSpace(req.Name)
	}
	if req.Email != "" {
		email := normalizeEmail(req.Email)
		if err := s.validateEmail(ctx, email, &userID); err != nil {
			logger.WarnWithContext(ctx, "Profile email rejected").
				Uint("user_id", userID).
				String("email", email).
				Err(err).
				Log()
			return nil, err
		}
		updates["email"] = email
	}
	if req.Age != 0 {
		updates["age"] = req.Age
	}

	if err := s.repoUser.Update(ctx, userID, updates); err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	logger.InfoWithContext(ctx, "Profile updated").
		Uint("user_id", userID).
		Log()

	return s.GetByID(ctx, userID)
}

// ChangePassword verifies the old password and stores a hash of the new
// one. A wrong old password leaves the stored hash untouched.
func (s *UserService) ChangePassword(ctx context.Context, userID uint, oldPassword, newPassword string) error {
	ctx = ctxutil.WithOperation(ctx, "service", "ChangePassword")

	user, err := s.repoUser.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrUserNotFound
		}
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if !VerifyPassword(oldPassword, user.Password) {
		logger.WarnWithContext(ctx, "Password change rejected: old password mismatch").
			Uint("user_id", userID).
			Log()
		return apperrors.ErrInvalidPassword
	}

	hashedPassword, err := HashPassword(newPassword)
	if err != nil {
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if err := s.repoUser.UpdatePassword(ctx, userID, hashedPassword); err != nil {
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}

	logger.InfoWithContext(ctx, "Password changed").
		Uint("user_id", userID).
		Log()

	return nil
}

// DeleteUser removes a user permanently. Users cannot delete themselves.
func (s *UserService) DeleteUser(ctx context.Context, id uint, requestingUserID uint) error {
	ctx = ctxutil.WithOperation(ctx, "service", "DeleteUser")

	if id == requestingUserID {
		logger.WarnWithContext(ctx, "User attempted to delete themselves").
			Uint("user_id", id).
			Log()
		return apperrors.ErrSelfDeletion
	}

	if _, err := s.repoUser.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrUserNotFound
		}
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if err := s.repoUser.Delete(ctx, id); err != nil {
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}

	logger.InfoWithContext(ctx, "User deleted").
		Uint("target_user_id", id).
		Uint("requesting_user_id", requestingUserID).
		Log()

	return nil
}
