package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/projecthub/projecthub/config"
	"github.com/projecthub/projecthub/internal/constants"
	"github.com/projecthub/projecthub/internal/model"
	"github.com/projecthub/projecthub/internal/service"
	"gorm.io/gorm"
)

// stubUserStore serves a single user and can be forced to fail reads,
// standing in for the database behind the session flows
type stubUserStore struct {
	user    *model.User
	readErr error
}

func (s *stubUserStore) GetByID(ctx context.Context, id uint) (*model.User, error) {
	if s.readErr != nil {
		return nil, s.readErr
	}
	if s.user == nil || s.user.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *s.user
	return &copied, nil
}

func (s *stubUserStore) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	if s.readErr != nil {
		return nil, s.readErr
	}
	if s.user == nil || s.user.Email != email {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *s.user
	return &copied, nil
}

func (s *stubUserStore) GetAll(ctx context.Context, limit, offset int, search string) ([]model.User, int64, error) {
	return nil, 0, nil
}

func (s *stubUserStore) Create(ctx context.Context, user *model.User) error { return nil }

func (s *stubUserStore) Update(ctx context.Context, id uint, updates map[string]interface{}) error {
	return nil
}

func (s *stubUserStore) UpdatePassword(ctx context.Context, id uint, hashedPassword string) error {
	return nil
}

func (s *stubUserStore) UpdateLastLogin(ctx context.Context, id uint) error { return nil }

func (s *stubUserStore) UpdateRefreshToken(ctx context.Context, id uint, refreshToken string) error {
	if s.user != nil && s.user.ID == id {
		s.user.RefreshToken = refreshToken
	}
	return nil
}

func (s *stubUserStore) Delete(ctx context.Context, id uint) error { return nil }

func newRefreshTestServer(t *testing.T, store *stubUserStore) (*gin.Engine, *service.JWTService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	jwtService := service.NewJWTService(config.JWTConfig{
		AccessSecret:  "test-access-secret",
		RefreshSecret: "test-refresh-secret",
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    7 * 24 * time.Hour,
	})
	userService := service.NewUserService(store, jwtService)
	authHandler := NewAuthHandler(userService, jwtService)

	r := gin.New()
	r.POST("/api/v1/auth/refresh", authHandler.Refresh)

	return r, jwtService
}

func refreshCookie(w *httptest.ResponseRecorder) *http.Cookie {
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == constants.RefreshCookieName {
			return cookie
		}
	}
	return nil
}

func TestRefreshKeepsCookieOnStoreFailure(t *testing.T) {
	store := &stubUserStore{
		user:    &model.User{Model: gorm.Model{ID: 1}, Email: "a@x.com", Role: "user"},
		readErr: errors.New("connection refused"),
	}
	r, jwtService := newRefreshTestServer(t, store)

	token, err := jwtService.GenerateRefreshToken(1)
	if err != nil {
		t.Fatalf("GenerateRefreshToken returned error: %v", err)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh", nil)
	req.AddCookie(&http.Cookie{Name: constants.RefreshCookieName, Value: token})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	// a backend outage must not log the client out
	if cookie := refreshCookie(w); cookie != nil {
		t.Errorf("cookie must be left alone on a 500, got Set-Cookie %q", cookie.String())
	}
}

func TestRefreshClearsCookieWhenSessionRevoked(t *testing.T) {
	// stored refresh token is empty: the session was logged out
	store := &stubUserStore{
		user: &model.User{Model: gorm.Model{ID: 1}, Email: "a@x.com", Role: "user"},
	}
	r, jwtService := newRefreshTestServer(t, store)

	token, err := jwtService.GenerateRefreshToken(1)
	if err != nil {
		t.Fatalf("GenerateRefreshToken returned error: %v", err)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh", nil)
	req.AddCookie(&http.Cookie{Name: constants.RefreshCookieName, Value: token})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
	cookie := refreshCookie(w)
	if cookie == nil {
		t.Fatal("expected the cookie to be cleared on a revoked session")
	}
	if cookie.Value != "" {
		t.Errorf("clearing cookie must carry an empty value, got %q", cookie.Value)
	}
}

func TestRefreshMissingCookie(t *testing.T) {
	store := &stubUserStore{}
	r, _ := newRefreshTestServer(t, store)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestRefreshResetsCookieOnSuccess(t *testing.T) {
	store := &stubUserStore{
		user: &model.User{Model: gorm.Model{ID: 1}, Email: "a@x.com", Role: "user"},
	}
	r, jwtService := newRefreshTestServer(t, store)

	token, err := jwtService.GenerateRefreshToken(1)
	if err != nil {
		t.Fatalf("GenerateRefreshToken returned error: %v", err)
	}
	store.user.RefreshToken = token

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh", nil)
	req.AddCookie(&http.Cookie{Name: constants.RefreshCookieName, Value: token})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	cookie := refreshCookie(w)
	if cookie == nil {
		t.Fatal("expected a rotated cookie on success")
	}
	if cookie.Value == "" {
		t.Error("rotated cookie must carry the new refresh token")
	}
	if cookie.Value != store.user.RefreshToken {
		t.Error("cookie must match the newly persisted refresh token")
	}
	if !cookie.HttpOnly {
		t.Error("refresh cookie must be httpOnly")
	}
	if cookie.Path != constants.RefreshCookiePath {
		t.Errorf("expected cookie path %q, got %q", constants.RefreshCookiePath, cookie.Path)
	}
}
