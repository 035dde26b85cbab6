package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/projecthub/projecthub/config"
	"github.com/projecthub/projecthub/internal/service"
)

func newTestRouter(t *testing.T) (*gin.Engine, *service.JWTService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	jwtService := service.NewJWTService(config.JWTConfig{
		AccessSecret:  "test-access-secret",
		RefreshSecret: "test-refresh-secret",
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    7 * 24 * time.Hour,
	})

	m := NewJWTMiddleware(jwtService)

	r := gin.New()
	r.GET("/protected", m.RequireAuth(), func(c *gin.Context) {
		userID, _ := AuthenticatedUserID(c)
		c.JSON(http.StatusOK, gin.H{"user_id": userID, "role": c.GetString("role")})
	})
	r.GET("/admin", m.RequireAuth(), m.RequireAdmin(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	return r, jwtService
}

func TestRequireAuthRejectsMissingHeader(t *testing.T) {
	r, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestRequireAuthRejectsMalformedHeader(t *testing.T) {
	r, _ := newTestRouter(t)

	for _, header := range []string{"sometoken", "Basic abc", "Bearer"} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", header)
		r.ServeHTTP(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Errorf("header %q: expected 401, got %d", header, w.Code)
		}
	}
}

func TestRequireAuthRejectsInvalidToken(t *testing.T) {
	r, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer not-a-valid-token")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestRequireAuthAcceptsValidToken(t *testing.T) {
	r, jwtService := newTestRouter(t)

	token, err := jwtService.GenerateAccessToken(42, "user")
	if err != nil {
		t.Fatalf("GenerateAccessToken returned error: %v", err)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestRequireAdmin(t *testing.T) {
	r, jwtService := newTestRouter(t)

	userToken, err := jwtService.GenerateAccessToken(1, "user")
	if err != nil {
		t.Fatalf("GenerateAccessToken returned error: %v", err)
	}
	adminToken, err := jwtService.GenerateAccessToken(2, "admin")
	if err != nil {
		t.Fatalf("GenerateAccessToken returned error: %v", err)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+userToken)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Errorf("user role: expected 403, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("admin role: expected 200, got %d", w.Code)
	}
}
