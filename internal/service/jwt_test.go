package service

import (
	"errors"
	"testing"
	"time"

	"github.com/projecthub/projecthub/config"
	apperrors "github.com/projecthub/projecthub/internal/errors"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		AccessSecret:  "test-access-secret",
		RefreshSecret: "test-refresh-secret",
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    7 * 24 * time.Hour,
	}
}

func TestAccessTokenRoundTrip(t *testing.T) {
	svc := NewJWTService(testJWTConfig())

	token, err := svc.GenerateAccessToken(42, "admin")
	if err != nil {
		t.Fatalf("GenerateAccessToken returned error: %v", err)
	}

	claims, err := svc.ValidateAccessToken(token)
	if err != nil {
		t.Fatalf("ValidateAccessToken returned error: %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("expected user_id 42, got %d", claims.UserID)
	}
	if claims.Role != "admin" {
		t.Errorf("expected role admin, got %q", claims.Role)
	}
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	svc := NewJWTService(testJWTConfig())

	token, err := svc.GenerateRefreshToken(7)
	if err != nil {
		t.Fatalf("GenerateRefreshToken returned error: %v", err)
	}

	claims, err := svc.ValidateRefreshToken(token)
	if err != nil {
		t.Fatalf("ValidateRefreshToken returned error: %v", err)
	}
	if claims.UserID != 7 {
		t.Errorf("expected user_id 7, got %d", claims.UserID)
	}
	if claims.Role != "" {
		t.Errorf("refresh token must carry no role, got %q", claims.Role)
	}
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	svc := NewJWTService(testJWTConfig())
	other := NewJWTService(config.JWTConfig{
		AccessSecret:  "a-different-secret",
		RefreshSecret: "another-different-secret",
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    7 * 24 * time.Hour,
	})

	token, err := svc.GenerateAccessToken(1, "user")
	if err != nil {
		t.Fatalf("GenerateAccessToken returned error: %v", err)
	}

	if _, err := other.ValidateAccessToken(token); !errors.Is(err, apperrors.ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}

func TestAccessTokenRejectedByRefreshValidator(t *testing.T) {
	svc := NewJWTService(testJWTConfig())

	accessToken, err := svc.GenerateAccessToken(1, "user")
	if err != nil {
		t.Fatalf("GenerateAccessToken returned error: %v", err)
	}

	// the two token kinds are signed with distinct secrets
	if _, err := svc.ValidateRefreshToken(accessToken); !errors.Is(err, apperrors.ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
	refreshToken, err := svc.GenerateRefreshToken(1)
	if err != nil {
		t.Fatalf("GenerateRefreshToken returned error: %v", err)
	}
	if _, err := svc.ValidateAccessToken(refreshToken); !errors.Is(err, apperrors.ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}

func TestValidateRejectsExpiredToken(t *testing.T) {
	cfg := testJWTConfig()
	cfg.AccessTTL = -1 * time.Minute
	svc := NewJWTService(cfg)

	token, err := svc.GenerateAccessToken(1, "user")
	if err != nil {
		t.Fatalf("GenerateAccessToken returned error: %v", err)
	}

	if _, err := svc.ValidateAccessToken(token); !errors.Is(err, apperrors.ErrTokenExpired) {
		t.Errorf("expected ErrTokenExpired, got %v", err)
	}
}

func TestValidateRejectsGarbage(t *testing.T) {
	svc := NewJWTService(testJWTConfig())

	for _, tokenString := range []string{"", "not.a.token", "aaaa.bbbb.cccc"} {
		if _, err := svc.ValidateAccessToken(tokenString); !errors.Is(err, apperrors.ErrInvalidToken) {
			t.Errorf("token %q: expected ErrInvalidToken, got %v", tokenString, err)
		}
	}
}
