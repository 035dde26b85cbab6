package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/projecthub/projecthub/config"
	apperrors "github.com/projecthub/projecthub/internal/errors"
)

// TokenClaims is the verified identity extracted from a token
type TokenClaims struct {
	UserID uint
	Role   string
}

// JWTService issues and validates the access/refresh token pair. The two
// token kinds use distinct secrets and TTLs; refresh tokens carry no role
// claim since authorization is re-derived on refresh.
type JWTService struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewJWTService(cfg config.JWTConfig) *JWTService {
	return &JWTService{
		accessSecret:  []byte(cfg.AccessSecret),
		refreshSecret: []byte(cfg.RefreshSecret),
		accessTTL:     cfg.AccessTTL,
		refreshTTL:    cfg.RefreshTTL,
	}
}

// AccessTTL returns the configured access token lifetime
func (s *JWTService) AccessTTL() time.Duration {
	return s.accessTTL
}

// RefreshTTL returns the configured refresh token lifetime
func (s *JWTService) RefreshTTL() time.Duration {
	return s.refreshTTL
}

// GenerateAccessToken creates a short-lived signed access token
func (s *JWTService) GenerateAccessToken(userID uint, role string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id": userID,
		"role":    role,
		"iat":     now.Unix(),
		"exp":     now.Add(s.accessTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.accessSecret)
}

// GenerateRefreshToken creates a long-lived signed refresh token
func (s *JWTService) GenerateRefreshToken(userID uint) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id": userID,
		"iat":     now.Unix(),
		"exp":     now.Add(s.refreshTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.refreshSecret)
}

// ValidateAccessToken verifies signature and expiry of an access token
func (s *JWTService) ValidateAccessToken(tokenString string) (*TokenClaims, error) {
	return s.validate(tokenString, s.accessSecret)
}

// ValidateRefreshToken verifies signature and expiry of a refresh token
func (s *JWTService) ValidateRefreshToken(tokenString string) (*TokenClaims, error) {
	return s.validate(tokenString, s.refreshSecret)
}

func (s *JWTService) validate(tokenString string, secret []byte) (*TokenClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperrors.ErrTokenExpired
		}
		return nil, apperrors.WrapError(apperrors.ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, apperrors.ErrInvalidToken
	}

	userIDFloat, ok := claims["user_id"].(float64)
	if !ok {
		return nil, apperrors.ErrInvalidToken
	}

	result := &TokenClaims{UserID: uint(userIDFloat)}
	if role, ok := claims["role"].(string); ok {
		result.Role = role
	}

	return result, nil
}
