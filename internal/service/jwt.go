package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/barahweb/shop-api/internal/models"
	"github.com/golang-jwt/jwt/v5"
)

// minSecretLength is the minimum length for a signing secret.
const minSecretLength = 32

var (
	// ErrTokenExpired is returned when a token's expiry has passed.
	ErrTokenExpired = errors.New("token expired")
	// ErrTokenMalformed is returned for any token that fails signature,
	// structure or algorithm checks.
	ErrTokenMalformed = errors.New("token malformed")
)

// TokenPayload is the identity data embedded in both access and refresh
// tokens. Immutable once minted.
type TokenPayload struct {
	UserID int64
	Email  string
	Role   models.Role
}

// Claims represents JWT token claims.
type Claims struct {
	UserID int64       `json:"user_id"`
	Email  string      `json:"email"`
	Role   models.Role `json:"role"`
	jwt.RegisteredClaims
}

// Payload extracts the token payload from verified claims.
func (c *Claims) Payload() TokenPayload {
	return TokenPayload{UserID: c.UserID, Email: c.Email, Role: c.Role}
}

// JWTService defines token issuance and verification.
//
// Access and refresh tokens are signed with distinct secrets and carry
// distinct lifetimes, so a refresh token never verifies as an access
// token and vice versa.
type JWTService interface {
	GenerateAccessToken(payload TokenPayload) (string, error)
	GenerateRefreshToken(payload TokenPayload) (string, error)
	ValidateAccessToken(tokenString string) (*Claims, error)
	ValidateRefreshToken(tokenString string) (*Claims, error)
	AccessExpiry() time.Duration
	RefreshExpiry() time.Duration
}

type jwtService struct {
	accessSecret  []byte
	refreshSecret []byte
	accessExpiry  time.Duration
	refreshExpiry time.Duration
}

// NewJWTService creates a new JWTService instance. Both secrets must be
// at least 32 characters.
func NewJWTService(accessSecret, refreshSecret string, accessExpiry, refreshExpiry time.Duration) (JWTService, error) {
	if len(accessSecret) < minSecretLength {
		return nil, fmt.Errorf("access secret must be at least %d characters", minSecretLength)
	}
	if len(refreshSecret) < minSecretLength {
		return nil, fmt.Errorf("refresh secret must be at least %d characters", minSecretLength)
	}
	if accessExpiry <= 0 || refreshExpiry <= 0 {
		return nil, errors.New("token expiries must be positive")
	}
	return &jwtService{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessExpiry:  accessExpiry,
		refreshExpiry: refreshExpiry,
	}, nil
}

func (s *jwtService) GenerateAccessToken(payload TokenPayload) (string, error) {
	return generateToken(payload, s.accessSecret, s.accessExpiry)
}

func (s *jwtService) GenerateRefreshToken(payload TokenPayload) (string, error) {
	return generateToken(payload, s.refreshSecret, s.refreshExpiry)
}

func (s *jwtService) ValidateAccessToken(tokenString string) (*Claims, error) {
	return validateToken(tokenString, s.accessSecret)
}

func (s *jwtService) ValidateRefreshToken(tokenString string) (*Claims, error) {
	return validateToken(tokenString, s.refreshSecret)
}

func (s *jwtService) AccessExpiry() time.Duration {
	return s.accessExpiry
}

func (s *jwtService) RefreshExpiry() time.Duration {
	return s.refreshExpiry
}

func generateToken(payload TokenPayload, secret []byte, expiry time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: payload.UserID,
		Email:  payload.Email,
		Role:   payload.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// validateToken verifies signature and expiry. Every failure collapses
// into ErrTokenExpired or ErrTokenMalformed so callers can branch
// without inspecting library internals.
func validateToken(tokenString string, secret []byte) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenMalformed
		}
		return secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenMalformed
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrTokenMalformed
	}
	return claims, nil
}
