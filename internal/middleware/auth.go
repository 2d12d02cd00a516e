// Package middleware provides HTTP middleware for the shop API.
package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/barahweb/shop-api/internal/models"
	"github.com/barahweb/shop-api/internal/repository"
	"github.com/barahweb/shop-api/internal/service"
	"github.com/barahweb/shop-api/pkg/response"
	"github.com/gin-gonic/gin"
)

// authUserKey is the gin context key holding the authenticated user.
const authUserKey = "auth_user"

// Machine-readable error codes for token rejection.
const (
	CodeTokenExpired = "TOKEN_EXPIRED"
	CodeInvalidToken = "INVALID_TOKEN"
)

// ExtractBearerToken pulls the token out of an Authorization header.
// Returns "" when the header is absent or not a Bearer scheme.
func ExtractBearerToken(header string) string {
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
}

// Authenticate verifies the bearer token, reloads the identity and
// attaches a minimal view of it to the request context. The "not found"
// and "inactive" cases share one message so responses cannot be used to
// probe which accounts exist.
func Authenticate(jwtService service.JWTService, userRepo repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := ExtractBearerToken(c.GetHeader("Authorization"))
		if token == "" {
			response.Error(c, http.StatusUnauthorized, "Access token required")
			c.Abort()
			return
		}

		claims, err := jwtService.ValidateAccessToken(token)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrTokenExpired):
				response.ErrorCode(c, http.StatusUnauthorized, "Token expired", CodeTokenExpired)
			case errors.Is(err, service.ErrTokenMalformed):
				response.ErrorCode(c, http.StatusUnauthorized, "Invalid token", CodeInvalidToken)
			default:
				response.LogAndError(c, http.StatusInternalServerError, err, "Authentication failed")
			}
			c.Abort()
			return
		}

		user, err := userRepo.FindByID(c.Request.Context(), claims.UserID)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			response.LogAndError(c, http.StatusInternalServerError, err, "Authentication failed")
			c.Abort()
			return
		}
		if user == nil || !user.IsActive {
			response.Error(c, http.StatusUnauthorized, "User not found or inactive")
			c.Abort()
			return
		}

		c.Set(authUserKey, &models.AuthUser{
			ID:    user.ID,
			Email: user.Email,
			Role:  user.Role,
		})
		c.Next()
	}
}

// OptionalAuthenticate attaches the identity when a valid bearer token
// is present and continues silently otherwise. Used by endpoints that
// report authentication state instead of requiring it.
func OptionalAuthenticate(jwtService service.JWTService, userRepo repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := ExtractBearerToken(c.GetHeader("Authorization"))
		if token == "" {
			c.Next()
			return
		}

		claims, err := jwtService.ValidateAccessToken(token)
		if err != nil {
			c.Next()
			return
		}

		user, err := userRepo.FindByID(c.Request.Context(), claims.UserID)
		if err != nil || !user.IsActive {
			c.Next()
			return
		}

		c.Set(authUserKey, &models.AuthUser{
			ID:    user.ID,
			Email: user.Email,
			Role:  user.Role,
		})
		c.Next()
	}
}

// Authorize gates a route on role membership. Composed after
// Authenticate. The 403 body names the required roles and the caller's
// role for diagnosability.
func Authorize(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := GetAuthUser(c)
		if user == nil {
			response.Error(c, http.StatusUnauthorized, "Unauthorized")
			c.Abort()
			return
		}

		for _, role := range roles {
			if user.Role == role {
				c.Next()
				return
			}
		}

		c.JSON(http.StatusForbidden, gin.H{
			"success":       false,
			"error":         "Insufficient permissions",
			"requiredRoles": roles,
			"yourRole":      user.Role,
		})
		c.Abort()
	}
}

// GetAuthUser returns the identity attached by Authenticate, or nil.
func GetAuthUser(c *gin.Context) *models.AuthUser {
	if value, ok := c.Get(authUserKey); ok {
		if user, ok := value.(*models.AuthUser); ok {
			return user
		}
	}
	return nil
}
