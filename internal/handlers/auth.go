// Package handlers contains HTTP request handlers for the shop API.
package handlers

import (
	"errors"
	"net/http"

	"github.com/barahweb/shop-api/internal/metrics"
	"github.com/barahweb/shop-api/internal/middleware"
	"github.com/barahweb/shop-api/internal/models"
	"github.com/barahweb/shop-api/internal/service"
	"github.com/barahweb/shop-api/pkg/response"
	"github.com/gin-gonic/gin"
)

// AuthHandler handles authentication HTTP requests.
type AuthHandler struct {
	authService service.AuthService
	metrics     *metrics.Metrics
}

// NewAuthHandler creates a new AuthHandler instance.
func NewAuthHandler(authService service.AuthService, m *metrics.Metrics) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		metrics:     m,
	}
}

// RegisterRequest represents the registration request payload.
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,max=100"`
	Name     string `json:"name" binding:"required,min=2,max=100"`
	Role     string `json:"role"`
}

// LoginRequest represents the login request payload.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest represents the token refresh request payload.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// ChangePasswordRequest represents the password change request payload.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required"`
}

// UpdateProfileRequest represents the profile update request payload.
type UpdateProfileRequest struct {
	Name  *string `json:"name" binding:"omitempty,min=2,max=100"`
	Email *string `json:"email" binding:"omitempty,email"`
}

// Register godoc
// @Summary Register a new user
// @Description Create an account with the default user role
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Registration data"
// @Success 201 {object} response.Body
// @Failure 400 {object} response.Body
// @Failure 409 {object} response.Body
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorDetails(c, http.StatusBadRequest, "Validation failed", err.Error())
		return
	}

	view, err := h.authService.Register(c.Request.Context(), service.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		Role:     models.Role(req.Role),
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Body{
		Success: true,
		Message: "Registration successful",
		Data:    view,
	})
}

// Login godoc
// @Summary User login
// @Description Authenticate and receive access and refresh tokens
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} response.Body
// @Failure 400 {object} response.Body
// @Failure 401 {object} response.Body
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorDetails(c, http.StatusBadRequest, "Validation failed", err.Error())
		return
	}

	result, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.metrics.RecordLogin("failure")
		h.respondError(c, err)
		return
	}

	h.metrics.RecordLogin("success")
	c.JSON(http.StatusOK, response.Body{
		Success: true,
		Message: "Login successful",
		Data:    result,
	})
}

// RefreshToken godoc
// @Summary Refresh access token
// @Description Exchange a refresh token for a new access token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RefreshRequest true "Refresh token"
// @Success 200 {object} response.Body
// @Failure 400 {object} response.Body
// @Failure 401 {object} response.Body
// @Router /auth/refresh-token [post]
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.RefreshToken == "" {
		response.Error(c, http.StatusBadRequest, "Refresh token is required")
		return
	}

	result, err := h.authService.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		h.respondError(c, err)
		return
	}

	response.Data(c, http.StatusOK, result)
}

// CheckAuth godoc
// @Summary Check authentication status
// @Description Report whether the caller holds a valid access token
// @Tags auth
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Router /auth/check [get]
func (h *AuthHandler) CheckAuth(c *gin.Context) {
	user := middleware.GetAuthUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success":       false,
			"authenticated": false,
		})
		return
	}

	view, err := h.authService.GetProfile(c.Request.Context(), user.ID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success":       false,
			"authenticated": false,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"authenticated": true,
		"user": gin.H{
			"id":    view.ID,
			"email": view.Email,
			"name":  view.Name,
			"role":  view.Role,
		},
	})
}

// GetProfile godoc
// @Summary Get current user profile
// @Tags auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Body
// @Failure 401 {object} response.Body
// @Failure 404 {object} response.Body
// @Router /auth/profile [get]
func (h *AuthHandler) GetProfile(c *gin.Context) {
	user := middleware.GetAuthUser(c)
	if user == nil {
		response.Error(c, http.StatusUnauthorized, "Not authenticated")
		return
	}

	view, err := h.authService.GetProfile(c.Request.Context(), user.ID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	response.Data(c, http.StatusOK, view)
}

// UpdateProfile godoc
// @Summary Update current user profile
// @Description Change name and/or email
// @Tags auth
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body UpdateProfileRequest true "Profile fields"
// @Success 200 {object} response.Body
// @Failure 400 {object} response.Body
// @Failure 401 {object} response.Body
// @Failure 409 {object} response.Body
// @Router /auth/profile [put]
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	user := middleware.GetAuthUser(c)
	if user == nil {
		response.Error(c, http.StatusUnauthorized, "Not authenticated")
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorDetails(c, http.StatusBadRequest, "Validation failed", err.Error())
		return
	}

	view, err := h.authService.UpdateProfile(c.Request.Context(), user.ID, service.UpdateProfileInput{
		Name:  req.Name,
		Email: req.Email,
	})
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			response.Error(c, http.StatusConflict, "Email already in use")
			return
		}
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Body{
		Success: true,
		Message: "Profile updated successfully",
		Data:    view,
	})
}

// ChangePassword godoc
// @Summary Change password
// @Description Verify the current password and set a new one; other sessions are logged out
// @Tags auth
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body ChangePasswordRequest true "Passwords"
// @Success 200 {object} response.Body
// @Failure 400 {object} response.Body
// @Failure 401 {object} response.Body
// @Router /auth/change-password [post]
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	user := middleware.GetAuthUser(c)
	if user == nil {
		response.Error(c, http.StatusUnauthorized, "Not authenticated")
		return
	}

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorDetails(c, http.StatusBadRequest, "Validation failed", err.Error())
		return
	}

	err := h.authService.ChangePassword(c.Request.Context(), user.ID, req.CurrentPassword, req.NewPassword)
	if err != nil {
		h.respondError(c, err)
		return
	}

	response.Message(c, http.StatusOK, "Password changed successfully")
}

// Logout godoc
// @Summary User logout
// @Description Clear the stored refresh token; idempotent
// @Tags auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Body
// @Failure 401 {object} response.Body
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	user := middleware.GetAuthUser(c)
	if user == nil {
		response.Error(c, http.StatusUnauthorized, "Not authenticated")
		return
	}

	if err := h.authService.Logout(c.Request.Context(), user.ID); err != nil {
		response.LogAndError(c, http.StatusInternalServerError, err, "Logout failed")
		return
	}

	response.Message(c, http.StatusOK, "Logged out successfully")
}

// AdminUsers godoc
// @Summary Admin probe endpoint
// @Tags auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Body
// @Failure 403 {object} map[string]interface{}
// @Router /auth/admin/users [get]
func (h *AuthHandler) AdminUsers(c *gin.Context) {
	response.Message(c, http.StatusOK, "Admin access granted")
}

// respondError maps service errors onto the API error taxonomy.
func (h *AuthHandler) respondError(c *gin.Context, err error) {
	var ve *service.ValidationError
	switch {
	case errors.As(err, &ve):
		response.Error(c, http.StatusBadRequest, ve.Message)
	case errors.Is(err, service.ErrEmailTaken):
		response.Error(c, http.StatusConflict, "Email already registered")
	case errors.Is(err, service.ErrInvalidCredentials):
		response.Error(c, http.StatusUnauthorized, "Invalid email or password")
	case errors.Is(err, service.ErrRefreshTokenExpired):
		response.Error(c, http.StatusUnauthorized, "Refresh token expired")
	case errors.Is(err, service.ErrInvalidRefreshToken):
		response.Error(c, http.StatusUnauthorized, "Invalid refresh token")
	case errors.Is(err, service.ErrWrongPassword):
		response.Error(c, http.StatusUnauthorized, "Current password is incorrect")
	case errors.Is(err, service.ErrUserNotFound):
		response.Error(c, http.StatusNotFound, "User not found")
	default:
		response.LogAndError(c, http.StatusInternalServerError, err, "Internal server error")
	}
}
