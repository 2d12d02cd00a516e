package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/barahweb/shop-api/internal/metrics"
	"github.com/barahweb/shop-api/internal/models"
	"github.com/barahweb/shop-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

// =============================================================================
// Mock AuthService
// =============================================================================

type mockAuthService struct {
	registerFunc       func(ctx context.Context, input service.RegisterInput) (*models.UserView, error)
	loginFunc          func(ctx context.Context, email, password string) (*service.LoginResult, error)
	refreshFunc        func(ctx context.Context, refreshToken string) (*service.RefreshResult, error)
	changePasswordFunc func(ctx context.Context, userID int64, currentPassword, newPassword string) error
	logoutFunc         func(ctx context.Context, userID int64) error
	updateProfileFunc  func(ctx context.Context, userID int64, input service.UpdateProfileInput) (*models.UserView, error)
	getProfileFunc     func(ctx context.Context, userID int64) (*models.UserView, error)
}

func (m *mockAuthService) Register(ctx context.Context, input service.RegisterInput) (*models.UserView, error) {
	if m.registerFunc != nil {
		return m.registerFunc(ctx, input)
	}
	return nil, errors.New("not implemented")
}

func (m *mockAuthService) Login(ctx context.Context, email, password string) (*service.LoginResult, error) {
	if m.loginFunc != nil {
		return m.loginFunc(ctx, email, password)
	}
	return nil, errors.New("not implemented")
}

func (m *mockAuthService) Refresh(ctx context.Context, refreshToken string) (*service.RefreshResult, error) {
	if m.refreshFunc != nil {
		return m.refreshFunc(ctx, refreshToken)
	}
	return nil, errors.New("not implemented")
}

func (m *mockAuthService) ChangePassword(ctx context.Context, userID int64, currentPassword, newPassword string) error {
	if m.changePasswordFunc != nil {
		return m.changePasswordFunc(ctx, userID, currentPassword, newPassword)
	}
	return errors.New("not implemented")
}

func (m *mockAuthService) Logout(ctx context.Context, userID int64) error {
	if m.logoutFunc != nil {
		return m.logoutFunc(ctx, userID)
	}
	return errors.New("not implemented")
}

func (m *mockAuthService) UpdateProfile(ctx context.Context, userID int64, input service.UpdateProfileInput) (*models.UserView, error) {
	if m.updateProfileFunc != nil {
		return m.updateProfileFunc(ctx, userID, input)
	}
	return nil, errors.New("not implemented")
}

func (m *mockAuthService) GetProfile(ctx context.Context, userID int64) (*models.UserView, error) {
	if m.getProfileFunc != nil {
		return m.getProfileFunc(ctx, userID)
	}
	return nil, errors.New("not implemented")
}

// =============================================================================
// Test Helpers
// =============================================================================

func newTestAuthHandler() (*AuthHandler, *mockAuthService) {
	mock := &mockAuthService{}
	m := metrics.New(prometheus.NewRegistry())
	return NewAuthHandler(mock, m), mock
}

// withAuthUser simulates the identity the auth middleware attaches.
func withAuthUser(user *models.AuthUser) gin.HandlerFunc {
	return func(c *gin.Context) {
		if user != nil {
			c.Set("auth_user", user)
		}
		c.Next()
	}
}

func performJSON(router *gin.Engine, method, path string, payload interface{}) *httptest.ResponseRecorder {
	var body bytes.Buffer
	if payload != nil {
		json.NewEncoder(&body).Encode(payload)
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func parseBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode body %q: %v", w.Body.String(), err)
	}
	return body
}

func sampleView() *models.UserView {
	return &models.UserView{
		ID:    1,
		Email: "a@b.com",
		Name:  "Ann",
		Role:  models.RoleUser,
	}
}

// =============================================================================
// Register Tests
// =============================================================================

func TestAuthHandlerRegister(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, mock := newTestAuthHandler()
	router := gin.New()
	router.POST("/api/auth/register", handler.Register)

	mock.registerFunc = func(ctx context.Context, input service.RegisterInput) (*models.UserView, error) {
		if input.Email != "a@b.com" || input.Role != models.RoleUser {
			t.Errorf("Register input = %+v", input)
		}
		return sampleView(), nil
	}

	w := performJSON(router, http.MethodPost, "/api/auth/register", gin.H{
		"email":    "a@b.com",
		"password": "Abc12345!",
		"name":     "Ann",
		"role":     "user",
	})

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	body := parseBody(t, w)
	if body["message"] != "Registration successful" {
		t.Errorf("message = %v", body["message"])
	}
}

func TestAuthHandlerRegister_Errors(t *testing.T) {
	tests := []struct {
		name       string
		payload    gin.H
		serviceErr error
		wantStatus int
		wantError  string
	}{
		{
			name:       "missing email",
			payload:    gin.H{"password": "Abc12345!", "name": "Ann"},
			wantStatus: http.StatusBadRequest,
			wantError:  "Validation failed",
		},
		{
			name:       "invalid email format",
			payload:    gin.H{"email": "nope", "password": "Abc12345!", "name": "Ann"},
			wantStatus: http.StatusBadRequest,
			wantError:  "Validation failed",
		},
		{
			name:       "name too short",
			payload:    gin.H{"email": "a@b.com", "password": "Abc12345!", "name": "A"},
			wantStatus: http.StatusBadRequest,
			wantError:  "Validation failed",
		},
		{
			name:       "weak password",
			payload:    gin.H{"email": "a@b.com", "password": "weakpass", "name": "Ann"},
			serviceErr: &service.ValidationError{Message: "Password must contain at least one uppercase letter"},
			wantStatus: http.StatusBadRequest,
			wantError:  "Password must contain at least one uppercase letter",
		},
		{
			name:       "email taken",
			payload:    gin.H{"email": "a@b.com", "password": "Abc12345!", "name": "Ann"},
			serviceErr: service.ErrEmailTaken,
			wantStatus: http.StatusConflict,
			wantError:  "Email already registered",
		},
		{
			name:       "service failure",
			payload:    gin.H{"email": "a@b.com", "password": "Abc12345!", "name": "Ann"},
			serviceErr: errors.New("db down"),
			wantStatus: http.StatusInternalServerError,
			wantError:  "Internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gin.SetMode(gin.TestMode)
			handler, mock := newTestAuthHandler()
			router := gin.New()
			router.POST("/api/auth/register", handler.Register)

			mock.registerFunc = func(ctx context.Context, input service.RegisterInput) (*models.UserView, error) {
				return nil, tt.serviceErr
			}

			w := performJSON(router, http.MethodPost, "/api/auth/register", tt.payload)
			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d, body = %s", w.Code, tt.wantStatus, w.Body.String())
			}
			body := parseBody(t, w)
			if body["error"] != tt.wantError {
				t.Errorf("error = %v, want %q", body["error"], tt.wantError)
			}
		})
	}
}

// =============================================================================
// Login Tests
// =============================================================================

func TestAuthHandlerLogin(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, mock := newTestAuthHandler()
	router := gin.New()
	router.POST("/api/auth/login", handler.Login)

	mock.loginFunc = func(ctx context.Context, email, password string) (*service.LoginResult, error) {
		return &service.LoginResult{
			User: *sampleView(),
			Tokens: service.TokenPair{
				AccessToken:  "access",
				RefreshToken: "refresh",
				ExpiresIn:    900,
			},
		}, nil
	}

	w := performJSON(router, http.MethodPost, "/api/auth/login", gin.H{
		"email":    "a@b.com",
		"password": "Abc12345!",
	})

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	body := parseBody(t, w)
	if body["message"] != "Login successful" {
		t.Errorf("message = %v", body["message"])
	}

	data := body["data"].(map[string]interface{})
	tokens := data["tokens"].(map[string]interface{})
	if tokens["accessToken"] != "access" || tokens["refreshToken"] != "refresh" {
		t.Errorf("tokens = %v", tokens)
	}
	if tokens["expiresIn"] != float64(900) {
		t.Errorf("expiresIn = %v", tokens["expiresIn"])
	}
}

func TestAuthHandlerLogin_InvalidCredentials(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, mock := newTestAuthHandler()
	router := gin.New()
	router.POST("/api/auth/login", handler.Login)

	mock.loginFunc = func(ctx context.Context, email, password string) (*service.LoginResult, error) {
		return nil, service.ErrInvalidCredentials
	}

	w := performJSON(router, http.MethodPost, "/api/auth/login", gin.H{
		"email":    "a@b.com",
		"password": "Wrong999!",
	})

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
	body := parseBody(t, w)
	if body["error"] != "Invalid email or password" {
		t.Errorf("error = %v", body["error"])
	}
}

// =============================================================================
// RefreshToken Tests
// =============================================================================

func TestAuthHandlerRefreshToken(t *testing.T) {
	tests := []struct {
		name       string
		payload    interface{}
		serviceErr error
		wantStatus int
		wantError  string
	}{
		{
			name:       "success",
			payload:    gin.H{"refreshToken": "token"},
			wantStatus: http.StatusOK,
		},
		{
			name:       "missing token",
			payload:    gin.H{},
			wantStatus: http.StatusBadRequest,
			wantError:  "Refresh token is required",
		},
		{
			name:       "empty token",
			payload:    gin.H{"refreshToken": ""},
			wantStatus: http.StatusBadRequest,
			wantError:  "Refresh token is required",
		},
		{
			name:       "expired",
			payload:    gin.H{"refreshToken": "token"},
			serviceErr: service.ErrRefreshTokenExpired,
			wantStatus: http.StatusUnauthorized,
			wantError:  "Refresh token expired",
		},
		{
			name:       "invalid",
			payload:    gin.H{"refreshToken": "token"},
			serviceErr: service.ErrInvalidRefreshToken,
			wantStatus: http.StatusUnauthorized,
			wantError:  "Invalid refresh token",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gin.SetMode(gin.TestMode)
			handler, mock := newTestAuthHandler()
			router := gin.New()
			router.POST("/api/auth/refresh-token", handler.RefreshToken)

			mock.refreshFunc = func(ctx context.Context, refreshToken string) (*service.RefreshResult, error) {
				if tt.serviceErr != nil {
					return nil, tt.serviceErr
				}
				return &service.RefreshResult{AccessToken: "new-access", ExpiresIn: 900}, nil
			}

			w := performJSON(router, http.MethodPost, "/api/auth/refresh-token", tt.payload)
			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d, body = %s", w.Code, tt.wantStatus, w.Body.String())
			}
			if tt.wantError != "" {
				body := parseBody(t, w)
				if body["error"] != tt.wantError {
					t.Errorf("error = %v, want %q", body["error"], tt.wantError)
				}
			}
		})
	}
}

// =============================================================================
// CheckAuth Tests
// =============================================================================

func TestAuthHandlerCheckAuth(t *testing.T) {
	tests := []struct {
		name       string
		user       *models.AuthUser
		profileErr error
		wantStatus int
		wantAuthed bool
	}{
		{
			name:       "authenticated",
			user:       &models.AuthUser{ID: 1, Email: "a@b.com", Role: models.RoleUser},
			wantStatus: http.StatusOK,
			wantAuthed: true,
		},
		{
			name:       "anonymous",
			wantStatus: http.StatusUnauthorized,
			wantAuthed: false,
		},
		{
			name:       "user vanished",
			user:       &models.AuthUser{ID: 1, Email: "a@b.com", Role: models.RoleUser},
			profileErr: service.ErrUserNotFound,
			wantStatus: http.StatusUnauthorized,
			wantAuthed: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gin.SetMode(gin.TestMode)
			handler, mock := newTestAuthHandler()
			router := gin.New()
			router.GET("/api/auth/check", withAuthUser(tt.user), handler.CheckAuth)

			mock.getProfileFunc = func(ctx context.Context, userID int64) (*models.UserView, error) {
				if tt.profileErr != nil {
					return nil, tt.profileErr
				}
				return sampleView(), nil
			}

			w := performJSON(router, http.MethodGet, "/api/auth/check", nil)
			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			body := parseBody(t, w)
			if body["authenticated"] != tt.wantAuthed {
				t.Errorf("authenticated = %v, want %v", body["authenticated"], tt.wantAuthed)
			}
		})
	}
}

// =============================================================================
// Profile Tests
// =============================================================================

func TestAuthHandlerGetProfile(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, mock := newTestAuthHandler()
	router := gin.New()
	user := &models.AuthUser{ID: 1, Email: "a@b.com", Role: models.RoleUser}
	router.GET("/api/auth/profile", withAuthUser(user), handler.GetProfile)

	mock.getProfileFunc = func(ctx context.Context, userID int64) (*models.UserView, error) {
		if userID != 1 {
			t.Errorf("userID = %d", userID)
		}
		return sampleView(), nil
	}

	w := performJSON(router, http.MethodGet, "/api/auth/profile", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	data := parseBody(t, w)["data"].(map[string]interface{})
	if data["email"] != "a@b.com" {
		t.Errorf("data = %v", data)
	}
}

func TestAuthHandlerGetProfile_Anonymous(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, _ := newTestAuthHandler()
	router := gin.New()
	router.GET("/api/auth/profile", handler.GetProfile)

	w := performJSON(router, http.MethodGet, "/api/auth/profile", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestAuthHandlerUpdateProfile(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, mock := newTestAuthHandler()
	router := gin.New()
	user := &models.AuthUser{ID: 1, Email: "a@b.com", Role: models.RoleUser}
	router.PUT("/api/auth/profile", withAuthUser(user), handler.UpdateProfile)

	mock.updateProfileFunc = func(ctx context.Context, userID int64, input service.UpdateProfileInput) (*models.UserView, error) {
		if input.Name == nil || *input.Name != "Annette" {
			t.Errorf("input = %+v", input)
		}
		if input.Email != nil {
			t.Error("email should be nil when omitted")
		}
		view := sampleView()
		view.Name = "Annette"
		return view, nil
	}

	w := performJSON(router, http.MethodPut, "/api/auth/profile", gin.H{"name": "Annette"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	body := parseBody(t, w)
	if body["message"] != "Profile updated successfully" {
		t.Errorf("message = %v", body["message"])
	}
}

func TestAuthHandlerUpdateProfile_EmailTaken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, mock := newTestAuthHandler()
	router := gin.New()
	user := &models.AuthUser{ID: 1, Email: "a@b.com", Role: models.RoleUser}
	router.PUT("/api/auth/profile", withAuthUser(user), handler.UpdateProfile)

	mock.updateProfileFunc = func(ctx context.Context, userID int64, input service.UpdateProfileInput) (*models.UserView, error) {
		return nil, service.ErrEmailTaken
	}

	w := performJSON(router, http.MethodPut, "/api/auth/profile", gin.H{"email": "taken@b.com"})
	if w.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", w.Code)
	}
	if body := parseBody(t, w); body["error"] != "Email already in use" {
		t.Errorf("error = %v", body["error"])
	}
}

// =============================================================================
// ChangePassword Tests
// =============================================================================

func TestAuthHandlerChangePassword(t *testing.T) {
	tests := []struct {
		name       string
		payload    gin.H
		serviceErr error
		wantStatus int
		wantError  string
	}{
		{
			name:       "success",
			payload:    gin.H{"currentPassword": "Abc12345!", "newPassword": "Newpass1!"},
			wantStatus: http.StatusOK,
		},
		{
			name:       "missing fields",
			payload:    gin.H{"currentPassword": "Abc12345!"},
			wantStatus: http.StatusBadRequest,
			wantError:  "Validation failed",
		},
		{
			name:       "wrong current password",
			payload:    gin.H{"currentPassword": "Wrong999!", "newPassword": "Newpass1!"},
			serviceErr: service.ErrWrongPassword,
			wantStatus: http.StatusUnauthorized,
			wantError:  "Current password is incorrect",
		},
		{
			name:       "weak new password",
			payload:    gin.H{"currentPassword": "Abc12345!", "newPassword": "weak1234"},
			serviceErr: &service.ValidationError{Message: "Password must contain at least one uppercase letter"},
			wantStatus: http.StatusBadRequest,
			wantError:  "Password must contain at least one uppercase letter",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gin.SetMode(gin.TestMode)
			handler, mock := newTestAuthHandler()
			router := gin.New()
			user := &models.AuthUser{ID: 1, Email: "a@b.com", Role: models.RoleUser}
			router.POST("/api/auth/change-password", withAuthUser(user), handler.ChangePassword)

			mock.changePasswordFunc = func(ctx context.Context, userID int64, currentPassword, newPassword string) error {
				return tt.serviceErr
			}

			w := performJSON(router, http.MethodPost, "/api/auth/change-password", tt.payload)
			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d, body = %s", w.Code, tt.wantStatus, w.Body.String())
			}
			body := parseBody(t, w)
			if tt.wantError != "" && body["error"] != tt.wantError {
				t.Errorf("error = %v, want %q", body["error"], tt.wantError)
			}
			if tt.wantError == "" && body["message"] != "Password changed successfully" {
				t.Errorf("message = %v", body["message"])
			}
		})
	}
}

// =============================================================================
// Logout Tests
// =============================================================================

func TestAuthHandlerLogout(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, mock := newTestAuthHandler()
	router := gin.New()
	user := &models.AuthUser{ID: 1, Email: "a@b.com", Role: models.RoleUser}
	router.POST("/api/auth/logout", withAuthUser(user), handler.Logout)

	var loggedOut int64
	mock.logoutFunc = func(ctx context.Context, userID int64) error {
		loggedOut = userID
		return nil
	}

	w := performJSON(router, http.MethodPost, "/api/auth/logout", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if loggedOut != 1 {
		t.Errorf("logout called for user %d, want 1", loggedOut)
	}
	if body := parseBody(t, w); body["message"] != "Logged out successfully" {
		t.Errorf("message = %v", body["message"])
	}
}
