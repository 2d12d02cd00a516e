package service

import (
	"context"
	"errors"
	"time"

	"github.com/barahweb/shop-api/internal/models"
	"github.com/barahweb/shop-api/internal/repository"
)

var (
	// ErrInvalidCredentials covers unknown email, inactive account and
	// wrong password alike, so responses never reveal which check failed.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrEmailTaken is returned when registering or updating to an email
	// that already belongs to another account.
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidRefreshToken is returned for malformed, revoked or
	// mismatched refresh tokens.
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	// ErrRefreshTokenExpired is returned when a refresh token's expiry
	// has passed.
	ErrRefreshTokenExpired = errors.New("refresh token expired")
	// ErrWrongPassword is returned when the current password check fails
	// during a password change.
	ErrWrongPassword = errors.New("current password is incorrect")
	// ErrUserNotFound is returned when an authenticated user's row has
	// vanished.
	ErrUserNotFound = errors.New("user not found")
)

// ValidationError reports a domain validation failure with a
// client-facing message. Maps to 400 at the handler boundary.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// RegisterInput carries the fields accepted on registration.
type RegisterInput struct {
	Email    string
	Password string
	Name     string
	Role     models.Role
}

// UpdateProfileInput carries the fields a user may change on their own
// profile. Nil means unchanged.
type UpdateProfileInput struct {
	Name  *string
	Email *string
}

// TokenPair is the credential set returned on login.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int64  `json:"expiresIn"`
}

// LoginResult bundles the authenticated user view with its tokens.
type LoginResult struct {
	User   models.UserView `json:"user"`
	Tokens TokenPair       `json:"tokens"`
}

// RefreshResult carries the newly issued access token.
type RefreshResult struct {
	AccessToken string `json:"accessToken"`
	ExpiresIn   int64  `json:"expiresIn"`
}

// AuthService coordinates the register/login/refresh/logout and profile
// flows. Each call is stateless; all state lives on the user row plus
// the bearer tokens the client holds.
type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*models.UserView, error)
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	Refresh(ctx context.Context, refreshToken string) (*RefreshResult, error)
	ChangePassword(ctx context.Context, userID int64, currentPassword, newPassword string) error
	Logout(ctx context.Context, userID int64) error
	UpdateProfile(ctx context.Context, userID int64, input UpdateProfileInput) (*models.UserView, error)
	GetProfile(ctx context.Context, userID int64) (*models.UserView, error)
}

type authService struct {
	userRepo   repository.UserRepository
	jwtService JWTService
	hasher     PasswordHasher
}

// NewAuthService creates a new AuthService instance.
func NewAuthService(userRepo repository.UserRepository, jwtService JWTService, hasher PasswordHasher) AuthService {
	return &authService{
		userRepo:   userRepo,
		jwtService: jwtService,
		hasher:     hasher,
	}
}

func (s *authService) Register(ctx context.Context, input RegisterInput) (*models.UserView, error) {
	if ok, reason := ValidatePasswordStrength(input.Password); !ok {
		return nil, &ValidationError{Message: reason}
	}

	role := input.Role
	if role == "" {
		role = models.RoleUser
	}
	if !role.Valid() {
		return nil, &ValidationError{Message: "Invalid role"}
	}

	_, err := s.userRepo.FindByEmail(ctx, input.Email)
	switch {
	case err == nil:
		return nil, ErrEmailTaken
	case !errors.Is(err, repository.ErrNotFound):
		return nil, err
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:        input.Email,
		PasswordHash: hash,
		Name:         input.Name,
		Role:         role,
		IsActive:     true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	view := user.View()
	return &view, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !user.IsActive {
		return nil, ErrInvalidCredentials
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	payload := TokenPayload{UserID: user.ID, Email: user.Email, Role: user.Role}

	accessToken, err := s.jwtService.GenerateAccessToken(payload)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.jwtService.GenerateRefreshToken(payload)
	if err != nil {
		return nil, err
	}

	// Overwriting the stored refresh token implicitly invalidates the
	// previous session; concurrent logins race last-write-wins.
	now := time.Now()
	err = s.userRepo.UpdateFields(ctx, user.ID, map[string]interface{}{
		"last_login_at": &now,
		"refresh_token": refreshToken,
	})
	if err != nil {
		return nil, err
	}

	user.LastLoginAt = &now
	return &LoginResult{
		User: user.View(),
		Tokens: TokenPair{
			AccessToken:  accessToken,
			RefreshToken: refreshToken,
			ExpiresIn:    int64(s.jwtService.AccessExpiry().Seconds()),
		},
	}, nil
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*RefreshResult, error) {
	claims, err := s.jwtService.ValidateRefreshToken(refreshToken)
	if err != nil {
		if errors.Is(err, ErrTokenExpired) {
			return nil, ErrRefreshTokenExpired
		}
		return nil, ErrInvalidRefreshToken
	}

	// The presented token must equal the stored one AND belong to the
	// subject it names.
	user, err := s.userRepo.FindByRefreshToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, err
	}
	if user.ID != claims.UserID {
		return nil, ErrInvalidRefreshToken
	}

	accessToken, err := s.jwtService.GenerateAccessToken(TokenPayload{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
	})
	if err != nil {
		return nil, err
	}

	return &RefreshResult{
		AccessToken: accessToken,
		ExpiresIn:   int64(s.jwtService.AccessExpiry().Seconds()),
	}, nil
}

func (s *authService) ChangePassword(ctx context.Context, userID int64, currentPassword, newPassword string) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if !s.hasher.Verify(currentPassword, user.PasswordHash) {
		return ErrWrongPassword
	}

	if ok, reason := ValidatePasswordStrength(newPassword); !ok {
		return &ValidationError{Message: reason}
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}

	// Clearing the refresh token forces re-login on other sessions.
	return s.userRepo.UpdateFields(ctx, userID, map[string]interface{}{
		"password_hash": hash,
		"refresh_token": nil,
	})
}

func (s *authService) Logout(ctx context.Context, userID int64) error {
	return s.userRepo.UpdateFields(ctx, userID, map[string]interface{}{
		"refresh_token": nil,
	})
}

func (s *authService) UpdateProfile(ctx context.Context, userID int64, input UpdateProfileInput) (*models.UserView, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	fields := map[string]interface{}{}
	if input.Name != nil {
		fields["name"] = *input.Name
	}
	if input.Email != nil && *input.Email != user.Email {
		existing, err := s.userRepo.FindByEmail(ctx, *input.Email)
		switch {
		case err == nil && existing.ID != userID:
			return nil, ErrEmailTaken
		case err != nil && !errors.Is(err, repository.ErrNotFound):
			return nil, err
		}
		fields["email"] = *input.Email
	}

	if len(fields) > 0 {
		if err := s.userRepo.UpdateFields(ctx, userID, fields); err != nil {
			return nil, err
		}
	}

	updated, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	view := updated.View()
	return &view, nil
}

func (s *authService) GetProfile(ctx context.Context, userID int64) (*models.UserView, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	view := user.View()
	return &view, nil
}
