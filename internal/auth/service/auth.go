package service

import (
	"context"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/google/uuid"
	"github.com/worklog/worklog-backend/internal/auth/jwt"
	"github.com/worklog/worklog-backend/internal/auth/repository"
	"github.com/worklog/worklog-backend/internal/identity/domain"
	"github.com/worklog/worklog-backend/pkg/errors"
	"github.com/worklog/worklog-backend/pkg/logger"
)

// ProfileDirectory resolves user accounts for authentication
type ProfileDirectory interface {
	GetByUsername(ctx context.Context, username string) (*domain.Profile, error)
	GetByID(ctx context.Context, id string) (*domain.Profile, error)
}

// generateSessionID generates a unique session ID
func generateSessionID() string {
	return uuid.New().String()
}

// AuthService handles authentication logic
type AuthService struct {
	sessions   *repository.SessionRepository
	profiles   ProfileDirectory
	jwtManager *jwt.Manager
	logger     *logger.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(sessions *repository.SessionRepository, profiles ProfileDirectory, jwtManager *jwt.Manager, log *logger.Logger) *AuthService {
	return &AuthService{
		sessions:   sessions,
		profiles:   profiles,
		jwtManager: jwtManager,
		logger:     log,
	}
}

// LoginRequest represents a login request
type LoginRequest struct {
	Username string `json:"username" validate:"required,min=3"`
	Password string `json:"password" validate:"required,min=6"`
}

// LoginResponse represents a login response
type LoginResponse struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
	TokenType    string    `json:"token_type"`
	User         *UserInfo `json:"user"`
}

// UserInfo represents the authenticated user's public information
type UserInfo struct {
	ID           string  `json:"id"`
	Username     string  `json:"username"`
	Role         string  `json:"role"`
	DepartmentID *string `json:"department_id"`
}

func userInfoFromProfile(p *domain.Profile) *UserInfo {
	return &UserInfo{
		ID:           p.ID,
		Username:     p.Username,
		Role:         p.Role,
		DepartmentID: p.DepartmentID,
	}
}

func tokenUserInfo(p *domain.Profile) *jwt.UserInfo {
	dept := ""
	if p.DepartmentID != nil {
		dept = *p.DepartmentID
	}
	return &jwt.UserInfo{
		ID:           p.ID,
		Username:     p.Username,
		Role:         p.Role,
		DepartmentID: dept,
	}
}

// Login authenticates a user and returns tokens
func (s *AuthService) Login(ctx context.Context, req *LoginRequest, userAgent, ipAddress string) (*LoginResponse, error) {
	profile, err := s.profiles.GetByUsername(ctx, req.Username)
	if err != nil {
		// Hash anyway to keep timing comparable for unknown usernames
		bcrypt.CompareHashAndPassword([]byte("$2a$10$invalidinvalidinvalidinvalidinvalidinvalidinvalidinva"), []byte(req.Password))
		return nil, errors.InvalidCredentials()
	}

	if err := bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(req.Password)); err != nil {
		return nil, errors.InvalidCredentials()
	}

	if !profile.IsActive {
		return nil, errors.Forbidden("account is deactivated")
	}

	sessionID := generateSessionID()
	tokens, err := s.jwtManager.GenerateTokenPair(tokenUserInfo(profile), sessionID)
	if err != nil {
		return nil, errors.Internal("failed to generate tokens")
	}

	expiresAt := time.Now().Add(s.jwtManager.GetRefreshExpiry())
	if _, err := s.sessions.CreateWithID(ctx, sessionID, profile.ID, tokens.RefreshToken, expiresAt, userAgent, ipAddress); err != nil {
		s.logger.Error().Err(err).Msg("failed to create session")
		return nil, errors.Internal("failed to create session")
	}

	s.logger.Info().
		Str("user_id", profile.ID).
		Str("username", profile.Username).
		Msg("user logged in")

	return &LoginResponse{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		ExpiresAt:    tokens.ExpiresAt,
		TokenType:    tokens.TokenType,
		User:         userInfoFromProfile(profile),
	}, nil
}

// Logout invalidates a session
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if err := s.sessions.RevokeByRefreshToken(ctx, refreshToken); err != nil {
		s.logger.Warn().Err(err).Msg("failed to revoke session")
	}
	return nil
}

// Refresh rotates the token pair using a valid refresh token
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*jwt.TokenPair, error) {
	claims, err := s.jwtManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}

	session, err := s.sessions.GetByRefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, errors.Unauthorized("invalid session")
	}

	if session.RevokedAt != nil {
		return nil, errors.Unauthorized("session revoked")
	}

	profile, err := s.profiles.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, errors.Unauthorized("unknown user")
	}
	if !profile.IsActive {
		return nil, errors.Forbidden("account is deactivated")
	}

	tokens, err := s.jwtManager.GenerateTokenPair(tokenUserInfo(profile), session.ID)
	if err != nil {
		return nil, errors.Internal("failed to generate tokens")
	}

	if err := s.sessions.UpdateRefreshTokenHash(ctx, session.ID, tokens.RefreshToken); err != nil {
		s.logger.Error().Err(err).Msg("failed to rotate refresh token")
		return nil, errors.Internal("failed to refresh session")
	}

	return tokens, nil
}

// GetCurrentUser returns the authenticated user's profile information
func (s *AuthService) GetCurrentUser(ctx context.Context, userID string) (*UserInfo, error) {
	profile, err := s.profiles.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return userInfoFromProfile(profile), nil
}
