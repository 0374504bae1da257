package auth

import (
	"context"
	"errors"
	"log/slog"

	"github.com/frahmantamala/recruitment/internal"
	"github.com/frahmantamala/recruitment/internal/core/user"
	"golang.org/x/crypto/bcrypt"
)

// Service is the main auth service with dependencies
type Service struct {
	repo           RepositoryAPI
	tokenGenerator TokenGenerator
	logger         *slog.Logger
}

// NewService creates a new auth service
func NewService(repo RepositoryAPI, tokenGen TokenGenerator, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:           repo,
		tokenGenerator: tokenGen,
		logger:         logger,
	}
}

// Authenticate validates credentials and returns tokens
func (s *Service) Authenticate(ctx context.Context, dto LoginDTO) (AuthTokens, error) {
	if err := dto.Validate(); err != nil {
		return AuthTokens{}, err
	}

	u, err := s.repo.GetByUsername(ctx, dto.Username)
	if err != nil {
		if errors.Is(err, internal.ErrUserNotFound) {
			return AuthTokens{}, internal.ErrInvalidCredentials
		}
		s.logger.Error("Authenticate: failed to load user", "username", dto.Username, "error", err)
		return AuthTokens{}, internal.NewInternalError("Failed to authenticate", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(dto.Password)); err != nil {
		s.logger.Warn("Authenticate: password mismatch", "username", dto.Username)
		return AuthTokens{}, internal.ErrInvalidCredentials
	}

	if !u.IsActive {
		return AuthTokens{}, internal.ErrUserInactive
	}

	return s.issue(u.Username)
}

// RefreshTokens validates refresh token and returns new tokens
func (s *Service) RefreshTokens(ctx context.Context, refreshToken string) (AuthTokens, error) {
	claims, err := s.tokenGenerator.ValidateRefreshToken(refreshToken)
	if err != nil {
		return AuthTokens{}, err
	}

	// the account may have been disabled since the refresh token was issued
	if _, err := s.ResolveActor(ctx, claims.Username); err != nil {
		return AuthTokens{}, err
	}

	return s.issue(claims.Username)
}

// ValidateAccessToken validates access token and returns claims
func (s *Service) ValidateAccessToken(tokenString string) (*Claims, error) {
	return s.tokenGenerator.ValidateAccessToken(tokenString)
}

// ResolveActor maps a principal onto the caller's current identity and role.
func (s *Service) ResolveActor(ctx context.Context, username string) (user.Actor, error) {
	u, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, internal.ErrUserNotFound) {
			return user.Actor{}, internal.ErrInvalidToken
		}
		s.logger.Error("ResolveActor: failed to load user", "username", username, "error", err)
		return user.Actor{}, internal.NewInternalError("Failed to resolve identity", err)
	}
	if !u.IsActive {
		return user.Actor{}, internal.ErrUserInactive
	}
	return user.NewActor(u), nil
}

func (s *Service) issue(username string) (AuthTokens, error) {
	accessToken, err := s.tokenGenerator.GenerateAccessToken(username)
	if err != nil {
		return AuthTokens{}, internal.NewInternalError("Failed to issue token", err)
	}

	refreshToken, err := s.tokenGenerator.GenerateRefreshToken(username)
	if err != nil {
		return AuthTokens{}, internal.NewInternalError("Failed to issue token", err)
	}

	return AuthTokens{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int64(s.tokenGenerator.AccessTTL().Seconds()),
	}, nil
}

// HashPassword creates a bcrypt hash of the password
func HashPassword(password string, cost int) (string, error) {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches the stored bcrypt hash.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
