package auth

import (
	"context"
	"time"

	"github.com/frahmantamala/recruitment/internal/core/user"
	"github.com/golang-jwt/jwt/v5"
)

type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

// Claims carries only the stable principal. Roles are always re-read from storage.
type Claims struct {
	Username  string    `json:"username"`
	TokenType TokenType `json:"typ"`
	jwt.RegisteredClaims
}

type AuthTokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

// TokenGenerator issues and validates session tokens.
type TokenGenerator interface {
	GenerateAccessToken(username string) (string, error)
	GenerateRefreshToken(username string) (string, error)
	ValidateAccessToken(tokenString string) (*Claims, error)
	ValidateRefreshToken(tokenString string) (*Claims, error)
	AccessTTL() time.Duration
}

// RepositoryAPI is the slice of the user store the identity resolver needs.
type RepositoryAPI interface {
	GetByUsername(ctx context.Context, username string) (*user.User, error)
}

type JWTTokenGenerator struct {
	AccessTokenSecret  []byte
	RefreshTokenSecret []byte
	AccessTokenTTL     time.Duration
	RefreshTokenTTL    time.Duration
	Issuer             string
}
