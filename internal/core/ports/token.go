package ports

import (
	"context"
	"time"

	"github.com/videohub/account-service/internal/core/domain"
)

// TokenIssuer signs, verifies and persists access/refresh credentials.
type TokenIssuer interface {
	// Issue signs a new pair for userID and stores the refresh token on the user.
	Issue(ctx context.Context, userID string) (*domain.TokenPair, error)
	// Rotate signs a new pair for user and swaps the stored refresh token only
	// if it still equals presented.
	Rotate(ctx context.Context, user *domain.User, presented string) (*domain.TokenPair, error)
	VerifyAccess(token string) (*domain.AccessClaims, error)
	VerifyRefresh(token string) (*domain.RefreshClaims, error)
	AccessTTL() time.Duration
	RefreshTTL() time.Duration
}

// TokenRevoker tracks access tokens revoked before their expiry.
type TokenRevoker interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
