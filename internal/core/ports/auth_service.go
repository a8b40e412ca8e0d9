package ports

import (
	"context"

	"github.com/videohub/account-service/internal/core/domain"
)

// Session is a successful login or refresh.
type Session struct {
	User   *domain.User
	Tokens *domain.TokenPair
}

// AuthService covers login, logout and refresh.
type AuthService interface {
	Login(ctx context.Context, identifier, password string) (*Session, error)
	Logout(ctx context.Context, userID string, access *domain.AccessClaims) error
	Refresh(ctx context.Context, refreshToken string) (*Session, error)
}
