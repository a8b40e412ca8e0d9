package ports

import (
	"context"

	"github.com/videohub/account-service/internal/core/domain"
)

// RegisterInput is the registration form. AvatarPath and CoverImagePath are the
// local temporary files received with the request; either may be empty.
type RegisterInput struct {
	FullName       string
	Email          string
	Username       string
	Password       string
	AvatarPath     string
	CoverImagePath string
}

// AccountService covers registration and profile maintenance.
type AccountService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	CurrentUser(ctx context.Context, userID string) (*domain.User, error)
	ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error
	UpdateDetails(ctx context.Context, userID, fullName, email string) (*domain.User, error)
	UpdateMedia(ctx context.Context, userID string, field domain.MediaField, path string) (*domain.User, error)
	WatchHistory(ctx context.Context, userID string) ([]domain.Video, error)
	DeleteAccount(ctx context.Context, userID string, access *domain.AccessClaims) error
}
