package ports

import (
	"context"

	"github.com/videohub/account-service/internal/core/domain"
)

// UserRepository is the identity store. The narrow Set/Rotate/Clear/Update
// methods write single fields without re-validating the rest of the record.
type UserRepository interface {
	// Create hashes the password and inserts the user, returning its id.
	// A unique index violation yields domain.ErrUserExists.
	Create(ctx context.Context, user *domain.NewUser) (string, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	// FindProfileByID reads the user with password and refresh token projected out.
	FindProfileByID(ctx context.Context, id string) (*domain.User, error)
	// FindByEmailOrUsername matches either field (OR semantics).
	FindByEmailOrUsername(ctx context.Context, email, username string) (*domain.User, error)

	SetRefreshToken(ctx context.Context, id, token string) error
	// RotateRefreshToken replaces the stored refresh token only if it still
	// equals current. It reports whether the swap happened.
	RotateRefreshToken(ctx context.Context, id, current, next string) (bool, error)
	ClearRefreshToken(ctx context.Context, id string) error

	// UpdatePassword hashes password and stores it.
	UpdatePassword(ctx context.Context, id, password string) error
	UpdateDetails(ctx context.Context, id, fullName, email string) (*domain.User, error)
	UpdateMedia(ctx context.Context, id string, field domain.MediaField, url string) (*domain.User, error)

	WatchHistory(ctx context.Context, id string) ([]domain.Video, error)
	Delete(ctx context.Context, id string) error
}
