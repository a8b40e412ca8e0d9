package ports

import (
	"context"

	"github.com/videohub/account-service/internal/core/domain"
)

// MediaUploader is the external media host.
type MediaUploader interface {
	// Upload sends the local file at path and returns the hosted object.
	// It does not remove the local file.
	Upload(ctx context.Context, path string) (*domain.Media, error)
	// Delete removes the object behind a URL previously returned by Upload.
	Delete(ctx context.Context, url string) error
}
