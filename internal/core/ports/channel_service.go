package ports

import (
	"context"

	"github.com/videohub/account-service/internal/core/domain"
)

// ChannelService covers the channel profile query and subscriptions.
type ChannelService interface {
	Profile(ctx context.Context, username, viewerID string) (*domain.ChannelProfile, error)
	ToggleSubscription(ctx context.Context, subscriberID, channelID string) (bool, error)
}
