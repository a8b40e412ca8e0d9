package ports

import (
	"context"

	"github.com/videohub/account-service/internal/core/domain"
)

// SubscriptionRepository owns subscription records and the channel aggregation.
type SubscriptionRepository interface {
	// ChannelProfile aggregates subscriber counts for the channel named username.
	// viewerID may be empty. Returns domain.ErrChannelNotFound when no user matches.
	ChannelProfile(ctx context.Context, username, viewerID string) (*domain.ChannelProfile, error)
	// Toggle subscribes subscriberID to channelID, or unsubscribes when already
	// subscribed. It reports the resulting state.
	Toggle(ctx context.Context, subscriberID, channelID string) (bool, error)
	// DeleteForUser removes every subscription where userID is either side.
	DeleteForUser(ctx context.Context, userID string) error
}
