package service

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"github.com/videohub/account-service/internal/api/metrics"
	"github.com/videohub/account-service/internal/core/domain"
	"github.com/videohub/account-service/internal/core/ports"
)

// ChannelService implements the channel profile query and subscription toggle.
type ChannelService struct {
	users ports.UserRepository
	subs  ports.SubscriptionRepository
	log   zerolog.Logger
}

func NewChannelService(users ports.UserRepository, subs ports.SubscriptionRepository, log zerolog.Logger) *ChannelService {
	return &ChannelService{users: users, subs: subs, log: log}
}

// Profile returns the channel named username with subscriber counts relative
// to viewerID. Lookup is case-insensitive.
func (s *ChannelService) Profile(ctx context.Context, username, viewerID string) (*domain.ChannelProfile, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" {
		return nil, domain.NewValidationError("username is missing")
	}

	profile, err := s.subs.ChannelProfile(ctx, username, viewerID)
	if err != nil {
		if errors.Is(err, domain.ErrChannelNotFound) {
			return nil, domain.NewNotFoundError("channel does not exist").Wrap(err)
		}
		return nil, domain.NewInternalError("something went wrong while fetching the channel").Wrap(err)
	}
	return profile, nil
}

// ToggleSubscription flips the subscription of subscriberID to channelID and
// reports whether the subscriber is subscribed afterwards.
func (s *ChannelService) ToggleSubscription(ctx context.Context, subscriberID, channelID string) (bool, error) {
	channelID = strings.TrimSpace(channelID)
	if channelID == "" {
		return false, domain.NewValidationError("channel id is missing")
	}
	if channelID == subscriberID {
		return false, domain.NewValidationError("cannot subscribe to your own channel")
	}

	if _, err := s.users.FindByID(ctx, channelID); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return false, domain.NewNotFoundError("channel does not exist").Wrap(err)
		}
		return false, domain.NewInternalError("something went wrong while updating the subscription").Wrap(err)
	}

	subscribed, err := s.subs.Toggle(ctx, subscriberID, channelID)
	if err != nil {
		return false, domain.NewInternalError("something went wrong while updating the subscription").Wrap(err)
	}

	action := "unsubscribe"
	if subscribed {
		action = "subscribe"
	}
	metrics.SubscriptionTogglesTotal.WithLabelValues(action).Inc()

	s.log.Debug().
		Str("subscriber", subscriberID).
		Str("channel", channelID).
		Bool("subscribed", subscribed).
		Msg("subscription toggled")
	return subscribed, nil
}
