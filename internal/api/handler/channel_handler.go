package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/videohub/account-service/internal/core/ports"
)

type ChannelHandler struct {
	channels ports.ChannelService
}

func NewChannelHandler(channels ports.ChannelService) *ChannelHandler {
	return &ChannelHandler{channels: channels}
}

type subscriptionResponse struct {
	Subscribed bool `json:"subscribed"`
}

// Profile returns a channel with its subscription counts.
//
// @Summary      Channel profile
// @Tags         channel
// @Produce      json
// @Security     BearerAuth
// @Param        username  path      string  true  "Channel username"
// @Success      200       {object}  apiResponse{data=domain.ChannelProfile}
// @Failure      400       {object}  ErrorResponse
// @Failure      404       {object}  ErrorResponse
// @Router       /api/v1/user/c/{username} [get]
func (h *ChannelHandler) Profile(c echo.Context) error {
	viewer, err := currentUser(c)
	if err != nil {
		return err
	}

	profile, err := h.channels.Profile(c.Request().Context(), c.Param("username"), viewer.ID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, profile, "User channel fetched successfully")
}

// ToggleSubscription subscribes the caller to a channel, or unsubscribes when
// already subscribed.
//
// @Summary      Toggle subscription
// @Tags         channel
// @Produce      json
// @Security     BearerAuth
// @Param        channelId  path      string  true  "Channel user id"
// @Success      200        {object}  apiResponse{data=subscriptionResponse}
// @Failure      400        {object}  ErrorResponse
// @Failure      404        {object}  ErrorResponse
// @Router       /api/v1/subscriptions/c/{channelId} [post]
func (h *ChannelHandler) ToggleSubscription(c echo.Context) error {
	subscriber, err := currentUser(c)
	if err != nil {
		return err
	}

	subscribed, err := h.channels.ToggleSubscription(c.Request().Context(), subscriber.ID, c.Param("channelId"))
	if err != nil {
		return err
	}

	msg := "Unsubscribed successfully"
	if subscribed {
		msg = "Subscribed successfully"
	}
	return respond(c, http.StatusOK, subscriptionResponse{Subscribed: subscribed}, msg)
}
