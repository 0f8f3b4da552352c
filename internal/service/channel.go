package service

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/dtroode/streamhub-server/internal/apierrors"
	"github.com/dtroode/streamhub-server/internal/logger"
	"github.com/dtroode/streamhub-server/internal/model"
)

// Channel serves the read-only social-graph queries.
type Channel struct {
	profiles model.ProfileStore
	logger   *logger.Logger
}

func NewChannel(profiles model.ProfileStore, logger *logger.Logger) *Channel {
	return &Channel{profiles: profiles, logger: logger}
}

// ChannelDetail returns the public profile of username with subscription
// counts and whether actor is subscribed to it.
func (c *Channel) ChannelDetail(ctx context.Context, actor model.Actor, username string) (model.ResponseDirective, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" {
		return model.ResponseDirective{}, apierrors.NewNotFoundError("channel does not exist")
	}

	profile, err := c.profiles.ChannelProfile(ctx, username, actor.ID)
	if errors.Is(err, model.ErrNotFound) {
		return model.ResponseDirective{}, apierrors.NewNotFoundError("channel does not exist")
	}
	if err != nil {
		c.logger.Error("Channel service: failed to aggregate channel profile",
			"username", username,
			"error", err.Error())
		return model.ResponseDirective{}, apierrors.NewInternalError(err)
	}

	return model.ResponseDirective{
		Status:  http.StatusOK,
		Message: "channel fetched successfully",
		Data:    profile,
	}, nil
}

// WatchHistory returns the actor's watched videos in stored order.
func (c *Channel) WatchHistory(ctx context.Context, actor model.Actor) (model.ResponseDirective, error) {
	history, err := c.profiles.WatchHistory(ctx, actor.ID)
	if err != nil {
		c.logger.Error("Channel service: failed to aggregate watch history",
			"user_id", actor.ID.Hex(),
			"error", err.Error())
		return model.ResponseDirective{}, apierrors.NewInternalError(err)
	}
	if history == nil {
		history = []model.WatchHistoryEntry{}
	}

	return model.ResponseDirective{
		Status:  http.StatusOK,
		Message: "watch history fetched successfully",
		Data:    history,
	}, nil
}
