package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/dtroode/streamhub-server/internal/apierrors"
	"github.com/dtroode/streamhub-server/internal/logger"
	"github.com/dtroode/streamhub-server/internal/model"
)

// ChannelService is the set of read-only social-graph queries.
type ChannelService interface {
	ChannelDetail(ctx context.Context, actor model.Actor, username string) (model.ResponseDirective, error)
	WatchHistory(ctx context.Context, actor model.Actor) (model.ResponseDirective, error)
}

type Channel struct {
	service        ChannelService
	contextManager model.ContextManager
	logger         *logger.Logger
}

func NewChannel(service ChannelService, contextManager model.ContextManager, logger *logger.Logger) *Channel {
	return &Channel{service: service, contextManager: contextManager, logger: logger}
}

// ChannelDetail handles GET /c/:username.
func (h *Channel) ChannelDetail(c *fiber.Ctx) error {
	actor, ok := h.contextManager.GetActorFromContext(c.UserContext())
	if !ok {
		return apierrors.NewUnauthorizedError("unauthorized request")
	}

	res, err := h.service.ChannelDetail(c.UserContext(), actor, c.Params("username"))
	if err != nil {
		return err
	}

	return writeDirective(c, CookieScope{}, res)
}

// WatchHistory handles GET /history.
func (h *Channel) WatchHistory(c *fiber.Ctx) error {
	actor, ok := h.contextManager.GetActorFromContext(c.UserContext())
	if !ok {
		return apierrors.NewUnauthorizedError("unauthorized request")
	}

	res, err := h.service.WatchHistory(c.UserContext(), actor)
	if err != nil {
		return err
	}

	return writeDirective(c, CookieScope{}, res)
}
