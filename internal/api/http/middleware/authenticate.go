package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/dtroode/streamhub-server/internal/apierrors"
	"github.com/dtroode/streamhub-server/internal/logger"
	"github.com/dtroode/streamhub-server/internal/model"
)

// TokenVerifier resolves an actor from an access token.
type TokenVerifier interface {
	VerifyAccessToken(token string) (model.Actor, error)
}

// Authenticate validates the access token and injects the actor into the request context.
type Authenticate struct {
	verifier       TokenVerifier
	contextManager model.ContextManager
	logger         *logger.Logger
}

func NewAuthenticate(verifier TokenVerifier, contextManager model.ContextManager, logger *logger.Logger) *Authenticate {
	return &Authenticate{verifier: verifier, contextManager: contextManager, logger: logger}
}

// Handle reads the token from the accessToken cookie, falling back to the
// Authorization bearer header.
func (m *Authenticate) Handle(c *fiber.Ctx) error {
	tokenString := accessToken(c)
	if tokenString == "" {
		return apierrors.NewUnauthorizedError("unauthorized request")
	}

	actor, err := m.verifier.VerifyAccessToken(tokenString)
	if err != nil {
		m.logger.Debug("Authenticate: rejected access token", "path", c.Path())
		if _, ok := apierrors.As(err); ok {
			return err
		}
		return apierrors.NewInvalidTokenError("invalid or expired token")
	}
	if actor.ID.IsZero() {
		return apierrors.NewInvalidTokenError("invalid or expired token")
	}

	c.SetUserContext(m.contextManager.SetActorToContext(c.UserContext(), actor))
	return c.Next()
}

func accessToken(c *fiber.Ctx) string {
	if token := c.Cookies(model.AccessTokenCookie); token != "" {
		return token
	}

	header := c.Get(fiber.HeaderAuthorization)
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}
