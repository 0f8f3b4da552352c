package handler

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/dtroode/streamhub-server/internal/apierrors"
	"github.com/dtroode/streamhub-server/internal/logger"
	"github.com/dtroode/streamhub-server/internal/model"
)

type successEnvelope struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
	Data       any    `json:"data"`
	Success    bool   `json:"success"`
}

type errorEnvelope struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
	Success    bool   `json:"success"`
}

// CookieScope is the domain and path applied to every auth cookie.
type CookieScope struct {
	Domain string
	Path   string
}

// writeDirective applies the cookie operations of d and writes the success envelope.
func writeDirective(c *fiber.Ctx, scope CookieScope, d model.ResponseDirective) error {
	for _, op := range d.Cookies {
		c.Cookie(toFiberCookie(scope, op))
	}

	return c.Status(d.Status).JSON(successEnvelope{
		StatusCode: d.Status,
		Message:    d.Message,
		Data:       d.Data,
		Success:    true,
	})
}

func toFiberCookie(scope CookieScope, op model.CookieOp) *fiber.Cookie {
	cookie := &fiber.Cookie{
		Name:     op.Name,
		Value:    op.Value,
		Path:     scope.Path,
		Domain:   scope.Domain,
		HTTPOnly: op.HTTPOnly,
		Secure:   op.Secure,
		SameSite: op.SameSite,
	}

	if op.Clear {
		cookie.Value = ""
		cookie.Expires = time.Unix(0, 0).UTC()
		return cookie
	}

	cookie.MaxAge = int(op.MaxAge.Seconds())
	cookie.Expires = time.Now().Add(op.MaxAge)
	return cookie
}

// ErrorHandler renders every error as the uniform error envelope. Internal
// causes are logged, never sent.
func ErrorHandler(log *logger.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		message := "something went wrong"

		var fiberErr *fiber.Error
		if apiErr, ok := apierrors.As(err); ok {
			status = apiErr.Status
			message = apiErr.Message
		} else if errors.As(err, &fiberErr) {
			status = fiberErr.Code
			message = fiberErr.Message
		}

		if status >= fiber.StatusInternalServerError {
			log.Error("HTTP handler: request failed",
				"method", c.Method(),
				"path", c.Path(),
				"error", err.Error())
		}

		return c.Status(status).JSON(errorEnvelope{
			StatusCode: status,
			Message:    message,
			Success:    false,
		})
	}
}
