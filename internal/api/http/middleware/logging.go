package middleware

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/dtroode/streamhub-server/internal/apierrors"
	"github.com/dtroode/streamhub-server/internal/logger"
)

// Logging logs method, path, status and duration of every request.
type Logging struct {
	logger *logger.Logger
}

func NewLogging(logger *logger.Logger) *Logging {
	return &Logging{logger: logger}
}

func (l *Logging) Handle(c *fiber.Ctx) error {
	start := time.Now()

	err := c.Next()

	status := c.Response().StatusCode()
	if err != nil {
		status = statusOf(err)
	}

	l.logger.Info("HTTP request completed",
		"method", c.Method(),
		"path", c.Path(),
		"status", status,
		"duration_ms", time.Since(start).Milliseconds())

	if err != nil && status >= fiber.StatusInternalServerError {
		l.logger.Error("HTTP request failed",
			"method", c.Method(),
			"path", c.Path(),
			"status", status,
			"error", err.Error())
	}

	return err
}

// statusOf predicts the status the error handler will write for err.
func statusOf(err error) int {
	if apiErr, ok := apierrors.As(err); ok {
		return apiErr.Status
	}
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return fiberErr.Code
	}
	return fiber.StatusInternalServerError
}
