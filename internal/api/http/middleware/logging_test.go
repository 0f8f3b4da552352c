package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/streamhub-server/internal/api/http/handler"
	"github.com/dtroode/streamhub-server/internal/apierrors"
	"github.com/dtroode/streamhub-server/internal/testutil"
)

func TestLogging_Handle(t *testing.T) {
	logging := NewLogging(testutil.MakeNoopLogger())

	app := fiber.New(fiber.Config{ErrorHandler: handler.ErrorHandler(testutil.MakeNoopLogger())})
	app.Use(logging.Handle)
	app.Get("/ok", func(c *fiber.Ctx) error { return c.SendStatus(http.StatusNoContent) })
	app.Get("/conflict", func(c *fiber.Ctx) error { return apierrors.NewConflictError("user already exists") })
	app.Get("/boom", func(c *fiber.Ctx) error { return errors.New("boom") })

	tests := []struct {
		path string
		want int
	}{
		{path: "/ok", want: http.StatusNoContent},
		{path: "/conflict", want: http.StatusConflict},
		{path: "/boom", want: http.StatusInternalServerError},
		{path: "/nowhere", want: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest(http.MethodGet, tt.path, nil))
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}

func TestStatusOf(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, statusOf(apierrors.NewNotFoundError("channel does not exist")))
	assert.Equal(t, http.StatusRequestEntityTooLarge, statusOf(fiber.ErrRequestEntityTooLarge))
	assert.Equal(t, http.StatusInternalServerError, statusOf(errors.New("x")))
}
