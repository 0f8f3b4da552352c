package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	httpcontext "github.com/dtroode/streamhub-server/internal/api/http/context"
	"github.com/dtroode/streamhub-server/internal/apierrors"
	"github.com/dtroode/streamhub-server/internal/mocks"
	"github.com/dtroode/streamhub-server/internal/model"
	"github.com/dtroode/streamhub-server/internal/testutil"
)

// stubAccount answers every use-case with 200 and records the method name.
type stubAccount struct {
	called []string
}

func (s *stubAccount) ok(name string) (model.ResponseDirective, error) {
	s.called = append(s.called, name)
	return model.ResponseDirective{Status: http.StatusOK, Message: name}, nil
}

func (s *stubAccount) Register(context.Context, model.RegisterParams) (model.ResponseDirective, error) {
	return s.ok("Register")
}

func (s *stubAccount) Login(context.Context, model.LoginParams) (model.ResponseDirective, error) {
	return s.ok("Login")
}

func (s *stubAccount) Logout(context.Context, model.Actor) (model.ResponseDirective, error) {
	return s.ok("Logout")
}

func (s *stubAccount) Renew(context.Context, model.RenewParams) (model.ResponseDirective, error) {
	return s.ok("Renew")
}

func (s *stubAccount) ChangePassword(context.Context, model.Actor, model.ChangePasswordParams) (model.ResponseDirective, error) {
	return s.ok("ChangePassword")
}

func (s *stubAccount) CurrentUser(context.Context, model.Actor) (model.ResponseDirective, error) {
	return s.ok("CurrentUser")
}

func (s *stubAccount) UpdateDetails(context.Context, model.Actor, model.UpdateDetailsParams) (model.ResponseDirective, error) {
	return s.ok("UpdateDetails")
}

func (s *stubAccount) UpdateAvatar(context.Context, model.Actor, string) (model.ResponseDirective, error) {
	return s.ok("UpdateAvatar")
}

func (s *stubAccount) UpdatePicture(context.Context, model.Actor, string) (model.ResponseDirective, error) {
	return s.ok("UpdatePicture")
}

type stubChannel struct {
	called []string
}

func (s *stubChannel) ChannelDetail(_ context.Context, _ model.Actor, username string) (model.ResponseDirective, error) {
	s.called = append(s.called, "ChannelDetail:"+username)
	return model.ResponseDirective{Status: http.StatusOK}, nil
}

func (s *stubChannel) WatchHistory(context.Context, model.Actor) (model.ResponseDirective, error) {
	s.called = append(s.called, "WatchHistory")
	return model.ResponseDirective{Status: http.StatusOK}, nil
}

type okPinger struct{}

func (okPinger) Ping(context.Context) error { return nil }

func newApp(t *testing.T) (*fiber.App, *stubAccount, *stubChannel) {
	t.Helper()

	verifier := &mocks.TokenVerifier{}
	verifier.On("VerifyAccessToken", "good").Return(model.Actor{ID: primitive.NewObjectID(), Username: "alice"}, nil)
	verifier.On("VerifyAccessToken", mock.Anything).Return(model.Actor{}, apierrors.NewInvalidTokenError("invalid or expired token"))

	account := &stubAccount{}
	channel := &stubChannel{}
	r := New(account, channel, verifier, okPinger{}, httpcontext.NewManager(), Options{BodyLimit: 1 << 20}, testutil.MakeNoopLogger())
	return r.Register(), account, channel
}

func request(method, path, token string) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(`{}`))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	return req
}

func TestRouter_PublicRoutes(t *testing.T) {
	app, account, _ := newApp(t)

	for _, path := range []string{"/register", "/login", "/refresh-token"} {
		resp, err := app.Test(request(http.MethodPost, "/api/v1/users"+path, ""))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
	}
	assert.Equal(t, []string{"Register", "Login", "Renew"}, account.called)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRouter_ProtectedRoutes(t *testing.T) {
	routes := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/logout"},
		{http.MethodPost, "/change-password"},
		{http.MethodGet, "/current-user"},
		{http.MethodPatch, "/update-account"},
		{http.MethodPatch, "/avatar"},
		{http.MethodPatch, "/picture"},
		{http.MethodGet, "/c/alice"},
		{http.MethodGet, "/history"},
	}

	app, account, channel := newApp(t)

	for _, rt := range routes {
		t.Run(rt.method+" "+rt.path, func(t *testing.T) {
			resp, err := app.Test(request(rt.method, "/api/v1/users"+rt.path, ""))
			require.NoError(t, err)
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

			resp, err = app.Test(request(rt.method, "/api/v1/users"+rt.path, "forged"))
			require.NoError(t, err)
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

			resp, err = app.Test(request(rt.method, "/api/v1/users"+rt.path, "good"))
			require.NoError(t, err)
			assert.Equal(t, http.StatusOK, resp.StatusCode)
		})
	}

	assert.Len(t, account.called, 6)
	assert.Equal(t, []string{"ChannelDetail:alice", "WatchHistory"}, channel.called)
}
