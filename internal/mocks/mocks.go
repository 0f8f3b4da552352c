// Package mocks holds testify mocks for the collaborator interfaces in model.
package mocks

import (
	"context"
	"io"
	"net"

	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/dtroode/streamhub-server/internal/model"
)

// UserStore mocks model.UserStore.
type UserStore struct {
	mock.Mock
}

func (m *UserStore) GetByID(ctx context.Context, id primitive.ObjectID) (model.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *UserStore) GetSanitizedByID(ctx context.Context, id primitive.ObjectID) (model.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *UserStore) FindByUsernameOrEmail(ctx context.Context, username, email string) (model.User, error) {
	args := m.Called(ctx, username, email)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *UserStore) Create(ctx context.Context, user model.User) (primitive.ObjectID, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(primitive.ObjectID), args.Error(1)
}

func (m *UserStore) SetRefreshToken(ctx context.Context, id primitive.ObjectID, token string) error {
	args := m.Called(ctx, id, token)
	return args.Error(0)
}

func (m *UserStore) ClearRefreshToken(ctx context.Context, id primitive.ObjectID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *UserStore) SetPassword(ctx context.Context, id primitive.ObjectID, digest string) error {
	args := m.Called(ctx, id, digest)
	return args.Error(0)
}

func (m *UserStore) UpdateProfile(ctx context.Context, id primitive.ObjectID, update model.ProfileUpdate) (model.User, error) {
	args := m.Called(ctx, id, update)
	return args.Get(0).(model.User), args.Error(1)
}

// TokenManager mocks model.TokenManager.
type TokenManager struct {
	mock.Mock
}

func (m *TokenManager) GenerateAccessToken(user model.User) (string, error) {
	args := m.Called(user)
	return args.String(0), args.Error(1)
}

func (m *TokenManager) GenerateRefreshToken(userID primitive.ObjectID) (string, error) {
	args := m.Called(userID)
	return args.String(0), args.Error(1)
}

func (m *TokenManager) ParseAccessToken(token string) (model.Actor, error) {
	args := m.Called(token)
	return args.Get(0).(model.Actor), args.Error(1)
}

func (m *TokenManager) ParseRefreshToken(token string) (primitive.ObjectID, error) {
	args := m.Called(token)
	return args.Get(0).(primitive.ObjectID), args.Error(1)
}

// PasswordHasher mocks model.PasswordHasher.
type PasswordHasher struct {
	mock.Mock
}

func (m *PasswordHasher) Hash(plain string) (string, error) {
	args := m.Called(plain)
	return args.String(0), args.Error(1)
}

func (m *PasswordHasher) Verify(plain, digest string) bool {
	args := m.Called(plain, digest)
	return args.Bool(0)
}

// Uploader mocks model.Uploader.
type Uploader struct {
	mock.Mock
}

func (m *Uploader) Upload(ctx context.Context, localPath string) (model.UploadResult, error) {
	args := m.Called(ctx, localPath)
	return args.Get(0).(model.UploadResult), args.Error(1)
}

// ObjectBackend mocks model.ObjectBackend.
type ObjectBackend struct {
	mock.Mock
}

func (m *ObjectBackend) Put(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (string, error) {
	args := m.Called(ctx, key, reader, size, contentType)
	return args.String(0), args.Error(1)
}

// ProfileStore mocks model.ProfileStore.
type ProfileStore struct {
	mock.Mock
}

func (m *ProfileStore) ChannelProfile(ctx context.Context, username string, viewer primitive.ObjectID) (model.ChannelProfile, error) {
	args := m.Called(ctx, username, viewer)
	return args.Get(0).(model.ChannelProfile), args.Error(1)
}

func (m *ProfileStore) WatchHistory(ctx context.Context, userID primitive.ObjectID) ([]model.WatchHistoryEntry, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]model.WatchHistoryEntry), args.Error(1)
}

// SecurityLayer mocks model.SecurityLayer.
type SecurityLayer struct {
	mock.Mock
}

func (m *SecurityLayer) Listen(protocol, addr string) (net.Listener, error) {
	args := m.Called(protocol, addr)
	if ln, ok := args.Get(0).(net.Listener); ok {
		return ln, args.Error(1)
	}
	return nil, args.Error(1)
}

// TokenVerifier mocks the access-token check used by the HTTP middleware.
type TokenVerifier struct {
	mock.Mock
}

func (m *TokenVerifier) VerifyAccessToken(token string) (model.Actor, error) {
	args := m.Called(token)
	return args.Get(0).(model.Actor), args.Error(1)
}
