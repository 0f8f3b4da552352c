package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/dtroode/streamhub-server/internal/apierrors"
	"github.com/dtroode/streamhub-server/internal/logger"
	"github.com/dtroode/streamhub-server/internal/model"
)

// Account implements the session use-cases: registration, login, logout,
// renewal, password change and profile updates.
type Account struct {
	users      model.UserStore
	tokens     *TokenService
	hasher     model.PasswordHasher
	uploader   model.Uploader
	accessTTL  time.Duration
	refreshTTL time.Duration
	logger     *logger.Logger
}

func NewAccount(
	users model.UserStore,
	tokens *TokenService,
	hasher model.PasswordHasher,
	uploader model.Uploader,
	accessTTL time.Duration,
	refreshTTL time.Duration,
	logger *logger.Logger,
) *Account {
	return &Account{
		users:      users,
		tokens:     tokens,
		hasher:     hasher,
		uploader:   uploader,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		logger:     logger,
	}
}

func (a *Account) Register(ctx context.Context, params model.RegisterParams) (model.ResponseDirective, error) {
	username := normalizeUsername(params.Username)
	email := strings.TrimSpace(params.Email)

	if username == "" || email == "" || strings.TrimSpace(params.Password) == "" {
		return model.ResponseDirective{}, apierrors.NewValidationError("all the fields are needed")
	}

	a.logger.Debug("Account service: starting registration", "username", username)

	_, err := a.users.FindByUsernameOrEmail(ctx, username, email)
	if err == nil {
		a.logger.Info("Account service: user already exists", "username", username)
		return model.ResponseDirective{}, apierrors.NewConflictError("user already exists")
	}
	if !errors.Is(err, model.ErrNotFound) {
		a.logger.Error("Account service: failed to look up user",
			"username", username,
			"error", err.Error())
		return model.ResponseDirective{}, apierrors.NewInternalError(fmt.Errorf("failed to look up user: %w", err))
	}

	if params.AvatarPath == "" {
		return model.ResponseDirective{}, apierrors.NewValidationError("avatar is required")
	}

	avatar, err := a.uploader.Upload(ctx, params.AvatarPath)
	if err != nil || !avatar.Usable() {
		a.logger.Warn("Account service: avatar upload failed", "username", username, "error", errString(err))
		return model.ResponseDirective{}, apierrors.NewUploadError("avatar is required", err)
	}

	picture := a.uploadOptional(ctx, params.PicturePath)

	digest, err := a.hasher.Hash(params.Password)
	if err != nil {
		a.logger.Error("Account service: failed to hash password", "username", username, "error", err.Error())
		return model.ResponseDirective{}, apierrors.NewInternalError(err)
	}

	now := time.Now().UTC()
	id, err := a.users.Create(ctx, model.User{
		Username:     username,
		Email:        email,
		Password:     digest,
		Avatar:       avatar.URL,
		Picture:      picture,
		WatchHistory: []primitive.ObjectID{},
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if errors.Is(err, model.ErrDuplicate) {
		return model.ResponseDirective{}, apierrors.NewConflictError("user already exists")
	}
	if err != nil {
		a.logger.Error("Account service: failed to create user", "username", username, "error", err.Error())
		return model.ResponseDirective{}, apierrors.NewInternalError(fmt.Errorf("failed to create user: %w", err))
	}

	created, err := a.users.GetSanitizedByID(ctx, id)
	if err != nil {
		a.logger.Error("Account service: created user cannot be read back",
			"user_id", id.Hex(),
			"error", err.Error())
		return model.ResponseDirective{}, apierrors.NewInternalError(fmt.Errorf("failed to fetch created user: %w", err))
	}

	a.logger.Info("Account service: user registered", "user_id", id.Hex(), "username", username)

	return model.ResponseDirective{
		Status:  http.StatusCreated,
		Message: "user registered successfully",
		Data:    created,
	}, nil
}

func (a *Account) Login(ctx context.Context, params model.LoginParams) (model.ResponseDirective, error) {
	username := normalizeUsername(params.Username)
	email := strings.TrimSpace(params.Email)

	if username == "" && email == "" {
		return model.ResponseDirective{}, apierrors.NewValidationError("username or email is required")
	}

	user, err := a.users.FindByUsernameOrEmail(ctx, username, email)
	if errors.Is(err, model.ErrNotFound) {
		return model.ResponseDirective{}, apierrors.NewNotFoundError("user does not exist")
	}
	if err != nil {
		a.logger.Error("Account service: failed to look up user", "username", username, "error", err.Error())
		return model.ResponseDirective{}, apierrors.NewInternalError(err)
	}

	if !a.hasher.Verify(params.Password, user.Password) {
		a.logger.Info("Account service: incorrect password", "user_id", user.ID.Hex())
		return model.ResponseDirective{}, apierrors.NewAuthenticationError("incorrect password")
	}

	pair, err := a.tokens.Rotate(ctx, user.ID)
	if err != nil {
		return model.ResponseDirective{}, err
	}

	sanitized, err := a.users.GetSanitizedByID(ctx, user.ID)
	if err != nil {
		a.logger.Error("Account service: failed to fetch sanitized user", "user_id", user.ID.Hex(), "error", err.Error())
		return model.ResponseDirective{}, apierrors.NewInternalError(err)
	}

	a.logger.Info("Account service: user logged in", "user_id", user.ID.Hex())

	return model.ResponseDirective{
		Status:  http.StatusOK,
		Message: "logged in successfully",
		Data: model.LoginResult{
			User:         sanitized,
			AccessToken:  pair.AccessToken,
			RefreshToken: pair.RefreshToken,
		},
		Cookies: model.SessionCookies(pair, a.accessTTL, a.refreshTTL),
	}, nil
}

func (a *Account) Logout(ctx context.Context, actor model.Actor) (model.ResponseDirective, error) {
	if err := a.tokens.Revoke(ctx, actor.ID); err != nil {
		a.logger.Error("Account service: failed to revoke refresh token", "user_id", actor.ID.Hex(), "error", err.Error())
		return model.ResponseDirective{}, err
	}

	a.logger.Info("Account service: user logged out", "user_id", actor.ID.Hex())

	return model.ResponseDirective{
		Status:  http.StatusOK,
		Message: "logged out successfully",
		Data:    struct{}{},
		Cookies: model.ClearSessionCookies(),
	}, nil
}

// Renew exchanges a refresh token for a new pair. The cookie token takes
// precedence over the body token.
func (a *Account) Renew(ctx context.Context, params model.RenewParams) (model.ResponseDirective, error) {
	presented := params.CookieToken
	if presented == "" {
		presented = params.BodyToken
	}
	if presented == "" {
		return model.ResponseDirective{}, apierrors.NewUnauthorizedError("unauthorized request")
	}

	userID, err := a.tokens.VerifyRefreshToken(presented)
	if err != nil {
		return model.ResponseDirective{}, err
	}

	user, err := a.users.GetByID(ctx, userID)
	if errors.Is(err, model.ErrNotFound) {
		return model.ResponseDirective{}, apierrors.NewInvalidTokenError("invalid refresh token")
	}
	if err != nil {
		a.logger.Error("Account service: failed to load user for renewal", "user_id", userID.Hex(), "error", err.Error())
		return model.ResponseDirective{}, apierrors.NewInternalError(err)
	}

	if !a.tokens.MatchesStored(user, presented) {
		a.logger.Info("Account service: refresh token does not match stored value", "user_id", userID.Hex())
		return model.ResponseDirective{}, apierrors.NewInvalidTokenError("refresh token is expired or used")
	}

	pair, err := a.tokens.Rotate(ctx, userID)
	if err != nil {
		return model.ResponseDirective{}, err
	}

	return model.ResponseDirective{
		Status:  http.StatusOK,
		Message: "access token refreshed",
		Data:    pair,
		Cookies: model.SessionCookies(pair, a.accessTTL, a.refreshTTL),
	}, nil
}

func (a *Account) ChangePassword(ctx context.Context, actor model.Actor, params model.ChangePasswordParams) (model.ResponseDirective, error) {
	if params.OldPassword == "" || strings.TrimSpace(params.NewPassword) == "" {
		return model.ResponseDirective{}, apierrors.NewValidationError("old and new password are required")
	}

	user, err := a.users.GetByID(ctx, actor.ID)
	if errors.Is(err, model.ErrNotFound) {
		return model.ResponseDirective{}, apierrors.NewNotFoundError("user does not exist")
	}
	if err != nil {
		a.logger.Error("Account service: failed to load user", "user_id", actor.ID.Hex(), "error", err.Error())
		return model.ResponseDirective{}, apierrors.NewInternalError(err)
	}

	if !a.hasher.Verify(params.OldPassword, user.Password) {
		return model.ResponseDirective{}, apierrors.NewValidationError("invalid old password")
	}

	digest, err := a.hasher.Hash(params.NewPassword)
	if err != nil {
		a.logger.Error("Account service: failed to hash password", "user_id", actor.ID.Hex(), "error", err.Error())
		return model.ResponseDirective{}, apierrors.NewInternalError(err)
	}

	err = a.users.SetPassword(ctx, actor.ID, digest)
	if errors.Is(err, model.ErrNotFound) {
		return model.ResponseDirective{}, apierrors.NewPersistenceError("user no longer exists", err)
	}
	if err != nil {
		a.logger.Error("Account service: failed to store password", "user_id", actor.ID.Hex(), "error", err.Error())
		return model.ResponseDirective{}, apierrors.NewInternalError(err)
	}

	a.logger.Info("Account service: password changed", "user_id", actor.ID.Hex())

	return model.ResponseDirective{
		Status:  http.StatusOK,
		Message: "password changed successfully",
		Data:    struct{}{},
	}, nil
}

func (a *Account) CurrentUser(ctx context.Context, actor model.Actor) (model.ResponseDirective, error) {
	user, err := a.users.GetSanitizedByID(ctx, actor.ID)
	if errors.Is(err, model.ErrNotFound) {
		return model.ResponseDirective{}, apierrors.NewNotFoundError("user does not exist")
	}
	if err != nil {
		a.logger.Error("Account service: failed to fetch current user", "user_id", actor.ID.Hex(), "error", err.Error())
		return model.ResponseDirective{}, apierrors.NewInternalError(err)
	}

	return model.ResponseDirective{
		Status:  http.StatusOK,
		Message: "current user fetched successfully",
		Data:    user,
	}, nil
}

// UpdateDetails sets username and email. Both are required even when only
// one of them changes.
func (a *Account) UpdateDetails(ctx context.Context, actor model.Actor, params model.UpdateDetailsParams) (model.ResponseDirective, error) {
	username := normalizeUsername(params.Username)
	email := strings.TrimSpace(params.Email)
	if username == "" || email == "" {
		return model.ResponseDirective{}, apierrors.NewValidationError("username and email are required")
	}

	return a.updateProfile(ctx, actor, model.ProfileUpdate{Username: &username, Email: &email}, "details updated successfully")
}

func (a *Account) UpdateAvatar(ctx context.Context, actor model.Actor, localPath string) (model.ResponseDirective, error) {
	if localPath == "" {
		return model.ResponseDirective{}, apierrors.NewValidationError("missing file")
	}

	avatar, err := a.uploader.Upload(ctx, localPath)
	if err != nil || !avatar.Usable() {
		a.logger.Warn("Account service: avatar upload failed", "user_id", actor.ID.Hex(), "error", errString(err))
		return model.ResponseDirective{}, apierrors.NewUploadError("error while uploading avatar", err)
	}

	return a.updateProfile(ctx, actor, model.ProfileUpdate{Avatar: &avatar.URL}, "avatar updated successfully")
}

// UpdatePicture replaces the optional profile picture. A failed upload
// clears the picture instead of failing the request.
func (a *Account) UpdatePicture(ctx context.Context, actor model.Actor, localPath string) (model.ResponseDirective, error) {
	if localPath == "" {
		return model.ResponseDirective{}, apierrors.NewValidationError("missing file")
	}

	picture := a.uploadOptional(ctx, localPath)

	return a.updateProfile(ctx, actor, model.ProfileUpdate{Picture: &picture}, "picture updated successfully")
}

func (a *Account) updateProfile(ctx context.Context, actor model.Actor, update model.ProfileUpdate, message string) (model.ResponseDirective, error) {
	user, err := a.users.UpdateProfile(ctx, actor.ID, update)
	switch {
	case errors.Is(err, model.ErrDuplicate):
		return model.ResponseDirective{}, apierrors.NewConflictError("username or email already taken")
	case errors.Is(err, model.ErrNotFound):
		return model.ResponseDirective{}, apierrors.NewNotFoundError("user does not exist")
	case err != nil:
		a.logger.Error("Account service: failed to update profile", "user_id", actor.ID.Hex(), "error", err.Error())
		return model.ResponseDirective{}, apierrors.NewInternalError(err)
	}

	return model.ResponseDirective{
		Status:  http.StatusOK,
		Message: message,
		Data:    user,
	}, nil
}

// uploadOptional returns an empty reference for a missing path or a failed upload.
func (a *Account) uploadOptional(ctx context.Context, localPath string) string {
	if localPath == "" {
		return ""
	}

	res, err := a.uploader.Upload(ctx, localPath)
	if err != nil {
		a.logger.Warn("Account service: optional upload failed", "error", err.Error())
		return ""
	}
	return res.URL
}

func normalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

func errString(err error) string {
	if err == nil {
		return "empty upload result"
	}
	return err.Error()
}
