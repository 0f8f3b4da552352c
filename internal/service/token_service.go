package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/dtroode/streamhub-server/internal/apierrors"
	"github.com/dtroode/streamhub-server/internal/logger"
	"github.com/dtroode/streamhub-server/internal/model"
)

const msgInvalidToken = "invalid or expired token"

// TokenService issues, verifies, rotates and revokes token pairs. It composes
// the TokenManager with the refresh-token field of the user store; each user
// holds at most one valid refresh token.
type TokenService struct {
	manager model.TokenManager
	users   model.UserStore
	logger  *logger.Logger
}

func NewTokenService(manager model.TokenManager, users model.UserStore, logger *logger.Logger) *TokenService {
	return &TokenService{manager: manager, users: users, logger: logger}
}

// IssuePair signs a fresh access/refresh pair for the user. It has no side effects.
func (s *TokenService) IssuePair(user model.User) (model.TokenPair, error) {
	access, err := s.manager.GenerateAccessToken(user)
	if err != nil {
		return model.TokenPair{}, fmt.Errorf("issue access: %w", err)
	}

	refresh, err := s.manager.GenerateRefreshToken(user.ID)
	if err != nil {
		return model.TokenPair{}, fmt.Errorf("issue refresh: %w", err)
	}

	return model.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// PersistRefreshToken stores token as the user's only valid refresh token.
func (s *TokenService) PersistRefreshToken(ctx context.Context, userID primitive.ObjectID, token string) error {
	err := s.users.SetRefreshToken(ctx, userID, token)
	if errors.Is(err, model.ErrNotFound) {
		return apierrors.NewPersistenceError("user no longer exists", err)
	}
	if err != nil {
		return apierrors.NewInternalError(fmt.Errorf("persist refresh: %w", err))
	}
	return nil
}

// VerifyRefreshToken checks signature, expiry and type of a refresh token.
func (s *TokenService) VerifyRefreshToken(token string) (primitive.ObjectID, error) {
	userID, err := s.manager.ParseRefreshToken(token)
	if err != nil {
		s.logger.Debug("Token service: refresh token rejected", "error", err.Error())
		return primitive.NilObjectID, apierrors.NewInvalidTokenError(msgInvalidToken)
	}
	return userID, nil
}

// VerifyAccessToken checks signature, expiry and type of an access token.
func (s *TokenService) VerifyAccessToken(token string) (model.Actor, error) {
	actor, err := s.manager.ParseAccessToken(token)
	if err != nil {
		s.logger.Debug("Token service: access token rejected", "error", err.Error())
		return model.Actor{}, apierrors.NewInvalidTokenError(msgInvalidToken)
	}
	return actor, nil
}

// Rotate issues a new pair for the user and persists its refresh token,
// invalidating whatever refresh token was stored before.
func (s *TokenService) Rotate(ctx context.Context, userID primitive.ObjectID) (model.TokenPair, error) {
	user, err := s.users.GetByID(ctx, userID)
	if errors.Is(err, model.ErrNotFound) {
		return model.TokenPair{}, apierrors.NewPersistenceError("user no longer exists", err)
	}
	if err != nil {
		s.logger.Error("Token service: failed to load user", "user_id", userID.Hex(), "error", err.Error())
		return model.TokenPair{}, apierrors.NewInternalError(fmt.Errorf("load user: %w", err))
	}

	pair, err := s.IssuePair(user)
	if err != nil {
		s.logger.Error("Token service: failed to issue pair", "user_id", userID.Hex(), "error", err.Error())
		return model.TokenPair{}, apierrors.NewInternalError(err)
	}

	if err := s.PersistRefreshToken(ctx, userID, pair.RefreshToken); err != nil {
		s.logger.Error("Token service: failed to persist refresh token", "user_id", userID.Hex(), "error", err.Error())
		return model.TokenPair{}, err
	}

	return pair, nil
}

// Revoke clears the stored refresh token so every previously issued one is rejected.
func (s *TokenService) Revoke(ctx context.Context, userID primitive.ObjectID) error {
	err := s.users.ClearRefreshToken(ctx, userID)
	if errors.Is(err, model.ErrNotFound) {
		return apierrors.NewPersistenceError("user no longer exists", err)
	}
	if err != nil {
		return apierrors.NewInternalError(fmt.Errorf("revoke refresh: %w", err))
	}
	return nil
}

// MatchesStored reports whether presented equals the single refresh token
// stored on user. An empty stored value never matches.
func (s *TokenService) MatchesStored(user model.User, presented string) bool {
	if user.RefreshToken == "" || presented == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(user.RefreshToken), []byte(presented)) == 1
}
