package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/dtroode/streamhub-server/internal/model"
)

// Claims represents JWT claims with token type and user identity.
// Username and Email are only set on access tokens.
type Claims struct {
	jwt.RegisteredClaims
	UserID    string `json:"user_id"`
	Username  string `json:"username,omitempty"`
	Email     string `json:"email,omitempty"`
	TokenType string `json:"typ"`
}

// JWT implements TokenManager backed by symmetric HMAC with one secret
// per token type.
type JWT struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	now           func() time.Time
}

// Params configures a JWT manager.
type Params struct {
	AccessSecret  string
	AccessTTL     time.Duration
	RefreshSecret string
	RefreshTTL    time.Duration
}

var _ model.TokenManager = (*JWT)(nil)

// NewJWT creates a new JWT token manager.
func NewJWT(p Params) *JWT {
	return &JWT{
		accessSecret:  []byte(p.AccessSecret),
		refreshSecret: []byte(p.RefreshSecret),
		accessTTL:     p.AccessTTL,
		refreshTTL:    p.RefreshTTL,
		now:           time.Now,
	}
}

const (
	typeAccess  = "access"
	typeRefresh = "refresh"
)

// AccessTTL returns the lifetime of access tokens.
func (j *JWT) AccessTTL() time.Duration { return j.accessTTL }

// RefreshTTL returns the lifetime of refresh tokens.
func (j *JWT) RefreshTTL() time.Duration { return j.refreshTTL }

// GenerateAccessToken creates a short-lived access token carrying the
// user's id, username and email.
func (j *JWT) GenerateAccessToken(user model.User) (string, error) {
	claims := j.newClaims(user.ID, typeAccess, j.accessTTL)
	claims.Username = user.Username
	claims.Email = user.Email

	tokenString, err := sign(claims, j.accessSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}

	return tokenString, nil
}

// GenerateRefreshToken creates a long-lived refresh token carrying only the user's id.
func (j *JWT) GenerateRefreshToken(userID primitive.ObjectID) (string, error) {
	tokenString, err := sign(j.newClaims(userID, typeRefresh, j.refreshTTL), j.refreshSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign refresh token: %w", err)
	}

	return tokenString, nil
}

// ParseAccessToken validates an access token and returns the actor it identifies.
func (j *JWT) ParseAccessToken(tokenString string) (model.Actor, error) {
	claims, err := j.parse(tokenString, j.accessSecret, typeAccess)
	if err != nil {
		return model.Actor{}, fmt.Errorf("failed to parse access token: %w", err)
	}

	id, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return model.Actor{}, model.ErrTokenMalformed
	}

	return model.Actor{ID: id, Username: claims.Username, Email: claims.Email}, nil
}

// ParseRefreshToken validates a refresh token and returns the user id it carries.
func (j *JWT) ParseRefreshToken(tokenString string) (primitive.ObjectID, error) {
	claims, err := j.parse(tokenString, j.refreshSecret, typeRefresh)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("failed to parse refresh token: %w", err)
	}

	id, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return primitive.NilObjectID, model.ErrTokenMalformed
	}

	return id, nil
}

func (j *JWT) newClaims(userID primitive.ObjectID, tokenType string, ttl time.Duration) Claims {
	now := j.now()
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   userID.Hex(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		UserID:    userID.Hex(),
		TokenType: tokenType,
	}
}

func (j *JWT) parse(tokenString string, secret []byte, wantType string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("wrong signing method %v", t.Header["alg"])
		}
		return secret, nil
	}, jwt.WithTimeFunc(j.now), jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("token is invalid")
	}
	if claims.TokenType != wantType {
		return nil, fmt.Errorf("%w: %s", model.ErrTokenType, claims.TokenType)
	}
	return claims, nil
}

func sign(claims Claims, secret []byte) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}
