package model

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	// ErrNotFound is returned by stores when the requested document does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned when a unique index rejects a write.
	ErrDuplicate = errors.New("duplicate key")
)

// UserStore defines point queries and single-field updates on the user collection.
type UserStore interface {
	// GetByID returns the full record including password digest and refresh token.
	GetByID(ctx context.Context, id primitive.ObjectID) (User, error)
	// GetSanitizedByID returns the record without password digest and refresh token.
	GetSanitizedByID(ctx context.Context, id primitive.ObjectID) (User, error)
	// FindByUsernameOrEmail matches any non-empty criterion.
	FindByUsernameOrEmail(ctx context.Context, username, email string) (User, error)
	Create(ctx context.Context, user User) (primitive.ObjectID, error)
	SetRefreshToken(ctx context.Context, id primitive.ObjectID, token string) error
	ClearRefreshToken(ctx context.Context, id primitive.ObjectID) error
	SetPassword(ctx context.Context, id primitive.ObjectID, digest string) error
	// UpdateProfile sets the non-nil fields and returns the sanitized record.
	UpdateProfile(ctx context.Context, id primitive.ObjectID, update ProfileUpdate) (User, error)
}

// User represents a stored account. Password and RefreshToken are never
// serialized to clients.
type User struct {
	ID           primitive.ObjectID   `bson:"_id,omitempty" json:"_id"`
	Username     string               `bson:"username" json:"username"`
	Email        string               `bson:"email" json:"email"`
	Password     string               `bson:"password,omitempty" json:"-"`
	Avatar       string               `bson:"avatar" json:"avatar"`
	Picture      string               `bson:"picture" json:"picture"`
	RefreshToken string               `bson:"refreshToken,omitempty" json:"-"`
	WatchHistory []primitive.ObjectID `bson:"watchHistory" json:"watchHistory"`
	CreatedAt    time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time            `bson:"updatedAt" json:"updatedAt"`
}

// ProfileUpdate lists fields to set atomically; nil fields are left untouched.
type ProfileUpdate struct {
	Username *string
	Email    *string
	Avatar   *string
	Picture  *string
}

// Empty reports whether the update sets nothing.
func (u ProfileUpdate) Empty() bool {
	return u.Username == nil && u.Email == nil && u.Avatar == nil && u.Picture == nil
}

// Actor is the authenticated caller established from a verified access token.
type Actor struct {
	ID       primitive.ObjectID
	Username string
	Email    string
}

// RegisterParams carries registration input. AvatarPath and PicturePath are
// local temporary files produced by the upload middleware.
type RegisterParams struct {
	Username    string
	Email       string
	Password    string
	AvatarPath  string
	PicturePath string
}

// LoginParams carries login input; one of Username or Email is required.
type LoginParams struct {
	Username string
	Email    string
	Password string
}

// RenewParams carries the refresh token from both possible sources.
type RenewParams struct {
	CookieToken string
	BodyToken   string
}

type ChangePasswordParams struct {
	OldPassword string
	NewPassword string
}

type UpdateDetailsParams struct {
	Username string
	Email    string
}

// LoginResult is the payload of a successful login. The tokens are also
// returned as cookies.
type LoginResult struct {
	User         User   `json:"user"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}
