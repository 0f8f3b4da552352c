package model

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProfileStore runs the read-only aggregation queries over users,
// subscriptions and videos.
type ProfileStore interface {
	// ChannelProfile returns ErrNotFound when no user has the given username.
	ChannelProfile(ctx context.Context, username string, viewer primitive.ObjectID) (ChannelProfile, error)
	// WatchHistory returns the history in stored order; never nil.
	WatchHistory(ctx context.Context, userID primitive.ObjectID) ([]WatchHistoryEntry, error)
}

// Subscription links a subscriber to a channel. Both sides are users.
type Subscription struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Subscriber primitive.ObjectID `bson:"subscriber" json:"subscriber"`
	Channel    primitive.ObjectID `bson:"channel" json:"channel"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
}

// Video is the joined document of a watch-history entry.
type Video struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	VideoFile   string             `bson:"videoFile" json:"videoFile"`
	Thumbnail   string             `bson:"thumbnail" json:"thumbnail"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description" json:"description"`
	Duration    float64            `bson:"duration" json:"duration"`
	Views       int64              `bson:"views" json:"views"`
	IsPublished bool               `bson:"isPublished" json:"isPublished"`
	Owner       primitive.ObjectID `bson:"owner" json:"owner"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}

// ChannelProfile is the public projection of a user viewed as a channel.
type ChannelProfile struct {
	ID                primitive.ObjectID `bson:"_id" json:"_id"`
	Username          string             `bson:"username" json:"username"`
	Email             string             `bson:"email" json:"email"`
	Avatar            string             `bson:"avatar" json:"avatar"`
	Picture           string             `bson:"picture" json:"picture"`
	SubscribersCount  int                `bson:"subscribersCount" json:"subscribersCount"`
	SubscribedToCount int                `bson:"subscribedToCount" json:"subscribedToCount"`
	IsSubscribed      bool               `bson:"isSubscribed" json:"isSubscribed"`
}

// OwnerSummary is the public subset of a video owner.
type OwnerSummary struct {
	ID       primitive.ObjectID `bson:"_id" json:"_id"`
	Username string             `bson:"username" json:"username"`
	Avatar   string             `bson:"avatar" json:"avatar"`
}

// WatchHistoryEntry is a watched video with its owner collapsed to a single
// summary. Owner is nil when the owner no longer exists.
type WatchHistoryEntry struct {
	ID          primitive.ObjectID `bson:"_id" json:"_id"`
	VideoFile   string             `bson:"videoFile" json:"videoFile"`
	Thumbnail   string             `bson:"thumbnail" json:"thumbnail"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description" json:"description"`
	Duration    float64            `bson:"duration" json:"duration"`
	Views       int64              `bson:"views" json:"views"`
	IsPublished bool               `bson:"isPublished" json:"isPublished"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	Owner       *OwnerSummary      `bson:"owner,omitempty" json:"owner"`
}
