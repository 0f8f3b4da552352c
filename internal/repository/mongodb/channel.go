package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/dtroode/streamhub-server/internal/model"
)

var _ model.ProfileStore = (*ProfileRepository)(nil)

// ProfileRepository runs the channel and watch-history aggregations over users.
type ProfileRepository struct {
	users *mongo.Collection
}

func NewProfileRepository(db *Connection) *ProfileRepository {
	return &ProfileRepository{users: db.Collection(usersCollection)}
}

func (r *ProfileRepository) ChannelProfile(ctx context.Context, username string, viewer primitive.ObjectID) (model.ChannelProfile, error) {
	cursor, err := r.users.Aggregate(ctx, channelProfilePipeline(username, viewer))
	if err != nil {
		return model.ChannelProfile{}, fmt.Errorf("failed to aggregate channel profile: %w", err)
	}

	var profiles []model.ChannelProfile
	if err := cursor.All(ctx, &profiles); err != nil {
		return model.ChannelProfile{}, fmt.Errorf("failed to decode channel profile: %w", err)
	}
	if len(profiles) == 0 {
		return model.ChannelProfile{}, model.ErrNotFound
	}

	return profiles[0], nil
}

func (r *ProfileRepository) WatchHistory(ctx context.Context, userID primitive.ObjectID) ([]model.WatchHistoryEntry, error) {
	cursor, err := r.users.Aggregate(ctx, watchHistoryPipeline(userID))
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate watch history: %w", err)
	}

	var docs []historyDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode watch history: %w", err)
	}
	if len(docs) == 0 {
		return []model.WatchHistoryEntry{}, nil
	}

	return docs[0].ordered(), nil
}
