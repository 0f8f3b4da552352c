package mongodb

import (
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/dtroode/streamhub-server/internal/model"
)

// channelProfilePipeline matches one user by username, joins its subscription
// edges from both sides and projects the public channel fields. Stage order
// is significant.
func channelProfilePipeline(username string, viewer primitive.ObjectID) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "username", Value: strings.ToLower(username)}}}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: subscriptionsCollection},
			{Key: "localField", Value: "_id"},
			{Key: "foreignField", Value: "channel"},
			{Key: "as", Value: "subscribers"},
		}}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: subscriptionsCollection},
			{Key: "localField", Value: "_id"},
			{Key: "foreignField", Value: "subscriber"},
			{Key: "as", Value: "subscribedTo"},
		}}},
		{{Key: "$addFields", Value: bson.D{
			{Key: "subscribersCount", Value: bson.D{{Key: "$size", Value: "$subscribers"}}},
			{Key: "subscribedToCount", Value: bson.D{{Key: "$size", Value: "$subscribedTo"}}},
			{Key: "isSubscribed", Value: bson.D{{Key: "$cond", Value: bson.D{
				{Key: "if", Value: bson.D{{Key: "$in", Value: bson.A{viewer, "$subscribers.subscriber"}}}},
				{Key: "then", Value: true},
				{Key: "else", Value: false},
			}}}},
		}}},
		{{Key: "$project", Value: bson.D{
			{Key: "username", Value: 1},
			{Key: "email", Value: 1},
			{Key: "avatar", Value: 1},
			{Key: "picture", Value: 1},
			{Key: "subscribersCount", Value: 1},
			{Key: "subscribedToCount", Value: 1},
			{Key: "isSubscribed", Value: 1},
		}}},
	}
}

// watchHistoryPipeline matches one user and joins the videos referenced by
// its watch history, each with the owner collapsed to {_id, username, avatar}.
// $lookup does not keep the order of localField, so the stored id list is
// projected alongside the joined videos.
func watchHistoryPipeline(userID primitive.ObjectID) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "_id", Value: userID}}}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: videosCollection},
			{Key: "localField", Value: "watchHistory"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "history"},
			{Key: "pipeline", Value: mongo.Pipeline{
				{{Key: "$lookup", Value: bson.D{
					{Key: "from", Value: usersCollection},
					{Key: "localField", Value: "owner"},
					{Key: "foreignField", Value: "_id"},
					{Key: "as", Value: "owner"},
					{Key: "pipeline", Value: mongo.Pipeline{
						{{Key: "$project", Value: bson.D{
							{Key: "username", Value: 1},
							{Key: "avatar", Value: 1},
						}}},
					}},
				}}},
				{{Key: "$addFields", Value: bson.D{
					{Key: "owner", Value: bson.D{{Key: "$first", Value: "$owner"}}},
				}}},
			}},
		}}},
		{{Key: "$project", Value: bson.D{
			{Key: "watchHistory", Value: 1},
			{Key: "history", Value: 1},
		}}},
	}
}

// historyDocument is the single result of watchHistoryPipeline.
type historyDocument struct {
	WatchHistory []primitive.ObjectID      `bson:"watchHistory"`
	History      []model.WatchHistoryEntry `bson:"history"`
}

// ordered re-emits the joined videos in stored list order. Repeated ids are
// repeated; ids whose video no longer exists are skipped.
func (d historyDocument) ordered() []model.WatchHistoryEntry {
	byID := make(map[primitive.ObjectID]model.WatchHistoryEntry, len(d.History))
	for _, entry := range d.History {
		byID[entry.ID] = entry
	}

	out := make([]model.WatchHistoryEntry, 0, len(d.WatchHistory))
	for _, id := range d.WatchHistory {
		if entry, ok := byID[id]; ok {
			out = append(out, entry)
		}
	}
	return out
}
