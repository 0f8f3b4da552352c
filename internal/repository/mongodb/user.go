package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dtroode/streamhub-server/internal/model"
)

var _ model.UserStore = (*UserRepository)(nil)

// sanitizedProjection hides credential fields from every client-facing read.
var sanitizedProjection = bson.D{
	{Key: "password", Value: 0},
	{Key: "refreshToken", Value: 0},
}

type UserRepository struct {
	col *mongo.Collection
	now func() time.Time
}

func NewUserRepository(db *Connection) *UserRepository {
	return &UserRepository{
		col: db.Collection(usersCollection),
		now: time.Now,
	}
}

func (r *UserRepository) GetByID(ctx context.Context, id primitive.ObjectID) (model.User, error) {
	var user model.User
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to get user by id: %w", err)
	}

	return user, nil
}

func (r *UserRepository) GetSanitizedByID(ctx context.Context, id primitive.ObjectID) (model.User, error) {
	var user model.User
	opts := options.FindOne().SetProjection(sanitizedProjection)
	err := r.col.FindOne(ctx, bson.M{"_id": id}, opts).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to get sanitized user by id: %w", err)
	}

	return user, nil
}

func (r *UserRepository) FindByUsernameOrEmail(ctx context.Context, username, email string) (model.User, error) {
	filter, ok := usernameOrEmailFilter(username, email)
	if !ok {
		return model.User{}, model.ErrNotFound
	}

	var user model.User
	err := r.col.FindOne(ctx, filter).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to find user by username or email: %w", err)
	}

	return user, nil
}

func (r *UserRepository) Create(ctx context.Context, user model.User) (primitive.ObjectID, error) {
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	if user.WatchHistory == nil {
		user.WatchHistory = []primitive.ObjectID{}
	}

	_, err := r.col.InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, model.ErrDuplicate
		}
		return primitive.NilObjectID, fmt.Errorf("failed to create user: %w", err)
	}

	return user.ID, nil
}

func (r *UserRepository) SetRefreshToken(ctx context.Context, id primitive.ObjectID, token string) error {
	return r.updateOne(ctx, id, bson.M{
		"$set": bson.M{"refreshToken": token, "updatedAt": r.now().UTC()},
	}, "set refresh token")
}

func (r *UserRepository) ClearRefreshToken(ctx context.Context, id primitive.ObjectID) error {
	return r.updateOne(ctx, id, bson.M{
		"$unset": bson.M{"refreshToken": ""},
		"$set":   bson.M{"updatedAt": r.now().UTC()},
	}, "clear refresh token")
}

func (r *UserRepository) SetPassword(ctx context.Context, id primitive.ObjectID, digest string) error {
	return r.updateOne(ctx, id, bson.M{
		"$set": bson.M{"password": digest, "updatedAt": r.now().UTC()},
	}, "set password")
}

func (r *UserRepository) UpdateProfile(ctx context.Context, id primitive.ObjectID, update model.ProfileUpdate) (model.User, error) {
	if update.Empty() {
		return r.GetSanitizedByID(ctx, id)
	}

	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetProjection(sanitizedProjection)

	var user model.User
	err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": profileSet(update, r.now().UTC())}, opts).Decode(&user)
	if err != nil {
		switch {
		case errors.Is(err, mongo.ErrNoDocuments):
			return model.User{}, model.ErrNotFound
		case mongo.IsDuplicateKeyError(err):
			return model.User{}, model.ErrDuplicate
		}
		return model.User{}, fmt.Errorf("failed to update profile: %w", err)
	}

	return user, nil
}

// updateOne touches only the fields in update; other stored fields are not revalidated.
func (r *UserRepository) updateOne(ctx context.Context, id primitive.ObjectID, update bson.M, op string) error {
	res, err := r.col.UpdateByID(ctx, id, update)
	if err != nil {
		return fmt.Errorf("failed to %s: %w", op, err)
	}
	if res.MatchedCount == 0 {
		return model.ErrNotFound
	}
	return nil
}

// usernameOrEmailFilter builds an $or over the non-empty criteria.
func usernameOrEmailFilter(username, email string) (bson.M, bool) {
	var or bson.A
	if username != "" {
		or = append(or, bson.M{"username": username})
	}
	if email != "" {
		or = append(or, bson.M{"email": email})
	}
	if len(or) == 0 {
		return nil, false
	}
	return bson.M{"$or": or}, true
}

func profileSet(update model.ProfileUpdate, now time.Time) bson.M {
	set := bson.M{"updatedAt": now}
	if update.Username != nil {
		set["username"] = *update.Username
	}
	if update.Email != nil {
		set["email"] = *update.Email
	}
	if update.Avatar != nil {
		set["avatar"] = *update.Avatar
	}
	if update.Picture != nil {
		set["picture"] = *update.Picture
	}
	return set
}
