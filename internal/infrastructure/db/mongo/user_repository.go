package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/videohub/account-service/internal/core/domain"
)

const (
	collectionUsers  = "users"
	collectionVideos = "videos"
)

// profileProjection strips credential material from user reads.
var profileProjection = bson.M{"password": 0, "refreshToken": 0}

type UserRepository struct {
	col *mongo.Collection
	now func() time.Time
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{
		col: db.Collection(collectionUsers),
		now: func() time.Time { return time.Now().UTC() },
	}
}

type mongoUser struct {
	ID           primitive.ObjectID   `bson:"_id,omitempty"`
	Username     string               `bson:"username"`
	Email        string               `bson:"email"`
	FullName     string               `bson:"fullName"`
	Avatar       string               `bson:"avatar"`
	CoverImage   string               `bson:"coverImage,omitempty"`
	WatchHistory []primitive.ObjectID `bson:"watchHistory"`
	Password     string               `bson:"password,omitempty"`
	RefreshToken string               `bson:"refreshToken,omitempty"`
	CreatedAt    time.Time            `bson:"createdAt"`
	UpdatedAt    time.Time            `bson:"updatedAt"`
}

func (m *mongoUser) toDomain() *domain.User {
	history := make([]string, 0, len(m.WatchHistory))
	for _, id := range m.WatchHistory {
		history = append(history, id.Hex())
	}
	return &domain.User{
		ID:           m.ID.Hex(),
		Username:     m.Username,
		Email:        m.Email,
		FullName:     m.FullName,
		Avatar:       m.Avatar,
		CoverImage:   m.CoverImage,
		WatchHistory: history,
		PasswordHash: m.Password,
		RefreshToken: m.RefreshToken,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

// objectID parses a hex id. Malformed ids cannot match any user.
func objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, domain.ErrUserNotFound
	}
	return oid, nil
}

// Create hashes the password and inserts the user.
func (r *UserRepository) Create(ctx context.Context, in *domain.NewUser) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	hash, err := domain.HashPassword(in.Password)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	now := r.now()
	doc := mongoUser{
		ID:           primitive.NewObjectID(),
		Username:     in.Username,
		Email:        in.Email,
		FullName:     in.FullName,
		Avatar:       in.Avatar,
		CoverImage:   in.CoverImage,
		WatchHistory: []primitive.ObjectID{},
		Password:     hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", domain.ErrUserExists
		}
		return "", fmt.Errorf("insert user: %w", err)
	}
	return doc.ID.Hex(), nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *UserRepository) FindProfileByID(ctx context.Context, id string) (*domain.User, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	return r.findOne(ctx, bson.M{"_id": oid}, options.FindOne().SetProjection(profileProjection))
}

func (r *UserRepository) FindByEmailOrUsername(ctx context.Context, email, username string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"$or": bson.A{
		bson.M{"email": email},
		bson.M{"username": username},
	}})
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M, opts ...*options.FindOneOptions) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mu mongoUser
	if err := r.col.FindOne(ctx, filter, opts...).Decode(&mu); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return mu.toDomain(), nil
}

func (r *UserRepository) SetRefreshToken(ctx context.Context, id, token string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	matched, err := r.updateOne(ctx, bson.M{"_id": oid}, bson.M{
		"$set": bson.M{"refreshToken": token, "updatedAt": r.now()},
	})
	if err != nil {
		return err
	}
	if !matched {
		return domain.ErrUserNotFound
	}
	return nil
}

// RotateRefreshToken swaps the token only while the stored one equals current.
// Two concurrent refreshes with the same token cannot both match.
func (r *UserRepository) RotateRefreshToken(ctx context.Context, id, current, next string) (bool, error) {
	oid, err := objectID(id)
	if err != nil {
		return false, err
	}
	return r.updateOne(ctx, bson.M{"_id": oid, "refreshToken": current}, bson.M{
		"$set": bson.M{"refreshToken": next, "updatedAt": r.now()},
	})
}

func (r *UserRepository) ClearRefreshToken(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	matched, err := r.updateOne(ctx, bson.M{"_id": oid}, bson.M{
		"$unset": bson.M{"refreshToken": 1},
		"$set":   bson.M{"updatedAt": r.now()},
	})
	if err != nil {
		return err
	}
	if !matched {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id, password string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	hash, err := domain.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	matched, err := r.updateOne(ctx, bson.M{"_id": oid}, bson.M{
		"$set": bson.M{"password": hash, "updatedAt": r.now()},
	})
	if err != nil {
		return err
	}
	if !matched {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) updateOne(ctx context.Context, filter, update bson.M) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("update user: %w", err)
	}
	return res.MatchedCount > 0, nil
}

func (r *UserRepository) UpdateDetails(ctx context.Context, id, fullName, email string) (*domain.User, error) {
	return r.findAndSet(ctx, id, bson.M{"fullName": fullName, "email": email})
}

func (r *UserRepository) UpdateMedia(ctx context.Context, id string, field domain.MediaField, url string) (*domain.User, error) {
	switch field {
	case domain.MediaAvatar, domain.MediaCoverImage:
	default:
		return nil, fmt.Errorf("unknown media field %q", field)
	}
	return r.findAndSet(ctx, id, bson.M{string(field): url})
}

// findAndSet applies $set and returns the updated profile.
func (r *UserRepository) findAndSet(ctx context.Context, id string, set bson.M) (*domain.User, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	set["updatedAt"] = r.now()
	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetProjection(profileProjection)

	var mu mongoUser
	err = r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&mu)
	if err != nil {
		switch {
		case errors.Is(err, mongo.ErrNoDocuments):
			return nil, domain.ErrUserNotFound
		case mongo.IsDuplicateKeyError(err):
			return nil, domain.ErrUserExists
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	return mu.toDomain(), nil
}

type mongoVideoOwner struct {
	ID       primitive.ObjectID `bson:"_id"`
	FullName string             `bson:"fullName"`
	Username string             `bson:"username"`
	Avatar   string             `bson:"avatar"`
}

type mongoVideo struct {
	ID          primitive.ObjectID `bson:"_id"`
	Title       string             `bson:"title"`
	Description string             `bson:"description"`
	VideoFile   string             `bson:"videoFile"`
	Thumbnail   string             `bson:"thumbnail"`
	Duration    float64            `bson:"duration"`
	Views       int64              `bson:"views"`
	IsPublished bool               `bson:"isPublished"`
	Owner       *mongoVideoOwner   `bson:"owner,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt"`
}

// WatchHistory resolves the user's watch history into videos with their owner
// embedded.
func (r *UserRepository) WatchHistory(ctx context.Context, id string) ([]domain.Video, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"_id": oid}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         collectionVideos,
			"localField":   "watchHistory",
			"foreignField": "_id",
			"as":           "watchHistory",
			"pipeline": bson.A{
				bson.M{"$lookup": bson.M{
					"from":         collectionUsers,
					"localField":   "owner",
					"foreignField": "_id",
					"as":           "owner",
					"pipeline": bson.A{
						bson.M{"$project": bson.M{"fullName": 1, "username": 1, "avatar": 1}},
					},
				}},
				bson.M{"$addFields": bson.M{"owner": bson.M{"$first": "$owner"}}},
			},
		}}},
		{{Key: "$project", Value: bson.M{"watchHistory": 1}}},
	}

	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate watch history: %w", err)
	}
	defer cur.Close(ctx)

	var rows []struct {
		WatchHistory []mongoVideo `bson:"watchHistory"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("decode watch history: %w", err)
	}
	if len(rows) == 0 {
		return nil, domain.ErrUserNotFound
	}

	videos := make([]domain.Video, 0, len(rows[0].WatchHistory))
	for _, v := range rows[0].WatchHistory {
		video := domain.Video{
			ID:          v.ID.Hex(),
			Title:       v.Title,
			Description: v.Description,
			VideoFile:   v.VideoFile,
			Thumbnail:   v.Thumbnail,
			Duration:    v.Duration,
			Views:       v.Views,
			IsPublished: v.IsPublished,
			CreatedAt:   v.CreatedAt,
		}
		if v.Owner != nil {
			video.Owner = &domain.VideoOwner{
				ID:       v.Owner.ID.Hex(),
				FullName: v.Owner.FullName,
				Username: v.Owner.Username,
				Avatar:   v.Owner.Avatar,
			}
		}
		videos = append(videos, video)
	}
	return videos, nil
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// EnsureIndexes creates the unique identity indexes on the users collection.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "fullName", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
