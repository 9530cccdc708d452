package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"tasknest/internal/model"
)

// caseInsensitive matches the collation of the unique email index.
var caseInsensitive = options.Collation{Locale: "en", Strength: 2}

var _ UserStore = (*UserRepo)(nil)

// UserRepo is the Mongo-backed UserStore.
type UserRepo struct {
	coll *mongo.Collection
}

// NewUserRepo creates a UserRepo over the users collection.
func NewUserRepo(db *mongo.Database) *UserRepo {
	return &UserRepo{coll: db.Collection("users")}
}

func (r *UserRepo) List(ctx context.Context, q Query) ([]model.User, error) {
	opts := options.Find()
	if len(q.Sort) > 0 {
		opts.SetSort(q.Sort)
	}
	if len(q.Projection) > 0 {
		opts.SetProjection(q.Projection)
	}
	if q.Skip > 0 {
		opts.SetSkip(q.Skip)
	}
	if q.Limit > 0 {
		opts.SetLimit(q.Limit)
	}
	filter := q.Filter
	if filter == nil {
		filter = bson.M{}
	}

	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	users := []model.User{}
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *UserRepo) Count(ctx context.Context, filter bson.M) (int64, error) {
	if filter == nil {
		filter = bson.M{}
	}
	return r.coll.CountDocuments(ctx, filter)
}

func (r *UserRepo) Get(ctx context.Context, id primitive.ObjectID, projection bson.M) (*model.User, error) {
	opts := options.FindOne()
	if len(projection) > 0 {
		opts.SetProjection(projection)
	}
	var u model.User
	err := r.coll.FindOne(ctx, bson.M{"_id": id}, opts).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) Insert(ctx context.Context, u *model.User) error {
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	if u.DateCreated.IsZero() {
		u.DateCreated = time.Now().UTC()
	}
	model.NormalizeUser(u)
	_, err := r.coll.InsertOne(ctx, u)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicateEmail
	}
	return err
}

func (r *UserRepo) Replace(ctx context.Context, u *model.User) error {
	model.NormalizeUser(u)
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": u.ID}, u)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicateEmail
	}
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *UserRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	opts := options.FindOne().SetCollation(&caseInsensitive)
	var u model.User
	err := r.coll.FindOne(ctx, bson.M{"email": email}, opts).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) AddPendingTask(ctx context.Context, userID primitive.ObjectID, taskID string) error {
	_, err := r.coll.UpdateByID(ctx, userID,
		bson.M{"$addToSet": bson.M{"pendingTasks": taskID}})
	return err
}

func (r *UserRepo) RemovePendingTask(ctx context.Context, userID primitive.ObjectID, taskID string) error {
	_, err := r.coll.UpdateByID(ctx, userID,
		bson.M{"$pull": bson.M{"pendingTasks": taskID}})
	return err
}
