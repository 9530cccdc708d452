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

var _ TaskStore = (*TaskRepo)(nil)

// TaskRepo is the Mongo-backed TaskStore.
type TaskRepo struct {
	coll *mongo.Collection
}

// NewTaskRepo creates a TaskRepo over the tasks collection.
func NewTaskRepo(db *mongo.Database) *TaskRepo {
	return &TaskRepo{coll: db.Collection("tasks")}
}

func (r *TaskRepo) List(ctx context.Context, q Query) ([]model.Task, error) {
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
	tasks := []model.Task{}
	if err := cur.All(ctx, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *TaskRepo) Count(ctx context.Context, filter bson.M) (int64, error) {
	if filter == nil {
		filter = bson.M{}
	}
	return r.coll.CountDocuments(ctx, filter)
}

func (r *TaskRepo) Get(ctx context.Context, id primitive.ObjectID, projection bson.M) (*model.Task, error) {
	opts := options.FindOne()
	if len(projection) > 0 {
		opts.SetProjection(projection)
	}
	var t model.Task
	err := r.coll.FindOne(ctx, bson.M{"_id": id}, opts).Decode(&t)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TaskRepo) Insert(ctx context.Context, t *model.Task) error {
	if t.ID.IsZero() {
		t.ID = primitive.NewObjectID()
	}
	if t.DateCreated.IsZero() {
		t.DateCreated = time.Now().UTC()
	}
	model.NormalizeTask(t)
	_, err := r.coll.InsertOne(ctx, t)
	return err
}

func (r *TaskRepo) Replace(ctx context.Context, t *model.Task) error {
	model.NormalizeTask(t)
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": t.ID}, t)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *TaskRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *TaskRepo) FindAssignedPending(ctx context.Context, userID string) ([]model.Task, error) {
	cur, err := r.coll.Find(ctx, bson.M{"assignedUser": userID, "completed": false})
	if err != nil {
		return nil, err
	}
	tasks := []model.Task{}
	if err := cur.All(ctx, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *TaskRepo) AssignMany(ctx context.Context, taskIDs []primitive.ObjectID, userID, userName string) error {
	if len(taskIDs) == 0 {
		return nil
	}
	_, err := r.coll.UpdateMany(ctx,
		bson.M{"_id": bson.M{"$in": taskIDs}, "completed": false},
		bson.M{"$set": bson.M{"assignedUser": userID, "assignedUserName": userName}},
	)
	return err
}

func (r *TaskRepo) UnassignMany(ctx context.Context, taskIDs []primitive.ObjectID) error {
	if len(taskIDs) == 0 {
		return nil
	}
	_, err := r.coll.UpdateMany(ctx,
		bson.M{"_id": bson.M{"$in": taskIDs}},
		bson.M{"$set": bson.M{"assignedUser": "", "assignedUserName": model.Unassigned}},
	)
	return err
}
