// Package store persists tasks and users in MongoDB behind narrow interfaces
// so the synchronizer and handlers can be tested against in-memory fakes.
package store

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"tasknest/internal/model"
)

// ErrNotFound is returned when a document addressed by id does not exist.
var ErrNotFound = errors.New("not found")

// ErrDuplicateEmail is returned when a write would violate the unique,
// case-insensitive email constraint on users.
var ErrDuplicateEmail = errors.New("email already in use")

// Query carries store-native list parameters parsed from the request.
type Query struct {
	Filter     bson.M
	Sort       bson.D
	Projection bson.M
	Skip       int64
	Limit      int64 // 0 means no cap
}

// TaskStore is the persistence surface for tasks.
type TaskStore interface {
	List(ctx context.Context, q Query) ([]model.Task, error)
	Count(ctx context.Context, filter bson.M) (int64, error)
	Get(ctx context.Context, id primitive.ObjectID, projection bson.M) (*model.Task, error)
	Insert(ctx context.Context, t *model.Task) error
	Replace(ctx context.Context, t *model.Task) error
	Delete(ctx context.Context, id primitive.ObjectID) error

	// FindAssignedPending returns the tasks currently assigned to the given
	// user (by hex id) and not completed.
	FindAssignedPending(ctx context.Context, userID string) ([]model.Task, error)

	// AssignMany points the given tasks at a user. Completed tasks matched by
	// id are left untouched.
	AssignMany(ctx context.Context, taskIDs []primitive.ObjectID, userID, userName string) error

	// UnassignMany clears the assignment fields on the given tasks.
	UnassignMany(ctx context.Context, taskIDs []primitive.ObjectID) error
}

// UserStore is the persistence surface for users.
type UserStore interface {
	List(ctx context.Context, q Query) ([]model.User, error)
	Count(ctx context.Context, filter bson.M) (int64, error)
	Get(ctx context.Context, id primitive.ObjectID, projection bson.M) (*model.User, error)
	Insert(ctx context.Context, u *model.User) error
	Replace(ctx context.Context, u *model.User) error
	Delete(ctx context.Context, id primitive.ObjectID) error

	// FindByEmail matches case-insensitively. Returns ErrNotFound when no
	// user has the email.
	FindByEmail(ctx context.Context, email string) (*model.User, error)

	// AddPendingTask adds a task id to the user's pending list. Idempotent:
	// an id already present is not duplicated.
	AddPendingTask(ctx context.Context, userID primitive.ObjectID, taskID string) error

	// RemovePendingTask removes a task id from the user's pending list.
	RemovePendingTask(ctx context.Context, userID primitive.ObjectID, taskID string) error
}
