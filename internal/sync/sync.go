package sync

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"tasknest/internal/model"
	"tasknest/internal/store"
)

// Synchronizer applies planned ops against the stores. Each op is a single
// store statement; there is no transaction across them, so a failure mid-way
// leaves the remaining ops unapplied and surfaces to the caller unchanged.
type Synchronizer struct {
	tasks store.TaskStore
	users store.UserStore
}

// New creates a Synchronizer over the given stores.
func New(tasks store.TaskStore, users store.UserStore) *Synchronizer {
	return &Synchronizer{tasks: tasks, users: users}
}

// TaskWritten restores the invariant after a task create or replace.
// prevAssigned is the assignee before the write ("" on create).
func (s *Synchronizer) TaskWritten(ctx context.Context, t *model.Task, prevAssigned string) error {
	return s.applyPending(ctx, TaskWriteOps(t.ID.Hex(), t.Completed, t.AssignedUser, prevAssigned))
}

// TaskDeleted removes the deleted task from its assignee's pending list.
func (s *Synchronizer) TaskDeleted(ctx context.Context, t *model.Task) error {
	return s.applyPending(ctx, TaskDeleteOps(t.ID.Hex(), t.AssignedUser))
}

// UserReplaced restores the invariant after a full user replace. The
// assignment pass runs before drop candidates are computed, so a task
// re-added to the list is never unassigned within the same request.
func (s *Synchronizer) UserReplaced(ctx context.Context, u *model.User) error {
	userID := u.ID.Hex()

	assigns := AssignOps(userID, u.Name, u.PendingTasks)
	if err := s.tasks.AssignMany(ctx, opTaskIDs(assigns), userID, u.Name); err != nil {
		return err
	}

	current, err := s.tasks.FindAssignedPending(ctx, userID)
	if err != nil {
		return err
	}
	drops := DropOps(taskIDs(current), u.PendingTasks)
	return s.tasks.UnassignMany(ctx, opTaskIDs(drops))
}

// UserDeleting unassigns every pending task the user owns. The caller removes
// the user record afterwards; owned tasks are never deleted.
func (s *Synchronizer) UserDeleting(ctx context.Context, u *model.User) error {
	current, err := s.tasks.FindAssignedPending(ctx, u.ID.Hex())
	if err != nil {
		return err
	}
	drops := DropOps(taskIDs(current), nil)
	return s.tasks.UnassignMany(ctx, opTaskIDs(drops))
}

// applyPending executes add/remove pending-list ops one statement at a time.
// A user id that is not valid hex cannot address any user document, so the op
// is a no-op, matching the update-matches-nothing behavior of the store.
func (s *Synchronizer) applyPending(ctx context.Context, ops []Op) error {
	for _, op := range ops {
		uid, err := primitive.ObjectIDFromHex(op.UserID)
		if err != nil {
			continue
		}
		switch op.Kind {
		case OpAddPending:
			err = s.users.AddPendingTask(ctx, uid, op.TaskID)
		case OpRemovePending:
			err = s.users.RemovePendingTask(ctx, uid, op.TaskID)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func taskIDs(tasks []model.Task) []string {
	ids := make([]string, len(tasks))
	for i, t := range tasks {
		ids[i] = t.ID.Hex()
	}
	return ids
}

// opTaskIDs converts planned ops to object ids, skipping hex that cannot
// address a document.
func opTaskIDs(ops []Op) []primitive.ObjectID {
	ids := make([]primitive.ObjectID, 0, len(ops))
	for _, op := range ops {
		oid, err := primitive.ObjectIDFromHex(op.TaskID)
		if err != nil {
			continue
		}
		ids = append(ids, oid)
	}
	return ids
}
