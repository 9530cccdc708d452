// Package sync keeps Task.assignedUser and User.pendingTasks consistent.
//
// The rules live in pure planner functions that take before/after state and
// return the side-effect operations required; the Synchronizer applies them
// against the stores. Planners never touch a store.
package sync

import "go.mongodb.org/mongo-driver/bson/primitive"

// OpKind identifies a planned side effect.
type OpKind string

const (
	// OpAddPending adds TaskID to UserID's pendingTasks.
	OpAddPending OpKind = "add-pending"
	// OpRemovePending removes TaskID from UserID's pendingTasks.
	OpRemovePending OpKind = "remove-pending"
	// OpAssign points TaskID at UserID/UserName.
	OpAssign OpKind = "assign"
	// OpUnassign clears TaskID's assignment.
	OpUnassign OpKind = "unassign"
)

// Op is one required store update. Ids are hex strings, as stored in the
// assignedUser and pendingTasks fields.
type Op struct {
	Kind     OpKind
	TaskID   string
	UserID   string
	UserName string
}

// TaskWriteOps plans the user-side updates after a task create or replace.
// prevAssignedUser is the task's assignee before the write ("" on create).
//
// The three rules are independent and all evaluated: a completed task with a
// changed assignee yields both a removal from the previous assignee and a
// removal from the current one.
func TaskWriteOps(taskID string, completed bool, assignedUser, prevAssignedUser string) []Op {
	var ops []Op
	if !completed && assignedUser != "" {
		ops = append(ops, Op{Kind: OpAddPending, TaskID: taskID, UserID: assignedUser})
	}
	if prevAssignedUser != "" && prevAssignedUser != assignedUser {
		ops = append(ops, Op{Kind: OpRemovePending, TaskID: taskID, UserID: prevAssignedUser})
	}
	if completed && assignedUser != "" {
		ops = append(ops, Op{Kind: OpRemovePending, TaskID: taskID, UserID: assignedUser})
	}
	return ops
}

// TaskDeleteOps plans the user-side update after a task delete: the id is
// pulled from the assignee's pending list, whatever the completion state.
func TaskDeleteOps(taskID, assignedUser string) []Op {
	if assignedUser == "" {
		return nil
	}
	return []Op{{Kind: OpRemovePending, TaskID: taskID, UserID: assignedUser}}
}

// AssignOps plans pass one of a user replace: every task named in the new
// pendingTasks list is pointed at the user. Entries that are not valid hex
// object ids cannot address a task and are skipped.
func AssignOps(userID, userName string, pendingTasks []string) []Op {
	var ops []Op
	for _, taskID := range pendingTasks {
		if _, err := primitive.ObjectIDFromHex(taskID); err != nil {
			continue
		}
		ops = append(ops, Op{Kind: OpAssign, TaskID: taskID, UserID: userID, UserName: userName})
	}
	return ops
}

// DropOps plans pass two of a user replace: tasks that were assigned and
// pending before the write but are absent from the new pendingTasks list get
// their assignment cleared.
func DropOps(assignedPending []string, pendingTasks []string) []Op {
	keep := make(map[string]bool, len(pendingTasks))
	for _, id := range pendingTasks {
		keep[id] = true
	}
	var ops []Op
	for _, taskID := range assignedPending {
		if keep[taskID] {
			continue
		}
		ops = append(ops, Op{Kind: OpUnassign, TaskID: taskID})
	}
	return ops
}
