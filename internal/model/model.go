// Package model defines the Task and User documents.
package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Unassigned is the display name carried by tasks with no assignee.
const Unassigned = "unassigned"

// Task is a unit of work, optionally assigned to a single user.
//
// AssignedUser holds the hex id of the assignee or "" when unassigned.
// AssignedUserName is a denormalized copy of the assignee's name, refreshed
// on writes that touch the assignment; it is allowed to go stale if the user
// is later renamed without its task list changing.
type Task struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name             string             `bson:"name" json:"name"`
	Description      string             `bson:"description" json:"description"`
	Deadline         time.Time          `bson:"deadline" json:"deadline"`
	Completed        bool               `bson:"completed" json:"completed"`
	AssignedUser     string             `bson:"assignedUser" json:"assignedUser"`
	AssignedUserName string             `bson:"assignedUserName" json:"assignedUserName"`
	DateCreated      time.Time          `bson:"dateCreated" json:"dateCreated"`
}

// User owns an ordered list of pending task ids. PendingTasks mirrors the set
// of tasks whose assignedUser points at this user and which are not completed.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name         string             `bson:"name" json:"name"`
	Email        string             `bson:"email" json:"email"`
	PendingTasks []string           `bson:"pendingTasks" json:"pendingTasks"`
	DateCreated  time.Time          `bson:"dateCreated" json:"dateCreated"`
}

// NormalizeTask fills defaults on a task about to be written.
func NormalizeTask(t *Task) {
	if t.AssignedUserName == "" {
		t.AssignedUserName = Unassigned
	}
}

// NormalizeUser fills defaults on a user about to be written.
func NormalizeUser(u *User) {
	if u.PendingTasks == nil {
		u.PendingTasks = []string{}
	}
}
