package web

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"tasknest/internal/model"
	"tasknest/internal/store"
)

// defaultTaskLimit caps task listings when the client gives no limit.
const defaultTaskLimit = 100

// taskRequest is the create/replace body. Deadline is a pointer so a missing
// field is distinguishable from the zero time.
type taskRequest struct {
	Name             string     `json:"name"`
	Description      string     `json:"description"`
	Deadline         *time.Time `json:"deadline"`
	Completed        bool       `json:"completed"`
	AssignedUser     string     `json:"assignedUser"`
	AssignedUserName string     `json:"assignedUserName"`
}

func (r *taskRequest) validate() error {
	if r.Name == "" || r.Deadline == nil {
		return errors.New("name and deadline are required")
	}
	return nil
}

func (r *taskRequest) toTask() model.Task {
	return model.Task{
		Name:             r.Name,
		Description:      r.Description,
		Deadline:         *r.Deadline,
		Completed:        r.Completed,
		AssignedUser:     r.AssignedUser,
		AssignedUserName: r.AssignedUserName,
	}
}

func (s *Server) listTasks(c *gin.Context) {
	params, err := parseListParams(c)
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	ctx := c.Request.Context()

	if params.Count {
		n, err := s.tasks.Count(ctx, params.Query.Filter)
		if err != nil {
			fail(c, err)
			return
		}
		respond(c, http.StatusOK, "OK", n)
		return
	}

	if params.Query.Limit == 0 {
		params.Query.Limit = defaultTaskLimit
	}
	if len(params.Query.Sort) == 0 {
		params.Query.Sort = bson.D{{Key: "dateCreated", Value: -1}}
	}

	tasks, err := s.tasks.List(ctx, params.Query)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, "OK", tasks)
}

func (s *Server) createTask(c *gin.Context) {
	var req taskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}
	if err := req.validate(); err != nil {
		badRequest(c, err.Error())
		return
	}
	ctx := c.Request.Context()

	t := req.toTask()
	if err := s.resolveAssignee(ctx, &t); err != nil {
		fail(c, err)
		return
	}
	if err := s.tasks.Insert(ctx, &t); err != nil {
		fail(c, err)
		return
	}
	if err := s.syncer.TaskWritten(ctx, &t, ""); err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusCreated, "task created", t)
}

func (s *Server) getTask(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		fail(c, store.ErrNotFound)
		return
	}
	projection, err := parseProjection(c)
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	t, err := s.tasks.Get(c.Request.Context(), id, projection)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, "OK", t)
}

func (s *Server) replaceTask(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		fail(c, store.ErrNotFound)
		return
	}
	ctx := c.Request.Context()

	existing, err := s.tasks.Get(ctx, id, nil)
	if err != nil {
		fail(c, err)
		return
	}

	var req taskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}
	if err := req.validate(); err != nil {
		badRequest(c, err.Error())
		return
	}

	t := req.toTask()
	t.ID = id
	t.DateCreated = existing.DateCreated // immutable
	if err := s.resolveAssignee(ctx, &t); err != nil {
		fail(c, err)
		return
	}
	if err := s.tasks.Replace(ctx, &t); err != nil {
		fail(c, err)
		return
	}
	if err := s.syncer.TaskWritten(ctx, &t, existing.AssignedUser); err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, "task updated", t)
}

func (s *Server) deleteTask(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		fail(c, store.ErrNotFound)
		return
	}
	ctx := c.Request.Context()

	existing, err := s.tasks.Get(ctx, id, nil)
	if err != nil {
		fail(c, err)
		return
	}
	if err := s.tasks.Delete(ctx, id); err != nil {
		fail(c, err)
		return
	}
	if err := s.syncer.TaskDeleted(ctx, existing); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// resolveAssignee refreshes the cached assignee name on a task about to be
// written. A dangling or malformed assignedUser keeps whatever name the
// request carried; the cache is best-effort.
func (s *Server) resolveAssignee(ctx context.Context, t *model.Task) error {
	if t.AssignedUser == "" {
		t.AssignedUserName = model.Unassigned
		return nil
	}
	uid, err := primitive.ObjectIDFromHex(t.AssignedUser)
	if err != nil {
		return nil
	}
	u, err := s.users.Get(ctx, uid, nil)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	t.AssignedUserName = u.Name
	return nil
}
