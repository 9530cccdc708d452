package web

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"tasknest/internal/model"
	"tasknest/internal/store"
)

// userRequest is the create/replace body.
type userRequest struct {
	Name         string   `json:"name"`
	Email        string   `json:"email"`
	PendingTasks []string `json:"pendingTasks"`
}

func (r *userRequest) validate() error {
	if r.Name == "" || r.Email == "" {
		return errors.New("name and email are required")
	}
	return nil
}

func (s *Server) listUsers(c *gin.Context) {
	params, err := parseListParams(c)
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	ctx := c.Request.Context()

	if params.Count {
		n, err := s.users.Count(ctx, params.Query.Filter)
		if err != nil {
			fail(c, err)
			return
		}
		respond(c, http.StatusOK, "OK", n)
		return
	}

	// Unlike tasks, user listings have no default cap or order.
	users, err := s.users.List(ctx, params.Query)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, "OK", users)
}

func (s *Server) createUser(c *gin.Context) {
	var req userRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}
	if err := req.validate(); err != nil {
		badRequest(c, err.Error())
		return
	}
	ctx := c.Request.Context()

	u := model.User{
		Name:         req.Name,
		Email:        req.Email,
		PendingTasks: req.PendingTasks,
	}
	if err := s.users.Insert(ctx, &u); err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusCreated, "user created", u)
}

func (s *Server) getUser(c *gin.Context) {
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

	u, err := s.users.Get(c.Request.Context(), id, projection)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, "OK", u)
}

func (s *Server) replaceUser(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		fail(c, store.ErrNotFound)
		return
	}
	ctx := c.Request.Context()

	existing, err := s.users.Get(ctx, id, nil)
	if err != nil {
		fail(c, err)
		return
	}

	var req userRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}
	if err := req.validate(); err != nil {
		badRequest(c, err.Error())
		return
	}

	u := model.User{
		ID:           id,
		Name:         req.Name,
		Email:        req.Email,
		PendingTasks: req.PendingTasks,
		DateCreated:  existing.DateCreated, // immutable
	}
	if err := s.users.Replace(ctx, &u); err != nil {
		fail(c, err)
		return
	}
	if err := s.syncer.UserReplaced(ctx, &u); err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, "user updated", u)
}

func (s *Server) deleteUser(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		fail(c, store.ErrNotFound)
		return
	}
	ctx := c.Request.Context()

	existing, err := s.users.Get(ctx, id, nil)
	if err != nil {
		fail(c, err)
		return
	}
	// Unassign owned tasks first, then drop the record. Owned tasks survive.
	if err := s.syncer.UserDeleting(ctx, existing); err != nil {
		fail(c, err)
		return
	}
	if err := s.users.Delete(ctx, id); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
