// Package web exposes the REST API over the task and user stores.
package web

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"tasknest/internal/store"
	"tasknest/internal/sync"
)

// Pinger reports store connectivity for the health endpoint.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server holds the router and the dependencies handlers need.
type Server struct {
	tasks  store.TaskStore
	users  store.UserStore
	syncer *sync.Synchronizer
	pinger Pinger
	router *gin.Engine
}

// NewServer wires the routes. pinger may be nil; /healthz then only reports
// liveness.
func NewServer(tasks store.TaskStore, users store.UserStore, syncer *sync.Synchronizer, pinger Pinger) *Server {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery(), requestID())

	s := &Server{
		tasks:  tasks,
		users:  users,
		syncer: syncer,
		pinger: pinger,
		router: router,
	}

	router.GET("/healthz", s.handleHealth)

	router.GET("/tasks", s.listTasks)
	router.POST("/tasks", s.createTask)
	router.GET("/tasks/:id", s.getTask)
	router.PUT("/tasks/:id", s.replaceTask)
	router.DELETE("/tasks/:id", s.deleteTask)

	router.GET("/users", s.listUsers)
	router.POST("/users", s.createUser)
	router.GET("/users/:id", s.getUser)
	router.PUT("/users/:id", s.replaceUser)
	router.DELETE("/users/:id", s.deleteUser)

	return s
}

// Handler returns the router for use with an http.Server.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run starts the server on addr.
func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}

func (s *Server) handleHealth(c *gin.Context) {
	if s.pinger != nil {
		if err := s.pinger.Ping(c.Request.Context()); err != nil {
			respond(c, http.StatusServiceUnavailable, "store unreachable", gin.H{})
			return
		}
	}
	respond(c, http.StatusOK, "OK", gin.H{})
}

// requestID tags each request with an X-Request-ID, generating one when the
// client did not send any.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Writer.Header().Set("X-Request-ID", id)
		c.Next()
	}
}
