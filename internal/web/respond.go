package web

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"tasknest/internal/store"
)

// respond writes the {message, data} envelope every endpoint uses.
func respond(c *gin.Context, status int, message string, data any) {
	c.JSON(status, gin.H{"message": message, "data": data})
}

// fail maps a store error to a response. Anything unrecognized is a 500 with
// a generic message; the detail goes to the log, not the client.
func fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		respond(c, http.StatusNotFound, "not found", gin.H{})
	case errors.Is(err, store.ErrDuplicateEmail):
		respond(c, http.StatusBadRequest, store.ErrDuplicateEmail.Error(), gin.H{})
	default:
		slog.Error("request failed",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"err", err)
		respond(c, http.StatusInternalServerError, "internal server error", gin.H{})
	}
}

// badRequest reports a validation or parse failure.
func badRequest(c *gin.Context, message string) {
	respond(c, http.StatusBadRequest, message, gin.H{})
}
