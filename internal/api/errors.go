package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/recipe-catalog/internal/client"
	"github.com/pageza/recipe-catalog/internal/media"
	"github.com/pageza/recipe-catalog/internal/middleware"
	"github.com/pageza/recipe-catalog/internal/session"
)

// statusFor maps domain errors to HTTP status codes. Anything unknown is
// treated as a failure of the upstream store.
func statusFor(err error) int {
	var statusErr *client.StatusError
	switch {
	case errors.Is(err, client.ErrNotFound), errors.Is(err, session.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, media.ErrInvalidImage):
		return http.StatusBadRequest
	case errors.As(err, &statusErr) && statusErr.Code >= 400 && statusErr.Code < 500:
		return statusErr.Code
	default:
		return http.StatusBadGateway
	}
}

func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	middleware.Logger(c).WithError(err).WithField("status", status).Warn("request failed")
	_ = c.Error(err)
	c.JSON(status, gin.H{"error": err.Error()})
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}
