package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/pageza/recipe-catalog/config"
	"github.com/pageza/recipe-catalog/internal/api"
	"github.com/pageza/recipe-catalog/internal/middleware"
	"github.com/pageza/recipe-catalog/internal/router"
)

// Server represents the HTTP server
type Server struct {
	router *gin.Engine
	http   *http.Server
	log    logrus.FieldLogger
}

// New creates a new server instance
func New(cfg *config.Config, deps api.Dependencies, log logrus.FieldLogger) *Server {
	r := router.SetupRouter(cfg, deps, log)
	return &Server{
		router: r,
		http: &http.Server{
			Addr:              cfg.Addr(),
			Handler:           middleware.ErrorHandler(log, r),
			ReadHeaderTimeout: 10 * time.Second,
		},
		log: log,
	}
}

// Handler is the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

// Start blocks serving HTTP until Shutdown is called.
func (s *Server) Start() error {
	s.log.WithField("addr", s.http.Addr).Info("starting HTTP server")
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("shutting down HTTP server")
	return s.http.Shutdown(ctx)
}
