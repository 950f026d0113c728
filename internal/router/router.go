package router

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/pageza/recipe-catalog/config"
	"github.com/pageza/recipe-catalog/internal/api"
	"github.com/pageza/recipe-catalog/internal/middleware"
)

// SetupRouter configures the application routes
func SetupRouter(cfg *config.Config, deps api.Dependencies, log logrus.FieldLogger) *gin.Engine {
	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middleware.RequestLogger(log))
	router.Use(middleware.CORS(cfg.CORSOrigins))

	deps.Log = log
	api.RegisterRoutes(router, deps)
	return router
}
