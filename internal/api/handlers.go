package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/pageza/recipe-catalog/internal/database"
	"github.com/pageza/recipe-catalog/internal/export"
	"github.com/pageza/recipe-catalog/internal/media"
	"github.com/pageza/recipe-catalog/internal/middleware"
	"github.com/pageza/recipe-catalog/internal/service"
	"github.com/pageza/recipe-catalog/internal/session"
)

// Dependencies are the collaborators of the HTTP API. Sessions, Images,
// Limiter and DB are optional; their routes or checks are skipped when nil.
type Dependencies struct {
	Catalog  service.ICatalogService
	Exporter *export.Exporter
	Sessions session.Store
	Images   media.IImageStore
	Limiter  *middleware.RateLimiter
	DB       *gorm.DB
	Log      logrus.FieldLogger
}

// HealthCheck returns the health status of the API
func HealthCheck(deps Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := http.StatusOK
		body := gin.H{
			"status":      "healthy",
			"recipes":     len(deps.Catalog.Recipes()),
			"refreshedAt": deps.Catalog.LastRefresh().Format(time.RFC3339),
		}
		if deps.DB != nil {
			if err := database.HealthCheck(deps.DB); err != nil {
				status = http.StatusServiceUnavailable
				body["status"] = "unhealthy"
				body["database"] = err.Error()
			}
		}
		c.JSON(status, body)
	}
}

// RegisterRoutes registers all API routes under /api/v1
func RegisterRoutes(router *gin.Engine, deps Dependencies) {
	log := deps.Log
	if log == nil {
		log = logrus.StandardLogger()
	}
	if deps.Exporter == nil {
		deps.Exporter = export.NewExporter(nil)
	}

	router.GET("/health", HealthCheck(deps))

	var write []gin.HandlerFunc
	if deps.Limiter != nil {
		write = append(write, deps.Limiter.Middleware())
	} else {
		log.Warn("rate limiting disabled: redis not configured")
	}

	v1 := router.Group("/api/v1")
	NewViewHandler(deps.Catalog, deps.Exporter).RegisterRoutes(v1)
	NewRecipeHandler(deps.Catalog).RegisterRoutes(v1, write...)

	if deps.Sessions != nil {
		NewSessionHandler(deps.Catalog, deps.Sessions).RegisterRoutes(v1)
	} else {
		log.Warn("sessions disabled: redis not configured")
	}
	if deps.Images != nil {
		NewImageHandler(deps.Images).RegisterRoutes(v1, write...)
	} else {
		log.Warn("image uploads disabled: S3 bucket not configured")
	}
}

func chain(mw []gin.HandlerFunc, handler gin.HandlerFunc) []gin.HandlerFunc {
	handlers := make([]gin.HandlerFunc, 0, len(mw)+1)
	handlers = append(handlers, mw...)
	return append(handlers, handler)
}
