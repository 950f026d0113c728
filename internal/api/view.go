package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pageza/recipe-catalog/internal/catalog"
	"github.com/pageza/recipe-catalog/internal/export"
	"github.com/pageza/recipe-catalog/internal/service"
)

// ViewHandler serves stateless views: the whole state travels in the query.
type ViewHandler struct {
	catalog  service.ICatalogService
	exporter *export.Exporter
}

// NewViewHandler creates a new ViewHandler instance
func NewViewHandler(catalogService service.ICatalogService, exporter *export.Exporter) *ViewHandler {
	return &ViewHandler{catalog: catalogService, exporter: exporter}
}

func (h *ViewHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/view", h.GetView)
	router.GET("/view/export", h.Export)
}

// GetView computes the page described by the query string.
func (h *ViewHandler) GetView(c *gin.Context) {
	state, err := catalog.ParseState(c.Request.URL.Query())
	if err != nil {
		badRequest(c, err)
		return
	}
	c.JSON(http.StatusOK, ViewResponse{View: h.catalog.View(state), State: state})
}

// Export streams every matching recipe, in view order, as CSV or XLSX.
func (h *ViewHandler) Export(c *gin.Context) {
	format, err := export.ParseFormat(c.DefaultQuery("format", string(export.CSV)))
	if err != nil {
		badRequest(c, err)
		return
	}
	query := c.Request.URL.Query()
	query.Del("format")
	state, err := catalog.ParseState(query)
	if err != nil {
		badRequest(c, err)
		return
	}

	filename := fmt.Sprintf("recettes-%s.%s", time.Now().Format("20060102"), format)
	c.Header("Content-Type", format.ContentType())
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Status(http.StatusOK)
	if err := h.exporter.Write(c.Writer, format, h.catalog.Matching(state)); err != nil {
		_ = c.Error(err)
	}
}
