package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/recipe-catalog/internal/catalog"
	"github.com/pageza/recipe-catalog/internal/service"
	"github.com/pageza/recipe-catalog/internal/session"
)

// SessionHandler keeps the view state server side, one state per session.
type SessionHandler struct {
	catalog  service.ICatalogService
	sessions session.Store
}

// NewSessionHandler creates a new SessionHandler instance
func NewSessionHandler(catalogService service.ICatalogService, sessions session.Store) *SessionHandler {
	return &SessionHandler{catalog: catalogService, sessions: sessions}
}

func (h *SessionHandler) RegisterRoutes(router *gin.RouterGroup) {
	sessions := router.Group("/sessions")
	{
		sessions.POST("", h.CreateSession)
		sessions.GET("/:id/view", h.GetView)
		sessions.POST("/:id/events", h.ApplyEvent)
		sessions.DELETE("/:id", h.DeleteSession)
	}
}

func (h *SessionHandler) CreateSession(c *gin.Context) {
	id, state, err := h.sessions.Create(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	view := h.catalog.View(state)
	c.JSON(http.StatusCreated, SessionResponse{ID: id, State: state, View: &view})
}

func (h *SessionHandler) GetView(c *gin.Context) {
	state, err := h.sessions.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ViewResponse{View: h.catalog.View(state), State: state})
}

// ApplyEvent runs one user interaction against the session state, saves
// the result and returns the new view.
func (h *SessionHandler) ApplyEvent(c *gin.Context) {
	id := c.Param("id")
	var event catalog.Event
	if err := c.ShouldBindJSON(&event); err != nil {
		badRequest(c, err)
		return
	}

	ctx := c.Request.Context()
	state, err := h.sessions.Get(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}
	next, err := state.Apply(event)
	if err != nil {
		badRequest(c, err)
		return
	}
	if err := h.sessions.Save(ctx, id, next); err != nil {
		respondError(c, err)
		return
	}

	view := h.catalog.View(next)
	c.JSON(http.StatusOK, SessionResponse{ID: id, State: next, View: &view})
}

func (h *SessionHandler) DeleteSession(c *gin.Context) {
	if err := h.sessions.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
