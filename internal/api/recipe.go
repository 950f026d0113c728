package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/recipe-catalog/internal/model"
	"github.com/pageza/recipe-catalog/internal/service"
)

// RecipeHandler passes recipe writes through to the store.
type RecipeHandler struct {
	catalog service.ICatalogService
}

// NewRecipeHandler creates a new RecipeHandler instance
func NewRecipeHandler(catalogService service.ICatalogService) *RecipeHandler {
	return &RecipeHandler{catalog: catalogService}
}

// RegisterRoutes mounts the recipe routes. write, when set, wraps every
// route that changes data.
func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup, write ...gin.HandlerFunc) {
	recipes := router.Group("/recipes")
	{
		recipes.GET("", h.ListRecipes)
		recipes.GET("/:id", h.GetRecipe)
		recipes.POST("", chain(write, h.CreateRecipe)...)
		recipes.PUT("/:id", chain(write, h.UpdateRecipe)...)
		recipes.DELETE("/:id", chain(write, h.DeleteRecipe)...)
		recipes.PUT("/:id/favorite", chain(write, h.ToggleFavorite)...)
	}
	router.POST("/refresh", chain(write, h.Refresh)...)
}

// ListRecipes returns the current in-memory list, unfiltered.
func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	recipes := h.catalog.Recipes()
	c.JSON(http.StatusOK, gin.H{
		"recipes":     recipes,
		"total":       len(recipes),
		"refreshedAt": h.catalog.LastRefresh(),
	})
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	recipe, err := h.catalog.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, recipe)
}

func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	var in model.RecipeInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	created, err := h.catalog.Create(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	var in model.RecipeInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	if err := h.catalog.Update(c.Request.Context(), c.Param("id"), in); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	if err := h.catalog.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *RecipeHandler) ToggleFavorite(c *gin.Context) {
	if err := h.catalog.ToggleFavorite(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Refresh reloads the list from the store on demand.
func (h *RecipeHandler) Refresh(c *gin.Context) {
	if err := h.catalog.Refresh(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"total":       len(h.catalog.Recipes()),
		"refreshedAt": h.catalog.LastRefresh(),
	})
}
