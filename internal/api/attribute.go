package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pantrybox/pantrybox-backend/internal/models"
	"github.com/pantrybox/pantrybox-backend/internal/service"
	"github.com/pantrybox/pantrybox-backend/internal/types"
)

// AttributeHandler serves tags and ingredients from one generic
// implementation; the two resources differ only in route path and table.
type AttributeHandler[T service.OwnedAttribute] struct {
	attributeService *service.AttributeService[T]
	resource         string
}

func NewTagHandler(tagService *service.AttributeService[models.Tag]) *AttributeHandler[models.Tag] {
	return &AttributeHandler[models.Tag]{attributeService: tagService, resource: "tags"}
}

func NewIngredientHandler(ingredientService *service.AttributeService[models.Ingredient]) *AttributeHandler[models.Ingredient] {
	return &AttributeHandler[models.Ingredient]{attributeService: ingredientService, resource: "ingredients"}
}

func (h *AttributeHandler[T]) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/" + h.resource)
	{
		group.GET("", h.List)
		group.POST("", h.Create)
		group.PUT("/:id", h.Replace)
		group.PATCH("/:id", h.Update)
		group.DELETE("/:id", h.Delete)
	}
}

func (h *AttributeHandler[T]) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	items, err := h.attributeService.List(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch " + h.resource})
		return
	}

	c.JSON(http.StatusOK, gin.H{h.resource: newAttributeResponses(items)})
}

func (h *AttributeHandler[T]) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req types.RenameAttributeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item, err := h.attributeService.Create(c.Request.Context(), userID, req.Name)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create resource"})
		return
	}

	c.JSON(http.StatusCreated, AttributeResponse{ID: item.EntityID(), Name: item.EntityName()})
}

// Replace is the full update: name is required.
func (h *AttributeHandler[T]) Replace(c *gin.Context) {
	var req types.RenameAttributeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.rename(c, req.Name)
}

// Update is the partial update: an absent name leaves the row unchanged.
func (h *AttributeHandler[T]) Update(c *gin.Context) {
	var req types.PatchAttributeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	if req.Name == nil {
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "resource not found"})
			return
		}
		item, err := h.attributeService.Get(c.Request.Context(), userID, id)
		if err != nil {
			h.writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, AttributeResponse{ID: item.EntityID(), Name: item.EntityName()})
		return
	}

	h.rename(c, *req.Name)
}

func (h *AttributeHandler[T]) rename(c *gin.Context, name string) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "resource not found"})
		return
	}

	item, err := h.attributeService.Rename(c.Request.Context(), userID, id, name)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, AttributeResponse{ID: item.EntityID(), Name: item.EntityName()})
}

func (h *AttributeHandler[T]) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "resource not found"})
		return
	}

	if err := h.attributeService.Delete(c.Request.Context(), userID, id); err != nil {
		h.writeError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *AttributeHandler[T]) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "resource not found"})
	case errors.Is(err, service.ErrNameTaken):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "operation failed"})
	}
}
