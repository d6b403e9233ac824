package api

import (
	"bytes"
	"errors"
	"io"
	"log"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pantrybox/pantrybox-backend/internal/service"
	"github.com/pantrybox/pantrybox-backend/internal/types"
)

type RecipeHandler struct {
	recipeService *service.RecipeService
	storage       service.ImageStorage
}

func NewRecipeHandler(recipeService *service.RecipeService, storage service.ImageStorage) *RecipeHandler {
	return &RecipeHandler{
		recipeService: recipeService,
		storage:       storage,
	}
}

func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	recipes := router.Group("/recipes")
	{
		recipes.GET("", h.ListRecipes)
		recipes.POST("", h.CreateRecipe)
		recipes.GET("/:id", h.GetRecipe)
		recipes.PUT("/:id", h.ReplaceRecipe)
		recipes.PATCH("/:id", h.UpdateRecipe)
		recipes.DELETE("/:id", h.DeleteRecipe)
		recipes.POST("/:id/image", h.UploadImage)
	}
}

func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	recipes, err := h.recipeService.List(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch recipes"})
		return
	}

	summaries := make([]RecipeSummary, 0, len(recipes))
	for i := range recipes {
		summaries = append(summaries, newRecipeSummary(&recipes[i]))
	}

	c.JSON(http.StatusOK, gin.H{"recipes": summaries})
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "recipe not found"})
		return
	}

	recipe, err := h.recipeService.Get(c.Request.Context(), userID, id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "recipe not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch recipe"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"recipe": newRecipeDetail(recipe)})
}

func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req types.CreateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	recipe, err := h.recipeService.Create(c.Request.Context(), userID, &req)
	if err != nil {
		log.Printf("failed to create recipe: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create recipe"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"recipe": newRecipeDetail(recipe)})
}

// ReplaceRecipe handles full updates: required fields must be present.
// Relation lists keep update semantics (absent = untouched, empty =
// detach all). Any owner field in the payload is ignored.
func (h *RecipeHandler) ReplaceRecipe(c *gin.Context) {
	var req types.ReplaceRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.applyUpdate(c, req.ToUpdate())
}

// UpdateRecipe handles partial updates: any subset of fields may be
// present.
func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	var req types.UpdateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.applyUpdate(c, &req)
}

func (h *RecipeHandler) applyUpdate(c *gin.Context, req *types.UpdateRecipeRequest) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "recipe not found"})
		return
	}

	recipe, err := h.recipeService.Update(c.Request.Context(), userID, id, req)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "recipe not found"})
			return
		}
		log.Printf("failed to update recipe %s: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update recipe"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"recipe": newRecipeDetail(recipe)})
}

func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "recipe not found"})
		return
	}

	imageURL, err := h.recipeService.Delete(c.Request.Context(), userID, id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "recipe not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete recipe"})
		return
	}

	if imageURL != "" && h.storage != nil {
		if err := h.storage.Delete(c.Request.Context(), imageURL); err != nil {
			log.Printf("failed to delete image for recipe %s: %v", id, err)
		}
	}

	c.Status(http.StatusNoContent)
}

// UploadImage attaches an image to a recipe. The payload must be a single
// multipart file field named "image" that sniffs as an image type.
func (h *RecipeHandler) UploadImage(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "recipe not found"})
		return
	}

	// Scope check before touching the payload.
	if _, err := h.recipeService.Get(c.Request.Context(), userID, id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "recipe not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch recipe"})
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image file is required"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read image file"})
		return
	}
	defer file.Close()

	head := make([]byte, 512)
	n, err := io.ReadFull(file, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read image file"})
		return
	}
	head = head[:n]

	contentType := http.DetectContentType(head)
	if !strings.HasPrefix(contentType, "image/") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "uploaded file is not an image"})
		return
	}

	ext := filepath.Ext(fileHeader.Filename)
	if ext == "" {
		ext = "." + strings.TrimPrefix(contentType, "image/")
	}
	key := "recipes/" + id.String() + "/" + uuid.New().String() + ext

	body := io.MultiReader(bytes.NewReader(head), file)
	location, err := h.storage.Upload(c.Request.Context(), key, contentType, body)
	if err != nil {
		log.Printf("failed to upload image for recipe %s: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store image"})
		return
	}

	previous, err := h.recipeService.SetImage(c.Request.Context(), userID, id, location)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update recipe image"})
		return
	}

	if previous != "" {
		if err := h.storage.Delete(c.Request.Context(), previous); err != nil {
			log.Printf("failed to delete replaced image for recipe %s: %v", id, err)
		}
	}

	c.JSON(http.StatusOK, gin.H{"id": id, "image_url": location})
}
