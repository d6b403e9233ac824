package api

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pantrybox/pantrybox-backend/internal/models"
)

// AttributeResponse is the wire shape for tags and ingredients.
type AttributeResponse struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// RecipeSummary is the reduced recipe shape used by list responses. It
// deliberately omits the description.
type RecipeSummary struct {
	ID          uuid.UUID           `json:"id"`
	Title       string              `json:"title"`
	TimeMinutes int                 `json:"time_minutes"`
	Price       decimal.Decimal     `json:"price"`
	Link        string              `json:"link"`
	ImageURL    string              `json:"image_url"`
	Tags        []AttributeResponse `json:"tags"`
	Ingredients []AttributeResponse `json:"ingredients"`
}

// RecipeDetail is the full recipe shape used by detail, create and update
// responses.
type RecipeDetail struct {
	RecipeSummary
	Description string `json:"description"`
}

func newAttributeResponses[T interface {
	EntityID() uuid.UUID
	EntityName() string
}](items []T) []AttributeResponse {
	out := make([]AttributeResponse, 0, len(items))
	for _, item := range items {
		out = append(out, AttributeResponse{ID: item.EntityID(), Name: item.EntityName()})
	}
	return out
}

func newRecipeSummary(recipe *models.Recipe) RecipeSummary {
	return RecipeSummary{
		ID:          recipe.ID,
		Title:       recipe.Title,
		TimeMinutes: recipe.TimeMinutes,
		Price:       recipe.Price,
		Link:        recipe.Link,
		ImageURL:    recipe.ImageURL,
		Tags:        newAttributeResponses(recipe.Tags),
		Ingredients: newAttributeResponses(recipe.Ingredients),
	}
}

func newRecipeDetail(recipe *models.Recipe) RecipeDetail {
	return RecipeDetail{
		RecipeSummary: newRecipeSummary(recipe),
		Description:   recipe.Description,
	}
}

// currentUserID reads the authenticated caller's id stored by the auth
// middleware.
func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	value, exists := c.Get("user_id")
	if !exists {
		return uuid.Nil, false
	}
	id, ok := value.(uuid.UUID)
	return id, ok
}
