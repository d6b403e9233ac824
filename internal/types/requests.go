package types

import "github.com/shopspring/decimal"

// RegisterRequest is the payload for user registration.
type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// LoginRequest is the payload for user login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AttributeInput is a bare relation descriptor: just a name. Recipes carry
// lists of these for tags and ingredients; ids are never accepted on write.
type AttributeInput struct {
	Name string `json:"name" binding:"required"`
}

// CreateRecipeRequest is the payload for recipe creation.
type CreateRecipeRequest struct {
	Title       string           `json:"title" binding:"required"`
	TimeMinutes *int             `json:"time_minutes" binding:"required,min=0"`
	Price       *decimal.Decimal `json:"price" binding:"required"`
	Description string           `json:"description"`
	Link        string           `json:"link" binding:"omitempty,url"`
	Tags        []AttributeInput `json:"tags" binding:"omitempty,dive"`
	Ingredients []AttributeInput `json:"ingredients" binding:"omitempty,dive"`
}

// UpdateRecipeRequest is the payload for recipe updates. Every field is a
// pointer so an absent key is distinguishable from a zero value: a nil Tags
// leaves the relation set untouched, an empty non-nil Tags detaches all.
type UpdateRecipeRequest struct {
	Title       *string           `json:"title"`
	TimeMinutes *int              `json:"time_minutes" binding:"omitempty,min=0"`
	Price       *decimal.Decimal  `json:"price"`
	Description *string           `json:"description"`
	Link        *string           `json:"link" binding:"omitempty,url"`
	Tags        *[]AttributeInput `json:"tags" binding:"omitempty,dive"`
	Ingredients *[]AttributeInput `json:"ingredients" binding:"omitempty,dive"`
}

// ReplaceRecipeRequest is the full-update payload: required fields must be
// present, optional fields and relation lists keep the absent-vs-empty
// distinction.
type ReplaceRecipeRequest struct {
	Title       string            `json:"title" binding:"required"`
	TimeMinutes *int              `json:"time_minutes" binding:"required,min=0"`
	Price       *decimal.Decimal  `json:"price" binding:"required"`
	Description *string           `json:"description"`
	Link        *string           `json:"link" binding:"omitempty,url"`
	Tags        *[]AttributeInput `json:"tags" binding:"omitempty,dive"`
	Ingredients *[]AttributeInput `json:"ingredients" binding:"omitempty,dive"`
}

// ToUpdate converts a full-update payload into the shared update form.
func (r *ReplaceRecipeRequest) ToUpdate() *UpdateRecipeRequest {
	return &UpdateRecipeRequest{
		Title:       &r.Title,
		TimeMinutes: r.TimeMinutes,
		Price:       r.Price,
		Description: r.Description,
		Link:        r.Link,
		Tags:        r.Tags,
		Ingredients: r.Ingredients,
	}
}

// RenameAttributeRequest is the full-update payload for tags/ingredients.
type RenameAttributeRequest struct {
	Name string `json:"name" binding:"required"`
}

// PatchAttributeRequest is the partial-update payload for tags/ingredients.
type PatchAttributeRequest struct {
	Name *string `json:"name"`
}
