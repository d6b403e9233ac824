package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pantrybox/pantrybox-backend/internal/models"
	"github.com/pantrybox/pantrybox-backend/internal/types"
)

// RecipeService handles owner-scoped recipe operations. Every query is
// filtered by the authenticated caller's id; a row owned by someone else is
// indistinguishable from an absent one.
type RecipeService struct {
	db *gorm.DB
}

func NewRecipeService(db *gorm.DB) *RecipeService {
	return &RecipeService{db: db}
}

// List returns the caller's recipes, newest first.
func (s *RecipeService) List(ctx context.Context, owner uuid.UUID) ([]models.Recipe, error) {
	var recipes []models.Recipe
	err := s.db.WithContext(ctx).
		Preload("Tags").
		Preload("Ingredients").
		Where("user_id = ?", owner).
		Order("created_at DESC, id DESC").
		Find(&recipes).Error
	if err != nil {
		return nil, err
	}
	return recipes, nil
}

// Get retrieves one of the caller's recipes with its relations loaded.
func (s *RecipeService) Get(ctx context.Context, owner, id uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	err := s.db.WithContext(ctx).
		Preload("Tags").
		Preload("Ingredients").
		Where("user_id = ?", owner).
		First(&recipe, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &recipe, nil
}

// Create persists a recipe and attaches its tag/ingredient descriptors in a
// single transaction: either the recipe and all relations commit, or none.
func (s *RecipeService) Create(ctx context.Context, owner uuid.UUID, req *types.CreateRecipeRequest) (*models.Recipe, error) {
	recipe := models.Recipe{
		UserID:      owner,
		Title:       req.Title,
		TimeMinutes: *req.TimeMinutes,
		Price:       *req.Price,
		Description: req.Description,
		Link:        req.Link,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&recipe).Error; err != nil {
			return err
		}
		if err := reconcileAttributes(tx, &recipe, "Tags", attributeNames(req.Tags), newTag); err != nil {
			return err
		}
		return reconcileAttributes(tx, &recipe, "Ingredients", attributeNames(req.Ingredients), newIngredient)
	})
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, owner, recipe.ID)
}

// Update applies a partial or full update. A nil relation list leaves the
// existing set untouched; a non-nil list (including an empty one) clears the
// set first and reconciles the new names. Owner is never part of the
// effective update set.
func (s *RecipeService) Update(ctx context.Context, owner, id uuid.UUID, req *types.UpdateRecipeRequest) (*models.Recipe, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var recipe models.Recipe
		if err := tx.Where("user_id = ?", owner).First(&recipe, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		updates := map[string]interface{}{}
		if req.Title != nil {
			updates["title"] = *req.Title
		}
		if req.TimeMinutes != nil {
			updates["time_minutes"] = *req.TimeMinutes
		}
		if req.Price != nil {
			updates["price"] = *req.Price
		}
		if req.Description != nil {
			updates["description"] = *req.Description
		}
		if req.Link != nil {
			updates["link"] = *req.Link
		}
		if len(updates) > 0 {
			if err := tx.Model(&recipe).Updates(updates).Error; err != nil {
				return err
			}
		}

		if req.Tags != nil {
			if err := tx.Model(&recipe).Association("Tags").Clear(); err != nil {
				return err
			}
			if err := reconcileAttributes(tx, &recipe, "Tags", attributeNames(*req.Tags), newTag); err != nil {
				return err
			}
		}
		if req.Ingredients != nil {
			if err := tx.Model(&recipe).Association("Ingredients").Clear(); err != nil {
				return err
			}
			if err := reconcileAttributes(tx, &recipe, "Ingredients", attributeNames(*req.Ingredients), newIngredient); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, owner, id)
}

// Delete removes one of the caller's recipes and its join rows. It returns
// the recipe's stored image reference so the caller can clean up storage.
func (s *RecipeService) Delete(ctx context.Context, owner, id uuid.UUID) (string, error) {
	var imageURL string
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var recipe models.Recipe
		if err := tx.Where("user_id = ?", owner).First(&recipe, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		imageURL = recipe.ImageURL

		if err := tx.Model(&recipe).Association("Tags").Clear(); err != nil {
			return err
		}
		if err := tx.Model(&recipe).Association("Ingredients").Clear(); err != nil {
			return err
		}
		return tx.Delete(&recipe).Error
	})
	return imageURL, err
}

// SetImage stores a new image reference on the recipe and returns the prior
// one, if any.
func (s *RecipeService) SetImage(ctx context.Context, owner, id uuid.UUID, imageURL string) (string, error) {
	var previous string
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var recipe models.Recipe
		if err := tx.Where("user_id = ?", owner).First(&recipe, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		previous = recipe.ImageURL
		return tx.Model(&recipe).Update("image_url", imageURL).Error
	})
	return previous, err
}

func attributeNames(inputs []types.AttributeInput) []string {
	names := make([]string, 0, len(inputs))
	for _, in := range inputs {
		names = append(names, in.Name)
	}
	return names
}
