package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pantrybox/pantrybox-backend/internal/models"
)

// AttributeService is the shared owner-scoped implementation behind tags and
// ingredients. The two resources are structurally identical, so one generic
// service parameterized over the entity type replaces two copies.
type AttributeService[T OwnedAttribute] struct {
	db    *gorm.DB
	assoc string
	build func(uuid.UUID, string) T
}

func NewTagService(db *gorm.DB) *AttributeService[models.Tag] {
	return &AttributeService[models.Tag]{db: db, assoc: "Recipes", build: newTag}
}

func NewIngredientService(db *gorm.DB) *AttributeService[models.Ingredient] {
	return &AttributeService[models.Ingredient]{db: db, assoc: "Recipes", build: newIngredient}
}

// List returns the caller's attributes in descending name order.
func (s *AttributeService[T]) List(ctx context.Context, owner uuid.UUID) ([]T, error) {
	var items []T
	err := s.db.WithContext(ctx).
		Where("user_id = ?", owner).
		Order("name DESC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// Create get-or-creates an attribute for the caller. Posting a name the
// owner already uses returns the existing row rather than a duplicate.
func (s *AttributeService[T]) Create(ctx context.Context, owner uuid.UUID, name string) (T, error) {
	return getOrCreate(s.db.WithContext(ctx), owner, name, s.build)
}

// Get retrieves one of the caller's attributes by id.
func (s *AttributeService[T]) Get(ctx context.Context, owner, id uuid.UUID) (T, error) {
	var item T
	err := s.db.WithContext(ctx).
		Where("user_id = ?", owner).
		First(&item, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return item, ErrNotFound
		}
		return item, err
	}
	return item, nil
}

// Rename updates the attribute's name within the caller's scope.
func (s *AttributeService[T]) Rename(ctx context.Context, owner, id uuid.UUID, name string) (T, error) {
	item, err := s.Get(ctx, owner, id)
	if err != nil {
		return item, err
	}

	err = s.db.WithContext(ctx).Model(&item).Update("name", name).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return item, ErrNameTaken
		}
		return item, err
	}
	return s.Get(ctx, owner, id)
}

// Delete detaches the attribute from every recipe referencing it, then
// removes the row. Recipes themselves are never cascaded.
func (s *AttributeService[T]) Delete(ctx context.Context, owner, id uuid.UUID) error {
	item, err := s.Get(ctx, owner, id)
	if err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&item).Association(s.assoc).Clear(); err != nil {
			return err
		}
		return tx.Delete(&item).Error
	})
}
