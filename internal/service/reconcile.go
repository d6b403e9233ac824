package service

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pantrybox/pantrybox-backend/internal/models"
)

// OwnedAttribute constrains the generic attribute plumbing to the two
// user-scoped name entities.
type OwnedAttribute interface {
	models.Tag | models.Ingredient
	EntityID() uuid.UUID
	EntityName() string
}

func newTag(owner uuid.UUID, name string) models.Tag {
	return models.Tag{UserID: owner, Name: name}
}

func newIngredient(owner uuid.UUID, name string) models.Ingredient {
	return models.Ingredient{UserID: owner, Name: name}
}

// getOrCreate resolves (owner, name) to exactly one row. The insert relies
// on the (user_id, name) unique constraint: losing a concurrent race for a
// brand-new name surfaces as a duplicate-key error, which is resolved by
// fetching the winner's row instead of failing.
func getOrCreate[T OwnedAttribute](tx *gorm.DB, owner uuid.UUID, name string, build func(uuid.UUID, string) T) (T, error) {
	var existing T
	err := tx.Where("user_id = ? AND name = ?", owner, name).First(&existing).Error
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return existing, err
	}

	created := build(owner, name)
	// The insert runs under a savepoint so a duplicate-key failure does not
	// poison the enclosing transaction on postgres.
	err = tx.Transaction(func(inner *gorm.DB) error {
		return inner.Create(&created).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			err = tx.Where("user_id = ? AND name = ?", owner, name).First(&existing).Error
			return existing, err
		}
		return created, err
	}
	return created, nil
}

// reconcileAttributes attaches every named attribute to the recipe,
// get-or-creating rows as needed. It is additive: clearing a stale relation
// set is the caller's responsibility.
func reconcileAttributes[T OwnedAttribute](tx *gorm.DB, recipe *models.Recipe, assoc string, names []string, build func(uuid.UUID, string) T) error {
	for _, name := range names {
		item, err := getOrCreate(tx, recipe.UserID, name, build)
		if err != nil {
			return err
		}
		if err := tx.Model(recipe).Association(assoc).Append(&item); err != nil {
			return err
		}
	}
	return nil
}
