package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Ingredient mirrors Tag: a user-scoped name, unique per owner.
type Ingredient struct {
	ID        uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	UserID    uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:idx_ingredients_user_name" json:"user_id"`
	Name      string    `gorm:"size:255;not null;uniqueIndex:idx_ingredients_user_name" json:"name"`
	Recipes   []Recipe  `gorm:"many2many:recipe_ingredients;" json:"-"`
}

func (i *Ingredient) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

func (i Ingredient) EntityID() uuid.UUID { return i.ID }
func (i Ingredient) EntityName() string  { return i.Name }
