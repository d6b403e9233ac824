package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Tag is a user-scoped label. Names are unique per owner, never shared
// across users.
type Tag struct {
	ID        uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	UserID    uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:idx_tags_user_name" json:"user_id"`
	Name      string    `gorm:"size:255;not null;uniqueIndex:idx_tags_user_name" json:"name"`
	Recipes   []Recipe  `gorm:"many2many:recipe_tags;" json:"-"`
}

func (t *Tag) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

func (t Tag) EntityID() uuid.UUID { return t.ID }
func (t Tag) EntityName() string  { return t.Name }
