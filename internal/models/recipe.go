package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Recipe struct {
	ID          uuid.UUID       `gorm:"type:varchar(36);primarykey" json:"id"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	DeletedAt   gorm.DeletedAt  `gorm:"index" json:"-"`
	UserID      uuid.UUID       `gorm:"type:varchar(36);not null;index" json:"user_id"`
	Title       string          `gorm:"size:255;not null" json:"title"`
	TimeMinutes int             `gorm:"not null;check:time_minutes >= 0" json:"time_minutes"`
	Price       decimal.Decimal `gorm:"type:numeric(8,2);not null" json:"price"`
	Description string          `gorm:"type:text" json:"description"`
	Link        string          `gorm:"size:255" json:"link"`
	ImageURL    string          `gorm:"size:255" json:"image_url"`
	Tags        []Tag           `gorm:"many2many:recipe_tags;" json:"tags"`
	Ingredients []Ingredient    `gorm:"many2many:recipe_ingredients;" json:"ingredients"`
}

func (r *Recipe) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
