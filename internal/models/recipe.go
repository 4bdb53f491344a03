package models

import "time"

// Recipe belongs to exactly one user and references tags and ingredients
// through join tables. The associations are non-owning: deleting a tag or an
// ingredient only removes the link, never the recipe.
type Recipe struct {
	ID          uint         `json:"id" gorm:"primaryKey"`
	UserID      uint         `json:"-" gorm:"index;not null"`
	Title       string       `json:"title" gorm:"type:varchar(255)" validate:"required,max=255"`
	TimeMinutes int          `json:"time_minutes" validate:"gte=0"`
	Price       float64      `json:"price" gorm:"type:decimal(5,2)" validate:"gte=0"`
	Link        string       `json:"link" gorm:"type:varchar(255)" validate:"omitempty,max=255"`
	Image       string       `json:"image" gorm:"type:varchar(255)"`
	Tags        []Tag        `json:"tags" gorm:"many2many:recipe_tags;"`
	Ingredients []Ingredient `json:"ingredients" gorm:"many2many:recipe_ingredients;"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}
