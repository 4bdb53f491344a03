package models

// Ingredient is a user-owned named item referenced by recipes.
type Ingredient struct {
	ID     uint   `json:"id" gorm:"primaryKey"`
	Name   string `json:"name" gorm:"type:varchar(255)" validate:"required,max=255"`
	UserID uint   `json:"-" gorm:"index;not null"`
}
