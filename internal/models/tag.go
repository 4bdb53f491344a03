package models

// Tag is a user-owned label attached to recipes.
type Tag struct {
	ID     uint   `json:"id" gorm:"primaryKey"`
	Name   string `json:"name" gorm:"type:varchar(255)" validate:"required,max=255"`
	UserID uint   `json:"-" gorm:"index;not null"`
}
