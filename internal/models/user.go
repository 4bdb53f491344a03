package models

import "time"

// User represents an account in the system. Users authenticate with their
// email address; Password always holds a bcrypt hash, never the plaintext.
type User struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Email       string    `json:"email" gorm:"uniqueIndex;type:varchar(255)" validate:"required,email"`
	Name        string    `json:"name" gorm:"type:varchar(255)" validate:"omitempty,max=255"`
	Password    string    `json:"-" gorm:"type:varchar(255)" validate:"required,min=5"` // Never serialized
	IsActive    bool      `json:"is_active" gorm:"default:true"`
	IsStaff     bool      `json:"is_staff"`
	IsSuperuser bool      `json:"is_superuser"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
