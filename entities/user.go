package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User owns projects. Rows are never hard-deleted.
type User struct {
	ID           string `gorm:"primaryKey" json:"id"`
	Username     string `gorm:"unique;not null" json:"username"`
	Email        string `gorm:"unique;not null" json:"email"`
	PasswordHash string `gorm:"not null" json:"-"`
	Role         string `json:"role"` // student, instructor, admin
	CreatedAt    string `json:"created_at"`
	UpdatedAt    string `json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	if u.Role == "" {
		u.Role = "student"
	}
	u.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	u.UpdatedAt = u.CreatedAt
	return
}
