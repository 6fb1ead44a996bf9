package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Project is a guided IoT learning project made of ordered steps.
// Progress is always computed from step rows, never stored here.
type Project struct {
	ID            string `gorm:"primaryKey" json:"id"`
	UserID        string `gorm:"index" json:"user_id"` // empty for ownerless seed rows
	Title         string `gorm:"not null" json:"title"`
	Difficulty    string `json:"difficulty"` // Easy, Medium, Hard
	EstimatedTime string `json:"estimated_time"`
	Description   string `json:"description"`
	IsDemo        bool   `gorm:"index" json:"is_demo"`
	CreatedAt     string `json:"created_at"`
	UpdatedAt     string `json:"updated_at"`

	Steps []Step `gorm:"foreignKey:ProjectID" json:"steps,omitempty"`
}

func (p *Project) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	p.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	p.UpdatedAt = p.CreatedAt
	return
}
