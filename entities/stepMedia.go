package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type StepMedia struct {
	ID        string `gorm:"primaryKey" json:"id"`
	StepID    string `gorm:"index;not null" json:"step_id"`
	MediaType string `json:"media_type"` // image, video
	MediaURL  string `json:"media_url"`
	CreatedAt string `json:"created_at"`
}

func (m *StepMedia) BeforeCreate(tx *gorm.DB) (err error) {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	m.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	return
}

// ValidMediaType reports whether t is a supported media type.
func ValidMediaType(t string) bool {
	return t == "image" || t == "video"
}
