package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SensorData is an append-only reading from a device.
type SensorData struct {
	ID             string  `gorm:"primaryKey" json:"id"`
	DeviceID       string  `gorm:"index;not null" json:"device_id"`
	Temperature    float64 `json:"temperature"`
	Humidity       float64 `json:"humidity"`
	Pressure       float64 `json:"pressure"`
	LightLevel     float64 `json:"light_level"`
	MotionDetected bool    `json:"motion_detected"`
	Timestamp      string  `gorm:"index" json:"timestamp"`
	CreatedAt      string  `json:"created_at"`
}

func (s *SensorData) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	now := time.Now().UTC().Format(time.RFC3339)
	if s.Timestamp == "" {
		s.Timestamp = now
	}
	s.CreatedAt = now
	return
}
