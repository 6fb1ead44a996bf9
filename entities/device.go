package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Device statuses.
const (
	DeviceOnline  = "online"
	DeviceOffline = "offline"
	DeviceIdle    = "idle"
)

// IotDevice is a physical sensor node. DeviceID is the external hardware
// identifier carried in MQTT topics and API routes; ID is the row key.
type IotDevice struct {
	ID        string `gorm:"primaryKey" json:"id"`
	DeviceID  string `gorm:"uniqueIndex;not null" json:"device_id"`
	Name      string `json:"name"`
	Type      string `json:"type"`
	Location  string `json:"location"`
	Status    string `json:"status"`
	LastSeen  string `json:"last_seen"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func (d *IotDevice) BeforeCreate(tx *gorm.DB) (err error) {
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	if d.Status == "" {
		d.Status = DeviceOffline
	}
	d.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	d.UpdatedAt = d.CreatedAt
	return
}

// ValidDeviceStatus reports whether st is a known device status.
func ValidDeviceStatus(st string) bool {
	return st == DeviceOnline || st == DeviceOffline || st == DeviceIdle
}
