package repositories

import (
	"time"

	"smartdrishti-server/db"
	"smartdrishti-server/entities"

	"gorm.io/gorm"
)

type devicePgRepository struct {
	db db.Database
}

func NewDevicePgRepository(database db.Database) DeviceRepository {
	return &devicePgRepository{db: database}
}

func (r *devicePgRepository) Create(device *entities.IotDevice) error {
	return r.db.GetDB().Create(device).Error
}

func (r *devicePgRepository) GetByDeviceID(deviceID string) (*entities.IotDevice, error) {
	var device entities.IotDevice
	err := r.db.GetDB().Where("device_id = ?", deviceID).First(&device).Error
	if err != nil {
		return nil, err
	}
	return &device, nil
}

func (r *devicePgRepository) GetAll() ([]entities.IotDevice, error) {
	var devices []entities.IotDevice
	err := r.db.GetDB().Order("created_at DESC").Find(&devices).Error
	return devices, err
}

func (r *devicePgRepository) Update(device *entities.IotDevice) error {
	device.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
	return r.db.GetDB().Save(device).Error
}

// Delete removes the device and its sensor rows together.
func (r *devicePgRepository) Delete(deviceID string) error {
	return r.db.GetDB().Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("device_id = ?", deviceID).Delete(&entities.SensorData{}).Error; err != nil {
			return err
		}
		if err := tx.Where("device_id = ?", deviceID).Delete(&entities.SensorDataHourly{}).Error; err != nil {
			return err
		}
		return tx.Where("device_id = ?", deviceID).Delete(&entities.IotDevice{}).Error
	})
}
