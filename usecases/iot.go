package usecases

import (
	"errors"
	"fmt"
	"time"

	"smartdrishti-server/cache"
	"smartdrishti-server/entities"
	"smartdrishti-server/repositories"

	"gorm.io/gorm"
)

// Broadcaster pushes live updates to connected dashboard clients. The ingest
// path receives it explicitly instead of reaching into a process global.
type Broadcaster interface {
	SensorDataUpdate(deviceID string, data *entities.SensorData)
	AllDevicesUpdate(devices []entities.IotDevice)
}

// NopBroadcaster satisfies Broadcaster when no socket server is wired in.
type NopBroadcaster struct{}

func (NopBroadcaster) SensorDataUpdate(string, *entities.SensorData) {}
func (NopBroadcaster) AllDevicesUpdate([]entities.IotDevice)         {}

type IotUseCase struct {
	DeviceRepo repositories.DeviceRepository
	SensorRepo repositories.SensorDataRepository
	HourlyRepo repositories.SensorHourlyRepository
	broadcast  Broadcaster
	latest     *cache.LatestCache
}

func NewIotUseCase(deviceRepo repositories.DeviceRepository, sensorRepo repositories.SensorDataRepository, hourlyRepo repositories.SensorHourlyRepository, broadcast Broadcaster, latest *cache.LatestCache) *IotUseCase {
	if broadcast == nil {
		broadcast = NopBroadcaster{}
	}
	return &IotUseCase{
		DeviceRepo: deviceRepo,
		SensorRepo: sensorRepo,
		HourlyRepo: hourlyRepo,
		broadcast:  broadcast,
		latest:     latest,
	}
}

// RegisterDevice explicitly registers a device ahead of its first reading.
func (uc *IotUseCase) RegisterDevice(device *entities.IotDevice) error {
	if device.DeviceID == "" {
		return fmt.Errorf("device_id is required: %w", ErrInvalid)
	}
	if device.Status != "" && !entities.ValidDeviceStatus(device.Status) {
		return fmt.Errorf("status must be online, offline or idle: %w", ErrInvalid)
	}
	if _, err := uc.DeviceRepo.GetByDeviceID(device.DeviceID); err == nil {
		return fmt.Errorf("device %w", ErrDuplicate)
	}
	if device.Name == "" {
		device.Name = device.DeviceID
	}
	return uc.DeviceRepo.Create(device)
}

// GetAllDevices lists every registered device.
func (uc *IotUseCase) GetAllDevices() ([]entities.IotDevice, error) {
	return uc.DeviceRepo.GetAll()
}

// GetDevice returns one device by its external id.
func (uc *IotUseCase) GetDevice(deviceID string) (*entities.IotDevice, error) {
	if deviceID == "" {
		return nil, fmt.Errorf("device_id is required: %w", ErrInvalid)
	}
	device, err := uc.DeviceRepo.GetByDeviceID(deviceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("device %w", ErrNotFound)
		}
		return nil, err
	}
	return device, nil
}

// UpdateDeviceStatus sets the device status and refreshes last_seen.
func (uc *IotUseCase) UpdateDeviceStatus(deviceID, status string) (*entities.IotDevice, error) {
	if !entities.ValidDeviceStatus(status) {
		return nil, fmt.Errorf("status must be online, offline or idle: %w", ErrInvalid)
	}
	device, err := uc.GetDevice(deviceID)
	if err != nil {
		return nil, err
	}
	device.Status = status
	device.LastSeen = time.Now().UTC().Format(time.RFC3339)
	if err := uc.DeviceRepo.Update(device); err != nil {
		return nil, err
	}
	uc.broadcastDevices()
	return device, nil
}

// DeleteDevice removes a device and every reading it produced.
func (uc *IotUseCase) DeleteDevice(deviceID string) error {
	if _, err := uc.GetDevice(deviceID); err != nil {
		return err
	}
	return uc.DeviceRepo.Delete(deviceID)
}

// IngestReading stores a sensor reading. A previously unseen device id is
// auto-created with status online before the row is inserted; a known device
// is marked online and its last_seen refreshed. Connected clients get the
// reading pushed over WebSocket.
func (uc *IotUseCase) IngestReading(data *entities.SensorData) error {
	if data.DeviceID == "" {
		return fmt.Errorf("device_id is required: %w", ErrInvalid)
	}

	now := time.Now().UTC().Format(time.RFC3339)
	device, err := uc.DeviceRepo.GetByDeviceID(data.DeviceID)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		device = &entities.IotDevice{
			DeviceID: data.DeviceID,
			Name:     data.DeviceID,
			Status:   entities.DeviceOnline,
			LastSeen: now,
		}
		if err := uc.DeviceRepo.Create(device); err != nil {
			return err
		}
	case err != nil:
		return err
	default:
		device.Status = entities.DeviceOnline
		device.LastSeen = now
		if err := uc.DeviceRepo.Update(device); err != nil {
			return err
		}
	}

	if err := uc.SensorRepo.Create(data); err != nil {
		return err
	}

	if uc.latest != nil {
		uc.latest.Put(*data)
	}
	uc.broadcast.SensorDataUpdate(data.DeviceID, data)
	uc.broadcastDevices()
	return nil
}

// GetRecentReadings returns the newest readings, newest first.
func (uc *IotUseCase) GetRecentReadings(deviceID string, limit int) ([]entities.SensorData, error) {
	if _, err := uc.GetDevice(deviceID); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 1000 {
		limit = 100
	}
	return uc.SensorRepo.GetRecentByDeviceID(deviceID, limit)
}

// GetLatestReading answers from the in-memory cache when it can.
func (uc *IotUseCase) GetLatestReading(deviceID string) (*entities.SensorData, error) {
	if uc.latest != nil {
		if r, ok := uc.latest.Get(deviceID); ok {
			return &r.Data, nil
		}
	}
	data, err := uc.SensorRepo.GetLatestByDeviceID(deviceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("sensor data %w", ErrNotFound)
		}
		return nil, err
	}
	return data, nil
}

// GetAggregated returns hourly rollup rows, newest hour first.
func (uc *IotUseCase) GetAggregated(deviceID string, limit int) ([]entities.SensorDataHourly, error) {
	if _, err := uc.GetDevice(deviceID); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 720 {
		limit = 24
	}
	return uc.HourlyRepo.GetByDeviceID(deviceID, limit)
}

// CacheStats exposes latest-reading cache counters.
func (uc *IotUseCase) CacheStats() map[string]interface{} {
	if uc.latest == nil {
		return map[string]interface{}{"devices": 0}
	}
	return uc.latest.Stats()
}

func (uc *IotUseCase) broadcastDevices() {
	devices, err := uc.DeviceRepo.GetAll()
	if err != nil {
		return
	}
	uc.broadcast.AllDevicesUpdate(devices)
}
