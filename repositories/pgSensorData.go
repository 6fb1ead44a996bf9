package repositories

import (
	"smartdrishti-server/db"
	"smartdrishti-server/entities"

	"gorm.io/gorm/clause"
)

type sensorDataPgRepository struct {
	db db.Database
}

func NewSensorDataPgRepository(database db.Database) SensorDataRepository {
	return &sensorDataPgRepository{db: database}
}

func (r *sensorDataPgRepository) Create(data *entities.SensorData) error {
	return r.db.GetDB().Create(data).Error
}

func (r *sensorDataPgRepository) GetRecentByDeviceID(deviceID string, limit int) ([]entities.SensorData, error) {
	var data []entities.SensorData
	err := r.db.GetDB().
		Where("device_id = ?", deviceID).
		Order("timestamp DESC").
		Limit(limit).
		Find(&data).Error
	return data, err
}

func (r *sensorDataPgRepository) GetLatestByDeviceID(deviceID string) (*entities.SensorData, error) {
	var data entities.SensorData
	err := r.db.GetDB().
		Where("device_id = ?", deviceID).
		Order("timestamp DESC").
		First(&data).Error
	if err != nil {
		return nil, err
	}
	return &data, nil
}

// GetBetween returns readings with fromTS <= timestamp < toTS, oldest first.
// RFC3339 strings compare correctly as text within a UTC-only store.
func (r *sensorDataPgRepository) GetBetween(deviceID, fromTS, toTS string) ([]entities.SensorData, error) {
	var data []entities.SensorData
	err := r.db.GetDB().
		Where("device_id = ? AND timestamp >= ? AND timestamp < ?", deviceID, fromTS, toTS).
		Order("timestamp ASC").
		Find(&data).Error
	return data, err
}

type sensorHourlyPgRepository struct {
	db db.Database
}

func NewSensorHourlyPgRepository(database db.Database) SensorHourlyRepository {
	return &sensorHourlyPgRepository{db: database}
}

// Upsert writes the rollup row, replacing any previous aggregate for the
// same device and hour so the job can be re-run safely.
func (r *sensorHourlyPgRepository) Upsert(row *entities.SensorDataHourly) error {
	return r.db.GetDB().Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "device_id"}, {Name: "hour_start"}},
		UpdateAll: true,
	}).Create(row).Error
}

func (r *sensorHourlyPgRepository) GetByDeviceID(deviceID string, limit int) ([]entities.SensorDataHourly, error) {
	var rows []entities.SensorDataHourly
	err := r.db.GetDB().
		Where("device_id = ?", deviceID).
		Order("hour_start DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}
