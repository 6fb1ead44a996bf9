package entities

// SensorDataHourly is the per-device hourly rollup written by the rollup job.
// One row per (device_id, hour_start); reruns upsert in place.
type SensorDataHourly struct {
	DeviceID       string  `gorm:"primaryKey" json:"device_id"`
	HourStart      string  `gorm:"primaryKey" json:"hour_start"`
	AvgTemperature float64 `json:"avg_temperature"`
	MinTemperature float64 `json:"min_temperature"`
	MaxTemperature float64 `json:"max_temperature"`
	AvgHumidity    float64 `json:"avg_humidity"`
	AvgPressure    float64 `json:"avg_pressure"`
	AvgLightLevel  float64 `json:"avg_light_level"`
	MotionEvents   int     `json:"motion_events"`
	DataPoints     int     `json:"data_points"`
}

func (SensorDataHourly) TableName() string { return "sensor_data_hourly" }
