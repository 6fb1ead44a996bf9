package services

import (
	"time"

	"smartdrishti-server/entities"
	"smartdrishti-server/logger"
	"smartdrishti-server/repositories"

	"go.uber.org/zap"
)

// RollupService periodically aggregates sensor readings into the
// sensor_data_hourly table. Upserts keyed by (device_id, hour_start) make
// every run idempotent, so overlapping intervals are harmless.
type RollupService struct {
	devices  repositories.DeviceRepository
	sensor   repositories.SensorDataRepository
	hourly   repositories.SensorHourlyRepository
	interval time.Duration
	stop     chan struct{}
}

func NewRollupService(devices repositories.DeviceRepository, sensor repositories.SensorDataRepository, hourly repositories.SensorHourlyRepository, interval time.Duration) *RollupService {
	return &RollupService{
		devices:  devices,
		sensor:   sensor,
		hourly:   hourly,
		interval: interval,
		stop:     make(chan struct{}),
	}
}

// Start runs the rollup loop in the background.
func (s *RollupService) Start() {
	ticker := time.NewTicker(s.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.Run(time.Now().UTC())
			case <-s.stop:
				return
			}
		}
	}()
}

// Stop ends the rollup loop.
func (s *RollupService) Stop() {
	close(s.stop)
}

// Run aggregates the last fully elapsed hour for every device.
func (s *RollupService) Run(now time.Time) {
	hourStart := now.Truncate(time.Hour).Add(-time.Hour)

	devices, err := s.devices.GetAll()
	if err != nil {
		logger.Error("rollup: failed to list devices", zap.Error(err))
		return
	}

	rolled := 0
	for _, d := range devices {
		n, err := s.AggregateHour(d.DeviceID, hourStart)
		if err != nil {
			logger.Error("rollup failed", zap.String("device_id", d.DeviceID), zap.Error(err))
			continue
		}
		if n > 0 {
			rolled++
		}
	}
	if rolled > 0 {
		logger.Info("hourly rollup complete",
			zap.Time("hour_start", hourStart),
			zap.Int("devices", rolled))
	}
}

// AggregateHour rolls one device's readings for [hourStart, hourStart+1h)
// into a single row. Returns the number of readings aggregated; an hour with
// no readings writes nothing.
func (s *RollupService) AggregateHour(deviceID string, hourStart time.Time) (int, error) {
	from := hourStart.UTC().Format(time.RFC3339)
	to := hourStart.UTC().Add(time.Hour).Format(time.RFC3339)

	readings, err := s.sensor.GetBetween(deviceID, from, to)
	if err != nil {
		return 0, err
	}
	if len(readings) == 0 {
		return 0, nil
	}

	row := entities.SensorDataHourly{
		DeviceID:       deviceID,
		HourStart:      from,
		MinTemperature: readings[0].Temperature,
		MaxTemperature: readings[0].Temperature,
		DataPoints:     len(readings),
	}

	var sumTemp, sumHumidity, sumPressure, sumLight float64
	for _, r := range readings {
		sumTemp += r.Temperature
		sumHumidity += r.Humidity
		sumPressure += r.Pressure
		sumLight += r.LightLevel
		if r.Temperature < row.MinTemperature {
			row.MinTemperature = r.Temperature
		}
		if r.Temperature > row.MaxTemperature {
			row.MaxTemperature = r.Temperature
		}
		if r.MotionDetected {
			row.MotionEvents++
		}
	}
	n := float64(len(readings))
	row.AvgTemperature = sumTemp / n
	row.AvgHumidity = sumHumidity / n
	row.AvgPressure = sumPressure / n
	row.AvgLightLevel = sumLight / n

	if err := s.hourly.Upsert(&row); err != nil {
		return 0, err
	}
	return len(readings), nil
}
