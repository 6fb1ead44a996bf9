package usecases

import (
	"fmt"

	"smartdrishti-server/repositories"
)

// Risk levels produced by the maintenance analysis.
const (
	RiskLow     = "low"
	RiskMedium  = "medium"
	RiskHigh    = "high"
	RiskUnknown = "unknown"
)

const (
	maintenanceSampleSize = 100
	minSamplesForAnalysis = 20
)

// RiskReport classifies a device's recent thermal behaviour. This is a fixed
// threshold heuristic over the last readings, not a learned model.
type RiskReport struct {
	DeviceID        string  `json:"device_id"`
	RiskLevel       string  `json:"risk_level"`
	MeanTemperature float64 `json:"mean_temperature"`
	Variance        float64 `json:"variance"`
	RecentMean      float64 `json:"recent_mean"`
	BaselineMean    float64 `json:"baseline_mean"`
	TrendDelta      float64 `json:"trend_delta"`
	SampleCount     int     `json:"sample_count"`
}

type MaintenanceUseCase struct {
	SensorRepo repositories.SensorDataRepository
}

func NewMaintenanceUseCase(sensorRepo repositories.SensorDataRepository) *MaintenanceUseCase {
	return &MaintenanceUseCase{SensorRepo: sensorRepo}
}

// AnalyzeDevice classifies the device from its last 100 readings.
func (uc *MaintenanceUseCase) AnalyzeDevice(deviceID string) (*RiskReport, error) {
	if deviceID == "" {
		return nil, fmt.Errorf("device_id is required: %w", ErrInvalid)
	}
	readings, err := uc.SensorRepo.GetRecentByDeviceID(deviceID, maintenanceSampleSize)
	if err != nil {
		return nil, err
	}
	if len(readings) == 0 {
		return nil, fmt.Errorf("sensor data %w", ErrNotFound)
	}

	temps := make([]float64, len(readings))
	for i, r := range readings {
		temps[i] = r.Temperature
	}

	report := assessRisk(temps)
	report.DeviceID = deviceID
	return &report, nil
}

// assessRisk expects temperatures ordered most recent first. Variance over
// the full sample flags instability; the mean of the 5 newest readings
// against the mean of samples 5-20 flags an upward trend.
func assessRisk(temps []float64) RiskReport {
	report := RiskReport{SampleCount: len(temps)}

	report.MeanTemperature = mean(temps)
	report.Variance = variance(temps, report.MeanTemperature)

	if len(temps) < minSamplesForAnalysis {
		report.RiskLevel = RiskUnknown
		return report
	}

	report.RecentMean = mean(temps[:5])
	report.BaselineMean = mean(temps[5:20])
	report.TrendDelta = report.RecentMean - report.BaselineMean

	switch {
	case report.Variance > 25 || report.TrendDelta > 5:
		report.RiskLevel = RiskHigh
	case report.Variance > 10 || report.TrendDelta > 2:
		report.RiskLevel = RiskMedium
	default:
		report.RiskLevel = RiskLow
	}
	return report
}

func mean(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	var sum float64
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}

func variance(vals []float64, m float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	var sum float64
	for _, v := range vals {
		d := v - m
		sum += d * d
	}
	return sum / float64(len(vals))
}
